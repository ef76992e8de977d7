// Package extractor parses the generation service's free-text analysis
// output into typed findings and scores.
//
// The upstream text is prose with loose, inconsistently-capitalized
// markdown conventions, not a machine format. The extractor is built as
// an ordered list of independent line classifiers applied top to bottom
// with early exit per line, so each tolerance rule stays testable on
// its own. Malformed input degrades to empty results; nothing here
// returns an error.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

var (
	// markerRe strips list bullets and heading markers from the front
	// of a line.
	markerRe = regexp.MustCompile(`^\s*(?:[-*•>]+|#{1,6}|\d+\.)\s*`)

	// itemRe matches "name: description" content lines. The name may be
	// wrapped in emphasis markers, which are stripped afterwards.
	itemRe = regexp.MustCompile(`^(.+?)\s*:\s*(.+)$`)

	// severityRe matches an optional trailing parenthetical severity
	// token drawn from a fixed vocabulary.
	severityRe = regexp.MustCompile(`(?i)\s*\(\s*(high|medium|med|low)\s*\)\s*[.!]?\s*$`)

	// dimensionRe matches "<label>: <value>/<max>" rating lines.
	dimensionRe = regexp.MustCompile(`^(.+?)\s*:\s*([0-9]+(?:\.[0-9]+)?)\s*/\s*([0-9]+)\s*$`)

	// overallExactRe is the primary overall-score pattern.
	overallExactRe = regexp.MustCompile(`(?i)overall reasoning score\s*[:\-]?\s*([0-9]{1,3})\s*/\s*100`)

	// overallLooseRe is the fallback when the exact phrase is absent.
	overallLooseRe = regexp.MustCompile(`(?i)score\b[^0-9/]{0,40}([0-9]{1,3})\s*/\s*100`)
)

// categoryKeywords maps header substrings to finding categories. A
// header line selects the first category whose keyword it contains.
var categoryKeywords = []struct {
	keyword  string
	category domain.FindingCategory
}{
	{"fallac", domain.CategoryFallacy},
	{"bias", domain.CategoryBias},
	{"rhetor", domain.CategoryRhetoricalTactic},
	{"persua", domain.CategoryRhetoricalTactic},
	{"tactic", domain.CategoryRhetoricalTactic},
	{"manipul", domain.CategoryManipulationPattern},
	{"conditioning", domain.CategoryManipulationPattern},
}

// ParseFindings scans markdown-ish analysis text and returns the typed
// findings it contains. A single current-category slot is maintained
// while scanning; a line counts as a category header only if, after
// stripping list and heading markers, it contains no colon — item lines
// always carry a colon separating name from description. Lines that
// cannot yield a non-empty name are dropped, never defaulted. Parsing
// the same text twice yields identical output.
func ParseFindings(text string) []domain.Finding {
	var findings []domain.Finding
	current := domain.CategoryUncategorized

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		stripped := markerRe.ReplaceAllString(line, "")

		// Category header: no colon anywhere in the stripped line.
		if !strings.Contains(stripped, ":") {
			if cat, ok := categoryFor(stripped); ok {
				current = cat
			}
			continue
		}

		// Score lines belong to the other parsers, not the findings list.
		if overallExactRe.MatchString(stripped) || overallLooseRe.MatchString(stripped) {
			continue
		}
		if dimensionRe.MatchString(stripped) {
			continue
		}

		m := itemRe.FindStringSubmatch(stripped)
		if m == nil {
			continue
		}

		name := stripEmphasis(m[1])
		if name == "" {
			continue
		}

		description := strings.TrimSpace(m[2])
		severity := domain.SeverityUnknown
		if sm := severityRe.FindStringSubmatch(description); sm != nil {
			severity = normalizeSeverity(sm[1])
			description = strings.TrimSpace(severityRe.ReplaceAllString(description, ""))
		}

		findings = append(findings, domain.Finding{
			Category:    current,
			Name:        name,
			Description: description,
			Severity:    severity,
		})
	}

	return findings
}

// ParseDimensionScores scans text for "<label>: <value>/<max>" rating
// lines. Values outside [1, max] are silently excluded as noise rather
// than aborting the parse — clamping would hide upstream malformation.
func ParseDimensionScores(text string) []domain.DimensionScore {
	var scores []domain.DimensionScore

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		stripped := markerRe.ReplaceAllString(line, "")

		// Overall-score lines are handled by ParseOverallScore.
		if overallExactRe.MatchString(stripped) || overallLooseRe.MatchString(stripped) {
			continue
		}

		m := dimensionRe.FindStringSubmatch(stripped)
		if m == nil {
			continue
		}

		label := stripEmphasis(m[1])
		if label == "" {
			continue
		}

		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		scaleMax, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		if value < 1 || value > float64(scaleMax) {
			continue
		}

		scores = append(scores, domain.DimensionScore{
			Dimension: label,
			Value:     value,
			ScaleMax:  scaleMax,
		})
	}

	return scores
}

// ParseOverallScore searches for the overall 0-100 reasoning score.
// The exact "overall reasoning score: NN/100" phrase is tried first,
// then a looser "score ... NN/100" form. The first match wins. The
// matched value is clamped to [0, 100] as a last-resort sanitization of
// an already-matched number.
func ParseOverallScore(text string) (int, bool) {
	m := overallExactRe.FindStringSubmatch(text)
	if m == nil {
		m = overallLooseRe.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if value > 100 {
		value = 100
	}
	if value < 0 {
		value = 0
	}
	return value, true
}

// categoryFor matches a header line against the category keyword table.
func categoryFor(header string) (domain.FindingCategory, bool) {
	lower := strings.ToLower(stripEmphasis(header))
	for _, ck := range categoryKeywords {
		if strings.Contains(lower, ck.keyword) {
			return ck.category, true
		}
	}
	return domain.CategoryUncategorized, false
}

// normalizeSeverity maps a matched severity token to its domain value.
// Matching is case-insensitive and "med" is an accepted abbreviation of
// medium; anything else is unknown.
func normalizeSeverity(s string) domain.Severity {
	switch strings.ToLower(s) {
	case "high":
		return domain.SeverityHigh
	case "medium", "med":
		return domain.SeverityMedium
	case "low":
		return domain.SeverityLow
	}
	return domain.SeverityUnknown
}

// stripEmphasis removes surrounding markdown emphasis markers and
// whitespace from a name or label.
func stripEmphasis(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_`"))
}
