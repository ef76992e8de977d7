package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

var (
	analyzeKind   string
	analyzeText   string
	analyzeDepth  string
	analyzeEnrich bool
	analyzeUser   string
	analyzeLabel  string
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url]",
	Short: "Analyse the reasoning in a video, article or text",
	Long: `Runs a reasoning analysis over the given input and prints the findings.

The input is a YouTube URL, an article URL, or raw text via --text or
stdin. The kind is inferred from the URL unless --kind is given.

Examples:
  # Quick analysis of a video transcript
  mindpilot analyze https://www.youtube.com/watch?v=dQw4w9WgXcQ

  # Full analysis of an article, with live-context enrichment
  mindpilot analyze https://example.com/opinion --depth full --enrich

  # Analyse pasted text
  mindpilot analyze --text "Everyone agrees, so it must be true."

  # Analyse stdin
  cat speech.txt | mindpilot analyze`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeKind, "kind", "", "input kind: youtube, article or text (inferred when omitted)")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "raw text to analyse")
	analyzeCmd.Flags().StringVarP(&analyzeDepth, "depth", "d", "quick", "analysis depth: quick or full")
	analyzeCmd.Flags().BoolVar(&analyzeEnrich, "enrich", false, "add live-context enrichment to the synthesis")
	analyzeCmd.Flags().StringVarP(&analyzeUser, "user", "u", "", "user ID for quota accounting")
	analyzeCmd.Flags().StringVar(&analyzeLabel, "label", "", "cache label for pasted text")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	req, err := buildAnalysisRequest(cmd, args)
	if err != nil {
		return err
	}

	report, err := analysisService.Analyze(cmd.Context(), req)
	if err != nil {
		var quotaErr *domain.QuotaError
		if errors.As(err, &quotaErr) {
			return errors.New(quotaErr.Error())
		}
		if errors.Is(err, domain.ErrUpstreamBlocked) {
			return fmt.Errorf("%w (the source refused the fetch; try pasting the text with --text)", err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return outputReportJSON(cmd, report)
	}
	return outputReportText(cmd, report)
}

// buildAnalysisRequest assembles the domain request from flags, the
// positional URL and, as a last resort, stdin.
func buildAnalysisRequest(cmd *cobra.Command, args []string) (domain.AnalysisRequest, error) {
	req := domain.AnalysisRequest{
		Depth:      domain.AnalysisDepth(analyzeDepth),
		Enrich:     analyzeEnrich,
		UserID:     analyzeUser,
		RemoteAddr: "cli-local",
	}

	switch {
	case analyzeText != "":
		req.Kind = domain.SourceText
		req.Text = analyzeText
		req.SourceRef = analyzeLabel
	case len(args) == 1:
		req.SourceRef = args[0]
		req.Kind = inferSourceKind(args[0])
	default:
		// No URL and no --text: read stdin so pipes work.
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 4<<20))
		if err != nil {
			return req, fmt.Errorf("reading stdin: %w", err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return req, errors.New("nothing to analyse: pass a URL, --text, or pipe text on stdin")
		}
		req.Kind = domain.SourceText
		req.Text = string(data)
		req.SourceRef = analyzeLabel
	}

	if analyzeKind != "" {
		req.Kind = domain.SourceKind(analyzeKind)
	}
	return req, nil
}

// inferSourceKind guesses the kind from a URL's host.
func inferSourceKind(ref string) domain.SourceKind {
	lower := strings.ToLower(ref)
	if strings.Contains(lower, "youtube.com/") || strings.Contains(lower, "youtu.be/") {
		return domain.SourceYouTube
	}
	return domain.SourceArticle
}

func outputReportJSON(cmd *cobra.Command, report *domain.AnalysisReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// categoryOrder fixes the display order of finding sections.
var categoryOrder = []struct {
	category domain.FindingCategory
	heading  string
}{
	{domain.CategoryFallacy, "Logical Fallacies"},
	{domain.CategoryBias, "Cognitive Biases"},
	{domain.CategoryRhetoricalTactic, "Rhetorical / Persuasion Tactics"},
	{domain.CategoryManipulationPattern, "Manipulative / Conditioning Patterns"},
	{domain.CategoryUncategorized, "Other Findings"},
}

func outputReportText(cmd *cobra.Command, report *domain.AnalysisReport) error {
	cmd.Printf("Source: %s (%s analysis)\n", report.SourceRef, report.Depth)
	if !report.CachedAt.IsZero() {
		cmd.Printf("Served from cache (generated %s)\n", report.CachedAt.Format("2006-01-02 15:04 MST"))
	}
	cmd.Println()

	grouped := report.FindingsByCategory()
	if len(report.Findings) == 0 {
		cmd.Println("No reasoning issues detected.")
	}
	for _, section := range categoryOrder {
		findings, ok := grouped[section.category]
		if !ok {
			continue
		}
		cmd.Printf("%s:\n", section.heading)
		for _, f := range findings {
			line := "  - " + f.Name
			if f.Severity != domain.SeverityUnknown {
				line += fmt.Sprintf(" [%s]", f.Severity)
			}
			if f.Description != "" {
				line += ": " + f.Description
			}
			cmd.Println(line)
		}
		cmd.Println()
	}

	if len(report.DimensionScores) > 0 {
		cmd.Println("Rationality Profile:")
		for _, d := range report.DimensionScores {
			cmd.Printf("  %s: %.0f/%d\n", d.Dimension, d.Value, d.ScaleMax)
		}
		cmd.Println()
	}

	if report.OverallScore != nil {
		cmd.Printf("Overall reasoning score: %d/100\n", *report.OverallScore)
	}

	if report.Enrichment != "" {
		cmd.Println()
		cmd.Println("Live context:")
		cmd.Println("  " + strings.ReplaceAll(strings.TrimSpace(report.Enrichment), "\n", "\n  "))
	}

	return nil
}
