package domain

import "time"

// AnalysisDepth selects how much work an analysis performs.
type AnalysisDepth string

// Available analysis depths.
const (
	// DepthQuick is a shallow single-pass analysis.
	DepthQuick AnalysisDepth = "quick"

	// DepthFull is the complete chunked multi-pass analysis.
	DepthFull AnalysisDepth = "full"
)

// IsValid returns true if the depth is recognised.
func (d AnalysisDepth) IsValid() bool {
	return d == DepthQuick || d == DepthFull
}

// String returns the string representation.
func (d AnalysisDepth) String() string {
	return string(d)
}

// SourceKind identifies where the input text came from.
type SourceKind string

// Available source kinds.
const (
	// SourceYouTube is a YouTube video transcript.
	SourceYouTube SourceKind = "youtube"

	// SourceArticle is a web article fetched by URL.
	SourceArticle SourceKind = "article"

	// SourceText is raw text pasted by the caller.
	SourceText SourceKind = "text"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceYouTube, SourceArticle, SourceText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// AnalysisUnit is a bounded slice of source text analysed in one
// generation call. Units are 1-indexed against the final count so
// prompts can label them "unit i of N".
type AnalysisUnit struct {
	// Index is the 1-based position of this unit.
	Index int

	// Text is the unit content.
	Text string

	// TotalUnits is the number of units the source was split into.
	TotalUnits int
}

// AnalysisRequest describes one incoming analysis request.
type AnalysisRequest struct {
	// Kind identifies the input source (youtube, article, text).
	Kind SourceKind

	// SourceRef is the URL for youtube/article sources, or a caller
	// supplied label for pasted text. Used for cache keying.
	SourceRef string

	// Text is the raw input for SourceText requests. Empty for URL
	// backed sources, which are fetched during resolution.
	Text string

	// Depth selects quick or full analysis.
	Depth AnalysisDepth

	// Enrich requests live-context enrichment of the synthesis.
	Enrich bool

	// UserID is the authenticated caller, if any.
	UserID string

	// RemoteAddr is the caller's network address, used for identity
	// fallback when UserID is empty.
	RemoteAddr string
}

// AnalysisReport is the structured result of one analysis.
type AnalysisReport struct {
	// SourceRef is the canonicalized source reference.
	SourceRef string

	// Depth is the depth the report was produced at.
	Depth AnalysisDepth

	// UnitTexts holds the raw per-unit analysis outputs, in order.
	UnitTexts []string

	// Synthesis is the raw synthesized analysis text.
	Synthesis string

	// Findings are the detected reasoning patterns.
	Findings []Finding

	// DimensionScores are per-dimension quality ratings.
	DimensionScores []DimensionScore

	// OverallScore is the 0-100 overall reasoning score, if present.
	OverallScore *int

	// Enrichment holds the live-context enrichment text, if requested
	// and available.
	Enrichment string

	// Enriched records whether enrichment was included. Affects cache
	// freshness.
	Enriched bool

	// CachedAt is set when the report was served from cache.
	CachedAt time.Time

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time
}

// FindingsByCategory groups findings by category, preserving their
// original order within each group.
func (r *AnalysisReport) FindingsByCategory() map[FindingCategory][]Finding {
	grouped := make(map[FindingCategory][]Finding)
	for _, f := range r.Findings {
		grouped[f.Category] = append(grouped[f.Category], f)
	}
	return grouped
}
