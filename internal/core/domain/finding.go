package domain

// FindingCategory classifies a detected reasoning pattern.
type FindingCategory string

// Available finding categories.
const (
	// CategoryFallacy is a logical fallacy.
	CategoryFallacy FindingCategory = "fallacy"

	// CategoryBias is a cognitive bias.
	CategoryBias FindingCategory = "bias"

	// CategoryRhetoricalTactic is a rhetorical or persuasion tactic.
	CategoryRhetoricalTactic FindingCategory = "rhetorical_tactic"

	// CategoryManipulationPattern is a manipulative or conditioning pattern.
	CategoryManipulationPattern FindingCategory = "manipulation_pattern"

	// CategoryUncategorized is a finding that appeared before any
	// recognised section header.
	CategoryUncategorized FindingCategory = "uncategorized"
)

// IsValid returns true if the category is recognised.
func (c FindingCategory) IsValid() bool {
	switch c {
	case CategoryFallacy, CategoryBias, CategoryRhetoricalTactic,
		CategoryManipulationPattern, CategoryUncategorized:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c FindingCategory) String() string {
	return string(c)
}

// Severity rates how strongly a finding distorts reasoning.
type Severity string

// Available severities.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"

	// SeverityUnknown means the source text stated no severity. It is
	// never inferred from wording.
	SeverityUnknown Severity = "unknown"
)

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// Finding is a single detected reasoning pattern.
// Name is always non-empty; lines that cannot yield a name are dropped
// during extraction rather than defaulted.
type Finding struct {
	// Category is the section the finding was listed under.
	Category FindingCategory

	// Name is the pattern name, e.g. "Straw Man" or "Bandwagon".
	Name string

	// Description explains how the pattern shows up in the text.
	Description string

	// Severity is the stated severity, or SeverityUnknown.
	Severity Severity
}

// DimensionScore rates one reasoning dimension on a bounded scale.
// Values outside (0, ScaleMax] are rejected during extraction, not
// clamped.
type DimensionScore struct {
	// Dimension is the dimension label, e.g. "Evidence use".
	Dimension string

	// Value is the rating. Always 0 < Value <= ScaleMax.
	Value float64

	// ScaleMax is the top of the scale (observed scale is 5).
	ScaleMax int
}
