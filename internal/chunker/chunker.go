// Package chunker splits raw text into bounded-size analysis units at
// sentence boundaries.
package chunker

import (
	"strings"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

// DefaultMaxChars is the default unit size bound in characters.
const DefaultMaxChars = 1200

// Splitter packs sentence fragments into bounded analysis units.
type Splitter struct {
	maxChars int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxChars sets the unit size bound in characters.
func WithMaxChars(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split divides text into ordered analysis units. Sentences are never
// broken: fragments are packed greedily until adding the next one would
// exceed the bound, and a single fragment longer than the bound is
// emitted as its own oversized unit rather than truncated. Joining all
// unit texts with single spaces reproduces the whitespace-collapsed
// input. Empty input yields no units.
func (s *Splitter) Split(text string) []domain.AnalysisUnit {
	normalized := normalizeWhitespace(text)
	if normalized == "" {
		return nil
	}

	sentences := splitSentences(normalized)

	var packed []string
	var current strings.Builder

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+1+len(sentence) > s.maxChars {
			packed = append(packed, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		packed = append(packed, current.String())
	}

	units := make([]domain.AnalysisUnit, len(packed))
	for i, text := range packed {
		units[i] = domain.AnalysisUnit{
			Index:      i + 1,
			Text:       text,
			TotalUnits: len(packed),
		}
	}
	return units
}

// Split is a convenience for one-off use.
func Split(text string, maxChars int) []domain.AnalysisUnit {
	return New(WithMaxChars(maxChars)).Split(text)
}

// normalizeWhitespace collapses all whitespace runs to single spaces
// and trims the ends.
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// splitSentences breaks normalized text into sentence-like fragments.
// Terminal punctuation only counts as a boundary when followed by a
// space or end of input, so tokens like "e.g." stay intact and the
// fragments rejoin losslessly with single spaces.
func splitSentences(normalized string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(normalized) && normalized[i+1] != ' ' {
			continue
		}
		sentences = append(sentences, normalized[start:i+1])
		start = i + 2 // skip the separating space
	}

	if start < len(normalized) {
		sentences = append(sentences, normalized[start:])
	}
	return sentences
}
