package services

import (
	"fmt"
	"strings"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
)

// Default prompt templates. A PromptStore, when set, overrides these
// per name; an empty or failed load falls back here.
const (
	defaultSystemPrompt = "You are MindPilot, a neutral reasoning-analysis copilot. " +
		"You examine arguments for logical fallacies, cognitive biases, rhetorical " +
		"tactics, and manipulative patterns. You never take sides on the topic itself."

	defaultUnitPrompt = `Chunk %d of %d of a longer piece. Analyse ONLY this part.

List what you find under these markdown headings, one "- **Name**: description (Severity)" line per item, severity High, Medium or Low:

## Logical Fallacies
## Cognitive Biases
## Rhetorical / Persuasion Tactics
## Manipulative / Conditioning Patterns

Omit a heading entirely if that part contains nothing for it.

Text:
%s`

	defaultSynthesisPrompt = `Below are per-chunk analyses of one piece of content, in order. Merge them into a single report: deduplicate repeated findings, keep the same four markdown headings and the "- **Name**: description (Severity)" line format.

Then add:

## Rationality Profile
- Evidence use: <1-5>/5
- Causal reasoning: <1-5>/5
- Emotional framing: <1-5>/5

Overall reasoning score: <0-100>/100

Per-chunk analyses:
%s`
)

// prompt returns the template for name, preferring the prompt store.
func (s *AnalysisService) prompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	tmpl, err := s.promptStore.Load(name)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		return fallback
	}
	return tmpl
}

// systemPrompt returns the generation persona.
func (s *AnalysisService) systemPrompt() string {
	return s.prompt(driven.PromptAnalysisSystem, defaultSystemPrompt)
}

// unitPrompt builds the per-unit analysis prompt.
func (s *AnalysisService) unitPrompt(unit domain.AnalysisUnit) string {
	return fmt.Sprintf(s.prompt(driven.PromptUnitAnalysis, defaultUnitPrompt),
		unit.Index, unit.TotalUnits, unit.Text)
}

// synthesisPrompt builds the merge prompt from per-unit outputs.
func (s *AnalysisService) synthesisPrompt(unitOutputs []string) string {
	joined := strings.Join(unitOutputs, "\n\n---\n\n")
	return fmt.Sprintf(s.prompt(driven.PromptSynthesis, defaultSynthesisPrompt), joined)
}
