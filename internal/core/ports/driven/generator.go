package driven

import "context"

// Generator produces analysis text from prompts. This is the primary
// language-model dependency; every analysis makes at least one call.
//
// Implementations may include:
//   - OpenAI (GPT-4.1 family)
//   - Local inference servers with OpenAI-compatible APIs
type Generator interface {
	// Generate produces a completion for the given system and user
	// prompts. Transient failures are the implementation's to signal;
	// the caller decides retry policy.
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// Enricher augments a synthesized analysis with live context (current
// discussion, recent coverage). This is an optional service - when nil
// or failing, the report is served without enrichment rather than
// failing the analysis.
type Enricher interface {
	// Enrich returns live-context commentary for the synthesis.
	Enrich(ctx context.Context, synthesis string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
