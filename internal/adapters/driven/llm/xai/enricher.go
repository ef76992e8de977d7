// Package xai provides an Enricher adapter using the xAI (Grok) chat
// API, which is wire-compatible with the OpenAI chat format. Grok's
// live search grounding is what makes it suitable for situating an
// analysis in current discussion.
package xai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
)

// Ensure Enricher implements the interfaces.
var (
	_ driven.Enricher         = (*Enricher)(nil)
	_ driven.PromptStoreAware = (*Enricher)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.x.ai/v1"
	DefaultModel   = "grok-3-mini"
	DefaultTimeout = 60 * time.Second
)

// defaultEnrichmentPrompt is the fallback prompt when no PromptStore is
// configured.
const defaultEnrichmentPrompt = `Here is a reasoning analysis of a piece of content. In one short paragraph, situate it in current discussion: is the underlying claim circulating now, who is amplifying it, has it been fact-checked recently? If you know nothing current about it, say so plainly.

%s`

// Config holds configuration for the xAI enricher.
type Config struct {
	// APIKey is the xAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.x.ai/v1).
	BaseURL string

	// Model is the model to use (default: grok-3-mini).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Enricher augments syntheses with live context via the Grok API.
type Enricher struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	promptStore driven.PromptStore
}

// chatRequest is the xAI /chat/completions request format.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

// message is the chat message format.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the xAI /chat/completions response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewEnricher creates a new xAI enricher.
func NewEnricher(cfg Config) (*Enricher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("xai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Enricher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Enrich returns live-context commentary for the synthesis.
func (e *Enricher) Enrich(ctx context.Context, synthesis string) (string, error) {
	promptTemplate := e.loadPrompt(driven.PromptEnrichment, defaultEnrichmentPrompt)

	reqBody := chatRequest{
		Model: e.model,
		Messages: []message{
			{Role: "user", Content: fmt.Sprintf(promptTemplate, synthesis)},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chat.Error != nil {
		return "", fmt.Errorf("xai error: %s", chat.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("xai error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("xai: no response choices returned")
	}

	return chat.Choices[0].Message.Content, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (e *Enricher) loadPrompt(name, fallback string) string {
	if e.promptStore == nil {
		return fallback
	}
	prompt, err := e.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (e *Enricher) SetPromptStore(store driven.PromptStore) {
	e.promptStore = store
}

// ModelName returns the name of the model being used.
func (e *Enricher) ModelName() string {
	return e.model
}

// Close releases resources.
func (e *Enricher) Close() error {
	return nil
}
