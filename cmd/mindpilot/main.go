// Command mindpilot is the MindPilot CLI: reasoning analysis for
// YouTube transcripts, web articles and pasted text.
package main

import (
	"fmt"
	"os"
	"time"

	configfile "github.com/mindpilot-labs/mindpilot/internal/adapters/driven/config/file"
	"github.com/mindpilot-labs/mindpilot/internal/adapters/driven/fetch"
	"github.com/mindpilot-labs/mindpilot/internal/adapters/driven/llm/ollama"
	"github.com/mindpilot-labs/mindpilot/internal/adapters/driven/llm/openai"
	"github.com/mindpilot-labs/mindpilot/internal/adapters/driven/llm/xai"
	"github.com/mindpilot-labs/mindpilot/internal/adapters/driven/storage/sqlite"
	"github.com/mindpilot-labs/mindpilot/internal/adapters/driving/cli"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
	"github.com/mindpilot-labs/mindpilot/internal/core/services"
	"github.com/mindpilot-labs/mindpilot/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}

	tierStore, err := configfile.NewTierPolicyStore("")
	if err != nil {
		return fmt.Errorf("initialising tier policy: %w", err)
	}
	defer tierStore.Close()

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("initialising prompts: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	generator, err := buildGenerator(configStore)
	if err != nil {
		return err
	}
	if generator != nil {
		defer generator.Close()
	}

	governor := services.NewUsageGovernor(store.UsageStore())
	svc := services.NewAnalysisService(generator, store.ReportCacheStore(), governor, tierStore)
	svc.SetPromptStore(promptStore)
	svc.SetTranscriptFetcher(fetch.NewTranscriptFetcher())
	svc.SetArticleFetcher(fetch.NewArticleFetcher(30 * time.Second))

	if enricher := buildEnricher(configStore, promptStore); enricher != nil {
		defer enricher.Close()
		svc.SetEnricher(enricher)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Analysis: svc,
		Usage:    svc,
		Tiers:    tierStore,
		Config:   configStore,
	})
	return cli.Execute()
}

// buildGenerator selects the analysis backend from configuration. The
// provider is generator.provider (openai or ollama); an unset provider
// with an OpenAI key still gets the OpenAI backend, otherwise Ollama is
// assumed so a fresh install works against a local model.
func buildGenerator(cfg driven.ConfigStore) (driven.Generator, error) {
	provider := cfg.GetString("generator.provider")
	apiKey := cfg.GetString("generator.openai.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if provider == "" {
		if apiKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}

	switch provider {
	case "openai":
		gen, err := openai.NewGenerator(openai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("generator.openai.base_url"),
			Model:   cfg.GetString("generator.openai.model"),
		})
		if err != nil {
			return nil, fmt.Errorf("configuring OpenAI generator: %w", err)
		}
		return gen, nil
	case "ollama":
		return ollama.NewGenerator(ollama.Config{
			BaseURL: cfg.GetString("generator.ollama.base_url"),
			Model:   cfg.GetString("generator.ollama.model"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", provider)
	}
}

// buildEnricher wires the optional live-context backend. Returns nil
// when no xAI key is configured; analyses then simply run unenriched.
func buildEnricher(cfg driven.ConfigStore, prompts driven.PromptStore) driven.Enricher {
	apiKey := cfg.GetString("enrichment.xai.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("XAI_API_KEY")
	}
	if apiKey == "" {
		return nil
	}

	enricher, err := xai.NewEnricher(xai.Config{
		APIKey:  apiKey,
		BaseURL: cfg.GetString("enrichment.xai.base_url"),
		Model:   cfg.GetString("enrichment.xai.model"),
	})
	if err != nil {
		logger.Warn("Enrichment disabled: %v", err)
		return nil
	}
	enricher.SetPromptStore(prompts)
	return enricher
}
