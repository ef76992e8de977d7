// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Generator: Produces analysis text from prompts
//   - ReportCacheStore: Cached report persistence
//   - UsageStore: Usage record persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Enricher: Live-context enrichment. Without it, enrichment requests
//     fall back to plain reports.
//   - TranscriptFetcher: YouTube transcript retrieval. Without it, only
//     article and pasted-text sources work.
//   - ArticleFetcher: Web article retrieval. Without it, only pasted
//     text works for article-shaped input.
//   - PromptStore: Custom prompt templates. Without it, built-in
//     defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
