package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mindpilot-labs/mindpilot/internal/chunker"
	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driving"
	"github.com/mindpilot-labs/mindpilot/internal/extractor"
	"github.com/mindpilot-labs/mindpilot/internal/logger"
)

// Ensure AnalysisService implements the interfaces.
var (
	_ driving.AnalysisService = (*AnalysisService)(nil)
	_ driving.UsageInspector  = (*AnalysisService)(nil)
	_ driven.PromptStoreAware = (*AnalysisService)(nil)
)

// generateOpts is used for every generation call. Low temperature keeps
// the output format stable enough for the extractor.
var generateOpts = driven.GenerateOptions{Temperature: 0.2}

// AnalysisService runs the analysis pipeline: resolve identity and
// tier, enforce quota, reuse cached reports, and on a miss chunk the
// source, generate and synthesize the analysis, extract structure,
// cache, and record usage.
type AnalysisService struct {
	generator driven.Generator
	cache     driven.ReportCacheStore
	governor  *UsageGovernor
	tiers     driven.TierPolicyStore

	// Optional collaborators (can be nil).
	enricher    driven.Enricher
	transcripts driven.TranscriptFetcher
	articles    driven.ArticleFetcher
	promptStore driven.PromptStore

	splitter *chunker.Splitter
	now      func() time.Time
}

// NewAnalysisService creates the pipeline service. The generator may be
// nil, in which case every analysis fails with ErrGeneratorUnavailable;
// cache, governor and tiers are required.
func NewAnalysisService(
	generator driven.Generator,
	cache driven.ReportCacheStore,
	governor *UsageGovernor,
	tiers driven.TierPolicyStore,
) *AnalysisService {
	return &AnalysisService{
		generator: generator,
		cache:     cache,
		governor:  governor,
		tiers:     tiers,
		splitter:  chunker.New(),
		now:       time.Now,
	}
}

// SetEnricher sets the optional live-context enricher.
func (s *AnalysisService) SetEnricher(e driven.Enricher) {
	s.enricher = e
}

// SetTranscriptFetcher sets the optional YouTube transcript fetcher.
func (s *AnalysisService) SetTranscriptFetcher(f driven.TranscriptFetcher) {
	s.transcripts = f
}

// SetArticleFetcher sets the optional web article fetcher.
func (s *AnalysisService) SetArticleFetcher(f driven.ArticleFetcher) {
	s.articles = f
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *AnalysisService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Analyze runs one analysis request through the pipeline.
//
// Fixed order: validate, resolve identity and tier, check quota, cache
// lookup, and only on a miss the expensive path of source resolution,
// chunking, generation, synthesis, optional enrichment, extraction,
// cache write and usage recording. A cache hit records no usage: quota
// governs generation, not reads of previously generated content.
func (s *AnalysisService) Analyze(
	ctx context.Context, req domain.AnalysisRequest,
) (*domain.AnalysisReport, error) {
	logger.Section("Analysis")

	depth := req.Depth
	if depth == "" {
		depth = domain.DepthQuick
	}
	if !depth.IsValid() {
		return nil, fmt.Errorf("%w: unknown depth %q", domain.ErrInvalidInput, req.Depth)
	}
	if !req.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, req.Kind)
	}
	if req.Kind == domain.SourceText {
		if strings.TrimSpace(req.Text) == "" {
			return nil, fmt.Errorf("%w: empty source text", domain.ErrInvalidInput)
		}
	} else if strings.TrimSpace(req.SourceRef) == "" {
		return nil, fmt.Errorf("%w: empty source reference", domain.ErrInvalidInput)
	}
	if s.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}

	identity := domain.ResolveIdentity(req.UserID, req.RemoteAddr)
	tier, err := s.tiers.TierFor(identity)
	if err != nil {
		return nil, fmt.Errorf("resolving tier: %w", err)
	}
	logger.Debug("Identity %s on tier %s", identity, tier.Name)

	if err := s.governor.CheckQuota(ctx, identity, tier, depth); err != nil {
		return nil, err
	}

	canonicalRef, err := canonicalRefFor(req)
	if err != nil {
		return nil, err
	}

	enrich := req.Enrich && s.enricher != nil
	key := domain.NewCacheKey(req.Kind, depth, enrich, canonicalRef)

	if report := s.cachedReport(ctx, key); report != nil {
		logger.Info("Serving cached report for %s", canonicalRef)
		return report, nil
	}

	text, err := s.fetchSourceText(ctx, req)
	if err != nil {
		s.recordAttempt(ctx, identity, depth, false)
		return nil, err
	}

	report, err := s.generateReport(ctx, depth, canonicalRef, text, enrich)
	if err != nil {
		s.recordAttempt(ctx, identity, depth, false)
		return nil, err
	}

	if err := s.storeReport(ctx, key, report); err != nil {
		s.recordAttempt(ctx, identity, depth, false)
		return nil, err
	}

	s.recordAttempt(ctx, identity, depth, true)
	return report, nil
}

// RemainingQuota reports the caller's unspent allotments without
// consuming any.
func (s *AnalysisService) RemainingQuota(
	ctx context.Context, userID, remoteAddr string,
) (*domain.QuotaStatus, error) {
	identity := domain.ResolveIdentity(userID, remoteAddr)
	tier, err := s.tiers.TierFor(identity)
	if err != nil {
		return nil, fmt.Errorf("resolving tier: %w", err)
	}
	return s.governor.Remaining(ctx, identity, tier)
}

// cachedReport returns a decoded fresh cache entry, or nil on miss.
// Store and decode failures degrade to a miss rather than failing the
// request.
func (s *AnalysisService) cachedReport(ctx context.Context, key domain.CacheKey) *domain.AnalysisReport {
	entry, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Cache lookup failed, treating as miss: %v", err)
		}
		return nil
	}
	if entry.Expired(s.now()) {
		logger.Debug("Cache entry for %s expired at %s", key.SourceRef, entry.ExpiresAt)
		return nil
	}

	var report domain.AnalysisReport
	if err := json.Unmarshal(entry.Payload, &report); err != nil {
		logger.Warn("Cache entry for %s undecodable, treating as miss: %v", key.SourceRef, err)
		return nil
	}
	report.CachedAt = entry.CreatedAt
	return &report
}

// generateReport runs the expensive path: chunk, per-unit generation,
// synthesis, optional enrichment, extraction.
func (s *AnalysisService) generateReport(
	ctx context.Context, depth domain.AnalysisDepth, canonicalRef, text string, enrich bool,
) (*domain.AnalysisReport, error) {
	units := s.splitter.Split(text)
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: no analysable text", domain.ErrInvalidInput)
	}

	// Quick depth is a single pass over the leading unit; full depth
	// covers every unit.
	if depth == domain.DepthQuick {
		units = units[:1]
		units[0].TotalUnits = 1
	}
	logger.Info("Analysing %d unit(s) at %s depth", len(units), depth)

	system := s.systemPrompt()
	unitOutputs := make([]string, 0, len(units))
	for _, unit := range units {
		out, err := s.generateWithRetry(ctx, system, s.unitPrompt(unit))
		if err != nil {
			return nil, fmt.Errorf("unit %d/%d: %w", unit.Index, unit.TotalUnits, err)
		}
		unitOutputs = append(unitOutputs, out)
	}

	synthesis, err := s.generateWithRetry(ctx, system, s.synthesisPrompt(unitOutputs))
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}

	enrichment := ""
	enriched := false
	if enrich {
		// Enrichment failure never fails the analysis; the report is
		// served plain and cached with the shorter-lived flag off.
		if out, err := s.enricher.Enrich(ctx, synthesis); err != nil {
			logger.Warn("Enrichment failed, serving plain report: %v", err)
		} else if strings.TrimSpace(out) != "" {
			enrichment = out
			enriched = true
		}
	}

	// Zero parseable findings is not a failure; partial structure beats
	// discarding the result.
	report := &domain.AnalysisReport{
		SourceRef:       canonicalRef,
		Depth:           depth,
		UnitTexts:       unitOutputs,
		Synthesis:       synthesis,
		Findings:        extractor.ParseFindings(synthesis),
		DimensionScores: extractor.ParseDimensionScores(synthesis),
		Enrichment:      enrichment,
		Enriched:        enriched,
		GeneratedAt:     s.now(),
	}
	if score, ok := extractor.ParseOverallScore(synthesis); ok {
		report.OverallScore = &score
	}
	return report, nil
}

// generateWithRetry calls the generator, retrying a failure exactly
// once. A cancelled context is never retried.
func (s *AnalysisService) generateWithRetry(ctx context.Context, system, prompt string) (string, error) {
	out, err := s.generator.Generate(ctx, system, prompt, generateOpts)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	logger.Warn("Generation failed, retrying once: %v", err)
	out, err = s.generator.Generate(ctx, system, prompt, generateOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return out, nil
}

// storeReport writes the finished report to the cache. The entry is
// written atomically and only on full success.
func (s *AnalysisService) storeReport(ctx context.Context, key domain.CacheKey, report *domain.AnalysisReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	now := s.now()
	entry := &domain.CacheEntry{
		Key:       key,
		Payload:   payload,
		Enriched:  report.Enriched,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.Freshness(report.Enriched)),
	}
	if err := s.cache.Put(ctx, entry); err != nil {
		return fmt.Errorf("storing report: %w", err)
	}
	return nil
}

// recordAttempt appends the usage record. A failure to record is logged
// but never clawed back from the caller: the work is already done.
func (s *AnalysisService) recordAttempt(
	ctx context.Context, identity domain.IdentityRef, depth domain.AnalysisDepth, success bool,
) {
	if err := s.governor.RecordUsage(ctx, identity, depth, success); err != nil {
		logger.Warn("Usage record not written: %v", err)
	}
}
