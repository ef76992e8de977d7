package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
	"github.com/mindpilot-labs/mindpilot/internal/logger"
)

// UsageGovernor enforces per-identity rolling-window quotas and keeps
// the append-only usage log. Every check counts fresh from the store;
// there is no in-memory counter to drift or to lose on restart.
type UsageGovernor struct {
	usage driven.UsageStore
	now   func() time.Time
}

// NewUsageGovernor creates a governor backed by the given usage store.
func NewUsageGovernor(usage driven.UsageStore) *UsageGovernor {
	return &UsageGovernor{
		usage: usage,
		now:   time.Now,
	}
}

// CheckQuota decides whether an identity may run an analysis at the
// given depth under the given tier. Admin tiers bypass every check.
// A zero quota denies unconditionally with QuotaReasonNotOffered; a
// spent rolling window denies with QuotaReasonExhausted; the combined
// rapid-fire guard denies with QuotaReasonBurst. Denials wrap
// domain.ErrQuotaExceeded.
func (g *UsageGovernor) CheckQuota(
	ctx context.Context, identity domain.IdentityRef, tier domain.Tier, depth domain.AnalysisDepth,
) error {
	if tier.Admin {
		logger.Debug("Quota check bypassed for admin tier (identity %s)", identity)
		return nil
	}

	quota := tier.QuotaFor(depth)
	if quota == 0 {
		return &domain.QuotaError{Reason: domain.QuotaReasonNotOffered, Depth: depth}
	}

	now := g.now()

	if quota != domain.QuotaUnlimited {
		window := quotaWindow(depth)
		count, err := g.usage.CountSince(ctx, identity, depth, now.Add(-window))
		if err != nil {
			return fmt.Errorf("counting %s usage: %w", depth, err)
		}
		logger.Debug("Quota check: %s depth=%s used %d of %d", identity, depth, count, quota)
		if count >= quota {
			return &domain.QuotaError{Reason: domain.QuotaReasonExhausted, Depth: depth, Window: window}
		}
	}

	if tier.BurstPer15m != domain.QuotaUnlimited {
		count, err := g.usage.CountAllSince(ctx, identity, now.Add(-domain.WindowBurst))
		if err != nil {
			return fmt.Errorf("counting burst usage: %w", err)
		}
		if count >= tier.BurstPer15m {
			return &domain.QuotaError{Reason: domain.QuotaReasonBurst, Depth: depth, Window: domain.WindowBurst}
		}
	}

	return nil
}

// RecordUsage appends one completed attempt to the usage log. Failed
// attempts are recorded too, for auditability, but never consume quota.
func (g *UsageGovernor) RecordUsage(
	ctx context.Context, identity domain.IdentityRef, depth domain.AnalysisDepth, success bool,
) error {
	rec := &domain.UsageRecord{
		ID:        uuid.NewString(),
		Identity:  identity,
		Depth:     depth,
		Success:   success,
		CreatedAt: g.now(),
	}
	if err := g.usage.Record(ctx, rec); err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

// Remaining computes the identity's unspent allotments under the tier.
// Values never go below zero; unlimited quotas pass through as
// domain.QuotaUnlimited. Nothing is consumed.
func (g *UsageGovernor) Remaining(
	ctx context.Context, identity domain.IdentityRef, tier domain.Tier,
) (*domain.QuotaStatus, error) {
	now := g.now()
	status := &domain.QuotaStatus{Tier: tier.Name}

	var err error
	status.QuickRemaining, err = g.remainingFor(ctx, identity, domain.DepthQuick, tier.QuickPer24h, now)
	if err != nil {
		return nil, err
	}
	status.FullRemaining, err = g.remainingFor(ctx, identity, domain.DepthFull, tier.FullPer30d, now)
	if err != nil {
		return nil, err
	}

	if tier.BurstPer15m == domain.QuotaUnlimited {
		status.BurstRemaining = domain.QuotaUnlimited
	} else {
		count, err := g.usage.CountAllSince(ctx, identity, now.Add(-domain.WindowBurst))
		if err != nil {
			return nil, fmt.Errorf("counting burst usage: %w", err)
		}
		status.BurstRemaining = clampRemaining(tier.BurstPer15m - count)
	}

	return status, nil
}

func (g *UsageGovernor) remainingFor(
	ctx context.Context, identity domain.IdentityRef, depth domain.AnalysisDepth, quota int, now time.Time,
) (int, error) {
	if quota == domain.QuotaUnlimited {
		return domain.QuotaUnlimited, nil
	}
	if quota == 0 {
		return 0, nil
	}
	count, err := g.usage.CountSince(ctx, identity, depth, now.Add(-quotaWindow(depth)))
	if err != nil {
		return 0, fmt.Errorf("counting %s usage: %w", depth, err)
	}
	return clampRemaining(quota - count), nil
}

// quotaWindow maps a depth to its rolling window.
func quotaWindow(depth domain.AnalysisDepth) time.Duration {
	if depth == domain.DepthFull {
		return domain.WindowFull
	}
	return domain.WindowQuick
}

func clampRemaining(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
