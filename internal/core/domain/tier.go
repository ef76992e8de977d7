package domain

import "time"

// QuotaUnlimited is the sentinel meaning "no cap". Reserved for
// administrative tiers. A quota of 0 means the depth is not offered at
// all, which callers surface differently from an exhausted quota.
const QuotaUnlimited = -1

// Rolling quota windows, measured backward from now.
const (
	// WindowQuick bounds quick-depth counting.
	WindowQuick = 24 * time.Hour

	// WindowFull bounds full-depth counting.
	WindowFull = 30 * 24 * time.Hour

	// WindowBurst bounds the combined rapid-fire guard.
	WindowBurst = 15 * time.Minute
)

// TierName identifies a plan. The set is closed so a typo'd plan name
// fails lookup instead of silently falling through to a default.
type TierName string

// Built-in tiers.
const (
	TierFree  TierName = "free"
	TierPro   TierName = "pro"
	TierAdmin TierName = "admin"
)

// Tier is a static per-plan quota bundle loaded from policy. It is
// read-only process-wide configuration, never mutated by request
// handling.
type Tier struct {
	// Name is the plan name.
	Name TierName

	// QuickPer24h caps successful quick analyses per trailing 24 hours.
	QuickPer24h int

	// FullPer30d caps successful full analyses per trailing 30 days.
	FullPer30d int

	// BurstPer15m caps combined successful analyses per trailing 15
	// minutes, independent of the daily and monthly counters.
	BurstPer15m int

	// Admin bypasses all quota checks unconditionally.
	Admin bool
}

// QuotaFor returns the tier's cap for the given depth.
func (t Tier) QuotaFor(depth AnalysisDepth) int {
	if depth == DepthFull {
		return t.FullPer30d
	}
	return t.QuickPer24h
}

// TierPolicy maps plan names to their quota bundles.
type TierPolicy map[TierName]Tier

// Lookup resolves a tier by name. Unknown names fail rather than
// defaulting.
func (p TierPolicy) Lookup(name TierName) (Tier, error) {
	tier, ok := p[name]
	if !ok {
		return Tier{}, ErrUnknownTier
	}
	return tier, nil
}

// DefaultTierPolicy returns the built-in plan table.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{
		TierFree: {
			Name:        TierFree,
			QuickPer24h: 3,
			FullPer30d:  0,
			BurstPer15m: 2,
		},
		TierPro: {
			Name:        TierPro,
			QuickPer24h: 30,
			FullPer30d:  20,
			BurstPer15m: 6,
		},
		TierAdmin: {
			Name:        TierAdmin,
			QuickPer24h: QuotaUnlimited,
			FullPer30d:  QuotaUnlimited,
			BurstPer15m: QuotaUnlimited,
			Admin:       true,
		},
	}
}
