package domain

import "time"

// UsageRecord is one completed analysis attempt. Records are append
// only; nothing in this system mutates or deletes them. Only records
// with Success=true consume quota, so a transient upstream failure
// never costs the caller an analysis.
type UsageRecord struct {
	// ID is the unique record identifier.
	ID string

	// Identity is who made the attempt.
	Identity IdentityRef

	// Depth is the attempted analysis depth.
	Depth AnalysisDepth

	// Success records whether the attempt completed.
	Success bool

	// CreatedAt is when the attempt finished.
	CreatedAt time.Time
}

// QuotaStatus reports the remaining allotments for one caller at a
// point in time. Remaining values never go below zero; QuotaUnlimited
// means no cap applies.
type QuotaStatus struct {
	// Tier is the plan the caller resolved to.
	Tier TierName

	// QuickRemaining is how many quick analyses are left in the
	// trailing 24 hours.
	QuickRemaining int

	// FullRemaining is how many full analyses are left in the trailing
	// 30 days.
	FullRemaining int

	// BurstRemaining is how many combined analyses are left in the
	// trailing 15 minutes.
	BurstRemaining int
}
