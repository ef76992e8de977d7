package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

func newTestGovernor() (*UsageGovernor, *mockUsageStore, *time.Time) {
	usage := &mockUsageStore{}
	gov := NewUsageGovernor(usage)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	gov.now = func() time.Time { return now }
	return gov, usage, &now
}

func seedRecord(usage *mockUsageStore, identity domain.IdentityRef, depth domain.AnalysisDepth, success bool, at time.Time) {
	usage.records = append(usage.records, domain.UsageRecord{
		ID:        "seed",
		Identity:  identity,
		Depth:     depth,
		Success:   success,
		CreatedAt: at,
	})
}

func TestCheckQuotaMonotonicity(t *testing.T) {
	gov, usage, now := newTestGovernor()
	ctx := context.Background()
	identity := domain.ResolveIdentity("", "203.0.113.9")
	tier := domain.Tier{
		Name:        domain.TierFree,
		QuickPer24h: 3,
		BurstPer15m: domain.QuotaUnlimited,
	}

	// Three analyses an hour apart all pass, each recorded.
	for i := 0; i < 3; i++ {
		require.NoError(t, gov.CheckQuota(ctx, identity, tier, domain.DepthQuick))
		require.NoError(t, gov.RecordUsage(ctx, identity, domain.DepthQuick, true))
		*now = now.Add(time.Hour)
	}

	// The fourth inside the same 24 hours is denied.
	err := gov.CheckQuota(ctx, identity, tier, domain.DepthQuick)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	var qErr *domain.QuotaError
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, domain.QuotaReasonExhausted, qErr.Reason)
	assert.Equal(t, domain.WindowQuick, qErr.Window)

	// Once the window rolls past the first record, allowed again.
	*now = usage.records[0].CreatedAt.Add(domain.WindowQuick + time.Minute)
	assert.NoError(t, gov.CheckQuota(ctx, identity, tier, domain.DepthQuick))
}

func TestCheckQuotaFailedAttemptsDontCount(t *testing.T) {
	gov, usage, now := newTestGovernor()
	identity := domain.ResolveIdentity("u1", "")
	tier := domain.Tier{QuickPer24h: 1, BurstPer15m: 1}

	for i := 0; i < 5; i++ {
		seedRecord(usage, identity, domain.DepthQuick, false, now.Add(-time.Minute))
	}

	assert.NoError(t, gov.CheckQuota(context.Background(), identity, tier, domain.DepthQuick))
}

func TestCheckQuotaZeroMeansNotOffered(t *testing.T) {
	gov, _, _ := newTestGovernor()
	identity := domain.ResolveIdentity("u1", "")
	tier := domain.Tier{QuickPer24h: 3, FullPer30d: 0}

	err := gov.CheckQuota(context.Background(), identity, tier, domain.DepthFull)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	var qErr *domain.QuotaError
	require.ErrorAs(t, err, &qErr)
	// "Not included in the plan", not "used up" - the two surface
	// different messages.
	assert.Equal(t, domain.QuotaReasonNotOffered, qErr.Reason)
	assert.Zero(t, qErr.Window)
}

func TestCheckQuotaBurstGuard(t *testing.T) {
	gov, usage, now := newTestGovernor()
	identity := domain.ResolveIdentity("u1", "")
	tier := domain.Tier{QuickPer24h: 100, FullPer30d: 100, BurstPer15m: 2}

	// Mixed depths count together against the burst guard.
	seedRecord(usage, identity, domain.DepthQuick, true, now.Add(-time.Minute))
	seedRecord(usage, identity, domain.DepthFull, true, now.Add(-2*time.Minute))

	err := gov.CheckQuota(context.Background(), identity, tier, domain.DepthQuick)
	require.Error(t, err)

	var qErr *domain.QuotaError
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, domain.QuotaReasonBurst, qErr.Reason)
	assert.Equal(t, domain.WindowBurst, qErr.Window)

	// Outside the burst window the same records stop counting.
	*now = now.Add(domain.WindowBurst)
	assert.NoError(t, gov.CheckQuota(context.Background(), identity, tier, domain.DepthQuick))
}

func TestCheckQuotaAdminBypass(t *testing.T) {
	gov, usage, now := newTestGovernor()
	identity := domain.ResolveIdentity("root", "")
	tier := domain.Tier{Name: domain.TierAdmin, Admin: true}

	for i := 0; i < 50; i++ {
		seedRecord(usage, identity, domain.DepthFull, true, now.Add(-time.Minute))
	}

	assert.NoError(t, gov.CheckQuota(context.Background(), identity, tier, domain.DepthFull))
}

func TestCheckQuotaScopedPerIdentity(t *testing.T) {
	gov, usage, now := newTestGovernor()
	busy := domain.ResolveIdentity("busy", "")
	quiet := domain.ResolveIdentity("quiet", "")
	tier := domain.Tier{QuickPer24h: 1, BurstPer15m: domain.QuotaUnlimited}

	seedRecord(usage, busy, domain.DepthQuick, true, now.Add(-time.Minute))

	assert.Error(t, gov.CheckQuota(context.Background(), busy, tier, domain.DepthQuick))
	assert.NoError(t, gov.CheckQuota(context.Background(), quiet, tier, domain.DepthQuick))
}

func TestRecordUsageFields(t *testing.T) {
	gov, usage, now := newTestGovernor()
	identity := domain.ResolveIdentity("u1", "")

	require.NoError(t, gov.RecordUsage(context.Background(), identity, domain.DepthFull, false))

	records := usage.all()
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, identity, records[0].Identity)
	assert.Equal(t, domain.DepthFull, records[0].Depth)
	assert.False(t, records[0].Success)
	assert.Equal(t, *now, records[0].CreatedAt)
}

func TestRemaining(t *testing.T) {
	gov, usage, now := newTestGovernor()
	identity := domain.ResolveIdentity("u1", "")
	tier := domain.Tier{
		Name:        domain.TierPro,
		QuickPer24h: 3,
		FullPer30d:  2,
		BurstPer15m: 5,
	}

	seedRecord(usage, identity, domain.DepthQuick, true, now.Add(-time.Minute))
	seedRecord(usage, identity, domain.DepthFull, true, now.Add(-24*time.Hour))
	// Outside every window.
	seedRecord(usage, identity, domain.DepthQuick, true, now.Add(-25*time.Hour))

	status, err := gov.Remaining(context.Background(), identity, tier)
	require.NoError(t, err)
	assert.Equal(t, domain.TierPro, status.Tier)
	assert.Equal(t, 2, status.QuickRemaining)
	assert.Equal(t, 1, status.FullRemaining)
	assert.Equal(t, 4, status.BurstRemaining)
}

func TestRemainingClampsAndPassesUnlimited(t *testing.T) {
	gov, usage, now := newTestGovernor()
	identity := domain.ResolveIdentity("u1", "")
	tier := domain.Tier{
		QuickPer24h: 1,
		FullPer30d:  0,
		BurstPer15m: domain.QuotaUnlimited,
	}

	// Over-consumed, e.g. after a policy downgrade.
	seedRecord(usage, identity, domain.DepthQuick, true, now.Add(-time.Minute))
	seedRecord(usage, identity, domain.DepthQuick, true, now.Add(-2*time.Minute))

	status, err := gov.Remaining(context.Background(), identity, tier)
	require.NoError(t, err)
	assert.Equal(t, 0, status.QuickRemaining)
	assert.Equal(t, 0, status.FullRemaining)
	assert.Equal(t, domain.QuotaUnlimited, status.BurstRemaining)
}
