package mcp

import (
	"context"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	report  *domain.AnalysisReport
	err     error
	lastReq domain.AnalysisRequest
}

func (m *mockAnalysisService) Analyze(
	_ context.Context,
	req domain.AnalysisRequest,
) (*domain.AnalysisReport, error) {
	m.lastReq = req
	return m.report, m.err
}

// mockUsageInspector is a mock implementation of driving.UsageInspector.
type mockUsageInspector struct {
	status *domain.QuotaStatus
	err    error
}

func (m *mockUsageInspector) RemainingQuota(
	_ context.Context,
	_, _ string,
) (*domain.QuotaStatus, error) {
	return m.status, m.err
}

// mockTierStore is a mock implementation of driven.TierPolicyStore.
type mockTierStore struct {
	policy domain.TierPolicy
}

func (m *mockTierStore) Policy() domain.TierPolicy {
	return m.policy
}

func (m *mockTierStore) TierFor(_ domain.IdentityRef) (domain.Tier, error) {
	return m.policy.Lookup(domain.TierFree)
}

func (m *mockTierStore) Close() error {
	return nil
}
