package cli

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

// mockConfigStore is a minimal in-memory driven.ConfigStore.
type mockConfigStore struct {
	data map[string]any
	path string
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any), path: "/tmp/config.toml"}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.data[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.data[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.data[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if v, ok := m.data[key].([]string); ok {
		return v
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return m.path
}

// defaultTestReport is a representative analysis result.
func defaultTestReport() *domain.AnalysisReport {
	score := 35
	return &domain.AnalysisReport{
		SourceRef: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Depth:     domain.DepthQuick,
		Findings: []domain.Finding{
			{
				Category:    domain.CategoryFallacy,
				Name:        "Bandwagon",
				Description: "appeals to popularity",
				Severity:    domain.SeverityHigh,
			},
			{
				Category: domain.CategoryBias,
				Name:     "Confirmation Bias",
				Severity: domain.SeverityUnknown,
			},
		},
		DimensionScores: []domain.DimensionScore{
			{Dimension: "Evidence use", Value: 2, ScaleMax: 5},
		},
		OverallScore: &score,
		Synthesis:    "## Logical Fallacies\n- **Bandwagon**: appeals to popularity (High)",
	}
}

// setupTestServices injects mock services and resets flag state.
// Returns a cleanup function restoring the previous services.
func setupTestServices() func() {
	prevAnalysis := analysisService
	prevUsage := usageInspector
	prevConfig := configStore

	analysisService = &mockAnalysisService{report: defaultTestReport()}
	usageInspector = &mockUsageInspector{
		status: &domain.QuotaStatus{
			Tier:           domain.TierFree,
			QuickRemaining: 2,
			FullRemaining:  0,
			BurstRemaining: 1,
		},
	}
	configStore = newMockConfigStore()

	resetAnalyzeFlags()

	return func() {
		analysisService = prevAnalysis
		usageInspector = prevUsage
		configStore = prevConfig
		resetAnalyzeFlags()
	}
}

// resetAnalyzeFlags clears package-level flag state between tests.
func resetAnalyzeFlags() {
	analyzeKind = ""
	analyzeText = ""
	analyzeDepth = "quick"
	analyzeEnrich = false
	analyzeUser = ""
	analyzeLabel = ""
	analyzeJSON = false
	usageUser = ""
}
