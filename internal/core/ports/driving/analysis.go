package driving

import (
	"context"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

// AnalysisService runs the full analysis pipeline for external actors.
type AnalysisService interface {
	// Analyze validates the request, enforces quota, and returns a
	// report, served from cache when a fresh equivalent exists.
	// Quota denials unwrap to domain.ErrQuotaExceeded.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error)
}

// UsageInspector reports remaining quota without consuming any.
type UsageInspector interface {
	// RemainingQuota returns how many successful analyses the caller
	// has left at each depth. domain.QuotaUnlimited means no cap.
	RemainingQuota(ctx context.Context, userID, remoteAddr string) (*domain.QuotaStatus, error)
}
