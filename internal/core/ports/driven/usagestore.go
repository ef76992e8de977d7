package driven

import (
	"context"
	"time"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

// UsageStore persists analysis usage records for quota accounting.
// Backed by SQLite. Records are append only.
type UsageStore interface {
	// Record appends a usage record.
	Record(ctx context.Context, rec *domain.UsageRecord) error

	// CountSince counts successful records for an identity at a given
	// depth with CreatedAt >= since. Failed attempts never count.
	CountSince(ctx context.Context, identity domain.IdentityRef, depth domain.AnalysisDepth, since time.Time) (int, error)

	// CountAllSince counts successful records for an identity across
	// all depths with CreatedAt >= since. Used by the burst guard.
	CountAllSince(ctx context.Context, identity domain.IdentityRef, since time.Time) (int, error)
}
