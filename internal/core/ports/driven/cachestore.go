package driven

import (
	"context"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

// ReportCacheStore persists completed analysis reports for reuse.
// Backed by SQLite for durable storage.
//
// Expiry is the caller's concern: Get returns whatever entry exists,
// expired or not, and the service treats a stale entry as a miss. The
// store never deletes expired rows on read; a later Put for the same
// key overwrites them.
type ReportCacheStore interface {
	// Get retrieves the entry for a key.
	// Returns domain.ErrNotFound if no entry exists.
	Get(ctx context.Context, key domain.CacheKey) (*domain.CacheEntry, error)

	// Put stores an entry, replacing any existing entry for the key.
	Put(ctx context.Context, entry *domain.CacheEntry) error
}
