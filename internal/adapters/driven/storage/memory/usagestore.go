package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
)

// Ensure UsageStore implements the interface.
var _ driven.UsageStore = (*UsageStore)(nil)

// UsageStore is an in-memory implementation of driven.UsageStore.
type UsageStore struct {
	mu      sync.RWMutex
	records []domain.UsageRecord
}

// NewUsageStore creates a new in-memory usage store.
func NewUsageStore() *UsageStore {
	return &UsageStore{}
}

// Record appends a usage record.
func (s *UsageStore) Record(_ context.Context, rec *domain.UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

// CountSince counts successful records for an identity at a depth.
func (s *UsageStore) CountSince(
	_ context.Context, identity domain.IdentityRef, depth domain.AnalysisDepth, since time.Time,
) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.records {
		if r.Success && r.Identity == identity && r.Depth == depth && !r.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// CountAllSince counts successful records for an identity across depths.
func (s *UsageStore) CountAllSince(
	_ context.Context, identity domain.IdentityRef, since time.Time,
) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.records {
		if r.Success && r.Identity == identity && !r.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
