// Package memory provides in-memory implementations of the storage
// driven ports, for tests and for running without a data directory.
package memory

import (
	"context"
	"sync"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.ReportCacheStore = (*CacheStore)(nil)

// CacheStore is an in-memory implementation of driven.ReportCacheStore.
type CacheStore struct {
	mu      sync.RWMutex
	entries map[domain.CacheKey]domain.CacheEntry
}

// NewCacheStore creates a new in-memory report cache.
func NewCacheStore() *CacheStore {
	return &CacheStore{
		entries: make(map[domain.CacheKey]domain.CacheEntry),
	}
}

// Get retrieves the entry for a key.
func (s *CacheStore) Get(_ context.Context, key domain.CacheKey) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Put stores an entry, replacing any existing entry for the key.
func (s *CacheStore) Put(_ context.Context, entry *domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = *entry
	return nil
}
