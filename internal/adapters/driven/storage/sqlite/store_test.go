package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStoreRunsMigrations(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.FileExists(t, store.Path())
	require.NoError(t, store.Close())

	// Reopening is a no-op migration-wise.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestCacheStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	cache := store.ReportCacheStore()
	ctx := context.Background()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	key := domain.NewCacheKey(domain.SourceArticle, domain.DepthFull, true, "https://example.com/post/")
	entry := &domain.CacheEntry{
		Key:       key,
		Payload:   []byte(`{"synthesis":"..."}`),
		Enriched:  true,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.FreshnessEnriched),
	}

	require.NoError(t, cache.Put(ctx, entry))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, entry.Payload, got.Payload)
	assert.True(t, got.Enriched)
	assert.True(t, got.CreatedAt.Equal(entry.CreatedAt))
	assert.True(t, got.ExpiresAt.Equal(entry.ExpiresAt))

	// Keying is canonical: the slashless form resolves the same row.
	same, err := cache.Get(ctx, domain.NewCacheKey(domain.SourceArticle, domain.DepthFull, true, "https://example.com/post"))
	require.NoError(t, err)
	assert.Equal(t, got.Payload, same.Payload)
}

func TestCacheStoreMissAndOverwrite(t *testing.T) {
	store := newTestStore(t)
	cache := store.ReportCacheStore()
	ctx := context.Background()

	key := domain.NewCacheKey(domain.SourceText, domain.DepthQuick, false, "text:abc")

	_, err := cache.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	now := time.Now().UTC().Truncate(time.Second)
	first := &domain.CacheEntry{
		Key:       key,
		Payload:   []byte("old"),
		CreatedAt: now,
		ExpiresAt: now.Add(domain.FreshnessPlain),
	}
	require.NoError(t, cache.Put(ctx, first))

	second := &domain.CacheEntry{
		Key:       key,
		Payload:   []byte("new"),
		CreatedAt: now.Add(time.Hour),
		ExpiresAt: now.Add(time.Hour + domain.FreshnessPlain),
	}
	require.NoError(t, cache.Put(ctx, second))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got.Payload)
	assert.True(t, got.CreatedAt.Equal(second.CreatedAt))
}

func TestCacheStoreKeysAreDistinct(t *testing.T) {
	store := newTestStore(t)
	cache := store.ReportCacheStore()
	ctx := context.Background()

	now := time.Now().UTC()
	base := domain.NewCacheKey(domain.SourceArticle, domain.DepthQuick, false, "https://example.com/a")
	require.NoError(t, cache.Put(ctx, &domain.CacheEntry{
		Key: base, Payload: []byte("x"), CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	variants := []domain.CacheKey{
		domain.NewCacheKey(domain.SourceArticle, domain.DepthFull, false, "https://example.com/a"),
		domain.NewCacheKey(domain.SourceArticle, domain.DepthQuick, true, "https://example.com/a"),
		domain.NewCacheKey(domain.SourceYouTube, domain.DepthQuick, false, "https://example.com/a"),
		domain.NewCacheKey(domain.SourceArticle, domain.DepthQuick, false, "https://example.com/b"),
	}
	for _, key := range variants {
		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrNotFound, "key %+v", key)
	}
}

func TestUsageStoreCounts(t *testing.T) {
	store := newTestStore(t)
	usage := store.UsageStore()
	ctx := context.Background()

	identity := domain.ResolveIdentity("u1", "")
	other := domain.ResolveIdentity("", "203.0.113.9")
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	records := []domain.UsageRecord{
		{ID: "r1", Identity: identity, Depth: domain.DepthQuick, Success: true, CreatedAt: now.Add(-time.Minute)},
		{ID: "r2", Identity: identity, Depth: domain.DepthQuick, Success: true, CreatedAt: now.Add(-23 * time.Hour)},
		{ID: "r3", Identity: identity, Depth: domain.DepthQuick, Success: false, CreatedAt: now.Add(-time.Minute)},
		{ID: "r4", Identity: identity, Depth: domain.DepthFull, Success: true, CreatedAt: now.Add(-time.Minute)},
		{ID: "r5", Identity: identity, Depth: domain.DepthQuick, Success: true, CreatedAt: now.Add(-25 * time.Hour)},
		{ID: "r6", Identity: other, Depth: domain.DepthQuick, Success: true, CreatedAt: now.Add(-time.Minute)},
	}
	for i := range records {
		require.NoError(t, usage.Record(ctx, &records[i]))
	}

	// Successful quick records inside the day: r1 and r2. r3 failed,
	// r4 is another depth, r5 is outside, r6 is someone else.
	count, err := usage.CountSince(ctx, identity, domain.DepthQuick, now.Add(-domain.WindowQuick))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = usage.CountSince(ctx, identity, domain.DepthFull, now.Add(-domain.WindowFull))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Combined depths inside the burst window.
	count, err = usage.CountAllSince(ctx, identity, now.Add(-domain.WindowBurst))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = usage.CountAllSince(ctx, other, now.Add(-domain.WindowBurst))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUsageStoreDuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	usage := store.UsageStore()
	ctx := context.Background()

	rec := domain.UsageRecord{
		ID:        "dup",
		Identity:  domain.ResolveIdentity("u1", ""),
		Depth:     domain.DepthQuick,
		Success:   true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, usage.Record(ctx, &rec))
	assert.Error(t, usage.Record(ctx, &rec))
}
