package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

func TestUsageStoreCounts(t *testing.T) {
	store := NewUsageStore()
	ctx := context.Background()

	identity := domain.ResolveIdentity("u1", "")
	now := time.Now()

	records := []domain.UsageRecord{
		{ID: "a", Identity: identity, Depth: domain.DepthQuick, Success: true, CreatedAt: now},
		{ID: "b", Identity: identity, Depth: domain.DepthQuick, Success: false, CreatedAt: now},
		{ID: "c", Identity: identity, Depth: domain.DepthFull, Success: true, CreatedAt: now},
		{ID: "d", Identity: identity, Depth: domain.DepthQuick, Success: true, CreatedAt: now.Add(-48 * time.Hour)},
	}
	for i := range records {
		require.NoError(t, store.Record(ctx, &records[i]))
	}

	count, err := store.CountSince(ctx, identity, domain.DepthQuick, now.Add(-domain.WindowQuick))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.CountAllSince(ctx, identity, now.Add(-domain.WindowQuick))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountSince(ctx, domain.ResolveIdentity("someone-else", ""), domain.DepthQuick, now.Add(-domain.WindowQuick))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
