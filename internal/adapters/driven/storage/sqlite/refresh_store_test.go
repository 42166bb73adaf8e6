package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

func TestRefreshStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	refresh := setupTestStore(t).RefreshStore()

	_, err := refresh.GetRefresh(ctx, "feed")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	run := time.Unix(1700000000, 0)
	require.NoError(t, refresh.SaveRefresh(ctx, "feed", domain.RefreshStatus{
		LastRun:   run,
		LastError: "query failed",
	}))

	got, err := refresh.GetRefresh(ctx, "feed")
	require.NoError(t, err)
	assert.True(t, got.LastRun.Equal(run))
	assert.True(t, got.LastSuccess.IsZero())
	assert.Equal(t, "query failed", got.LastError)

	require.NoError(t, refresh.SaveRefresh(ctx, "feed", domain.RefreshStatus{
		LastRun:     run.Add(time.Minute),
		LastSuccess: run.Add(time.Minute),
		Papers:      12,
	}))
	got, err = refresh.GetRefresh(ctx, "feed")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Papers)
	assert.Empty(t, got.LastError)
	assert.True(t, got.LastSuccess.Equal(run.Add(time.Minute)))
}
