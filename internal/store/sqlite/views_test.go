package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestRecordView_DefaultsTimestamp(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	event := &domain.ViewEvent{BookID: "bk-001", UserID: "usr-001"}
	require.NoError(t, store.RecordView(ctx, event))
	assert.NotZero(t, event.ViewedAt)
}

func TestRecentViewsForUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now().Unix()
	views := []domain.ViewEvent{
		{BookID: "bk-a", UserID: "usr-1", ViewedAt: now - 30},
		{BookID: "bk-b", UserID: "usr-1", ViewedAt: now - 20},
		{BookID: "bk-a", UserID: "usr-1", ViewedAt: now - 10}, // re-view moves bk-a up
		{BookID: "bk-c", UserID: "usr-2", ViewedAt: now - 5},
	}
	for i := range views {
		require.NoError(t, store.RecordView(ctx, &views[i]))
	}

	got, err := store.RecentViewsForUser(ctx, "usr-1", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-a", "bk-b"}, got)

	got, err = store.RecentViewsForUser(ctx, "usr-1", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-a"}, got)
}

func TestTopViewedSince(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now()
	old := now.Add(-48 * time.Hour).Unix()
	recent := now.Add(-time.Hour).Unix()

	events := []domain.ViewEvent{
		{BookID: "bk-a", ViewedAt: recent},
		{BookID: "bk-a", ViewedAt: recent},
		{BookID: "bk-b", ViewedAt: recent},
		{BookID: "bk-c", ViewedAt: old}, // Outside window
	}
	for i := range events {
		require.NoError(t, store.RecordView(ctx, &events[i]))
	}

	counts, err := store.TopViewedSince(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "bk-a", counts[0].BookID)
	assert.Equal(t, int64(2), counts[0].Views)
	assert.Equal(t, "bk-b", counts[1].BookID)
}

func TestDeleteBookViews(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordView(ctx, &domain.ViewEvent{BookID: "bk-a", UserID: "usr-1"}))
	require.NoError(t, store.RecordView(ctx, &domain.ViewEvent{BookID: "bk-b", UserID: "usr-1"}))

	require.NoError(t, store.DeleteBookViews(ctx, "bk-a"))

	got, err := store.RecentViewsForUser(ctx, "usr-1", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-b"}, got)
}
