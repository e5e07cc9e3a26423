package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

// writeLegacyBook injects a raw document bypassing the typed layer,
// the way pre-migration data would appear on disk.
func writeLegacyBook(t *testing.T, s *Store, id string, doc map[string]any) {
	t.Helper()
	require.NoError(t, s.set([]byte(bookPrefix+id), doc))
}

func TestRepairBookShape_NonArrayFields(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	writeLegacyBook(t, store, "bk-legacy", map[string]any{
		"id":       "bk-legacy",
		"title":    "Old Favorite",
		"author":   "A. Author",
		"likes":    5,
		"dislikes": map[string]any{"count": 2},
		"ratings":  "none",
	})

	require.NoError(t, store.RepairBookShape(ctx, "bk-legacy"))

	book, err := store.GetBook(ctx, "bk-legacy")
	require.NoError(t, err)
	assert.Equal(t, "Old Favorite", book.Title)
	assert.Empty(t, book.Likes)
	assert.Empty(t, book.Dislikes)
	assert.Empty(t, book.Ratings)
}

func TestRepairBookShape_MissingFields(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	writeLegacyBook(t, store, "bk-legacy", map[string]any{
		"id":    "bk-legacy",
		"title": "Bare Document",
	})

	require.NoError(t, store.RepairBookShape(ctx, "bk-legacy"))

	book, err := store.GetBook(ctx, "bk-legacy")
	require.NoError(t, err)
	assert.NotNil(t, book.Likes)
	assert.NotNil(t, book.Dislikes)
	assert.NotNil(t, book.Ratings)
}

func TestRepairBookShape_PreservesWellFormedData(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("bk-001")
	book.Likes = []string{"usr-1", "usr-2"}
	book.Ratings = []domain.RatingEntry{{User: "usr-1", Score: 4}}
	require.NoError(t, store.CreateBook(ctx, book))

	require.NoError(t, store.RepairBookShape(ctx, "bk-001"))

	retrieved, err := store.GetBook(ctx, "bk-001")
	require.NoError(t, err)
	assert.Equal(t, []string{"usr-1", "usr-2"}, retrieved.Likes)
	require.Len(t, retrieved.Ratings, 1)
	assert.Equal(t, 4, retrieved.Ratings[0].Score)
}

func TestRepairBookShape_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.RepairBookShape(context.Background(), "bk-missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestGetBook_ToleratesLegacyShapes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	writeLegacyBook(t, store, "bk-legacy", map[string]any{
		"id":    "bk-legacy",
		"title": "Unrepaired",
		"likes": 7,
	})

	// Reads succeed even before the document is repaired on disk
	book, err := store.GetBook(ctx, "bk-legacy")
	require.NoError(t, err)
	assert.Equal(t, "Unrepaired", book.Title)
	assert.Empty(t, book.Likes)
}

func TestRepairAllBookShapes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	writeLegacyBook(t, store, "bk-a", map[string]any{"id": "bk-a", "likes": 1})
	writeLegacyBook(t, store, "bk-b", map[string]any{"id": "bk-b", "ratings": "x"})
	require.NoError(t, store.CreateBook(ctx, createTestBook("bk-c")))

	repaired, err := store.RepairAllBookShapes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)

	for _, id := range []string{"bk-a", "bk-b", "bk-c"} {
		book, err := store.GetBook(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, book.Likes, id)
		assert.NotNil(t, book.Dislikes, id)
		assert.NotNil(t, book.Ratings, id)
	}
}
