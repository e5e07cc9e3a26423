package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("bk-001")

	err := store.CreateBook(ctx, book)
	require.NoError(t, err)

	retrieved, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, retrieved.ID)
	assert.Equal(t, book.Title, retrieved.Title)
	assert.Equal(t, book.Genre, retrieved.Genre)
}

func TestCreateBook_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("bk-001")

	require.NoError(t, store.CreateBook(ctx, book))

	err := store.CreateBook(ctx, book)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetBook(context.Background(), "bk-missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateBook_GenreIndexMoves(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("bk-001")
	require.NoError(t, store.CreateBook(ctx, book))

	book.Genre = "Horror"
	require.NoError(t, store.UpdateBook(ctx, book))

	horror, err := store.ListBooksByGenre(ctx, "Horror")
	require.NoError(t, err)
	require.Len(t, horror, 1)
	assert.Equal(t, "bk-001", horror[0].ID)

	scifi, err := store.ListBooksByGenre(ctx, "Science Fiction")
	require.NoError(t, err)
	assert.Empty(t, scifi)
}

func TestDeleteBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("bk-001")
	require.NoError(t, store.CreateBook(ctx, book))
	require.NoError(t, store.DeleteBook(ctx, book.ID))

	_, err := store.GetBook(ctx, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	// Genre index entry is gone too
	books, err := store.ListBooksByGenre(ctx, book.Genre)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestDeleteBook_RemovesCarouselSlide(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("bk-001")
	require.NoError(t, store.CreateBook(ctx, book))

	slide := createTestSlide("sld-001", book.ID)
	require.NoError(t, store.AddSlide(ctx, slide))

	require.NoError(t, store.DeleteBook(ctx, book.ID))

	slides, err := store.ListSlides(ctx)
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestIncrementViews(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("bk-001")
	require.NoError(t, store.CreateBook(ctx, book))

	views, err := store.IncrementViews(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), views)

	views, err = store.IncrementViews(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views)

	retrieved, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), retrieved.Views)
}

func TestIncrementViews_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.IncrementViews(context.Background(), "bk-missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListBooks_Pagination(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for i := range 5 {
		book := createTestBook(fmt.Sprintf("bk-%03d", i))
		require.NoError(t, store.CreateBook(ctx, book))
	}

	page1, err := store.ListBooks(ctx, PaginationParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page1.Items, 2)
	assert.True(t, page1.HasMore)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := store.ListBooks(ctx, PaginationParams{Limit: 2, Cursor: page1.NextCursor})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 2)
	assert.True(t, page2.HasMore)

	page3, err := store.ListBooks(ctx, PaginationParams{Limit: 2, Cursor: page2.NextCursor})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)
	assert.False(t, page3.HasMore)
	assert.Empty(t, page3.NextCursor)

	// No duplicates across pages
	seen := make(map[string]bool)
	for _, b := range page1.Items {
		seen[b.ID] = true
	}
	for _, b := range page2.Items {
		assert.False(t, seen[b.ID])
		seen[b.ID] = true
	}
	for _, b := range page3.Items {
		assert.False(t, seen[b.ID])
	}
}

func TestListAllBooks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for i := range 3 {
		require.NoError(t, store.CreateBook(ctx, createTestBook(fmt.Sprintf("bk-%03d", i))))
	}

	books, err := store.ListAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestListBooksByGenre_SlugMatching(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("bk-001")
	book.Genre = "Science Fiction"
	require.NoError(t, store.CreateBook(ctx, book))

	// Lookup ignores case and punctuation differences
	books, err := store.ListBooksByGenre(ctx, "science-fiction")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "bk-001", books[0].ID)
}
