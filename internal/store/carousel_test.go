package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

func createTestSlide(id, bookID string) *domain.CarouselSlide {
	now := time.Now()
	return &domain.CarouselSlide{
		Timestamps: domain.Timestamps{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookID: bookID,
	}
}

func TestAddSlide(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddSlide(ctx, createTestSlide("sld-001", "bk-001")))

	slides, err := store.ListSlides(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "bk-001", slides[0].BookID)
}

func TestAddSlide_DuplicateBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddSlide(ctx, createTestSlide("sld-001", "bk-001")))

	err := store.AddSlide(ctx, createTestSlide("sld-002", "bk-001"))
	assert.ErrorIs(t, err, ErrSlideExists)
}

func TestAddSlide_CarouselFull(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for i := range domain.MaxCarouselSlides {
		slide := createTestSlide(fmt.Sprintf("sld-%03d", i), fmt.Sprintf("bk-%03d", i))
		require.NoError(t, store.AddSlide(ctx, slide))
	}

	err := store.AddSlide(ctx, createTestSlide("sld-extra", "bk-extra"))
	assert.ErrorIs(t, err, ErrCarouselFull)
}

func TestGetSlideByBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddSlide(ctx, createTestSlide("sld-001", "bk-001")))

	slide, err := store.GetSlideByBook(ctx, "bk-001")
	require.NoError(t, err)
	assert.Equal(t, "sld-001", slide.ID)

	_, err = store.GetSlideByBook(ctx, "bk-missing")
	assert.ErrorIs(t, err, ErrSlideNotFound)
}

func TestDeleteSlide(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddSlide(ctx, createTestSlide("sld-001", "bk-001")))
	require.NoError(t, store.DeleteSlide(ctx, "sld-001"))

	slides, err := store.ListSlides(ctx)
	require.NoError(t, err)
	assert.Empty(t, slides)

	// Book can be featured again after removal
	require.NoError(t, store.AddSlide(ctx, createTestSlide("sld-002", "bk-001")))
}

func TestListSlides_OrderedByCreation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	first := createTestSlide("sld-b", "bk-001")
	first.CreatedAt = time.Now().Add(-2 * time.Hour)
	second := createTestSlide("sld-a", "bk-002")
	second.CreatedAt = time.Now().Add(-time.Hour)

	require.NoError(t, store.AddSlide(ctx, first))
	require.NoError(t, store.AddSlide(ctx, second))

	slides, err := store.ListSlides(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "sld-b", slides[0].ID)
	assert.Equal(t, "sld-a", slides[1].ID)
}
