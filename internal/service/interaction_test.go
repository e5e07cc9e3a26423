package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdenapp/bookden-server/internal/domain"
	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
)

func TestToggleReaction_Like(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	result, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_a", domain.ReactionLike)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Likes)
	assert.Equal(t, 0, result.Dislikes)
	assert.True(t, result.IsLiked)
	assert.False(t, result.IsDisliked)
}

func TestToggleReaction_LikeTwiceRemoves(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	_, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_a", domain.ReactionLike)
	require.NoError(t, err)

	result, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_a", domain.ReactionLike)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Likes)
	assert.False(t, result.IsLiked)
	assert.False(t, result.IsDisliked)
}

func TestToggleReaction_SwitchSides(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	_, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_a", domain.ReactionLike)
	require.NoError(t, err)

	result, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_a", domain.ReactionDislike)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Likes)
	assert.Equal(t, 1, result.Dislikes)
	assert.False(t, result.IsLiked)
	assert.True(t, result.IsDisliked)

	// The persisted sets stay disjoint
	book, err := env.store.GetBook(ctx, "book_1")
	require.NoError(t, err)
	assert.Empty(t, book.Likes)
	assert.Equal(t, []string{"usr_a"}, book.Dislikes)
}

func TestToggleReaction_CountsAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	_, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_a", domain.ReactionLike)
	require.NoError(t, err)
	_, err = env.interactions.ToggleReaction(ctx, "book_1", "usr_b", domain.ReactionLike)
	require.NoError(t, err)

	result, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_c", domain.ReactionDislike)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Likes)
	assert.Equal(t, 1, result.Dislikes)
	assert.False(t, result.IsLiked)
	assert.True(t, result.IsDisliked)
}

func TestToggleReaction_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")

	_, err := env.interactions.ToggleReaction(context.Background(), "book_1", "", domain.ReactionLike)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeUnauthorized, domainErr.Code)
}

func TestToggleReaction_UnknownAction(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")

	_, err := env.interactions.ToggleReaction(context.Background(), "book_1", "usr_a", domain.ReactionAction("love"))

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestToggleReaction_BookNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.interactions.ToggleReaction(context.Background(), "book_missing", "usr_a", domain.ReactionLike)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestToggleReaction_RepairsLegacyShapes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.ImportRawBook(ctx, "book_legacy", map[string]any{
		"id":       "book_legacy",
		"title":    "Legacy",
		"author":   "Old Importer",
		"genre":    "Fantasy",
		"likes":    7,
		"dislikes": map[string]any{"count": 2},
		"ratings":  "none",
	}))

	result, err := env.interactions.ToggleReaction(ctx, "book_legacy", "usr_a", domain.ReactionLike)
	require.NoError(t, err)

	// The corrupt fields were reset before the toggle applied
	assert.Equal(t, 1, result.Likes)
	assert.Equal(t, 0, result.Dislikes)
	assert.True(t, result.IsLiked)

	book, err := env.store.GetBook(ctx, "book_legacy")
	require.NoError(t, err)
	assert.Equal(t, []string{"usr_a"}, book.Likes)
	assert.Empty(t, book.Dislikes)
	assert.Empty(t, book.Ratings)
}

func TestRateBook_FirstRating(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")

	result, err := env.interactions.RateBook(context.Background(), "book_1", "usr_a", 4)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 4, result.UserRating)
	assert.InDelta(t, 4.0, result.AverageRating, 0.001)
	assert.Equal(t, 1, result.TotalRatings)
}

func TestRateBook_RerateOverwrites(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	_, err := env.interactions.RateBook(ctx, "book_1", "usr_a", 2)
	require.NoError(t, err)

	result, err := env.interactions.RateBook(ctx, "book_1", "usr_a", 5)
	require.NoError(t, err)

	assert.Equal(t, 5, result.UserRating)
	assert.Equal(t, 1, result.TotalRatings)
	assert.InDelta(t, 5.0, result.AverageRating, 0.001)
}

func TestRateBook_AverageRoundsToOneDecimal(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	// 5 + 4 + 4 = 13 over 3 ratings, mean 4.333...
	_, err := env.interactions.RateBook(ctx, "book_1", "usr_a", 5)
	require.NoError(t, err)
	_, err = env.interactions.RateBook(ctx, "book_1", "usr_b", 4)
	require.NoError(t, err)

	result, err := env.interactions.RateBook(ctx, "book_1", "usr_c", 4)
	require.NoError(t, err)

	assert.Equal(t, 4.3, result.AverageRating)
	assert.Equal(t, 3, result.TotalRatings)
}

func TestRateBook_ScoreOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	for _, score := range []int{0, 6, -1} {
		_, err := env.interactions.RateBook(ctx, "book_1", "usr_a", score)

		var domainErr *domainerrors.Error
		require.ErrorAs(t, err, &domainErr, "score %d", score)
		assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
	}
}

func TestRateBook_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")

	_, err := env.interactions.RateBook(context.Background(), "book_1", "", 3)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeUnauthorized, domainErr.Code)
}

func TestRateBook_IndependentOfReactions(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	_, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_a", domain.ReactionDislike)
	require.NoError(t, err)

	rating, err := env.interactions.RateBook(ctx, "book_1", "usr_a", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, rating.UserRating)

	// Rating did not disturb the reaction
	reaction, _, err := env.interactions.ReactionState(ctx, "book_1", "usr_a")
	require.NoError(t, err)
	assert.True(t, reaction.IsDisliked)
	assert.Equal(t, 1, reaction.Dislikes)
}

func TestReactionState(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book_1")
	ctx := context.Background()

	_, err := env.interactions.ToggleReaction(ctx, "book_1", "usr_a", domain.ReactionLike)
	require.NoError(t, err)
	_, err = env.interactions.RateBook(ctx, "book_1", "usr_a", 3)
	require.NoError(t, err)

	reaction, rating, err := env.interactions.ReactionState(ctx, "book_1", "usr_a")
	require.NoError(t, err)
	assert.True(t, reaction.IsLiked)
	assert.Equal(t, 3, rating.UserRating)

	// A different user sees the counts but not the flags
	reaction, rating, err = env.interactions.ReactionState(ctx, "book_1", "usr_b")
	require.NoError(t, err)
	assert.Equal(t, 1, reaction.Likes)
	assert.False(t, reaction.IsLiked)
	assert.Equal(t, 0, rating.UserRating)
}
