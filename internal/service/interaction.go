package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookdenapp/bookden-server/internal/domain"
	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
	"github.com/bookdenapp/bookden-server/internal/store"
)

// InteractionService handles likes, dislikes, and ratings on books.
type InteractionService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewInteractionService creates a new interaction service.
func NewInteractionService(store *store.Store, logger *slog.Logger) *InteractionService {
	return &InteractionService{store: store, logger: logger}
}

// ReactionResult describes the book's reaction state after a toggle.
// Likes and Dislikes are total counts across all users; IsLiked and
// IsDisliked reflect the acting user's state.
type ReactionResult struct {
	Success    bool `json:"success"`
	Likes      int  `json:"likes"`
	Dislikes   int  `json:"dislikes"`
	IsLiked    bool `json:"isLiked"`
	IsDisliked bool `json:"isDisliked"`
}

// RatingResult describes the book's rating state after an upsert.
type RatingResult struct {
	Success       bool    `json:"success"`
	UserRating    int     `json:"userRating"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
}

// ToggleReaction applies a like or dislike toggle for the user and returns
// the book's resulting reaction state.
//
// The same action twice removes the reaction; the opposite action moves the
// user across, so a user is never in both sets.
func (s *InteractionService) ToggleReaction(ctx context.Context, bookID, userID string, action domain.ReactionAction) (*ReactionResult, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if !action.Valid() {
		return nil, domainerrors.Validationf("unknown reaction %q, must be like or dislike", action)
	}

	book, err := s.loadBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.ApplyReaction(userID, action)

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("save reaction: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "reaction toggled",
		slog.String("book_id", bookID),
		slog.String("user_id", userID),
		slog.String("action", string(action)))

	return &ReactionResult{
		Success:    true,
		Likes:      len(book.Likes),
		Dislikes:   len(book.Dislikes),
		IsLiked:    book.IsLikedBy(userID),
		IsDisliked: book.IsDislikedBy(userID),
	}, nil
}

// RateBook records the user's star score for a book, overwriting any
// previous score, and returns the recomputed aggregate.
func (s *InteractionService) RateBook(ctx context.Context, bookID, userID string, score int) (*RatingResult, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if score < domain.MinRating || score > domain.MaxRating {
		return nil, domainerrors.Validationf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}

	book, err := s.loadBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	updated := book.UpsertRating(userID, score)

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "book rated",
		slog.String("book_id", bookID),
		slog.String("user_id", userID),
		slog.Int("score", score),
		slog.Bool("updated", updated))

	return &RatingResult{
		Success:       true,
		UserRating:    score,
		AverageRating: book.AverageRating(),
		TotalRatings:  book.TotalRatings(),
	}, nil
}

// ReactionState reports the acting user's current reaction and rating for a
// book without mutating anything.
func (s *InteractionService) ReactionState(ctx context.Context, bookID, userID string) (*ReactionResult, *RatingResult, error) {
	book, err := s.loadBook(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}

	reaction := &ReactionResult{
		Success:    true,
		Likes:      len(book.Likes),
		Dislikes:   len(book.Dislikes),
		IsLiked:    book.IsLikedBy(userID),
		IsDisliked: book.IsDislikedBy(userID),
	}
	userRating, _ := book.RatingFor(userID)
	rating := &RatingResult{
		Success:       true,
		UserRating:    userRating,
		AverageRating: book.AverageRating(),
		TotalRatings:  book.TotalRatings(),
	}
	return reaction, rating, nil
}

// loadBook repairs any legacy field shapes, then reads the book. Repair
// failures other than a missing book are logged and do not block the read;
// the decoder tolerates unrepaired documents.
func (s *InteractionService) loadBook(ctx context.Context, bookID string) (*domain.Book, error) {
	if bookID == "" {
		return nil, domainerrors.Validation("book ID is required")
	}

	if err := s.store.RepairBookShape(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		s.logger.Warn("book shape repair failed", "book_id", bookID, "error", err)
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("load book: %w", err)
	}
	return book, nil
}
