package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/store/sqlite"
)

// HistoryService answers reading-history and trending queries from the
// view event log.
type HistoryService struct {
	history *sqlite.Store
	books   *BookService
	logger  *slog.Logger
}

// NewHistoryService creates a new view history service.
func NewHistoryService(history *sqlite.Store, books *BookService, logger *slog.Logger) *HistoryService {
	return &HistoryService{history: history, books: books, logger: logger}
}

// RecentForUser returns the user's most recently viewed books, newest
// first, deduplicated by book. Books deleted since the view are skipped.
func (s *HistoryService) RecentForUser(ctx context.Context, userID string, limit int) ([]*domain.Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	bookIDs, err := s.history.RecentViewsForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return s.resolveBooks(ctx, bookIDs), nil
}

// TrendingBook pairs a book with its view count inside the window.
type TrendingBook struct {
	Book  *domain.Book `json:"book"`
	Views int64        `json:"views"` // Views within the trending window
}

// Trending returns the most viewed books over the given window.
func (s *HistoryService) Trending(ctx context.Context, window time.Duration, limit int) ([]TrendingBook, error) {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	counts, err := s.history.TopViewedSince(ctx, time.Now().Add(-window), limit)
	if err != nil {
		return nil, err
	}

	trending := make([]TrendingBook, 0, len(counts))
	for _, count := range counts {
		book, err := s.books.GetBook(ctx, count.BookID)
		if err != nil {
			continue
		}
		book.PDF = ""
		trending = append(trending, TrendingBook{Book: book, Views: count.Views})
	}
	return trending, nil
}

// resolveBooks loads books by ID, dropping any that no longer exist.
func (s *HistoryService) resolveBooks(ctx context.Context, bookIDs []string) []*domain.Book {
	books := make([]*domain.Book, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		book, err := s.books.GetBook(ctx, bookID)
		if err != nil {
			s.logger.Debug("history references missing book", "book_id", bookID)
			continue
		}
		book.PDF = ""
		books = append(books, book)
	}
	return books
}
