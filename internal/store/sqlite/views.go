package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

// RecordView appends one view event. UserID may be empty for anonymous views.
func (s *Store) RecordView(ctx context.Context, event *domain.ViewEvent) error {
	if event.ViewedAt == 0 {
		event.ViewedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO view_events (book_id, user_id, viewed_at) VALUES (?, ?, ?)`,
		event.BookID, event.UserID, event.ViewedAt)
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// RecentViewsForUser returns the user's most recently viewed book IDs,
// newest first, each book at most once.
func (s *Store) RecentViewsForUser(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id FROM view_events
		WHERE user_id = ?
		GROUP BY book_id
		ORDER BY MAX(viewed_at) DESC
		LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent views: %w", err)
	}
	defer rows.Close()

	var bookIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		bookIDs = append(bookIDs, id)
	}
	return bookIDs, rows.Err()
}

// BookViewCount stands for one book's view tally over a window.
type BookViewCount struct {
	BookID string
	Views  int64
}

// TopViewedSince returns book IDs ranked by views recorded after the
// cutoff, most viewed first.
func (s *Store) TopViewedSince(ctx context.Context, since time.Time, limit int) ([]BookViewCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id, COUNT(*) AS views FROM view_events
		WHERE viewed_at >= ?
		GROUP BY book_id
		ORDER BY views DESC, book_id
		LIMIT ?`,
		since.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("top viewed: %w", err)
	}
	defer rows.Close()

	var counts []BookViewCount
	for rows.Next() {
		var c BookViewCount
		if err := rows.Scan(&c.BookID, &c.Views); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// DeleteBookViews removes all view events for a book.
// Called when the book itself is deleted.
func (s *Store) DeleteBookViews(ctx context.Context, bookID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM view_events WHERE book_id = ?`, bookID)
	if err != nil {
		return fmt.Errorf("delete book views: %w", err)
	}
	return nil
}
