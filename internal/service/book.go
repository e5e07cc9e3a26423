package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bookdenapp/bookden-server/internal/domain"
	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
	"github.com/bookdenapp/bookden-server/internal/id"
	"github.com/bookdenapp/bookden-server/internal/media/images"
	"github.com/bookdenapp/bookden-server/internal/metadata"
	"github.com/bookdenapp/bookden-server/internal/store"
	"github.com/bookdenapp/bookden-server/internal/store/sqlite"
)

// BookService handles catalog management and reads.
type BookService struct {
	store   *store.Store
	history *sqlite.Store
	logger  *slog.Logger
}

// NewBookService creates a new book catalog service.
// The history store may be nil, in which case views are only counted.
func NewBookService(store *store.Store, history *sqlite.Store, logger *slog.Logger) *BookService {
	return &BookService{store: store, history: history, logger: logger}
}

// CreateBookRequest contains the data for a new book.
type CreateBookRequest struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Author      string   `json:"author" validate:"required,max=200"`
	Description string   `json:"description,omitempty" validate:"max=10000"`
	Genre       string   `json:"genre" validate:"required,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`
	PDF         string   `json:"pdf,omitempty"`
}

// UpdateBookRequest contains partial updates for an existing book.
// Nil fields are left unchanged.
type UpdateBookRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=300"`
	Author      *string   `json:"author,omitempty" validate:"omitempty,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=10000"`
	Genre       *string   `json:"genre,omitempty" validate:"omitempty,max=100"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	CoverImage  *string   `json:"coverImage,omitempty"`
	PDF         *string   `json:"pdf,omitempty"`
}

// ListBooksParams filters and orders a catalog listing.
type ListBooksParams struct {
	Genre  string
	SortBy string // "recent" (default), "views", "rating", "title"
	Limit  int
	Cursor string
}

// CreateBook adds a book to the catalog. Descriptions pasted as HTML are
// converted to markdown, and a blurhash placeholder is computed for inline
// thumbnail images.
func (s *BookService) CreateBook(ctx context.Context, req *CreateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book := &domain.Book{
		Timestamps: domain.Timestamps{
			ID:        bookID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Description: s.cleanDescription(req.Description),
		Genre:       strings.TrimSpace(req.Genre),
		Tags:        req.Tags,
		Thumbnail:   req.Thumbnail,
		CoverImage:  req.CoverImage,
		PDF:         req.PDF,
		Likes:       []string{},
		Dislikes:    []string{},
		Ratings:     []domain.RatingEntry{},
	}
	book.ThumbnailHash = s.thumbnailHash(book.ID, req.Thumbnail)

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// UpdateBook applies a partial update to a book.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, req *UpdateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		book.Author = strings.TrimSpace(*req.Author)
	}
	if req.Description != nil {
		book.Description = s.cleanDescription(*req.Description)
	}
	if req.Genre != nil {
		book.Genre = strings.TrimSpace(*req.Genre)
	}
	if req.Tags != nil {
		book.Tags = *req.Tags
	}
	if req.Thumbnail != nil {
		book.Thumbnail = *req.Thumbnail
		book.ThumbnailHash = s.thumbnailHash(book.ID, *req.Thumbnail)
	}
	if req.CoverImage != nil {
		book.CoverImage = *req.CoverImage
	}
	if req.PDF != nil {
		book.PDF = *req.PDF
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// DeleteBook removes a book along with its carousel slide, search entry,
// and view history.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return domainerrors.NotFoundf("book %s not found", bookID)
		}
		return fmt.Errorf("delete book: %w", err)
	}
	if s.history != nil {
		if err := s.history.DeleteBookViews(ctx, bookID); err != nil {
			s.logger.Warn("failed to delete view history", "book_id", bookID, "error", err)
		}
	}
	return nil
}

// GetBook loads a single book, repairing legacy field shapes first.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
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

// ListBooks returns a page of books, optionally filtered by genre.
//
// Cursor pagination only holds for the default recency order; other sort
// orders load the full catalog and sort in memory, which is fine at the
// catalog sizes BookDen serves.
func (s *BookService) ListBooks(ctx context.Context, params ListBooksParams) (*store.PaginatedResult[*domain.Book], error) {
	if params.Genre != "" {
		books, err := s.store.ListBooksByGenre(ctx, params.Genre)
		if err != nil {
			return nil, err
		}
		sortBooks(books, params.SortBy)
		return allAsPage(books), nil
	}

	if params.SortBy != "" && params.SortBy != "recent" {
		books, err := s.store.ListAllBooks(ctx)
		if err != nil {
			return nil, err
		}
		sortBooks(books, params.SortBy)
		return allAsPage(books), nil
	}

	page := store.PaginationParams{Limit: params.Limit, Cursor: params.Cursor}
	result, err := s.store.ListBooks(ctx, page)
	if err != nil {
		return nil, err
	}
	sortBooks(result.Items, "recent")
	return result, nil
}

// RecordView bumps the book's view counter and appends a history event.
// UserID may be empty for anonymous views.
func (s *BookService) RecordView(ctx context.Context, bookID, userID string) (int64, error) {
	views, err := s.store.IncrementViews(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return 0, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}

	if s.history != nil {
		event := &domain.ViewEvent{BookID: bookID, UserID: userID, ViewedAt: time.Now().Unix()}
		if err := s.history.RecordView(ctx, event); err != nil {
			s.logger.Warn("failed to record view event", "book_id", bookID, "error", err)
		}
	}
	return views, nil
}

// cleanDescription converts HTML descriptions to markdown.
func (s *BookService) cleanDescription(description string) string {
	if !metadata.ContainsHTML(description) {
		return strings.TrimSpace(description)
	}
	return metadata.CleanDescription(description)
}

// thumbnailHash computes a blurhash for inline image data. External URLs
// and undecodable images produce no hash.
func (s *BookService) thumbnailHash(bookID, thumbnail string) string {
	if !strings.HasPrefix(thumbnail, "data:") {
		return ""
	}
	hash, err := images.ComputeBlurHashFromDataURL(thumbnail)
	if err != nil {
		s.logger.Debug("blurhash computation failed", "book_id", bookID, "error", err)
		return ""
	}
	return hash
}

// sortBooks orders books in place by the requested key.
func sortBooks(books []*domain.Book, sortBy string) {
	switch sortBy {
	case "views":
		slices.SortFunc(books, func(a, b *domain.Book) int {
			return cmp.Compare(b.Views, a.Views)
		})
	case "rating":
		slices.SortFunc(books, func(a, b *domain.Book) int {
			return cmp.Compare(b.AverageRating(), a.AverageRating())
		})
	case "title":
		slices.SortFunc(books, func(a, b *domain.Book) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	default:
		slices.SortFunc(books, func(a, b *domain.Book) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

// allAsPage wraps a fully-materialized listing in a single result page.
func allAsPage(books []*domain.Book) *store.PaginatedResult[*domain.Book] {
	return &store.PaginatedResult[*domain.Book]{
		Items:   books,
		HasMore: false,
		Total:   len(books),
	}
}
