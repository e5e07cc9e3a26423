package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookdenapp/bookden-server/internal/domain"
	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
	"github.com/bookdenapp/bookden-server/internal/id"
	"github.com/bookdenapp/bookden-server/internal/store"
)

// CarouselService curates the homepage hero carousel.
type CarouselService struct {
	store  *store.Store
	books  *BookService
	logger *slog.Logger
}

// NewCarouselService creates a new carousel curation service.
func NewCarouselService(store *store.Store, books *BookService, logger *slog.Logger) *CarouselService {
	return &CarouselService{store: store, books: books, logger: logger}
}

// FeatureBook pins a book to the carousel.
// Fails when the carousel is full or the book is already featured.
func (s *CarouselService) FeatureBook(ctx context.Context, bookID string) (*domain.CarouselSlide, error) {
	// Featuring a missing book would leave a dead slide on the homepage.
	if _, err := s.books.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	slideID, err := id.Generate("slide")
	if err != nil {
		return nil, fmt.Errorf("generate slide ID: %w", err)
	}

	now := time.Now()
	slide := &domain.CarouselSlide{
		Timestamps: domain.Timestamps{
			ID:        slideID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookID: bookID,
	}

	if err := s.store.AddSlide(ctx, slide); err != nil {
		switch {
		case errors.Is(err, store.ErrCarouselFull):
			return nil, domainerrors.Conflictf("the carousel is full, remove a slide first (max %d)", domain.MaxCarouselSlides)
		case errors.Is(err, store.ErrSlideExists):
			return nil, domainerrors.Conflict("this book is already featured")
		}
		return nil, fmt.Errorf("add slide: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "book featured",
		slog.String("book_id", bookID),
		slog.String("slide_id", slide.ID))
	return slide, nil
}

// UnfeatureBook removes a book from the carousel.
func (s *CarouselService) UnfeatureBook(ctx context.Context, bookID string) error {
	slide, err := s.store.GetSlideByBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrSlideNotFound) {
			return domainerrors.NotFound("book is not featured")
		}
		return err
	}
	return s.store.DeleteSlide(ctx, slide.ID)
}

// CarouselEntry pairs a slide with its resolved book.
type CarouselEntry struct {
	Slide *domain.CarouselSlide `json:"slide"`
	Book  *domain.Book          `json:"book"`
}

// ListCarousel returns the carousel in feature order with books resolved.
// Slides whose book has disappeared are dropped from the response.
func (s *CarouselService) ListCarousel(ctx context.Context) ([]CarouselEntry, error) {
	slides, err := s.store.ListSlides(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]CarouselEntry, 0, len(slides))
	for _, slide := range slides {
		book, err := s.books.GetBook(ctx, slide.BookID)
		if err != nil {
			s.logger.Warn("carousel slide references missing book",
				"slide_id", slide.ID, "book_id", slide.BookID)
			continue
		}
		book.PDF = "" // Carousel payloads never carry book content
		entries = append(entries, CarouselEntry{Slide: slide, Book: book})
	}
	return entries, nil
}
