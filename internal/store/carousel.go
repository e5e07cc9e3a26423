package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

// Carousel Operations
//
// Slides are stored through the generic entity layer; the book index
// keeps one slide per book. The helpers here add the slide cap and
// stable ordering.

// AddSlide adds a book to the home carousel.
// Returns ErrCarouselFull past the slide cap and ErrSlideExists when
// the book is already featured.
func (s *Store) AddSlide(ctx context.Context, slide *domain.CarouselSlide) error {
	count, err := s.Slides.Count(ctx)
	if err != nil {
		return fmt.Errorf("count slides: %w", err)
	}
	if count >= domain.MaxCarouselSlides {
		return ErrCarouselFull
	}

	err = s.Slides.Create(ctx, slide.ID, slide)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrSlideExists
	}
	if err != nil {
		return fmt.Errorf("create slide: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("carousel slide added", "id", slide.ID, "book_id", slide.BookID)
	}
	return nil
}

// GetSlideByBook returns the slide featuring the given book.
func (s *Store) GetSlideByBook(ctx context.Context, bookID string) (*domain.CarouselSlide, error) {
	slide, err := s.Slides.GetByIndex(ctx, "book", bookID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrSlideNotFound
	}
	return slide, err
}

// ListSlides returns all carousel slides ordered oldest first.
func (s *Store) ListSlides(ctx context.Context) ([]*domain.CarouselSlide, error) {
	var slides []*domain.CarouselSlide
	for slide, err := range s.Slides.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list slides: %w", err)
		}
		slides = append(slides, slide)
	}

	slices.SortFunc(slides, func(a, b *domain.CarouselSlide) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return slides, nil
}

// DeleteSlide removes a slide by ID.
func (s *Store) DeleteSlide(ctx context.Context, id string) error {
	if err := s.Slides.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete slide: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("carousel slide removed", "id", id)
	}
	return nil
}
