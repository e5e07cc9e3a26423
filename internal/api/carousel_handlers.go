package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookdenapp/bookden-server/internal/service"
	"github.com/bookdenapp/bookden-server/internal/store"
)

func (s *Server) registerCarouselRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCarousel",
		Method:      http.MethodGet,
		Path:        "/api/v1/carousel",
		Summary:     "List carousel",
		Description: "Returns the homepage carousel in feature order with book summaries",
		Tags:        []string{"Carousel"},
	}, s.handleListCarousel)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkCarouselMembership",
		Method:      http.MethodGet,
		Path:        "/api/v1/carousel/{bookId}",
		Summary:     "Check carousel membership",
		Description: "Reports whether a book is currently featured",
		Tags:        []string{"Carousel"},
	}, s.handleCheckCarousel)

	huma.Register(s.api, huma.Operation{
		OperationID: "featureBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/carousel",
		Summary:     "Feature a book",
		Description: "Pins a book to the homepage carousel. Admin only. Fails when the carousel is full or the book is already featured.",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFeatureBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfeatureBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/carousel/{bookId}",
		Summary:     "Unfeature a book",
		Description: "Removes a book from the homepage carousel. Admin only.",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfeatureBook)
}

// === DTOs ===

// CarouselOutput wraps the carousel listing for Huma.
type CarouselOutput struct {
	Body struct {
		Slides []service.CarouselEntry `json:"slides"`
	}
}

// CarouselMembershipInput identifies the book to check.
type CarouselMembershipInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
}

// CarouselMembershipOutput reports membership.
type CarouselMembershipOutput struct {
	Body struct {
		Featured bool `json:"featured"`
	}
}

// FeatureBookInput wraps the feature request.
type FeatureBookInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		BookID string `json:"bookId" doc:"Book to feature"`
	}
}

// FeatureBookOutput reports the new slide.
type FeatureBookOutput struct {
	Body struct {
		Success bool   `json:"success"`
		SlideID string `json:"slideId"`
	}
}

// UnfeatureBookInput identifies the book to remove.
type UnfeatureBookInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookId" doc:"Book ID"`
}

// UnfeatureBookOutput reports removal success.
type UnfeatureBookOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// === Handlers ===

func (s *Server) handleListCarousel(ctx context.Context, _ *struct{}) (*CarouselOutput, error) {
	entries, err := s.services.Carousel.ListCarousel(ctx)
	if err != nil {
		return nil, err
	}

	out := &CarouselOutput{}
	out.Body.Slides = entries
	return out, nil
}

func (s *Server) handleCheckCarousel(ctx context.Context, input *CarouselMembershipInput) (*CarouselMembershipOutput, error) {
	out := &CarouselMembershipOutput{}

	_, err := s.store.GetSlideByBook(ctx, input.BookID)
	switch {
	case err == nil:
		out.Body.Featured = true
	case errors.Is(err, store.ErrSlideNotFound):
		out.Body.Featured = false
	default:
		return nil, err
	}
	return out, nil
}

func (s *Server) handleFeatureBook(ctx context.Context, input *FeatureBookInput) (*FeatureBookOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	slide, err := s.services.Carousel.FeatureBook(ctx, input.Body.BookID)
	if err != nil {
		return nil, err
	}

	out := &FeatureBookOutput{}
	out.Body.Success = true
	out.Body.SlideID = slide.ID
	return out, nil
}

func (s *Server) handleUnfeatureBook(ctx context.Context, input *UnfeatureBookInput) (*UnfeatureBookOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Carousel.UnfeatureBook(ctx, input.BookID); err != nil {
		return nil, err
	}

	out := &UnfeatureBookOutput{}
	out.Body.Success = true
	return out, nil
}
