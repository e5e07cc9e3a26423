package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/service"
)

func (s *Server) registerInteractionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleReaction",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/reaction",
		Summary:     "Toggle like or dislike",
		Description: "Toggles the authenticated user's reaction on a book. Repeating an action removes it; the opposite action replaces it.",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleReaction)

	huma.Register(s.api, huma.Operation{
		OperationID: "rateBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/rating",
		Summary:     "Rate a book",
		Description: "Records a 1-5 star rating for the authenticated user, overwriting any previous rating, and returns the recomputed aggregate.",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getInteractionState",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/interactions",
		Summary:     "Get interaction state",
		Description: "Returns reaction counts and aggregate rating for a book. With a valid token the user's own flags and rating are populated.",
		Tags:        []string{"Interactions"},
	}, s.handleGetInteractionState)
}

// === DTOs ===

// ToggleReactionRequest is the request body for toggling a reaction.
type ToggleReactionRequest struct {
	BookID string `json:"bookId" doc:"Book to react to"`
	Action string `json:"action" enum:"like,dislike" doc:"Reaction to toggle"`
}

// ToggleReactionInput wraps the toggle request for Huma.
type ToggleReactionInput struct {
	Authorization string `header:"Authorization"`
	Body          ToggleReactionRequest
}

// ToggleReactionOutput wraps the reaction result for Huma.
type ToggleReactionOutput struct {
	Body service.ReactionResult
}

// RateBookRequest is the request body for rating a book.
type RateBookRequest struct {
	BookID string `json:"bookId" doc:"Book to rate"`
	Rating int    `json:"rating" doc:"Star rating, integer 1 to 5"`
}

// RateBookInput wraps the rating request for Huma.
type RateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          RateBookRequest
}

// RateBookOutput wraps the rating result for Huma.
type RateBookOutput struct {
	Body service.RatingResult
}

// InteractionStateInput identifies the book and optional viewer.
type InteractionStateInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// InteractionStateResponse combines reaction and rating state.
type InteractionStateResponse struct {
	Likes         int     `json:"likes" doc:"Total like count"`
	Dislikes      int     `json:"dislikes" doc:"Total dislike count"`
	IsLiked       bool    `json:"isLiked" doc:"Whether the viewer likes this book"`
	IsDisliked    bool    `json:"isDisliked" doc:"Whether the viewer dislikes this book"`
	UserRating    int     `json:"userRating" doc:"The viewer's rating, 0 if none"`
	AverageRating float64 `json:"averageRating" doc:"Mean rating to one decimal"`
	TotalRatings  int     `json:"totalRatings" doc:"Number of ratings"`
}

// InteractionStateOutput wraps the state response for Huma.
type InteractionStateOutput struct {
	Body InteractionStateResponse
}

// === Handlers ===

func (s *Server) handleToggleReaction(ctx context.Context, input *ToggleReactionInput) (*ToggleReactionOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Interactions.ToggleReaction(ctx, input.Body.BookID, userID, domain.ReactionAction(input.Body.Action))
	if err != nil {
		return nil, err
	}

	return &ToggleReactionOutput{Body: *result}, nil
}

func (s *Server) handleRateBook(ctx context.Context, input *RateBookInput) (*RateBookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Interactions.RateBook(ctx, input.Body.BookID, userID, input.Body.Rating)
	if err != nil {
		return nil, err
	}

	return &RateBookOutput{Body: *result}, nil
}

func (s *Server) handleGetInteractionState(ctx context.Context, input *InteractionStateInput) (*InteractionStateOutput, error) {
	userID := s.optionalUser(ctx, input.Authorization)

	reaction, rating, err := s.services.Interactions.ReactionState(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &InteractionStateOutput{
		Body: InteractionStateResponse{
			Likes:         reaction.Likes,
			Dislikes:      reaction.Dislikes,
			IsLiked:       reaction.IsLiked,
			IsDisliked:    reaction.IsDisliked,
			UserRating:    rating.UserRating,
			AverageRating: rating.AverageRating,
			TotalRatings:  rating.TotalRatings,
		},
	}, nil
}
