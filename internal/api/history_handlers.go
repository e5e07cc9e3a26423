package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/service"
)

func (s *Server) registerHistoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "Recently viewed",
		Description: "Returns the authenticated user's recently viewed books, newest first",
		Tags:        []string{"History"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTrending",
		Method:      http.MethodGet,
		Path:        "/api/v1/trending",
		Summary:     "Trending books",
		Description: "Returns the most viewed books over a recent window",
		Tags:        []string{"History"},
	}, s.handleGetTrending)
}

// HistoryInput contains history listing parameters.
type HistoryInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Max books (default 20, max 100)"`
}

// HistoryOutput wraps the history listing for Huma.
type HistoryOutput struct {
	Body struct {
		Books []*domain.Book `json:"books"`
	}
}

// TrendingInput contains trending parameters.
type TrendingInput struct {
	Days  int `query:"days" doc:"Window size in days (default 7, max 90)"`
	Limit int `query:"limit" doc:"Max books (default 10, max 50)"`
}

// TrendingOutput wraps the trending listing for Huma.
type TrendingOutput struct {
	Body struct {
		Books []service.TrendingBook `json:"books"`
	}
}

func (s *Server) handleGetHistory(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	books, err := s.services.History.RecentForUser(ctx, userID, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &HistoryOutput{}
	out.Body.Books = books
	return out, nil
}

func (s *Server) handleGetTrending(ctx context.Context, input *TrendingInput) (*TrendingOutput, error) {
	days := input.Days
	if days <= 0 || days > 90 {
		days = 7
	}

	books, err := s.services.History.Trending(ctx, time.Duration(days)*24*time.Hour, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &TrendingOutput{}
	out.Body.Books = books
	return out, nil
}
