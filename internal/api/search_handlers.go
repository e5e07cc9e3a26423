package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookdenapp/bookden-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search books",
		Description: "Full-text search over titles, authors, and descriptions with optional genre filtering",
		Tags:        []string{"Search"},
	}, s.handleSearchBooks)
}

// SearchInput contains search parameters.
type SearchInput struct {
	Query     string `query:"q" doc:"Search terms"`
	Genre     string `query:"genre" doc:"Restrict to one genre"`
	Limit     int    `query:"limit" doc:"Max hits (default 20, max 100)"`
	Offset    int    `query:"offset" doc:"Result offset for paging"`
	SortBy    string `query:"sort" enum:"relevance,title,recent,views" default:"relevance" doc:"Sort order"`
	Highlight bool   `query:"highlight" doc:"Include match highlights"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body search.Result
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	params.Genre = input.Genre
	params.SortBy = input.SortBy
	params.Highlight = input.Highlight
	if input.Limit > 0 {
		params.Limit = min(input.Limit, 100)
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: *result}, nil
}
