package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookdenapp/bookden-server/internal/search"
	"github.com/bookdenapp/bookden-server/internal/store"
)

// SearchService wraps the full-text index with catalog-aware operations.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{index: index, store: store, logger: logger}
}

// Search runs a full-text query over the catalog.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// ReindexAll rebuilds the search index from the catalog and returns the
// number of books indexed. Used at startup when the index mapping changed
// and by the admin reindex endpoint.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	books, err := s.store.ListAllBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	if err := s.index.IndexBooks(books); err != nil {
		return 0, fmt.Errorf("index catalog: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "search index rebuilt",
		slog.Int("books", len(books)))
	return len(books), nil
}

// DocumentCount returns the number of indexed books.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
