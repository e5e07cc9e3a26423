package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookdenapp/bookden-server/internal/domain"
	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
	"github.com/bookdenapp/bookden-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns a page of the catalog, optionally filtered by genre and sorted",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get a book",
		Description: "Returns one book without its content payload",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookContent",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/pdf",
		Summary:     "Get book content",
		Description: "Returns the book's Base64 PDF payload. Requires authentication.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBookContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordBookView",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/view",
		Summary:     "Record a view",
		Description: "Increments a book's view counter. Works without authentication; authenticated views feed the user's history.",
		Tags:        []string{"Books"},
	}, s.handleRecordView)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create a book",
		Description: "Adds a book to the catalog. Admin only.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update a book",
		Description: "Applies a partial update. Admin only.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete a book",
		Description: "Removes a book from the catalog, carousel, search index, and history. Admin only.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// ListBooksInput contains catalog listing parameters.
type ListBooksInput struct {
	Genre  string `query:"genre" doc:"Filter to one genre (case-insensitive)"`
	SortBy string `query:"sort" enum:"recent,views,rating,title" default:"recent" doc:"Sort order"`
	Limit  int    `query:"limit" doc:"Page size (default 50, max 200)"`
	Cursor string `query:"cursor" doc:"Opaque cursor from a previous page"`
}

// BookListResponse is one catalog page.
type BookListResponse struct {
	Books      []*domain.Book `json:"books"`
	NextCursor string         `json:"nextCursor,omitempty"`
	HasMore    bool           `json:"hasMore"`
	Total      int            `json:"total,omitempty"`
}

// BookListOutput wraps the list response for Huma.
type BookListOutput struct {
	Body BookListResponse
}

// BookInput identifies one book.
type BookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// BookContentInput identifies a book whose content is requested.
type BookContentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// BookContentOutput carries the Base64 PDF payload.
type BookContentOutput struct {
	Body struct {
		ID  string `json:"id"`
		PDF string `json:"pdf" doc:"Base64 encoded PDF"`
	}
}

// RecordViewInput wraps the view event request.
type RecordViewInput struct {
	Authorization string `header:"Authorization"`
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
	Body          struct {
		BookID string `json:"bookId" doc:"Book that was viewed"`
	}
}

// RecordViewOutput reports the new view count.
type RecordViewOutput struct {
	Body struct {
		Success bool  `json:"success"`
		Views   int64 `json:"views"`
	}
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateBookRequest
}

// UpdateBookInput wraps the partial update for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          service.UpdateBookRequest
}

// DeleteBookInput identifies the book to delete.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// DeleteBookOutput reports deletion success.
type DeleteBookOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// stripContent removes heavy payload fields from list and detail responses.
func stripContent(book *domain.Book) *domain.Book {
	book.PDF = ""
	return book
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	result, err := s.services.Books.ListBooks(ctx, service.ListBooksParams{
		Genre:  input.Genre,
		SortBy: input.SortBy,
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, err
	}

	for _, book := range result.Items {
		stripContent(book)
	}

	return &BookListOutput{
		Body: BookListResponse{
			Books:      result.Items,
			NextCursor: result.NextCursor,
			HasMore:    result.HasMore,
			Total:      result.Total,
		},
	}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookInput) (*BookOutput, error) {
	book, err := s.services.Books.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: stripContent(book)}, nil
}

func (s *Server) handleGetBookContent(ctx context.Context, input *BookContentInput) (*BookContentOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Books.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if book.PDF == "" {
		return nil, domainerrors.NotFound("this book has no content attached")
	}

	out := &BookContentOutput{}
	out.Body.ID = book.ID
	out.Body.PDF = book.PDF
	return out, nil
}

func (s *Server) handleRecordView(ctx context.Context, input *RecordViewInput) (*RecordViewOutput, error) {
	userID := s.optionalUser(ctx, input.Authorization)

	// Anonymous views are throttled per client address.
	if userID == "" {
		ip := clientIP(input.XForwardedFor, input.XRealIP)
		if ip != "" && !s.viewLimiter.Allow(ip) {
			return nil, domainerrors.RateLimited("too many view events")
		}
	}

	views, err := s.services.Books.RecordView(ctx, input.Body.BookID, userID)
	if err != nil {
		return nil, err
	}

	out := &RecordViewOutput{}
	out.Body.Success = true
	out.Body.Views = views
	return out, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Books.CreateBook(ctx, &input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: stripContent(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Books.UpdateBook(ctx, input.ID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: stripContent(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*DeleteBookOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Books.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}

	out := &DeleteBookOutput{}
	out.Body.Success = true
	return out, nil
}
