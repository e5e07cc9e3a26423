// Package search provides full-text book search using Bleve, with
// fuzzy matching, genre filtering, and relevance-ranked results.
package search

import (
	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/normalize"
)

// BookDocument is the document structure stored in the Bleve index.
// Only searchable and displayable fields are indexed; heavy payloads
// like the PDF and cover images stay in the document store.
type BookDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	GenreSlug   string   `json:"genre_slug"`
	Tags        []string `json:"tags,omitempty"`

	// Numeric fields for sorting
	Views     int64 `json:"views"`
	CreatedAt int64 `json:"created_at"` // Unix millis
}

// DocumentFromBook builds the index document for a book.
func DocumentFromBook(book *domain.Book) *BookDocument {
	return &BookDocument{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
		GenreSlug:   normalize.Genre(book.Genre),
		Tags:        book.Tags,
		Views:       book.Views,
		CreatedAt:   book.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve defaults to Go struct field names, but the index mapping uses
// lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"title":       d.Title,
		"author":      d.Author,
		"description": d.Description,
		"views":       d.Views,
		"created_at":  d.CreatedAt,
	}
	if d.GenreSlug != "" {
		m["genre_slug"] = d.GenreSlug
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}
