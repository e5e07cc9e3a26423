package domain

// MaxCarouselSlides caps the homepage hero carousel.
const MaxCarouselSlides = 9

// CarouselSlide pins one book to the homepage hero carousel.
// A book appears in the carousel at most once.
type CarouselSlide struct {
	Timestamps
	BookID string `json:"book_id"`
}

// ViewEvent records one view of a book, used for history and trending.
// UserID is empty for anonymous views.
type ViewEvent struct {
	BookID   string `json:"book_id"`
	UserID   string `json:"user_id,omitempty"`
	ViewedAt int64  `json:"viewed_at"` // Unix seconds
}
