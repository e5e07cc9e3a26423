// Package domain contains the core business entities and domain logic for the BookDen library.
package domain

import (
	"math"
	"slices"
)

// ReactionAction is a user's reaction to a book.
type ReactionAction string

const (
	// ReactionLike marks a book as liked.
	ReactionLike ReactionAction = "like"
	// ReactionDislike marks a book as disliked.
	ReactionDislike ReactionAction = "dislike"
)

// Valid returns true if the action is a known reaction.
func (a ReactionAction) Valid() bool {
	return a == ReactionLike || a == ReactionDislike
}

// RatingEntry is one user's star rating for a book.
// A user has at most one entry per book; re-rating overwrites in place.
type RatingEntry struct {
	User  string `json:"user"`
	Score int    `json:"score"` // 1-5
}

// MinRating and MaxRating bound the accepted star scores.
const (
	MinRating = 1
	MaxRating = 5
)

// Book represents a digital book in the library.
//
// Likes and Dislikes hold user IDs and behave as disjoint sets: a user
// appears in at most one of them, at most once. All mutation goes through
// ApplyReaction and UpsertRating so that invariant holds after every change.
type Book struct {
	Timestamps
	Title         string        `json:"title"`
	Author        string        `json:"author"`
	Description   string        `json:"description"`
	Genre         string        `json:"genre"`
	Tags          []string      `json:"tags,omitempty"`
	Thumbnail     string        `json:"thumbnail"`                // Base64 data URL or external URL
	ThumbnailHash string        `json:"thumbnail_hash,omitempty"` // Blurhash placeholder
	CoverImage    string        `json:"cover_image"`              // Base64 data URL or external URL
	PDF           string        `json:"pdf,omitempty"`            // Base64 book content, omitted from list payloads
	Likes         []string      `json:"likes"`
	Dislikes      []string      `json:"dislikes"`
	Ratings       []RatingEntry `json:"ratings"`
	Saved         int64         `json:"saved"`
	Views         int64         `json:"views"`
}

// IsLikedBy returns true if the user is currently in the likes set.
func (b *Book) IsLikedBy(userID string) bool {
	return slices.Contains(b.Likes, userID)
}

// IsDislikedBy returns true if the user is currently in the dislikes set.
func (b *Book) IsDislikedBy(userID string) bool {
	return slices.Contains(b.Dislikes, userID)
}

// ApplyReaction applies a mutually-exclusive like/dislike toggle for the user.
//
// Applying the same action the user already holds removes it (toggle-off).
// Applying the opposite action moves the user across: added to one set,
// removed from the other. Unknown actions are ignored; callers validate first.
func (b *Book) ApplyReaction(userID string, action ReactionAction) {
	switch action {
	case ReactionLike:
		if b.IsLikedBy(userID) {
			b.Likes = removeUser(b.Likes, userID)
			return
		}
		b.Likes = append(b.Likes, userID)
		b.Dislikes = removeUser(b.Dislikes, userID)
	case ReactionDislike:
		if b.IsDislikedBy(userID) {
			b.Dislikes = removeUser(b.Dislikes, userID)
			return
		}
		b.Dislikes = append(b.Dislikes, userID)
		b.Likes = removeUser(b.Likes, userID)
	}
}

// UpsertRating records the user's score, overwriting any existing entry.
// Returns true if an existing entry was updated, false if one was added.
func (b *Book) UpsertRating(userID string, score int) bool {
	for i := range b.Ratings {
		if b.Ratings[i].User == userID {
			b.Ratings[i].Score = score
			return true
		}
	}
	b.Ratings = append(b.Ratings, RatingEntry{User: userID, Score: score})
	return false
}

// RatingFor returns the user's current score and whether one exists.
func (b *Book) RatingFor(userID string) (int, bool) {
	for _, r := range b.Ratings {
		if r.User == userID {
			return r.Score, true
		}
	}
	return 0, false
}

// AverageRating returns the arithmetic mean of all scores, rounded to one
// decimal place. Returns 0 when the book has no ratings.
func (b *Book) AverageRating() float64 {
	if len(b.Ratings) == 0 {
		return 0
	}
	var total int
	for _, r := range b.Ratings {
		total += r.Score
	}
	avg := float64(total) / float64(len(b.Ratings))
	return math.Round(avg*10) / 10
}

// TotalRatings returns the number of rating entries.
func (b *Book) TotalRatings() int {
	return len(b.Ratings)
}

// removeUser returns the slice with every occurrence of userID removed.
func removeUser(users []string, userID string) []string {
	return slices.DeleteFunc(users, func(u string) bool {
		return u == userID
	})
}
