package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

// setupTestStore creates a temporary store for testing
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "bookden-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

// createTestBook builds a book with sensible defaults for store tests
func createTestBook(id string) *domain.Book {
	now := time.Now()
	return &domain.Book{
		Timestamps: domain.Timestamps{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       "The Test of Time",
		Author:      "A. Author",
		Description: "A book used in tests",
		Genre:       "Science Fiction",
		Thumbnail:   "data:image/jpeg;base64,dGVzdA==",
		CoverImage:  "data:image/jpeg;base64,dGVzdA==",
		Likes:       []string{},
		Dislikes:    []string{},
		Ratings:     []domain.RatingEntry{},
	}
}

func createTestUser(id, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		Timestamps: domain.Timestamps{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c29tZXNhbHQ$aGFzaA",
		DisplayName:  "Test Reader",
		Role:         domain.RoleUser,
	}
}
