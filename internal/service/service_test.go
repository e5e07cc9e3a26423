package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookdenapp/bookden-server/internal/auth"
	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/store"
)

// testKeyHex is a fixed 32-byte symmetric key for token tests.
const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testEnv bundles a real temporary store with the services under test.
type testEnv struct {
	store        *store.Store
	books        *BookService
	interactions *InteractionService
	carousel     *CarouselService
	authService  *AuthService
	sessions     *SessionService
	users        *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "bookden-service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
		os.RemoveAll(tmpDir)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(s, tokenService, logger)
	authService := NewAuthService(s, tokenService, sessions, logger)
	t.Cleanup(authService.Close)

	books := NewBookService(s, nil, logger)

	return &testEnv{
		store:        s,
		books:        books,
		interactions: NewInteractionService(s, logger),
		carousel:     NewCarouselService(s, books, logger),
		authService:  authService,
		sessions:     sessions,
		users:        NewUserService(s, sessions, logger),
	}
}

// seedBook inserts a book directly through the store layer.
func (e *testEnv) seedBook(t *testing.T, id string) *domain.Book {
	t.Helper()

	now := time.Now()
	book := &domain.Book{
		Timestamps: domain.Timestamps{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:    "Seeded Book",
		Author:   "S. Author",
		Genre:    "Fantasy",
		Likes:    []string{},
		Dislikes: []string{},
		Ratings:  []domain.RatingEntry{},
	}
	require.NoError(t, e.store.CreateBook(context.Background(), book))
	return book
}
