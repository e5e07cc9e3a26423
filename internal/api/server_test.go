package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/bookdenapp/bookden-server/internal/auth"
	"github.com/bookdenapp/bookden-server/internal/search"
	"github.com/bookdenapp/bookden-server/internal/service"
	"github.com/bookdenapp/bookden-server/internal/store"
	"github.com/bookdenapp/bookden-server/internal/store/sqlite"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testServer bundles the server under test with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer builds a full server against temporary storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "bookden-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(tmpDir, "db"), logger)
	require.NoError(t, err)

	history, err := sqlite.Open(filepath.Join(tmpDir, "history.db"), logger)
	require.NoError(t, err)

	index, err := search.NewSearchIndex(search.Options{DataPath: tmpDir, Logger: logger})
	require.NoError(t, err)
	st.SetSearchIndexer(index)

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessions, logger)
	books := service.NewBookService(st, history, logger)

	services := Services{
		Auth:         authService,
		Sessions:     sessions,
		Books:        books,
		Interactions: service.NewInteractionService(st, logger),
		Carousel:     service.NewCarouselService(st, books, logger),
		Search:       service.NewSearchService(index, st, logger),
		History:      service.NewHistoryService(history, books, logger),
		Users:        service.NewUserService(st, sessions, logger),
	}

	s := NewServer(st, services, Options{}, logger)

	t.Cleanup(func() {
		s.Close()
		authService.Close()
		_ = index.Close()
		_ = history.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// decodeBody unmarshals a response body for assertions.
func decodeBody(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

// registerUser creates an account via the API and returns its bearer token
// and user ID. The first registered account is the admin.
func (ts *testServer) registerUser(t *testing.T, email string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var body struct {
		Session struct {
			AccessToken string `json:"accessToken"`
		} `json:"session"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, decodeBody(resp.Body.Bytes(), &body))
	return "Bearer " + body.Session.AccessToken, body.User.ID
}

// createBook creates a catalog entry as the given admin.
func (ts *testServer) createBook(t *testing.T, adminToken, title string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/books",
		"Authorization: "+adminToken,
		map[string]any{
			"title":  title,
			"author": "A. Author",
			"genre":  "Fantasy",
		})
	require.Equal(t, http.StatusOK, resp.Code, "create book failed: %s", resp.Body.String())

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, decodeBody(resp.Body.Bytes(), &body))
	return body.ID
}
