package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser("usr-001", "reader@example.com")

	require.NoError(t, store.CreateUser(ctx, user))

	retrieved, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, retrieved.Email)
	assert.Equal(t, user.Role, retrieved.Role)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, createTestUser("usr-001", "reader@example.com")))

	// Same email with different case still conflicts
	err := store.CreateUser(ctx, createTestUser("usr-002", "Reader@Example.COM"))
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestGetUserByEmail(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, createTestUser("usr-001", "reader@example.com")))

	user, err := store.GetUserByEmail(ctx, "READER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "usr-001", user.ID)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_EmailIndexMoves(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser("usr-001", "old@example.com")
	require.NoError(t, store.CreateUser(ctx, user))

	user.Email = "new@example.com"
	require.NoError(t, store.UpdateUser(ctx, user))

	found, err := store.GetUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "usr-001", found.ID)

	_, err = store.GetUserByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, createTestUser("usr-001", "a@example.com")))
	other := createTestUser("usr-002", "b@example.com")
	require.NoError(t, store.CreateUser(ctx, other))

	other.Email = "a@example.com"
	err := store.UpdateUser(ctx, other)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestDeleteUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, createTestUser("usr-001", "reader@example.com")))
	require.NoError(t, store.DeleteUser(ctx, "usr-001"))

	_, err := store.GetUser(ctx, "usr-001")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Email is free again after deletion
	require.NoError(t, store.CreateUser(ctx, createTestUser("usr-002", "reader@example.com")))
}

func TestListAndCountUsers(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, createTestUser("usr-001", "a@example.com")))
	require.NoError(t, store.CreateUser(ctx, createTestUser("usr-002", "b@example.com")))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
