package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
)

func TestChangePassword_RejectsWrongCurrentPassword(t *testing.T) {
	env := newTestEnv(t)
	_, user := registerTestUser(t, env, "reader@example.com")
	ctx := context.Background()

	err := env.users.ChangePassword(ctx, user.ID, "", &ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "a-brand-new-secret",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, domainErr.Code)

	// The old password still logs in; nothing was rotated.
	_, _, err = env.authService.Login(ctx, &LoginRequest{
		Email:    "reader@example.com",
		Password: "correct-horse-battery",
	}, "", "")
	require.NoError(t, err)
}

func TestChangePassword_RotatesPassword(t *testing.T) {
	env := newTestEnv(t)
	_, user := registerTestUser(t, env, "reader@example.com")
	ctx := context.Background()

	err := env.users.ChangePassword(ctx, user.ID, "", &ChangePasswordRequest{
		CurrentPassword: "correct-horse-battery",
		NewPassword:     "a-brand-new-secret",
	})
	require.NoError(t, err)

	_, _, err = env.authService.Login(ctx, &LoginRequest{
		Email:    "reader@example.com",
		Password: "correct-horse-battery",
	}, "", "")
	require.Error(t, err, "old password must stop working")

	_, _, err = env.authService.Login(ctx, &LoginRequest{
		Email:    "reader@example.com",
		Password: "a-brand-new-secret",
	}, "", "")
	require.NoError(t, err)
}
