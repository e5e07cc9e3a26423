package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdenapp/bookden-server/internal/domain"
	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
)

func registerTestUser(t *testing.T, env *testEnv, email string) (*SessionResponse, *domain.User) {
	t.Helper()
	session, user, err := env.authService.Register(context.Background(), &RegisterRequest{
		Email:       email,
		Password:    "correct-horse-battery",
		DisplayName: "Reader",
	}, "test-client", "127.0.0.1")
	require.NoError(t, err)
	return session, user
}

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, first := registerTestUser(t, env, "first@example.com")
	assert.Equal(t, domain.RoleAdmin, first.Role)

	_, second := registerTestUser(t, env, "second@example.com")
	assert.Equal(t, domain.RoleUser, second.Role)
}

func TestRegister_ReturnsWorkingTokens(t *testing.T) {
	env := newTestEnv(t)

	session, user := registerTestUser(t, env, "reader@example.com")
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Positive(t, session.ExpiresIn)

	claims, err := env.authService.VerifyAccessToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	registerTestUser(t, env, "reader@example.com")

	_, _, err := env.authService.Register(context.Background(), &RegisterRequest{
		Email:    "Reader@Example.COM", // Same address, different case
		Password: "another-password-1",
	}, "", "")

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeConflict, domainErr.Code)
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.authService.Register(context.Background(), &RegisterRequest{
		Email:    "reader@example.com",
		Password: "short",
	}, "", "")

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	registerTestUser(t, env, "reader@example.com")

	session, user, err := env.authService.Login(context.Background(), &LoginRequest{
		Email:    "reader@example.com",
		Password: "correct-horse-battery",
	}, "test-client", "127.0.0.1")
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.False(t, user.LastLoginAt.IsZero())
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	registerTestUser(t, env, "reader@example.com")
	ctx := context.Background()

	session, user, err := env.authService.Login(ctx, &LoginRequest{
		Email:    "reader@example.com",
		Password: "not-the-password",
	}, "", "")
	require.Error(t, err)
	assert.Nil(t, session)
	assert.Nil(t, user)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, domainErr.Code)

	// The real password still works afterwards.
	_, _, err = env.authService.Login(ctx, &LoginRequest{
		Email:    "reader@example.com",
		Password: "correct-horse-battery",
	}, "", "")
	require.NoError(t, err)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	env := newTestEnv(t)
	registerTestUser(t, env, "reader@example.com")
	ctx := context.Background()

	_, _, wrongPassword := env.authService.Login(ctx, &LoginRequest{
		Email:    "reader@example.com",
		Password: "not-the-password",
	}, "", "")
	_, _, unknownEmail := env.authService.Login(ctx, &LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-it-is",
	}, "", "")

	var wrongErr, unknownErr *domainerrors.Error
	require.ErrorAs(t, wrongPassword, &wrongErr)
	require.ErrorAs(t, unknownEmail, &unknownErr)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, wrongErr.Code)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, unknownErr.Code)
	assert.Equal(t, wrongErr.Message, unknownErr.Message)
}

func TestRefreshTokens_RotatesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	session, user := registerTestUser(t, env, "reader@example.com")
	ctx := context.Background()

	refreshed, refreshedUser, err := env.authService.RefreshTokens(ctx, session.RefreshToken, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, user.ID, refreshedUser.ID)
	assert.Equal(t, session.SessionID, refreshed.SessionID)
	assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is dead after rotation
	_, _, err = env.authService.RefreshTokens(ctx, session.RefreshToken, "")
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeTokenExpired, domainErr.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t)
	session, _ := registerTestUser(t, env, "reader@example.com")
	ctx := context.Background()

	require.NoError(t, env.authService.Logout(ctx, session.RefreshToken))

	_, _, err := env.authService.RefreshTokens(ctx, session.RefreshToken, "")
	require.Error(t, err)

	// Logging out twice is fine
	require.NoError(t, env.authService.Logout(ctx, session.RefreshToken))
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService.VerifyAccessToken("v4.local.not-a-real-token")

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeUnauthorized, domainErr.Code)
}
