package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookdenapp/bookden-server/internal/auth"
	"github.com/bookdenapp/bookden-server/internal/domain"
	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
	"github.com/bookdenapp/bookden-server/internal/id"
	"github.com/bookdenapp/bookden-server/internal/normalize"
	"github.com/bookdenapp/bookden-server/internal/ratelimit"
	"github.com/bookdenapp/bookden-server/internal/store"
)

// AuthService handles registration, login, and token verification.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	sessions     *SessionService
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
// Login attempts are rate limited per email address.
func NewAuthService(store *store.Store, tokenService *auth.TokenService, sessions *SessionService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		sessions:     sessions,
		loginLimiter: ratelimit.New(1, 5),
		logger:       logger,
	}
}

// RegisterRequest contains the data needed to create a new account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"displayName,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account and opens a session for it.
// The first account ever registered becomes the admin.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest, clientName, ipAddress string) (*SessionResponse, *domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	role := domain.RoleUser
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		role = domain.RoleAdmin
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Timestamps: domain.Timestamps{
			ID:        userID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        normalize.Email(req.Email),
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Role:         role,
		LastLoginAt:  now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, nil, domainerrors.Conflict("an account with this email already exists")
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "user registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)))

	session, err := s.sessions.CreateSession(ctx, user, clientName, ipAddress)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// Login verifies credentials and opens a new session.
// Failures return the same error whether the email or the password was
// wrong, so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, clientName, ipAddress string) (*SessionResponse, *domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, nil, err
	}

	email := normalize.Email(req.Email)
	if !s.loginLimiter.Allow(email) {
		return nil, nil, domainerrors.RateLimited("too many login attempts, try again later")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		// Burn a comparable amount of time so a missing account is not
		// distinguishable from a wrong password.
		_, _ = auth.VerifyPassword(dummyPasswordHash, req.Password)
		return nil, nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil || !ok {
		return nil, nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	session, err := s.sessions.CreateSession(ctx, user, clientName, ipAddress)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// RefreshTokens exchanges a valid refresh token for a new token pair.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken, ipAddress string) (*SessionResponse, *domain.User, error) {
	if refreshToken == "" {
		return nil, nil, domainerrors.Unauthorized("refresh token is required")
	}
	return s.sessions.RefreshSession(ctx, refreshToken, ipAddress)
}

// Logout revokes the session holding the given refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		// Already gone or expired, nothing to revoke
		return nil
	}
	return s.store.DeleteSession(ctx, session.ID)
}

// VerifyAccessToken validates a token and returns its claims.
func (s *AuthService) VerifyAccessToken(token string) (*auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired access token").WithCause(err)
	}
	return claims, nil
}

// Close releases the login rate limiter's background resources.
func (s *AuthService) Close() {
	s.loginLimiter.Stop()
}

// dummyPasswordHash is a valid argon2id hash of a throwaway string, used
// to equalize login timing when the email does not exist.
var dummyPasswordHash = func() string {
	h, err := auth.HashPassword("bookden-timing-pad")
	if err != nil {
		panic(err)
	}
	return h
}()
