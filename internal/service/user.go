package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookdenapp/bookden-server/internal/auth"
	"github.com/bookdenapp/bookden-server/internal/domain"
	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
	"github.com/bookdenapp/bookden-server/internal/store"
)

// UserService handles account profile management.
type UserService struct {
	store    *store.Store
	sessions *SessionService
	logger   *slog.Logger
}

// NewUserService creates a new user profile service.
func NewUserService(store *store.Store, sessions *SessionService, logger *slog.Logger) *UserService {
	return &UserService{store: store, sessions: sessions, logger: logger}
}

// UpdateProfileRequest contains partial profile updates.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatarUrl,omitempty" validate:"omitempty,url,max=2000"`
}

// ChangePasswordRequest contains a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// GetUser loads a user profile with the password hash stripped.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies partial profile changes.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// ChangePassword verifies the current password, sets the new one, and
// revokes every other session so stolen refresh tokens stop working.
func (s *UserService) ChangePassword(ctx context.Context, userID, keepSessionID string, req *ChangePasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return domainerrors.NotFound("user not found")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil || !ok {
		return domainerrors.InvalidCredentials("current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	sessions, err := s.store.ListUserSessions(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to list sessions after password change", "user_id", userID, "error", err)
		return nil
	}
	for _, session := range sessions {
		if session.ID == keepSessionID {
			continue
		}
		if err := s.store.DeleteSession(ctx, session.ID); err != nil {
			s.logger.Warn("failed to revoke session", "session_id", session.ID, "error", err)
		}
	}
	return nil
}

// ListUsers returns all accounts for the admin panel, hashes stripped.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		user.PasswordHash = ""
	}
	return users, nil
}

// DeleteUser removes an account and revokes all of its sessions.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.sessions.RevokeAllSessions(ctx, userID); err != nil {
		s.logger.Warn("failed to revoke sessions for deleted user", "user_id", userID, "error", err)
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domainerrors.NotFoundf("user %s not found", userID)
		}
		return err
	}
	return nil
}

// SetRole changes an account's role.
func (s *UserService) SetRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, domainerrors.Validationf("unknown role %q", role)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, err
	}

	user.Role = role
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
