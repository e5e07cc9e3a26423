package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookdenapp/bookden-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Applies partial updates to the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePassword",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/me/password",
		Summary:     "Change password",
		Description: "Changes the password and revokes every other session",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChangePassword)
}

// CurrentUserInput carries the caller's token.
type CurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user profile for Huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          service.UpdateProfileRequest
}

// ChangePasswordInput wraps the password change for Huma.
type ChangePasswordInput struct {
	Authorization string `header:"Authorization"`
	Body          service.ChangePasswordRequest
}

// ChangePasswordOutput reports success.
type ChangePasswordOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *CurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userResponse(user)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Users.UpdateProfile(ctx, userID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: userResponse(user)}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*ChangePasswordOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	// Sessions are revoked on password change except the caller's own;
	// the access token does not name its session, so revoke all.
	if err := s.services.Users.ChangePassword(ctx, userID, "", &input.Body); err != nil {
		return nil, err
	}

	out := &ChangePasswordOutput{}
	out.Body.Success = true
	return out, nil
}
