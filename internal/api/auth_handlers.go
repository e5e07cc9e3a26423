package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookdenapp/bookden-server/internal/color"
	"github.com/bookdenapp/bookden-server/internal/domain"
	"github.com/bookdenapp/bookden-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new reader account. The first account registered becomes the admin.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns access and refresh tokens",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for new tokens. The old refresh token stops working.",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the session holding the supplied refresh token",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/sessions",
		Summary:     "List sessions",
		Description: "Returns the authenticated user's sessions for device management",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "revokeSession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/auth/sessions/{id}",
		Summary:     "Revoke session",
		Description: "Revokes one of the authenticated user's sessions",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRevokeSession)
}

// === DTOs ===

// RegisterInput wraps the registration request with forwarding headers.
type RegisterInput struct {
	Body          service.RegisterRequest
	ClientName    string `header:"X-Client-Name"`
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LoginInput wraps the login request with forwarding headers.
type LoginInput struct {
	Body          service.LoginRequest
	ClientName    string `header:"X-Client-Name"`
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" doc:"Refresh token"`
}

// RefreshInput wraps the refresh request with forwarding headers.
type RefreshInput struct {
	Body          RefreshRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LogoutInput wraps the logout request.
type LogoutInput struct {
	Body RefreshRequest
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	AvatarColor string `json:"avatarColor"`
	Role        string `json:"role"`
}

// AuthResponse carries tokens plus the account they belong to.
type AuthResponse struct {
	Session service.SessionResponse `json:"session"`
	User    UserResponse            `json:"user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// LogoutOutput reports logout success.
type LogoutOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// SessionListOutput wraps the session list for Huma.
type SessionListOutput struct {
	Body struct {
		Sessions []*domain.Session `json:"sessions"`
	}
}

// RevokeSessionInput identifies the session to revoke.
type RevokeSessionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Session ID"`
}

func userResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		AvatarColor: color.ForUser(user.ID),
		Role:        string(user.Role),
	}
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	session, user, err := s.services.Auth.Register(ctx, &input.Body, input.ClientName, clientIP(input.XForwardedFor, input.XRealIP))
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: AuthResponse{Session: *session, User: userResponse(user)}}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	session, user, err := s.services.Auth.Login(ctx, &input.Body, input.ClientName, clientIP(input.XForwardedFor, input.XRealIP))
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: AuthResponse{Session: *session, User: userResponse(user)}}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	session, user, err := s.services.Auth.RefreshTokens(ctx, input.Body.RefreshToken, clientIP(input.XForwardedFor, input.XRealIP))
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Body: AuthResponse{Session: *session, User: userResponse(user)}}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.Body.RefreshToken); err != nil {
		return nil, err
	}
	out := &LogoutOutput{}
	out.Body.Success = true
	return out, nil
}

func (s *Server) handleListSessions(ctx context.Context, input *struct {
	Authorization string `header:"Authorization"`
}) (*SessionListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Sessions.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &SessionListOutput{}
	out.Body.Sessions = sessions
	return out, nil
}

func (s *Server) handleRevokeSession(ctx context.Context, input *RevokeSessionInput) (*LogoutOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	// A user may only revoke their own sessions.
	session, err := s.store.GetSession(ctx, input.ID)
	if err == nil && session.UserID != userID {
		return nil, huma.Error404NotFound("Session not found")
	}

	if err := s.services.Sessions.DeleteSession(ctx, input.ID); err != nil {
		return nil, err
	}

	out := &LogoutOutput{}
	out.Body.Success = true
	return out, nil
}
