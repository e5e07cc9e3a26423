package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(_ context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyAccessToken(parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}

// authenticateAndRequireAdmin validates the token and requires admin role.
func (s *Server) authenticateAndRequireAdmin(ctx context.Context, authHeader string) (string, error) {
	userID, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return "", err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", huma.Error401Unauthorized("User not found")
	}

	if !user.IsAdmin() {
		return "", domainerrors.Forbidden("Admin access required")
	}

	return userID, nil
}

// optionalUser returns the user ID when a valid token is present, empty
// otherwise. Used on endpoints that work anonymously but personalize when
// authenticated.
func (s *Server) optionalUser(ctx context.Context, authHeader string) string {
	if authHeader == "" {
		return ""
	}
	userID, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return ""
	}
	return userID
}

// clientIP picks the best client address from forwarding headers.
func clientIP(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		if first, _, found := strings.Cut(forwardedFor, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwardedFor)
	}
	return realIP
}
