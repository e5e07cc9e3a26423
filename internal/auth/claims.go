package auth

import (
	"time"

	"github.com/bookdenapp/bookden-server/internal/domain"
)

// AccessClaims represents the claims stored in a PASETO access token.
// Tokens are v4.local, so claims are not readable without the key.
type AccessClaims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsAdmin returns true if the token carries the admin role.
func (c *AccessClaims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}
