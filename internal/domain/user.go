package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants access to the curation panel (book and carousel management).
	RoleAdmin Role = "admin"
	// RoleUser grants standard reader access.
	RoleUser Role = "user"
)

// User represents an authenticated reader account.
//
// The ID is the canonical acting identity everywhere in the system: reaction
// sets, rating entries, and view history all key on it. Email is a login
// credential and store index only.
type User struct {
	Timestamps
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         Role      `json:"role"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// IsAdmin returns true if the user may curate content.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Name returns the best available name to display for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Session represents an active login with a refresh token.
// Each device gets its own session.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
	ClientName       string    `json:"client_name,omitempty"`
}

// IsExpired returns true if the session's refresh token can no longer be used.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
