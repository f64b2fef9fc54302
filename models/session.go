package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Session is the explicit per-browser authentication state. It is created
// when a visitor first reaches the dashboard, marked authenticated on a
// successful credential check and cleared on logout.
type Session struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	Username      sql.NullString `json:"username" db:"username"`
	Authenticated bool           `json:"authenticated" db:"authenticated"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	ExpiresAt     time.Time      `json:"expires_at" db:"expires_at"`
}

// NewSession creates an anonymous session valid for ttl
func NewSession(ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Login marks the session as authenticated for username
func (s *Session) Login(username string) {
	s.Username = sql.NullString{String: username, Valid: username != ""}
	s.Authenticated = true
	s.UpdatedAt = time.Now().UTC()
}

// Logout clears the authentication state
func (s *Session) Logout() {
	s.Username = sql.NullString{}
	s.Authenticated = false
	s.UpdatedAt = time.Now().UTC()
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsAuthenticated reports whether the session grants access at now
func (s *Session) IsAuthenticated(now time.Time) bool {
	return s != nil && s.Authenticated && !s.Expired(now)
}

// User returns the logged-in username, or "" for anonymous sessions
func (s *Session) User() string {
	if s == nil || !s.Username.Valid {
		return ""
	}
	return s.Username.String
}
