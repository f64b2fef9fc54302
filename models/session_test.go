package models

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession(time.Hour)
	now := time.Now()

	if s.IsAuthenticated(now) {
		t.Fatal("new session must be anonymous")
	}
	if s.User() != "" {
		t.Errorf("expected no user, got %q", s.User())
	}

	s.Login("analyst")
	if !s.IsAuthenticated(now) {
		t.Fatal("expected authenticated session after login")
	}
	if s.User() != "analyst" {
		t.Errorf("expected user analyst, got %q", s.User())
	}

	s.Logout()
	if s.IsAuthenticated(now) || s.User() != "" {
		t.Error("logout must clear the authentication state")
	}
}

func TestSessionExpiry(t *testing.T) {
	tests := []struct {
		name    string
		offset  time.Duration
		expired bool
	}{
		{"before expiry", -time.Minute, false},
		{"at expiry", 0, true},
		{"after expiry", time.Minute, true},
	}

	s := NewSession(time.Hour)
	s.Login("analyst")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := s.ExpiresAt.Add(tt.offset)
			if got := s.Expired(at); got != tt.expired {
				t.Errorf("Expired = %v, expected %v", got, tt.expired)
			}
			if got := s.IsAuthenticated(at); got == tt.expired {
				t.Errorf("IsAuthenticated = %v with expired = %v", got, tt.expired)
			}
		})
	}
}

func TestNilSessionIsAnonymous(t *testing.T) {
	var s *Session
	if s.IsAuthenticated(time.Now()) || s.User() != "" {
		t.Error("nil session must be anonymous")
	}
}
