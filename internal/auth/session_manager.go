package auth

import (
	"context"
	"time"

	"arbodash/internal"
	"arbodash/internal/errors"
	"arbodash/models"
	"arbodash/ports"

	"github.com/google/uuid"
)

// SessionManager drives the session lifecycle: start, login, read, logout
type SessionManager struct {
	sessionRepo ports.SessionRepository
	credentials ports.CredentialStore
	ttl         time.Duration
	logger      *internal.Logger
}

// NewSessionManager creates a session manager
func NewSessionManager(sessionRepo ports.SessionRepository, credentials ports.CredentialStore, ttl time.Duration, logger *internal.Logger) *SessionManager {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &SessionManager{
		sessionRepo: sessionRepo,
		credentials: credentials,
		ttl:         ttl,
		logger:      logger.With("Session"),
	}
}

// Start creates and stores a new anonymous session
func (sm *SessionManager) Start(ctx context.Context) (*models.Session, error) {
	session := models.NewSession(sm.ttl)
	if err := sm.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}
	return session, nil
}

// Get returns the session with the given ID. Unknown, malformed or expired
// IDs yield a NOT_FOUND error.
func (sm *SessionManager) Get(ctx context.Context, id string) (*models.Session, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.NotFound("session")
	}
	session, err := sm.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = sm.sessionRepo.Delete(ctx, sessionID)
		return nil, errors.NotFound("session")
	}
	return session, nil
}

// Resume returns the session for id, starting a fresh one when id is empty
// or no longer valid
func (sm *SessionManager) Resume(ctx context.Context, id string) (*models.Session, error) {
	if id != "" {
		session, err := sm.Get(ctx, id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, errors.CodeNotFound) {
			return nil, err
		}
	}
	return sm.Start(ctx)
}

// Login checks the credentials and returns a new authenticated session
// that replaces the given one, whose ID is discarded. A failed check leaves
// the session untouched and returns UNAUTHORIZED.
func (sm *SessionManager) Login(ctx context.Context, session *models.Session, username, password string) (*models.Session, error) {
	if !sm.credentials.Verify(username, password) {
		sm.logger.Warn("failed login for user %q", username)
		return nil, errors.Unauthorized("Usuário ou senha inválidos.")
	}

	rotated := models.NewSession(sm.ttl)
	rotated.Login(username)
	if err := sm.sessionRepo.Create(ctx, rotated); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}
	if session != nil {
		if err := sm.sessionRepo.Delete(ctx, session.ID); err != nil && !errors.Is(err, errors.CodeNotFound) {
			sm.logger.Warn("failed to discard session %s: %v", session.ID, err)
		}
	}
	sm.logger.Info("user %q logged in", username)
	return rotated, nil
}

// Logout clears the authentication state of the session
func (sm *SessionManager) Logout(ctx context.Context, session *models.Session) error {
	user := session.User()
	session.Logout()
	if err := sm.sessionRepo.Update(ctx, session); err != nil {
		return errors.Wrap(err, "failed to store session")
	}
	if user != "" {
		sm.logger.Info("user %q logged out", user)
	}
	return nil
}

// CleanupExpired removes sessions past their expiry
func (sm *SessionManager) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := sm.sessionRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to clean up sessions")
	}
	if n > 0 {
		sm.logger.Debug("removed %d expired sessions", n)
	}
	return n, nil
}
