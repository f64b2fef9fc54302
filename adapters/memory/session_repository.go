// Package memory keeps dashboard sessions in process memory when no
// database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"arbodash/internal/errors"
	"arbodash/models"
	"arbodash/ports"

	"github.com/google/uuid"
)

// SessionRepository is a mutex-guarded map of sessions
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.Session
}

// NewSessionRepository creates an empty in-memory session store
func NewSessionRepository() ports.SessionRepository {
	return &SessionRepository{sessions: make(map[uuid.UUID]models.Session)}
}

// Create stores a copy of session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

// Get returns a copy of the stored session
func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound("session")
	}
	return &s, nil
}

// Update replaces a stored session
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return errors.NotFound("session")
	}
	r.sessions[session.ID] = *session
	return nil
}

// Delete removes a session; unknown IDs are ignored
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// DeleteExpired removes sessions expiring before the given instant
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.ExpiresAt.Before(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}
