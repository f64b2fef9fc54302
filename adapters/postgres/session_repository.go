package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"arbodash/internal/errors"
	"arbodash/models"
	"arbodash/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SessionRepositoryImpl implements SessionRepository for PostgreSQL
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create inserts a new dashboard session
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *models.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dashboard_sessions (id, username, authenticated, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, session.ID, session.Username, session.Authenticated, session.CreatedAt, session.UpdatedAt, session.ExpiresAt)
	if err != nil {
		return errors.Wrap(errors.DatabaseError(err.Error()), "failed to insert session")
	}
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT id, username, authenticated, created_at, updated_at, expires_at
		FROM dashboard_sessions
		WHERE id = $1
	`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("session")
	}
	if err != nil {
		return nil, errors.Wrap(errors.DatabaseError(err.Error()), "failed to load session")
	}
	return &session, nil
}

// Update persists the authentication state of a session
func (r *SessionRepositoryImpl) Update(ctx context.Context, session *models.Session) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dashboard_sessions
		SET username = $2, authenticated = $3, updated_at = $4
		WHERE id = $1
	`, session.ID, session.Username, session.Authenticated, session.UpdatedAt)
	if err != nil {
		return errors.Wrap(errors.DatabaseError(err.Error()), "failed to update session")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("session")
	}
	return nil
}

// Delete removes a session
func (r *SessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(errors.DatabaseError(err.Error()), "failed to delete session")
	}
	return nil
}

// DeleteExpired removes sessions that expired before the given instant
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, errors.Wrap(errors.DatabaseError(err.Error()), "failed to delete expired sessions")
	}
	return res.RowsAffected()
}
