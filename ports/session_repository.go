package ports

import (
	"context"
	"time"

	"arbodash/models"

	"github.com/google/uuid"
)

// SessionRepository defines the interface for dashboard session storage
type SessionRepository interface {
	// Create stores a new anonymous session
	Create(ctx context.Context, session *models.Session) error

	// Get retrieves a session by ID; unknown IDs yield a NOT_FOUND error
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)

	// Update persists the authentication state of a session
	Update(ctx context.Context, session *models.Session) error

	// Delete removes a session
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes sessions that expired before the given instant
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// CredentialStore checks a username/password pair
type CredentialStore interface {
	Verify(username, password string) bool
}
