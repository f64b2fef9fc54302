package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"arbodash/internal/errors"
	"arbodash/internal/migration"
	"arbodash/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL, skipping when it is unset
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.NewRunner().Run(context.Background(), db))
	return db
}

func TestSessionRepositoryLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	session := models.NewSession(time.Hour)
	require.NoError(t, repo.Create(ctx, session))
	t.Cleanup(func() { _ = repo.Delete(ctx, session.ID) })

	session.Login("analyst")
	require.NoError(t, repo.Update(ctx, session))

	got, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.Authenticated)
	assert.Equal(t, "analyst", got.User())

	require.NoError(t, repo.Delete(ctx, session.ID))
	_, err = repo.Get(ctx, session.ID)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestSessionRepositoryDeleteExpired(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	expired := models.NewSession(-time.Minute)
	require.NoError(t, repo.Create(ctx, expired))

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	err = repo.Update(ctx, &models.Session{ID: uuid.New()})
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
