package migration

import (
	"context"

	"arbodash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSessionsTable(ctx, db); err != nil {
		return errors.Wrap(errors.DatabaseError(err.Error()), "failed to create dashboard_sessions table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(errors.DatabaseError(err.Error()), "failed to create indexes")
	}

	return nil
}

// Drop removes every table created by Run
func (r *MigrationRunner) Drop(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS dashboard_sessions CASCADE`); err != nil {
		return errors.Wrap(errors.DatabaseError(err.Error()), "failed to drop dashboard_sessions")
	}
	return nil
}

func (r *MigrationRunner) createSessionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dashboard_sessions (
			id UUID PRIMARY KEY,
			username VARCHAR(100),
			authenticated BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_dashboard_sessions_expires_at ON dashboard_sessions(expires_at)
	`)
	return err
}
