package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arbodash/adapters/memory"
	"arbodash/internal"
	"arbodash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(ttl time.Duration) *SessionManager {
	creds := NewCredentials(map[string]string{"analyst": "s3cret"})
	return NewSessionManager(memory.NewSessionRepository(), creds, ttl, internal.NewLoggerTo(os.Stderr, internal.LogLevelError))
}

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  analyst: s3cret\n  viewer: \"1234\"\n"), 0o600))

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, 2, creds.Len())
	assert.True(t, creds.Verify("viewer", "1234"))
	assert.False(t, creds.Verify("viewer", "12345"))
	assert.False(t, creds.Verify("nobody", ""))
}

func TestLoadCredentialsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCredentials(filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("other: 1\n"), 0o600))
	_, err = LoadCredentials(empty)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	sm := newManager(time.Hour)

	session, err := sm.Start(ctx)
	require.NoError(t, err)
	assert.False(t, session.IsAuthenticated(time.Now()))

	_, err = sm.Login(ctx, session, "analyst", "wrong")
	assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(err))
	assert.False(t, session.Authenticated)
	_, err = sm.Get(ctx, session.ID.String())
	require.NoError(t, err, "a failed login keeps the anonymous session")

	authenticated, err := sm.Login(ctx, session, "analyst", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, authenticated.ID, "login issues a new session ID")

	_, err = sm.Get(ctx, session.ID.String())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err), "the pre-login session is discarded")

	stored, err := sm.Get(ctx, authenticated.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.IsAuthenticated(time.Now()))
	assert.Equal(t, "analyst", stored.User())

	require.NoError(t, sm.Logout(ctx, stored))
	stored, err = sm.Get(ctx, authenticated.ID.String())
	require.NoError(t, err)
	assert.False(t, stored.IsAuthenticated(time.Now()))
}

func TestResumeStartsFreshSessionForUnknownID(t *testing.T) {
	ctx := context.Background()
	sm := newManager(time.Hour)

	a, err := sm.Resume(ctx, "")
	require.NoError(t, err)
	b, err := sm.Resume(ctx, a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	c, err := sm.Resume(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestExpiredSessionsAreDropped(t *testing.T) {
	ctx := context.Background()
	sm := newManager(-time.Second)

	session, err := sm.Start(ctx)
	require.NoError(t, err)

	_, err = sm.Get(ctx, session.ID.String())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = sm.Start(ctx)
	require.NoError(t, err)
	n, err := sm.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
