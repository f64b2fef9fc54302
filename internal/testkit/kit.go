package testkit

import (
	"os"
	"time"

	"arbodash/adapters/memory"
	"arbodash/domain/notification"
	"arbodash/internal"
	"arbodash/internal/auth"
	"arbodash/internal/loader"
	"arbodash/ports"
)

// SyntheticPath is the cache key under which the generated table is served
const SyntheticPath = "synthetic://arboviroses"

// Test credentials accepted by the kit's credential store
const (
	TestUser     = "analyst"
	TestPassword = "s3cret"
)

// TestKit bundles fixtures shared by handler and CLI tests
type TestKit struct {
	Table       *notification.Table
	Loader      *loader.Loader
	Sessions    ports.SessionRepository
	Credentials *auth.Credentials
	Logger      *internal.Logger
}

// NewTestKit creates a kit around a small seeded synthetic table
func NewTestKit() (*TestKit, error) {
	config := DefaultNotificationConfig()
	config.RecordCount = 1500
	return NewTestKitWithConfig(config)
}

// NewTestKitWithConfig creates a kit with a custom generator configuration
func NewTestKitWithConfig(config NotificationGeneratorConfig) (*TestKit, error) {
	logger := internal.NewLoggerTo(os.Stderr, internal.LogLevelError)
	table := NewNotificationGenerator(config).GenerateTable()

	l := loader.New(logger)
	l.Put(SyntheticPath, table)

	return &TestKit{
		Table:       table,
		Loader:      l,
		Sessions:    memory.NewSessionRepository(),
		Credentials: auth.NewCredentials(map[string]string{TestUser: TestPassword}),
		Logger:      logger,
	}, nil
}

// SessionManager returns a session manager over the kit's stores
func (k *TestKit) SessionManager(ttl time.Duration) *auth.SessionManager {
	return auth.NewSessionManager(k.Sessions, k.Credentials, ttl, k.Logger)
}
