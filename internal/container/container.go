package container

import (
	"context"
	"time"

	"arbodash/adapters/memory"
	"arbodash/adapters/postgres"
	"arbodash/app"
	"arbodash/internal"
	"arbodash/internal/auth"
	"arbodash/internal/config"
	"arbodash/internal/errors"
	"arbodash/internal/loader"
	"arbodash/internal/migration"
	"arbodash/internal/reports"
	"arbodash/internal/testkit"
	"arbodash/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure. DB is nil when sessions are kept in memory.
	DB *sqlx.DB

	// Repositories
	SessionRepo ports.SessionRepository
	Credentials *auth.Credentials

	// Services
	Loader         *loader.Loader
	Views          *reports.Registry
	SessionManager *auth.SessionManager
	Dashboard      *app.DashboardService

	DatasetPath string
}

// New creates a dependency container. It connects to PostgreSQL only when
// DATABASE_URL is set.
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initRepositories(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}
	c.initData()

	c.Views = reports.NewRegistry(reports.DefaultViews()...)
	c.SessionManager = auth.NewSessionManager(c.SessionRepo, c.Credentials, cfg.Server.SessionTTL, logger)
	c.Dashboard = app.NewDashboardService(c.Loader, c.Views, c.DatasetPath, cfg.Analysis.ESPDate, logger)

	logger.Info("[Container] initialized (dataset %s, %d views)", c.DatasetPath, len(c.Views.List()))
	return c, nil
}

// initRepositories opens the session store and loads the credentials
func (c *Container) initRepositories(ctx context.Context) error {
	creds, err := auth.LoadCredentials(c.Config.Auth.File)
	if err != nil {
		return errors.Wrap(err, "failed to load credentials")
	}
	c.Credentials = creds
	c.Logger.Debug("[Container] loaded %d credentials", creds.Len())

	if c.Config.Database.URL == "" {
		c.Logger.Info("[Container] DATABASE_URL not set, keeping sessions in memory")
		c.SessionRepo = memory.NewSessionRepository()
		return nil
	}

	db, err := Connect(ctx, c.Config.Database.URL)
	if err != nil {
		return err
	}
	c.DB = db

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}
	c.SessionRepo = postgres.NewSessionRepository(db)
	return nil
}

// initData sets up the loader, serving a generated dataset when configured
func (c *Container) initData() {
	c.Loader = loader.New(c.Logger)
	c.DatasetPath = c.Config.Data.DatasetPath

	if c.Config.Data.Synthetic {
		c.Logger.Info("[Container] using synthetic data")
		table := testkit.NewNotificationGenerator(testkit.DefaultNotificationConfig()).GenerateTable()
		c.Loader.Put(testkit.SyntheticPath, table)
		c.DatasetPath = testkit.SyntheticPath
	}
}

// Connect opens and pings a PostgreSQL connection
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to connect to database"))
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to ping database"))
	}
	return db, nil
}

// Warm loads the dataset ahead of the first request
func (c *Container) Warm(ctx context.Context) error {
	start := time.Now()
	table, err := c.Loader.Load(ctx, c.DatasetPath)
	if err != nil {
		return err
	}
	c.Logger.Info("[Container] dataset ready: %d records in %s", table.Len(), time.Since(start))
	return nil
}

// StartSessionCleanup removes expired sessions every interval until ctx ends
func (c *Container) StartSessionCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := c.SessionManager.CleanupExpired(ctx); err != nil {
					c.Logger.Warn("[Container] session cleanup failed: %v", err)
				}
			}
		}
	}()
}

// Shutdown releases the database connection
func (c *Container) Shutdown() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
