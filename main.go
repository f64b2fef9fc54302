package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arbodash/internal"
	"arbodash/internal/config"
	"arbodash/internal/container"
	"arbodash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(ctx, appConfig, logger)
	if err != nil {
		logger.Error("Failed to create application container: %v", err)
		os.Exit(1)
	}
	defer appContainer.Shutdown()

	// A missing dataset stops the dashboard before it serves anything
	if err := appContainer.Warm(ctx); err != nil {
		logger.Error("Failed to load dataset: %v", err)
		os.Exit(1)
	}
	appContainer.StartSessionCleanup(ctx, 10*time.Minute)

	server, err := ui.NewServer(appContainer.Dashboard, appContainer.SessionManager, ui.Options{
		CookieName:   appConfig.Server.SessionCookie,
		SessionTTL:   appConfig.Server.SessionTTL,
		SecureCookie: appConfig.Server.GinMode == gin.ReleaseMode,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize server: %v", err)
		os.Exit(1)
	}

	if appConfig.Profiling.Enabled {
		pprofServer := ui.StartProfiling(":"+appConfig.Profiling.Port, logger)
		defer pprofServer.Close()
		logger.Info("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + appConfig.Server.Port)
	}()

	select {
	case err := <-errCh:
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("Shutting down")
	}
}
