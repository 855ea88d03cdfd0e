// Package main runs the foodgram API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/jsamuelsen/foodgram/internal/adapters/http"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/handlers"
	"github.com/jsamuelsen/foodgram/internal/bootstrap"
	"github.com/jsamuelsen/foodgram/internal/platform/logging"
	"github.com/jsamuelsen/foodgram/internal/platform/telemetry"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const telemetryFlushTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, profileFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "foodgram: %v\n", err)
		os.Exit(1)
	}
}

func profileFromEnv() string {
	if p := os.Getenv("APP_ENVIRONMENT"); p != "" {
		return p
	}

	return "local"
}

// run serves the API until ctx is cancelled or the listener fails.
func run(ctx context.Context, profile string) error {
	cfg, err := bootstrap.LoadConfig(profile)
	if err != nil {
		return err
	}

	logger := bootstrap.NewLogger(cfg, cfg.App.Name)
	logging.SetDefault(logger)

	logger.Info("starting foodgram",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("database", cfg.Database.Driver),
		slog.String("media", cfg.Media.Backend),
	)

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App, logger)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		// ctx is already cancelled on shutdown; flush on a fresh deadline.
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
		defer cancel()

		if err := tel.Shutdown(flushCtx); err != nil {
			logger.Error("telemetry shutdown", slog.Any("error", err))
		}
	}()

	db, err := bootstrap.OpenDatabase(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer bootstrap.CloseDatabase(db) //nolint:errcheck // process is exiting

	images, err := bootstrap.OpenImageStore(ctx, &cfg.Media)
	if err != nil {
		return fmt.Errorf("opening media store: %w", err)
	}

	svcs, err := bootstrap.NewServices(cfg, db, images, logger)
	if err != nil {
		return fmt.Errorf("building services: %w", err)
	}

	health, err := bootstrap.NewHealthRegistry(db, images)
	if err != nil {
		return err
	}

	server := httpadapter.New(&cfg.Server, logger)

	info := handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)
	if err := bootstrap.SetupRouter(server.Engine(), cfg, svcs, health, info, logger); err != nil {
		return fmt.Errorf("setting up router: %w", err)
	}

	select {
	case err := <-server.Start():
		return err
	case <-ctx.Done():
		logger.Info("shutting down", slog.Duration("grace", cfg.Server.ShutdownTimeout))
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("draining server: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
