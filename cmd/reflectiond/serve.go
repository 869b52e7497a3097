package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/jsamuelsen/daily-reflections/internal/adapters/http"
	"github.com/jsamuelsen/daily-reflections/internal/adapters/http/handlers"
	"github.com/jsamuelsen/daily-reflections/internal/platform/telemetry"
	"github.com/jsamuelsen/daily-reflections/internal/ports"
	"github.com/jsamuelsen/daily-reflections/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daily scheduler and the read API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	logger.Info("starting reflectiond",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	comps, err := buildComponents(cfg, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := comps.Close(); closeErr != nil {
			logger.Error("store close error", slog.Any("error", closeErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(comps.store); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	reflectionHandler := handlers.NewReflectionHandler(comps.reflections)

	server := httpadapter.New(&cfg.Server, logger)
	httpadapter.SetupRouter(server.Engine(), httpadapter.RouterConfig{
		Logger:            logger,
		AppConfig:         &cfg.App,
		HealthHandler:     healthHandler,
		ReflectionHandler: reflectionHandler,
		Timeout:           httpadapter.DefaultRequestTimeout,
	})

	sched, err := scheduler.New(scheduler.Config{
		Timezone:   cfg.Pipeline.Timezone,
		RunTimeout: cfg.Pipeline.RunTimeout,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	err = sched.AddJob("daily-reflection", cfg.Pipeline.Schedule, func(jobCtx context.Context) error {
		_, runErr := comps.pipeline.Run(jobCtx)

		return runErr
	})
	if err != nil {
		return err
	}

	sched.Start()
	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, sched, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or a server
// error occurs, then drains the scheduler and the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *httpadapter.Server,
	sched *scheduler.Scheduler,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Let an in-flight pipeline run finish before the store closes.
	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("scheduler drain timed out")
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
