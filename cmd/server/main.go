// Package main provides the entry point for the scholar directory HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/helixir/scholar-directory/internal/cache"
	"github.com/helixir/scholar-directory/internal/config"
	"github.com/helixir/scholar-directory/internal/database"
	"github.com/helixir/scholar-directory/internal/observability"
	"github.com/helixir/scholar-directory/internal/repository"
	"github.com/helixir/scholar-directory/internal/server"
)

const metricsNamespace = "scholar_directory"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("scholar-directory server starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL.
	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("database connection established")

	// Run migrations if configured.
	if cfg.Database.MigrationAutoRun {
		migrator, err := database.NewMigrator(db, cfg.Database.MigrationPath, logger)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer func() {
			if closeErr := migrator.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close migrator")
			}
		}()

		if err := migrator.Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Create repositories.
	researcherRepo := repository.NewPgResearcherRepository(db)
	publicationRepo := repository.NewPgPublicationRepository(db)
	departmentRepo := repository.NewPgDepartmentRepository(db)
	engagementRepo := repository.NewPgEngagementRepository(db)

	// Metrics.
	metrics := observability.NewMetrics(metricsNamespace)

	// Build the in-memory snapshot cache over the bulk reader and warm it.
	reader := repository.NewSnapshotReader(researcherRepo, publicationRepo)
	dataCache := cache.New(reader, logger)

	loadStart := time.Now()
	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.Cache.LoadTimeout)
	snap, err := dataCache.Snapshot(loadCtx)
	loadCancel()
	if err != nil {
		// The server still starts; the first successful request load fills
		// the cache.
		metrics.RecordSnapshotLoadFailure()
		logger.Warn().Err(err).Msg("initial snapshot load failed")
	} else {
		metrics.RecordSnapshotLoad(len(snap.Researchers), len(snap.Publications), time.Since(loadStart).Seconds())
		logger.Info().
			Int("researchers", len(snap.Researchers)).
			Int("publications", len(snap.Publications)).
			Msg("snapshot loaded")
	}

	// Periodic snapshot refresh, if configured. A failed reload keeps the
	// prior snapshot in service.
	if cfg.Cache.ReloadInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Cache.ReloadInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					reloadCtx, cancel := context.WithTimeout(ctx, cfg.Cache.LoadTimeout)
					start := time.Now()
					snap, err := dataCache.Reload(reloadCtx)
					cancel()
					if err != nil {
						metrics.RecordSnapshotLoadFailure()
						logger.Error().Err(err).Msg("snapshot reload failed")
						continue
					}
					metrics.RecordSnapshotLoad(len(snap.Researchers), len(snap.Publications), time.Since(start).Seconds())
				}
			}
		}()
	}

	// Create the HTTP REST API server.
	httpCfg := server.Config{
		Address:          cfg.Server.HTTPAddress(),
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		IdleTimeout:      2 * time.Minute,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimitRPS:     cfg.RateLimit.RPS,
		RateLimitBurst:   cfg.RateLimit.Burst,
	}

	httpSrv := server.NewServer(
		httpCfg,
		dataCache,
		researcherRepo,
		departmentRepo,
		publicationRepo,
		engagementRepo,
		db,
		metrics,
		logger,
	)

	// Set up Prometheus metrics handler on a separate port if configured.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress(),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	// Start HTTP REST API server in background.
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start metrics server if configured.
	if metricsServer != nil {
		go func() {
			logger.Info().
				Str("address", metricsServer.Addr).
				Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	readyLog := logger.Info().Str("http_address", httpCfg.Address)
	if metricsServer != nil {
		readyLog = readyLog.Str("metrics_address", metricsServer.Addr)
	}
	readyLog.Msg("scholar-directory is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down scholar-directory")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("scholar-directory shutdown complete")
	return nil
}
