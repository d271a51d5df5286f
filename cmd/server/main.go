package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/tradedoc/internal/catalog"
	"github.com/JonMunkholm/tradedoc/internal/config"
	"github.com/JonMunkholm/tradedoc/internal/core"
	"github.com/JonMunkholm/tradedoc/internal/core/tables"
	"github.com/JonMunkholm/tradedoc/internal/ingest"
	"github.com/JonMunkholm/tradedoc/internal/logging"
	"github.com/JonMunkholm/tradedoc/internal/store"
	"github.com/JonMunkholm/tradedoc/internal/web"
)

func main() {
	// Overload so a local .env wins over the inherited environment
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"convert_max_concurrent", cfg.Convert.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"ingest_enabled", cfg.Ingest.Enabled,
	)

	countries, err := catalog.LoadCountries(cfg.Catalog.CountryPath)
	if err != nil {
		logger.Error("failed to load country catalog", "path", cfg.Catalog.CountryPath, "error", err)
		os.Exit(1)
	}
	units, err := catalog.LoadUnits(cfg.Catalog.UOMPath)
	if err != nil {
		logger.Error("failed to load unit catalog", "path", cfg.Catalog.UOMPath, "error", err)
		os.Exit(1)
	}

	registry := tables.MustRegistry()
	logger.Info("document types registered", "count", registry.Len())
	for _, def := range registry.All() {
		logger.Debug("document type",
			"doc_type", def.DocType,
			"prefixes", def.Prefixes,
			"fields", len(def.Fields),
			"line_length", def.LineLength(),
		)
	}

	ctx := context.Background()
	jobs, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open job store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	converter := core.NewConverter(registry, countries, units, core.ConverterConfig{
		OutputDir:              cfg.Convert.OutputDir,
		ErrorDir:               cfg.Convert.ErrorDir,
		AllowEmptyMandatory:    cfg.Convert.AllowEmptyMandatory,
		WriteOnValidationError: cfg.Convert.WriteOnValidationError,
		StrictUOM:              cfg.Convert.StrictUOM,
		Logger:                 logger,
	})
	limiter := core.NewLimiter(cfg.Convert.MaxConcurrent, cfg.Convert.MaxWaitTime)

	server := web.NewServer(converter, jobs, limiter, cfg)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var scheduler *ingest.Scheduler
	if cfg.Ingest.Enabled {
		scheduler = newScheduler(cfg, registry, countries, units, jobs, logger)
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("failed to start ingest scheduler", "error", err)
			os.Exit(1)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown on signal or when the listener fails
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		if scheduler != nil {
			scheduler.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := limiter.Status(); status.Active > 0 {
			logger.Info("waiting for conversions to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				logger.Warn("conversions did not complete in time", "error", err)
			} else {
				logger.Info("all conversions completed")
			}
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// openStore connects to Postgres when a URL is configured and falls back to
// the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.JobStore, func(), error) {
	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, job history will not survive restarts")
		return store.NewMemoryStore(), func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		logger.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		logger.Info("connected to database")
	}

	pg := store.NewPostgresStore(pool)
	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool.Close, nil
}

// newScheduler builds the unattended pipeline. Its converter writes into the
// work directory and always writes output so the uploader can decide what to
// hand off.
func newScheduler(cfg *config.Config, registry *core.Registry, countries *catalog.Countries, units *catalog.Units, jobs store.JobStore, logger *slog.Logger) *ingest.Scheduler {
	converter := core.NewConverter(registry, countries, units, core.ConverterConfig{
		OutputDir:              cfg.Ingest.WorkDir,
		ErrorDir:               cfg.Ingest.WorkDir,
		AllowEmptyMandatory:    cfg.Convert.AllowEmptyMandatory,
		WriteOnValidationError: true,
		StrictUOM:              cfg.Convert.StrictUOM,
		Logger:                 logger,
	})

	ing := ingest.New(ingest.Config{
		InputDir:                cfg.Ingest.InputDir,
		ProcessedDir:            cfg.Ingest.ProcessedDir,
		FailedDir:               cfg.Ingest.FailedDir,
		OutboxDir:               cfg.Ingest.OutboxDir,
		ErrorOutboxDir:          cfg.Ingest.ErrorOutboxDir,
		UploadOnValidationError: cfg.Ingest.UploadOnValidationError,
	}, converter, jobs, ingest.DirUploader{}, logger)

	return ingest.NewScheduler(ing, cfg.Ingest.Schedule, cfg.Ingest.Watch, logger)
}
