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

	"github.com/JonMunkholm/mseboard/internal/archive"
	"github.com/JonMunkholm/mseboard/internal/config"
	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/logging"
	"github.com/JonMunkholm/mseboard/internal/metrics"
	"github.com/JonMunkholm/mseboard/internal/store/postgres"
	"github.com/JonMunkholm/mseboard/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
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

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"export_max_concurrent", cfg.Export.MaxConcurrent,
		"archive_enabled", cfg.Archive.Enabled,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	dir, err := cfg.Units.Directory()
	if err != nil {
		slog.Error("invalid unit configuration", "error", err)
		os.Exit(1)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		slog.Error("failed to prepare schema", "error", err)
		os.Exit(1)
	}
	store := postgres.New(pool)

	limiter := core.NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWaitTime)
	core.ExportTimeout = cfg.Export.Timeout

	opts := core.Options{
		Limiter:           limiter,
		DefaultPassword:   cfg.Credentials.DefaultPassword,
		OversightPassword: cfg.Credentials.OversightPassword,
	}
	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.New(cfg.Metrics.Process)
		recorder.WatchLimiter(limiter)
		opts.Observer = recorder
	}

	service, err := core.NewService(store, store, dir, opts)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	if n, err := service.SeedCredentials(ctx); err != nil {
		slog.Error("failed to seed credentials", "error", err)
		os.Exit(1)
	} else {
		slog.Info("units configured",
			"bureaus", len(dir.Bureaus()),
			"experts", len(dir.Experts()),
			"seeded", n,
		)
	}

	webOpts := web.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		TrustedProxies: cfg.Security.TrustedProxies,
		EnableCSP:      cfg.Security.EnableCSP,
	}
	if cfg.Rate.Enabled {
		webOpts.RateLimit = cfg.Rate.RequestsPerMinute
		webOpts.ExportLimit = cfg.Rate.ExportLimit
		webOpts.LoginLimit = cfg.Rate.LoginLimit
	}
	if recorder != nil {
		webOpts.Metrics = recorder.Handler()
	}
	server := web.NewServer(service, webOpts)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if cfg.Archive.Enabled {
		archiver, err := archive.New(ctx, archive.Config{
			Region:          cfg.Archive.Region,
			Bucket:          cfg.Archive.Bucket,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			PathStyle:       cfg.Archive.PathStyle,
		})
		if err != nil {
			slog.Error("failed to configure archive", "error", err)
			os.Exit(1)
		}
		go service.StartSnapshotScheduler(jobCtx, archiver, core.SnapshotConfig{
			Interval: cfg.Archive.Interval,
			Prefix:   cfg.Archive.Prefix,
		})
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for exports to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("exports did not complete in time", "error", err)
			} else {
				slog.Info("all exports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	err = server.Start(cfg.Server.Addr(), cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
