// Command msectl is the operator CLI for the MSE registry: it prepares the
// database, lists units and builds report workbooks without the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/mseboard/internal/config"
	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/logging"
	"github.com/JonMunkholm/mseboard/internal/store/memory"
	"github.com/JonMunkholm/mseboard/internal/store/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	useMemory bool
	logLevel  string

	cfg *config.Config
)

// rootCmd is the msectl entry point.
var rootCmd = &cobra.Command{
	Use:   "msectl",
	Short: "Operate the MSE case registry",
	Long: `msectl prepares the registry database and builds report workbooks.

Configuration comes from the same environment variables as the server
(a .env file in the working directory is loaded first). With --memory the
commands run against an in-process store and need no database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		slog.SetDefault(logging.New(os.Stderr, logLevel, "text"))

		var err error
		cfg, err = config.LoadStandalone()
		if err != nil {
			return err
		}
		if !useMemory && cfg.Database.URL == "" {
			return errors.New("DATABASE_URL is required (or pass --memory)")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useMemory, "memory", false, "use an in-memory store instead of PostgreSQL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(exportCmd, initDBCmd, unitsCmd, snapshotCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// backend is a service plus whatever must be closed after it.
type backend struct {
	service *core.Service
	pool    *pgxpool.Pool
}

func (b *backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// openBackend builds the service over the configured store. The PostgreSQL
// schema is created when missing.
func openBackend(ctx context.Context) (*backend, error) {
	dir, err := cfg.Units.Directory()
	if err != nil {
		return nil, fmt.Errorf("unit configuration: %w", err)
	}

	core.ExportTimeout = cfg.Export.Timeout
	opts := core.Options{
		Limiter:           core.NewExportLimiter(1, cfg.Export.MaxWaitTime),
		DefaultPassword:   cfg.Credentials.DefaultPassword,
		OversightPassword: cfg.Credentials.OversightPassword,
	}

	b := &backend{}
	var records core.RecordStore
	var creds core.CredentialStore
	if useMemory {
		mem := memory.New()
		records, creds = mem, mem
	} else {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("parse database URL: %w", err)
		}
		poolConfig.MaxConns = 2
		poolConfig.MinConns = 0

		b.pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := b.pool.Ping(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, b.pool); err != nil {
			b.Close()
			return nil, err
		}
		store := postgres.New(b.pool)
		records, creds = store, store
	}

	b.service, err = core.NewService(records, creds, dir, opts)
	if err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}
