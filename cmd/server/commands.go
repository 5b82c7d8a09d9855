package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/postboard/internal/config"
	"github.com/sakif/postboard/internal/server"
)

// newRootCmd builds the CLI. Flag defaults are the values already loaded from
// the environment, so a flag only wins when it is given explicitly.
func newRootCmd() (*cobra.Command, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	root := &cobra.Command{
		Use:           "postboard",
		Short:         "Users and posts JSON API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := setup(&cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			srv, err := server.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			// Start blocks until SIGINT/SIGTERM cancels ctx.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Driver, "driver", cfg.Driver, "store driver: sqlite, gorm-sqlite or postgres")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database file (\":memory:\" for a throwaway store)")
	flags.StringVar(&cfg.DatabaseURL, "dsn", cfg.DatabaseURL, "PostgreSQL DSN for the postgres driver")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	root.Flags().IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	root.Flags().Float64Var(&cfg.RateLimitRPS, "rate-limit", cfg.RateLimitRPS, "requests per second, 0 disables limiting")
	root.Flags().BoolVar(&cfg.SeedDemoData, "seed", cfg.SeedDemoData, "insert a demo user and post into an empty store")

	root.AddCommand(newMigrateCmd(&cfg))
	return root, nil
}

// newMigrateCmd opens the store, which creates any missing tables, and exits.
func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := setup(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			store, err := server.OpenStore(*cfg, logger)
			if err != nil {
				return err
			}
			if err := store.Ping(context.Background()); err != nil {
				store.Close()
				return err
			}

			logger.Info("schema up to date", slog.String("driver", cfg.Driver))
			return store.Close()
		},
	}
}

// setup validates the final configuration and builds the logger.
func setup(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
