package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/checklist/internal/app"
	"github.com/thenoetrevino/checklist/internal/config"
	"github.com/thenoetrevino/checklist/internal/database"
	"github.com/thenoetrevino/checklist/internal/logging"
	"github.com/thenoetrevino/checklist/internal/seed"
	"github.com/thenoetrevino/checklist/internal/server"
	"github.com/thenoetrevino/checklist/internal/session"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server until interrupted.

Examples:
  # In-memory store on the default address
  checklist serve

  # Persist to sqlite and listen elsewhere
  CHECKLIST_STORAGE_DRIVER=sqlite checklist serve --addr=127.0.0.1:8080
`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := logging.Init(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		cmd.Context(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	return serve(ctx, cfg, logger)
}

// serve opens the store, seeds it and blocks in the HTTP server until ctx ends
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := database.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Storage.Driver, err)
	}

	a := app.New(store,
		app.WithLogger(logger),
		app.WithMaxUsers(cfg.Auth.MaxUsers),
		app.WithSessions(session.NewRegistry(session.WithTTL(cfg.Session.TTL))),
	)
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	if cfg.Seed.IsEnabled() {
		if err := seed.Run(ctx, store, seed.Options{
			AdminUsername: cfg.Seed.AdminUsername,
			AdminPassword: cfg.Seed.AdminPassword,
		}, logger); err != nil {
			return err
		}
	}

	logger.Info("checklist starting",
		"addr", cfg.Server.Addr,
		"storage", cfg.Storage.Driver,
		"max_users", cfg.Auth.MaxUsers,
		"pid", os.Getpid())

	// Blocks until shutdown
	if err := server.NewServer(a, cfg, logger).Start(ctx); err != nil {
		return err
	}

	logger.Info("checklist shut down gracefully")
	return nil
}
