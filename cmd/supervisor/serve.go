package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-boot-supervisor/internal/assets"
	"github.com/MKhiriev/go-boot-supervisor/internal/bootstrap"
	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/handler"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/internal/server"
	"github.com/MKhiriev/go-boot-supervisor/internal/workers"
	"github.com/MKhiriev/go-boot-supervisor/models"
)

func newServeCmd(flags *config.Flags, buildInfo models.AppBuildInfo, log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Prepare static assets and serve until terminated (default)",
		Long: `serve prepares static assets and then launches the worker pool.

An asset source is required: set ASSETS_SOURCE_DIR (--assets-source) or
ASSETS_COMMAND (--assets-command). Without one the configuration is invalid
and the process exits 1 before binding, even when every other setting keeps
its default.

SIGTERM, SIGINT and SIGQUIT start a graceful drain. The process exits 0 when
every in-flight request finished within the graceful timeout, 2 when some had
to be stopped, and 1 when a startup precondition failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags, buildInfo, log)
		},
	}
}

func runServe(ctx context.Context, flags *config.Flags, buildInfo models.AppBuildInfo, log *logger.Logger) error {
	log.Info().
		Str("build_version", buildInfo.BuildVersion()).
		Str("build_date", buildInfo.BuildDate()).
		Str("build_commit", buildInfo.BuildCommit()).
		Msg("starting supervisor")

	cfg, err := loadConfig(flags, log)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}

	preparer, err := assets.New(cfg.Assets, log)
	if err != nil {
		return fmt.Errorf("error creating asset preparer: %w", err)
	}

	pool, err := workers.NewPool(workers.Options{
		Size:           cfg.Server.Workers,
		RequestTimeout: cfg.Server.RequestTimeout.Std(),
		RecycleDelay:   cfg.Server.RecycleDelay.Std(),
	}, log)
	if err != nil {
		return fmt.Errorf("error creating worker pool: %w", err)
	}
	defer pool.Stop()

	handlers, err := handler.NewHandlers(cfg, pool, buildInfo, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers.HTTP.Init(), pool, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	return bootstrap.NewSupervisor(preparer, srv, log).Run(ctx)
}
