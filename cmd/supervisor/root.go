package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/internal/server"
	"github.com/MKhiriev/go-boot-supervisor/models"
)

// Process exit codes.
const (
	exitOK            = 0
	exitFatal         = 1
	exitDrainDeadline = 2
)

func newRootCmd(buildInfo models.AppBuildInfo, log *logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "supervisor",
		Short: "Prepare static assets, then serve the application on a worker pool",
		Long: `supervisor runs the boot sequence of a web application container.

It synchronizes static assets into the serving directory once, then binds a
single listening socket and serves requests with a fixed pool of worker units,
each handling one request at a time under a per-request timeout.

Settings come from built-in defaults, an optional config file, environment
variables (optionally loaded from a .env file) and flags, in that order.
ASSETS_SOURCE_DIR or ASSETS_COMMAND must be set; no other setting is required.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := config.BindFlags(root.PersistentFlags())

	serve := newServeCmd(flags, buildInfo, log)
	root.RunE = serve.RunE

	root.AddCommand(serve)
	root.AddCommand(newPrepareCmd(flags, log))
	root.AddCommand(newHealthcheckCmd(flags))
	root.AddCommand(newVersionCmd(buildInfo))

	return root
}

// loadConfig resolves the configuration and applies its log level.
func loadConfig(flags *config.Flags, log *logger.Logger) (*config.StructuredConfig, error) {
	cfg, err := config.GetStructuredConfig(flags)
	if err != nil {
		return nil, err
	}
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}

	log.Debug().Any("config", cfg).Msg("received configs")
	return cfg, nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, server.ErrDrainTimeout):
		return exitDrainDeadline
	default:
		return exitFatal
	}
}
