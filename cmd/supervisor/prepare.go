package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-boot-supervisor/internal/assets"
	"github.com/MKhiriev/go-boot-supervisor/internal/bootstrap"
	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
)

func newPrepareCmd(flags *config.Flags, log *logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Run only the static asset preparation and exit",
		Long: `prepare synchronizes static assets into the serving directory exactly as
serve does before binding, then exits 0 on success or 1 on failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags, log)
			if err != nil {
				return fmt.Errorf("error getting configs: %w", err)
			}

			preparer, err := assets.New(cfg.Assets, log)
			if err != nil {
				return fmt.Errorf("error creating asset preparer: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
			defer stop()

			return bootstrap.NewSupervisor(preparer, nil, log).Prepare(ctx)
		},
	}
}
