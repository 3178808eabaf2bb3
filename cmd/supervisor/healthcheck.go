package main

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/utils"
)

const healthPath = "/healthz"

func newHealthcheckCmd(flags *config.Flags) *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check the health endpoint of a running supervisor",
		Long: `healthcheck sends GET /healthz to a running supervisor and exits 0 when it
answers 200, 1 otherwise. Without --url it queries the loopback address on the
configured port, which makes it usable as a container HEALTHCHECK.

/healthz is served by a worker like any other request. When every worker is
busy the check waits in the accept queue and fails once --check-timeout
elapses, so a pool saturated by long requests reads as unhealthy. Choose
--check-timeout and the HEALTHCHECK interval with the request timeout and the
worker count in mind.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				cfg, err := config.GetStructuredConfig(flags)
				if err != nil {
					return fmt.Errorf("error getting configs: %w", err)
				}
				url = "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port))
			}

			status, body, err := utils.NewHTTPClient(url, timeout).Check(cmd.Context(), healthPath)
			if err != nil {
				return err
			}
			if !utils.IsHealthy(status) {
				return fmt.Errorf("unhealthy: %s answered %d", url+healthPath, status)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Base URL of the supervisor (default http://127.0.0.1:<port>)")
	cmd.Flags().DurationVar(&timeout, "check-timeout", 5*time.Second, "Timeout of the health request")
	return cmd
}
