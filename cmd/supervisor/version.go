package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-boot-supervisor/models"
)

func newVersionCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\n", buildInfo.BuildVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "Build date: %s\n", buildInfo.BuildDate())
			fmt.Fprintf(cmd.OutOrStdout(), "Build commit: %s\n", buildInfo.BuildCommit())
		},
	}
}
