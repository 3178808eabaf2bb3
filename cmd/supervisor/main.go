// Command supervisor prepares static assets and then serves the application
// through a fixed pool of worker units on a single listening socket.
package main

import (
	"os"

	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewLogger("supervisor")
	buildInfo := models.NewAppBuildInfo(orNA(buildVersion), orNA(buildDate), orNA(buildCommit))

	err := newRootCmd(buildInfo, log).Execute()
	if err != nil {
		log.Error().Err(err).Int("exit_code", exitCode(err)).Msg("supervisor stopped")
	}
	os.Exit(exitCode(err))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
