package http

import (
	"net/http"

	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/internal/workers"
	"github.com/MKhiriev/go-boot-supervisor/models"
)

// Pool runs requests on worker units and reports their availability.
type Pool interface {
	workers.Stats
	Wrap(next http.Handler) http.Handler
}

type Handler struct {
	pool    Pool
	assets  config.Assets
	version string
	app     http.Handler

	logger *logger.Logger
}

// NewHandler builds the handler for cfg. The application version reported
// by /api/version/ is cfg.App.Version, or the build version when unset.
func NewHandler(cfg *config.StructuredConfig, pool Pool, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Handler, error) {
	if pool == nil {
		return nil, errNoPool
	}

	app, err := newApplication(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	version := cfg.App.Version
	if version == "" {
		version = buildInfo.BuildVersion()
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		pool:    pool,
		assets:  cfg.Assets,
		version: version,
		app:     app,
		logger:  logger,
	}, nil
}
