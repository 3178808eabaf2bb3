package handler

import (
	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/handler/http"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/models"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(cfg *config.StructuredConfig, pool http.Pool, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg == nil || pool == nil {
		return nil, errNoHandlersAreCreated
	}

	httpHandler, err := http.NewHandler(cfg, pool, buildInfo, logger)
	if err != nil {
		return nil, err
	}

	return &Handlers{HTTP: httpHandler}, nil
}
