package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init returns the complete request pipeline. Trace id and access logging
// run outside the worker pool so that requests aborted by a worker are
// still logged with their final status.
func (h *Handler) Init() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.GetHead)
	router.Use(withGZip)

	router.Get("/healthz", h.health)
	router.Get("/api/version/", h.getVersion)
	router.Method(http.MethodGet, staticPattern(h.assets.URLPrefix), h.static())

	// everything the supervisor does not own belongs to the application
	router.NotFound(h.app.ServeHTTP)
	router.MethodNotAllowed(h.app.ServeHTTP)

	return h.withTraceID(withLogging(h.pool.Wrap(router)))
}
