package server

import (
	"context"
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
)

const readHeaderTimeout = 30 * time.Second

type httpServer struct {
	server *http.Server
}

func newHTTPServer(handler http.Handler, logger *logger.Logger) *httpServer {
	errorLog := logger.With().Str("source", "net/http").Logger()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          stdlog.New(&errorLog, "", 0),
	}
	// every connection carries exactly one request, so a worker slot of the
	// limited listener is released as soon as its request is done
	srv.SetKeepAlivesEnabled(false)

	return &httpServer{server: srv}
}

// serve blocks until the server stops. A stop caused by Shutdown or Close is
// not an error.
func (h *httpServer) serve(ln net.Listener) error {
	if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *httpServer) shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

func (h *httpServer) close() error {
	return h.server.Close()
}
