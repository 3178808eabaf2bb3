package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/net/netutil"

	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/internal/workers"
)

// ListenFunc opens the listening socket. net.Listen by default.
type ListenFunc func(network, address string) (net.Listener, error)

// Option customises a server built by NewServer.
type Option func(*server)

// WithListenFunc replaces the function used to bind the socket.
func WithListenFunc(listen ListenFunc) Option {
	return func(s *server) { s.listen = listen }
}

type server struct {
	cfg        config.Server
	pool       *workers.Pool
	httpServer *httpServer
	listen     ListenFunc
	logger     *logger.Logger
}

// NewServer returns a launcher that serves handler on pool. handler is
// expected to already run its requests through pool.Wrap; the server uses
// pool for its size and for draining and stopping the worker units.
func NewServer(handler http.Handler, pool *workers.Pool, cfg config.Server, logger *logger.Logger, opts ...Option) (Server, error) {
	if handler == nil {
		return nil, errNoHandler
	}
	if pool == nil {
		return nil, errNoPool
	}

	logger.Info().Msg("creating new server...")
	s := &server{
		cfg:        cfg,
		pool:       pool,
		httpServer: newHTTPServer(handler, logger),
		listen:     net.Listen,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *server) Launch(ctx context.Context) error {
	address := s.cfg.Address()

	ln, err := s.listen("tcp", address)
	if err != nil {
		s.pool.Stop()
		return fmt.Errorf("%w on %s: %w", ErrBind, address, err)
	}
	ln = netutil.LimitListener(ln, s.pool.Size())

	s.logger.Info().
		Str("address", ln.Addr().String()).
		Int("workers", s.pool.Size()).
		Dur("request_timeout", s.cfg.RequestTimeout.Std()).
		Msg("Launching worker pool")

	served := make(chan error, 1)
	go func() {
		served <- s.httpServer.serve(ln)
	}()

	select {
	case err = <-served:
		s.pool.Stop()
		if err == nil {
			err = http.ErrServerClosed
		}
		return fmt.Errorf("%w: %w", ErrServe, err)
	case <-ctx.Done():
	}

	return s.drain(served)
}

// drain stops accepting, waits for in-flight requests up to the graceful
// timeout and stops whatever is left after it.
func (s *server) drain(served <-chan error) error {
	graceful := s.cfg.GracefulTimeout.Std()
	s.logger.Info().Dur("graceful_timeout", graceful).Msg("termination requested, draining workers")
	s.pool.Drain()

	ctx, cancel := context.WithTimeout(context.Background(), graceful)
	defer cancel()

	err := s.httpServer.shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn().
			Dur("graceful_timeout", graceful).
			Int("busy_workers", s.pool.Size()-s.pool.IdleCount()).
			Msg("drain deadline exceeded, stopping in-flight requests")

		_ = s.httpServer.close()
		s.pool.Stop()
		<-served
		return ErrDrainTimeout
	}

	s.pool.Stop()
	if serveErr := <-served; serveErr != nil {
		return fmt.Errorf("%w: %w", ErrServe, serveErr)
	}
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}
