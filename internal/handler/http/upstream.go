package http

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/MKhiriev/go-boot-supervisor/internal/app"
	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
)

// newApplication returns the opaque application handler: a reverse proxy to
// cfg.UpstreamURL, or a handler answering 404 when no upstream is set.
func newApplication(cfg config.App, log *logger.Logger) (http.Handler, error) {
	if cfg.UpstreamURL == "" {
		return http.HandlerFunc(noApplication), nil
	}

	target, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpstream, err)
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUpstream, cfg.UpstreamURL)
	}

	errorLog := log.With().Str("source", "reverse_proxy").Logger()
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
		},
		ErrorHandler: upstreamError,
		ErrorLog:     stdlog.New(&errorLog, "", 0),
	}, nil
}

func upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Debug().Err(err).Msg("upstream request abandoned")
		return
	}

	log.Error().Err(err).Str("uri", r.RequestURI).Msg("application upstream failed")
	http.Error(w, app.MsgUpstreamUnavailable, http.StatusBadGateway)
}

func noApplication(w http.ResponseWriter, r *http.Request) {
	http.Error(w, app.MsgNoApplication, http.StatusNotFound)
}
