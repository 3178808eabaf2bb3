// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// validate checks that the resolved [StructuredConfig] satisfies all
// invariants before it is used at startup. All violations are reported
// at once, joined with errors.Join.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	s := cfg.Server
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: port %d is outside 1-65535", ErrInvalidServerConfigs, s.Port))
	}
	if s.Host != "" && s.Host != "localhost" && net.ParseIP(s.Host) == nil {
		errs = append(errs, fmt.Errorf("%w: host %q is not an IP address", ErrInvalidServerConfigs, s.Host))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidServerConfigs, s.Workers))
	}
	if s.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: request timeout must be positive, got %s", ErrInvalidServerConfigs, s.RequestTimeout))
	}
	if s.GracefulTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: graceful timeout must not be negative, got %s", ErrInvalidServerConfigs, s.GracefulTimeout))
	}
	if s.RecycleDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: recycle delay must not be negative, got %s", ErrInvalidServerConfigs, s.RecycleDelay))
	}

	a := cfg.Assets
	if a.SourceDir == "" && a.Command == "" {
		errs = append(errs, fmt.Errorf("%w: set ASSETS_SOURCE_DIR or ASSETS_COMMAND", ErrInvalidAssetsConfigs))
	}
	if a.TargetDir == "" {
		errs = append(errs, fmt.Errorf("%w: target dir is empty", ErrInvalidAssetsConfigs))
	}
	if !strings.HasPrefix(a.URLPrefix, "/") {
		errs = append(errs, fmt.Errorf("%w: url prefix %q must start with /", ErrInvalidAssetsConfigs, a.URLPrefix))
	}

	if raw := cfg.App.UpstreamURL; raw != "" {
		u, err := url.Parse(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%w: upstream url: %w", ErrInvalidAppConfigs, err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, fmt.Errorf("%w: upstream url %q must use http or https", ErrInvalidAppConfigs, raw))
		case u.Host == "":
			errs = append(errs, fmt.Errorf("%w: upstream url %q has no host", ErrInvalidAppConfigs, raw))
		}
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err))
	}

	return errors.Join(errs...)
}
