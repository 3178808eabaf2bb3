// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrInvalidUpstream is returned by NewHandler when the application
	// upstream URL cannot be used as a proxy target.
	ErrInvalidUpstream = errors.New("invalid application upstream URL")

	errNoPool = errors.New("worker pool is required")
)
