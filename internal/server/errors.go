// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoHandler = errors.New("no handler to serve")
	errNoPool    = errors.New("no worker pool to serve on")

	// ErrBind is returned when the listening socket cannot be bound.
	ErrBind = errors.New("failed to bind listening socket")
	// ErrServe is returned when the listener fails while serving.
	ErrServe = errors.New("listener failed while serving")
	// ErrDrainTimeout is returned when in-flight requests did not finish
	// within the graceful timeout and had to be stopped.
	ErrDrainTimeout = errors.New("drain deadline exceeded")
)
