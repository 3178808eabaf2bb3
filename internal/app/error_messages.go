// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// supervisor's worker pool and HTTP handlers.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries. Keeping them in one place ensures
// consistent wording across workers.
package app

const (
	// MsgInternalServerError is returned when the application handler
	// panics while a worker is handling the request.
	MsgInternalServerError = "internal server error"

	// MsgRequestTimedOut is returned when a request exceeds the configured
	// per-request timeout and the worker aborts it.
	MsgRequestTimedOut = "request timed out"

	// MsgServiceUnavailable is returned when no worker can take the request
	// because the pool is stopping.
	MsgServiceUnavailable = "service unavailable"

	// MsgUpstreamUnavailable is returned when the application upstream
	// cannot be reached or fails mid-response.
	MsgUpstreamUnavailable = "application upstream unavailable"

	// MsgNoApplication is returned for non-static requests when no
	// application upstream is configured.
	MsgNoApplication = "no application configured"
)
