// Package server binds the supervisor's single listening socket and runs the
// worker pool on it.
//
// It owns the process lifetime after boot: serving until the context is
// cancelled by a termination signal, draining in-flight requests within the
// graceful timeout, and forcing the remaining ones to stop after it.
package server
