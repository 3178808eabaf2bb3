package server

import "context"

// Server defines the lifecycle contract of the worker pool launcher.
//
// Implementations bind their socket in [Launch], serve until ctx is
// cancelled and return only after shutdown has finished.
type Server interface {
	// Launch binds, serves and drains. It returns nil only when every
	// in-flight request finished within the graceful timeout.
	Launch(ctx context.Context) error
}
