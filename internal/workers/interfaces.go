// Package workers implements the fixed-size pool of worker units that
// handle requests accepted from the supervisor's listening socket.
//
// A worker unit handles exactly one request at a time, end to end. The
// pool size is fixed at construction and never changes. A request that
// outlives the configured timeout is aborted, and its worker is recycled
// into a fresh incarnation without affecting sibling workers.
package workers

// Stats reports the size and current availability of a pool.
// It is satisfied by [*Pool] and consumed by the health endpoint.
type Stats interface {
	// Size returns the fixed number of worker units.
	Size() int

	// IdleCount returns the number of worker units ready for a request.
	IdleCount() int
}
