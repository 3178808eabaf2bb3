package workers

import "errors"

var (
	// ErrInvalidPoolSize is returned by NewPool for a size below one.
	ErrInvalidPoolSize = errors.New("pool size must be at least 1")
	// ErrInvalidRequestTimeout is returned by NewPool for a non-positive
	// request timeout.
	ErrInvalidRequestTimeout = errors.New("request timeout must be positive")
)
