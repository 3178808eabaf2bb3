package bootstrap

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/bootstrap_mock.go -package=mock

// Preparer performs one-shot work that must succeed before serving starts.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Launcher binds the listening socket and serves until ctx is cancelled and
// shutdown completes.
type Launcher interface {
	Launch(ctx context.Context) error
}
