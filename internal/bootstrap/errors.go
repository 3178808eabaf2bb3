package bootstrap

import "errors"

var (
	ErrPrepareFailed = errors.New("asset preparation failed")
	ErrLaunchFailed  = errors.New("worker pool launch failed")
)
