package assets

import "errors"

var (
	ErrSourceMissing   = errors.New("asset source directory does not exist")
	ErrSourceNotDir    = errors.New("asset source is not a directory")
	ErrTargetMissing   = errors.New("asset target directory is not set")
	ErrOverlappingDirs = errors.New("asset source and target directories overlap")
	ErrCommandEmpty    = errors.New("asset command is empty")
	ErrCommandFailed   = errors.New("asset command failed")
	ErrNothingToDo     = errors.New("neither asset source directory nor asset command is configured")
)
