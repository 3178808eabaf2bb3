package config

import "errors"

// Validation errors returned by [StructuredConfig.validate]. They are
// wrapped with the offending value so the operator sees what to fix.
var (
	// ErrInvalidServerConfigs indicates an invalid bind address, worker
	// count or timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAssetsConfigs indicates that the asset preparer has nothing
	// to run or nowhere to write.
	ErrInvalidAssetsConfigs = errors.New("invalid assets configuration")
	// ErrInvalidAppConfigs indicates a malformed application upstream URL.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidLogConfigs indicates an unknown log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
)

var (
	// ErrInvalidDuration is returned when a timeout value is neither an
	// integer number of seconds nor a Go duration string.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrUnsupportedConfigFile is returned for config files that are not
	// JSON or YAML.
	ErrUnsupportedConfigFile = errors.New("unsupported config file format")
)
