// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net"
	"os"
	"strconv"
	"time"
)

// Built-in defaults of the Runtime Configuration.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultWorkers         = 2
	DefaultRequestTimeout  = 3600 * time.Second
	DefaultGracefulTimeout = 30 * time.Second
	DefaultAssetsTargetDir = "staticfiles"
	DefaultAssetsURLPrefix = "/static/"
	DefaultLogLevel        = "info"
)

// StructuredConfig is the top-level Runtime Configuration of the supervisor.
// It is resolved once at startup and never reloaded.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Server holds the bind address, worker count and timeouts of the
	// worker pool. Its variables carry no prefix (PORT, WORKERS, ...).
	Server Server `json:"server" yaml:"server"`

	// Assets describes how the static asset directory is prepared and
	// where it is served from.
	Assets Assets `envPrefix:"ASSETS_" json:"assets" yaml:"assets"`

	// App describes the opaque application the workers hand requests to.
	App App `envPrefix:"APP_" json:"app" yaml:"app"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_" json:"log" yaml:"log"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	FilePath string `env:"CONFIG" json:"-" yaml:"-"`

	// EnvFile is the optional path to a dotenv file whose variables are
	// loaded before the environment layer is parsed. Variables already set
	// in the process environment win over the file.
	// Populated via the ENV_FILE environment variable or the --env-file flag.
	EnvFile string `env:"ENV_FILE" json:"-" yaml:"-"`
}

// Server holds the settings of the listening socket and the worker pool.
type Server struct {
	// Host is the interface the listening socket binds to.
	// Env: HOST
	Host string `env:"HOST" json:"host" yaml:"host"`

	// Port is the TCP port of the listening socket, 1-65535.
	// Env: PORT, or the variable named by PORT_VARIABLE.
	Port int `env:"PORT" json:"port" yaml:"port"`

	// Workers is the fixed number of worker units in the pool.
	// Env: WORKERS
	Workers int `env:"WORKERS" json:"workers" yaml:"workers"`

	// RequestTimeout bounds the handling of a single request. A worker
	// exceeding it aborts the request and is recycled.
	// Env: TIMEOUT (e.g. "3600", "90s", "1h")
	RequestTimeout Duration `env:"TIMEOUT" json:"request_timeout" yaml:"request_timeout"`

	// GracefulTimeout bounds the drain period after a termination signal.
	// Env: GRACEFUL_TIMEOUT
	GracefulTimeout Duration `env:"GRACEFUL_TIMEOUT" json:"graceful_timeout" yaml:"graceful_timeout"`

	// RecycleDelay is the pause before a timed-out worker slot accepts
	// requests again.
	// Env: RECYCLE_DELAY
	RecycleDelay Duration `env:"RECYCLE_DELAY" json:"recycle_delay" yaml:"recycle_delay"`
}

// Address returns the "host:port" string the listening socket binds to.
func (s Server) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Assets holds the settings of the Asset Preparer.
type Assets struct {
	// SourceDir is the directory mirrored into TargetDir on every boot.
	// Env: ASSETS_SOURCE_DIR
	SourceDir string `env:"SOURCE_DIR" json:"source_dir" yaml:"source_dir"`

	// TargetDir is the fixed directory the workers serve static files from.
	// Env: ASSETS_TARGET_DIR
	TargetDir string `env:"TARGET_DIR" json:"target_dir" yaml:"target_dir"`

	// URLPrefix is the request path prefix static files are served under.
	// Env: ASSETS_URL_PREFIX
	URLPrefix string `env:"URL_PREFIX" json:"url_prefix" yaml:"url_prefix"`

	// Command is an optional external command that collects static files
	// (for example a web framework's "collect static" management command).
	// It runs before the directory sync.
	// Env: ASSETS_COMMAND
	Command string `env:"COMMAND" json:"command" yaml:"command"`

	// KeepStale disables removal of target files missing from SourceDir.
	// Env: ASSETS_KEEP_STALE
	KeepStale bool `env:"KEEP_STALE" json:"keep_stale" yaml:"keep_stale"`
}

// App describes the application collaborator.
type App struct {
	// UpstreamURL is the base URL of the application requests are proxied
	// to. When empty, non-static requests are answered with 404.
	// Env: APP_UPSTREAM_URL
	UpstreamURL string `env:"UPSTREAM_URL" json:"upstream_url" yaml:"upstream_url"`

	// Version is reported by the /api/version/ endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION" json:"version" yaml:"version"`
}

// Log holds logger settings.
type Log struct {
	// Level is a zerolog level name (debug, info, warn, error).
	// Env: LOG_LEVEL
	Level string `env:"LEVEL" json:"level" yaml:"level"`
}

// GetStructuredConfig resolves the Runtime Configuration from defaults, the
// optional config file, the process environment (plus an optional dotenv
// file) and the command-line flags that were set on the already parsed
// flags, which may be nil. Later sources override earlier ones.
//
// Returns an error if any source fails to load or parse, or if the
// resolved config fails validation.
func GetStructuredConfig(flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder(os.Environ(), flags).
		withDefaults().
		withDotEnv().
		withFile().
		withEnv().
		withFlags().
		build()
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Server: Server{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Workers:         DefaultWorkers,
			RequestTimeout:  Duration(DefaultRequestTimeout),
			GracefulTimeout: Duration(DefaultGracefulTimeout),
		},
		Assets: Assets{
			TargetDir: DefaultAssetsTargetDir,
			URLPrefix: DefaultAssetsURLPrefix,
		},
		Log: Log{
			Level: DefaultLogLevel,
		},
	}
}
