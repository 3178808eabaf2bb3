package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// configBuilder resolves the configuration by applying every source onto
// one accumulated config, in call order. Each source only touches the
// settings it actually names, so an explicit zero (GRACEFUL_TIMEOUT=0,
// --assets-keep-stale=false) overrides lower layers like any other value.
type configBuilder struct {
	config  *StructuredConfig
	flags   *Flags
	environ map[string]string
	err     error
}

func newConfigBuilder(environ []string, flags *Flags) *configBuilder {
	return &configBuilder{
		config:  new(StructuredConfig),
		flags:   flags,
		environ: env.ToMap(environ),
	}
}

// build validates the accumulated config.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	if err := b.config.validate(); err != nil {
		return nil, err
	}

	return b.config, nil
}

// withDefaults replaces the accumulated config with the built-in defaults.
// It is meant to be the first step.
func (b *configBuilder) withDefaults() *configBuilder {
	b.config = defaultConfig()
	return b
}

// withDotEnv loads variables from a dotenv file into the builder's
// environment snapshot. Variables already present are not overwritten.
// A missing default .env file is not an error; a missing file that was
// named explicitly is.
func (b *configBuilder) withDotEnv() *configBuilder {
	path, explicit := defaultEnvFile, false
	if p := b.flags.values().EnvFile; p != "" {
		path, explicit = p, true
	} else if p := b.environ["ENV_FILE"]; p != "" {
		path, explicit = p, true
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return b
		}
		b.err = errors.Join(b.err, fmt.Errorf("error reading env file %s: %w", path, err))
		return b
	}

	for k, v := range vars {
		if _, ok := b.environ[k]; !ok {
			b.environ[k] = v
		}
	}

	return b
}

// withFile decodes the config file named by --config or, failing that, by
// CONFIG onto the accumulated config.
func (b *configBuilder) withFile() *configBuilder {
	path := b.flags.values().FilePath
	if path == "" {
		path = b.environ["CONFIG"]
	}
	if path == "" {
		return b
	}

	if err := decodeFile(path, b.config); err != nil {
		b.err = errors.Join(b.err, err)
	}
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	if err := parseEnv(b.config, b.environ); err != nil {
		b.err = errors.Join(b.err, err)
	}
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	if err := b.flags.apply(b.config); err != nil {
		b.err = errors.Join(b.err, err)
	}
	return b
}
