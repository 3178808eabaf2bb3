// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// portVariableEnv names the environment variable that may redirect the port
// lookup to another variable (e.g. PORT_VARIABLE=HTTP_PORT).
const portVariableEnv = "PORT_VARIABLE"

// parseEnv populates cfg from the environment snapshot vars using the
// caarlos0/env library. Struct fields are mapped via their `env` and
// `envPrefix` tags defined on [StructuredConfig] and its nested types.
// Only variables that are present and non-empty change cfg, so a variable
// set to zero overrides whatever cfg held before.
//
// When PORT_VARIABLE is set, the port is read from the variable it names
// instead of PORT; if that variable is absent the port falls back to the
// lower layers.
//
// Returns a wrapped error if a value cannot be converted to the target
// type (e.g. a non-numeric port).
func parseEnv(cfg *StructuredConfig, vars map[string]string) error {
	environment := make(map[string]string, len(vars))
	for k, v := range vars {
		environment[k] = v
	}

	if name := environment[portVariableEnv]; name != "" {
		delete(environment, "PORT")
		if port, ok := environment[name]; ok {
			environment["PORT"] = port
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
