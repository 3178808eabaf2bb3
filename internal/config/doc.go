// Package config resolves the Runtime Configuration of the supervisor.
//
// Configuration is assembled from several layers applied in order onto one
// config. A layer changes only the settings it names, zero values included:
//  1. Built-in defaults
//  2. Config file (JSON or YAML, path from CONFIG or -c/--config)
//  3. Environment variables (optionally pre-loaded from a .env file)
//  4. Command-line flags that were set on the command line
//
// Every setting has a usable default except the asset source: one of
// ASSETS_SOURCE_DIR or ASSETS_COMMAND must be given, otherwise validation
// fails with [ErrInvalidAssetsConfigs].
//
// The resolved [StructuredConfig] is validated once and treated as
// immutable for the life of the process. The main entry point is
// [GetStructuredConfig].
package config
