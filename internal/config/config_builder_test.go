package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

// minimalEnviron is an environment that passes validation on top of the
// built-in defaults.
func minimalEnviron(extra ...string) []string {
	return append([]string{"ASSETS_SOURCE_DIR=/srv/assets"}, extra...)
}

// resolve runs every source in production order.
func resolve(environ []string, flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder(environ, flags).
		withDefaults().
		withDotEnv().
		withFile().
		withEnv().
		withFlags().
		build()
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_DefaultsOnly verifies the documented built-in defaults.
func TestBuild_DefaultsOnly(t *testing.T) {
	cfg, err := newConfigBuilder(minimalEnviron(), nil).
		withDefaults().
		withEnv().
		build()
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Server.Workers)
	assert.Equal(t, 3600*time.Second, cfg.Server.RequestTimeout.Std())
	assert.Equal(t, DefaultGracefulTimeout, cfg.Server.GracefulTimeout.Std())
	assert.Equal(t, DefaultAssetsTargetDir, cfg.Assets.TargetDir)
	assert.Equal(t, DefaultAssetsURLPrefix, cfg.Assets.URLPrefix)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Address())
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder(nil, nil)
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_ValidationFailureReturnsNil verifies that an invalid resolved
// config is never handed out.
func TestBuild_ValidationFailureReturnsNil(t *testing.T) {
	cfg, err := newConfigBuilder(nil, nil).withDefaults().build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidAssetsConfigs)
}

// TestBuild_LayerPrecedence verifies defaults < file < env < flags.
func TestBuild_LayerPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTempFile(t, "config.yaml", "server:\n  port: 7000\n  workers: 6\n  host: 127.0.0.1\n")

	cfg, err := resolve(
		minimalEnviron("PORT=8500", "WORKERS=4", "CONFIG="+path),
		parsedFlags(t, "--port", "9000"),
	)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port, "flags win over env")
	assert.Equal(t, 4, cfg.Server.Workers, "env wins over file")
	assert.Equal(t, "127.0.0.1", cfg.Server.Host, "file wins over defaults")
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout.Std())
}

// TestBuild_EnvZeroOverridesFile verifies that zero-valued variables
// override the file and the defaults instead of being ignored.
func TestBuild_EnvZeroOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTempFile(t, "config.json", `{
		"server": {"recycle_delay": "5s", "graceful_timeout": "10s"},
		"assets": {"keep_stale": true}
	}`)

	cfg, err := resolve(minimalEnviron(
		"CONFIG="+path,
		"GRACEFUL_TIMEOUT=0",
		"RECYCLE_DELAY=0",
		"ASSETS_KEEP_STALE=false",
	), nil)
	require.NoError(t, err)

	assert.Zero(t, cfg.Server.GracefulTimeout)
	assert.Zero(t, cfg.Server.RecycleDelay)
	assert.False(t, cfg.Assets.KeepStale)
}

// TestBuild_FileZeroOverridesDefaults verifies that an explicit zero in the
// file replaces a non-zero default.
func TestBuild_FileZeroOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTempFile(t, "config.yaml", "server:\n  graceful_timeout: 0\n")

	cfg, err := resolve(minimalEnviron("CONFIG="+path), nil)
	require.NoError(t, err)
	assert.Zero(t, cfg.Server.GracefulTimeout)
}

// TestBuild_FlagZeroOverridesLowerLayers verifies that zero values set on
// the command line win over the environment and the file.
func TestBuild_FlagZeroOverridesLowerLayers(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTempFile(t, "config.json", `{"assets": {"keep_stale": true}}`)

	cfg, err := resolve(
		minimalEnviron("CONFIG="+path, "RECYCLE_DELAY=5s", "GRACEFUL_TIMEOUT=1m"),
		parsedFlags(t, "--recycle-delay", "0", "--graceful-timeout", "0s", "--assets-keep-stale=false"),
	)
	require.NoError(t, err)

	assert.Zero(t, cfg.Server.RecycleDelay)
	assert.Zero(t, cfg.Server.GracefulTimeout)
	assert.False(t, cfg.Assets.KeepStale)
}

// TestBuild_UnsetFlagsKeepLowerLayers verifies that flags absent from the
// command line leave the environment values in place.
func TestBuild_UnsetFlagsKeepLowerLayers(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := resolve(
		minimalEnviron("WORKERS=4", "RECYCLE_DELAY=2s"),
		parsedFlags(t, "--log-level", "debug"),
	)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Server.Workers)
	assert.Equal(t, 2*time.Second, cfg.Server.RecycleDelay.Std())
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// TestBuild_ExplicitZeroRejected verifies that a zero port, worker count or
// request timeout fails instead of falling back to the default.
func TestBuild_ExplicitZeroRejected(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		args    []string
	}{
		{name: "env port", environ: []string{"PORT=0"}},
		{name: "env workers", environ: []string{"WORKERS=0"}},
		{name: "env timeout", environ: []string{"TIMEOUT=0"}},
		{name: "flag port", args: []string{"--port", "0"}},
		{name: "flag workers", args: []string{"-w", "0"}},
		{name: "flag timeout", args: []string{"-t", "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			cfg, err := resolve(minimalEnviron(tt.environ...), parsedFlags(t, tt.args...))
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrInvalidServerConfigs)
		})
	}
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder(nil, nil)
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_InvalidPortSetsError verifies that a syntactically invalid
// override fails instead of falling back to the default.
func TestWithEnv_InvalidPortSetsError(t *testing.T) {
	b := newConfigBuilder(minimalEnviron("PORT=http"), nil).withDefaults().withEnv()
	require.Error(t, b.err)

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "Port")
}

// ── withFile ──────────────────────────────────────────────────────────────────

// TestWithFile_NoOp_WhenNoPathSet verifies that withFile does nothing when
// no file is named.
func TestWithFile_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder(nil, nil).withDefaults().withFile()
	assert.NoError(t, b.err)
	assert.Equal(t, defaultConfig(), b.config)
}

// TestWithFile_FlagPathWinsOverEnvPath verifies which path is read when
// both --config and CONFIG name a file.
func TestWithFile_FlagPathWinsOverEnvPath(t *testing.T) {
	envPath := writeTempFile(t, "env.json", `{"app":{"version":"from-env-file"}}`)
	flagPath := writeTempFile(t, "flag.json", `{"app":{"version":"from-flag-file"}}`)

	b := newConfigBuilder([]string{"CONFIG=" + envPath}, parsedFlags(t, "-c", flagPath)).withFile()

	require.NoError(t, b.err)
	assert.Equal(t, "from-flag-file", b.config.App.Version)
}

// TestWithFile_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithFile_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder([]string{"CONFIG=/nonexistent/config.json"}, nil).withFile()
	assert.Error(t, b.err)
}

// ── withDotEnv ────────────────────────────────────────────────────────────────

// TestWithDotEnv_LoadsMissingVariables verifies that dotenv variables are
// added without overriding the process environment.
func TestWithDotEnv_LoadsMissingVariables(t *testing.T) {
	path := writeTempFile(t, "app.env", "PORT=9100\nWORKERS=8\n")

	cfg, err := newConfigBuilder(minimalEnviron("WORKERS=3", "ENV_FILE="+path), nil).
		withDefaults().
		withDotEnv().
		withEnv().
		build()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Server.Workers, "process environment wins over dotenv")
}

// TestWithDotEnv_FlagPath verifies that --env-file is honoured.
func TestWithDotEnv_FlagPath(t *testing.T) {
	path := writeTempFile(t, "flag.env", "APP_VERSION=9.9.9\n")

	b := newConfigBuilder(nil, parsedFlags(t, "--env-file", path)).withDotEnv()

	require.NoError(t, b.err)
	assert.Equal(t, "9.9.9", b.environ["APP_VERSION"])
}

// TestWithDotEnv_MissingExplicitFile verifies that a named but missing
// dotenv file is an error.
func TestWithDotEnv_MissingExplicitFile(t *testing.T) {
	b := newConfigBuilder([]string{"ENV_FILE=/nonexistent/.env"}, nil).withDotEnv()
	assert.Error(t, b.err)
}

// TestWithDotEnv_MissingDefaultFile verifies that the absence of ./.env is
// not an error.
func TestWithDotEnv_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	b := newConfigBuilder(nil, nil).withDotEnv()
	assert.NoError(t, b.err)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

// TestGetStructuredConfig_NoOverride verifies that without any override the
// bound port equals the documented default.
func TestGetStructuredConfig_NoOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("PORT_VARIABLE", "")
	t.Setenv("CONFIG", "")
	t.Setenv("ENV_FILE", "")
	t.Setenv("ASSETS_SOURCE_DIR", "/srv/assets")

	cfg, err := GetStructuredConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

// TestGetStructuredConfig_PortRange verifies every accepted and rejected
// port override.
func TestGetStructuredConfig_PortRange(t *testing.T) {
	tests := []struct {
		port    string
		want    int
		wantErr bool
	}{
		{port: "1", want: 1},
		{port: "8080", want: 8080},
		{port: "65535", want: 65535},
		{port: "0", wantErr: true},
		{port: "65536", wantErr: true},
		{port: "-1", wantErr: true},
		{port: "eighty", wantErr: true},
		{port: "80.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("PORT_VARIABLE", "")
			t.Setenv("CONFIG", "")
			t.Setenv("ENV_FILE", "")
			t.Setenv("ASSETS_SOURCE_DIR", "/srv/assets")
			t.Setenv("PORT", tt.port)

			cfg, err := GetStructuredConfig(nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Server.Port)
		})
	}
}
