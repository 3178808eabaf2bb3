package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-boot-supervisor/internal/assets"
	"github.com/MKhiriev/go-boot-supervisor/internal/bootstrap"
	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/internal/server"
	"github.com/MKhiriev/go-boot-supervisor/models"
)

// ── helpers ──

var supervisorEnv = []string{
	"PORT", "PORT_VARIABLE", "HOST", "WORKERS", "TIMEOUT", "GRACEFUL_TIMEOUT", "RECYCLE_DELAY",
	"ASSETS_SOURCE_DIR", "ASSETS_TARGET_DIR", "ASSETS_URL_PREFIX", "ASSETS_COMMAND", "ASSETS_KEEP_STALE",
	"APP_UPSTREAM_URL", "APP_VERSION", "LOG_LEVEL", "CONFIG", "ENV_FILE",
}

// isolate runs the test in an empty working directory with every
// supervisor variable unset.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, name := range supervisorEnv {
		t.Setenv(name, "")
	}
}

// assetDirs creates a source tree with one stylesheet and returns the
// source and target directories.
func assetDirs(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	source := filepath.Join(root, "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(source, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "css", "site.css"), []byte("body{}"), 0o644))
	return source, filepath.Join(root, "staticfiles")
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func run(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd(models.NewAppBuildInfo("v1.2.3", "2026-10-19", "deadbeef"), logger.Nop())
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

// ── exit codes ──

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "graceful", err: nil, want: 0},
		{name: "drain deadline", err: fmt.Errorf("%w: %w", bootstrap.ErrLaunchFailed, server.ErrDrainTimeout), want: 2},
		{name: "bind failure", err: fmt.Errorf("%w: %w", bootstrap.ErrLaunchFailed, server.ErrBind), want: 1},
		{name: "config", err: config.ErrInvalidServerConfigs, want: 1},
		{name: "assets", err: assets.ErrSourceMissing, want: 1},
		{name: "other", err: errors.New("unknown flag"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

// ── version ──

func TestVersionCmd(t *testing.T) {
	out, err := run(context.Background(), "version")

	require.NoError(t, err)
	assert.Contains(t, out, "Build version: v1.2.3")
	assert.Contains(t, out, "Build date: 2026-10-19")
	assert.Contains(t, out, "Build commit: deadbeef")
}

// ── prepare ──

func TestPrepareCmd_SyncsAssets(t *testing.T) {
	isolate(t)
	source, target := assetDirs(t)

	_, err := run(context.Background(), "prepare", "--assets-source", source, "--assets-target", target)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(target, "css", "site.css"))
}

func TestPrepareCmd_FromEnvironment(t *testing.T) {
	isolate(t)
	source, target := assetDirs(t)
	t.Setenv("ASSETS_SOURCE_DIR", source)
	t.Setenv("ASSETS_TARGET_DIR", target)

	_, err := run(context.Background(), "prepare")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(target, "css", "site.css"))
}

func TestPrepareCmd_MissingSource(t *testing.T) {
	isolate(t)
	root := t.TempDir()

	_, err := run(context.Background(), "prepare",
		"--assets-source", filepath.Join(root, "missing"),
		"--assets-target", filepath.Join(root, "out"))

	require.Error(t, err)
	assert.ErrorIs(t, err, bootstrap.ErrPrepareFailed)
	assert.ErrorIs(t, err, assets.ErrSourceMissing)
	assert.Equal(t, exitFatal, exitCode(err))
}

func TestPrepareCmd_InvalidEnvironment(t *testing.T) {
	isolate(t)
	source, target := assetDirs(t)
	t.Setenv("WORKERS", "many")

	_, err := run(context.Background(), "prepare", "--assets-source", source, "--assets-target", target)

	require.Error(t, err)
	assert.Equal(t, exitFatal, exitCode(err))
	assert.NoDirExists(t, target)
}

// ── serve ──

func TestServe_BindFailure(t *testing.T) {
	isolate(t)
	source, target := assetDirs(t)

	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	_, err = run(context.Background(),
		"-a", occupied.Addr().String(),
		"--assets-source", source, "--assets-target", target)

	require.Error(t, err)
	assert.ErrorIs(t, err, bootstrap.ErrLaunchFailed)
	assert.ErrorIs(t, err, server.ErrBind)
	assert.Equal(t, exitFatal, exitCode(err))
	// assets are prepared before the socket is bound
	assert.FileExists(t, filepath.Join(target, "css", "site.css"))
}

func TestServe_PrepareFailureNeverBinds(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	port := freePort(t)

	_, err := run(context.Background(),
		"serve", "-a", "127.0.0.1:"+strconv.Itoa(port),
		"--assets-source", filepath.Join(root, "missing"),
		"--assets-target", filepath.Join(root, "out"))

	require.ErrorIs(t, err, bootstrap.ErrPrepareFailed)
	assert.NotErrorIs(t, err, bootstrap.ErrLaunchFailed)

	ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	require.NoError(t, err, "port must not be held after a failed boot")
	_ = ln.Close()
}

// TestServe_NoAssetSource checks that an otherwise default configuration
// without ASSETS_SOURCE_DIR or ASSETS_COMMAND fails before binding.
func TestServe_NoAssetSource(t *testing.T) {
	isolate(t)
	port := freePort(t)

	_, err := run(context.Background(), "serve", "-a", "127.0.0.1:"+strconv.Itoa(port))

	require.ErrorIs(t, err, config.ErrInvalidAssetsConfigs)
	assert.Equal(t, exitFatal, exitCode(err))

	ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	require.NoError(t, err, "port must not be held after a failed boot")
	_ = ln.Close()
}

func TestServe_HelpNamesAssetSource(t *testing.T) {
	out, err := run(context.Background(), "serve", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "ASSETS_SOURCE_DIR")
	assert.Contains(t, out, "ASSETS_COMMAND")
}

func TestServe_GracefulShutdown(t *testing.T) {
	isolate(t)
	source, target := assetDirs(t)
	port := freePort(t)
	base := "http://127.0.0.1:" + strconv.Itoa(port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := run(ctx,
			"--address", "127.0.0.1:"+strconv.Itoa(port),
			"--workers", "3",
			"--graceful-timeout", "5s",
			"--app-version", "2.0.0",
			"--assets-source", source, "--assets-target", target)
		done <- err
	}()

	require.Eventually(t, func() bool {
		out, err := run(context.Background(), "healthcheck", "--url", base, "--check-timeout", "1s")
		return err == nil && bytes.Contains([]byte(out), []byte(`"workers":3`))
	}, 10*time.Second, 50*time.Millisecond)

	resp, err := http.Get(base + "/static/css/site.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Equal(t, exitOK, exitCode(err))
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

// ── healthcheck ──

func TestHealthcheckCmd(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "healthy", status: http.StatusOK},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, healthPath, r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"status":"ok"}`))
			}))
			defer srv.Close()

			out, err := run(context.Background(), "healthcheck", "--url", srv.URL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, `"status":"ok"`)
		})
	}
}

func TestHealthcheckCmd_HelpNamesWorkerCost(t *testing.T) {
	out, err := run(context.Background(), "healthcheck", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "served by a worker")
	assert.Contains(t, out, "--check-timeout")
}

func TestHealthcheckCmd_Unreachable(t *testing.T) {
	_, err := run(context.Background(), "healthcheck", "--url", "http://127.0.0.1:"+strconv.Itoa(freePort(t)))
	assert.Error(t, err)
}
