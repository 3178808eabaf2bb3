// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
)

// SyncReport summarises one Sync run.
type SyncReport struct {
	Copied    int
	Unchanged int
	Removed   int
}

// Syncer mirrors a source directory into the static asset directory.
//
// Files are compared by size and SHA-256 digest and only differing files are
// rewritten, via a temporary file renamed into place. Entries of the target
// that have no counterpart in the source are removed unless KeepStale is set.
// Running Sync twice over the same source leaves the target untouched the
// second time.
type Syncer struct {
	source      string
	target      string
	keepStale   bool
	concurrency int
	logger      *logger.Logger
}

// NewSyncer validates the directory pair in cfg and returns a Syncer.
// The source directory is checked for existence only when Sync runs.
func NewSyncer(cfg config.Assets, log *logger.Logger) (*Syncer, error) {
	if cfg.TargetDir == "" {
		return nil, ErrTargetMissing
	}

	source, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve asset source: %w", err)
	}
	target, err := filepath.Abs(cfg.TargetDir)
	if err != nil {
		return nil, fmt.Errorf("resolve asset target: %w", err)
	}
	if within(source, target) || within(target, source) {
		return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingDirs, source, target)
	}

	return &Syncer{
		source:      source,
		target:      target,
		keepStale:   cfg.KeepStale,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      log,
	}, nil
}

// Prepare runs Sync and logs its report.
func (s *Syncer) Prepare(ctx context.Context) error {
	report, err := s.Sync(ctx)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("source", s.source).
		Str("target", s.target).
		Int("copied", report.Copied).
		Int("unchanged", report.Unchanged).
		Int("removed", report.Removed).
		Msg("static assets synchronized")
	return nil
}

// Sync mirrors the source directory into the target directory.
func (s *Syncer) Sync(ctx context.Context) (SyncReport, error) {
	info, err := os.Stat(s.source)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return SyncReport{}, fmt.Errorf("%w: %s", ErrSourceMissing, s.source)
	case err != nil:
		return SyncReport{}, fmt.Errorf("stat asset source: %w", err)
	case !info.IsDir():
		return SyncReport{}, fmt.Errorf("%w: %s", ErrSourceNotDir, s.source)
	}

	if err = ensureRoot(s.target); err != nil {
		return SyncReport{}, err
	}

	// walk the real directories so that symlinked roots are descended into
	source, err := filepath.EvalSymlinks(s.source)
	if err != nil {
		return SyncReport{}, fmt.Errorf("resolve asset source: %w", err)
	}
	target, err := filepath.EvalSymlinks(s.target)
	if err != nil {
		return SyncReport{}, fmt.Errorf("resolve asset target: %w", err)
	}
	if within(source, target) || within(target, source) {
		return SyncReport{}, fmt.Errorf("%w: %s and %s", ErrOverlappingDirs, source, target)
	}

	var copied, unchanged atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	walkErr := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err = gctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dst := filepath.Join(target, rel)

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		switch {
		case info.IsDir():
			if d.Type()&fs.ModeSymlink != 0 {
				s.logger.Warn().Str("path", path).Msg("skipping symlinked directory")
				return nil
			}
			return ensureDir(dst)
		case info.Mode().IsRegular():
			g.Go(func() error {
				changed, err := syncFile(path, dst, info)
				if err != nil {
					return err
				}
				if changed {
					copied.Add(1)
				} else {
					unchanged.Add(1)
				}
				return nil
			})
			return nil
		default:
			s.logger.Warn().Str("path", path).Str("mode", info.Mode().String()).Msg("skipping non-regular file")
			return nil
		}
	})

	if err = g.Wait(); err != nil {
		return SyncReport{}, fmt.Errorf("copy assets: %w", err)
	}
	if walkErr != nil {
		return SyncReport{}, fmt.Errorf("walk asset source: %w", walkErr)
	}

	report := SyncReport{Copied: int(copied.Load()), Unchanged: int(unchanged.Load())}
	if s.keepStale {
		return report, nil
	}

	removed, err := s.prune(ctx, source, target)
	if err != nil {
		return SyncReport{}, err
	}
	report.Removed = removed
	return report, nil
}

// prune removes target entries that no longer exist in the source.
func (s *Syncer) prune(ctx context.Context, source, target string) (int, error) {
	removed := 0
	err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(target, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if _, err = os.Stat(filepath.Join(source, rel)); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err = os.RemoveAll(path); err != nil {
			return err
		}
		removed++
		s.logger.Debug().Str("path", path).Msg("removed stale asset")
		if d.IsDir() {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune stale assets: %w", err)
	}
	return removed, nil
}

// syncFile copies src to dst unless dst already holds the same content and
// permissions. It reports whether dst was written.
func syncFile(src, dst string, info fs.FileInfo) (bool, error) {
	same, err := sameFile(src, dst, info)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}
	if err = copyFile(src, dst, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("copy %s: %w", src, err)
	}
	return true, nil
}

func sameFile(src, dst string, info fs.FileInfo) (bool, error) {
	dstInfo, err := os.Lstat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if dstInfo.IsDir() {
		if err = os.RemoveAll(dst); err != nil {
			return false, err
		}
		return false, nil
	}
	if !dstInfo.Mode().IsRegular() ||
		dstInfo.Size() != info.Size() ||
		dstInfo.Mode().Perm() != info.Mode().Perm() {
		return false, nil
	}

	srcSum, err := digest(src)
	if err != nil {
		return false, err
	}
	dstSum, err := digest(dst)
	if err != nil {
		return false, err
	}
	return bytes.Equal(srcSum, dstSum), nil
}

func copyFile(src, dst string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func digest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// ensureRoot makes sure the target root exists. A symlink to a directory,
// as container volumes are often mounted, is kept and used in place.
func ensureRoot(dir string) error {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return nil
	}
	return ensureDir(dir)
}

// ensureDir creates dir, replacing a non-directory entry in its place.
func ensureDir(dir string) error {
	info, err := os.Lstat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		if err = os.Remove(dir); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// within reports whether path is dir or lies inside it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
