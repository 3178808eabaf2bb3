// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package bootstrap runs the boot sequence of the supervisor: prepare static
// assets, then hand the process over to the worker pool launcher.
//
// The sequence is strictly linear. The launcher is never started when
// preparation fails, and no step is retried.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
)

// Supervisor owns the boot sequence.
type Supervisor struct {
	preparer Preparer
	launcher Launcher
	logger   *logger.Logger
}

func NewSupervisor(preparer Preparer, launcher Launcher, log *logger.Logger) *Supervisor {
	return &Supervisor{preparer: preparer, launcher: launcher, logger: log}
}

// Run prepares assets and then launches the worker pool in the calling
// goroutine. It returns when the launcher returns.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := s.Prepare(ctx); err != nil {
		return err
	}

	s.logger.Info().Msg("launching worker pool")
	if err := s.launcher.Launch(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	return nil
}

// Prepare runs only the asset preparation step.
func (s *Supervisor) Prepare(ctx context.Context) error {
	start := time.Now()
	s.logger.Info().Msg("preparing static assets")

	if err := s.preparer.Prepare(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPrepareFailed, err)
	}

	s.logger.Info().Dur("took", time.Since(start)).Msg("static assets ready")
	return nil
}
