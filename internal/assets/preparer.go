package assets

import (
	"context"

	"github.com/MKhiriev/go-boot-supervisor/internal/config"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
)

// Preparer performs one-shot asset preparation.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Sequence runs preparers in order and stops at the first failure.
type Sequence []Preparer

func (s Sequence) Prepare(ctx context.Context) error {
	for _, p := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Prepare(ctx); err != nil {
			return err
		}
	}
	return nil
}

// New builds the preparer described by cfg. When both a command and a source
// directory are configured the command runs first, so that it can populate
// the source tree the syncer then mirrors.
func New(cfg config.Assets, log *logger.Logger) (Preparer, error) {
	var seq Sequence

	if cfg.Command != "" {
		cmd, err := NewCommand(cfg.Command, log)
		if err != nil {
			return nil, err
		}
		seq = append(seq, cmd)
	}

	if cfg.SourceDir != "" {
		syncer, err := NewSyncer(cfg, log)
		if err != nil {
			return nil, err
		}
		seq = append(seq, syncer)
	}

	switch len(seq) {
	case 0:
		return nil, ErrNothingToDo
	case 1:
		return seq[0], nil
	default:
		return seq, nil
	}
}
