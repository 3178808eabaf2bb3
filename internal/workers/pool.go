// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-boot-supervisor/internal/app"
	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/internal/utils"
)

// Options configures a Pool.
type Options struct {
	// Size is the fixed number of worker units.
	Size int
	// RequestTimeout bounds the handling of a single request.
	RequestTimeout time.Duration
	// RecycleDelay is the pause before a recycled worker unit becomes idle
	// again. Zero recycles immediately.
	RecycleDelay time.Duration
	// NewID returns a fresh incarnation id. Defaults to UUIDv7 strings.
	NewID func() string
	// Observer, when set, is called for every state change while the pool
	// lock is held. It must not call back into the pool.
	Observer func(Transition)
}

// Pool is a fixed-size set of worker units. Each unit handles one request at
// a time; a request arriving while every unit is busy waits for the next
// unit to become idle or for its own context to end.
type Pool struct {
	opts   Options
	logger *logger.Logger

	idle chan int

	mu       sync.Mutex
	workers  []*worker
	draining bool
	stopped  bool

	ctx       context.Context
	cancel    context.CancelFunc
	recycling sync.WaitGroup
}

// NewPool creates a pool with opts.Size idle worker units.
func NewPool(opts Options, log *logger.Logger) (*Pool, error) {
	if opts.Size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPoolSize, opts.Size)
	}
	if opts.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidRequestTimeout, opts.RequestTimeout)
	}
	if opts.NewID == nil {
		opts.NewID = utils.NewUUIDGenerator().Generate
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		opts:    opts,
		logger:  log,
		idle:    make(chan int, opts.Size),
		workers: make([]*worker, opts.Size),
		ctx:     ctx,
		cancel:  cancel,
	}

	for slot := range p.workers {
		p.workers[slot] = &worker{slot: slot, id: opts.NewID(), state: StateIdle}
		p.idle <- slot
	}

	return p, nil
}

// Size returns the fixed number of worker units.
func (p *Pool) Size() int { return p.opts.Size }

// IdleCount returns the number of worker units ready to take a request.
func (p *Pool) IdleCount() int { return len(p.idle) }

// Snapshot returns a copy of every worker unit's bookkeeping, ordered by slot.
func (p *Pool) Snapshot() []Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Snapshot, len(p.workers))
	for i, w := range p.workers {
		out[i] = w.snapshot()
	}
	return out
}

// Wrap returns a handler that runs next on a worker unit of the pool.
func (p *Pool) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slot, ok := p.acquire(r.Context())
		if !ok {
			if r.Context().Err() == nil {
				http.Error(w, app.MsgServiceUnavailable, http.StatusServiceUnavailable)
			}
			return
		}
		p.serve(slot, next, w, r)
	})
}

// Drain marks the pool as shutting down. Idle worker units move to Draining
// at once; busy ones follow when their request ends.
func (p *Pool) Drain() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.draining {
		return
	}
	p.draining = true
	for _, w := range p.workers {
		if w.state == StateIdle {
			p.setStateLocked(w, StateDraining)
		}
	}
	p.logger.Info().Int("workers", len(p.workers)).Msg("draining worker pool")
}

// Stop cancels every in-flight request, refuses new ones and moves all worker
// units to Stopped. It waits for pending recycles to settle.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.draining = true
	p.stopped = true
	for _, w := range p.workers {
		if w.state != StateDraining {
			p.setStateLocked(w, StateDraining)
		}
		p.setStateLocked(w, StateStopped)
	}
	p.mu.Unlock()

	p.cancel()
	p.recycling.Wait()
	p.logger.Info().Msg("worker pool stopped")
}

func (p *Pool) acquire(ctx context.Context) (int, bool) {
	if p.ctx.Err() != nil {
		return 0, false
	}

	select {
	case slot := <-p.idle:
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.stopped {
			p.idle <- slot
			return 0, false
		}
		p.setStateLocked(p.workers[slot], StateAccepting)
		return slot, true
	case <-ctx.Done():
		return 0, false
	case <-p.ctx.Done():
		return 0, false
	}
}

type outcome struct {
	recovered any
	stack     []byte
}

func (p *Pool) serve(slot int, next http.Handler, w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	id := p.workers[slot].id
	p.setStateLocked(p.workers[slot], StateHandling)
	p.mu.Unlock()

	log := p.requestLogger(r).With().Int("worker", slot).Str("worker_id", id).Logger()

	ctx, cancel := context.WithTimeout(r.Context(), p.opts.RequestTimeout)
	defer cancel()
	stop := context.AfterFunc(p.ctx, cancel)
	defer stop()
	ctx = log.WithContext(ctx)

	tw := newTimeoutWriter(w)
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{recovered: rec, stack: debug.Stack()}
				return
			}
			done <- outcome{}
		}()
		next.ServeHTTP(tw, r.WithContext(ctx))
	}()

	var res outcome
	select {
	case res = <-done:
	case <-ctx.Done():
	}

	if err := ctx.Err(); err != nil {
		answered := tw.fail(http.StatusServiceUnavailable, app.MsgRequestTimedOut)

		event := log.Warn()
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			event = event.Dur("timeout", p.opts.RequestTimeout).Str("reason", "timeout")
		case p.ctx.Err() != nil:
			event = event.Str("reason", "pool stopped")
		default:
			event = event.Str("reason", "client gone")
		}
		event.Bool("answered", answered).Msg("abandoning request, recycling worker")

		p.recycle(slot)
		return
	}

	if res.recovered != nil {
		if res.recovered != http.ErrAbortHandler {
			log.Error().
				Str("panic", fmt.Sprint(res.recovered)).
				Bytes("stack", res.stack).
				Msg("handler panicked")
		}
		tw.fail(http.StatusInternalServerError, app.MsgInternalServerError)
		p.release(slot, func(w *worker) { w.panicked++ })
		return
	}

	tw.complete()
	p.release(slot, func(w *worker) { w.handled++ })
}

// release returns a worker unit to the idle set after a completed request.
func (p *Pool) release(slot int, count func(*worker)) {
	p.mu.Lock()
	w := p.workers[slot]
	count(w)
	p.setStateLocked(w, p.restingStateLocked())
	p.mu.Unlock()

	p.idle <- slot
}

// recycle retires the worker unit's incarnation and, after the recycle delay,
// returns the slot to the idle set under a fresh incarnation id.
func (p *Pool) recycle(slot int) {
	p.mu.Lock()
	w := p.workers[slot]
	w.timedOut++
	if p.stopped {
		p.mu.Unlock()
		p.idle <- slot
		return
	}
	p.setStateLocked(w, StateTimedOut)
	p.setStateLocked(w, StateRecycling)
	delayed := p.opts.RecycleDelay > 0
	if delayed {
		p.recycling.Add(1)
	}
	p.mu.Unlock()

	renew := func() {
		p.mu.Lock()
		w.id = p.opts.NewID()
		w.incarnation++
		p.setStateLocked(w, p.restingStateLocked())
		p.mu.Unlock()

		p.idle <- slot
	}

	if !delayed {
		renew()
		return
	}

	go func() {
		defer p.recycling.Done()

		timer := time.NewTimer(p.opts.RecycleDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-p.ctx.Done():
		}
		renew()
	}()
}

func (p *Pool) restingStateLocked() State {
	switch {
	case p.stopped:
		return StateStopped
	case p.draining:
		return StateDraining
	default:
		return StateIdle
	}
}

func (p *Pool) setStateLocked(w *worker, to State) {
	from := w.state
	if from == to {
		return
	}
	w.state = to

	p.logger.Debug().
		Int("worker", w.slot).
		Str("worker_id", w.id).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("worker state changed")

	if p.opts.Observer != nil {
		p.opts.Observer(Transition{Slot: w.slot, WorkerID: w.id, From: from, To: to})
	}
}

func (p *Pool) requestLogger(r *http.Request) *logger.Logger {
	l := logger.FromRequest(r)
	if l.GetLevel() == zerolog.Disabled {
		return p.logger
	}
	return l
}
