package workers

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// timeoutWriter buffers response headers until the handler commits them and
// lets the worker close the response out from under a handler that has been
// abandoned. After close every Write fails with http.ErrHandlerTimeout.
type timeoutWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
	h  http.Header

	// abandoned is set before fail takes mu, so a handler looping on Write
	// stops at its next call without waiting for the lock.
	abandoned atomic.Bool

	mu          sync.Mutex
	wroteHeader bool
	closed      bool
	code        int
}

func newTimeoutWriter(w http.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{
		w:  w,
		rc: http.NewResponseController(w),
		h:  make(http.Header),
	}
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed || tw.wroteHeader {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	if tw.abandoned.Load() {
		return 0, http.ErrHandlerTimeout
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.w.Write(b)
}

func (tw *timeoutWriter) Flush() {
	if tw.abandoned.Load() {
		return
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	_ = tw.rc.Flush()
}

// Hijack hands the connection over to the handler, as protocol upgrades
// through the application proxy need. A hijacked response counts as
// committed.
func (tw *timeoutWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return nil, nil, http.ErrHandlerTimeout
	}

	conn, brw, err := tw.rc.Hijack()
	if err != nil {
		return nil, nil, err
	}
	tw.wroteHeader = true
	tw.code = http.StatusSwitchingProtocols
	return conn, brw, nil
}

// Unwrap lets http.ResponseController reach the connection for deadlines.
func (tw *timeoutWriter) Unwrap() http.ResponseWriter { return tw.w }

// writeHeaderLocked copies the buffered headers to the underlying writer.
// Informational statuses are forwarded without committing the response.
func (tw *timeoutWriter) writeHeaderLocked(code int) {
	dst := tw.w.Header()
	for k, vv := range tw.h {
		dst[k] = slices.Clone(vv)
	}

	if code >= 100 && code <= 199 && code != http.StatusSwitchingProtocols {
		tw.w.WriteHeader(code)
		return
	}

	tw.wroteHeader = true
	tw.code = code
	tw.w.WriteHeader(code)
}

// complete closes the writer after the handler returned normally.
func (tw *timeoutWriter) complete() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	tw.closed = true
}

// fail closes the writer and answers with code and msg. It reports false
// when the handler had already committed a status, in which case the
// response is left truncated.
//
// A handler blocked inside a write to a client that stopped reading holds
// mu. fail then moves the connection's write deadline to now, so that the
// write returns and fail gets mu within bounded time.
func (tw *timeoutWriter) fail(code int, msg string) bool {
	tw.abandoned.Store(true)

	if !tw.mu.TryLock() {
		expired := tw.rc.SetWriteDeadline(time.Now()) == nil
		tw.mu.Lock()
		if expired && !tw.wroteHeader {
			// the handler was only sending an informational status
			_ = tw.rc.SetWriteDeadline(time.Time{})
		}
	}
	defer tw.mu.Unlock()

	if tw.closed {
		return false
	}
	tw.closed = true
	if tw.wroteHeader {
		return false
	}

	h := tw.w.Header()
	h.Del("Content-Length")
	h.Del("Content-Encoding")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	tw.wroteHeader = true
	tw.code = code
	tw.w.WriteHeader(code)
	_, _ = fmt.Fprintln(tw.w, msg)
	return true
}

func (tw *timeoutWriter) status() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.code
}
