package journal

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the number of mutations the Recorder holds before it
// starts dropping.
const DefaultBuffer = 4096

// Recorder moves mutations from the engine goroutine to the Store.
//
// Record never blocks: when the buffer is full the mutation is dropped and
// counted. Run performs all writes on its own goroutine.
type Recorder struct {
	store   *Store
	session Session
	ch      chan Mutation

	mu      sync.Mutex
	closed  bool
	dropped atomic.Int64
	written atomic.Int64
}

// NewRecorder returns a Recorder for one session. buffer <= 0 uses DefaultBuffer.
func NewRecorder(st *Store, session Session, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Recorder{
		store:   st,
		session: session,
		ch:      make(chan Mutation, buffer),
	}
}

// Session is the session this recorder writes under.
func (r *Recorder) Session() Session { return r.session }

// Record queues m. It reports false if m was dropped.
func (r *Recorder) Record(m Mutation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.dropped.Add(1)
		return false
	}
	m.Session = r.session.ID
	select {
	case r.ch <- m:
		return true
	default:
		if r.dropped.Add(1) == 1 {
			slog.Warn("journal buffer full, dropping mutations", "session", r.session.ID)
		}
		return false
	}
}

// Close stops accepting mutations. Run drains what is queued and returns.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.ch)
}

// Run writes the session row, then every queued mutation, until Close.
//
// Write failures are logged and skipped; a journal problem never stops the
// probe target. If ctx is cancelled first, Run stops without draining.
func (r *Recorder) Run(ctx context.Context) error {
	if err := r.store.WriteSession(ctx, r.session); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-r.ch:
			if !ok {
				return nil
			}
			if err := r.store.WriteMutation(ctx, m); err != nil {
				slog.Error("journal write failed", "seq", m.Seq, "error", err)
				continue
			}
			r.written.Add(1)
		}
	}
}

// Dropped counts mutations that never reached the store.
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Written counts mutations stored successfully.
func (r *Recorder) Written() int64 { return r.written.Load() }
