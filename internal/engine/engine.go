package engine

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/clipboard"
	"github.com/roach88/memtrans/internal/delta"
	"github.com/roach88/memtrans/internal/display"
	"github.com/roach88/memtrans/internal/journal"
)

// DefaultRefreshPeriod is the display refresh cadence.
const DefaultRefreshPeriod = 80 * time.Millisecond

// Journal receives every applied mutation. Record must not block.
// Implemented by *journal.Recorder.
type Journal interface {
	Record(m journal.Mutation) bool
}

// Engine is the single-writer mutation engine.
//
// Thread-safety model:
//   - Enqueue, Submit, SubmitSelection, RequestRefresh, Stop, Snapshot:
//     safe from any goroutine
//   - Run: must be called from exactly one goroutine
//   - every other method touches engine state and belongs to the Run
//     goroutine, or to a test that drives the engine without Run
type Engine struct {
	cells    *cell.Store
	rand     *delta.Randomizer
	clock    *Clock
	queue    *eventQueue
	tickers  TickerFactory
	pump     *display.Pump
	sink     display.Sink
	journal  Journal
	clip     clipboard.Writer
	logger   *slog.Logger
	session  string
	pid      int
	refresh  time.Duration
	selected cell.Representation
	config   Config
	auto     AutoState
	status   string

	autoTicker Ticker
	snapshot   atomic.Pointer[display.Panel]
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithConfig sets the initial mutation config. An invalid config is ignored
// and the default kept.
func WithConfig(cfg Config) EngineOption {
	return func(e *Engine) {
		if cfg.Validate() == nil {
			e.config = cfg
		}
	}
}

// WithSelection sets the initially selected representation.
func WithSelection(r cell.Representation) EngineOption {
	return func(e *Engine) {
		if r.Valid() {
			e.selected = r
		}
	}
}

// WithTickers replaces the ticker factory. Tests pass hand-fired tickers.
func WithTickers(f TickerFactory) EngineOption {
	return func(e *Engine) {
		e.tickers = f
	}
}

// WithRefreshPeriod sets the display refresh cadence.
func WithRefreshPeriod(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.refresh = d
		}
	}
}

// WithJournal sends every applied mutation to j.
func WithJournal(j Journal) EngineOption {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithClipboard sets the clipboard used by CopyAddress.
func WithClipboard(w clipboard.Writer) EngineOption {
	return func(e *Engine) {
		e.clip = w
	}
}

// WithSink sets where refreshed panels are published.
func WithSink(s display.Sink) EngineOption {
	return func(e *Engine) {
		e.sink = s
	}
}

// WithSession sets the session id stamped on journal records.
func WithSession(id string) EngineOption {
	return func(e *Engine) {
		e.session = id
	}
}

// WithPID overrides the process id shown on the panel. Scenarios pin it so
// traces are reproducible.
func WithPID(pid int) EngineOption {
	return func(e *Engine) {
		e.pid = pid
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine over cells, drawing random deltas from src.
func New(cells *cell.Store, src delta.Source, opts ...EngineOption) *Engine {
	e := &Engine{
		cells:    cells,
		rand:     delta.New(src),
		clock:    NewClock(),
		queue:    newEventQueue(),
		tickers:  SystemTickers{},
		sink:     display.Discard,
		clip:     clipboard.System{},
		logger:   slog.Default(),
		pid:      os.Getpid(),
		refresh:  DefaultRefreshPeriod,
		selected: cell.Default,
		config:   DefaultConfig(),
		status:   StatusReady,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pump = display.NewPump(e.Panel, display.SinkFunc(e.publish))
	return e
}

// Run is the event loop. It returns ctx.Err() when ctx is cancelled, or
// nil after Stop once the queue has drained.
func (e *Engine) Run(ctx context.Context) error {
	refresh := e.tickers.NewTicker(e.refresh)
	defer refresh.Stop()
	defer e.stopAutoTicker()
	defer e.queue.Close()

	e.logger.Info("engine started",
		"pid", e.pid,
		"session", e.session,
		"type", e.selected.String(),
		"refresh", e.refresh)
	e.RefreshTick()

	for {
		e.drain()
		if e.queue.Closed() {
			e.logger.Info("engine stopped", "seq", e.clock.Current())
			return nil
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped", "seq", e.clock.Current(), "reason", ctx.Err())
			return ctx.Err()
		case <-e.queue.Wait():
		case <-refresh.C():
			e.RefreshTick()
		case <-e.autoC():
			e.AutoTick()
		}
	}
}

func (e *Engine) drain() {
	for {
		ev, ok := e.queue.TryDequeue()
		if !ok {
			return
		}
		e.handle(ev)
	}
}

func (e *Engine) handle(ev Event) {
	var err error
	switch ev.Type {
	case EventTypeCommand:
		err = e.Dispatch(ev.Command)
	case EventTypeSelect:
		e.Select(ev.Selection.Index)
	case EventTypeRefresh:
		e.RefreshTick()
	}
	if ev.reply != nil {
		ev.reply <- err
	}
}

// Enqueue submits an event to the Run loop without waiting.
// Returns false once the engine has stopped.
func (e *Engine) Enqueue(ev Event) bool {
	return e.queue.Enqueue(ev)
}

// Submit enqueues cmd and waits for its result. It returns ctx.Err() if ctx
// ends first, and ErrStopped if the engine no longer accepts events.
func (e *Engine) Submit(ctx context.Context, cmd Command) error {
	reply := make(chan error, 1)
	if !e.queue.Enqueue(Event{Type: EventTypeCommand, Command: cmd, reply: reply}) {
		return ErrStopped
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitSelection enqueues a selection without waiting.
func (e *Engine) SubmitSelection(index int) bool {
	return e.queue.Enqueue(Event{Type: EventTypeSelect, Selection: Selection{Index: index}})
}

// RequestRefresh asks the Run loop for an immediate refresh.
func (e *Engine) RequestRefresh() bool {
	return e.queue.Enqueue(Event{Type: EventTypeRefresh})
}

// Stop closes the event queue. Run finishes the queued events and returns.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Panel builds the panel for the selected cell from live state.
func (e *Engine) Panel() display.Panel {
	r := e.selected
	return display.Panel{
		Type:          r.String(),
		Value:         display.FormatValue(r, e.cells.Read(r)),
		Address:       display.FormatAddress(e.cells.AddressOf(r)),
		PID:           e.pid,
		Status:        e.status,
		AutoRemaining: e.auto.Remaining(),
	}
}

// Snapshot returns the most recently published panel. Safe from any
// goroutine.
func (e *Engine) Snapshot() display.Panel {
	if p := e.snapshot.Load(); p != nil {
		return *p
	}
	return display.Panel{}
}

// RefreshTick re-reads the selected cell and publishes it.
func (e *Engine) RefreshTick() display.Panel {
	return e.pump.Tick()
}

func (e *Engine) publish(p display.Panel) {
	e.snapshot.Store(&p)
	e.sink.Publish(p)
}

// Selected is the currently selected representation.
func (e *Engine) Selected() cell.Representation { return e.selected }

// Config is the active mutation config.
func (e *Engine) Config() Config { return e.config }

// Auto is the auto-mutation state.
func (e *Engine) Auto() AutoState { return e.auto }

// Status is the current status line.
func (e *Engine) Status() string { return e.status }

// Cells is the cell store the engine mutates.
func (e *Engine) Cells() *cell.Store { return e.cells }

// Seq is the seq of the last applied mutation.
func (e *Engine) Seq() int64 { return e.clock.Current() }

// Refreshes counts display refreshes so far.
func (e *Engine) Refreshes() int64 { return e.pump.Ticks() }

func (e *Engine) autoC() <-chan time.Time {
	if e.autoTicker == nil {
		return nil
	}
	return e.autoTicker.C()
}

func (e *Engine) stopAutoTicker() {
	if e.autoTicker != nil {
		e.autoTicker.Stop()
		e.autoTicker = nil
	}
}
