package testutil

import (
	"sync"
	"time"

	"github.com/roach88/memtrans/internal/engine"
)

// ManualTicker only ticks when Fire is called. Like time.Ticker it holds at
// most one pending tick and drops the rest.
type ManualTicker struct {
	Period time.Duration

	mu      sync.Mutex
	c       chan time.Time
	stopped bool
	fired   int
}

func newManualTicker(d time.Duration) *ManualTicker {
	return &ManualTicker{Period: d, c: make(chan time.Time, 1)}
}

// C implements engine.Ticker.
func (t *ManualTicker) C() <-chan time.Time { return t.c }

// Stop implements engine.Ticker.
func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop was called.
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire delivers one tick. It returns false if the ticker is stopped or a
// tick is already pending.
func (t *ManualTicker) Fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return false
	}
	select {
	case t.c <- time.Time{}:
		t.fired++
		return true
	default:
		return false
	}
}

// Fired counts delivered ticks.
func (t *ManualTicker) Fired() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// ManualTickers is an engine.TickerFactory that hands out ManualTickers and
// remembers them in creation order.
type ManualTickers struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

var _ engine.TickerFactory = (*ManualTickers)(nil)

// NewManualTickers creates an empty factory.
func NewManualTickers() *ManualTickers {
	return &ManualTickers{}
}

// NewTicker implements engine.TickerFactory.
func (m *ManualTickers) NewTicker(d time.Duration) engine.Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := newManualTicker(d)
	m.tickers = append(m.tickers, t)
	return t
}

// All returns the tickers created so far.
func (m *ManualTickers) All() []*ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ManualTicker(nil), m.tickers...)
}

// Len returns the number of tickers created so far.
func (m *ManualTickers) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// At returns the i-th ticker created, or nil.
func (m *ManualTickers) At(i int) *ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.tickers) {
		return nil
	}
	return m.tickers[i]
}

// Last returns the most recently created ticker, or nil.
func (m *ManualTickers) Last() *ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tickers) == 0 {
		return nil
	}
	return m.tickers[len(m.tickers)-1]
}
