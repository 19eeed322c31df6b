package engine

import "time"

// Ticker is a cancellable periodic source.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory arms tickers. Tests substitute hand-fired tickers.
type TickerFactory interface {
	NewTicker(d time.Duration) Ticker
}

// SystemTickers arms time.Ticker.
type SystemTickers struct{}

// NewTicker implements TickerFactory.
func (SystemTickers) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
