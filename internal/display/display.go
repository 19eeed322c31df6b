// Package display renders cell values and publishes them on a fixed cadence.
//
// The Pump re-reads the selected cell on every tick whether or not anything
// changed, so writes made from outside the process show up without user
// action. Sinks decide whether a republished panel is worth redrawing.
package display

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/num"
)

// FormatValue renders v the way the UI shows it: reals with six decimals,
// unsigned kinds as unsigned decimal, everything else as signed decimal.
func FormatValue(r cell.Representation, v *apd.Decimal) string {
	switch {
	case r.IsReal():
		if num.IsNaN(v) {
			return "nan"
		}
		return strconv.FormatFloat(num.ToFloat64(v), 'f', 6, 64)
	case r.IsUnsigned():
		return strconv.FormatUint(num.ToUint64(v), 10)
	default:
		return strconv.FormatInt(num.ToInt64(v), 10)
	}
}

// FormatAddress renders an address as lowercase hex with a 0x prefix.
func FormatAddress(addr uintptr) string {
	return fmt.Sprintf("0x%x", addr)
}

// Panel is everything the UI shows for the selected cell.
type Panel struct {
	Type          string `json:"type"`
	Value         string `json:"value"`
	Address       string `json:"address"`
	PID           int    `json:"pid"`
	Status        string `json:"status"`
	AutoRemaining int    `json:"auto_remaining"`
}

func (p Panel) String() string {
	s := fmt.Sprintf("[%s] %s @ %s  pid %d", p.Type, p.Value, p.Address, p.PID)
	if p.AutoRemaining > 0 {
		s += fmt.Sprintf("  auto %d", p.AutoRemaining)
	}
	if p.Status != "" {
		s += "  | " + p.Status
	}
	return s
}

// Sink receives every published panel.
type Sink interface {
	Publish(p Panel)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Panel)

func (f SinkFunc) Publish(p Panel) { f(p) }

// Discard drops every panel.
var Discard Sink = SinkFunc(func(Panel) {})

// Pump regenerates the panel from its reader and publishes it.
type Pump struct {
	read func() Panel
	sink Sink
	last Panel
	n    int64
}

// NewPump returns a pump publishing read() to sink. A nil sink discards.
func NewPump(read func() Panel, sink Sink) *Pump {
	if sink == nil {
		sink = Discard
	}
	return &Pump{read: read, sink: sink}
}

// Tick re-reads and publishes unconditionally.
func (p *Pump) Tick() Panel {
	p.last = p.read()
	p.n++
	p.sink.Publish(p.last)
	return p.last
}

// Last is the most recently published panel.
func (p *Pump) Last() Panel { return p.last }

// Ticks counts publishes since the pump was created.
func (p *Pump) Ticks() int64 { return p.n }
