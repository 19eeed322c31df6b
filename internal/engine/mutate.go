package engine

import (
	"errors"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/display"
	"github.com/roach88/memtrans/internal/journal"
	"github.com/roach88/memtrans/internal/num"
)

// Dispatch runs one UI command against the selected cell.
//
// Commands other than StopAuto and CopyAddress re-parse the Min, Max and
// Interval fields first. A valid config replaces the active one; an invalid
// one aborts the command and keeps the active one. Every failure is a
// *CommandError whose Message becomes the status line; cells are untouched.
// The display is refreshed after every command, failed or not.
func (e *Engine) Dispatch(cmd Command) error {
	err := e.dispatch(cmd)
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) {
			e.status = ce.Message
		}
		e.logger.Warn("command rejected", "command", cmd.Kind.String(), "error", err)
	} else {
		e.logger.Debug("command applied",
			"command", cmd.Kind.String(),
			"type", e.selected.String(),
			"seq", e.clock.Current())
	}
	e.RefreshTick()
	return err
}

func (e *Engine) dispatch(cmd Command) error {
	if cmd.Kind.NeedsConfig() {
		cfg, err := ParseConfig(cmd.Fields)
		if err != nil {
			return err
		}
		e.config = cfg
	}

	switch cmd.Kind {
	case CmdSet, CmdAdd, CmdSubtract:
		n, err := num.Parse(cmd.Fields.Input)
		if err != nil {
			return newParseError(FieldInput, MsgInputParseFailed, err)
		}
		switch cmd.Kind {
		case CmdSet:
			e.SetValue(n)
		case CmdAdd:
			e.AddValue(n)
		default:
			e.SubtractValue(n)
		}
	case CmdRandomizeOnce:
		e.RandomizeOnce()
	case CmdBurst:
		n, err := ParseCount(cmd.Fields.Count)
		if err != nil {
			return err
		}
		e.Burst(n)
	case CmdStartAuto:
		n, err := ParseCount(cmd.Fields.Count)
		if err != nil {
			return err
		}
		e.StartAuto(n)
	case CmdStopAuto:
		e.StopAuto()
	case CmdCopyAddress:
		return e.CopyAddress()
	default:
		return &CommandError{Code: ErrCodeParseFailed, Message: "unknown command"}
	}
	return nil
}

// Select makes the representation at index the target of later operations.
// No cell is read or written. An index outside 0..12 is logged and ignored.
func (e *Engine) Select(index int) bool {
	r := cell.Representation(index)
	if !r.Valid() {
		e.logger.Warn("selection ignored", "index", index)
		return false
	}
	e.selected = r
	e.status = StatusTypeSwitched
	e.logger.Debug("type selected", "type", r.String())
	e.RefreshTick()
	return true
}

// SetValue stores n into the selected cell.
func (e *Engine) SetValue(n *apd.Decimal) {
	e.store(journal.SourceSet, n, nil)
	e.status = StatusValueUpdated
}

// AddValue stores current + n.
func (e *Engine) AddValue(n *apd.Decimal) {
	e.store(journal.SourceAdd, num.Add(e.current(), n), n)
	e.status = StatusValueUpdated
}

// SubtractValue stores current - n.
func (e *Engine) SubtractValue(n *apd.Decimal) {
	e.store(journal.SourceSubtract, num.Sub(e.current(), n), num.Neg(n))
	e.status = StatusValueUpdated
}

// RandomizeOnce stores current + a random delta drawn for the selected
// representation's kind.
func (e *Engine) RandomizeOnce() {
	e.randomize(journal.SourceRandom)
	e.status = StatusRandomized
}

// Burst applies count random deltas back to back. count < 1 does nothing.
func (e *Engine) Burst(count int) {
	for i := 0; i < count; i++ {
		e.randomize(journal.SourceBurst)
	}
	if count > 0 {
		e.status = StatusBurstDone
	}
}

// StartAuto enters Running(count) and arms the auto ticker at the active
// interval. If auto is already running it is re-armed from scratch.
// count < 1 does nothing.
func (e *Engine) StartAuto(count int) {
	if count < 1 {
		return
	}
	e.stopAutoTicker()
	e.auto.Start(count)
	e.autoTicker = e.tickers.NewTicker(e.config.Interval)
	e.status = StatusAutoStarted
	e.logger.Debug("auto started", "count", count, "interval", e.config.Interval)
}

// StopAuto cancels the auto ticker and forces Idle.
func (e *Engine) StopAuto() {
	e.stopAutoTicker()
	e.auto.Stop()
	e.status = StatusAutoStopped
}

// AutoTick is the auto ticker handler. Idle ignores it, so a tick that was
// already in flight when StopAuto ran does nothing.
func (e *Engine) AutoTick() {
	if !e.auto.Running() {
		return
	}
	e.randomize(journal.SourceAuto)
	if e.auto.Tick() == 0 {
		e.stopAutoTicker()
		e.status = StatusAutoFinished
		e.logger.Debug("auto finished", "seq", e.clock.Current())
	}
	e.RefreshTick()
}

// CopyAddress puts the selected cell's address text on the clipboard.
func (e *Engine) CopyAddress() error {
	addr := display.FormatAddress(e.cells.AddressOf(e.selected))
	if e.clip == nil {
		return newClipboardError(errors.New("no clipboard"))
	}
	if err := e.clip.WriteText(addr); err != nil {
		return newClipboardError(err)
	}
	e.status = StatusAddressCopied
	return nil
}

func (e *Engine) current() *apd.Decimal {
	return e.cells.Read(e.selected)
}

func (e *Engine) randomize(src journal.Source) {
	r := e.selected
	d := e.rand.Next(e.config.Range(), r.IsReal())
	e.store(src, num.Add(e.current(), d), d)
}

// store writes v into the selected cell, stamps it and journals it.
func (e *Engine) store(src journal.Source, v, d *apd.Decimal) {
	r := e.selected
	var before *apd.Decimal
	if e.journal != nil {
		before = e.cells.Read(r)
	}

	e.cells.Write(r, v)
	seq := e.clock.Next()

	if e.journal == nil {
		return
	}
	m := journal.Mutation{
		Session:        e.session,
		Seq:            seq,
		Source:         src,
		Representation: r.String(),
		Address:        display.FormatAddress(e.cells.AddressOf(r)),
		Before:         display.FormatValue(r, before),
		After:          display.FormatValue(r, e.cells.Read(r)),
	}
	if d != nil {
		m.Delta = d.Text('f')
	}
	if !e.journal.Record(m) {
		e.logger.Warn("journal record dropped", "seq", seq)
	}
}
