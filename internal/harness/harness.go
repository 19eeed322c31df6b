package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/clipboard"
	"github.com/roach88/memtrans/internal/engine"
	"github.com/roach88/memtrans/internal/num"
	"github.com/roach88/memtrans/internal/testutil"
)

// ScenarioPID is the pid every scenario engine reports.
const ScenarioPID = 4242

// Harness drives one engine through one scenario.
type Harness struct {
	engine  *engine.Engine
	tickers *testutil.ManualTickers
	fields  engine.Fields
	logger  *slog.Logger
}

// Run executes a scenario against a fresh engine and fresh cells.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with engine logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	h, err := newHarness(scenario, logger)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		event, stepErr := h.execute(step)
		if stepErr != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, stepErr)
		}
		event.Step = i + 1
		result.AddTrace(event)

		for _, msg := range checkExpect(step.Expect, event) {
			result.AddError(fmt.Sprintf("step %d (%s): %s", event.Step, event.Action, msg))
		}
	}

	for _, msg := range checkFinal(scenario.Final, h.engine.Cells()) {
		result.AddError("final: " + msg)
	}

	return result, nil
}

func newHarness(s *Scenario, logger *slog.Logger) (*Harness, error) {
	selected := cell.Default
	if s.Type != "" {
		r, err := cell.Parse(s.Type)
		if err != nil {
			return nil, err
		}
		selected = r
	}

	tickers := testutil.NewManualTickers()
	eng := engine.New(cell.New(),
		testutil.NewScriptedSource(s.Draws.Ints, s.Draws.Floats),
		engine.WithSelection(selected),
		engine.WithTickers(tickers),
		engine.WithClipboard(&clipboard.Memory{}),
		engine.WithPID(ScenarioPID),
		engine.WithLogger(logger))

	return &Harness{
		engine:  eng,
		tickers: tickers,
		fields:  engine.DefaultFields().Merge(s.Fields),
		logger:  logger,
	}, nil
}

func (h *Harness) execute(step Step) (TraceEvent, error) {
	var (
		action string
		cmdErr error
	)

	switch {
	case step.Command != "":
		kind, err := engine.ParseCommandKind(step.Command)
		if err != nil {
			return TraceEvent{}, err
		}
		h.fields = h.fields.Merge(step.Fields)
		cmdErr = h.engine.Dispatch(engine.Command{Kind: kind, Fields: h.fields})
		action = "command " + kind.String()

	case step.Select != "":
		index, err := strconv.Atoi(step.Select)
		if err != nil {
			r, err := cell.Parse(step.Select)
			if err != nil {
				return TraceEvent{}, err
			}
			index = int(r)
		}
		h.engine.Select(index)
		action = "select " + step.Select

	case step.Tick == TickAuto:
		times := max(step.Times, 1)
		for i := 0; i < times; i++ {
			h.fireAuto()
		}
		action = fmt.Sprintf("tick auto x%d", times)

	case step.Tick == TickRefresh:
		h.engine.RefreshTick()
		action = "tick refresh"

	case step.Write != nil:
		r, err := cell.Parse(step.Write.Type)
		if err != nil {
			return TraceEvent{}, err
		}
		v, err := num.Parse(step.Write.Value)
		if err != nil {
			return TraceEvent{}, err
		}
		h.engine.Cells().Write(r, v)
		h.engine.RefreshTick()
		action = fmt.Sprintf("write %s=%s", r, step.Write.Value)

	default:
		return TraceEvent{}, errors.New("empty step")
	}

	return h.event(action, cmdErr), nil
}

// fireAuto delivers one tick from the armed auto ticker. Nothing happens
// when no ticker is armed, as with a real ticker after Stop.
func (h *Harness) fireAuto() {
	t := h.tickers.Last()
	if t == nil || t.Stopped() {
		return
	}
	if t.Fire() {
		<-t.C()
	}
	h.engine.AutoTick()
}

func (h *Harness) event(action string, err error) TraceEvent {
	p := h.engine.Panel()
	e := TraceEvent{
		Action:        action,
		Type:          p.Type,
		Value:         p.Value,
		Status:        p.Status,
		AutoRemaining: p.AutoRemaining,
		Seq:           h.engine.Seq(),
	}
	if err != nil {
		var ce *engine.CommandError
		if errors.As(err, &ce) {
			e.Error = string(ce.Code)
		} else {
			e.Error = err.Error()
		}
	}
	return e
}
