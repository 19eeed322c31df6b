package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/clipboard"
	"github.com/roach88/memtrans/internal/display"
	"github.com/roach88/memtrans/internal/engine"
	"github.com/roach88/memtrans/internal/journal"
	"github.com/roach88/memtrans/internal/num"
	"github.com/roach88/memtrans/internal/testutil"
)

type harness struct {
	eng     *engine.Engine
	src     *testutil.ScriptedSource
	tickers *testutil.ManualTickers
	sink    *testutil.RecordingSink
	clip    *clipboard.Memory
}

func newHarness(t *testing.T, ints []int64, floats []float64, opts ...engine.EngineOption) *harness {
	t.Helper()
	h := &harness{
		src:     testutil.NewScriptedSource(ints, floats),
		tickers: testutil.NewManualTickers(),
		sink:    &testutil.RecordingSink{},
		clip:    &clipboard.Memory{},
	}
	base := []engine.EngineOption{
		engine.WithTickers(h.tickers),
		engine.WithSink(h.sink),
		engine.WithClipboard(h.clip),
		engine.WithPID(4242),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	h.eng = engine.New(cell.New(), h.src, append(base, opts...)...)
	return h
}

func (h *harness) value() string {
	return h.eng.Panel().Value
}

func cmd(kind engine.CommandKind, edit func(*engine.Fields)) engine.Command {
	f := engine.DefaultFields()
	if edit != nil {
		edit(&f)
	}
	return engine.Command{Kind: kind, Fields: f}
}

func TestEngine_New_Defaults(t *testing.T) {
	h := newHarness(t, nil, nil)

	assert.Equal(t, cell.Int32, h.eng.Selected())
	assert.Equal(t, "Idle", h.eng.Auto().String())
	assert.Equal(t, engine.StatusReady, h.eng.Status())

	p := h.eng.Panel()
	assert.Equal(t, "int32_t", p.Type)
	assert.Equal(t, "1000", p.Value)
	assert.Equal(t, 4242, p.PID)
	assert.Equal(t, display.FormatAddress(h.eng.Cells().AddressOf(cell.Int32)), p.Address)
}

func TestEngine_SetAddSubtract(t *testing.T) {
	h := newHarness(t, nil, nil)

	h.eng.SetValue(num.MustParse("10"))
	assert.Equal(t, "10", h.value())

	h.eng.AddValue(num.MustParse("5"))
	assert.Equal(t, "15", h.value())

	h.eng.SubtractValue(num.MustParse("20"))
	assert.Equal(t, "-5", h.value())
	assert.Equal(t, int64(3), h.eng.Seq())
	assert.Equal(t, engine.StatusValueUpdated, h.eng.Status())
}

func TestEngine_SetClampsToRepresentation(t *testing.T) {
	h := newHarness(t, nil, nil, engine.WithSelection(cell.UInt8))

	h.eng.SetValue(num.MustParse("300"))
	assert.Equal(t, "255", h.value())

	h.eng.SetValue(num.MustParse("-4"))
	assert.Equal(t, "0", h.value())

	h.eng.SetValue(num.MustParse("2.5"))
	assert.Equal(t, "3", h.value(), "ties round away from zero")
}

func TestEngine_FormatsByKind(t *testing.T) {
	h := newHarness(t, nil, nil)

	require.True(t, h.eng.Select(int(cell.UInt64)))
	h.eng.SetValue(num.MustParse("1000"))
	assert.Equal(t, "1000", h.value())

	require.True(t, h.eng.Select(int(cell.Double)))
	h.eng.SetValue(num.MustParse("-5"))
	assert.Equal(t, "-5.000000", h.value())
}

func TestEngine_SelectionNeverTouchesCells(t *testing.T) {
	h := newHarness(t, nil, nil)

	h.eng.SetValue(num.MustParse("1234"))
	before := make([]uint64, cell.Count)
	for _, r := range cell.All() {
		before[r] = h.eng.Cells().Bits(r)
	}

	require.True(t, h.eng.Select(int(cell.Int8)))
	require.True(t, h.eng.Select(int(cell.Int32)))

	for _, r := range cell.All() {
		assert.Equal(t, before[r], h.eng.Cells().Bits(r), "cell %s changed", r)
	}
	assert.Equal(t, "1234", h.value())
	assert.Equal(t, engine.StatusTypeSwitched, h.eng.Status())
}

func TestEngine_SelectIgnoresBadIndex(t *testing.T) {
	h := newHarness(t, nil, nil)

	assert.False(t, h.eng.Select(13))
	assert.False(t, h.eng.Select(-1))
	assert.Equal(t, cell.Int32, h.eng.Selected())
	assert.Equal(t, engine.StatusReady, h.eng.Status())
}

func TestEngine_RandomizeOnce_IntegralDraw(t *testing.T) {
	// Magnitude draw 41 over [1,100] is 42, sign draw 1 is positive.
	h := newHarness(t, []int64{41, 1}, nil)

	h.eng.RandomizeOnce()

	assert.Equal(t, "1042", h.value())
	assert.Equal(t, []int64{100, 2}, h.src.Bounds())
	assert.Equal(t, engine.StatusRandomized, h.eng.Status())
}

func TestEngine_RandomizeOnce_RealDraw(t *testing.T) {
	h := newHarness(t, []int64{0}, []float64{0.5}, engine.WithSelection(cell.Double))

	h.eng.RandomizeOnce()

	// 1 + 0.5*(100-1) = 50.5, negative.
	assert.Equal(t, "949.500000", h.value())
}

func TestEngine_Burst_SumsScriptedDeltas(t *testing.T) {
	// (+10) + (-20) + (+5) over the default [1,100] range.
	h := newHarness(t, []int64{9, 1, 19, 0, 4, 1}, nil)

	h.eng.Burst(3)

	assert.Equal(t, "995", h.value())
	assert.Equal(t, int64(3), h.eng.Seq(), "exactly three stores")
	assert.Equal(t, engine.StatusBurstDone, h.eng.Status())
}

func TestEngine_Burst_ZeroDoesNothing(t *testing.T) {
	h := newHarness(t, []int64{9, 1}, nil)

	h.eng.Burst(0)

	assert.Equal(t, "1000", h.value())
	assert.Equal(t, int64(0), h.eng.Seq())
}

func TestEngine_Auto_RunsToIdle(t *testing.T) {
	h := newHarness(t, []int64{0, 1}, nil)

	h.eng.StartAuto(3)
	require.Equal(t, 1, h.tickers.Len())
	ticker := h.tickers.Last()
	assert.Equal(t, 500*time.Millisecond, ticker.Period)
	assert.Equal(t, "Running(3)", h.eng.Auto().String())

	h.eng.AutoTick()
	assert.Equal(t, "Running(2)", h.eng.Auto().String())
	h.eng.AutoTick()
	assert.Equal(t, "Running(1)", h.eng.Auto().String())
	h.eng.AutoTick()
	assert.Equal(t, "Idle", h.eng.Auto().String())

	assert.Equal(t, int64(3), h.eng.Seq(), "cell mutated exactly three times")
	assert.Equal(t, "1003", h.value())
	assert.True(t, ticker.Stopped())
	assert.Equal(t, engine.StatusAutoFinished, h.eng.Status())

	h.eng.AutoTick()
	assert.Equal(t, int64(3), h.eng.Seq(), "tick after finishing is ignored")
}

func TestEngine_Auto_StopAfterOneTick(t *testing.T) {
	h := newHarness(t, []int64{0, 1}, nil)

	h.eng.StartAuto(3)
	h.eng.AutoTick()
	h.eng.StopAuto()

	assert.Equal(t, "Idle", h.eng.Auto().String())
	assert.Equal(t, int64(1), h.eng.Seq())
	assert.Equal(t, "1001", h.value())
	assert.True(t, h.tickers.Last().Stopped())
	assert.Equal(t, engine.StatusAutoStopped, h.eng.Status())

	h.eng.AutoTick()
	assert.Equal(t, int64(1), h.eng.Seq(), "stale tick after stop is ignored")
}

func TestEngine_Auto_RestartRearms(t *testing.T) {
	h := newHarness(t, []int64{0, 1}, nil)

	h.eng.StartAuto(5)
	first := h.tickers.Last()
	h.eng.StartAuto(2)

	assert.True(t, first.Stopped())
	assert.Equal(t, 2, h.tickers.Len())
	assert.Equal(t, 2, h.eng.Auto().Remaining())
}

func TestEngine_Auto_FollowsSelection(t *testing.T) {
	h := newHarness(t, []int64{0, 1}, nil)

	h.eng.StartAuto(2)
	h.eng.AutoTick()
	require.True(t, h.eng.Select(int(cell.Int16)))
	h.eng.AutoTick()

	assert.Equal(t, "1001", h.eng.Cells().Read(cell.Int32).String())
	assert.Equal(t, "1001", h.value())
}

func TestEngine_Dispatch_RejectsBadConfig(t *testing.T) {
	h := newHarness(t, nil, nil)
	active := h.eng.Config()

	err := h.eng.Dispatch(cmd(engine.CmdSet, func(f *engine.Fields) {
		f.Min, f.Max, f.Interval, f.Input = "5", "1", "500", "7"
	}))
	require.Error(t, err)
	assert.True(t, engine.IsConfigError(err))
	assert.ErrorIs(t, err, engine.ErrMinAboveMax)
	assert.Equal(t, active, h.eng.Config(), "previous config kept")
	assert.Equal(t, "1000", h.value(), "command aborted")
	assert.Equal(t, engine.MsgConfigInvalid, h.eng.Status())

	err = h.eng.Dispatch(cmd(engine.CmdRandomizeOnce, func(f *engine.Fields) {
		f.Min, f.Max, f.Interval = "1", "100", "0"
	}))
	assert.ErrorIs(t, err, engine.ErrIntervalTooSmall)
	assert.Equal(t, int64(0), h.eng.Seq())
}

func TestEngine_Dispatch_ReplacesConfig(t *testing.T) {
	h := newHarness(t, nil, nil)

	err := h.eng.Dispatch(cmd(engine.CmdStartAuto, func(f *engine.Fields) {
		f.Min, f.Max, f.Interval, f.Count = "2", "3", "250", "4"
	}))
	require.NoError(t, err)

	cfg := h.eng.Config()
	assert.Equal(t, "2", cfg.MinMagnitude.String())
	assert.Equal(t, "3", cfg.MaxMagnitude.String())
	assert.Equal(t, 250*time.Millisecond, h.tickers.Last().Period)
	assert.Equal(t, 4, h.eng.Auto().Remaining())
	assert.Equal(t, 4, h.sink.Last().AutoRemaining)
}

func TestEngine_Dispatch_InputParseFailure(t *testing.T) {
	h := newHarness(t, nil, nil)

	err := h.eng.Dispatch(cmd(engine.CmdAdd, func(f *engine.Fields) { f.Input = "abc" }))

	assert.True(t, engine.IsParseError(err))
	assert.Equal(t, engine.MsgInputParseFailed, h.eng.Status())
	assert.Equal(t, "1000", h.value())
}

func TestEngine_Dispatch_CountInvalid(t *testing.T) {
	h := newHarness(t, []int64{0, 1}, nil)

	for _, count := range []string{"", "0", "-3", "2147483648"} {
		err := h.eng.Dispatch(cmd(engine.CmdBurst, func(f *engine.Fields) { f.Count = count }))
		assert.True(t, engine.IsCountError(err), "count %q", count)

		err = h.eng.Dispatch(cmd(engine.CmdStartAuto, func(f *engine.Fields) { f.Count = count }))
		assert.True(t, engine.IsCountError(err), "count %q", count)
	}
	assert.Equal(t, int64(0), h.eng.Seq())
	assert.False(t, h.eng.Auto().Running())
	assert.Equal(t, 0, h.tickers.Len())
}

func TestEngine_Dispatch_StopAndCopySkipConfig(t *testing.T) {
	h := newHarness(t, nil, nil)
	bad := func(f *engine.Fields) { f.Min, f.Max = "9", "1" }

	require.NoError(t, h.eng.Dispatch(cmd(engine.CmdStopAuto, bad)))
	assert.Equal(t, engine.StatusAutoStopped, h.eng.Status())

	require.NoError(t, h.eng.Dispatch(cmd(engine.CmdCopyAddress, bad)))
	assert.Equal(t, engine.StatusAddressCopied, h.eng.Status())
	assert.Equal(t, h.eng.Panel().Address, h.clip.Text())
}

func TestEngine_Dispatch_ClipboardFailure(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.clip.Err = clipboard.ErrUnavailable

	err := h.eng.Dispatch(cmd(engine.CmdCopyAddress, nil))

	assert.True(t, engine.IsClipboardError(err))
	assert.ErrorIs(t, err, clipboard.ErrUnavailable)
	assert.Equal(t, engine.MsgCopyFailed, h.eng.Status())
	assert.Equal(t, int64(0), h.eng.Seq())
}

func TestEngine_Dispatch_RefreshesEveryTime(t *testing.T) {
	h := newHarness(t, nil, nil)

	_ = h.eng.Dispatch(cmd(engine.CmdSet, func(f *engine.Fields) { f.Input = "77" }))
	_ = h.eng.Dispatch(cmd(engine.CmdSet, func(f *engine.Fields) { f.Input = "" }))

	panels := h.sink.Panels()
	require.Len(t, panels, 2)
	assert.Equal(t, "77", panels[0].Value)
	assert.Equal(t, engine.StatusValueUpdated, panels[0].Status)
	assert.Equal(t, engine.MsgInputParseFailed, panels[1].Status)
}

func TestEngine_RefreshSeesOutsideWrites(t *testing.T) {
	h := newHarness(t, nil, nil)

	// Another writer stores straight into the cell.
	h.eng.Cells().Write(cell.Int32, num.MustParse("-31337"))

	p := h.eng.RefreshTick()
	assert.Equal(t, "-31337", p.Value)
	assert.Equal(t, int64(0), h.eng.Seq(), "outside writes are not engine mutations")
}

type memJournal struct {
	records []journal.Mutation
	full    bool
}

func (j *memJournal) Record(m journal.Mutation) bool {
	if j.full {
		return false
	}
	j.records = append(j.records, m)
	return true
}

func TestEngine_JournalsEveryStore(t *testing.T) {
	j := &memJournal{}
	h := newHarness(t, []int64{9, 0}, nil,
		engine.WithJournal(j),
		engine.WithSession("session-1"),
		engine.WithSelection(cell.Int16))

	h.eng.SetValue(num.MustParse("40000"))
	h.eng.SubtractValue(num.MustParse("7"))
	h.eng.RandomizeOnce()

	require.Len(t, j.records, 3)
	addr := display.FormatAddress(h.eng.Cells().AddressOf(cell.Int16))

	assert.Equal(t, journal.Mutation{
		Session: "session-1", Seq: 1, Source: journal.SourceSet,
		Representation: "int16_t", Address: addr,
		Before: "1000", After: "32767",
	}, j.records[0])
	assert.Equal(t, journal.SourceSubtract, j.records[1].Source)
	assert.Equal(t, "-7", j.records[1].Delta)
	assert.Equal(t, "32760", j.records[1].After)
	assert.Equal(t, journal.SourceRandom, j.records[2].Source)
	assert.Equal(t, "-10", j.records[2].Delta)
	assert.Equal(t, "32750", j.records[2].After)
}

func TestEngine_JournalDropDoesNotBlock(t *testing.T) {
	j := &memJournal{full: true}
	h := newHarness(t, nil, nil, engine.WithJournal(j))

	h.eng.SetValue(num.MustParse("1"))

	assert.Equal(t, "1", h.value())
	assert.Empty(t, j.records)
}

func TestEngine_WithConfig_IgnoresInvalid(t *testing.T) {
	h := newHarness(t, nil, nil, engine.WithConfig(engine.Config{}))
	assert.NoError(t, h.eng.Config().Validate())
}

func TestEngine_Run_ProcessesCommandsAndTicks(t *testing.T) {
	h := newHarness(t, []int64{0, 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.eng.Run(ctx) }()

	err := h.eng.Submit(ctx, cmd(engine.CmdSet, func(f *engine.Fields) { f.Input = "5" }))
	require.NoError(t, err)
	assert.Equal(t, "5", h.eng.Snapshot().Value)

	// Refresh ticker was created first, the auto ticker second.
	err = h.eng.Submit(ctx, cmd(engine.CmdStartAuto, func(f *engine.Fields) { f.Count = "2" }))
	require.NoError(t, err)
	require.Equal(t, 2, h.tickers.Len())
	assert.Equal(t, engine.DefaultRefreshPeriod, h.tickers.At(0).Period)

	auto := h.tickers.At(1)
	require.True(t, auto.Fire())
	require.Eventually(t, func() bool {
		return h.eng.Snapshot().AutoRemaining == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, "6", h.eng.Snapshot().Value)

	h.eng.Cells().Write(cell.Int32, num.MustParse("99"))
	require.Eventually(t, func() bool {
		h.tickers.At(0).Fire()
		return h.eng.Snapshot().Value == "99"
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
	assert.True(t, h.tickers.At(0).Stopped())
	assert.True(t, auto.Stopped())
	assert.False(t, h.eng.SubmitSelection(1), "queue closed after Run")
}

func TestEngine_Run_StopDrainsQueue(t *testing.T) {
	h := newHarness(t, nil, nil)

	h.eng.SubmitSelection(int(cell.Float))
	h.eng.RequestRefresh()
	h.eng.Stop()

	err := h.eng.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cell.Float, h.eng.Selected())
	assert.Equal(t, "1000.000000", h.eng.Snapshot().Value)

	err = h.eng.Submit(context.Background(), cmd(engine.CmdRandomizeOnce, nil))
	assert.True(t, errors.Is(err, engine.ErrStopped))
}
