package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/memtrans/internal/display"
	"github.com/roach88/memtrans/internal/engine"
)

type fakeEngine struct {
	commands   []engine.Command
	selections []int
	refreshes  int
	err        error
}

func (f *fakeEngine) Submit(_ context.Context, cmd engine.Command) error {
	f.commands = append(f.commands, cmd)
	return f.err
}

func (f *fakeEngine) SubmitSelection(index int) bool {
	f.selections = append(f.selections, index)
	return true
}

func (f *fakeEngine) RequestRefresh() bool {
	f.refreshes++
	return true
}

func newConsole(input string) (*Console, *fakeEngine, *bytes.Buffer) {
	var out bytes.Buffer
	eng := &fakeEngine{}
	c := New(eng, strings.NewReader(input), NewPlainRenderer(&out), engine.DefaultFields(), nil)
	return c, eng, &out
}

func TestConsole_ArgumentUpdatesFieldBeforeSending(t *testing.T) {
	c, eng, _ := newConsole("")
	ctx := context.Background()

	_, err := c.Handle(ctx, "set 42")
	require.NoError(t, err)
	_, err = c.Handle(ctx, "add")
	require.NoError(t, err)

	require.Len(t, eng.commands, 2)
	assert.Equal(t, "42", eng.commands[0].Fields.Input)
	assert.Equal(t, engine.CmdAdd, eng.commands[1].Kind)
	assert.Equal(t, "42", eng.commands[1].Fields.Input, "field text persists")
}

func TestConsole_FieldEditsTravelWithCommands(t *testing.T) {
	c, eng, _ := newConsole("")
	ctx := context.Background()

	for _, line := range []string{"min 5", "max 6", "interval 20", "burst 3"} {
		_, err := c.Handle(ctx, line)
		require.NoError(t, err)
	}

	require.Len(t, eng.commands, 1)
	assert.Equal(t, engine.Fields{Input: "100", Min: "5", Max: "6", Interval: "20", Count: "3"}, eng.commands[0].Fields)
	assert.Equal(t, eng.commands[0].Fields, c.Fields())
}

func TestConsole_SelectShowFields(t *testing.T) {
	c, eng, out := newConsole("")
	ctx := context.Background()

	_, _ = c.Handle(ctx, "type u16")
	_, _ = c.Handle(ctx, "show")
	_, _ = c.Handle(ctx, "fields")

	assert.Equal(t, []int{6}, eng.selections)
	assert.Equal(t, 1, eng.refreshes)
	assert.Contains(t, out.String(), "input=100 min=1 max=100 interval=500 count=10")
}

func TestConsole_ReportsErrors(t *testing.T) {
	c, eng, out := newConsole("")
	eng.err = &engine.CommandError{Code: engine.ErrCodeCountInvalid, Message: engine.MsgCountInvalid}

	_, err := c.Handle(context.Background(), "burst 0")
	assert.True(t, engine.IsCountError(err))
	assert.Contains(t, out.String(), "! COUNT_INVALID: count invalid")

	_, err = c.Handle(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrUnknownVerb)
}

func TestConsole_RunStopsOnQuitAndEOF(t *testing.T) {
	c, eng, _ := newConsole("rand\nquit\nrand\n")
	require.NoError(t, c.Run(context.Background()))
	assert.Len(t, eng.commands, 1, "lines after quit are not read")

	c, eng, _ = newConsole("rand\nstop")
	require.NoError(t, c.Run(context.Background()))
	assert.Len(t, eng.commands, 2)
}

func TestConsole_RunEndsWhenEngineStops(t *testing.T) {
	c, eng, _ := newConsole("rand\nrand\n")
	eng.err = engine.ErrStopped

	require.NoError(t, c.Run(context.Background()))
	assert.Len(t, eng.commands, 1)
}

func TestConsole_RunHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	c := New(&fakeEngine{}, blockingReader{}, NewPlainRenderer(&out), engine.DefaultFields(), nil)
	assert.True(t, errors.Is(c.Run(ctx), context.Canceled))
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestRenderer_PlainPrintsOnlyChanges(t *testing.T) {
	var out bytes.Buffer
	r := NewPlainRenderer(&out)

	p := display.Panel{Type: "int32_t", Value: "1000", Address: "0x10", PID: 1, Status: "ready"}
	r.Publish(p)
	r.Publish(p)
	p.Value = "7"
	r.Publish(p)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[int32_t] 1000 @ 0x10  pid 1  | ready", lines[0])
	assert.Equal(t, "[int32_t] 7 @ 0x10  pid 1  | ready", lines[1])
	assert.Equal(t, lines[1], r.Last())
}

func TestRenderer_NonFileIsNotTerminal(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out)
	r.Publish(display.Panel{Value: "1"})
	assert.NotContains(t, out.String(), "\r")
}
