package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/engine"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Request
	}{
		{"", Request{Kind: ReqEmpty}},
		{"   ", Request{Kind: ReqEmpty}},
		{"set", Request{Kind: ReqCommand, Command: engine.CmdSet, Field: engine.FieldInput}},
		{"SET  -12.5 ", Request{Kind: ReqCommand, Command: engine.CmdSet, Field: engine.FieldInput, Arg: "-12.5", HasArg: true}},
		{"sub 3", Request{Kind: ReqCommand, Command: engine.CmdSubtract, Field: engine.FieldInput, Arg: "3", HasArg: true}},
		{"rand", Request{Kind: ReqCommand, Command: engine.CmdRandomizeOnce}},
		{"burst 5", Request{Kind: ReqCommand, Command: engine.CmdBurst, Field: engine.FieldCount, Arg: "5", HasArg: true}},
		{"auto", Request{Kind: ReqCommand, Command: engine.CmdStartAuto, Field: engine.FieldCount}},
		{"stop", Request{Kind: ReqCommand, Command: engine.CmdStopAuto}},
		{"copy", Request{Kind: ReqCommand, Command: engine.CmdCopyAddress}},
		{"type unsigned char", Request{Kind: ReqSelect, Index: int(cell.UnsignedChar), Arg: "unsigned char", HasArg: true}},
		{"type 12", Request{Kind: ReqSelect, Index: int(cell.Double), Arg: "12", HasArg: true}},
		{"max 250", Request{Kind: ReqSetField, Field: engine.FieldMax, Arg: "250", HasArg: true}},
		{"fields", Request{Kind: ReqFields}},
		{"show", Request{Kind: ReqShow}},
		{"help", Request{Kind: ReqHelp}},
		{"quit", Request{Kind: ReqQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_Errors(t *testing.T) {
	for _, line := range []string{"explode", "type", "type int128", "min", "rand 5", "stop now"} {
		_, err := ParseLine(line)
		assert.Error(t, err, line)
	}

	_, err := ParseLine("explode")
	assert.ErrorIs(t, err, ErrUnknownVerb)
}
