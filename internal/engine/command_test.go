package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandKind_RoundTripsThroughName(t *testing.T) {
	for k := CmdSet; k <= CmdCopyAddress; k++ {
		got, err := ParseCommandKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseCommandKind("explode")
	assert.Error(t, err)
	assert.Equal(t, "CommandKind(99)", CommandKind(99).String())
}

func TestCommandKind_NeedsConfig(t *testing.T) {
	assert.False(t, CmdStopAuto.NeedsConfig())
	assert.False(t, CmdCopyAddress.NeedsConfig())
	assert.True(t, CmdSet.NeedsConfig())
	assert.True(t, CmdRandomizeOnce.NeedsConfig())
}

func TestFields_SetGetMerge(t *testing.T) {
	f := DefaultFields()
	require.NoError(t, f.Set(FieldCount, "3"))
	assert.Error(t, f.Set("colour", "red"))

	got, err := f.Get(FieldCount)
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	merged := f.Merge(Fields{Min: "5", Input: "-7"})
	assert.Equal(t, Fields{Input: "-7", Min: "5", Max: "100", Interval: "500", Count: "3"}, merged)
}
