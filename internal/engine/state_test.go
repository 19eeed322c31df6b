package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoState_CountsDownToIdle(t *testing.T) {
	var s AutoState
	assert.False(t, s.Running())
	assert.Equal(t, "Idle", s.String())

	s.Start(3)
	assert.Equal(t, "Running(3)", s.String())
	assert.Equal(t, 2, s.Tick())
	assert.Equal(t, "Running(2)", s.String())
	assert.Equal(t, 1, s.Tick())
	assert.Equal(t, 0, s.Tick())
	assert.Equal(t, "Idle", s.String())

	assert.Equal(t, 0, s.Tick(), "tick while idle stays idle")
}

func TestAutoState_StopForcesIdle(t *testing.T) {
	var s AutoState
	s.Start(10)
	s.Tick()
	s.Stop()

	assert.False(t, s.Running())
	assert.Equal(t, 0, s.Remaining())
}
