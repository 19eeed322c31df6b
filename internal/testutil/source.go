package testutil

import "sync"

// ScriptedSource replays fixed random draws. Int64N and Float64 read from
// independent lists and wrap around when a list runs out. An empty list
// yields 0.
//
// Int64N reduces the scripted value modulo n so a draw is always in
// [0, n), the contract of math/rand/v2.
type ScriptedSource struct {
	mu     sync.Mutex
	ints   []int64
	floats []float64
	ii, fi int
	nArgs  []int64
}

// NewScriptedSource creates a source replaying ints and floats.
func NewScriptedSource(ints []int64, floats []float64) *ScriptedSource {
	return &ScriptedSource{ints: ints, floats: floats}
}

// Int64N returns the next scripted int, reduced into [0, n).
func (s *ScriptedSource) Int64N(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nArgs = append(s.nArgs, n)
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Float64 returns the next scripted float, clamped into [0, 1).
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	switch {
	case v < 0:
		return 0
	case v >= 1:
		return 0.9999999999999999
	}
	return v
}

// Bounds returns every n passed to Int64N so far.
func (s *ScriptedSource) Bounds() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.nArgs...)
}

// Draws returns how many ints and floats have been consumed.
func (s *ScriptedSource) Draws() (ints, floats int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ii, s.fi
}
