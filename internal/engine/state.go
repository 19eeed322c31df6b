package engine

import "fmt"

// AutoState is the auto-mutation countdown. Zero remaining means Idle.
type AutoState struct {
	remaining int
}

// Remaining is the number of paced mutations still to apply.
func (s AutoState) Remaining() int { return s.remaining }

// Running reports whether paced mutations are pending.
func (s AutoState) Running() bool { return s.remaining > 0 }

// Start enters Running(n). n must be >= 1.
func (s *AutoState) Start(n int) { s.remaining = n }

// Stop forces Idle regardless of the current count.
func (s *AutoState) Stop() { s.remaining = 0 }

// Tick consumes one pending mutation and returns what is left.
func (s *AutoState) Tick() int {
	if s.remaining > 0 {
		s.remaining--
	}
	return s.remaining
}

func (s AutoState) String() string {
	if !s.Running() {
		return "Idle"
	}
	return fmt.Sprintf("Running(%d)", s.remaining)
}
