package testutil

import (
	"sync"

	"github.com/roach88/memtrans/internal/display"
)

// RecordingSink keeps every published panel.
type RecordingSink struct {
	mu     sync.Mutex
	panels []display.Panel
}

var _ display.Sink = (*RecordingSink)(nil)

// Publish implements display.Sink.
func (s *RecordingSink) Publish(p display.Panel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels = append(s.panels, p)
}

// Panels returns a copy of everything published.
func (s *RecordingSink) Panels() []display.Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]display.Panel(nil), s.panels...)
}

// Len returns the number of panels published.
func (s *RecordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.panels)
}

// Last returns the most recent panel, or the zero Panel.
func (s *RecordingSink) Last() display.Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.panels) == 0 {
		return display.Panel{}
	}
	return s.panels[len(s.panels)-1]
}

// Reset forgets everything published.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels = nil
}
