// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable means no clipboard backend exists on this host
// (for example, no xclip, xsel or wl-copy on Linux).
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer stores text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// System is the host clipboard. On Windows the text is stored as
// CF_UNICODETEXT (UTF-16).
type System struct{}

// WriteText replaces the clipboard contents with text.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Memory is an in-process clipboard for tests and scripted runs.
// Set Err to make every write fail.
type Memory struct {
	mu   sync.Mutex
	text string
	Err  error
}

// WriteText stores text unless Err is set.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	return nil
}

// Text returns the last stored text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
