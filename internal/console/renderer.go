package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/roach88/memtrans/internal/display"
)

// Renderer is the console display.Sink. Every write to the console goes
// through it so panel repaints and messages never interleave.
//
// On a terminal the panel is one line repainted in place. Elsewhere a line
// is printed only when the panel text changes.
type Renderer struct {
	mu    sync.Mutex
	out   io.Writer
	tty   bool
	width int
	last  string
	open  bool // a panel line is on screen without a newline
}

var _ display.Sink = (*Renderer)(nil)

// NewRenderer renders to out, detecting a terminal when out is a file.
func NewRenderer(out io.Writer) *Renderer {
	r := &Renderer{out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			r.width = w
		}
	}
	return r
}

// NewPlainRenderer never repaints in place.
func NewPlainRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Publish implements display.Sink.
func (r *Renderer) Publish(p display.Panel) {
	text := p.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if text == r.last {
		return
	}
	r.last = text

	if !r.tty {
		fmt.Fprintln(r.out, text)
		return
	}
	if r.width > 1 && len(text) >= r.width {
		text = text[:r.width-1]
	}
	fmt.Fprintf(r.out, "\r\x1b[2K%s", text)
	r.open = true
}

// Printf writes a message on its own line.
func (r *Renderer) Printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open {
		fmt.Fprintln(r.out)
		r.open = false
		r.last = ""
	}
	fmt.Fprintf(r.out, format, args...)
}

// Last is the most recently rendered panel text.
func (r *Renderer) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
