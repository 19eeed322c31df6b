package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/memtrans/internal/engine"
)

// Submitter is the part of the engine the console drives.
type Submitter interface {
	Submit(ctx context.Context, cmd engine.Command) error
	SubmitSelection(index int) bool
	RequestRefresh() bool
}

// Console is the line REPL. It owns the field text and sends a snapshot of
// it with every command.
type Console struct {
	eng    Submitter
	in     io.Reader
	r      *Renderer
	fields engine.Fields
	logger *slog.Logger
}

// New creates a console reading lines from in.
func New(eng Submitter, in io.Reader, r *Renderer, fields engine.Fields, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{eng: eng, in: in, r: r, fields: fields, logger: logger}
}

// Fields is the current field text.
func (c *Console) Fields() engine.Fields {
	return c.fields
}

// Run reads lines until quit, end of input, or ctx is cancelled. It
// returns nil for quit and end of input.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	c.r.Printf("memtrans: type \"help\" for commands\n")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			quit, err := c.Handle(ctx, line)
			if err != nil && errors.Is(err, engine.ErrStopped) {
				return nil
			}
			if quit {
				return nil
			}
		}
	}
}

// Handle runs one line. It reports whether the line asked to quit.
func (c *Console) Handle(ctx context.Context, line string) (bool, error) {
	req, err := ParseLine(line)
	if err != nil {
		c.r.Printf("! %v\n", err)
		return false, err
	}

	switch req.Kind {
	case ReqCommand:
		if req.HasArg {
			_ = c.fields.Set(req.Field, req.Arg)
		}
		err := c.eng.Submit(ctx, engine.Command{Kind: req.Command, Fields: c.fields})
		if err != nil {
			c.logger.Debug("command failed", "command", req.Command.String(), "error", err)
			c.r.Printf("! %v\n", err)
		}
		return false, err
	case ReqSelect:
		c.eng.SubmitSelection(req.Index)
	case ReqSetField:
		_ = c.fields.Set(req.Field, req.Arg)
	case ReqFields:
		c.r.Printf("%s\n", FormatFields(c.fields))
	case ReqShow:
		c.eng.RequestRefresh()
	case ReqHelp:
		c.r.Printf("%s", helpText)
	case ReqQuit:
		return true, nil
	}
	return false, nil
}

// FormatFields renders the fields as name=value pairs in display order.
func FormatFields(f engine.Fields) string {
	parts := make([]string, 0, len(engine.AllFields()))
	for _, field := range engine.AllFields() {
		v, _ := f.Get(field)
		parts = append(parts, string(field)+"="+v)
	}
	return strings.Join(parts, " ")
}
