package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/engine"
)

// RequestKind is what a console line asks for.
type RequestKind int

const (
	ReqEmpty RequestKind = iota
	ReqCommand
	ReqSelect
	ReqSetField
	ReqFields
	ReqShow
	ReqHelp
	ReqQuit
)

// Request is one parsed console line.
type Request struct {
	Kind    RequestKind
	Command engine.CommandKind
	Index   int
	Field   engine.Field
	Arg     string
	HasArg  bool
}

// ErrUnknownVerb is returned for lines that start with no known command.
var ErrUnknownVerb = errors.New("unknown command")

// commandVerbs maps verbs to engine commands and the field their optional
// argument updates.
var commandVerbs = map[string]struct {
	kind  engine.CommandKind
	field engine.Field
}{
	"set":       {engine.CmdSet, engine.FieldInput},
	"add":       {engine.CmdAdd, engine.FieldInput},
	"sub":       {engine.CmdSubtract, engine.FieldInput},
	"subtract":  {engine.CmdSubtract, engine.FieldInput},
	"rand":      {engine.CmdRandomizeOnce, ""},
	"randomize": {engine.CmdRandomizeOnce, ""},
	"burst":     {engine.CmdBurst, engine.FieldCount},
	"auto":      {engine.CmdStartAuto, engine.FieldCount},
	"stop":      {engine.CmdStopAuto, ""},
	"copy":      {engine.CmdCopyAddress, ""},
}

// ParseLine parses one console line. Verbs are case-insensitive; the
// argument is the rest of the line, trimmed.
func ParseLine(line string) (Request, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Request{Kind: ReqEmpty}, nil
	}

	verb, arg, _ := strings.Cut(line, " ")
	verb = strings.ToLower(verb)
	arg = strings.TrimSpace(arg)
	hasArg := arg != ""

	if c, ok := commandVerbs[verb]; ok {
		if hasArg && c.field == "" {
			return Request{}, fmt.Errorf("%s takes no argument", verb)
		}
		return Request{Kind: ReqCommand, Command: c.kind, Field: c.field, Arg: arg, HasArg: hasArg}, nil
	}

	switch verb {
	case "type", "t":
		if !hasArg {
			return Request{}, fmt.Errorf("usage: type <name|index>")
		}
		r, err := cell.Parse(arg)
		if err != nil {
			return Request{}, err
		}
		return Request{Kind: ReqSelect, Index: int(r), Arg: arg, HasArg: true}, nil
	case "min", "max", "interval", "count", "input":
		if !hasArg {
			return Request{}, fmt.Errorf("usage: %s <text>", verb)
		}
		return Request{Kind: ReqSetField, Field: engine.Field(verb), Arg: arg, HasArg: true}, nil
	case "fields":
		return Request{Kind: ReqFields}, nil
	case "show":
		return Request{Kind: ReqShow}, nil
	case "help", "?":
		return Request{Kind: ReqHelp}, nil
	case "quit", "exit", "q":
		return Request{Kind: ReqQuit}, nil
	}
	return Request{}, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
}

const helpText = `commands:
  type <name|index>       select a representation (see "memtrans types")
  set|add|sub [value]     store, add or subtract the input value
  rand                    apply one random delta
  burst [count]           apply count random deltas now
  auto [count]            apply count random deltas, one per interval
  stop                    stop auto mutation
  copy                    copy the cell address to the clipboard
  min|max|interval|count|input <text>
                          edit a field
  fields                  print the fields
  show                    refresh the panel
  help                    this text
  quit                    exit
`
