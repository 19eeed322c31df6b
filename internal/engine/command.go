package engine

import (
	"fmt"
	"strings"
)

// CommandKind names a UI command.
type CommandKind int

const (
	CmdSet CommandKind = iota + 1
	CmdAdd
	CmdSubtract
	CmdRandomizeOnce
	CmdBurst
	CmdStartAuto
	CmdStopAuto
	CmdCopyAddress
)

var commandNames = map[CommandKind]string{
	CmdSet:           "set",
	CmdAdd:           "add",
	CmdSubtract:      "subtract",
	CmdRandomizeOnce: "randomize",
	CmdBurst:         "burst",
	CmdStartAuto:     "start_auto",
	CmdStopAuto:      "stop_auto",
	CmdCopyAddress:   "copy_address",
}

func (k CommandKind) String() string {
	if s, ok := commandNames[k]; ok {
		return s
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// NeedsConfig reports whether the command re-validates the config fields
// before running.
func (k CommandKind) NeedsConfig() bool {
	return k != CmdStopAuto && k != CmdCopyAddress
}

// ParseCommandKind maps a command name (as written by String) back to its kind.
func ParseCommandKind(s string) (CommandKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range commandNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", s)
}

// Field names one of the UI text fields.
type Field string

const (
	FieldInput    Field = "input"
	FieldMin      Field = "min"
	FieldMax      Field = "max"
	FieldInterval Field = "interval"
	FieldCount    Field = "count"
)

// AllFields lists the fields in display order.
func AllFields() []Field {
	return []Field{FieldInput, FieldMin, FieldMax, FieldInterval, FieldCount}
}

// Fields is the raw text of the UI input fields at the moment a command was
// issued. Text is parsed by the engine, never by the UI.
type Fields struct {
	Input    string `yaml:"input" json:"input"`
	Min      string `yaml:"min" json:"min"`
	Max      string `yaml:"max" json:"max"`
	Interval string `yaml:"interval" json:"interval"`
	Count    string `yaml:"count" json:"count"`
}

// DefaultFields is the text the UI fields start with.
func DefaultFields() Fields {
	return Fields{Input: "100", Min: "1", Max: "100", Interval: "500", Count: "10"}
}

// Get returns the text of one field.
func (f Fields) Get(field Field) (string, error) {
	switch field {
	case FieldInput:
		return f.Input, nil
	case FieldMin:
		return f.Min, nil
	case FieldMax:
		return f.Max, nil
	case FieldInterval:
		return f.Interval, nil
	case FieldCount:
		return f.Count, nil
	}
	return "", fmt.Errorf("unknown field %q", field)
}

// Set replaces the text of one field.
func (f *Fields) Set(field Field, text string) error {
	switch field {
	case FieldInput:
		f.Input = text
	case FieldMin:
		f.Min = text
	case FieldMax:
		f.Max = text
	case FieldInterval:
		f.Interval = text
	case FieldCount:
		f.Count = text
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// Merge returns f with every non-empty field of o applied on top.
func (f Fields) Merge(o Fields) Fields {
	for _, field := range AllFields() {
		if v, _ := o.Get(field); v != "" {
			_ = f.Set(field, v)
		}
	}
	return f
}

// Command is one UI command with a snapshot of the fields.
type Command struct {
	Kind   CommandKind
	Fields Fields
}

// Selection picks the representation at Index (0..12).
type Selection struct {
	Index int
}

// Status lines set by successful operations.
const (
	StatusReady         = "ready"
	StatusTypeSwitched  = "type switched"
	StatusValueUpdated  = "value updated"
	StatusRandomized    = "randomized"
	StatusBurstDone     = "burst done"
	StatusAutoStarted   = "auto started"
	StatusAutoFinished  = "auto finished"
	StatusAutoStopped   = "auto stopped"
	StatusAddressCopied = "address copied"
)
