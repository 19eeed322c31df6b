package harness

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/engine"
	"github.com/roach88/memtrans/internal/num"
)

// Scenario is a scripted engine session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Type is the representation selected at start. Defaults to int32_t.
	Type string `yaml:"type,omitempty"`

	// Draws scripts the random source.
	Draws Draws `yaml:"draws,omitempty"`

	// Fields overrides the default field text at start.
	Fields engine.Fields `yaml:"fields,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Final maps representations to the value text their cells must hold
	// when the scenario ends.
	Final map[string]string `yaml:"final,omitempty"`
}

// Draws are the scripted random draws. Both lists wrap around.
type Draws struct {
	Ints   []int64   `yaml:"ints,omitempty"`
	Floats []float64 `yaml:"floats,omitempty"`
}

// Step is one scenario action. Exactly one of Command, Select, Tick and
// Write is set.
type Step struct {
	// Command is an engine command name: set, add, subtract, randomize,
	// burst, start_auto, stop_auto or copy_address.
	Command string `yaml:"command,omitempty"`

	// Fields edits the field text before Command runs. Edits persist into
	// later steps, like text typed into the UI.
	Fields engine.Fields `yaml:"fields,omitempty"`

	// Select is a representation name, alias or index. Out-of-range
	// indices reach the engine unchanged.
	Select string `yaml:"select,omitempty"`

	// Tick is "auto" or "refresh".
	Tick string `yaml:"tick,omitempty"`

	// Times repeats Tick. Defaults to 1.
	Times int `yaml:"times,omitempty"`

	// Write stores into a cell from outside the engine.
	Write *WriteStep `yaml:"write,omitempty"`

	// Expect checks the panel after the step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// WriteStep is an outside write into one cell.
type WriteStep struct {
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// Expect lists panel values a step must produce. Unset fields are not
// checked.
type Expect struct {
	Type          *string `yaml:"type,omitempty"`
	Value         *string `yaml:"value,omitempty"`
	Status        *string `yaml:"status,omitempty"`
	AutoRemaining *int    `yaml:"auto_remaining,omitempty"`

	// Error is the expected CommandError code, or "none" for success.
	Error string `yaml:"error,omitempty"`
}

// Tick kinds.
const (
	TickAuto    = "auto"
	TickRefresh = "refresh"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Type != "" {
		if _, err := cell.Parse(s.Type); err != nil {
			return fmt.Errorf("type: %w", err)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for name := range s.Final {
		if _, err := cell.Parse(name); err != nil {
			return fmt.Errorf("final: %w", err)
		}
	}

	return nil
}

func validateStep(i int, s *Step) error {
	set := 0
	for _, present := range []bool{s.Command != "", s.Select != "", s.Tick != "", s.Write != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of command, select, tick, write is required", i)
	}

	switch {
	case s.Command != "":
		if _, err := engine.ParseCommandKind(s.Command); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	case s.Select != "":
		if _, err := strconv.Atoi(s.Select); err != nil {
			if _, err := cell.Parse(s.Select); err != nil {
				return fmt.Errorf("steps[%d]: select: %w", i, err)
			}
		}
	case s.Tick != "":
		if s.Tick != TickAuto && s.Tick != TickRefresh {
			return fmt.Errorf("steps[%d]: tick must be %q or %q", i, TickAuto, TickRefresh)
		}
		if s.Times < 0 {
			return fmt.Errorf("steps[%d]: times must be >= 0", i)
		}
	case s.Write != nil:
		if _, err := cell.Parse(s.Write.Type); err != nil {
			return fmt.Errorf("steps[%d]: write: %w", i, err)
		}
		if _, err := num.Parse(s.Write.Value); err != nil {
			return fmt.Errorf("steps[%d]: write: %w", i, err)
		}
	}

	if s.Command == "" && s.Fields != (engine.Fields{}) {
		return fmt.Errorf("steps[%d]: fields only apply to commands", i)
	}
	return nil
}
