package harness

import (
	"fmt"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/display"
)

// ExpectNone in an expect block asserts that the command succeeded.
const ExpectNone = "none"

// AssertionError is a failed check on one traced value.
type AssertionError struct {
	Field    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %q, got %q", e.Field, e.Expected, e.Actual)
}

// checkExpect compares a step's trace event against its expect block.
func checkExpect(exp *Expect, e TraceEvent) []string {
	if exp == nil {
		return nil
	}

	var errs []string
	check := func(field, want, got string) {
		if want != got {
			errs = append(errs, (&AssertionError{Field: field, Expected: want, Actual: got}).Error())
		}
	}

	if exp.Type != nil {
		check("type", *exp.Type, e.Type)
	}
	if exp.Value != nil {
		check("value", *exp.Value, e.Value)
	}
	if exp.Status != nil {
		check("status", *exp.Status, e.Status)
	}
	if exp.AutoRemaining != nil {
		check("auto_remaining", fmt.Sprint(*exp.AutoRemaining), fmt.Sprint(e.AutoRemaining))
	}
	switch exp.Error {
	case "":
	case ExpectNone:
		check("error", "", e.Error)
	default:
		check("error", exp.Error, e.Error)
	}
	return errs
}

// checkFinal compares cell contents at the end of a scenario.
func checkFinal(final map[string]string, cells *cell.Store) []string {
	var errs []string
	for _, r := range cell.All() {
		for name, want := range final {
			got, err := cell.Parse(name)
			if err != nil || got != r {
				continue
			}
			actual := display.FormatValue(r, cells.Read(r))
			if actual != want {
				errs = append(errs, (&AssertionError{Field: r.String(), Expected: want, Actual: actual}).Error())
			}
		}
	}
	return errs
}
