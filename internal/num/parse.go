package num

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/width"
)

// ErrUnparsable is returned for empty or non-numeric field text.
var ErrUnparsable = errors.New("unparsable number")

// Parse converts field text into a number.
//
// Surrounding space is ignored and full-width digits, signs and points are
// folded to ASCII first, so "－１２．５" parses like "-12.5". Decimal and
// exponent forms are accepted, as are "inf" and "-inf". NaN and trailing
// garbage are rejected.
func Parse(text string) (*apd.Decimal, error) {
	s := strings.TrimSpace(width.Narrow.String(text))
	if s == "" {
		return nil, ErrUnparsable
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnparsable, text)
	}
	if IsNaN(d) {
		return nil, fmt.Errorf("%w: %q is not a number", ErrUnparsable, text)
	}
	return d, nil
}

// MustParse is Parse for constants and tests; it panics on bad input.
func MustParse(text string) *apd.Decimal {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}
