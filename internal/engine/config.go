package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/memtrans/internal/delta"
	"github.com/roach88/memtrans/internal/num"
)

// Limits on user-supplied counts and intervals. Both match the range of a
// signed 32-bit timer argument.
const (
	MaxCount      = 1<<31 - 1
	MaxIntervalMs = 1<<31 - 1
)

// Config validation errors.
var (
	ErrNegativeMagnitude  = errors.New("magnitudes must be >= 0")
	ErrNonFiniteMagnitude = errors.New("magnitudes must be finite")
	ErrMinAboveMax        = errors.New("min magnitude exceeds max magnitude")
	ErrIntervalTooSmall   = errors.New("interval must be >= 1ms")
	ErrIntervalTooLarge   = errors.New("interval exceeds maximum")
	ErrCountTooSmall      = errors.New("count must be >= 1")
	ErrCountTooLarge      = errors.New("count exceeds maximum")
)

// Config is the randomized-mutation configuration. It is replaced
// wholesale when a new one validates and left alone otherwise.
type Config struct {
	MinMagnitude *apd.Decimal
	MaxMagnitude *apd.Decimal
	Interval     time.Duration
}

// DefaultConfig is min=1, max=100, interval=500ms.
func DefaultConfig() Config {
	return Config{
		MinMagnitude: num.FromInt64(1),
		MaxMagnitude: num.FromInt64(100),
		Interval:     500 * time.Millisecond,
	}
}

// Range is the magnitude range handed to the randomizer.
func (c Config) Range() delta.Range {
	return delta.Range{Min: c.MinMagnitude, Max: c.MaxMagnitude}
}

// IntervalMs is the auto-mutation period in milliseconds.
func (c Config) IntervalMs() int64 {
	return c.Interval.Milliseconds()
}

// Validate checks min >= 0, max >= 0, min <= max and interval >= 1ms.
func (c Config) Validate() error {
	if c.MinMagnitude == nil || c.MaxMagnitude == nil {
		return ErrNonFiniteMagnitude
	}
	if !num.IsFinite(c.MinMagnitude) || !num.IsFinite(c.MaxMagnitude) {
		return ErrNonFiniteMagnitude
	}
	if c.MinMagnitude.Sign() < 0 || c.MaxMagnitude.Sign() < 0 {
		return ErrNegativeMagnitude
	}
	if c.MinMagnitude.Cmp(c.MaxMagnitude) > 0 {
		return fmt.Errorf("%w: %s > %s", ErrMinAboveMax, c.MinMagnitude, c.MaxMagnitude)
	}
	if c.Interval < time.Millisecond {
		return ErrIntervalTooSmall
	}
	if c.IntervalMs() > MaxIntervalMs {
		return ErrIntervalTooLarge
	}
	return nil
}

// ParseConfig builds a Config from the Min, Max and Interval field text.
// The interval is checked against 1 before its fraction is dropped, so
// "0.5" is rejected and "1.9" means 1ms.
func ParseConfig(f Fields) (Config, error) {
	lo, err := num.Parse(f.Min)
	if err != nil {
		return Config{}, newParseError(FieldMin, MsgConfigParseFailed, err)
	}
	hi, err := num.Parse(f.Max)
	if err != nil {
		return Config{}, newParseError(FieldMax, MsgConfigParseFailed, err)
	}
	interval, err := num.Parse(f.Interval)
	if err != nil {
		return Config{}, newParseError(FieldInterval, MsgConfigParseFailed, err)
	}

	if interval.Cmp(num.FromInt64(1)) < 0 {
		return Config{}, newConfigError(FieldInterval, ErrIntervalTooSmall)
	}
	if interval.Cmp(num.FromInt64(MaxIntervalMs)) > 0 {
		return Config{}, newConfigError(FieldInterval, ErrIntervalTooLarge)
	}

	cfg := Config{
		MinMagnitude: lo,
		MaxMagnitude: hi,
		Interval:     time.Duration(num.ToInt64(interval)) * time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, newConfigError(configField(err), err)
	}
	return cfg, nil
}

func configField(err error) Field {
	switch {
	case errors.Is(err, ErrMinAboveMax):
		return FieldMin
	case errors.Is(err, ErrIntervalTooSmall), errors.Is(err, ErrIntervalTooLarge):
		return FieldInterval
	}
	return ""
}

// ParseCount reads a burst or auto count: a number >= 1, fraction dropped.
func ParseCount(text string) (int, error) {
	n, err := num.Parse(text)
	if err != nil {
		return 0, newCountError(err)
	}
	if n.Cmp(num.FromInt64(1)) < 0 {
		return 0, newCountError(ErrCountTooSmall)
	}
	if n.Cmp(num.FromInt64(MaxCount)) > 0 {
		return 0, newCountError(ErrCountTooLarge)
	}
	return int(num.ToInt64(n)), nil
}
