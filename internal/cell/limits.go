package cell

import (
	"math"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/memtrans/internal/num"
)

// Range is the closed interval a cell's values are clamped into.
// The decimals are shared; callers must not modify them.
type Range struct {
	Min *apd.Decimal
	Max *apd.Decimal
}

var limits [Count]Range

func init() {
	signed := func(lo, hi int64) Range { return Range{num.FromInt64(lo), num.FromInt64(hi)} }
	unsigned := func(hi uint64) Range { return Range{num.Zero(), num.FromUint64(hi)} }
	// Reals clamp to the finite magnitude on both sides, not to the
	// type's lowest value.
	finite := func(hi float64) Range { return Range{num.FromFloat64(-hi), num.FromFloat64(hi)} }

	limits = [Count]Range{
		Char:         signed(math.MinInt8, math.MaxInt8),
		SignedChar:   signed(math.MinInt8, math.MaxInt8),
		UnsignedChar: unsigned(math.MaxUint8),
		Int8:         signed(math.MinInt8, math.MaxInt8),
		UInt8:        unsigned(math.MaxUint8),
		Int16:        signed(math.MinInt16, math.MaxInt16),
		UInt16:       unsigned(math.MaxUint16),
		Int32:        signed(math.MinInt32, math.MaxInt32),
		UInt32:       unsigned(math.MaxUint32),
		Int64:        signed(math.MinInt64, math.MaxInt64),
		UInt64:       unsigned(math.MaxUint64),
		Float:        finite(math.MaxFloat32),
		Double:       finite(math.MaxFloat64),
	}
}

// Limits returns the legal range of r.
func Limits(r Representation) Range {
	return limits[r]
}

// DefaultValue is the value a cell holds at process start.
func DefaultValue(r Representation) *apd.Decimal {
	switch r {
	case Char, SignedChar, UnsignedChar:
		return num.FromInt64(65)
	case Int8, UInt8:
		return num.FromInt64(100)
	}
	return num.FromInt64(1000)
}
