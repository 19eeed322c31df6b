package cell

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/memtrans/internal/num"
)

// Coerce maps any input to the exact value a cell of kind r will hold.
//
// Integral kinds clamp to their range and round half away from zero. Real
// kinds clamp to [-max, +max] and narrow to the nearest binary value. NaN
// becomes zero. The result is always legal for r, and Coerce(r, Coerce(r, x))
// equals Coerce(r, x).
func Coerce(r Representation, x *apd.Decimal) *apd.Decimal {
	if num.IsNaN(x) {
		return num.Zero()
	}
	lim := limits[r]
	v := num.Clamp(x, lim.Min, lim.Max)
	if !r.IsReal() {
		// Rounding cannot leave the range: both bounds are integers.
		return num.Round(v)
	}
	f := num.ToFloat64(v)
	if r == Float {
		f = float64(float32(f))
	}
	return num.FromFloat64(f)
}
