// Package delta draws the signed random steps used by randomized mutation.
package delta

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/memtrans/internal/num"
)

// MaxIntegralMagnitude caps integral magnitudes so the inclusive draw range
// always fits an int64.
const MaxIntegralMagnitude = 1 << 62

// Source is the randomness the Randomizer consumes. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	// Int64N returns a uniform value in [0, n). n is always > 0.
	Int64N(n int64) int64
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

// Range is the magnitude interval. Min <= Max, both finite and >= 0.
type Range struct {
	Min *apd.Decimal
	Max *apd.Decimal
}

// Randomizer turns a Source into signed deltas.
type Randomizer struct {
	src Source
}

// New returns a Randomizer drawing from src.
func New(src Source) *Randomizer {
	return &Randomizer{src: src}
}

// Next returns sign × magnitude. Real kinds draw the magnitude from the
// continuous range; integral kinds draw from the rounded integer range,
// inclusive. The sign is drawn after the magnitude, 0 meaning negative.
func (r *Randomizer) Next(rng Range, isReal bool) *apd.Decimal {
	var mag *apd.Decimal
	if isReal {
		mag = r.realMagnitude(rng)
	} else {
		mag = r.integralMagnitude(rng)
	}
	if r.src.Int64N(2) == 0 {
		return num.Neg(mag)
	}
	return mag
}

func (r *Randomizer) realMagnitude(rng Range) *apd.Decimal {
	u := num.FromFloat64(r.src.Float64())
	mag := num.Add(rng.Min, num.Mul(u, num.Sub(rng.Max, rng.Min)))
	return num.Clamp(mag, rng.Min, rng.Max)
}

func (r *Randomizer) integralMagnitude(rng Range) *apd.Decimal {
	lo := integralBound(rng.Min)
	hi := integralBound(rng.Max)
	return num.FromInt64(lo + r.src.Int64N(hi-lo+1))
}

func integralBound(d *apd.Decimal) int64 {
	v := num.ToInt64(num.Round(d))
	if v < 0 {
		return 0
	}
	if v > MaxIntegralMagnitude {
		return MaxIntegralMagnitude
	}
	return v
}
