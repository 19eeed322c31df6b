package num

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Precision is the number of significant decimal digits kept by arithmetic.
const Precision = 34

var (
	arith = apd.Context{
		Precision:   Precision,
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Rounding:    apd.RoundHalfEven,
	}
	// nearest rounds ties away from zero; apd rounds the coefficient, so
	// "half up" is half away from zero for negative values too.
	nearest = apd.Context{
		Precision:   Precision,
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Rounding:    apd.RoundHalfUp,
	}
	toward = apd.Context{
		Precision:   Precision,
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Rounding:    apd.RoundDown,
	}
)

// Zero returns a new zero value.
func Zero() *apd.Decimal {
	return apd.New(0, 0)
}

// NaN returns a new quiet NaN.
func NaN() *apd.Decimal {
	return &apd.Decimal{Form: apd.NaN}
}

// Copy returns an independent copy of x.
func Copy(x *apd.Decimal) *apd.Decimal {
	return new(apd.Decimal).Set(x)
}

// IsNaN reports whether x is nil or any kind of NaN.
func IsNaN(x *apd.Decimal) bool {
	return x == nil || x.Form == apd.NaN || x.Form == apd.NaNSignaling
}

// IsFinite reports whether x is an ordinary number.
func IsFinite(x *apd.Decimal) bool {
	return x != nil && x.Form == apd.Finite
}

// Sign returns -1, 0 or +1. Negative zero reports 0.
func Sign(x *apd.Decimal) int {
	return x.Sign()
}

// Cmp compares two non-NaN values, ordering infinities at the ends.
func Cmp(a, b *apd.Decimal) int {
	return a.Cmp(b)
}

// Add returns a + b.
func Add(a, b *apd.Decimal) *apd.Decimal {
	return binary(arith.Add, a, b)
}

// Sub returns a - b.
func Sub(a, b *apd.Decimal) *apd.Decimal {
	return binary(arith.Sub, a, b)
}

// Mul returns a * b.
func Mul(a, b *apd.Decimal) *apd.Decimal {
	return binary(arith.Mul, a, b)
}

// Neg returns -x.
func Neg(x *apd.Decimal) *apd.Decimal {
	return new(apd.Decimal).Neg(x)
}

func binary(op func(d, x, y *apd.Decimal) (apd.Condition, error), a, b *apd.Decimal) *apd.Decimal {
	d := new(apd.Decimal)
	if _, err := op(d, a, b); err != nil {
		return NaN()
	}
	return d
}

// Round rounds x to the nearest integer, ties away from zero.
func Round(x *apd.Decimal) *apd.Decimal {
	return integral(&nearest, x)
}

// Trunc drops the fractional part of x.
func Trunc(x *apd.Decimal) *apd.Decimal {
	return integral(&toward, x)
}

func integral(ctx *apd.Context, x *apd.Decimal) *apd.Decimal {
	if !IsFinite(x) {
		return Copy(x)
	}
	d := new(apd.Decimal)
	if _, err := ctx.RoundToIntegralValue(d, x); err != nil {
		return NaN()
	}
	return d
}

// Clamp limits x to [lo, hi]. NaN is passed through unchanged.
func Clamp(x, lo, hi *apd.Decimal) *apd.Decimal {
	if IsNaN(x) {
		return NaN()
	}
	if x.Form == apd.Infinite {
		if x.Negative {
			return Copy(lo)
		}
		return Copy(hi)
	}
	if x.Cmp(lo) < 0 {
		return Copy(lo)
	}
	if x.Cmp(hi) > 0 {
		return Copy(hi)
	}
	return Copy(x)
}

// FromInt64 widens a signed integer.
func FromInt64(v int64) *apd.Decimal {
	return apd.New(v, 0)
}

// FromUint64 widens an unsigned integer.
func FromUint64(v uint64) *apd.Decimal {
	if v <= math.MaxInt64 {
		return apd.New(int64(v), 0)
	}
	d, _, err := apd.NewFromString(strconv.FormatUint(v, 10))
	if err != nil {
		return NaN()
	}
	return d
}

// FromFloat64 widens a binary float to its shortest exact decimal form.
func FromFloat64(f float64) *apd.Decimal {
	switch {
	case math.IsNaN(f):
		return NaN()
	case math.IsInf(f, 1):
		return &apd.Decimal{Form: apd.Infinite}
	case math.IsInf(f, -1):
		return &apd.Decimal{Form: apd.Infinite, Negative: true}
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return NaN()
	}
	return d
}

// ToFloat64 narrows x to the nearest float64. NaN maps to 0.
func ToFloat64(x *apd.Decimal) float64 {
	if IsNaN(x) {
		return 0
	}
	if x.Form == apd.Infinite {
		if x.Negative {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	f, err := x.Float64()
	if err != nil {
		return 0
	}
	return f
}

// ToInt64 truncates x to an int64, saturating at the int64 range.
func ToInt64(x *apd.Decimal) int64 {
	if IsNaN(x) {
		return 0
	}
	t := Clamp(Trunc(x), FromInt64(math.MinInt64), FromInt64(math.MaxInt64))
	v, err := t.Int64()
	if err != nil {
		return 0
	}
	return v
}

// ToUint64 truncates x to a uint64, saturating at the uint64 range.
func ToUint64(x *apd.Decimal) uint64 {
	if IsNaN(x) {
		return 0
	}
	t := Clamp(Trunc(x), Zero(), FromUint64(math.MaxUint64))
	if t.IsZero() {
		return 0
	}
	digits, _, _ := strings.Cut(t.Text('f'), ".")
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
