// Package num is the extended-precision number shared by every cell.
//
// All values crossing the cell boundary are *apd.Decimal. A 34-digit decimal
// context holds every int64 and uint64 exactly and every float32 and float64
// value in its shortest round-trip form, which is wider than the x87 long
// double the values were originally widened to.
//
// Helpers in this package never mutate their arguments and always return a
// freshly allocated *apd.Decimal, so shared constants (cell limits, config
// magnitudes) can be passed around without copying.
//
// Nothing here traps: overflow saturates to ±Infinity and invalid
// operations produce NaN. Cell coercion maps both back into range.
package num
