package cell

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/memtrans/internal/num"
)

var littleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Store holds one cell per representation.
//
// A Store must not be copied; New returns it by pointer so the words keep
// their addresses.
type Store struct {
	words [Count]atomic.Uint64
}

// New allocates a store with every cell at its default value.
func New() *Store {
	s := &Store{}
	for _, r := range All() {
		s.Write(r, DefaultValue(r))
	}
	return s
}

// AddressOf returns the address of r's value. It identifies the cell for
// display and export only.
func (s *Store) AddressOf(r Representation) uintptr {
	addr := uintptr(unsafe.Pointer(&s.words[r]))
	if !littleEndian {
		addr += uintptr(8 - r.Size())
	}
	return addr
}

// Read returns the cell's current value.
func (s *Store) Read(r Representation) *apd.Decimal {
	return decode(r, s.words[r].Load())
}

// Write coerces v into r's range and stores it.
func (s *Store) Write(r Representation, v *apd.Decimal) {
	s.words[r].Store(encode(r, Coerce(r, v)))
}

// Bits returns the raw word backing r, masked to the value's width.
func (s *Store) Bits(r Representation) uint64 {
	return s.words[r].Load() & mask(r)
}

func mask(r Representation) uint64 {
	if r.Size() == 8 {
		return math.MaxUint64
	}
	return 1<<(8*r.Size()) - 1
}

// encode expects a value already coerced for r.
func encode(r Representation, v *apd.Decimal) uint64 {
	switch {
	case r == Float:
		return uint64(math.Float32bits(float32(num.ToFloat64(v))))
	case r == Double:
		return math.Float64bits(num.ToFloat64(v))
	case r.IsUnsigned():
		return num.ToUint64(v) & mask(r)
	default:
		return uint64(num.ToInt64(v)) & mask(r)
	}
}

// decode ignores anything an outside writer left above the value's width.
func decode(r Representation, w uint64) *apd.Decimal {
	w &= mask(r)
	switch r {
	case Float:
		return num.FromFloat64(float64(math.Float32frombits(uint32(w))))
	case Double:
		return num.FromFloat64(math.Float64frombits(w))
	case Char, SignedChar, Int8:
		return num.FromInt64(int64(int8(w)))
	case Int16:
		return num.FromInt64(int64(int16(w)))
	case Int32:
		return num.FromInt64(int64(int32(w)))
	case Int64:
		return num.FromInt64(int64(w))
	default:
		return num.FromUint64(w)
	}
}
