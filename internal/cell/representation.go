package cell

import (
	"fmt"
	"strconv"
	"strings"
)

// Representation is one of the fixed numeric storage kinds.
type Representation int

// The order is part of the UI contract: selection events carry these indices.
const (
	Char Representation = iota
	SignedChar
	UnsignedChar
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float
	Double
)

// Count is the number of representations.
const Count = 13

// Default is the representation selected at startup.
const Default = Int32

var names = [Count]string{
	"char", "signed char", "unsigned char",
	"int8_t", "uint8_t", "int16_t", "uint16_t",
	"int32_t", "uint32_t", "int64_t", "uint64_t",
	"float", "double",
}

var sizes = [Count]int{1, 1, 1, 1, 1, 2, 2, 4, 4, 8, 8, 4, 8}

var aliases = map[string]Representation{
	"schar": SignedChar,
	"uchar": UnsignedChar,
	"i8":    Int8, "int8": Int8,
	"u8": UInt8, "uint8": UInt8,
	"i16": Int16, "int16": Int16,
	"u16": UInt16, "uint16": UInt16,
	"i32": Int32, "int32": Int32, "int": Int32,
	"u32": UInt32, "uint32": UInt32,
	"i64": Int64, "int64": Int64,
	"u64": UInt64, "uint64": UInt64,
	"f32": Float, "float32": Float,
	"f64": Double, "float64": Double,
}

// All returns every representation in index order.
func All() []Representation {
	all := make([]Representation, Count)
	for i := range all {
		all[i] = Representation(i)
	}
	return all
}

// Names returns the display names in index order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}

// Valid reports whether r is one of the 13 kinds.
func (r Representation) Valid() bool {
	return r >= 0 && r < Count
}

func (r Representation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Representation(%d)", int(r))
	}
	return names[r]
}

// IsReal reports whether r is float or double.
func (r Representation) IsReal() bool {
	return r == Float || r == Double
}

// IsUnsigned reports whether r is an unsigned integral kind.
func (r Representation) IsUnsigned() bool {
	switch r {
	case UnsignedChar, UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// Size is the width of the stored value in bytes.
func (r Representation) Size() int {
	if !r.Valid() {
		return 0
	}
	return sizes[r]
}

// Parse resolves an index ("7"), a display name ("int32_t") or a short
// alias ("i32").
func Parse(s string) (Representation, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if i, err := strconv.Atoi(key); err == nil {
		r := Representation(i)
		if !r.Valid() {
			return 0, fmt.Errorf("representation index %d out of range 0..%d", i, Count-1)
		}
		return r, nil
	}
	for i, n := range names {
		if n == key {
			return Representation(i), nil
		}
	}
	if r, ok := aliases[key]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unknown representation %q", s)
}
