package matrix

import (
	"fmt"
	"math"
)

// Type identifies the numeric kind of one matrix component.
// Values match the depth codes used in packed type codes; keep them stable.
type Type uint8

const (
	Uint8   Type = 0
	Int8    Type = 1
	Uint16  Type = 2
	Int16   Type = 3
	Int32   Type = 4
	Float32 Type = 5
	Float64 Type = 6
)

const (
	depthMask    = 7
	channelShift = 3

	// MaxChannels is the largest channel count a packed type code can carry.
	MaxChannels = 512
)

var typeNames = [...]string{
	Uint8:   "UnsignedByte",
	Int8:    "SignedByte",
	Uint16:  "UnsignedShort",
	Int16:   "SignedShort",
	Int32:   "SignedInt",
	Float32: "Float32",
	Float64: "Float64",
}

var typeSizes = [...]int{
	Uint8:   1,
	Int8:    1,
	Uint16:  2,
	Int16:   2,
	Int32:   4,
	Float32: 4,
	Float64: 8,
}

// Valid reports whether t is one of the known element types.
func (t Type) Valid() bool {
	return int(t) < len(typeSizes)
}

// Size returns the size in bytes of one component, or 0 for an unknown type.
func (t Type) Size() int {
	if !t.Valid() {
		return 0
	}
	return typeSizes[t]
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return typeNames[t]
}

// Float reports whether t is a floating point type.
func (t Type) Float() bool {
	return t == Float32 || t == Float64
}

// ParseType resolves a type name as returned by Type.String.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element type %q", name)
}

// TypeCode packs an element type and channel count into a single code:
// the low three bits hold the type, the remaining bits channels-1.
func TypeCode(t Type, channels int) uint32 {
	return uint32(t)&depthMask | uint32(channels-1)<<channelShift
}

// ParseTypeCode unpacks a code produced by TypeCode.
func ParseTypeCode(code uint32) (Type, int, error) {
	t := Type(code & depthMask)
	if !t.Valid() {
		return 0, 0, fmt.Errorf("%w: unsupported element type %d in type code %#x", ErrCorruptHeader, uint8(t), code)
	}
	channels := int(code>>channelShift) + 1
	if channels > MaxChannels {
		return 0, 0, fmt.Errorf("%w: %d channels in type code %#x", ErrCorruptHeader, channels, code)
	}
	return t, channels, nil
}

// clamp converts v to t's range the way a saturating numeric cast would.
func clamp(t Type, v float64) float64 {
	if t.Float() {
		return v
	}
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	lo, hi := bounds(t)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func bounds(t Type) (float64, float64) {
	switch t {
	case Uint8:
		return 0, math.MaxUint8
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Uint16:
		return 0, math.MaxUint16
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Int32:
		return math.MinInt32, math.MaxInt32
	default:
		return -math.MaxFloat64, math.MaxFloat64
	}
}
