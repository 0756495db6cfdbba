package cbor

import "math"

// Number is a numeric union covering the three ways CBOR encodes a
// number: unsigned integer, negative integer, and float. It preserves
// the encoded kind so that callers can round-trip without widening
// surprises. The zero value is the unsigned integer 0.
type Number struct {
	bits uint64
	typ  Type
}

// Int returns the value as an int64 and reports whether the encoded
// kind was a negative integer.
func (n *Number) Int() (int64, bool) {
	return int64(n.bits), n.typ == IntType
}

// Uint returns the value as a uint64 and reports whether the encoded
// kind was an unsigned integer (or the zero value).
func (n *Number) Uint() (uint64, bool) {
	return n.bits, n.typ == UintType || n.typ == InvalidType
}

// Float returns the value as a float64 and reports whether the
// encoded kind was a float of any precision.
func (n *Number) Float() (float64, bool) {
	if n.typ != Float64Type {
		return 0, false
	}
	return math.Float64frombits(n.bits), true
}

// Type returns the encoded numeric kind.
func (n *Number) Type() Type {
	if n.typ == InvalidType {
		return UintType
	}
	return n.typ
}

// AsFloat widens whichever kind is held to a float64.
func (n *Number) AsFloat() float64 {
	switch n.typ {
	case Float64Type:
		return math.Float64frombits(n.bits)
	case IntType:
		return float64(int64(n.bits))
	default:
		return float64(n.bits)
	}
}

// decode reads one numeric item from the front of b.
func (n *Number) decode(b []byte) error {
	switch NextType(b) {
	case UintType:
		u, _, err := ReadUint64Bytes(b)
		if err != nil {
			return err
		}
		n.bits, n.typ = u, UintType
	case IntType:
		i, _, err := ReadInt64Bytes(b)
		if err != nil {
			return err
		}
		n.bits, n.typ = uint64(i), IntType
	case Float64Type:
		f, _, err := ReadAnyFloatBytes(b)
		if err != nil {
			return err
		}
		n.bits, n.typ = math.Float64bits(f), Float64Type
	default:
		return TypeError{Method: UintType, Encoded: NextType(b)}
	}
	return nil
}
