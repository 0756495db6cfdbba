// Package cbor implements an event-driven decoder for the Concise
// Binary Object Representation (RFC 8949), intended for embedding in a
// larger JSON-family document toolkit.
//
// The package is organized in four layers:
//
//   - Primitive readers: big-endian integer and IEEE-754 float decoding
//     from a []byte, including half-precision via x448/float16.
//   - The item walker: Skip advances past exactly one encoded item
//     without materializing it.
//   - Typed item decoders: ReadXxxBytes functions that decode one item
//     from a []byte and return the value plus the remaining bytes.
//   - The event Parser, which drives a caller-supplied Handler through
//     a pre-order traversal of one data item.
//
// Cursor iterators (ArrayIterator, MapIterator) sit alongside the
// parser and reuse the walker to step over siblings without decoding
// them. No byte of the input buffer is copied during walking or
// iteration; strings and byte strings are copied out only when a
// materialized value is requested.
//
// Every ReadXxxBytes function shares one failure convention: on error
// the returned rest slice is the input slice unchanged, so callers can
// detect "no progress" positionally as well as through the typed error.
package cbor

// CBOR major types (high 3 bits of the initial byte)
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer, encodes -1 - n
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // simple values, floats, break
)

// Additional info values (low 5 bits of the initial byte)
const (
	addInfoDirect     = 23 // 0-23: value encoded in the head itself
	addInfoUint8      = 24 // 1-byte payload follows
	addInfoUint16     = 25 // 2-byte payload follows
	addInfoUint32     = 26 // 4-byte payload follows
	addInfoUint64     = 27 // 8-byte payload follows
	addInfoIndefinite = 31 // indefinite length, terminated by break
)

// Simple values in major type 7
const (
	simpleFalse   = 20
	simpleTrue    = 21
	simpleNull    = 22
	simpleFloat16 = 25
	simpleFloat32 = 26
	simpleFloat64 = 27
	simpleBreak   = 31
)

// Semantic tags recognized by the event parser. Any other tag is
// stripped: its head is consumed and the wrapped item is reported with
// TagNone.
const (
	tagDateTimeString = 0 // RFC 3339 date/time text string
	tagEpochDateTime  = 1 // epoch time (integer or float seconds)
	tagPosBignum      = 2 // positive bignum (byte string magnitude)
	tagNegBignum      = 3 // negative bignum (byte string magnitude)
	tagDecimalFrac    = 4 // decimal fraction [exponent, mantissa]
)

// breakByte terminates indefinite-length items.
const breakByte = 0xff

// maxNestingDepth bounds container and tag nesting for the walker, the
// validator, and the event parser. Adversarial inputs can open one
// container per input byte, so a ceiling is required even though the
// walker keeps its pending work on an explicit stack.
const maxNestingDepth = 10000

// makeByte assembles an initial byte from major type and additional info.
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from an initial byte.
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from an initial byte.
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// isReservedAddInfo reports whether the additional info value is one of
// the reserved codes 28-30, which are malformed in every major type.
func isReservedAddInfo(add uint8) bool {
	return add >= 28 && add <= 30
}

// Type classifies the item at the front of a buffer.
type Type byte

// CBOR item types as observed by NextType.
const (
	InvalidType Type = iota

	StrType     // text string
	BinType     // byte string
	MapType     // map
	ArrayType   // array
	Float64Type // half, single or double precision float
	BoolType    // true or false
	IntType     // negative integer
	UintType    // unsigned integer
	NilType     // null
	TagType     // semantic tag
)

// String implements fmt.Stringer
func (t Type) String() string {
	switch t {
	case StrType:
		return "str"
	case BinType:
		return "bin"
	case MapType:
		return "map"
	case ArrayType:
		return "array"
	case Float64Type:
		return "float"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case UintType:
		return "uint"
	case NilType:
		return "nil"
	case TagType:
		return "tag"
	default:
		return "<invalid>"
	}
}
