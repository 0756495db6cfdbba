package cbor

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

var be = binary.BigEndian

// readUintCore reads the head of an item with the given expected major
// type and returns the unsigned value carried by the head (the scalar
// value for major types 0/1/6, the length for 2/3/4/5). Additional
// info 24-27 selects a 1/2/4/8-byte big-endian payload; 28-30 are
// reserved and malformed; 31 (indefinite) is rejected here and must be
// handled by the caller before the call.
func readUintCore(b []byte, expectedMajor uint8) (uint64, []byte, error) {
	if len(b) < 1 {
		return 0, b, ErrShortBytes
	}

	major := getMajorType(b[0])
	if major != expectedMajor {
		return 0, b, badPrefix(major, expectedMajor)
	}

	addInfo := getAddInfo(b[0])

	switch {
	case addInfo <= addInfoDirect:
		return uint64(addInfo), b[1:], nil
	case addInfo == addInfoUint8:
		if len(b) < 2 {
			return 0, b, ErrShortBytes
		}
		return uint64(b[1]), b[2:], nil
	case addInfo == addInfoUint16:
		if len(b) < 3 {
			return 0, b, ErrShortBytes
		}
		return uint64(be.Uint16(b[1:])), b[3:], nil
	case addInfo == addInfoUint32:
		if len(b) < 5 {
			return 0, b, ErrShortBytes
		}
		return uint64(be.Uint32(b[1:])), b[5:], nil
	case addInfo == addInfoUint64:
		if len(b) < 9 {
			return 0, b, ErrShortBytes
		}
		return be.Uint64(b[1:]), b[9:], nil
	default:
		// 28-30 reserved, 31 indefinite: neither carries a head value.
		return 0, b, ErrSourceError
	}
}

// ReadUint64Bytes reads an unsigned integer (major type 0).
func ReadUint64Bytes(b []byte) (u uint64, o []byte, err error) {
	return readUintCore(b, majorTypeUint)
}

// ReadUint32Bytes reads an unsigned integer that must fit in 32 bits.
func ReadUint32Bytes(b []byte) (u uint32, o []byte, err error) {
	u64, o, err := readUintCore(b, majorTypeUint)
	if err != nil {
		return 0, b, err
	}
	if u64 > math.MaxUint32 {
		return 0, b, UintOverflow{Value: u64, FailedBitsize: 32}
	}
	return uint32(u64), o, nil
}

// ReadInt64Bytes reads an integer of major type 0 or 1. A major type 1
// item decodes as -1 - n; a payload above 2^63-1 in either major type
// cannot be represented and yields IntOverflow with the cursor
// unmoved.
func ReadInt64Bytes(b []byte) (i int64, o []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrShortBytes
	}

	lead := b[0]

	// Major type 0 (unsigned): 0x00-0x1b
	if lead <= 0x17 { // 0-23 direct
		return int64(lead), b[1:], nil
	}
	if lead == 0x18 {
		if len(b) < 2 {
			return 0, b, ErrShortBytes
		}
		return int64(b[1]), b[2:], nil
	}
	if lead == 0x19 {
		if len(b) < 3 {
			return 0, b, ErrShortBytes
		}
		return int64(be.Uint16(b[1:])), b[3:], nil
	}
	if lead == 0x1a {
		if len(b) < 5 {
			return 0, b, ErrShortBytes
		}
		return int64(be.Uint32(b[1:])), b[5:], nil
	}
	if lead == 0x1b {
		if len(b) < 9 {
			return 0, b, ErrShortBytes
		}
		u := be.Uint64(b[1:])
		if u > math.MaxInt64 {
			return 0, b, IntOverflow{Value: math.MaxInt64, FailedBitsize: 64}
		}
		return int64(u), b[9:], nil
	}

	// Major type 1 (negative): 0x20-0x3b
	if lead >= 0x20 && lead <= 0x37 { // -1 to -24 direct
		return -1 - int64(lead-0x20), b[1:], nil
	}
	if lead >= 0x38 && lead <= 0x3b {
		u, o, err := readUintCore(b, majorTypeNegInt)
		if err != nil {
			return 0, b, err
		}
		if u > math.MaxInt64 {
			return 0, b, IntOverflow{Value: math.MinInt64, FailedBitsize: 64}
		}
		return -1 - int64(u), o, nil
	}

	if m := getMajorType(lead); m == majorTypeUint || m == majorTypeNegInt {
		// 28-30 reserved, 31 indefinite: neither carries a value
		return 0, b, ErrSourceError
	}
	return 0, b, badPrefix(getMajorType(lead), majorTypeUint)
}

// ReadFloat64Bytes reads a double-precision float (0xfb).
func ReadFloat64Bytes(b []byte) (f float64, o []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrShortBytes
	}
	if b[0] != makeByte(majorTypeSimple, simpleFloat64) {
		return 0, b, badPrefix(getMajorType(b[0]), majorTypeSimple)
	}
	if len(b) < 9 {
		return 0, b, ErrShortBytes
	}
	f = math.Float64frombits(be.Uint64(b[1:]))
	return f, b[9:], nil
}

// ReadFloat32Bytes reads a single-precision float (0xfa).
func ReadFloat32Bytes(b []byte) (f float32, o []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrShortBytes
	}
	if b[0] != makeByte(majorTypeSimple, simpleFloat32) {
		return 0, b, badPrefix(getMajorType(b[0]), majorTypeSimple)
	}
	if len(b) < 5 {
		return 0, b, ErrShortBytes
	}
	f = math.Float32frombits(be.Uint32(b[1:]))
	return f, b[5:], nil
}

// ReadFloat16Bytes reads a half-precision float (0xf9) and widens it
// to float32. Subnormals, infinities and NaN survive the widening.
func ReadFloat16Bytes(b []byte) (f float32, o []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrShortBytes
	}
	if b[0] != makeByte(majorTypeSimple, simpleFloat16) {
		return 0, b, badPrefix(getMajorType(b[0]), majorTypeSimple)
	}
	if len(b) < 3 {
		return 0, b, ErrShortBytes
	}
	f = float16.Frombits(be.Uint16(b[1:])).Float32()
	return f, b[3:], nil
}

// ReadAnyFloatBytes reads a float of any precision (additional info
// 25, 26 or 27 in major type 7) and widens it to float64.
func ReadAnyFloatBytes(b []byte) (f float64, o []byte, err error) {
	if len(b) < 1 {
		return 0, b, ErrShortBytes
	}
	if getMajorType(b[0]) != majorTypeSimple {
		return 0, b, badPrefix(getMajorType(b[0]), majorTypeSimple)
	}
	switch getAddInfo(b[0]) {
	case simpleFloat16:
		h, o, err := ReadFloat16Bytes(b)
		return float64(h), o, err
	case simpleFloat32:
		s, o, err := ReadFloat32Bytes(b)
		return float64(s), o, err
	case simpleFloat64:
		return ReadFloat64Bytes(b)
	default:
		return 0, b, TypeError{Method: Float64Type, Encoded: getType(b[0])}
	}
}

// ReadBoolBytes reads a boolean (0xf4 or 0xf5).
func ReadBoolBytes(b []byte) (bool, []byte, error) {
	if len(b) < 1 {
		return false, b, ErrShortBytes
	}
	if b[0] == makeByte(majorTypeSimple, simpleTrue) {
		return true, b[1:], nil
	}
	if b[0] == makeByte(majorTypeSimple, simpleFalse) {
		return false, b[1:], nil
	}
	return false, b, TypeError{Method: BoolType, Encoded: getType(b[0])}
}

// ReadNilBytes reads a null value (0xf6).
func ReadNilBytes(b []byte) ([]byte, error) {
	if len(b) < 1 {
		return b, ErrShortBytes
	}
	if b[0] != makeByte(majorTypeSimple, simpleNull) {
		return b, TypeError{Method: NilType, Encoded: getType(b[0])}
	}
	return b[1:], nil
}

// ReadTagBytes reads a semantic tag head (major type 6) and returns
// the tag number. The wrapped item is left at the front of the rest.
func ReadTagBytes(b []byte) (tag uint64, o []byte, err error) {
	tag, o, err = readUintCore(b, majorTypeTag)
	if err != nil {
		return 0, b, err
	}
	return tag, o, nil
}

// ReadBreakBytes consumes a break byte (0xff) if one is next and
// reports whether it did.
func ReadBreakBytes(b []byte) (rest []byte, ok bool, err error) {
	if len(b) < 1 {
		return b, false, ErrShortBytes
	}
	if b[0] == breakByte {
		return b[1:], true, nil
	}
	return b, false, nil
}

// ReadBytesBytes reads a byte string (major type 2). Definite-length
// strings are returned as a subslice of b; the indefinite form
// concatenates its chunks into scratch (which may be nil). Chunks of
// an indefinite string must themselves be definite byte strings.
func ReadBytesBytes(b []byte, scratch []byte) (v []byte, o []byte, err error) {
	if len(b) < 1 {
		return nil, b, ErrShortBytes
	}
	if b[0] == makeByte(majorTypeBytes, addInfoIndefinite) {
		out := scratch[:0]
		p := b[1:]
		for {
			if len(p) < 1 {
				return nil, b, ErrShortBytes
			}
			if p[0] == breakByte {
				return out, p[1:], nil
			}
			if getAddInfo(p[0]) == addInfoIndefinite {
				// nested indefinite chunks are not well-formed
				return nil, b, ErrSourceError
			}
			sz, q, e := readUintCore(p, majorTypeBytes)
			if e != nil {
				return nil, b, e
			}
			if uint64(len(q)) < sz {
				return nil, b, ErrShortBytes
			}
			out = append(out, q[:sz]...)
			p = q[sz:]
		}
	}
	sz, o, err := readUintCore(b, majorTypeBytes)
	if err != nil {
		return nil, b, err
	}
	if uint64(len(o)) < sz {
		return nil, b, ErrShortBytes
	}
	if sz == 0 {
		return scratch[:0], o, nil
	}
	return o[:sz], o[sz:], nil
}

// ReadStringZC reads a definite-length text string zero-copy,
// returning a subslice of the original buffer. The caller is
// responsible for UTF-8 validation when strictness matters.
func ReadStringZC(b []byte) (v []byte, o []byte, err error) {
	if len(b) < 1 {
		return nil, b, ErrShortBytes
	}
	if getMajorType(b[0]) != majorTypeText {
		return nil, b, badPrefix(getMajorType(b[0]), majorTypeText)
	}
	if getAddInfo(b[0]) == addInfoIndefinite {
		return nil, b, ErrSourceError
	}
	sz64, o, err := readUintCore(b, majorTypeText)
	if err != nil {
		return nil, b, err
	}
	if sz64 > math.MaxInt {
		return nil, b, UintOverflow{Value: sz64, FailedBitsize: 64}
	}
	sz := int(sz64)
	if sz > len(o) {
		return nil, b, ErrShortBytes
	}
	return o[:sz], o[sz:], nil
}

// ReadStringBytes reads a text string (major type 3) and materializes
// it. Indefinite-length strings concatenate their chunks, each of
// which must be a definite text string. When ValidateUTF8OnDecode is
// set, invalid UTF-8 is rejected with ErrInvalidUTF8.
func ReadStringBytes(b []byte) (s string, o []byte, err error) {
	if len(b) < 1 {
		return "", b, ErrShortBytes
	}
	if b[0] == makeByte(majorTypeText, addInfoIndefinite) {
		p := b[1:]
		var out []byte
		for {
			if len(p) < 1 {
				return "", b, ErrShortBytes
			}
			if p[0] == breakByte {
				if ValidateUTF8OnDecode && !isUTF8Valid(out) {
					return "", b, ErrInvalidUTF8
				}
				return string(out), p[1:], nil
			}
			chunk, q, e := ReadStringZC(p)
			if e != nil {
				return "", b, e
			}
			out = append(out, chunk...)
			p = q
		}
	}
	v, o, err := ReadStringZC(b)
	if err != nil {
		return "", b, err
	}
	if ValidateUTF8OnDecode && !isUTF8Valid(v) {
		return "", b, ErrInvalidUTF8
	}
	if UnsafeStringDecode {
		return UnsafeString(v), o, nil
	}
	return string(v), o, nil
}

// ValidateUTF8OnDecode controls whether ReadStringBytes validates
// UTF-8. Enabled by default; hot paths that trust their producers may
// disable it.
var ValidateUTF8OnDecode = true

// UnsafeStringDecode makes ReadStringBytes alias the input buffer via
// UnsafeString instead of copying. Only safe while the buffer is
// immutable. Disabled by default.
var UnsafeStringDecode = false
