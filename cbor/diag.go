package cbor

import (
	"encoding/hex"
	"math"
	"math/big"
	"strconv"
)

// DiagBytes renders the next data item in RFC 8949 diagnostic
// notation and returns the remaining bytes.
func DiagBytes(b []byte) (string, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	rest, err := diagOne(bb, b, 0)
	if err != nil {
		return "", b, err
	}
	return string(bb.Bytes()), rest, nil
}

func diagOne(buf *ByteBuffer, b []byte, depth int) ([]byte, error) {
	if depth > maxNestingDepth {
		return b, ErrMaxDepthExceeded
	}
	if len(b) < 1 {
		return b, ErrShortBytes
	}
	major := getMajorType(b[0])
	add := getAddInfo(b[0])
	if isReservedAddInfo(add) {
		return b, ErrSourceError
	}

	switch major {
	case majorTypeUint:
		u, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		buf.WriteString(strconv.FormatUint(u, 10))
		return o, nil

	case majorTypeNegInt:
		u, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		if u > math.MaxInt64 {
			// -1 - u does not fit in an int64
			z := new(big.Int).SetUint64(u)
			buf.WriteString(z.Add(z, big.NewInt(1)).Neg(z).String())
			return o, nil
		}
		buf.WriteString(strconv.FormatInt(-1-int64(u), 10))
		return o, nil

	case majorTypeBytes:
		if add == addInfoIndefinite {
			return diagChunked(buf, b, major)
		}
		bs, o, err := ReadBytesBytes(b, nil)
		if err != nil {
			return b, err
		}
		writeHexLiteral(buf, bs)
		return o, nil

	case majorTypeText:
		if add == addInfoIndefinite {
			return diagChunked(buf, b, major)
		}
		s, o, err := ReadStringBytes(b)
		if err != nil {
			return b, err
		}
		buf.WriteString(strconv.Quote(s))
		return o, nil

	case majorTypeArray:
		opening, closing := "[", "]"
		if add == addInfoIndefinite {
			opening = "[_"
		}
		return diagContainer(buf, b, major, opening, closing, depth)

	case majorTypeMap:
		opening, closing := "{", "}"
		if add == addInfoIndefinite {
			opening = "{_"
		}
		return diagContainer(buf, b, major, opening, closing, depth)

	case majorTypeTag:
		tag, o, err := ReadTagBytes(b)
		if err != nil {
			return b, err
		}
		buf.WriteString(strconv.FormatUint(tag, 10))
		buf.WriteString("(")
		o2, err := diagOne(buf, o, depth+1)
		if err != nil {
			return b, err
		}
		buf.WriteString(")")
		return o2, nil

	default: // majorTypeSimple
		switch add {
		case simpleFalse:
			buf.WriteString("false")
			return b[1:], nil
		case simpleTrue:
			buf.WriteString("true")
			return b[1:], nil
		case simpleNull:
			buf.WriteString("null")
			return b[1:], nil
		case simpleFloat16:
			f, o, err := ReadFloat16Bytes(b)
			if err != nil {
				return b, err
			}
			buf.WriteString(formatFloatDiag(float64(f)))
			return o, nil
		case simpleFloat32:
			f, o, err := ReadFloat32Bytes(b)
			if err != nil {
				return b, err
			}
			buf.WriteString(formatFloatDiag(float64(f)))
			return o, nil
		case simpleFloat64:
			f, o, err := ReadFloat64Bytes(b)
			if err != nil {
				return b, err
			}
			buf.WriteString(formatFloatDiag(f))
			return o, nil
		default:
			if add <= addInfoDirect {
				buf.WriteString("simple(" + strconv.Itoa(int(add)) + ")")
				return b[1:], nil
			}
			return b, ErrSourceError
		}
	}
}

// diagChunked renders an indefinite-length string as (_ chunk, ...).
func diagChunked(buf *ByteBuffer, b []byte, major uint8) ([]byte, error) {
	p := b[1:]
	buf.WriteString("(_")
	first := true
	for {
		if len(p) < 1 {
			return b, ErrShortBytes
		}
		if p[0] == breakByte {
			buf.WriteString(")")
			return p[1:], nil
		}
		if first {
			buf.WriteString(" ")
			first = false
		} else {
			buf.WriteString(", ")
		}
		if major == majorTypeText {
			chunk, o, err := ReadStringZC(p)
			if err != nil {
				return b, err
			}
			buf.WriteString(strconv.Quote(string(chunk)))
			p = o
		} else {
			sz, o, err := readUintCore(p, majorTypeBytes)
			if err != nil {
				return b, err
			}
			if uint64(len(o)) < sz {
				return b, ErrShortBytes
			}
			writeHexLiteral(buf, o[:sz])
			p = o[sz:]
		}
	}
}

func diagContainer(buf *ByteBuffer, b []byte, major uint8, opening, closing string, depth int) ([]byte, error) {
	isMap := major == majorTypeMap
	buf.WriteString(opening)

	writeOne := func(p []byte, i int) ([]byte, error) {
		if i > 0 {
			buf.WriteString(", ")
		} else if len(opening) > 1 { // indefinite marker gets a space
			buf.WriteString(" ")
		}
		p, err := diagOne(buf, p, depth+1)
		if err != nil {
			return p, err
		}
		if isMap {
			buf.WriteString(": ")
			p, err = diagOne(buf, p, depth+1)
		}
		return p, err
	}

	if getAddInfo(b[0]) == addInfoIndefinite {
		p := b[1:]
		for i := 0; ; i++ {
			if len(p) < 1 {
				return b, ErrShortBytes
			}
			if p[0] == breakByte {
				buf.WriteString(closing)
				return p[1:], nil
			}
			var err error
			p, err = writeOne(p, i)
			if err != nil {
				return b, err
			}
		}
	}

	sz, p, err := readUintCore(b, major)
	if err != nil {
		return b, err
	}
	for i := uint64(0); i < sz; i++ {
		p, err = writeOne(p, int(i))
		if err != nil {
			return b, err
		}
	}
	buf.WriteString(closing)
	return p, nil
}

func writeHexLiteral(buf *ByteBuffer, bs []byte) {
	buf.WriteString("h'")
	d := buf.Extend(hex.EncodedLen(len(bs)))
	hex.Encode(d, bs)
	buf.WriteString("'")
}

// formatFloatDiag renders a float in shortest fixed-point form below
// 1e15 in magnitude (so 1.0 renders as "1") and in shortest 'g' form
// above; infinities and NaN are rendered by name.
func formatFloatDiag(f float64) string {
	switch {
	case math.IsInf(f, +1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	if af := math.Abs(f); af == 0 || af < 1e15 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		return s
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
