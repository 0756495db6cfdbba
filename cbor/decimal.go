package cbor

import (
	"math/big"
	"strconv"
)

// ReadDecimalFractionBytes reads a tag 4 decimal fraction: a
// two-element array holding an integer exponent and a mantissa that is
// either an integer or a bignum (tags 2/3). Both the definite and the
// indefinite array form are accepted.
func ReadDecimalFractionBytes(b []byte) (exp int64, mant *big.Int, o []byte, err error) {
	tag, o, err := ReadTagBytes(b)
	if err != nil {
		return 0, nil, b, err
	}
	if tag != tagDecimalFrac {
		return 0, nil, b, ErrInvalidDecimal
	}
	if len(o) < 1 {
		return 0, nil, b, ErrShortBytes
	}
	if getMajorType(o[0]) != majorTypeArray {
		return 0, nil, b, ErrInvalidDecimal
	}

	indef := o[0] == makeByte(majorTypeArray, addInfoIndefinite)
	var p []byte
	if indef {
		p = o[1:]
	} else {
		sz, q, e := ReadArrayHeaderBytes(o)
		if e != nil {
			return 0, nil, b, e
		}
		if sz != 2 {
			return 0, nil, b, ErrInvalidDecimal
		}
		p = q
	}

	if len(p) < 1 {
		return 0, nil, b, ErrShortBytes
	}
	switch getMajorType(p[0]) {
	case majorTypeUint, majorTypeNegInt:
		exp, p, err = ReadInt64Bytes(p)
		if err != nil {
			return 0, nil, b, err
		}
	default:
		return 0, nil, b, ErrInvalidDecimal
	}

	mant, p, err = readIntegerAsBigInt(p)
	if err != nil {
		return 0, nil, b, err
	}

	if indef {
		if len(p) < 1 {
			return 0, nil, b, ErrShortBytes
		}
		if p[0] != breakByte {
			return 0, nil, b, ErrInvalidDecimal
		}
		p = p[1:]
	}
	return exp, mant, p, nil
}

// ReadDecimalFractionStringBytes reads a tag 4 decimal fraction and
// renders it as a decimal string.
func ReadDecimalFractionStringBytes(b []byte) (s string, o []byte, err error) {
	exp, mant, o, err := ReadDecimalFractionBytes(b)
	if err != nil {
		return "", b, err
	}
	return FormatDecimalFraction(exp, mant), o, nil
}

// FormatDecimalFraction renders mant * 10**exp as a human-readable
// decimal string.
//
// A negative exponent places a decimal point inside or in front of the
// mantissa digits; when the point would fall left of every digit, a
// "0." prefix plus a base-10 exponent suffix is used instead. A zero
// exponent appends ".0" so the result still reads as a decimal; a
// positive exponent is rendered in e-notation. Exponent digits appear
// in conventional most-significant-first order.
func FormatDecimalFraction(exp int64, mant *big.Int) string {
	s := mant.String()

	switch {
	case exp < 0:
		neg := 0
		if len(s) > 0 && s[0] == '-' {
			neg = 1
		}
		digits := int64(len(s) - neg)
		point := digits + exp // may be <= 0 when the point precedes all digits
		switch {
		case point > 0:
			pos := int64(neg) + point
			s = s[:pos] + "." + s[pos:]
		case point == 0:
			s = s[:neg] + "0." + s[neg:]
		default:
			// digits >= 1 keeps point above MinInt64, so -point is safe
			s = s[:neg] + "0." + s[neg:] + "e-" + strconv.FormatUint(uint64(-point), 10)
		}
	case exp == 0:
		s += ".0"
	default:
		s += "e" + strconv.FormatInt(exp, 10)
	}
	return s
}
