package cbor

import (
	"math/big"
)

// ReadBigIntBytes reads a bignum (tag 2 or 3 wrapping a byte string
// magnitude) into a big.Int. Tag 3 decodes as -1 - magnitude.
func ReadBigIntBytes(b []byte) (z *big.Int, o []byte, err error) {
	tag, o, err := ReadTagBytes(b)
	if err != nil {
		return nil, b, err
	}
	if tag != tagPosBignum && tag != tagNegBignum {
		return nil, b, ErrSourceError
	}
	bs, o2, err := ReadBytesBytes(o, nil)
	if err != nil {
		return nil, b, err
	}
	mag := new(big.Int).SetBytes(bs)
	if tag == tagNegBignum {
		mag.Add(mag, big.NewInt(1))
		mag.Neg(mag)
	}
	return mag, o2, nil
}

// readIntegerAsBigInt reads an integer of major type 0/1 or a bignum
// (tags 2/3) into a big.Int. It is the mantissa reader for decimal
// fractions.
func readIntegerAsBigInt(b []byte) (*big.Int, []byte, error) {
	if len(b) < 1 {
		return nil, b, ErrShortBytes
	}
	switch getMajorType(b[0]) {
	case majorTypeUint:
		u, o, err := readUintCore(b, majorTypeUint)
		if err != nil {
			return nil, b, err
		}
		return new(big.Int).SetUint64(u), o, nil
	case majorTypeNegInt:
		u, o, err := readUintCore(b, majorTypeNegInt)
		if err != nil {
			return nil, b, err
		}
		z := new(big.Int).SetUint64(u)
		z.Add(z, big.NewInt(1))
		return z.Neg(z), o, nil
	case majorTypeTag:
		if tag, _, err := ReadTagBytes(b); err == nil && tag != tagPosBignum && tag != tagNegBignum {
			return nil, b, ErrInvalidDecimal
		}
		return ReadBigIntBytes(b)
	default:
		return nil, b, ErrInvalidDecimal
	}
}
