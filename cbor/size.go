package cbor

import "math"

// ReadArrayHeaderBytes reads a definite-length array head and returns
// the element count.
func ReadArrayHeaderBytes(b []byte) (sz uint32, o []byte, err error) {
	return readHeader(b, majorTypeArray)
}

// ReadMapHeaderBytes reads a definite-length map head and returns the
// pair count.
func ReadMapHeaderBytes(b []byte) (sz uint32, o []byte, err error) {
	return readHeader(b, majorTypeMap)
}

func readHeader(b []byte, major uint8) (sz uint32, o []byte, err error) {
	if len(b) >= 1 && getMajorType(b[0]) == major && getAddInfo(b[0]) == addInfoIndefinite {
		return 0, b, ErrSourceError
	}
	n, o, err := readUintCore(b, major)
	if err != nil {
		return 0, b, err
	}
	if n > math.MaxUint32 {
		return 0, b, UintOverflow{Value: n, FailedBitsize: 32}
	}
	return uint32(n), o, nil
}

// ReadArrayStartBytes reads an array head of either length form. For
// the indefinite form sz is zero, indefinite is true and rest points
// at the first element.
func ReadArrayStartBytes(b []byte) (sz uint32, indefinite bool, rest []byte, err error) {
	if len(b) < 1 {
		return 0, false, b, ErrShortBytes
	}
	if b[0] == makeByte(majorTypeArray, addInfoIndefinite) {
		return 0, true, b[1:], nil
	}
	s, o, e := ReadArrayHeaderBytes(b)
	return s, false, o, e
}

// ReadMapStartBytes reads a map head of either length form. For the
// indefinite form sz is zero, indefinite is true and rest points at
// the first key.
func ReadMapStartBytes(b []byte) (sz uint32, indefinite bool, rest []byte, err error) {
	if len(b) < 1 {
		return 0, false, b, ErrShortBytes
	}
	if b[0] == makeByte(majorTypeMap, addInfoIndefinite) {
		return 0, true, b[1:], nil
	}
	s, o, e := ReadMapHeaderBytes(b)
	return s, false, o, e
}

// ReadArraySizeBytes returns the number of elements in the array at
// the front of b.
//
// For a definite-length array the count comes from the head and rest
// points past the head. For an indefinite-length array the elements
// are counted by walking them, and rest points at the byte
// immediately after the initial head, i.e. at the first element: the
// array remains iterable through the returned cursor even though its
// end has already been located.
func ReadArraySizeBytes(b []byte) (n int, rest []byte, err error) {
	return readContainerSize(b, majorTypeArray)
}

// ReadMapSizeBytes returns the number of key/value pairs in the map at
// the front of b. The indefinite-length post-condition matches
// ReadArraySizeBytes: pairs are counted by walking, and rest points at
// the first key.
func ReadMapSizeBytes(b []byte) (n int, rest []byte, err error) {
	return readContainerSize(b, majorTypeMap)
}

func readContainerSize(b []byte, major uint8) (int, []byte, error) {
	if len(b) < 1 {
		return 0, b, ErrShortBytes
	}
	if getMajorType(b[0]) != major {
		return 0, b, badPrefix(getMajorType(b[0]), major)
	}
	if getAddInfo(b[0]) != addInfoIndefinite {
		n, o, err := readUintCore(b, major)
		if err != nil {
			return 0, b, err
		}
		if n > math.MaxInt {
			return 0, b, UintOverflow{Value: n, FailedBitsize: 64}
		}
		return int(n), o, nil
	}

	first := b[1:]
	p := first
	n := 0
	for {
		if len(p) < 1 {
			return 0, b, ErrShortBytes
		}
		if p[0] == breakByte {
			return n, first, nil
		}
		var err error
		p, err = Skip(p)
		if err != nil {
			return 0, b, err
		}
		if major == majorTypeMap {
			p, err = Skip(p)
			if err != nil {
				return 0, b, err
			}
		}
		n++
	}
}
