package cbor

// Frame markers for the walker's explicit stack. Non-negative entries
// count children still to walk in a definite container; the negative
// markers track indefinite containers, with maps alternating between
// the key and value states so that a break cannot split a pair.
const (
	frameIndefArray    = -1
	frameIndefMapKey   = -2
	frameIndefMapValue = -3
)

// Skip walks past exactly one CBOR data item and returns the
// remaining bytes. The item is never materialized; arbitrarily nested
// containers are traversed in O(encoded size). On failure the input
// slice is returned unchanged together with a typed error.
func Skip(b []byte) ([]byte, error) {
	return SkipDepth(b, maxNestingDepth)
}

// SkipDepth is Skip with a caller-chosen nesting ceiling. Exceeding
// the ceiling fails with ErrMaxDepthExceeded. Nesting is kept on an
// explicit work stack, so adversarial depth cannot exhaust the
// goroutine stack; only inputs deeper than a small inline reserve
// cause the walker to allocate.
func SkipDepth(b []byte, maxDepth int) ([]byte, error) {
	var inline [40]int64
	stack := inline[:0]
	o := b

	// The virtual first frame is a definite sequence of one item.
	stack = append(stack, 1)

	for len(stack) > 0 {
		top := len(stack) - 1
		switch {
		case stack[top] == 0:
			stack = stack[:top]
			continue
		case stack[top] < 0:
			if len(o) < 1 {
				return b, ErrShortBytes
			}
			if o[0] == breakByte {
				if stack[top] == frameIndefMapValue {
					// break between a key and its value
					return b, ErrSourceError
				}
				o = o[1:]
				stack = stack[:top]
				continue
			}
			switch stack[top] {
			case frameIndefMapKey:
				stack[top] = frameIndefMapValue
			case frameIndefMapValue:
				stack[top] = frameIndefMapKey
			}
		default:
			stack[top]--
		}

		if len(o) < 1 {
			return b, ErrShortBytes
		}
		lead := o[0]
		major := getMajorType(lead)
		add := getAddInfo(lead)
		if isReservedAddInfo(add) {
			return b, ErrSourceError
		}

		switch major {
		case majorTypeUint, majorTypeNegInt:
			_, q, err := readUintCore(o, major)
			if err != nil {
				return b, err
			}
			o = q

		case majorTypeBytes, majorTypeText:
			if add == addInfoIndefinite {
				// chunked string: definite chunks of the same major
				// type, then break
				p := o[1:]
				for {
					if len(p) < 1 {
						return b, ErrShortBytes
					}
					if p[0] == breakByte {
						p = p[1:]
						break
					}
					if getMajorType(p[0]) != major || getAddInfo(p[0]) == addInfoIndefinite {
						return b, ErrSourceError
					}
					sz, q, err := readUintCore(p, major)
					if err != nil {
						return b, err
					}
					if uint64(len(q)) < sz {
						return b, ErrShortBytes
					}
					p = q[sz:]
				}
				o = p
				continue
			}
			sz, q, err := readUintCore(o, major)
			if err != nil {
				return b, err
			}
			if uint64(len(q)) < sz {
				return b, ErrShortBytes
			}
			o = q[sz:]

		case majorTypeArray, majorTypeMap:
			if len(stack) >= maxDepth {
				return b, ErrMaxDepthExceeded
			}
			if add == addInfoIndefinite {
				if major == majorTypeArray {
					stack = append(stack, frameIndefArray)
				} else {
					stack = append(stack, frameIndefMapKey)
				}
				o = o[1:]
				continue
			}
			n, q, err := readUintCore(o, major)
			if err != nil {
				return b, err
			}
			if major == majorTypeMap {
				// 2n children need at least 2n bytes
				if n > uint64(len(q))/2 {
					return b, ErrShortBytes
				}
				n *= 2
			} else if n > uint64(len(q)) {
				// each child needs at least one byte
				return b, ErrShortBytes
			}
			o = q
			if n > 0 {
				stack = append(stack, int64(n))
			}

		case majorTypeTag:
			if len(stack) >= maxDepth {
				return b, ErrMaxDepthExceeded
			}
			_, q, err := readUintCore(o, major)
			if err != nil {
				return b, err
			}
			o = q
			stack = append(stack, 1) // the single tagged item

		case majorTypeSimple:
			switch add {
			case simpleFloat16:
				if len(o) < 3 {
					return b, ErrShortBytes
				}
				o = o[3:]
			case simpleFloat32:
				if len(o) < 5 {
					return b, ErrShortBytes
				}
				o = o[5:]
			case simpleFloat64:
				if len(o) < 9 {
					return b, ErrShortBytes
				}
				o = o[9:]
			case simpleBreak:
				// a break can only terminate an indefinite container,
				// which is handled before the item dispatch
				return b, ErrSourceError
			default:
				if add > addInfoDirect {
					return b, ErrSourceError
				}
				o = o[1:]
			}
		}
	}
	return o, nil
}

// IsNil reports whether the next item is a null.
func IsNil(b []byte) bool {
	return len(b) > 0 && b[0] == makeByte(majorTypeSimple, simpleNull)
}

// Raw holds one encoded CBOR item.
type Raw []byte

// Take copies the next item out of b into r and returns the remaining
// bytes. A null item yields an empty Raw.
func (r *Raw) Take(b []byte) ([]byte, error) {
	out, err := Skip(b)
	if err != nil {
		return b, err
	}
	rlen := len(b) - len(out)
	if IsNil(b[:rlen]) {
		rlen = 0
	}
	if cap(*r) < rlen {
		*r = make(Raw, rlen)
	} else {
		*r = (*r)[:rlen]
	}
	copy(*r, b[:rlen])
	return out, nil
}
