package cbor

// ValidateWellFormedBytes checks that the next data item in b is
// well-formed per RFC 8949 and returns the bytes after it. Beyond the
// structural checks the walker performs, text strings must hold valid
// UTF-8 and reserved additional-info values are rejected.
func ValidateWellFormedBytes(b []byte) (rest []byte, err error) {
	return validateWellFormed(b, 0)
}

// ValidateDocument validates every item in b until the input is
// exhausted.
func ValidateDocument(b []byte) error {
	var err error
	for len(b) > 0 {
		b, err = validateWellFormed(b, 0)
		if err != nil {
			return err
		}
	}
	return nil
}

func validateWellFormed(b []byte, depth int) ([]byte, error) {
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
	case majorTypeUint, majorTypeNegInt:
		_, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		return o, nil

	case majorTypeTag:
		_, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		return validateWellFormed(o, depth+1)

	case majorTypeBytes, majorTypeText:
		if add == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == breakByte {
					return p[1:], nil
				}
				// chunks must be definite strings of the same major type
				if getMajorType(p[0]) != major || getAddInfo(p[0]) == addInfoIndefinite {
					return b, ErrSourceError
				}
				var err error
				p, err = validateString(p, major)
				if err != nil {
					return b, err
				}
			}
		}
		o, err := validateString(b, major)
		if err != nil {
			return b, err
		}
		return o, nil

	case majorTypeArray, majorTypeMap:
		children := 1
		if major == majorTypeMap {
			children = 2
		}
		if add == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == breakByte {
					return p[1:], nil
				}
				for i := 0; i < children; i++ {
					var err error
					p, err = validateWellFormed(p, depth+1)
					if err != nil {
						return b, err
					}
				}
			}
		}
		n, p, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		if n > uint64(len(p))/uint64(children) {
			return b, ErrShortBytes
		}
		for i := uint64(0); i < n; i++ {
			for j := 0; j < children; j++ {
				p, err = validateWellFormed(p, depth+1)
				if err != nil {
					return b, err
				}
			}
		}
		return p, nil

	default: // majorTypeSimple
		switch add {
		case simpleFloat16:
			if len(b) < 3 {
				return b, ErrShortBytes
			}
			return b[3:], nil
		case simpleFloat32:
			if len(b) < 5 {
				return b, ErrShortBytes
			}
			return b[5:], nil
		case simpleFloat64:
			if len(b) < 9 {
				return b, ErrShortBytes
			}
			return b[9:], nil
		case simpleBreak:
			return b, ErrSourceError
		default:
			if add > addInfoDirect {
				return b, ErrSourceError
			}
			return b[1:], nil
		}
	}
}

func validateString(b []byte, major uint8) ([]byte, error) {
	sz, o, err := readUintCore(b, major)
	if err != nil {
		return b, err
	}
	if uint64(len(o)) < sz {
		return b, ErrShortBytes
	}
	if major == majorTypeText && !isUTF8Valid(o[:sz]) {
		return b, ErrInvalidUTF8
	}
	return o[sz:], nil
}
