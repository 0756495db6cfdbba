package cbor

// getType classifies an initial byte.
func getType(b byte) Type {
	switch getMajorType(b) {
	case majorTypeUint:
		return UintType
	case majorTypeNegInt:
		return IntType
	case majorTypeBytes:
		return BinType
	case majorTypeText:
		return StrType
	case majorTypeArray:
		return ArrayType
	case majorTypeMap:
		return MapType
	case majorTypeTag:
		return TagType
	case majorTypeSimple:
		switch getAddInfo(b) {
		case simpleTrue, simpleFalse:
			return BoolType
		case simpleNull:
			return NilType
		case simpleFloat16, simpleFloat32, simpleFloat64:
			return Float64Type
		}
	}
	return InvalidType
}

// NextType returns the type of the next item in the slice.
func NextType(b []byte) Type {
	if len(b) == 0 {
		return InvalidType
	}
	return getType(b[0])
}
