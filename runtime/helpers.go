package cbor

// peekKind returns the Kind of the data item beginning at initial byte b,
// without distinguishing payload details that require reading further
// bytes (e.g. it reports KindInt for any uint-major item regardless of
// whether the value actually fits an int64 slot; the Parser refines that
// once it has read the argument).
func peekKind(b byte) Kind {
	major := getMajorType(b)
	addInfo := getAddInfo(b)
	switch major {
	case majorTypeUint:
		return KindInt
	case majorTypeNegInt:
		return KindLong
	case majorTypeBytes:
		if addInfo == addInfoIndefinite {
			return KindBytesStart
		}
		return KindBytes
	case majorTypeText:
		if addInfo == addInfoIndefinite {
			return KindTextStart
		}
		return KindText
	case majorTypeArray:
		if addInfo == addInfoIndefinite {
			return KindArrayStart
		}
		return KindArrayHeader
	case majorTypeMap:
		if addInfo == addInfoIndefinite {
			return KindMapStart
		}
		return KindMapHeader
	case majorTypeTag:
		return KindTag
	case majorTypeSimple:
		switch addInfo {
		case simpleFalse, simpleTrue:
			return KindBool
		case simpleNull:
			return KindNull
		case simpleUndefined:
			return KindUndefined
		case simpleFloat16:
			return KindFloat16
		case simpleFloat32:
			return KindFloat
		case simpleFloat64:
			return KindDouble
		case simpleBreak:
			return KindBreak
		default:
			return KindSimpleValue
		}
	}
	return 0
}

// peekNextKind returns the Kind of the next data item in b, or 0 if b is
// empty.
func peekNextKind(b []byte) Kind {
	if len(b) == 0 {
		return 0
	}
	return peekKind(b[0])
}

// PeekNull reports whether b begins with a CBOR null item, without
// consuming it. Generated struct decoders use it to distinguish a present
// null from an absent pointer field before committing to ReadNilBytes.
func PeekNull(b []byte) bool {
	return peekNextKind(b) == KindNull
}

// Require ensures that b has capacity for at least n additional bytes
// without reallocation. It returns a slice that shares the original
// contents and has sufficient capacity for appending n bytes.
func Require(b []byte, n int) []byte {
	if cap(b)-len(b) >= n {
		return b
	}
	nb := make([]byte, len(b), len(b)+n)
	copy(nb, b)
	return nb
}
