package cbor

// ValidateWellFormedBytes checks that the next CBOR data item in b is
// well-formed per RFC 8949 §3 without decoding it into any Go type, and
// returns the bytes left over after that item. It is the byte-level
// counterpart to Validator: where Validator enforces structural rules on
// an Event stream already produced by Parser, ValidateWellFormedBytes
// walks the wire encoding directly, for callers that want a fast
// accept/reject check (a proxy deciding whether to forward a payload, a
// cache rejecting corrupt entries) without paying for event dispatch.
//
// Checks performed:
//   - structural correctness of arrays, maps, tags, and simple values
//   - string UTF-8 validity (major type 3)
//   - reserved additional-info values 28, 29, 30 are rejected
func ValidateWellFormedBytes(b []byte) (rest []byte, err error) {
	return validateWellFormed(b, 0)
}

// IsWellFormed reports whether b begins with a single well-formed CBOR
// data item, ignoring any trailing bytes.
func IsWellFormed(b []byte) bool {
	_, err := ValidateWellFormedBytes(b)
	return err == nil
}

// ValidateSequence checks that every top-level item in b (an RFC 8742
// CBOR Sequence) is well-formed, stopping at the first error.
func ValidateSequence(b []byte) error {
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
	if depth > recursionLimit {
		return b, ErrMaxDepthExceeded
	}
	if len(b) < 1 {
		return b, ErrShortBytes
	}
	lead := b[0]
	major := getMajorType(lead)
	add := getAddInfo(lead)

	if add == 28 || add == 29 || add == 30 {
		return b, InvalidPrefixError{Want: major, Got: major}
	}

	switch major {
	case majorTypeUint, majorTypeNegInt, majorTypeTag:
		_, o, err := readUintCore(b, major)
		if err != nil {
			return b, err
		}
		if major == majorTypeTag {
			return validateWellFormed(o, depth+1)
		}
		return o, nil

	case majorTypeBytes:
		return validateChunked(b, majorTypeBytes, func(p []byte) ([]byte, error) {
			sz, o, err := readUintCore(p, majorTypeBytes)
			if err != nil {
				return p, err
			}
			if uint64(len(o)) < sz {
				return p, ErrShortBytes
			}
			return o[sz:], nil
		})

	case majorTypeText:
		return validateChunked(b, majorTypeText, func(p []byte) ([]byte, error) {
			s, o, err := ReadStringZC(p)
			if err != nil {
				return p, err
			}
			if !isUTF8Valid(s) {
				return p, ErrInvalidUTF8
			}
			return o, nil
		})

	case majorTypeArray:
		if add == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return p[1:], nil
				}
				var err error
				p, err = validateWellFormed(p, depth+1)
				if err != nil {
					return b, err
				}
			}
		}
		sz, p, err := readUintCore(b, majorTypeArray)
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < sz; i++ {
			p, err = validateWellFormed(p, depth+1)
			if err != nil {
				return b, err
			}
		}
		return p, nil

	case majorTypeMap:
		if add == addInfoIndefinite {
			p := b[1:]
			for {
				if len(p) < 1 {
					return b, ErrShortBytes
				}
				if p[0] == makeByte(majorTypeSimple, simpleBreak) {
					return p[1:], nil
				}
				var err error
				p, err = validateWellFormed(p, depth+1) // key
				if err != nil {
					return b, err
				}
				p, err = validateWellFormed(p, depth+1) // value
				if err != nil {
					return b, err
				}
			}
		}
		sz, p, err := readUintCore(b, majorTypeMap)
		if err != nil {
			return b, err
		}
		for i := uint64(0); i < sz; i++ {
			p, err = validateWellFormed(p, depth+1) // key
			if err != nil {
				return b, err
			}
			p, err = validateWellFormed(p, depth+1) // value
			if err != nil {
				return b, err
			}
		}
		return p, nil

	case majorTypeSimple:
		switch add {
		case simpleFalse, simpleTrue, simpleNull, simpleUndefined:
			return b[1:], nil
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
		case addInfoUint8: // one-byte simple value (0xf8 xx)
			if len(b) < 2 {
				return b, ErrShortBytes
			}
			return b[2:], nil
		default:
			if add < 20 { // unassigned simple values are still well-formed
				return b[1:], nil
			}
			return b, &ErrUnsupportedType{}
		}
	}
	return b, &ErrUnsupportedType{}
}

// validateChunked handles the shared indefinite/definite-length walk for
// byte and text strings: major is either majorTypeBytes or majorTypeText,
// and readChunk validates and skips exactly one definite-length chunk
// from p, returning the bytes left over after it.
func validateChunked(b []byte, major uint8, readChunk func(p []byte) ([]byte, error)) ([]byte, error) {
	lead := b[0]
	if getAddInfo(lead) != addInfoIndefinite {
		return readChunk(b)
	}
	p := b[1:]
	for {
		if len(p) < 1 {
			return b, ErrShortBytes
		}
		if p[0] == makeByte(majorTypeSimple, simpleBreak) {
			return p[1:], nil
		}
		if getMajorType(p[0]) != major {
			return b, InvalidPrefixError{Want: major, Got: getMajorType(p[0])}
		}
		o, err := readChunk(p)
		if err != nil {
			return b, err
		}
		p = o
	}
}
