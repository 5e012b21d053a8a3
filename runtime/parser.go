package cbor

// Parser pulls well-formed CBOR data items from an Input and pushes the
// corresponding Events into a Receiver. It has no per-call state of its
// own; all structural bookkeeping (nesting depth, nested nesting state
// across resumed Peek boundaries) lives on the Receiver side (typically a
// Validator) so a Parser value can be shared across goroutines.
type Parser struct{}

// Pull reads exactly one top-level CBOR data item from in, pushing Events
// describing it (and, recursively, its children) into r. It returns the
// advanced Input and, on success, a nil error.
func (Parser) Pull(in Input, r Receiver) (Input, error) {
	b, err := in.Peek(in.Len())
	if err != nil {
		return in, err
	}
	consumed, err := walkItem(b, r, 0)
	if err != nil {
		return in, err
	}
	in.Advance(consumed)
	return in, nil
}

// readArgument decodes the additional-info argument that follows a CBOR
// initial byte: either the direct value (0..23), or a following
// big-endian uint8/16/32/64. hdrLen is the total bytes consumed including
// the initial byte. indefinite reports addInfo == 31.
func readArgument(b []byte) (arg uint64, hdrLen int, indefinite bool, err error) {
	if len(b) < 1 {
		return 0, 0, false, InsufficientInputError{Needed: 1, Available: 0}
	}
	addInfo := getAddInfo(b[0])
	switch {
	case addInfo <= addInfoDirect:
		return uint64(addInfo), 1, false, nil
	case addInfo == addInfoUint8:
		if len(b) < 2 {
			return 0, 0, false, InsufficientInputError{Needed: 2, Available: len(b)}
		}
		return uint64(b[1]), 2, false, nil
	case addInfo == addInfoUint16:
		if len(b) < 3 {
			return 0, 0, false, InsufficientInputError{Needed: 3, Available: len(b)}
		}
		return uint64(bigEndian.Uint16(b[1:3])), 3, false, nil
	case addInfo == addInfoUint32:
		if len(b) < 5 {
			return 0, 0, false, InsufficientInputError{Needed: 5, Available: len(b)}
		}
		return uint64(bigEndian.Uint32(b[1:5])), 5, false, nil
	case addInfo == addInfoUint64:
		if len(b) < 9 {
			return 0, 0, false, InsufficientInputError{Needed: 9, Available: len(b)}
		}
		return bigEndian.Uint64(b[1:9]), 9, false, nil
	case addInfo == addInfoIndefinite:
		return 0, 1, true, nil
	default:
		return 0, 0, false, InvalidCborDataError{Reason: "reserved additional-info value"}
	}
}

// walkItem parses one data item starting at b[0], emitting Events into r,
// and returns the number of bytes it consumed.
func walkItem(b []byte, r Receiver, depth int) (int, error) {
	if depth > recursionLimit {
		return 0, ErrRecursion
	}
	if len(b) < 1 {
		return 0, InsufficientInputError{Needed: 1, Available: 0}
	}

	major := getMajorType(b[0])
	switch major {
	case majorTypeUint:
		arg, hdrLen, _, err := readArgument(b)
		if err != nil {
			return 0, err
		}
		ev := Event{Kind: KindInt, Int: int64(arg)}
		if arg > 1<<63-1 {
			ev = Event{Kind: KindPosOverLong, Uint: arg}
		}
		if err := r.OnEvent(ev); err != nil {
			return 0, err
		}
		return hdrLen, nil

	case majorTypeNegInt:
		arg, hdrLen, _, err := readArgument(b)
		if err != nil {
			return 0, err
		}
		var ev Event
		if arg <= 1<<63-1 {
			ev = Event{Kind: KindLong, Int: -1 - int64(arg)}
		} else {
			ev = Event{Kind: KindNegOverLong, Uint: arg}
		}
		if err := r.OnEvent(ev); err != nil {
			return 0, err
		}
		return hdrLen, nil

	case majorTypeBytes, majorTypeText:
		return walkStringy(b, major, r, depth)

	case majorTypeArray:
		return walkArray(b, r, depth)

	case majorTypeMap:
		return walkMap(b, r, depth)

	case majorTypeTag:
		arg, hdrLen, _, err := readArgument(b)
		if err != nil {
			return 0, err
		}
		if err := r.OnEvent(Event{Kind: KindTag, Tag: Tag(arg)}); err != nil {
			return 0, err
		}
		n, err := walkItem(b[hdrLen:], r, depth+1)
		if err != nil {
			return 0, err
		}
		return hdrLen + n, nil

	case majorTypeSimple:
		return walkSimple(b, r)
	}
	return 0, InvalidCborDataError{Reason: "unreachable major type"}
}

func walkSimple(b []byte, r Receiver) (int, error) {
	addInfo := getAddInfo(b[0])
	switch addInfo {
	case simpleFalse:
		return 1, r.OnEvent(Event{Kind: KindBool, Bool: false})
	case simpleTrue:
		return 1, r.OnEvent(Event{Kind: KindBool, Bool: true})
	case simpleNull:
		return 1, r.OnEvent(Event{Kind: KindNull})
	case simpleUndefined:
		return 1, r.OnEvent(Event{Kind: KindUndefined})
	case simpleFloat16:
		if len(b) < 3 {
			return 0, InsufficientInputError{Needed: 3, Available: len(b)}
		}
		bits := bigEndian.Uint16(b[1:3])
		return 3, r.OnEvent(Event{Kind: KindFloat16, Float16Bits: bits, Float32: float16BitsToFloat32(bits)})
	case simpleFloat32:
		if len(b) < 5 {
			return 0, InsufficientInputError{Needed: 5, Available: len(b)}
		}
		f, _, err := ReadFloat32Bytes(b)
		if err != nil {
			return 0, err
		}
		return 5, r.OnEvent(Event{Kind: KindFloat, Float32: f})
	case simpleFloat64:
		if len(b) < 9 {
			return 0, InsufficientInputError{Needed: 9, Available: len(b)}
		}
		f, _, err := ReadFloat64Bytes(b)
		if err != nil {
			return 0, err
		}
		return 9, r.OnEvent(Event{Kind: KindDouble, Float64: f})
	case simpleBreak:
		return 1, r.OnEvent(Event{Kind: KindBreak})
	case addInfoUint8:
		if len(b) < 2 {
			return 0, InsufficientInputError{Needed: 2, Available: len(b)}
		}
		sv := SimpleValue(b[1])
		if !sv.Legal() {
			return 0, InvalidCborDataError{Reason: "reserved simple value"}
		}
		return 2, r.OnEvent(Event{Kind: KindSimpleValue, SimpleValue: sv})
	default:
		if addInfo >= 24 && addInfo <= 31 {
			return 0, InvalidCborDataError{Reason: "reserved additional-info value in major type 7"}
		}
		return 1, r.OnEvent(Event{Kind: KindSimpleValue, SimpleValue: SimpleValue(addInfo)})
	}
}

func walkStringy(b []byte, major uint8, r Receiver, depth int) (int, error) {
	startKind, chunkKind := KindBytesStart, KindBytes
	if major == majorTypeText {
		startKind, chunkKind = KindTextStart, KindText
	}

	arg, hdrLen, indefinite, err := readArgument(b)
	if err != nil {
		return 0, err
	}
	if !indefinite {
		length := int(arg)
		if hdrLen+length > len(b) {
			return 0, InsufficientInputError{Needed: hdrLen + length, Available: len(b)}
		}
		payload := b[hdrLen : hdrLen+length]
		if major == majorTypeText && ValidateUTF8OnDecode && !isUTF8Valid(payload) {
			return 0, ErrInvalidUTF8
		}
		if err := r.OnEvent(Event{Kind: chunkKind, Bytes: payload, Length: uint64(length)}); err != nil {
			return 0, err
		}
		return hdrLen + length, nil
	}

	if err := r.OnEvent(Event{Kind: startKind}); err != nil {
		return 0, err
	}
	pos := hdrLen
	for {
		if pos >= len(b) {
			return 0, InsufficientInputError{Needed: 1, Available: 0}
		}
		if b[pos] == makeByte(majorTypeSimple, simpleBreak) {
			if err := r.OnEvent(Event{Kind: KindBreak}); err != nil {
				return 0, err
			}
			return pos + 1, nil
		}
		if getMajorType(b[pos]) != major {
			return 0, InvalidCborDataError{Reason: "indefinite-length chunk has wrong major type"}
		}
		n, err := walkItem(b[pos:], r, depth+1)
		if err != nil {
			return 0, err
		}
		pos += n
	}
}

func walkArray(b []byte, r Receiver, depth int) (int, error) {
	arg, hdrLen, indefinite, err := readArgument(b)
	if err != nil {
		return 0, err
	}
	if !indefinite {
		if err := r.OnEvent(Event{Kind: KindArrayHeader, Length: arg}); err != nil {
			return 0, err
		}
		pos := hdrLen
		for i := uint64(0); i < arg; i++ {
			n, err := walkItem(b[pos:], r, depth+1)
			if err != nil {
				return 0, err
			}
			pos += n
		}
		return pos, nil
	}

	if err := r.OnEvent(Event{Kind: KindArrayStart}); err != nil {
		return 0, err
	}
	pos := hdrLen
	for {
		if pos >= len(b) {
			return 0, InsufficientInputError{Needed: 1, Available: 0}
		}
		if b[pos] == makeByte(majorTypeSimple, simpleBreak) {
			if err := r.OnEvent(Event{Kind: KindBreak}); err != nil {
				return 0, err
			}
			return pos + 1, nil
		}
		n, err := walkItem(b[pos:], r, depth+1)
		if err != nil {
			return 0, err
		}
		pos += n
	}
}

func walkMap(b []byte, r Receiver, depth int) (int, error) {
	arg, hdrLen, indefinite, err := readArgument(b)
	if err != nil {
		return 0, err
	}
	if !indefinite {
		if err := r.OnEvent(Event{Kind: KindMapHeader, Length: arg}); err != nil {
			return 0, err
		}
		pos := hdrLen
		for i := uint64(0); i < arg; i++ {
			n, err := walkItem(b[pos:], r, depth+1) // key
			if err != nil {
				return 0, err
			}
			pos += n
			n, err = walkItem(b[pos:], r, depth+1) // value
			if err != nil {
				return 0, err
			}
			pos += n
		}
		return pos, nil
	}

	if err := r.OnEvent(Event{Kind: KindMapStart}); err != nil {
		return 0, err
	}
	pos := hdrLen
	for {
		if pos >= len(b) {
			return 0, InsufficientInputError{Needed: 1, Available: 0}
		}
		if b[pos] == makeByte(majorTypeSimple, simpleBreak) {
			if err := r.OnEvent(Event{Kind: KindBreak}); err != nil {
				return 0, err
			}
			return pos + 1, nil
		}
		n, err := walkItem(b[pos:], r, depth+1) // key
		if err != nil {
			return 0, err
		}
		pos += n
		n, err = walkItem(b[pos:], r, depth+1) // value
		if err != nil {
			return 0, err
		}
		pos += n
	}
}
