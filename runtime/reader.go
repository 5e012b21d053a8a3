package cbor

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Reader is a pull-based, typed view over a CBOR byte stream. Unlike the
// Event/Receiver protocol (push, generic over every Kind), Reader exposes
// one method per application-facing shape, with a has/read/tryRead
// convention: hasX peeks without consuming, readX consumes and errors on a
// mismatch, tryReadX consumes only if the next item is an X and reports
// whether it did.
//
// Every successful typed read also feeds the item it consumed through a
// Validator wrapping a BufferingReceiver (the C6/C5 chain from spec §2),
// so nesting depth, container arity, Break legality, and tag/content-type
// pairing are enforced on the live decode path rather than by a throwaway
// probe run separately over the same bytes.
//
// A Reader also optionally enforces the decode-side half of RFC 8949's
// deterministic encoding rules: SetStrictDecode rejects integers, lengths,
// and floats that aren't minimally encoded; SetDeterministicDecode
// additionally rejects indefinite-length containers and strings;
// SetMaxContainerLen bounds declared array/map sizes.
type Reader struct {
	origin []byte // the slice passed to NewReader, for Mark/Restore
	b      []byte // unconsumed suffix of origin

	validator *Validator

	strict        bool
	deterministic bool
	maxContainer  uint32
}

// NewReader wraps b for reading. b is not copied; the caller must not
// mutate it while the Reader is in use.
func NewReader(b []byte) *Reader {
	return &Reader{
		origin:    b,
		b:         b,
		validator: NewValidator(NewBufferingReceiver(), ValidationConfig{}),
	}
}

// NewReaderBytes is an alias for NewReader, matching the naming used by
// generated decoders that configure strict/deterministic mode before
// reading.
func NewReaderBytes(b []byte) *Reader { return NewReader(b) }

// SetStrictDecode controls whether the Reader enforces canonical (minimal)
// length and float encodings, returning ErrNonCanonicalLength or
// ErrNonCanonicalFloat when it encounters a wider-than-necessary one.
func (r *Reader) SetStrictDecode(strict bool) { r.strict = strict }

// SetDeterministicDecode controls whether the Reader rejects
// indefinite-length arrays, maps, byte strings, and text strings with
// ErrIndefiniteForbidden. It also configures the underlying Validator to
// reject indefinite array/map Start events outright.
func (r *Reader) SetDeterministicDecode(det bool) {
	r.deterministic = det
	r.validator.cfg.ProhibitUnboundedLengths = det
}

// SetMaxContainerLen bounds the declared length of arrays and maps the
// Reader will accept. Zero (the default) disables the limit. This also
// configures the underlying Validator's container-length cap, which
// additionally bounds the accumulated size of indefinite-length
// containers (a limit SetMaxContainerLen alone cannot express).
func (r *Reader) SetMaxContainerLen(max uint32) {
	r.maxContainer = max
	r.validator.cfg.MaxContainerLength = uint64(max)
}

// SetValidation replaces the Reader's structural-validation configuration
// outright (nesting depth, container-length cap, unbounded-length policy).
// Used by the Entry Facade (C10) to apply a caller-supplied DecodeConfig.
func (r *Reader) SetValidation(cfg ValidationConfig) {
	r.validator.cfg = cfg
	if cfg.MaxContainerLength > 0 && cfg.MaxContainerLength <= math.MaxUint32 {
		r.maxContainer = uint32(cfg.MaxContainerLength)
	}
}

// validate feeds ev through the Reader's Validator, which enforces
// nesting depth, container arity/Break legality, and tag/content-type
// pairing. Called after a read has been fully parsed but before its bytes
// are committed via advance, so a validation failure leaves the Reader's
// position unchanged.
func (r *Reader) validate(ev Event) error { return r.validator.OnEvent(ev) }

// Remaining returns the bytes not yet consumed.
func (r *Reader) Remaining() []byte { return r.b }

// AtEnd reports whether every byte has been consumed.
func (r *Reader) AtEnd() bool { return len(r.b) == 0 }

// PeekKind reports the Kind of the next data item without consuming it.
// Returns 0 if the Reader is at end.
func (r *Reader) PeekKind() Kind { return peekNextKind(r.b) }

// ReaderMark is an opaque save point returned by Reader.Mark, reinstated
// by Reader.Restore. It captures the input cursor and the Validator's
// level stack (O(depth), not O(bytes) — the stack holds one entry per open
// container).
type ReaderMark struct {
	pos   int
	stack []level
}

// Mark returns an opaque save point for the current read position.
// Restore(mark) rewinds the Reader to it.
func (r *Reader) Mark() ReaderMark {
	return ReaderMark{
		pos:   len(r.origin) - len(r.b),
		stack: append([]level(nil), r.validator.stack...),
	}
}

// Restore rewinds the Reader to a position previously returned by Mark.
func (r *Reader) Restore(m ReaderMark) {
	r.b = r.origin[m.pos:]
	r.validator.stack = append([]level(nil), m.stack...)
}

func (r *Reader) advance(o []byte) { r.b = o }

// --- Null / Undefined / Bool ---

func (r *Reader) HasNull() bool { return r.PeekKind() == KindNull }

func (r *Reader) ReadNull() error {
	o, err := ReadNilBytes(r.b)
	if err != nil {
		return err
	}
	if err := r.validate(Event{Kind: KindNull}); err != nil {
		return err
	}
	r.advance(o)
	return nil
}

func (r *Reader) TryReadNull() bool {
	if !r.HasNull() {
		return false
	}
	_ = r.ReadNull()
	return true
}

func (r *Reader) HasUndefined() bool { return r.PeekKind() == KindUndefined }

func (r *Reader) ReadUndefined() error {
	if !r.HasUndefined() {
		return UnexpectedDataItemError{Expected: KindUndefined, Got: r.PeekKind()}
	}
	if err := r.validate(Event{Kind: KindUndefined}); err != nil {
		return err
	}
	r.advance(r.b[1:])
	return nil
}

func (r *Reader) HasBool() bool { return r.PeekKind() == KindBool }

func (r *Reader) ReadBool() (bool, error) {
	v, o, err := ReadBoolBytes(r.b)
	if err != nil {
		return false, err
	}
	if err := r.validate(Event{Kind: KindBool, Bool: v}); err != nil {
		return false, err
	}
	r.advance(o)
	return v, nil
}

// --- Integers ---

func (r *Reader) HasInt() bool {
	k := r.PeekKind()
	return k == KindInt || k == KindLong
}

// ReadInt64 reads any integer item that fits an int64. In strict mode,
// a non-minimal encoding of the magnitude is rejected with
// ErrNonCanonicalLength.
func (r *Reader) ReadInt64() (int64, error) {
	if err := r.checkStrictIntLength(); err != nil {
		return 0, err
	}
	kind := KindInt
	if len(r.b) > 0 && getMajorType(r.b[0]) == majorTypeNegInt {
		kind = KindLong
	}
	i, o, err := ReadInt64Bytes(r.b)
	if err != nil {
		return 0, err
	}
	if err := r.validate(Event{Kind: kind, Int: i}); err != nil {
		return 0, err
	}
	r.advance(o)
	return i, nil
}

// ReadUint64 reads an unsigned integer item (major type 0). In strict
// mode, a non-minimal encoding is rejected with ErrNonCanonicalLength.
func (r *Reader) ReadUint64() (uint64, error) {
	if r.strict && len(r.b) > 0 && getMajorType(r.b[0]) == majorTypeUint {
		nonCanon, err := isNonCanonicalLength(r.b, majorTypeUint)
		if err != nil {
			return 0, err
		}
		if nonCanon {
			return 0, ErrNonCanonicalLength
		}
	}
	u, o, err := ReadUint64Bytes(r.b)
	if err != nil {
		return 0, err
	}
	if err := r.validate(Event{Kind: KindInt}); err != nil {
		return 0, err
	}
	r.advance(o)
	return u, nil
}

// checkStrictIntLength applies the strict-mode canonical-length check
// shared by ReadInt64 and other integer-reading entrypoints.
func (r *Reader) checkStrictIntLength() error {
	if !r.strict || len(r.b) == 0 {
		return nil
	}
	maj := getMajorType(r.b[0])
	if maj != majorTypeUint && maj != majorTypeNegInt {
		return nil
	}
	nonCanon, err := isNonCanonicalLength(r.b, maj)
	if err != nil {
		return err
	}
	if nonCanon {
		return ErrNonCanonicalLength
	}
	return nil
}

// --- Floats ---

func (r *Reader) HasFloat() bool {
	switch r.PeekKind() {
	case KindFloat16, KindFloat, KindDouble:
		return true
	default:
		return false
	}
}

// ReadFloat64 reads any float item (16/32/64-bit), widened to float64. In
// strict mode, a float32 or float64 item that could have been encoded more
// narrowly without losing precision is rejected with ErrNonCanonicalFloat;
// float16 items are always minimal.
func (r *Reader) ReadFloat64() (float64, error) {
	orig := r.b
	switch r.PeekKind() {
	case KindFloat16:
		f, o, err := ReadFloat16Bytes(r.b)
		if err != nil {
			return 0, err
		}
		if err := r.validate(Event{Kind: KindFloat16, Float32: f}); err != nil {
			return 0, err
		}
		r.advance(o)
		return float64(f), nil
	case KindFloat:
		f, o, err := ReadFloat32Bytes(r.b)
		if err != nil {
			return 0, err
		}
		if r.strict {
			if err := checkCanonicalFloatSpan(orig, o, float64(f)); err != nil {
				return 0, err
			}
		}
		if err := r.validate(Event{Kind: KindFloat, Float32: f}); err != nil {
			return 0, err
		}
		r.advance(o)
		return float64(f), nil
	case KindDouble:
		f, o, err := ReadFloat64Bytes(r.b)
		if err != nil {
			return 0, err
		}
		if r.strict {
			if err := checkCanonicalFloatSpan(orig, o, f); err != nil {
				return 0, err
			}
		}
		if err := r.validate(Event{Kind: KindDouble, Float64: f}); err != nil {
			return 0, err
		}
		r.advance(o)
		return f, nil
	default:
		return 0, UnexpectedDataItemError{Expected: KindDouble, Got: r.PeekKind()}
	}
}

// ReadFloat32 reads a float item encoded as a 32-bit IEEE-754 value. In
// strict mode, a non-minimal encoding (one that could have been narrowed to
// float16 without losing precision) is rejected with ErrNonCanonicalFloat.
func (r *Reader) ReadFloat32() (float32, error) {
	orig := r.b
	f, o, err := ReadFloat32Bytes(r.b)
	if err != nil {
		return 0, err
	}
	if r.strict {
		if err := checkCanonicalFloatSpan(orig, o, float64(f)); err != nil {
			return 0, err
		}
	}
	if err := r.validate(Event{Kind: KindFloat, Float32: f}); err != nil {
		return 0, err
	}
	r.advance(o)
	return f, nil
}

// checkCanonicalFloatSpan reports ErrNonCanonicalFloat if the bytes
// consumed to produce v (orig[:len(orig)-len(rest)]) differ from what
// AppendFloatCanonical would have produced for v.
func checkCanonicalFloatSpan(orig, rest []byte, v float64) error {
	canon := AppendFloatCanonical(nil, v)
	encLen := len(orig) - len(rest)
	if encLen < 0 || encLen > len(orig) {
		return ErrShortBytes
	}
	if len(canon) != encLen || !bytes.Equal(orig[:encLen], canon) {
		return ErrNonCanonicalFloat
	}
	return nil
}

// --- Bytes / Text ---

func (r *Reader) HasBytes() bool { return r.PeekKind() == KindBytes || r.PeekKind() == KindBytesStart }

// ReadBytes reads a byte string, concatenating chunks if indefinite-length.
// In strict mode, a non-minimal length encoding is rejected with
// ErrNonCanonicalLength; in deterministic mode, an indefinite-length byte
// string is rejected with ErrIndefiniteForbidden.
func (r *Reader) ReadBytes() ([]byte, error) {
	if len(r.b) < 1 {
		return nil, ErrShortBytes
	}
	if r.strict {
		nonCanon, err := isNonCanonicalLength(r.b, majorTypeBytes)
		if err != nil {
			return nil, err
		}
		if nonCanon {
			return nil, ErrNonCanonicalLength
		}
	}
	if r.deterministic && getMajorType(r.b[0]) == majorTypeBytes && getAddInfo(r.b[0]) == addInfoIndefinite {
		return nil, ErrIndefiniteForbidden
	}
	v, o, err := ReadBytesBytes(r.b, nil)
	if err != nil {
		return nil, err
	}
	// The whole (possibly chunked) byte string is one complete item from
	// the Validator's perspective, whatever its wire chunking.
	if err := r.validate(Event{Kind: KindBytes, Bytes: v}); err != nil {
		return nil, err
	}
	r.advance(o)
	return v, nil
}

func (r *Reader) HasText() bool { return r.PeekKind() == KindText || r.PeekKind() == KindTextStart }

// ReadText reads a text string, concatenating chunks if indefinite-length.
// Strict and deterministic modes apply the same checks as ReadBytes.
func (r *Reader) ReadText() (string, error) {
	if err := r.checkStringMode(majorTypeText); err != nil {
		return "", err
	}
	s, o, err := ReadStringBytes(r.b)
	if err != nil {
		return "", err
	}
	if err := r.validate(Event{Kind: KindText, Bytes: []byte(s)}); err != nil {
		return "", err
	}
	r.advance(o)
	return s, nil
}

// ReadString is an alias for ReadText, matching the naming used by
// generated decoders ported from the strict/deterministic Reader API.
func (r *Reader) ReadString() (string, error) { return r.ReadText() }

func (r *Reader) checkStringMode(major uint8) error {
	if len(r.b) < 1 {
		return ErrShortBytes
	}
	if r.strict {
		nonCanon, err := isNonCanonicalLength(r.b, major)
		if err != nil {
			return err
		}
		if nonCanon {
			return ErrNonCanonicalLength
		}
	}
	if r.deterministic && getMajorType(r.b[0]) == major && getAddInfo(r.b[0]) == addInfoIndefinite {
		return ErrIndefiniteForbidden
	}
	return nil
}

// --- Arrays ---

func (r *Reader) HasArrayHeader() bool { return r.PeekKind() == KindArrayHeader }
func (r *Reader) HasArrayStart() bool  { return r.PeekKind() == KindArrayStart }

// ReadArrayHeader reads a definite-length array header, returning its
// declared element count. In strict mode, a non-minimal length encoding
// is rejected with ErrNonCanonicalLength; if a container limit is
// configured, a declared size exceeding it is rejected with
// ErrContainerTooLarge.
func (r *Reader) ReadArrayHeader() (uint32, error) {
	if len(r.b) < 1 {
		return 0, ErrShortBytes
	}
	if r.strict {
		nonCanon, err := isNonCanonicalLength(r.b, majorTypeArray)
		if err != nil {
			return 0, err
		}
		if nonCanon {
			return 0, ErrNonCanonicalLength
		}
	}
	sz, o, err := ReadArrayHeaderBytes(r.b)
	if err != nil {
		return 0, err
	}
	if r.maxContainer > 0 && sz > r.maxContainer {
		return 0, ErrContainerTooLarge
	}
	if err := r.validate(Event{Kind: KindArrayHeader, Length: uint64(sz)}); err != nil {
		return 0, err
	}
	r.advance(o)
	return sz, nil
}

// ReadArrayStart reads either a definite- or indefinite-length array
// header, reporting which it saw. In deterministic mode, an
// indefinite-length array is rejected with ErrIndefiniteForbidden.
func (r *Reader) ReadArrayStart() (sz uint32, indefinite bool, err error) {
	sz, indef, o, err := ReadArrayStartBytes(r.b)
	if err != nil {
		return 0, false, err
	}
	if indef && r.deterministic {
		return 0, false, ErrIndefiniteForbidden
	}
	kind := KindArrayHeader
	if indef {
		kind = KindArrayStart
	}
	if err := r.validate(Event{Kind: kind, Length: uint64(sz)}); err != nil {
		return 0, false, err
	}
	r.advance(o)
	return sz, indef, nil
}

// --- Maps ---

func (r *Reader) HasMapHeader() bool { return r.PeekKind() == KindMapHeader }
func (r *Reader) HasMapStart() bool  { return r.PeekKind() == KindMapStart }

// ReadMapHeader reads a definite-length map header, returning its declared
// pair count. Strict-mode and container-limit checks mirror
// ReadArrayHeader.
func (r *Reader) ReadMapHeader() (uint32, error) {
	if len(r.b) < 1 {
		return 0, ErrShortBytes
	}
	if r.strict {
		nonCanon, err := isNonCanonicalLength(r.b, majorTypeMap)
		if err != nil {
			return 0, err
		}
		if nonCanon {
			return 0, ErrNonCanonicalLength
		}
	}
	sz, o, err := ReadMapHeaderBytes(r.b)
	if err != nil {
		return 0, err
	}
	if r.maxContainer > 0 && sz > r.maxContainer {
		return 0, ErrContainerTooLarge
	}
	if err := r.validate(Event{Kind: KindMapHeader, Length: uint64(sz)}); err != nil {
		return 0, err
	}
	r.advance(o)
	return sz, nil
}

// ReadMapStart reads an indefinite-length map start marker. In
// deterministic mode, this is always rejected with ErrIndefiniteForbidden,
// since deterministic decoding forbids indefinite-length maps.
func (r *Reader) ReadMapStart() error {
	if !r.HasMapStart() {
		return UnexpectedDataItemError{Expected: KindMapStart, Got: r.PeekKind()}
	}
	if r.deterministic {
		return ErrIndefiniteForbidden
	}
	if err := r.validate(Event{Kind: KindMapStart}); err != nil {
		return err
	}
	r.advance(r.b[1:])
	return nil
}

// --- Break ---

func (r *Reader) HasBreak() bool { return r.PeekKind() == KindBreak }

// TryReadBreak consumes a Break if the next item is one, reporting whether
// it did.
func (r *Reader) TryReadBreak() (bool, error) {
	o, ok, err := ReadBreakBytes(r.b)
	if err != nil {
		return false, err
	}
	if ok {
		if err := r.validate(Event{Kind: KindBreak}); err != nil {
			return false, err
		}
		r.advance(o)
	}
	return ok, nil
}

// --- Tags ---

func (r *Reader) HasTag() bool { return r.PeekKind() == KindTag }

// ReadTag reads a tag's numeric code, leaving the tagged value as the next
// item. The Validator records the tag's content-type restriction (§4.6
// "Tag semantics") and enforces it against whatever is read next.
func (r *Reader) ReadTag() (Tag, error) {
	n, o, err := ReadTagBytes(r.b)
	if err != nil {
		return 0, err
	}
	if err := r.validate(Event{Kind: KindTag, Tag: Tag(n)}); err != nil {
		return 0, err
	}
	r.advance(o)
	return Tag(n), nil
}

// --- Simple values ---

func (r *Reader) HasSimpleValue() bool { return r.PeekKind() == KindSimpleValue }

func (r *Reader) ReadSimpleValue() (SimpleValue, error) {
	v, o, err := ReadSimpleValue(r.b)
	if err != nil {
		return 0, err
	}
	if err := r.validate(Event{Kind: KindSimpleValue, SimpleValue: SimpleValue(v)}); err != nil {
		return 0, err
	}
	r.advance(o)
	return SimpleValue(v), nil
}

// Skip discards the next complete data item, whatever its Kind. The item
// is still accounted for by the Validator (arity, tag restriction) at the
// current level, even though its internals are discarded by byte count
// rather than re-parsed as typed events.
func (r *Reader) Skip() error {
	kind := r.PeekKind()
	o, err := Skip(r.b)
	if err != nil {
		return err
	}
	if err := r.validator.accountOpaqueItem(kind); err != nil {
		return err
	}
	r.advance(o)
	return nil
}

// isNonCanonicalLength reports whether the leading header in b for the
// given major type uses a non-minimal integer encoding for its length or
// magnitude, per RFC 8949's deterministic-encoding rules.
func isNonCanonicalLength(b []byte, expectedMajor uint8) (bool, error) {
	if len(b) < 1 {
		return false, ErrShortBytes
	}
	if getMajorType(b[0]) != expectedMajor {
		return false, badPrefix(expectedMajor, getMajorType(b[0]))
	}
	add := getAddInfo(b[0])
	if add >= 28 && add <= 30 {
		return false, InvalidAdditionalInfoError{Major: expectedMajor, Info: add}
	}
	switch add {
	case addInfoIndefinite:
		// Canonicality applies to definite lengths; indefinite is
		// handled separately by deterministic mode.
		return false, nil
	case 0, 1, 2, 3, 4, 5, 6, 7,
		8, 9, 10, 11, 12, 13, 14, 15,
		16, 17, 18, 19, 20, 21, 22, 23:
		return false, nil
	case addInfoUint8:
		if len(b) < 2 {
			return false, ErrShortBytes
		}
		return uint64(b[1]) <= 23, nil
	case addInfoUint16:
		if len(b) < 3 {
			return false, ErrShortBytes
		}
		return uint64(binary.BigEndian.Uint16(b[1:])) <= math.MaxUint8, nil
	case addInfoUint32:
		if len(b) < 5 {
			return false, ErrShortBytes
		}
		return uint64(binary.BigEndian.Uint32(b[1:])) <= math.MaxUint16, nil
	case addInfoUint64:
		if len(b) < 9 {
			return false, ErrShortBytes
		}
		return binary.BigEndian.Uint64(b[1:]) <= math.MaxUint32, nil
	default:
		return false, &ErrUnsupportedType{}
	}
}
