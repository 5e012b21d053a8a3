// Package cbor implements streaming encode/decode of CBOR (RFC 8949) data
// items. The core is a pull-based Parser and a push-based Emitter that
// agree on a single Event/Receiver protocol; a Validator wraps any Receiver
// to enforce well-formedness and nesting limits in constant extra space per
// level. Reader and Writer are the typed, application-facing layers built on
// top of that event protocol.
package cbor

const (
	// recursionLimit bounds the depth of Skip/ordered-map helpers that
	// recurse directly over bytes rather than through the Validator's
	// explicit level stack.
	recursionLimit = 100000
)

// ErrNonCanonicalFloat and ErrContainerTooLarge live in errors.go alongside
// the rest of the typed error taxonomy (both are aliases onto
// ValidationFailureError/UnsupportedError, not bare errors.New values).

// ValidateUTF8OnDecode controls whether text-string bytes are checked for
// UTF-8 validity as they are read. Decoders that only ever re-encode what
// they read (a relay, not an application) can disable this for speed.
var ValidateUTF8OnDecode = true

// UnsafeStringDecode controls whether ReadStringBytes returns a string that
// aliases the input buffer (via unsafe.Pointer) instead of copying it.
// Only safe when the caller guarantees the input buffer outlives the
// returned string and is never mutated.
var UnsafeStringDecode = false

// CBOR major types (3 bits)
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // float, simple values, break
)

// Additional info values (5 bits)
const (
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// makeByte creates a CBOR initial byte from major type and additional info.
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte.
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte.
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// Semantic tags used by the AppendXxx/ReadXxx tag-prefixed convenience
// helpers in write_bytes.go/read_bytes.go (RFC 8949 §3.4 and the IANA CBOR
// tags registry). These mirror the Tag constants in kind.go; kept as
// unexported plain ints here since the helpers predate Tag and take/return
// uint64 directly.
const (
	tagDateTimeString   = 0
	tagEpochDateTime    = 1
	tagBase64URL        = 21
	tagBase64           = 22
	tagBase16           = 23
	tagCBOR             = 24
	tagURI              = 32
	tagBase64URLString  = 33
	tagBase64String     = 34
	tagRegexp           = 35
	tagMIME             = 36
	tagSelfDescribeCBOR = 55799
)

// RawPair represents an already-encoded CBOR key/value pair. Key and Value
// must each contain exactly one CBOR data item.
type RawPair struct {
	Key   []byte
	Value []byte
}

// Marshaler is implemented by types that can append their own CBOR
// encoding directly to a byte slice. It is the low-level substrate the
// AppendXxxMarshaler helpers in write_bytes.go build on; most callers use
// the Writer (C8) or Encodable (C10) instead.
type Marshaler interface {
	MarshalCBOR(b []byte) ([]byte, error)
}

// Unmarshaler is implemented by types that can decode their own CBOR
// encoding from the front of a byte slice, returning the remaining bytes.
type Unmarshaler interface {
	UnmarshalCBOR(b []byte) ([]byte, error)
}

// Encodable is implemented by types that know how to write themselves
// through a Writer (C8). It is the facade-level (C10) counterpart to
// Marshaler, used by Encode/EncodeSequence.
type Encodable interface {
	EncodeCBOR(w *Writer) error
}

// Decodable is implemented by types that know how to read themselves
// through a Reader (C7). It is the facade-level (C10) counterpart to
// Unmarshaler, used by Decode/DecodeSequence.
type Decodable interface {
	DecodeCBOR(r *Reader) error
}
