package cbor

// Event is a single data-item notification pushed from a Parser (or any
// other producer) into a Receiver. Exactly one Kind bit is set; only the
// payload fields relevant to that Kind are meaningful, the rest are zero.
//
// A single tagged struct pushed through one method (OnEvent) replaces what
// would otherwise be a twenty-method interface — one method per data-item
// kind. Receivers that only care about a handful of kinds still implement
// one method and switch on Kind.
type Event struct {
	Kind Kind

	Bool bool

	// Int carries KindInt/KindLong values that fit a signed 64-bit slot.
	Int int64

	// Uint carries the raw unsigned wire value for KindPosOverLong (an
	// unsigned integer item too large for int64) and, for KindNegOverLong,
	// the wire magnitude n of the encoded -(n+1).
	Uint uint64

	// Float16Bits is the raw IEEE-754 binary16 bit pattern for KindFloat16.
	Float16Bits uint16
	Float32     float32
	Float64     float64

	// Bytes carries the payload for KindBytes/KindText (a complete chunk)
	// and is unused (nil) for the Start/Break/header variants.
	Bytes []byte

	// Length is the declared item count for KindArrayHeader/KindMapHeader,
	// or the declared byte/text length for a definite-length KindBytes /
	// KindText chunk produced while iterating a BytesStart/TextStart group.
	Length uint64

	Tag Tag

	SimpleValue SimpleValue
}

// Receiver consumes a stream of Events describing one or more complete CBOR
// data items. Implementations include the Validator (wraps another Receiver
// to enforce structure), BufferingReceiver (holds the most recent event), and
// any application-specific consumer.
type Receiver interface {
	// OnEvent is called once per Event. An error return aborts the
	// producer's pull/push loop; the error propagates unchanged to whoever
	// pushed the Event (Parser.Pull, or a Reader/Writer method).
	OnEvent(Event) error

	// Target returns the innermost Receiver this one delegates to, or
	// itself if it does not wrap another Receiver. Used by callers that
	// need to reach through a Validator to the underlying sink.
	Target() Receiver

	// Copy returns an independent Receiver with the same configuration.
	// Wrapping Receivers copy their target as well. Validator and
	// BufferingReceiver copies carry their current state; an Emitter copy
	// starts with an empty Output.
	Copy() Receiver
}
