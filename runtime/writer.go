package cbor

import "math"

// Writer is the fluent, typed facade for producing CBOR (C8): one method
// per application-facing shape, each returning the Writer itself so calls
// chain, with a sticky first error retrievable via Err().
//
// Every WriteXxx method builds the Event it represents and pushes it
// through a Validator (C6) wrapping an Emitter (C3) writing into the
// pooled ByteBuffer (see bytebufferpool.go). This is the same write path
// spec §2 describes (Writer -> Validator -> Emitter -> Output bytes): a
// WriteBreak with no open indefinite-length container, or one inside a
// definite-length container, is caught by the Validator before it ever
// reaches the wire. Arity is tracked per open container, but the Writer
// sends no EndOfInput event, so a container left short of its declared
// arity is not reported, and items after a completed top-level container
// are accepted as further top-level items.
type Writer struct {
	bb        *ByteBuffer
	emitter   *Emitter
	validator *Validator
	err       error

	// CompressFloats mirrors Emitter.CompressFloats, synced onto it before
	// every float write: narrow WriteFloat64/WriteFloat32 to the shortest
	// round-tripping width.
	CompressFloats bool
}

// NewWriter constructs a Writer that appends to the provided ByteBuffer.
func NewWriter(bb *ByteBuffer) *Writer {
	e := NewEmitter(byteBufferOutput{bb: bb})
	v := NewValidator(e, ValidationConfig{})
	return &Writer{bb: bb, emitter: e, validator: v, CompressFloats: true}
}

// Bytes returns the underlying encoded bytes.
func (w *Writer) Bytes() []byte { return w.bb.Bytes() }

// Err returns the first error encountered by any Write call, or nil.
func (w *Writer) Err() error { return w.err }

func (w *Writer) fail(err error) *Writer {
	if w.err == nil {
		w.err = err
	}
	return w
}

// emit pushes ev through the Validator, sticking any error onto w.err. A
// Writer with a pending error ignores further writes, so a chain of
// WriteXxx calls can be checked once via Err() at the end.
func (w *Writer) emit(ev Event) *Writer {
	if w.err != nil {
		return w
	}
	if err := w.validator.OnEvent(ev); err != nil {
		w.err = err
	}
	return w
}

func (w *Writer) WriteNull() *Writer { return w.emit(Event{Kind: KindNull}) }

func (w *Writer) WriteUndefined() *Writer { return w.emit(Event{Kind: KindUndefined}) }

func (w *Writer) WriteBool(v bool) *Writer { return w.emit(Event{Kind: KindBool, Bool: v}) }

// WriteInt64 writes v as an Int (non-negative wire value) or Long
// (negative), whichever its sign requires.
func (w *Writer) WriteInt64(v int64) *Writer {
	kind := KindInt
	if v < 0 {
		kind = KindLong
	}
	return w.emit(Event{Kind: kind, Int: v})
}

// WriteUint64 writes v as an Int when it fits a signed 64-bit slot, or a
// PosOverLong item (an unsigned wire value too large for int64) otherwise.
func (w *Writer) WriteUint64(v uint64) *Writer {
	if v > math.MaxInt64 {
		return w.emit(Event{Kind: KindPosOverLong, Uint: v})
	}
	return w.emit(Event{Kind: KindInt, Int: int64(v)})
}

// WriteFloat64 writes f as a Double event; the Emitter narrows it to
// float16/float32 when CompressFloats is set and the value round-trips
// exactly at that width.
func (w *Writer) WriteFloat64(f float64) *Writer {
	w.emitter.CompressFloats = w.CompressFloats
	return w.emit(Event{Kind: KindDouble, Float64: f})
}

// WriteFloat32 writes f as a Float event; the Emitter narrows it to
// float16 when CompressFloats is set and f round-trips exactly.
func (w *Writer) WriteFloat32(f float32) *Writer {
	w.emitter.CompressFloats = w.CompressFloats
	return w.emit(Event{Kind: KindFloat, Float32: f})
}

func (w *Writer) WriteBytes(v []byte) *Writer { return w.emit(Event{Kind: KindBytes, Bytes: v}) }

func (w *Writer) WriteText(s string) *Writer {
	return w.emit(Event{Kind: KindText, Bytes: []byte(s)})
}

func (w *Writer) WriteArrayHeader(n uint32) *Writer {
	return w.emit(Event{Kind: KindArrayHeader, Length: uint64(n)})
}

func (w *Writer) WriteArrayStart() *Writer { return w.emit(Event{Kind: KindArrayStart}) }

func (w *Writer) WriteMapHeader(n uint32) *Writer {
	return w.emit(Event{Kind: KindMapHeader, Length: uint64(n)})
}

func (w *Writer) WriteMapStart() *Writer { return w.emit(Event{Kind: KindMapStart}) }

// WriteBreak closes the innermost open indefinite-length container. A
// Break with no open indefinite-length container to close is rejected by
// the Validator (UnexpectedDataItemError), instead of silently producing
// malformed output.
func (w *Writer) WriteBreak() *Writer { return w.emit(Event{Kind: KindBreak}) }

func (w *Writer) WriteTag(t Tag) *Writer { return w.emit(Event{Kind: KindTag, Tag: t}) }

func (w *Writer) WriteSimpleValue(v SimpleValue) *Writer {
	return w.emit(Event{Kind: KindSimpleValue, SimpleValue: v})
}

// WriteEncodable writes v by calling its EncodeCBOR method.
func (w *Writer) WriteEncodable(v Encodable) *Writer {
	if w.err != nil {
		return w
	}
	if err := v.EncodeCBOR(w); err != nil {
		return w.fail(err)
	}
	return w
}
