package cbor

import "github.com/x448/float16"

// Emitter is a Receiver that serializes each Event it receives directly
// into an Output, implementing the encode half of the Event protocol. It
// has no lookahead: every Event is written as soon as it arrives.
type Emitter struct {
	out Output

	// CompressFloats, when true, narrows Float/Double events to the
	// shortest width (float16/float32/float64) that round-trips exactly,
	// per the float-compression policy.
	CompressFloats bool
}

// NewEmitter returns an Emitter writing into out.
func NewEmitter(out Output) *Emitter {
	return &Emitter{out: out, CompressFloats: true}
}

func (e *Emitter) Target() Receiver { return e }

func (e *Emitter) Copy() Receiver {
	return &Emitter{out: NewOutput(0), CompressFloats: e.CompressFloats}
}

// OnEvent implements Receiver.
func (e *Emitter) OnEvent(ev Event) error {
	switch ev.Kind {
	case KindNull:
		return e.out.WriteByte(makeByte(majorTypeSimple, simpleNull))
	case KindUndefined:
		return e.out.WriteByte(makeByte(majorTypeSimple, simpleUndefined))
	case KindBool:
		if ev.Bool {
			return e.out.WriteByte(makeByte(majorTypeSimple, simpleTrue))
		}
		return e.out.WriteByte(makeByte(majorTypeSimple, simpleFalse))
	case KindInt:
		return e.out.Write(AppendUint64(nil, uint64(ev.Int)))
	case KindLong:
		return e.out.Write(AppendInt64(nil, ev.Int))
	case KindPosOverLong:
		return e.out.Write(AppendUint64(nil, ev.Uint))
	case KindNegOverLong:
		return e.writeNegOverLong(ev.Uint)
	case KindFloat16:
		return e.out.Write(AppendFloat16(nil, float16.Frombits(ev.Float16Bits).Float32()))
	case KindFloat:
		return e.writeFloat32(ev.Float32)
	case KindDouble:
		return e.writeFloat64(ev.Float64)
	case KindBytes:
		return e.out.Write(AppendBytes(nil, ev.Bytes))
	case KindBytesStart:
		return e.out.WriteByte(makeByte(majorTypeBytes, addInfoIndefinite))
	case KindText:
		return e.out.Write(AppendString(nil, string(ev.Bytes)))
	case KindTextStart:
		return e.out.WriteByte(makeByte(majorTypeText, addInfoIndefinite))
	case KindArrayHeader:
		return e.out.Write(AppendArrayHeader(nil, uint32(ev.Length)))
	case KindArrayStart:
		return e.out.WriteByte(makeByte(majorTypeArray, addInfoIndefinite))
	case KindMapHeader:
		return e.out.Write(AppendMapHeader(nil, uint32(ev.Length)))
	case KindMapStart:
		return e.out.WriteByte(makeByte(majorTypeMap, addInfoIndefinite))
	case KindBreak:
		return e.out.WriteByte(makeByte(majorTypeSimple, simpleBreak))
	case KindTag:
		return e.out.Write(AppendTag(nil, uint64(ev.Tag)))
	case KindSimpleValue:
		return e.writeSimpleValue(ev.SimpleValue)
	case KindEndOfInput:
		return nil
	default:
		return UnsupportedError{Reason: "unknown event kind"}
	}
}

func (e *Emitter) writeNegOverLong(n uint64) error {
	return e.out.Write(appendUintCore(nil, majorTypeNegInt, n))
}

func (e *Emitter) writeFloat32(f float32) error {
	if e.CompressFloats && float32FitsFloat16(f) {
		return e.out.Write(AppendFloat16(nil, f))
	}
	return e.out.Write(AppendFloat32(nil, f))
}

func (e *Emitter) writeFloat64(f float64) error {
	if e.CompressFloats {
		return e.out.Write(AppendFloatCanonical(nil, f))
	}
	return e.out.Write(AppendFloat64(nil, f))
}

func (e *Emitter) writeSimpleValue(v SimpleValue) error {
	if !v.Legal() {
		return UnsupportedError{Reason: "reserved simple value"}
	}
	if v <= addInfoDirect {
		return e.out.WriteByte(makeByte(majorTypeSimple, uint8(v)))
	}
	if err := e.out.WriteByte(makeByte(majorTypeSimple, addInfoUint8)); err != nil {
		return err
	}
	return e.out.WriteByte(uint8(v))
}
