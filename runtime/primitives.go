package cbor

import "time"

// Primitive-type Encoder/Decoder values, for use as the enc/dec arguments
// to EncodeSlice/DecodeSlice/EncodeMap/DecodeMap/EncodeOption/... without
// each caller writing its own closure for the common scalar types.

var (
	EncodeBool Encoder[bool] = func(w *Writer, v bool) error { w.WriteBool(v); return w.Err() }
	DecodeBool Decoder[bool] = func(r *Reader) (bool, error) { return r.ReadBool() }

	EncodeInt64 Encoder[int64] = func(w *Writer, v int64) error { w.WriteInt64(v); return w.Err() }
	DecodeInt64 Decoder[int64] = func(r *Reader) (int64, error) { return r.ReadInt64() }

	EncodeUint64 Encoder[uint64] = func(w *Writer, v uint64) error { w.WriteUint64(v); return w.Err() }
	DecodeUint64 Decoder[uint64] = func(r *Reader) (uint64, error) { return r.ReadUint64() }

	EncodeFloat64 Encoder[float64] = func(w *Writer, v float64) error { w.WriteFloat64(v); return w.Err() }
	DecodeFloat64 Decoder[float64] = func(r *Reader) (float64, error) { return r.ReadFloat64() }

	EncodeString Encoder[string] = func(w *Writer, v string) error { w.WriteText(v); return w.Err() }
	DecodeString Decoder[string] = func(r *Reader) (string, error) { return r.ReadText() }

	EncodeByteSlice Encoder[[]byte] = func(w *Writer, v []byte) error { w.WriteBytes(v); return w.Err() }
	DecodeByteSlice Decoder[[]byte] = func(r *Reader) ([]byte, error) { return r.ReadBytes() }
)

// Duration is the Encodable/Decodable wrapper for time.Duration, encoded
// as a plain CBOR integer of nanoseconds (the teacher's ReadDurationBytes/
// AppendDuration convention).
type Duration time.Duration

func (d Duration) EncodeCBOR(w *Writer) error {
	w.WriteInt64(int64(d))
	return w.Err()
}

func (d *Duration) DecodeCBOR(r *Reader) error {
	v, err := r.ReadInt64()
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Time is the Encodable/Decodable wrapper for time.Time, encoded as tag 1
// (epoch-based date/time) per RFC 8949 §3.4.2.
type Time time.Time

func (t Time) EncodeCBOR(w *Writer) error {
	sec := time.Time(t).UnixNano()
	w.WriteTag(TagEpochDateTime)
	w.WriteFloat64(float64(sec) / 1e9)
	return w.Err()
}

func (t *Time) DecodeCBOR(r *Reader) error {
	tag, err := r.ReadTag()
	if err != nil {
		return err
	}
	if tag != TagEpochDateTime {
		return TagMismatchError{Expected: TagEpochDateTime, Got: tag}
	}
	f, err := r.ReadFloat64()
	if err != nil {
		return err
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	*t = Time(time.Unix(sec, nsec).UTC())
	return nil
}
