package cbor

// EncodeSequence serializes items as an RFC 8742 CBOR Sequence: zero or
// more complete top-level data items concatenated with no enclosing
// array/map. A single item and a one-element sequence are the same bytes.
func EncodeSequence(items []Encodable, opts ...EncodeOption) ([]byte, error) {
	var out []byte
	for i, item := range items {
		b, err := Encode(item, opts...)
		if err != nil {
			return nil, WrapError(err, i)
		}
		out = AppendSequence(out, b)
	}
	return out, nil
}

// DecodeSequence splits b into back-to-back top-level CBOR data items and
// calls newItem for each one to obtain a Decodable to populate; newItem
// receives the zero-based item index.
func DecodeSequence(b []byte, newItem func(index int) Decodable, opts ...DecodeOption) error {
	index := 0
	return ForEachSequenceBytes(b, func(item []byte) error {
		v := newItem(index)
		if _, err := Decode(item, v, opts...); err != nil {
			return WrapError(err, index)
		}
		index++
		return nil
	})
}

// SplitSequence returns the individual top-level data items in a CBOR
// Sequence as raw byte slices, without decoding their contents.
func SplitSequence(b []byte) ([][]byte, error) { return SplitSequenceBytes(b) }
