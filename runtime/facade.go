package cbor

// EncodeConfig controls Encode's behavior.
type EncodeConfig struct {
	// CompressFloats narrows floats to the shortest round-tripping width.
	// Defaults to true when left at its zero value via WithCompressFloats.
	CompressFloats bool
}

// EncodeOption configures an EncodeConfig.
type EncodeOption func(*EncodeConfig)

// WithCompressFloats sets whether Encode narrows floats to their shortest
// round-tripping width. Default true.
func WithCompressFloats(v bool) EncodeOption {
	return func(c *EncodeConfig) { c.CompressFloats = v }
}

// DecodeConfig controls Decode's behavior.
type DecodeConfig struct {
	Validation ValidationConfig
}

// DecodeOption configures a DecodeConfig.
type DecodeOption func(*DecodeConfig)

// WithMaxDepth bounds container nesting depth during Decode.
func WithMaxDepth(n int) DecodeOption {
	return func(c *DecodeConfig) { c.Validation.MaxDepth = n }
}

// WithMaxContainerLength bounds a single array/map header's declared size
// during Decode.
func WithMaxContainerLength(n uint64) DecodeOption {
	return func(c *DecodeConfig) { c.Validation.MaxContainerLength = n }
}

// Encode serializes v (an Encodable) as a single complete CBOR data item.
func Encode(v Encodable, opts ...EncodeOption) ([]byte, error) {
	cfg := EncodeConfig{CompressFloats: true}
	for _, o := range opts {
		o(&cfg)
	}
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	w := NewWriter(bb)
	w.CompressFloats = cfg.CompressFloats
	if err := v.EncodeCBOR(w); err != nil {
		return nil, err
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	out := make([]byte, len(bb.Bytes()))
	copy(out, bb.Bytes())
	return out, nil
}

// Decode parses exactly one complete CBOR data item from b into v (a
// Decodable), validating well-formedness and structural rules as it goes.
// It returns the bytes left over after the item (empty for a single
// top-level item with no trailing data expected by the caller).
func Decode(b []byte, v Decodable, opts ...DecodeOption) ([]byte, error) {
	cfg := DecodeConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	r := NewReader(b)
	r.SetValidation(cfg.Validation)
	if err := v.DecodeCBOR(r); err != nil {
		return b, err
	}
	return r.Remaining(), nil
}

// EncodeBytes is a convenience wrapper for callers that already have a
// single []byte/text payload and want it wrapped as a complete data item
// without implementing Encodable.
func EncodeBytes(data []byte) []byte { return AppendBytes(nil, data) }

// EncodeText is the text-string counterpart of EncodeBytes.
func EncodeText(s string) []byte { return AppendString(nil, s) }
