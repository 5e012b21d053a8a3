package cbor

// Element is a generic CBOR document-object-model node: a parsed data item
// kept as a tree rather than mapped onto a concrete Go type. It exists for
// callers that need to inspect or rewrite a CBOR document generically
// (diffing, redaction, schema-less passthrough) without writing a
// dedicated Encodable/Decodable pair.
type Element interface {
	elementKind() Kind
}

// ValueElement wraps a scalar data item: null, undefined, bool, integer,
// float, byte string, or text string.
type ValueElement struct {
	Event Event
}

func (ValueElement) elementKind() Kind { return 0 }

// ArrayElement is an ordered list of child Elements.
type ArrayElement struct {
	Items []Element
}

func (ArrayElement) elementKind() Kind { return KindArrayHeader }

// MapElement is an ordered list of key/value Element pairs. Order is
// preserved as encountered; this package does not canonicalize map key
// ordering (see Non-goals).
type MapElement struct {
	Keys   []Element
	Values []Element
}

func (MapElement) elementKind() Kind { return KindMapHeader }

// TaggedElement wraps an Element with the Tag that preceded it.
type TaggedElement struct {
	Tag   Tag
	Value Element
}

func (TaggedElement) elementKind() Kind { return KindTag }

// DecodeDocument validates that b begins with one well-formed CBOR data
// item and decodes it as a generic Element tree. Unlike DecodeElement, it
// rejects a malformed item up front via ValidateWellFormedBytes rather
// than potentially panicking or returning a partial tree while walking
// corrupt input.
func DecodeDocument(b []byte) (Element, error) {
	if _, err := ValidateWellFormedBytes(b); err != nil {
		return nil, err
	}
	return DecodeElement(NewReader(b))
}

// DecodeElement reads one complete data item from r as a generic Element
// tree.
func DecodeElement(r *Reader) (Element, error) {
	switch {
	case r.HasTag():
		tag, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		v, err := DecodeElement(r)
		if err != nil {
			return nil, err
		}
		return TaggedElement{Tag: tag, Value: v}, nil

	case r.HasArrayHeader():
		n, err := r.ReadArrayHeader()
		if err != nil {
			return nil, err
		}
		items := make([]Element, 0, n)
		for i := uint32(0); i < n; i++ {
			v, err := DecodeElement(r)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return ArrayElement{Items: items}, nil

	case r.HasArrayStart():
		if _, _, err := r.ReadArrayStart(); err != nil {
			return nil, err
		}
		var items []Element
		for {
			done, err := r.TryReadBreak()
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
			v, err := DecodeElement(r)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return ArrayElement{Items: items}, nil

	case r.HasMapHeader():
		n, err := r.ReadMapHeader()
		if err != nil {
			return nil, err
		}
		keys := make([]Element, 0, n)
		values := make([]Element, 0, n)
		for i := uint32(0); i < n; i++ {
			k, err := DecodeElement(r)
			if err != nil {
				return nil, err
			}
			v, err := DecodeElement(r)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			values = append(values, v)
		}
		return MapElement{Keys: keys, Values: values}, nil

	case r.HasMapStart():
		if err := r.ReadMapStart(); err != nil {
			return nil, err
		}
		var keys, values []Element
		for {
			done, err := r.TryReadBreak()
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
			k, err := DecodeElement(r)
			if err != nil {
				return nil, err
			}
			v, err := DecodeElement(r)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			values = append(values, v)
		}
		return MapElement{Keys: keys, Values: values}, nil

	default:
		return decodeScalarElement(r)
	}
}

func decodeScalarElement(r *Reader) (Element, error) {
	kind := r.PeekKind()
	switch kind {
	case KindNull:
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		return ValueElement{Event: Event{Kind: KindNull}}, nil
	case KindUndefined:
		if err := r.ReadUndefined(); err != nil {
			return nil, err
		}
		return ValueElement{Event: Event{Kind: KindUndefined}}, nil
	case KindBool:
		v, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		return ValueElement{Event: Event{Kind: KindBool, Bool: v}}, nil
	case KindInt, KindLong:
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		return ValueElement{Event: Event{Kind: kind, Int: v}}, nil
	case KindFloat16, KindFloat, KindDouble:
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		return ValueElement{Event: Event{Kind: KindDouble, Float64: v}}, nil
	case KindBytes, KindBytesStart:
		v, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		return ValueElement{Event: Event{Kind: KindBytes, Bytes: v}}, nil
	case KindText, KindTextStart:
		v, err := r.ReadText()
		if err != nil {
			return nil, err
		}
		return ValueElement{Event: Event{Kind: KindText, Bytes: []byte(v)}}, nil
	case KindSimpleValue:
		v, err := r.ReadSimpleValue()
		if err != nil {
			return nil, err
		}
		return ValueElement{Event: Event{Kind: KindSimpleValue, SimpleValue: v}}, nil
	default:
		return nil, UnexpectedDataItemError{Expected: KindAllButBreak, Got: kind}
	}
}

// EncodeElement writes el as a complete data item through w.
func EncodeElement(w *Writer, el Element) error {
	switch e := el.(type) {
	case ValueElement:
		return encodeScalarEvent(w, e.Event)
	case ArrayElement:
		w.WriteArrayHeader(uint32(len(e.Items)))
		for _, item := range e.Items {
			if err := EncodeElement(w, item); err != nil {
				return err
			}
		}
		return w.Err()
	case MapElement:
		w.WriteMapHeader(uint32(len(e.Keys)))
		for i := range e.Keys {
			if err := EncodeElement(w, e.Keys[i]); err != nil {
				return err
			}
			if err := EncodeElement(w, e.Values[i]); err != nil {
				return err
			}
		}
		return w.Err()
	case TaggedElement:
		w.WriteTag(e.Tag)
		return EncodeElement(w, e.Value)
	default:
		return UnsupportedError{Reason: "unknown Element implementation"}
	}
}

func encodeScalarEvent(w *Writer, ev Event) error {
	switch ev.Kind {
	case KindNull:
		w.WriteNull()
	case KindUndefined:
		w.WriteUndefined()
	case KindBool:
		w.WriteBool(ev.Bool)
	case KindInt, KindLong:
		w.WriteInt64(ev.Int)
	case KindDouble, KindFloat, KindFloat16:
		w.WriteFloat64(ev.Float64)
	case KindBytes:
		w.WriteBytes(ev.Bytes)
	case KindText:
		w.WriteText(string(ev.Bytes))
	case KindSimpleValue:
		w.WriteSimpleValue(ev.SimpleValue)
	default:
		return UnsupportedError{Reason: "unsupported scalar event kind"}
	}
	return w.Err()
}
