package structs

import (
	cbor "github.com/wrycatcbor/cbor/runtime"
)

// MarshalCBOR encodes Nested as a map keyed by its cbor tag names. Ptr is
// omitted when nil, matching its "omitempty" tag.
func (n *Nested) MarshalCBOR(b []byte) ([]byte, error) {
	sz := uint32(2)
	if n.Ptr != nil {
		sz++
	}
	b = cbor.AppendMapHeader(b, sz)

	b = cbor.AppendString(b, "id")
	b = cbor.AppendString(b, n.ID)

	b = cbor.AppendString(b, "base")
	var err error
	b, err = n.Base.MarshalCBOR(b)
	if err != nil {
		return b, err
	}

	if n.Ptr != nil {
		b = cbor.AppendString(b, "ptr")
		b, err = n.Ptr.MarshalCBOR(b)
		if err != nil {
			return b, err
		}
	}

	return b, nil
}

// DecodeSafe decodes a Nested map, rejecting duplicate keys; nested
// Scalars fields use their own DecodeSafe.
func (n *Nested) DecodeSafe(b []byte) ([]byte, error) { return n.decode(b, true) }

// DecodeTrusted decodes a Nested map without the duplicate-key check;
// nested Scalars fields use their own DecodeTrusted.
func (n *Nested) DecodeTrusted(b []byte) ([]byte, error) { return n.decode(b, false) }

func (n *Nested) decode(b []byte, checkDup bool) ([]byte, error) {
	sz, rest, err := cbor.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	var seen map[string]struct{}
	if checkDup {
		seen = make(map[string]struct{}, sz)
	}
	for i := uint32(0); i < sz; i++ {
		var key string
		key, rest, err = cbor.ReadStringBytes(rest)
		if err != nil {
			return b, err
		}
		if checkDup {
			if _, dup := seen[key]; dup {
				return b, cbor.ErrDuplicateMapKey
			}
			seen[key] = struct{}{}
		}
		switch key {
		case "id":
			n.ID, rest, err = cbor.ReadStringBytes(rest)
		case "base":
			if checkDup {
				rest, err = n.Base.DecodeSafe(rest)
			} else {
				rest, err = n.Base.DecodeTrusted(rest)
			}
		case "ptr":
			n.Ptr = new(Scalars)
			if checkDup {
				rest, err = n.Ptr.DecodeSafe(rest)
			} else {
				rest, err = n.Ptr.DecodeTrusted(rest)
			}
		default:
			rest, err = cbor.Skip(rest)
		}
		if err != nil {
			return b, err
		}
	}
	return rest, nil
}
