package structs

import (
	cbor "github.com/wrycatcbor/cbor/runtime"
)

// MarshalCBOR encodes Person as a map keyed by its cbor tag names. Age is
// omitted when zero, matching its "omitempty" tag.
func (p *Person) MarshalCBOR(b []byte) ([]byte, error) {
	n := uint32(2)
	if p.Age != 0 {
		n++
	}
	b = cbor.AppendMapHeader(b, n)

	b = cbor.AppendString(b, "name")
	b = cbor.AppendString(b, p.Name)

	if p.Age != 0 {
		b = cbor.AppendString(b, "age")
		b = cbor.AppendInt(b, p.Age)
	}

	b = cbor.AppendString(b, "data")
	b = cbor.AppendBytes(b, p.Data)

	return b, nil
}

// DecodeSafe decodes a Person map, rejecting duplicate keys.
func (p *Person) DecodeSafe(b []byte) ([]byte, error) {
	return p.decode(b, true)
}

// DecodeTrusted decodes a Person map without the duplicate-key check,
// for input already known to be well-formed (e.g. round-tripped from
// MarshalCBOR within the same process).
func (p *Person) DecodeTrusted(b []byte) ([]byte, error) {
	return p.decode(b, false)
}

func (p *Person) decode(b []byte, checkDup bool) ([]byte, error) {
	n, rest, err := cbor.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	var seen map[string]struct{}
	if checkDup {
		seen = make(map[string]struct{}, n)
	}
	for i := uint32(0); i < n; i++ {
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
		case "name":
			p.Name, rest, err = cbor.ReadStringBytes(rest)
		case "age":
			p.Age, rest, err = cbor.ReadIntBytes(rest)
		case "data":
			p.Data, rest, err = cbor.ReadBytesBytes(rest, p.Data[:0])
		default:
			rest, err = cbor.Skip(rest)
		}
		if err != nil {
			return b, err
		}
	}
	return rest, nil
}
