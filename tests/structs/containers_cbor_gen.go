package structs

import (
	cbor "github.com/wrycatcbor/cbor/runtime"
)

// MarshalCBOR encodes Containers as a map keyed by its cbor tag names.
func (c *Containers) MarshalCBOR(b []byte) ([]byte, error) {
	b = cbor.AppendMapHeader(b, 4)
	var err error

	b = cbor.AppendString(b, "items")
	b = cbor.AppendArrayHeader(b, uint32(len(c.Items)))
	for i := range c.Items {
		b, err = c.Items[i].MarshalCBOR(b)
		if err != nil {
			return b, err
		}
	}

	b = cbor.AppendString(b, "ptrs")
	b = cbor.AppendArrayHeader(b, uint32(len(c.Ptrs)))
	for _, p := range c.Ptrs {
		if p == nil {
			b = cbor.AppendNil(b)
			continue
		}
		b, err = p.MarshalCBOR(b)
		if err != nil {
			return b, err
		}
	}

	b = cbor.AppendString(b, "map")
	b = cbor.AppendMapHeader(b, uint32(len(c.Map)))
	for k, v := range c.Map {
		b = cbor.AppendString(b, k)
		b, err = v.MarshalCBOR(b)
		if err != nil {
			return b, err
		}
	}

	b = cbor.AppendString(b, "ptr_map")
	b = cbor.AppendMapHeader(b, uint32(len(c.PtrMap)))
	for k, v := range c.PtrMap {
		b = cbor.AppendString(b, k)
		if v == nil {
			b = cbor.AppendNil(b)
			continue
		}
		b, err = v.MarshalCBOR(b)
		if err != nil {
			return b, err
		}
	}

	return b, nil
}

// DecodeSafe decodes a Containers map, rejecting duplicate keys; element
// Scalars fields use their own DecodeSafe.
func (c *Containers) DecodeSafe(b []byte) ([]byte, error) { return c.decode(b, true) }

// DecodeTrusted decodes a Containers map without the duplicate-key check;
// element Scalars fields use their own DecodeTrusted.
func (c *Containers) DecodeTrusted(b []byte) ([]byte, error) { return c.decode(b, false) }

func (c *Containers) decodeScalars(rest []byte, checkDup bool) (Scalars, []byte, error) {
	var s Scalars
	var err error
	if checkDup {
		rest, err = s.DecodeSafe(rest)
	} else {
		rest, err = s.DecodeTrusted(rest)
	}
	return s, rest, err
}

func (c *Containers) decode(b []byte, checkDup bool) ([]byte, error) {
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
		case "items":
			var n2 uint32
			n2, rest, err = cbor.ReadArrayHeaderBytes(rest)
			if err != nil {
				break
			}
			c.Items = make([]Scalars, n2)
			for j := uint32(0); j < n2; j++ {
				c.Items[j], rest, err = c.decodeScalars(rest, checkDup)
				if err != nil {
					break
				}
			}
		case "ptrs":
			var n2 uint32
			n2, rest, err = cbor.ReadArrayHeaderBytes(rest)
			if err != nil {
				break
			}
			c.Ptrs = make([]*Scalars, n2)
			for j := uint32(0); j < n2; j++ {
				if cbor.PeekNull(rest) {
					rest, err = cbor.ReadNilBytes(rest)
					if err != nil {
						break
					}
					continue
				}
				var v Scalars
				v, rest, err = c.decodeScalars(rest, checkDup)
				if err != nil {
					break
				}
				c.Ptrs[j] = &v
			}
		case "map":
			var n2 uint32
			n2, rest, err = cbor.ReadMapHeaderBytes(rest)
			if err != nil {
				break
			}
			c.Map = make(map[string]Scalars, n2)
			for j := uint32(0); j < n2; j++ {
				var k string
				k, rest, err = cbor.ReadStringBytes(rest)
				if err != nil {
					break
				}
				var v Scalars
				v, rest, err = c.decodeScalars(rest, checkDup)
				if err != nil {
					break
				}
				c.Map[k] = v
			}
		case "ptr_map":
			var n2 uint32
			n2, rest, err = cbor.ReadMapHeaderBytes(rest)
			if err != nil {
				break
			}
			c.PtrMap = make(map[string]*Scalars, n2)
			for j := uint32(0); j < n2; j++ {
				var k string
				k, rest, err = cbor.ReadStringBytes(rest)
				if err != nil {
					break
				}
				if cbor.PeekNull(rest) {
					rest, err = cbor.ReadNilBytes(rest)
					if err != nil {
						break
					}
					c.PtrMap[k] = nil
					continue
				}
				var v Scalars
				v, rest, err = c.decodeScalars(rest, checkDup)
				if err != nil {
					break
				}
				c.PtrMap[k] = &v
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
