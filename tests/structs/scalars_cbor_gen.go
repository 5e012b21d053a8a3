package structs

import (
	cbor "github.com/wrycatcbor/cbor/runtime"
)

var scalarsFieldOrder = []string{
	"s", "b", "i", "i8", "i16", "i32", "i64",
	"u", "u8", "u16", "u32", "u64",
	"f32", "f64", "data", "ints", "names", "scores", "t", "d",
}

// MarshalCBOR encodes Scalars as a map keyed by its cbor tag names. None of
// its fields are omitempty, so the map always has len(scalarsFieldOrder)
// entries.
func (s *Scalars) MarshalCBOR(b []byte) ([]byte, error) {
	b = cbor.AppendMapHeader(b, uint32(len(scalarsFieldOrder)))

	b = cbor.AppendString(b, "s")
	b = cbor.AppendString(b, s.S)
	b = cbor.AppendString(b, "b")
	b = cbor.AppendBool(b, s.B)
	b = cbor.AppendString(b, "i")
	b = cbor.AppendInt(b, s.I)
	b = cbor.AppendString(b, "i8")
	b = cbor.AppendInt8(b, s.I8)
	b = cbor.AppendString(b, "i16")
	b = cbor.AppendInt16(b, s.I16)
	b = cbor.AppendString(b, "i32")
	b = cbor.AppendInt32(b, s.I32)
	b = cbor.AppendString(b, "i64")
	b = cbor.AppendInt64(b, s.I64)
	b = cbor.AppendString(b, "u")
	b = cbor.AppendUint(b, s.U)
	b = cbor.AppendString(b, "u8")
	b = cbor.AppendUint8(b, s.U8)
	b = cbor.AppendString(b, "u16")
	b = cbor.AppendUint16(b, s.U16)
	b = cbor.AppendString(b, "u32")
	b = cbor.AppendUint32(b, s.U32)
	b = cbor.AppendString(b, "u64")
	b = cbor.AppendUint64(b, s.U64)
	b = cbor.AppendString(b, "f32")
	b = cbor.AppendFloat32(b, s.F32)
	b = cbor.AppendString(b, "f64")
	b = cbor.AppendFloat64(b, s.F64)
	b = cbor.AppendString(b, "data")
	b = cbor.AppendBytes(b, s.Data)
	b = cbor.AppendString(b, "ints")
	b = cbor.AppendArrayHeader(b, uint32(len(s.Ints)))
	for _, v := range s.Ints {
		b = cbor.AppendInt(b, v)
	}
	b = cbor.AppendString(b, "names")
	b = cbor.AppendStringSlice(b, s.Names)
	b = cbor.AppendString(b, "scores")
	var err error
	b, err = appendIntMap(b, s.Scores)
	if err != nil {
		return b, err
	}
	b = cbor.AppendString(b, "t")
	b = cbor.AppendTime(b, s.T)
	b = cbor.AppendString(b, "d")
	b = cbor.AppendDuration(b, s.D)

	return b, nil
}

func appendIntMap(b []byte, m map[string]int) ([]byte, error) {
	b = cbor.AppendMapHeader(b, uint32(len(m)))
	for k, v := range m {
		b = cbor.AppendString(b, k)
		b = cbor.AppendInt(b, v)
	}
	return b, nil
}

// DecodeSafe decodes a Scalars map, rejecting duplicate keys.
func (s *Scalars) DecodeSafe(b []byte) ([]byte, error) { return s.decode(b, true) }

// DecodeTrusted decodes a Scalars map without the duplicate-key check.
func (s *Scalars) DecodeTrusted(b []byte) ([]byte, error) { return s.decode(b, false) }

func (s *Scalars) decode(b []byte, checkDup bool) ([]byte, error) {
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
		case "s":
			s.S, rest, err = cbor.ReadStringBytes(rest)
		case "b":
			s.B, rest, err = cbor.ReadBoolBytes(rest)
		case "i":
			s.I, rest, err = cbor.ReadIntBytes(rest)
		case "i8":
			s.I8, rest, err = cbor.ReadInt8Bytes(rest)
		case "i16":
			s.I16, rest, err = cbor.ReadInt16Bytes(rest)
		case "i32":
			s.I32, rest, err = cbor.ReadInt32Bytes(rest)
		case "i64":
			s.I64, rest, err = cbor.ReadInt64Bytes(rest)
		case "u":
			s.U, rest, err = cbor.ReadUintBytes(rest)
		case "u8":
			s.U8, rest, err = cbor.ReadUint8Bytes(rest)
		case "u16":
			s.U16, rest, err = cbor.ReadUint16Bytes(rest)
		case "u32":
			s.U32, rest, err = cbor.ReadUint32Bytes(rest)
		case "u64":
			s.U64, rest, err = cbor.ReadUint64Bytes(rest)
		case "f32":
			s.F32, rest, err = cbor.ReadFloat32Bytes(rest)
		case "f64":
			s.F64, rest, err = cbor.ReadFloat64Bytes(rest)
		case "data":
			s.Data, rest, err = cbor.ReadBytesBytes(rest, nil)
		case "ints":
			var n2 uint32
			n2, rest, err = cbor.ReadArrayHeaderBytes(rest)
			if err != nil {
				break
			}
			s.Ints = make([]int, n2)
			for j := uint32(0); j < n2; j++ {
				s.Ints[j], rest, err = cbor.ReadIntBytes(rest)
				if err != nil {
					break
				}
			}
		case "names":
			var n2 uint32
			n2, rest, err = cbor.ReadArrayHeaderBytes(rest)
			if err != nil {
				break
			}
			s.Names = make([]string, n2)
			for j := uint32(0); j < n2; j++ {
				s.Names[j], rest, err = cbor.ReadStringBytes(rest)
				if err != nil {
					break
				}
			}
		case "scores":
			var n2 uint32
			n2, rest, err = cbor.ReadMapHeaderBytes(rest)
			if err != nil {
				break
			}
			s.Scores = make(map[string]int, n2)
			for j := uint32(0); j < n2; j++ {
				var k string
				var v int
				k, rest, err = cbor.ReadStringBytes(rest)
				if err != nil {
					break
				}
				v, rest, err = cbor.ReadIntBytes(rest)
				if err != nil {
					break
				}
				s.Scores[k] = v
			}
		case "t":
			s.T, rest, err = cbor.ReadTimeBytes(rest)
		case "d":
			s.D, rest, err = cbor.ReadDurationBytes(rest)
		default:
			rest, err = cbor.Skip(rest)
		}
		if err != nil {
			return b, err
		}
	}
	return rest, nil
}
