package cbor

import (
	"math"
	"math/bits"
	"strconv"
)

// Number represents a CBOR number that may be an int64, uint64, float32, or
// float64 internally. The zero value is equivalent to an int64 value of 0.
type Number struct {
	bits uint64
	kind Kind
}

// AsInt sets the number to an int64.
func (n *Number) AsInt(i int64) {
	if i == 0 {
		n.kind = 0
		n.bits = 0
		return
	}
	n.kind = KindLong
	n.bits = uint64(i)
}

// AsUint sets the number to a uint64.
func (n *Number) AsUint(u uint64) {
	n.kind = KindInt
	n.bits = u
}

// AsFloat32 sets the value of the number to a float32.
func (n *Number) AsFloat32(f float32) {
	n.kind = KindFloat
	n.bits = uint64(math.Float32bits(f))
}

// AsFloat64 sets the value of the number to a float64.
func (n *Number) AsFloat64(f float64) {
	n.kind = KindDouble
	n.bits = math.Float64bits(f)
}

// Int returns the value as an int64 and reports whether that was the
// underlying kind (or the zero value).
func (n *Number) Int() (int64, bool) {
	return int64(n.bits), n.kind == KindLong || n.kind == 0
}

// Uint returns the value as a uint64 and reports whether that was the
// underlying kind.
func (n *Number) Uint() (uint64, bool) {
	return n.bits, n.kind == KindInt
}

// Float returns the value as a float64 and reports whether the underlying
// kind was float32 or float64.
func (n *Number) Float() (float64, bool) {
	switch n.kind {
	case KindFloat:
		return float64(math.Float32frombits(uint32(n.bits))), true
	case KindDouble:
		return math.Float64frombits(n.bits), true
	default:
		return 0, false
	}
}

// Kind returns the underlying numeric kind.
func (n *Number) Kind() Kind {
	if n.kind == 0 {
		return KindLong
	}
	return n.kind
}

// UnmarshalCBOR decodes a single CBOR number from b into n.
func (n *Number) UnmarshalCBOR(b []byte) ([]byte, error) {
	switch peekNextKind(b) {
	case KindLong:
		i, o, err := ReadInt64Bytes(b)
		if err != nil {
			return b, err
		}
		n.AsInt(i)
		return o, nil
	case KindInt:
		u, o, err := ReadUint64Bytes(b)
		if err != nil {
			return b, err
		}
		n.AsUint(u)
		return o, nil
	case KindDouble:
		f, o, err := ReadFloat64Bytes(b)
		if err != nil {
			return b, err
		}
		n.AsFloat64(f)
		return o, nil
	case KindFloat:
		f, o, err := ReadFloat32Bytes(b)
		if err != nil {
			return b, err
		}
		n.AsFloat32(f)
		return o, nil
	default:
		return b, &ErrUnsupportedType{}
	}
}

// MarshalCBOR encodes the stored numeric value into b.
func (n *Number) MarshalCBOR(b []byte) ([]byte, error) {
	switch n.kind {
	case KindLong:
		return AppendInt64(b, int64(n.bits)), nil
	case KindInt:
		return AppendUint64(b, n.bits), nil
	case KindDouble:
		return AppendFloat64(b, math.Float64frombits(n.bits)), nil
	case KindFloat:
		return AppendFloat32(b, math.Float32frombits(uint32(n.bits))), nil
	default:
		return AppendInt64(b, 0), nil
	}
}

// CoerceInt attempts to coerce the value into an int64 without loss of
// precision and reports success.
func (n *Number) CoerceInt() (int64, bool) {
	switch n.kind {
	case 0, KindLong:
		return int64(n.bits), true
	case KindInt:
		return int64(n.bits), n.bits <= math.MaxInt64
	case KindFloat:
		f := math.Float32frombits(uint32(n.bits))
		if n.isExactInt() && f <= math.MaxInt64 && f >= math.MinInt64 {
			return int64(f), true
		}
		if n.bits == 0 || n.bits == 1<<31 {
			return 0, true
		}
	case KindDouble:
		f := math.Float64frombits(n.bits)
		if n.isExactInt() && f <= math.MaxInt64 && f >= math.MinInt64 {
			return int64(f), true
		}
		return 0, n.bits == 0 || n.bits == 1<<63
	}
	return 0, false
}

// CoerceUInt attempts to coerce the value into a uint64 without loss of
// precision and reports success.
func (n *Number) CoerceUInt() (uint64, bool) {
	switch n.kind {
	case 0, KindLong:
		if int64(n.bits) >= 0 {
			return n.bits, true
		}
	case KindInt:
		return n.bits, true
	case KindFloat:
		f := math.Float32frombits(uint32(n.bits))
		if f >= 0 && f <= math.MaxUint64 && n.isExactInt() {
			return uint64(f), true
		}
		if n.bits == 0 || n.bits == 1<<31 {
			return 0, true
		}
	case KindDouble:
		f := math.Float64frombits(n.bits)
		if f >= 0 && f <= math.MaxUint64 && n.isExactInt() {
			return uint64(f), true
		}
		return 0, n.bits == 0 || n.bits == 1<<63
	}
	return 0, false
}

// isExactInt reports whether the stored float value is an exact integer.
func (n *Number) isExactInt() bool {
	var eBits, mBits int

	switch n.kind {
	case 0, KindLong, KindInt:
		return true
	case KindFloat:
		eBits = 8
		mBits = 23
	case KindDouble:
		eBits = 11
		mBits = 52
	default:
		return false
	}

	exp := int(n.bits>>mBits) & ((1 << eBits) - 1)
	mant := n.bits & ((1 << mBits) - 1)
	if exp == 0 && mant == 0 {
		return true
	}

	exp -= (1 << (eBits - 1)) - 1
	if exp < 0 || exp == 1<<(eBits-1) {
		return false
	}
	if exp >= mBits {
		return true
	}
	return bits.TrailingZeros64(mant) >= mBits-exp
}

// CoerceFloat returns the value as a float64.
func (n *Number) CoerceFloat() float64 {
	switch n.kind {
	case KindLong:
		return float64(int64(n.bits))
	case KindInt:
		return float64(n.bits)
	case KindFloat:
		return float64(math.Float32frombits(uint32(n.bits)))
	case KindDouble:
		return math.Float64frombits(n.bits)
	default:
		return 0
	}
}

// Msgsize returns the worst-case encoded size.
func (n *Number) Msgsize() int {
	switch n.kind {
	case KindFloat:
		return Float32Size
	case KindDouble:
		return Float64Size
	case KindLong:
		return Int64Size
	case KindInt:
		return Uint64Size
	default:
		return 1
	}
}

// String implements fmt.Stringer-style formatting.
func (n *Number) String() string {
	switch n.kind {
	case 0:
		return "0"
	case KindFloat, KindDouble:
		f, _ := n.Float()
		return strconv.FormatFloat(f, 'f', -1, 64)
	case KindLong:
		i, _ := n.Int()
		return strconv.FormatInt(i, 10)
	case KindInt:
		u, _ := n.Uint()
		return strconv.FormatUint(u, 10)
	default:
		return "0"
	}
}
