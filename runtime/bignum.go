package cbor

import "math/big"

// BigInt is the Encodable/Decodable wrapper for math/big.Int, grounded on
// tags 2 (positive bignum) and 3 (negative bignum). No third-party
// arbitrary-precision integer library appears anywhere in the retrieved
// example pack, so math/big is the documented stdlib fallback for this one
// concern (see DESIGN.md).
//
// A non-negative value below 2^64 is written as a plain Int (PosOverLong
// above 2^63-1) and a negative value that fits a signed 64-bit slot as a
// plain Long, the same shortest-form rule every other integer in this
// package follows; every other value is wrapped in tag 2/3. A negative
// value below -2^63 is therefore always tagged, even when its magnitude
// fits 64 bits: NegOverLong is not written. DecodeCBOR accepts
// either wire shape, so a round trip through Encode/Decode always succeeds
// regardless of which form a given magnitude took.
type BigInt struct {
	Value *big.Int
}

func (z BigInt) EncodeCBOR(w *Writer) error {
	v := z.Value
	if v == nil {
		v = new(big.Int)
	}
	writeBigIntValue(w, v)
	return w.Err()
}

func (z *BigInt) DecodeCBOR(r *Reader) error {
	v, err := readBigIntValue(r)
	if err != nil {
		return err
	}
	z.Value = v
	return nil
}

// writeBigIntValue writes v as a plain Int (non-negative, <=64 bits), a
// plain Long (negative, fits a signed 64-bit slot), or otherwise a tag 2/3
// bignum; negative values below -2^63 always take the tag 3 form.
func writeBigIntValue(w *Writer, v *big.Int) {
	switch {
	case v.Sign() >= 0 && v.BitLen() <= 64:
		w.WriteUint64(v.Uint64())
	case v.Sign() < 0 && v.IsInt64():
		w.WriteInt64(v.Int64())
	case v.Sign() >= 0:
		w.WriteTag(TagPositiveBigNum)
		w.WriteBytes(v.Bytes())
	default:
		// n = -1 - value, per RFC 8949 §3.4.3's negative-bignum encoding.
		n := new(big.Int).Neg(v)
		n.Sub(n, big.NewInt(1))
		w.WriteTag(TagNegativeBigNum)
		w.WriteBytes(n.Bytes())
	}
}

// readBigIntValue reads a value written by writeBigIntValue: a plain
// Int/Long, or a tag 2/3 bignum.
func readBigIntValue(r *Reader) (*big.Int, error) {
	if r.HasTag() {
		t, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		if t != TagPositiveBigNum && t != TagNegativeBigNum {
			return nil, ValidationFailureError{Reason: "bignum tag must be 2 (positive) or 3 (negative)"}
		}
		bs, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		mag := new(big.Int).SetBytes(bs)
		if t == TagNegativeBigNum {
			mag.Add(mag, big.NewInt(1))
			mag.Neg(mag)
		}
		return mag, nil
	}
	if r.PeekKind() == KindLong {
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		return big.NewInt(v), nil
	}
	u, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(u), nil
}

// BigDecimal is the Encodable/Decodable wrapper for an arbitrary-precision
// decimal, represented per RFC 8949 §3.4.4 as tag 4: an array of
// [exponent, mantissa] where the value is mantissa * 10^exponent. An
// Exponent of zero (an integral value) is written as the unscaled mantissa
// directly, skipping the tag/array wrapper entirely.
type BigDecimal struct {
	Exponent int64
	Mantissa *big.Int
}

func (d BigDecimal) EncodeCBOR(w *Writer) error {
	m := d.Mantissa
	if m == nil {
		m = new(big.Int)
	}
	if d.Exponent == 0 {
		writeBigIntValue(w, m)
		return w.Err()
	}
	w.WriteTag(TagDecimalFraction)
	w.WriteArrayHeader(2)
	w.WriteInt64(d.Exponent)
	writeBigIntValue(w, m)
	return w.Err()
}

func (d *BigDecimal) DecodeCBOR(r *Reader) error {
	if !r.HasTag() {
		m, err := readBigIntValue(r)
		if err != nil {
			return err
		}
		d.Exponent = 0
		d.Mantissa = m
		return nil
	}
	if err := readTaggedFraction(r, TagDecimalFraction); err != nil {
		return err
	}
	exp, err := r.ReadInt64()
	if err != nil {
		return err
	}
	mant, err := readBigIntValue(r)
	if err != nil {
		return err
	}
	d.Exponent = exp
	d.Mantissa = mant
	return nil
}

// BigFloat is the Encodable/Decodable wrapper for an arbitrary-precision
// binary float, per RFC 8949 §3.4.4 tag 5: an array of [exponent, mantissa]
// where the value is mantissa * 2^exponent. As with BigDecimal, a zero
// exponent is written as the unscaled mantissa directly.
type BigFloat struct {
	Exponent int64
	Mantissa *big.Int
}

func (f BigFloat) EncodeCBOR(w *Writer) error {
	m := f.Mantissa
	if m == nil {
		m = new(big.Int)
	}
	if f.Exponent == 0 {
		writeBigIntValue(w, m)
		return w.Err()
	}
	w.WriteTag(TagBigFloat)
	w.WriteArrayHeader(2)
	w.WriteInt64(f.Exponent)
	writeBigIntValue(w, m)
	return w.Err()
}

func (f *BigFloat) DecodeCBOR(r *Reader) error {
	if !r.HasTag() {
		m, err := readBigIntValue(r)
		if err != nil {
			return err
		}
		f.Exponent = 0
		f.Mantissa = m
		return nil
	}
	if err := readTaggedFraction(r, TagBigFloat); err != nil {
		return err
	}
	exp, err := r.ReadInt64()
	if err != nil {
		return err
	}
	mant, err := readBigIntValue(r)
	if err != nil {
		return err
	}
	f.Exponent = exp
	f.Mantissa = mant
	return nil
}

// readTaggedFraction consumes a tag (expected to be want, TagDecimalFraction
// or TagBigFloat) and its 2-element array header, leaving the exponent as
// the next item.
func readTaggedFraction(r *Reader, want Tag) error {
	t, err := r.ReadTag()
	if err != nil {
		return err
	}
	if t != want {
		return ValidationFailureError{Reason: "unexpected tag for fraction encoding"}
	}
	n, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if n != 2 {
		return ArrayError{Wanted: 2, Got: n}
	}
	return nil
}
