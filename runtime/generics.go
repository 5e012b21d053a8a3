package cbor

import "iter"

// Encoder writes a single value of type T through w.
type Encoder[T any] func(w *Writer, v T) error

// Decoder reads a single value of type T from r.
type Decoder[T any] func(r *Reader) (T, error)

// Option represents a value that may be absent, encoded as ArrayHeader(0)
// when absent and ArrayHeader(1) followed by the value when present (the
// empty-or-singleton-array encoding, distinguishing "no value" from "a
// present value that happens to be null").
type Option[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Valid: true} }

// None is the absent Option of T.
func None[T any]() Option[T] { return Option[T]{} }

// EncodeOption writes o through w as ArrayHeader(0) when absent, or
// ArrayHeader(1) followed by enc(o.Value) when present.
func EncodeOption[T any](w *Writer, o Option[T], enc Encoder[T]) error {
	if !o.Valid {
		w.WriteArrayHeader(0)
		return w.Err()
	}
	w.WriteArrayHeader(1)
	if err := enc(w, o.Value); err != nil {
		return err
	}
	return w.Err()
}

// DecodeOption reads an Option[T] previously written by EncodeOption: an
// empty array becomes None, a 1-element array is decoded with dec and
// wrapped as Some.
func DecodeOption[T any](r *Reader, dec Decoder[T]) (Option[T], error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return Option[T]{}, err
	}
	switch n {
	case 0:
		return None[T](), nil
	case 1:
		v, err := dec(r)
		if err != nil {
			return Option[T]{}, err
		}
		return Some(v), nil
	default:
		return Option[T]{}, ArrayError{Wanted: 1, Got: n}
	}
}

// Either holds exactly one of a Left or a Right value, encoded as a
// single-entry map: {0: left} or {1: right}.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left wraps a left-hand value.
func Left[L, R any](v L) Either[L, R] { return Either[L, R]{left: v} }

// Right wraps a right-hand value.
func Right[L, R any](v R) Either[L, R] { return Either[L, R]{right: v, isRight: true} }

// IsRight reports which alternative e holds.
func (e Either[L, R]) IsRight() bool { return e.isRight }

// Unwrap returns both alternatives' zero-or-set values and IsRight's value,
// for callers that want to switch without two accessor calls.
func (e Either[L, R]) Unwrap() (L, R, bool) { return e.left, e.right, e.isRight }

// EncodeEither writes e through w as a single-entry map keyed by its
// discriminant: {0: left} or {1: right}.
func EncodeEither[L, R any](w *Writer, e Either[L, R], encL Encoder[L], encR Encoder[R]) error {
	w.WriteMapHeader(1)
	if e.isRight {
		w.WriteUint64(1)
		if err := encR(w, e.right); err != nil {
			return err
		}
	} else {
		w.WriteUint64(0)
		if err := encL(w, e.left); err != nil {
			return err
		}
	}
	return w.Err()
}

// DecodeEither reads an Either[L, R] previously written by EncodeEither.
func DecodeEither[L, R any](r *Reader, decL Decoder[L], decR Decoder[R]) (Either[L, R], error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return Either[L, R]{}, err
	}
	if n != 1 {
		return Either[L, R]{}, ArrayError{Wanted: 1, Got: n}
	}
	disc, err := r.ReadUint64()
	if err != nil {
		return Either[L, R]{}, err
	}
	switch disc {
	case 0:
		v, err := decL(r)
		if err != nil {
			return Either[L, R]{}, err
		}
		return Left[L, R](v), nil
	case 1:
		v, err := decR(r)
		if err != nil {
			return Either[L, R]{}, err
		}
		return Right[L, R](v), nil
	default:
		return Either[L, R]{}, InvalidCborDataError{Reason: "either discriminant must be 0 or 1"}
	}
}

// EncodeSlice writes items as a definite-length CBOR array.
func EncodeSlice[T any](w *Writer, items []T, enc Encoder[T]) error {
	w.WriteArrayHeader(uint32(len(items)))
	for _, v := range items {
		if err := enc(w, v); err != nil {
			return err
		}
	}
	return w.Err()
}

// DecodeSlice reads a definite-length CBOR array into a []T.
func DecodeSlice[T any](r *Reader, dec Decoder[T]) ([]T, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := dec(r)
		if err != nil {
			return nil, WrapError(err, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// EncodeIter streams seq as an indefinite-length CBOR array, for producers
// that don't know their length up front (a database cursor, a generator).
func EncodeIter[T any](w *Writer, seq iter.Seq[T], enc Encoder[T]) error {
	w.WriteArrayStart()
	for v := range seq {
		if err := enc(w, v); err != nil {
			return err
		}
	}
	w.WriteBreak()
	return w.Err()
}

// DecodeIter returns an iter.Seq[T] that lazily decodes elements of an
// array (definite or indefinite-length) from r as it is ranged over. The
// Reader must not be used concurrently with iteration.
func DecodeIter[T any](r *Reader, dec Decoder[T]) (iter.Seq[T], error) {
	if r.HasArrayStart() {
		if _, _, err := r.ReadArrayStart(); err != nil {
			return nil, err
		}
		return func(yield func(T) bool) {
			for {
				done, err := r.TryReadBreak()
				if err != nil || done {
					return
				}
				v, err := dec(r)
				if err != nil {
					return
				}
				if !yield(v) {
					return
				}
			}
		}, nil
	}
	n, err := r.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	return func(yield func(T) bool) {
		for i := uint32(0); i < n; i++ {
			v, err := dec(r)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}, nil
}

// EncodeMap writes m as a definite-length CBOR map. Go map iteration order
// is random; this package does not canonicalize key ordering (see
// Non-goals), so callers needing deterministic output must sort upstream.
func EncodeMap[K comparable, V any](w *Writer, m map[K]V, encK Encoder[K], encV Encoder[V]) error {
	w.WriteMapHeader(uint32(len(m)))
	for k, v := range m {
		if err := encK(w, k); err != nil {
			return err
		}
		if err := encV(w, v); err != nil {
			return err
		}
	}
	return w.Err()
}

// DecodeMap reads a CBOR map (definite-length MapHeader, or indefinite
// MapStart/Break) into a map[K]V. Duplicate keys overwrite earlier entries
// (see DESIGN.md's Open Question decision).
func DecodeMap[K comparable, V any](r *Reader, decK Decoder[K], decV Decoder[V]) (map[K]V, error) {
	if r.HasMapStart() {
		if err := r.ReadMapStart(); err != nil {
			return nil, err
		}
		out := make(map[K]V)
		for i := uint32(0); ; i++ {
			done, err := r.TryReadBreak()
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			k, err := decK(r)
			if err != nil {
				return nil, WrapError(err, i)
			}
			v, err := decV(r)
			if err != nil {
				return nil, WrapError(err, i)
			}
			out[k] = v
		}
	}
	n, err := r.ReadMapHeader()
	if err != nil {
		return nil, err
	}
	out := make(map[K]V, n)
	for i := uint32(0); i < n; i++ {
		k, err := decK(r)
		if err != nil {
			return nil, WrapError(err, i)
		}
		v, err := decV(r)
		if err != nil {
			return nil, WrapError(err, i)
		}
		out[k] = v
	}
	return out, nil
}
