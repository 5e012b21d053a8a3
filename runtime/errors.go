package cbor

import (
	"fmt"
	"strconv"
)

const resumableDefault = false

// ctxString renders the variadic context arguments passed to WrapError as a
// single path-like string, e.g. ctxString("map", 2) -> "map/2".
func ctxString(ctx []any) string {
	switch len(ctx) {
	case 0:
		return ""
	case 1:
		return fmt.Sprint(ctx[0])
	default:
		s := fmt.Sprint(ctx[len(ctx)-1])
		for i := len(ctx) - 2; i >= 0; i-- {
			s += "/" + fmt.Sprint(ctx[i])
		}
		return s
	}
}

// Error is the interface satisfied by all of the errors that originate from
// this package.
type Error interface {
	error

	// Resumable reports whether the stream is still recoverable after the
	// error (true), as opposed to malformed and unrecoverable (false).
	Resumable() bool
}

// contextError allows package error instances to be enhanced with
// additional positional context about their origin.
type contextError interface {
	Error

	// withContext must not modify the error instance - it must clone and
	// return a new error with the context added.
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error that has been wrapped with
// additional context.
func Cause(e error) error {
	out := e
	if e, ok := e.(errWrapped); ok && e.cause != nil {
		out = e.cause
	}
	return out
}

// Resumable reports whether the stream is still recoverable after e
// (true), as opposed to malformed and unrecoverable (false).
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that allows the part of
// the data item that caused the problem to be identified. The underlying
// cause can be retrieved with Cause.
//
// The input error is not modified - a new error is returned.
func WrapError(err error, ctx ...any) error {
	switch e := err.(type) {
	case contextError:
		return e.withContext(ctxString(ctx))
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	}
	return add
}

// errWrapped enhances an arbitrary error with context and lets it be
// unwrapped with Cause.
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	}
	return e.cause.Error()
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

func (e errWrapped) Unwrap() error { return e.cause }

// The seven error kinds named by the data model: malformed bytes, a
// Validator-detected structural violation, a truncated input, a data item
// of the wrong Kind for the calling context, an unsupported combination the
// package deliberately declines to handle, an arithmetic/size overflow, and
// a catch-all for anything else originating in this package.

// InvalidCborDataError reports a byte sequence that does not parse as a
// well-formed CBOR data item (reserved additional-info values, a chunk of
// an indefinite-length string with the wrong major type, invalid UTF-8 in a
// text chunk, and similar wire-level defects).
type InvalidCborDataError struct {
	Reason string
	ctx    string
}

func (e InvalidCborDataError) Error() string {
	out := "cbor: invalid cbor data: " + e.Reason
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e InvalidCborDataError) Resumable() bool { return false }

func (e InvalidCborDataError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// ValidationFailureError reports a well-formed event stream that violates a
// structural rule enforced by the Validator: a Break inside a
// definite-length container, a map whose close comes mid-key, a reserved
// simple value, and similar. A nesting depth over the configured limit is
// reported as OverflowError instead.
type ValidationFailureError struct {
	Reason string
	ctx    string
}

func (e ValidationFailureError) Error() string {
	out := "cbor: validation failure: " + e.Reason
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e ValidationFailureError) Resumable() bool { return false }

func (e ValidationFailureError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// InsufficientInputError reports an Input that ended before the bytes a
// data item declared were available. Resumable, since a streaming caller
// may simply need to supply more bytes and retry.
type InsufficientInputError struct {
	Needed    int
	Available int
	// Reason holds a free-form description for call sites that know only
	// that the input was too short, not by how much.
	Reason string
	ctx    string
}

func (e InsufficientInputError) Resumable() bool { return true }

func (e InsufficientInputError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// UnexpectedDataItemError reports a data item whose Kind does not match
// what the calling Reader/codec method required (e.g. readInt() on a Text
// item).
type UnexpectedDataItemError struct {
	Expected Kind
	Got      Kind
	ctx      string
}

func (e UnexpectedDataItemError) Error() string {
	out := "cbor: expected " + e.Expected.String() + " but got " + e.Got.String()
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e UnexpectedDataItemError) Resumable() bool { return true }

func (e UnexpectedDataItemError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// UnsupportedError reports a combination this package deliberately declines
// to handle: an unrecognized simple value in a strict context, a tag this
// build has no codec for, a chunk representation the ChunkOps contract
// can't satisfy.
type UnsupportedError struct {
	Reason string
	ctx    string
}

func (e UnsupportedError) Error() string {
	out := "cbor: unsupported: " + e.Reason
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e UnsupportedError) Resumable() bool { return true }

// TagMismatchError is returned when a tag-based codec (time, bignum, UUID,
// ...) reads a tag number other than the one it expects.
type TagMismatchError struct {
	Expected Tag
	Got      Tag
	ctx      string
}

func (e TagMismatchError) Error() string {
	out := "cbor: expected tag " + strconv.FormatUint(uint64(e.Expected), 10) +
		" but got tag " + strconv.FormatUint(uint64(e.Got), 10)
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e TagMismatchError) Resumable() bool { return true }

func (e TagMismatchError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

func (e UnsupportedError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// OverflowError reports a value or size exceeding a representable or
// configured bound: an integer downcast that loses bits, a container
// length over a configured limit, an Output growing past its 2^31-byte
// cap.
type OverflowError struct {
	Reason string
	ctx    string
}

func (e OverflowError) Error() string {
	out := "cbor: overflow: " + e.Reason
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e OverflowError) Resumable() bool { return true }

func (e OverflowError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// GeneralError is the catch-all kind for package-internal failures that do
// not fit any of the other six (a Receiver chain returning a caller-defined
// error, a recursion-limit trip, misuse of the public API).
type GeneralError struct {
	Reason string
	ctx    string
}

func (e GeneralError) Error() string {
	out := "cbor: " + e.Reason
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e GeneralError) Resumable() bool { return false }

func (e GeneralError) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// Package-level sentinels for the common zero-context cases; construct the
// typed errors directly (with Reason/Expected/Got/etc.) when more detail is
// available.
var (
	ErrRecursion        error = GeneralError{Reason: "recursion limit reached"}
	ErrMaxDepthExceeded error = GeneralError{Reason: "max depth exceeded"}
	ErrNotNil           error = GeneralError{Reason: "value is not nil"}
	ErrInvalidUTF8      error = InvalidCborDataError{Reason: "invalid UTF-8 in text string"}
	ErrDuplicateMapKey  error = ValidationFailureError{Reason: "duplicate map key"}

	// ErrShortBytes is returned by the low-level ReadXxxBytes helpers when
	// the slice being decoded is too short to contain the declared item.
	// It is an InsufficientInputError with no size detail available at
	// that call site.
	ErrShortBytes error = InsufficientInputError{Reason: "not enough bytes remain"}

	// ErrNonCanonicalLength is returned by a strict Reader when an
	// integer, array, map, bytes, or text length uses a wider encoding
	// than its value requires.
	ErrNonCanonicalLength error = ValidationFailureError{Reason: "non-canonical length encoding"}

	// ErrIndefiniteForbidden is returned by a deterministic Reader when it
	// encounters an indefinite-length array, map, bytes, or text item.
	ErrIndefiniteForbidden error = ValidationFailureError{Reason: "indefinite-length item forbidden in deterministic mode"}

	// ErrNonCanonicalFloat is returned in strict read modes when a float is
	// not encoded in the shortest form that round-trips.
	ErrNonCanonicalFloat error = ValidationFailureError{Reason: "non-canonical float encoding"}

	// ErrContainerTooLarge is returned when an array or map header declares
	// a length exceeding a configured limit.
	ErrContainerTooLarge error = UnsupportedError{Reason: "container length exceeds configured limit"}
)

// InvalidAdditionalInfoError is returned when a header byte's additional
// info field is one of the reserved values (28-30).
type InvalidAdditionalInfoError struct {
	Major uint8
	Info  uint8
}

func (e InvalidAdditionalInfoError) Error() string {
	return "cbor: reserved additional-info value " + strconv.Itoa(int(e.Info)) +
		" for major type " + strconv.Itoa(int(e.Major))
}

func (e InvalidAdditionalInfoError) Resumable() bool { return false }

// InsufficientInputError.Reason is set when Needed/Available aren't known
// at the call site (the bulk of the byte-level helpers only know "too
// short", not by how much).
func (e InsufficientInputError) Error() string {
	out := "cbor: insufficient input"
	if e.Reason != "" {
		out += ": " + e.Reason
	} else {
		out += ": need " + strconv.Itoa(e.Needed) + " bytes, have " + strconv.Itoa(e.Available)
	}
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// badPrefix reports a data item whose major type does not match what the
// caller required.
func badPrefix(wantMajor, gotMajor uint8) error {
	return UnexpectedDataItemError{Expected: majorKind(wantMajor), Got: majorKind(gotMajor)}
}

// majorKind gives a representative Kind for a bare major-type value, for
// use in error messages where only the major type (not the full initial
// byte) is known.
func majorKind(major uint8) Kind {
	switch major {
	case majorTypeUint:
		return KindInt
	case majorTypeNegInt:
		return KindLong
	case majorTypeBytes:
		return KindBytes
	case majorTypeText:
		return KindText
	case majorTypeArray:
		return KindArrayHeader
	case majorTypeMap:
		return KindMapHeader
	case majorTypeTag:
		return KindTag
	case majorTypeSimple:
		return KindSimpleValue
	default:
		return 0
	}
}

// ErrUnsupportedType is returned when a decode/encode helper is asked to
// handle a Go value or wire shape it has no codec for.
type ErrUnsupportedType struct {
	ctx string
}

func (e *ErrUnsupportedType) Error() string {
	out := "cbor: unsupported type"
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

func (e *ErrUnsupportedType) Resumable() bool { return true }

func (e *ErrUnsupportedType) withContext(ctx string) error {
	o := *e
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

// ArrayError is returned when decoding a fixed-size array of the wrong
// length (e.g. a 2-tuple codec given a 3-element CBOR array).
type ArrayError struct {
	Wanted uint32
	Got    uint32
	ctx    string
}

func (a ArrayError) Error() string {
	out := "cbor: wanted array of size " + strconv.Itoa(int(a.Wanted)) + "; got " + strconv.Itoa(int(a.Got))
	if a.ctx != "" {
		out += " at " + a.ctx
	}
	return out
}

func (a ArrayError) Resumable() bool { return true }

func (a ArrayError) withContext(ctx string) error { a.ctx = addCtx(a.ctx, ctx); return a }

// IntOverflow is returned when a call would downcast an integer to a type
// with too few bits to hold its value.
type IntOverflow struct {
	Value         int64
	FailedBitsize int
	ctx           string
}

func (i IntOverflow) Error() string {
	str := "cbor: " + strconv.FormatInt(i.Value, 10) + " overflows int" + strconv.Itoa(i.FailedBitsize)
	if i.ctx != "" {
		str += " at " + i.ctx
	}
	return str
}

func (i IntOverflow) Resumable() bool { return true }

func (i IntOverflow) withContext(ctx string) error { i.ctx = addCtx(i.ctx, ctx); return i }

// UintOverflow is returned when a call would downcast an unsigned integer
// to a type with too few bits to hold its value.
type UintOverflow struct {
	Value         uint64
	FailedBitsize int
	ctx           string
}

func (u UintOverflow) Error() string {
	str := "cbor: " + strconv.FormatUint(u.Value, 10) + " overflows uint" + strconv.Itoa(u.FailedBitsize)
	if u.ctx != "" {
		str += " at " + u.ctx
	}
	return str
}

func (u UintOverflow) Resumable() bool { return true }

func (u UintOverflow) withContext(ctx string) error { u.ctx = addCtx(u.ctx, ctx); return u }

// InvalidPrefixError is returned when a bad encoding uses a major type that
// is not expected. Unrecoverable.
type InvalidPrefixError struct {
	Want uint8
	Got  uint8
}

func (i InvalidPrefixError) Error() string {
	return "cbor: expected major type " + strconv.Itoa(int(i.Want)) + " but got " + strconv.Itoa(int(i.Got))
}

func (i InvalidPrefixError) Resumable() bool { return false }
