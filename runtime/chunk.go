package cbor

// ChunkOps is the capability object for a byte/text chunk representation.
// The canonical chunk type throughout this package is plain []byte; ChunkOps
// lets callers plug in an alternate representation (e.g. a rope or a
// reference-counted arena buffer) for the Bytes/Text codecs in C9 without
// the rest of the package needing a generic type parameter.
type ChunkOps[T any] interface {
	// Size returns the length in bytes of the chunk t.
	Size(t T) int

	// ToArray copies t into a fresh []byte.
	ToArray(t T) []byte

	// FromArray builds a T from a []byte the implementation is free to
	// retain without copying.
	FromArray(b []byte) T

	// Concat returns a chunk equal to the concatenation of a and b.
	Concat(a, b T) T

	// Empty returns the zero-length chunk.
	Empty() T
}

// byteSliceOps is the canonical ChunkOps implementation over []byte. Default
// encode/decode paths use it directly rather than going through the generic
// interface, per the package's policy of avoiding generic parameters in the
// common path.
type byteSliceOps struct{}

// ByteSliceChunkOps is the canonical ChunkOps[[]byte] implementation.
var ByteSliceChunkOps ChunkOps[[]byte] = byteSliceOps{}

func (byteSliceOps) Size(t []byte) int { return len(t) }

func (byteSliceOps) ToArray(t []byte) []byte {
	out := make([]byte, len(t))
	copy(out, t)
	return out
}

func (byteSliceOps) FromArray(b []byte) []byte { return b }

func (byteSliceOps) Concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func (byteSliceOps) Empty() []byte { return nil }
