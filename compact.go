package compact

// Sizer is an interface for types that can report their compact size.
// This is useful for pre-allocating buffers before encoding.
type Sizer interface {
	// CompactSize returns the number of bytes MarshalCompact will write.
	CompactSize() int
}

// Marshaler appends a value's compact encoding to a Buffer.
//
// The encoding never carries a length prefix for the value's own span:
// the returned byte count is the only record of it, and the caller (or a
// parent composite) must remember it if the value is to be decoded again.
// Encoding must be deterministic.
type Marshaler interface {
	MarshalCompact(buf *Buffer) int
}

// Unmarshaler reconstructs a value from the front of buf.
//
// n is the declared length previously returned by MarshalCompact. The
// decoder must not consume more than n bytes; whatever follows its span
// is returned as rest and belongs to a sibling or parent field.
type Unmarshaler interface {
	UnmarshalCompact(buf []byte, n int) (rest []byte, err error)
}

// Codec aggregates both halves of the compact contract.
type Codec interface {
	Marshaler
	Unmarshaler
}
