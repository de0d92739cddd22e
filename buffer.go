package compact

import "encoding/binary"

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the byte order of every fixed-width integer in the format.
	Order = BE
)

// Buffer is an append-only byte sink for compact encodings.
// Unlike a fixed-capacity writer it grows on demand, so writes never fail.
type Buffer struct {
	B []byte // written data
}

// NewBuffer creates a Buffer that appends after the contents of p.
func NewBuffer(p []byte) *Buffer {
	return &Buffer{B: p}
}

// Write implements the io.Writer interface. It never returns an error.
func (b *Buffer) Write(p []byte) (int, error) {
	b.B = append(b.B, p...)
	return len(p), nil
}

// WriteString implements the io.StringWriter interface.
func (b *Buffer) WriteString(s string) (int, error) {
	b.B = append(b.B, s...)
	return len(s), nil
}

// WriteByte implements the io.ByteWriter interface.
func (b *Buffer) WriteByte(c byte) error {
	b.B = append(b.B, c)
	return nil
}

// PutUint8 appends a single byte and returns 1.
func (b *Buffer) PutUint8(v uint8) int {
	b.B = append(b.B, v)
	return 1
}

// PutUint64 appends v as 8 raw bytes in Order and returns 8.
func (b *Buffer) PutUint64(v uint64) int {
	b.B = Order.AppendUint64(b.B, v)
	return 8
}

// PutSlice appends p verbatim and returns len(p).
func (b *Buffer) PutSlice(p []byte) int {
	b.B = append(b.B, p...)
	return len(p)
}

// Grow ensures room for another n bytes without reallocating.
func (b *Buffer) Grow(n int) {
	if n > cap(b.B)-len(b.B) {
		grown := make([]byte, len(b.B), len(b.B)+n)
		copy(grown, b.B)
		b.B = grown
	}
}

// Reset allows the underlying byte slice to be reused.
func (b *Buffer) Reset() { b.B = b.B[:0] }

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return len(b.B) }

// Bytes returns a slice view of the written data.
func (b *Buffer) Bytes() []byte { return b.B }
