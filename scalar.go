package compact

import (
	"fmt"
	"unsafe"

	"github.com/holiman/uint256"
	"golang.org/x/exp/constraints"
)

// U256Size is the fixed width of a 256-bit scalar.
const U256Size = 32

// PutU256 appends v as its minimal big-endian byte sequence and returns the
// number of bytes written. Zero writes nothing. The width is not recorded;
// the caller recovers it from the declared length.
func (b *Buffer) PutU256(v *uint256.Int) int {
	full := v.Bytes32()
	n := v.ByteLen()
	b.B = append(b.B, full[U256Size-n:]...)
	return n
}

// PutU256LE appends v as 32 raw little-endian bytes with no elision.
func (b *Buffer) PutU256LE(v *uint256.Int) int {
	le := U256ToLE(v)
	b.B = append(b.B, le[:]...)
	return U256Size
}

// U256ToLE returns the fixed-width little-endian representation of v.
func U256ToLE(v *uint256.Int) [U256Size]byte {
	be := v.Bytes32()
	var le [U256Size]byte
	for i := range be {
		le[i] = be[U256Size-1-i]
	}
	return le
}

// U256FromLE interprets p, which must be 32 bytes, as a little-endian scalar.
func U256FromLE(p []byte) uint256.Int {
	var be [U256Size]byte
	for i := range be {
		be[i] = p[U256Size-1-i]
	}
	var v uint256.Int
	v.SetBytes32(be[:])
	return v
}

// GetU256 decodes an elided big-endian scalar occupying exactly n bytes.
// Leading zero bytes are tolerated and re-encode canonically.
func GetU256(buf []byte, n int) (uint256.Int, []byte, error) {
	var v uint256.Int
	switch {
	case n < 0:
		return v, buf, ErrNegativeLength
	case n > U256Size:
		return v, buf, fmt.Errorf("%w: %d bytes for a 256-bit integer", ErrOverflow, n)
	case n > len(buf):
		return v, buf, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedData, n, len(buf))
	}
	v.SetBytes(buf[:n])
	return v, buf[n:], nil
}

// GetU256LE decodes a fixed-width little-endian scalar.
func GetU256LE(buf []byte) (uint256.Int, []byte, error) {
	if len(buf) < U256Size {
		return uint256.Int{}, buf, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedData, U256Size, len(buf))
	}
	return U256FromLE(buf[:U256Size]), buf[U256Size:], nil
}

// PutUint appends v as its minimal big-endian byte sequence and returns the
// number of bytes written, from 0 for zero up to the width of T.
func PutUint[T constraints.Unsigned](b *Buffer, v T) int {
	x := uint64(v)
	n := 0
	for t := x; t != 0; t >>= 8 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		b.B = append(b.B, byte(x>>(8*uint(i))))
	}
	return n
}

// GetUint decodes an elided big-endian unsigned integer of exactly n bytes.
func GetUint[T constraints.Unsigned](buf []byte, n int) (T, []byte, error) {
	var v T
	switch {
	case n < 0:
		return v, buf, ErrNegativeLength
	case n > int(unsafe.Sizeof(v)):
		return v, buf, fmt.Errorf("%w: %d bytes for a %d-byte integer", ErrOverflow, n, unsafe.Sizeof(v))
	case n > len(buf):
		return v, buf, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedData, n, len(buf))
	}
	var x uint64
	for _, c := range buf[:n] {
		x = x<<8 | uint64(c)
	}
	return T(x), buf[n:], nil
}
