package compact

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Decoder consumes the fields of a composite value in declared order.
//
// It tracks two bounds: the input still available and the declared length
// still unspent. A field that would cross either fails the decode. Like
// Reader it latches the first error, so every later field becomes a no-op
// and the composite checks once at the end via Result.
type Decoder struct {
	buf  []byte // unconsumed input
	left int    // declared bytes not yet consumed
	err  error  // first error encountered
}

// NewDecoder starts decoding a value whose declared length is n.
func NewDecoder(buf []byte, n int) *Decoder {
	d := &Decoder{buf: buf, left: n}
	if n < 0 {
		d.err = ErrNegativeLength
	}
	return d
}

// take consumes exactly k bytes of the declared span.
func (d *Decoder) take(k int) []byte {
	if d.err != nil {
		return nil
	}
	if k > d.left {
		d.err = fmt.Errorf("%w: field needs %d bytes, %d left of declared length", ErrTruncatedData, k, d.left)
		return nil
	}
	if k > len(d.buf) {
		d.err = fmt.Errorf("%w: field needs %d bytes, buffer has %d", ErrTruncatedData, k, len(d.buf))
		return nil
	}
	p := d.buf[:k:k]
	d.buf = d.buf[k:]
	d.left -= k
	return p
}

// Err returns the first error encountered.
func (d *Decoder) Err() error { return d.err }

// Remaining returns the declared bytes not yet consumed.
func (d *Decoder) Remaining() int { return d.left }

// Uint8 reads a single raw byte.
func (d *Decoder) Uint8() uint8 {
	p := d.take(1)
	if p == nil {
		return 0
	}
	return p[0]
}

// Uint64 reads 8 raw bytes in Order.
func (d *Decoder) Uint64() uint64 {
	p := d.take(8)
	if p == nil {
		return 0
	}
	return Order.Uint64(p)
}

// FixedBytes fills dst with the next len(dst) raw bytes.
func (d *Decoder) FixedBytes(dst []byte) {
	if p := d.take(len(dst)); p != nil {
		copy(dst, p)
	}
}

// U256 reads an elided big-endian scalar spanning exactly span bytes.
func (d *Decoder) U256(dst *uint256.Int, span int) {
	if d.err != nil {
		return
	}
	if span < 0 {
		d.err = fmt.Errorf("%w: no room left for a variable-width field", ErrTruncatedData)
		return
	}
	if span > U256Size {
		d.err = fmt.Errorf("%w: %d bytes for a 256-bit integer", ErrOverflow, span)
		return
	}
	if p := d.take(span); d.err == nil {
		dst.SetBytes(p)
	}
}

// U256LE reads a fixed-width little-endian scalar.
func (d *Decoder) U256LE(dst *uint256.Int) {
	if p := d.take(U256Size); p != nil {
		*dst = U256FromLE(p)
	}
}

// Field delegates the next span bytes to a nested value's decoder.
func (d *Decoder) Field(u Unmarshaler, span int) {
	if d.err != nil {
		return
	}
	if span < 0 || span > d.left {
		d.err = fmt.Errorf("%w: field span %d, %d left of declared length", ErrTruncatedData, span, d.left)
		return
	}
	rest, err := u.UnmarshalCompact(d.buf, span)
	if err != nil {
		d.err = err
		return
	}
	consumed := len(d.buf) - len(rest)
	if consumed < 0 || consumed > span {
		d.err = fmt.Errorf("%w: consumed %d of %d", ErrLengthMismatch, consumed, span)
		return
	}
	d.buf = rest
	d.left -= consumed
}

// Result returns the input following the consumed fields and the first error.
func (d *Decoder) Result() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.buf, nil
}
