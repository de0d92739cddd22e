package compact

import "fmt"

// Cursor consumes a byte slice from the front. Reads return views into the
// underlying slice; nothing is copied and ownership stays with the caller.
type Cursor struct {
	B []byte // source slice
	N int    // current read position
}

// NewCursor creates a new Cursor.
func NewCursor(b []byte) *Cursor {
	return &Cursor{B: b}
}

// Take returns the next n bytes and advances past them.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if n > c.Available() {
		return nil, fmt.Errorf("%w: need %d bytes at pos %d, have %d", ErrTruncatedData, n, c.N, c.Available())
	}
	p := c.B[c.N : c.N+n : c.N+n]
	c.N += n
	return p, nil
}

// Uint8 reads a single byte.
func (c *Cursor) Uint8() (uint8, error) {
	if c.N >= len(c.B) {
		return 0, fmt.Errorf("%w: need 1 byte at pos %d", ErrTruncatedData, c.N)
	}
	v := c.B[c.N]
	c.N++
	return v, nil
}

// Uint64 reads 8 raw bytes in Order.
func (c *Cursor) Uint64() (uint64, error) {
	p, err := c.Take(8)
	if err != nil {
		return 0, err
	}
	return Order.Uint64(p), nil
}

// Rest returns the unconsumed remainder without advancing.
func (c *Cursor) Rest() []byte { return c.B[c.N:] }

// Len returns the number of bytes read.
func (c *Cursor) Len() int { return c.N }

// Available returns the number of bytes available for reading.
func (c *Cursor) Available() int {
	length := len(c.B) - c.N
	if length <= 0 {
		return 0
	}
	return length
}
