package compact

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache avoids the high performance cost of reflection in `binary.Size`
// on every call. Using a concurrent map makes it concurrent-safe.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// Fixed provides a generic compact codec for any struct `Payload`
// composed of fixed-size fields, laid out in declaration order with no padding.
//
// Constraint: The `Payload` type MUST NOT contain variable-size fields like slices,
// maps, or strings, as this will cause `binary.Size` to fail.
type Fixed[Payload any] struct {
	Payload Payload
}

// Statically assert that Fixed implements the compact contract.
var (
	_ Codec = (*Fixed[struct{}])(nil)
	_ Sizer = (*Fixed[struct{}])(nil)
)

// CompactSize returns the fixed size of the struct in bytes.
// The result is cached to avoid reflection overhead on subsequent calls.
func (c *Fixed[Payload]) CompactSize() int {
	payloadType := reflect.TypeOf((*Payload)(nil)).Elem()

	// Attempt to load from the concurrent-safe cache first for performance.
	if size, ok := sizeCache.Load(payloadType); ok {
		return size
	}

	// If not cached, perform the expensive reflection-based calculation.
	size := binary.Size(&c.Payload)

	// Store the result for subsequent calls.
	sizeCache.Store(payloadType, size)
	return size
}

// MarshalCompact appends the payload and returns its fixed size.
func (c *Fixed[Payload]) MarshalCompact(buf *Buffer) int {
	out, err := binary.Append(buf.B, Order, &c.Payload)
	if err != nil {
		// binary.Append only fails for payloads that are not fixed-size,
		// which violates the type's constraint.
		panic(fmt.Sprintf("codec: Fixed payload %T is not fixed-size: %v", c.Payload, err))
	}
	n := len(out) - len(buf.B)
	buf.B = out
	return n
}

// UnmarshalCompact decodes the payload from the front of data. The declared
// length must cover the whole payload; bytes past the payload are returned.
func (c *Fixed[Payload]) UnmarshalCompact(data []byte, n int) ([]byte, error) {
	size := c.CompactSize()
	if n < size {
		return nil, fmt.Errorf("%w: declared length %d, fixed payload needs %d", ErrTruncatedData, n, size)
	}
	read, err := binary.Decode(data, Order, &c.Payload)
	if err != nil {
		// binary.Decode only returns a buffer too small error here, it means the data is truncated
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedData, size, len(data))
	}
	return data[read:], nil
}
