package bridge

import (
	"fmt"

	"github.com/oy3o/compact"
	"github.com/oy3o/compact/eip7702"
)

// AuthorizationList is the authorization list of a set-code transaction.
//
// Entries are variable length and the entry codec does not describe its own
// span, so the list frames each one: a width byte w, then the entry's byte
// count as a w-byte elided big-endian integer, then the entry. The list as a
// whole writes no length; its declared length covers every frame.
type AuthorizationList []eip7702.SignedAuthorization

var _ compact.Codec = (*AuthorizationList)(nil)

func (l *AuthorizationList) MarshalCompact(buf *compact.Buffer) int {
	var entry compact.Buffer
	written := 0
	for _, v := range *l {
		entry.Reset()
		n := (&SignedAuthorization{v}).MarshalCompact(&entry)

		var width compact.Buffer
		w := compact.PutUint(&width, uint64(n))
		written += buf.PutUint8(uint8(w))
		written += buf.PutSlice(width.Bytes())
		written += buf.PutSlice(entry.Bytes())
	}
	return written
}

func (l *AuthorizationList) UnmarshalCompact(data []byte, n int) ([]byte, error) {
	if n < 0 {
		return nil, compact.ErrNegativeLength
	}
	if n > len(data) {
		return nil, fmt.Errorf("%w: declared length %d, buffer has %d", compact.ErrTruncatedData, n, len(data))
	}
	c := compact.NewCursor(data[:n])
	var out AuthorizationList
	for c.Available() > 0 {
		w, err := c.Uint8()
		if err != nil {
			return nil, err
		}
		size, _, err := compact.GetUint[uint64](c.Rest(), int(w))
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(out), err)
		}
		if _, err := c.Take(int(w)); err != nil {
			return nil, err
		}
		if size > uint64(c.Available()) {
			return nil, fmt.Errorf("%w: entry %d declares %d bytes, %d left", compact.ErrTruncatedData, len(out), size, c.Available())
		}
		payload, _ := c.Take(int(size))
		v, rest, err := DecodeSignedAuthorization(payload, int(size))
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(out), err)
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("%w: entry %d left %d bytes", compact.ErrTrailingData, len(out), len(rest))
		}
		out = append(out, v)
	}
	*l = out
	return data[n:], nil
}
