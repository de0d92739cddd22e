// Package record stores compact-encoded values.
//
// The compact codec never writes a value's own length, so the storage side
// keeps it: a Record pairs the encoded bytes with the byte count the encoder
// returned, and decoding is always driven by that count.
package record

import (
	"errors"
	"fmt"

	"github.com/oy3o/compact"
)

var (
	// ErrNotFound is returned by Table.Get for an unknown key.
	ErrNotFound = errors.New("record: not found")

	// ErrCorrupt indicates a stored record whose framing or key does not
	// match its contents.
	ErrCorrupt = errors.New("record: corrupt entry")
)

// Record is an encoded value and its declared length.
type Record struct {
	Data []byte
	Len  int
}

// Store encodes v into a new Record.
func Store(v compact.Marshaler) Record {
	data, n := compact.Encode(v)
	return Record{Data: data, Len: n}
}

// Load decodes the record into u. The declared length must cover the whole
// of Data; bytes left over after u's span mean the record is corrupt.
func (r Record) Load(u compact.Unmarshaler) error {
	if r.Len != len(r.Data) {
		return fmt.Errorf("%w: declared length %d, %d bytes stored", ErrCorrupt, r.Len, len(r.Data))
	}
	rest, err := u.UnmarshalCompact(r.Data, r.Len)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: %d bytes after decoded value", compact.ErrTrailingData, len(rest))
	}
	return nil
}
