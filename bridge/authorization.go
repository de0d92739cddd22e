// Package bridge implements the compact codec for the eip7702 value types.
//
// The eip7702 types keep some of their fields private and guard their
// signatures behind constructors, so they cannot be encoded field by field
// directly. Each bridge projects the value through its public accessors
// into a local mirror struct, encodes the mirror, and on decode rebuilds
// the value through its constructor.
//
// Notice: the mirror structs must stay 1:1 with the eip7702 types. Nothing
// links them at compile time; the round-trip tests are the only guard.
package bridge

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/oy3o/compact"
	"github.com/oy3o/compact/eip7702"
)

// authorizationFixedSize is the width of the fields after the chain id.
const authorizationFixedSize = eip7702.AddressLength + 8

// authorization mirrors eip7702.Authorization. Field order is the wire format.
//
//	chain id | elided big-endian, declared length - 28 bytes
//	address  | 20 raw bytes
//	nonce    | 8 bytes big-endian
type authorization struct {
	ChainID uint256.Int
	Address eip7702.Address
	Nonce   uint64
}

var (
	_ compact.Codec = (*authorization)(nil)
	_ compact.Sizer = (*authorization)(nil)
)

func (a *authorization) CompactSize() int {
	return a.ChainID.ByteLen() + authorizationFixedSize
}

func (a *authorization) MarshalCompact(buf *compact.Buffer) int {
	n := buf.PutU256(&a.ChainID)
	n += buf.PutSlice(a.Address[:])
	n += buf.PutUint64(a.Nonce)
	return n
}

// UnmarshalCompact decodes the mirror. The chain id carries no width of its
// own; it owns whatever the declared length leaves after the fixed fields.
func (a *authorization) UnmarshalCompact(data []byte, n int) ([]byte, error) {
	if n < authorizationFixedSize {
		return nil, fmt.Errorf("%w: declared length %d, authorization needs at least %d",
			compact.ErrTruncatedData, n, authorizationFixedSize)
	}
	d := compact.NewDecoder(data, n)
	d.U256(&a.ChainID, n-authorizationFixedSize)
	d.FixedBytes(a.Address[:])
	a.Nonce = d.Uint64()
	return d.Result()
}

func toMirror(v eip7702.Authorization) authorization {
	return authorization{ChainID: v.ChainID, Address: v.Address, Nonce: v.Nonce()}
}

func (a *authorization) external() eip7702.Authorization {
	return eip7702.NewAuthorization(a.ChainID, a.Address, a.Nonce)
}

// Authorization adapts eip7702.Authorization to the compact codec.
type Authorization struct {
	eip7702.Authorization
}

var (
	_ compact.Codec = (*Authorization)(nil)
	_ compact.Sizer = (*Authorization)(nil)
)

func (a *Authorization) CompactSize() int {
	m := toMirror(a.Authorization)
	return m.CompactSize()
}

func (a *Authorization) MarshalCompact(buf *compact.Buffer) int {
	m := toMirror(a.Authorization)
	return m.MarshalCompact(buf)
}

func (a *Authorization) UnmarshalCompact(data []byte, n int) ([]byte, error) {
	var m authorization
	rest, err := m.UnmarshalCompact(data, n)
	if err != nil {
		return nil, err
	}
	a.Authorization = m.external()
	return rest, nil
}

// EncodeAuthorization returns the compact encoding of v and its byte count.
func EncodeAuthorization(v eip7702.Authorization) ([]byte, int) {
	return compact.Encode(&Authorization{v})
}

// DecodeAuthorization reconstructs an authorization from its encoding and
// the byte count returned when it was encoded.
func DecodeAuthorization(data []byte, n int) (eip7702.Authorization, []byte, error) {
	v, rest, err := compact.Decode[Authorization](data, n)
	return v.Authorization, rest, err
}
