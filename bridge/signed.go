package bridge

import (
	"fmt"

	"github.com/oy3o/compact"
	"github.com/oy3o/compact/eip7702"
)

// SignatureHeaderSize is the width of the parity and r/s fields that
// precede the inner authorization of a signed entry.
const SignatureHeaderSize = 1 + compact.U256Size + compact.U256Size

// signatureHeader is the fixed-width prefix of a signed authorization.
// r and s are stored as raw 32-byte little-endian scalars with no elision.
type signatureHeader struct {
	YParity uint8
	R       [compact.U256Size]byte
	S       [compact.U256Size]byte
}

// SignedAuthorization adapts eip7702.SignedAuthorization to the compact codec.
//
//	y parity      | 1 byte
//	r             | 32 bytes little-endian
//	s             | 32 bytes little-endian
//	authorization | declared length - 65 bytes
//
// The inner authorization goes last so that its length, and with it the
// chain id's width, is implied by the declared length.
type SignedAuthorization struct {
	eip7702.SignedAuthorization
}

var (
	_ compact.Codec = (*SignedAuthorization)(nil)
	_ compact.Sizer = (*SignedAuthorization)(nil)
)

func (sa *SignedAuthorization) CompactSize() int {
	inner := toMirror(sa.Authorization())
	return SignatureHeaderSize + inner.CompactSize()
}

func (sa *SignedAuthorization) MarshalCompact(buf *compact.Buffer) int {
	r, s := sa.R(), sa.S()
	header := compact.Fixed[signatureHeader]{Payload: signatureHeader{
		YParity: sa.YParity(),
		R:       compact.U256ToLE(&r),
		S:       compact.U256ToLE(&s),
	}}
	inner := toMirror(sa.Authorization())
	return header.MarshalCompact(buf) + inner.MarshalCompact(buf)
}

// UnmarshalCompact rebuilds the value without re-validating the signature:
// it was validated before it was first stored.
func (sa *SignedAuthorization) UnmarshalCompact(data []byte, n int) ([]byte, error) {
	if n < SignatureHeaderSize {
		return nil, fmt.Errorf("%w: declared length %d, signed authorization needs at least %d",
			compact.ErrTruncatedData, n, SignatureHeaderSize)
	}
	var header compact.Fixed[signatureHeader]
	var inner authorization

	d := compact.NewDecoder(data, n)
	d.Field(&header, SignatureHeaderSize)
	d.Field(&inner, d.Remaining())
	rest, err := d.Result()
	if err != nil {
		return nil, err
	}

	sa.SignedAuthorization = eip7702.NewSignedAuthorizationUnchecked(
		inner.external(),
		header.Payload.YParity,
		compact.U256FromLE(header.Payload.R[:]),
		compact.U256FromLE(header.Payload.S[:]),
	)
	return rest, nil
}

// EncodeSignedAuthorization returns the compact encoding of v and its byte count.
func EncodeSignedAuthorization(v eip7702.SignedAuthorization) ([]byte, int) {
	return compact.Encode(&SignedAuthorization{v})
}

// DecodeSignedAuthorization reconstructs a signed authorization from its
// encoding and the byte count returned when it was encoded.
func DecodeSignedAuthorization(data []byte, n int) (eip7702.SignedAuthorization, []byte, error) {
	v, rest, err := compact.Decode[SignedAuthorization](data, n)
	return v.SignedAuthorization, rest, err
}
