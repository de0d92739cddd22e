package eip7702

import (
	"fmt"

	"github.com/holiman/uint256"
)

var (
	// secp256k1N is the order of the secp256k1 curve.
	secp256k1N = uint256.MustFromHex("0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	// secp256k1HalfN bounds s from above to rule out malleable signatures.
	secp256k1HalfN = new(uint256.Int).Rsh(secp256k1N, 1)
)

// Signature is an ECDSA signature over an authorization's SigningHash.
type Signature struct {
	R       uint256.Int
	S       uint256.Int
	YParity bool
}

// SignedAuthorization is an Authorization together with its signature.
type SignedAuthorization struct {
	inner   Authorization
	yParity uint8
	r       uint256.Int
	s       uint256.Int
}

// NewSignedAuthorization attaches a signature after checking that the
// parity is 0 or 1, that 0 < r < N and that 0 < s <= N/2.
func NewSignedAuthorization(inner Authorization, yParity uint8, r, s uint256.Int) (SignedAuthorization, error) {
	switch {
	case yParity > 1:
		return SignedAuthorization{}, fmt.Errorf("%w: y parity %d", ErrInvalidSignature, yParity)
	case r.IsZero() || !r.Lt(secp256k1N):
		return SignedAuthorization{}, fmt.Errorf("%w: r out of range", ErrInvalidSignature)
	case s.IsZero() || s.Gt(secp256k1HalfN):
		return SignedAuthorization{}, fmt.Errorf("%w: s out of range", ErrInvalidSignature)
	}
	return NewSignedAuthorizationUnchecked(inner, yParity, r, s), nil
}

// NewSignedAuthorizationUnchecked attaches a signature without validation.
// Use it only for components that were validated before, such as values
// read back from storage.
func NewSignedAuthorizationUnchecked(inner Authorization, yParity uint8, r, s uint256.Int) SignedAuthorization {
	return SignedAuthorization{inner: inner, yParity: yParity, r: r, s: s}
}

// Authorization returns the signed tuple.
func (sa SignedAuthorization) Authorization() Authorization { return sa.inner }

// YParity returns the signature's recovery parity.
func (sa SignedAuthorization) YParity() uint8 { return sa.yParity }

// R returns the signature's r scalar.
func (sa SignedAuthorization) R() uint256.Int { return sa.r }

// S returns the signature's s scalar.
func (sa SignedAuthorization) S() uint256.Int { return sa.s }

// RBytes returns r as 32 big-endian bytes.
func (sa SignedAuthorization) RBytes() [32]byte { return sa.r.Bytes32() }

// SBytes returns s as 32 big-endian bytes.
func (sa SignedAuthorization) SBytes() [32]byte { return sa.s.Bytes32() }

// Signature returns the signature components.
func (sa SignedAuthorization) Signature() Signature {
	return Signature{R: sa.r, S: sa.s, YParity: sa.yParity == 1}
}
