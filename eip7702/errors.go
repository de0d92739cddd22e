package eip7702

import "errors"

var (
	// ErrInvalidAddress indicates a malformed hex address.
	ErrInvalidAddress = errors.New("eip7702: invalid address")

	// ErrInvalidSignature is returned by NewSignedAuthorization when the
	// parity or scalars are outside the secp256k1 domain.
	ErrInvalidSignature = errors.New("eip7702: invalid signature")
)
