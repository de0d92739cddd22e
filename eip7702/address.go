package eip7702

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the size of an account address in bytes.
const AddressLength = 20

// Address is a 20-byte account address.
type Address [AddressLength]byte

// ParseAddress decodes a 40-digit hex address, with or without a 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*AddressLength {
		return a, fmt.Errorf("%w: %q has %d hex digits, want %d", ErrInvalidAddress, s, len(s), 2*AddressLength)
	}
	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error.
// Handy for package-level variables in tests and examples.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Hex returns the lower-case 0x-prefixed hex form.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }
