// Package eip7702 defines the EIP-7702 set-code authorization values.
//
// An Authorization delegates an account's code to another address on a
// given chain. A SignedAuthorization carries the authority's signature over
// it. The signature components are private and can only be set through a
// constructor, so a SignedAuthorization in hand has either been validated or
// was explicitly rebuilt from trusted storage.
package eip7702

import (
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// Magic is the domain separator prepended to the RLP payload when hashing
// an authorization for signing.
const Magic byte = 0x05

// Authorization is an unsigned (chain id, address, nonce) delegation tuple.
type Authorization struct {
	// ChainID is the chain the authorization is valid on; zero means any chain.
	ChainID uint256.Int
	// Address is the delegation target whose code the authority adopts.
	Address Address

	nonce uint64
}

// NewAuthorization builds an authorization tuple.
func NewAuthorization(chainID uint256.Int, address Address, nonce uint64) Authorization {
	return Authorization{ChainID: chainID, Address: address, nonce: nonce}
}

// Nonce returns the authority's account nonce the authorization is bound to.
func (a Authorization) Nonce() uint64 { return a.nonce }

// WithNonce returns a copy of a bound to a different nonce.
func (a Authorization) WithNonce(nonce uint64) Authorization {
	a.nonce = nonce
	return a
}

// SigningHash returns keccak256(0x05 || rlp([chain_id, address, nonce])),
// the digest the authority signs.
func (a Authorization) SigningHash() [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{Magic})
	h.Write(a.rlp())

	var sum [32]byte
	h.Sum(sum[:0])
	return sum
}

// IntoSigned attaches sig without validating it.
func (a Authorization) IntoSigned(sig Signature) SignedAuthorization {
	parity := uint8(0)
	if sig.YParity {
		parity = 1
	}
	return NewSignedAuthorizationUnchecked(a, parity, sig.R, sig.S)
}

// rlp encodes the tuple as an RLP list of its three fields.
func (a Authorization) rlp() []byte {
	chainID := a.ChainID.Bytes32()
	var nonce [8]byte
	Order.PutUint64(nonce[:], a.nonce)

	var payload []byte
	payload = appendRLPString(payload, trimLeadingZeros(chainID[:]))
	payload = appendRLPString(payload, a.Address[:])
	payload = appendRLPString(payload, trimLeadingZeros(nonce[:]))
	return appendRLPHeader(nil, 0xc0, payload)
}
