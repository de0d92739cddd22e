package eip7702

import "encoding/binary"

// Order is the byte order of RLP integers.
var Order = binary.BigEndian

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}

// appendRLPString appends b as an RLP byte string. A single byte below 0x80
// is its own encoding.
func appendRLPString(dst, b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return append(dst, b[0])
	}
	return appendRLPHeader(dst, 0x80, b)
}

// appendRLPHeader appends the short or long form header for a payload with
// the given base offset (0x80 strings, 0xc0 lists), followed by the payload.
func appendRLPHeader(dst []byte, base byte, payload []byte) []byte {
	if len(payload) < 56 {
		dst = append(dst, base+byte(len(payload)))
		return append(dst, payload...)
	}
	var size [8]byte
	Order.PutUint64(size[:], uint64(len(payload)))
	sizeBytes := trimLeadingZeros(size[:])
	dst = append(dst, base+55+byte(len(sizeBytes)))
	dst = append(dst, sizeBytes...)
	return append(dst, payload...)
}
