package compact

import "fmt"

// Encode returns the compact encoding of v together with its byte count.
// If v reports its size, the buffer is allocated once up front.
func Encode[T Marshaler](v T) ([]byte, int) {
	var buf Buffer
	if s, ok := any(v).(Sizer); ok {
		buf.Grow(s.CompactSize())
	}
	n := v.MarshalCompact(&buf)
	return buf.Bytes(), n
}

// Decode reconstructs a fresh T from data using the declared length n,
// returning whatever bytes follow its span.
func Decode[T any, PT interface {
	*T
	Unmarshaler
}](data []byte, n int) (T, []byte, error) {
	var v T
	rest, err := PT(&v).UnmarshalCompact(data, n)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return v, rest, nil
}

// DecodeExact decodes a standalone record whose declared length is the whole
// of data. Any unconsumed bytes indicate a framing error and are rejected.
func DecodeExact[T any, PT interface {
	*T
	Unmarshaler
}](data []byte) (T, error) {
	v, rest, err := Decode[T, PT](data, len(data))
	if err != nil {
		return v, err
	}
	if len(rest) > 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d bytes after %d-byte record", ErrTrailingData, len(rest), len(data)-len(rest))
	}
	return v, nil
}
