package compact

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("codec: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrTruncatedData indicates that a decode could not complete because the
	// buffer, or the declared length handed to it, ended before every fixed-width
	// field was read. A truncated record means storage corruption; it is never retried.
	ErrTruncatedData = errors.New("codec: truncated data")

	// ErrTrailingData is returned when a whole-record decode leaves bytes
	// unconsumed, indicating the declared length and the payload disagree.
	ErrTrailingData = errors.New("codec: trailing data found after decoding")

	// ErrOverflow indicates a variable-width integer span is wider than the
	// destination type can hold.
	ErrOverflow = errors.New("codec: integer span overflows destination")

	// ErrLengthMismatch indicates a delegated field consumed more bytes than
	// the span its parent handed it.
	ErrLengthMismatch = errors.New("codec: field consumed more than its declared span")

	// ErrNegativeLength indicates a decode was called with a negative declared length.
	ErrNegativeLength = errors.New("codec: negative declared length")
)
