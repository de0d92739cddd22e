package record

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/oy3o/compact"
)

// LogWriter appends records to a stream. Each frame is the declared length
// as a big-endian uint32 followed by the record's bytes; this framing is the
// storage engine's copy of the length the codec leaves out.
type LogWriter struct {
	w *compact.Writer
}

// NewLogWriter creates a LogWriter over w.
func NewLogWriter(w io.Writer) (*LogWriter, error) {
	cw, err := compact.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &LogWriter{w: cw}, nil
}

// Append encodes v and writes it as one frame.
func (l *LogWriter) Append(v compact.Marshaler) (Record, error) {
	rec := Store(v)
	return rec, l.Write(rec)
}

// Write writes rec as one frame.
func (l *LogWriter) Write(rec Record) error {
	if rec.Len != len(rec.Data) || uint64(rec.Len) > math.MaxUint32 {
		return fmt.Errorf("%w: declared length %d, %d bytes", ErrCorrupt, rec.Len, len(rec.Data))
	}
	l.w.WriteUint32(uint32(rec.Len))
	l.w.WriteBytes(rec.Data)
	return l.w.Err()
}

// Flush writes any buffered frames to the underlying stream.
func (l *LogWriter) Flush() error {
	_, err := l.w.Result()
	return err
}

// DefaultMaxFrame is the largest frame NewLogReader accepts.
const DefaultMaxFrame = 16 << 20

// LogReader reads frames written by LogWriter.
type LogReader struct {
	r     *compact.Reader
	limit uint32
	err   error // oversized frame; the stream cannot be resynchronized
}

// NewLogReader creates a LogReader over r that accepts frames of up to
// DefaultMaxFrame bytes.
func NewLogReader(r io.Reader) (*LogReader, error) {
	return NewLogReaderLimit(r, DefaultMaxFrame)
}

// NewLogReaderLimit creates a LogReader over r that rejects any frame
// longer than limit bytes as corrupt.
func NewLogReaderLimit(r io.Reader, limit uint32) (*LogReader, error) {
	cr, err := compact.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &LogReader{r: cr, limit: limit}, nil
}

// Next returns the next record. It returns io.EOF at a clean end of stream,
// an error wrapping compact.ErrTruncatedData for a torn final frame and one
// wrapping ErrCorrupt for a frame over the size limit.
func (l *LogReader) Next() (Record, error) {
	if l.err != nil {
		return Record{}, l.err
	}
	var n uint32
	l.r.ReadUint32(&n)
	if err := l.r.Err(); err != nil {
		return Record{}, frameErr(err)
	}
	if n > l.limit || uint64(n) > math.MaxInt {
		l.err = fmt.Errorf("%w: frame of %d bytes exceeds limit %d", ErrCorrupt, n, l.limit)
		return Record{}, l.err
	}
	data := l.r.ReadBytes(int(n))
	if err := l.r.Err(); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Record{}, frameErr(err)
	}
	if data == nil {
		data = []byte{}
	}
	return Record{Data: data, Len: int(n)}, nil
}

// Count returns the number of bytes consumed so far.
func (l *LogReader) Count() int64 { return l.r.Count() }

func frameErr(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: torn frame: %v", compact.ErrTruncatedData, err)
	}
	return err
}
