package compact

import (
	"bufio"
	"bytes"
	"io"
)

// Reader provides a buffered reader that simplifies reading framed records.
// It wraps bufio.Reader and tracks the first error. Subsequent reads become no-ops.
type Reader struct {
	r     *bufio.Reader
	count int64 // total bytes read
	err   error // first error encountered.
}

// NewReaderSize creates a new Reader with a specified buffer size.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	// Reuse an existing bufio.Reader rather than double-buffering.
	if br, ok := r.(*bufio.Reader); ok && br.Size() >= size {
		return &Reader{r: br}, nil
	}
	return &Reader{r: bufio.NewReaderSize(r, size)}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, 0)
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// readFull is an internal helper to read an exact number of bytes.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > chunkSize {
		return r.readChunked(n)
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r.r, buf)
	r.count += int64(read)
	if err != nil {
		// io.ReadFull reports io.EOF only when nothing was read, and
		// io.ErrUnexpectedEOF for a partial read, which is what callers need
		// to tell a clean end-of-stream from a torn one.
		r.err = err
		return nil
	}
	return buf
}

// readChunked reads a large span without trusting n up front, so a corrupt
// length costs at most the bytes the stream really holds.
func (r *Reader) readChunked(n int) []byte {
	var buf bytes.Buffer
	read, err := LimitReader(r.r, int64(n)).WriteTo(&buf)
	r.count += read
	switch {
	case err != nil:
		r.err = err
	case read == 0:
		r.err = io.EOF
	case read < int64(n):
		r.err = io.ErrUnexpectedEOF
	}
	if r.err != nil {
		return nil
	}
	return buf.Bytes()
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return r.readFull(n)
}

func (r *Reader) ReadUint8(dest *uint8) {
	if r.err != nil {
		return
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
		*dest = b
	} else {
		r.err = err
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = Order.Uint32(buf)
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = Order.Uint64(buf)
	}
}
