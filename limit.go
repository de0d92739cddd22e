package compact

import (
	"io"
	"sync"
)

// chunkSize is the largest span a Reader allocates before any of it has
// been read. Longer spans grow with the data that actually arrives.
const chunkSize = 32 * 1024

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, chunkSize)
		return &b
	},
}

// LimitedReader reads at most N bytes from the underlying reader.
type LimitedReader struct {
	*io.LimitedReader
}

// LimitReader returns a reader that stops with io.EOF after n bytes.
func LimitReader(r io.Reader, n int64) *LimitedReader {
	return &LimitedReader{&io.LimitedReader{R: r, N: n}}
}

// Close closes the underlying reader if it implements io.Closer.
func (r *LimitedReader) Close() error {
	if c, ok := r.R.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WriteTo implements io.WriterTo, providing an optimized path for io.Copy.
// It never holds more than one chunk of unwritten data.
func (r *LimitedReader) WriteTo(w io.Writer) (n int64, err error) {
	if rf, ok := w.(io.ReaderFrom); ok {
		return rf.ReadFrom(r.LimitedReader)
	}

	bufPtr := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufPtr)
	buf := *bufPtr

	for {
		read, er := r.Read(buf)
		if read > 0 {
			written, ew := w.Write(buf[:read])
			n += int64(written)
			if ew != nil {
				err = ew
				break
			}
			if read != written {
				err = io.ErrShortWrite
				break
			}
		}
		if er != nil {
			if er != io.EOF {
				err = er
			}
			break
		}
	}
	return n, err
}
