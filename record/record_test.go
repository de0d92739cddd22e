package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oy3o/compact"
	"github.com/oy3o/compact/bridge"
	"github.com/oy3o/compact/eip7702"
)

var usdt = eip7702.MustParseAddress("0xdac17f958d2ee523a2206206994597c13d831ec7")

func signedAt(nonce uint64) *bridge.SignedAuthorization {
	auth := eip7702.NewAuthorization(*uint256.NewInt(1), usdt, nonce)
	return &bridge.SignedAuthorization{
		SignedAuthorization: eip7702.NewSignedAuthorizationUnchecked(auth, 1, *uint256.NewInt(11), *uint256.NewInt(22)),
	}
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, level+": "+msg)
}

func (l *recordingLogger) Debug(msg string, _ Fields) { l.add("debug", msg) }
func (l *recordingLogger) Info(msg string, _ Fields)  { l.add("info", msg) }
func (l *recordingLogger) Warn(msg string, _ Fields)  { l.add("warn", msg) }
func (l *recordingLogger) Error(msg string, _ Fields) { l.add("error", msg) }

func TestRecordStoreLoad(t *testing.T) {
	v := signedAt(1)
	rec := Store(v)
	assert.Equal(t, len(rec.Data), rec.Len)

	var got bridge.SignedAuthorization
	require.NoError(t, rec.Load(&got))
	assert.Equal(t, v.SignedAuthorization, got.SignedAuthorization)

	t.Run("LengthMismatch", func(t *testing.T) {
		bad := Record{Data: rec.Data, Len: rec.Len - 1}
		assert.ErrorIs(t, bad.Load(&got), ErrCorrupt)
	})

	t.Run("TrailingData", func(t *testing.T) {
		fixed := compact.Fixed[struct{ A uint32 }]{}
		padded := Record{Data: []byte{0, 0, 0, 1, 0}, Len: 5}
		assert.ErrorIs(t, padded.Load(&fixed), compact.ErrTrailingData)
	})

	t.Run("Truncated", func(t *testing.T) {
		short := Record{Data: rec.Data[:40], Len: 40}
		assert.ErrorIs(t, short.Load(&got), compact.ErrTruncatedData)
	})
}

// --- Table Test Suite ---

type TableTestSuite struct {
	suite.Suite
	log   *recordingLogger
	table *Table
}

func (s *TableTestSuite) SetupTest() {
	s.log = &recordingLogger{}
	s.table = NewTable(Options{Logger: s.log})
}

func (s *TableTestSuite) TestPutGet() {
	key, rec := s.table.Put(signedAt(1))
	s.Assert().Equal(KeyOf(rec.Data), key)
	s.Assert().Equal(1, s.table.Len())

	var got bridge.SignedAuthorization
	s.Require().NoError(s.table.Get(key, &got))
	s.Assert().Equal(uint64(1), got.Authorization().Nonce())

	again, _ := s.table.Put(signedAt(1))
	s.Assert().Equal(key, again)
	s.Assert().Equal(1, s.table.Len(), "equal values share a key")
}

func (s *TableTestSuite) TestGetMissing() {
	var got bridge.SignedAuthorization
	err := s.table.Get(Key{}, &got)
	s.Assert().ErrorIs(err, ErrNotFound)
}

func (s *TableTestSuite) TestGetLogsDecodeFailure() {
	key, _ := s.table.Put(signedAt(1))
	var wrong bridge.AuthorizationList
	err := s.table.Get(key, &wrong)
	s.Require().Error(err)
	s.Assert().Contains(s.log.msgs, "error: record decode failed")
}

func (s *TableTestSuite) TestDelete() {
	key, _ := s.table.Put(signedAt(1))
	s.table.Delete(key)
	_, ok := s.table.Raw(key)
	s.Assert().False(ok)
	s.Assert().Zero(s.table.Len())
}

func (s *TableTestSuite) TestConcurrentAccess() {
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(nonce uint64) {
			defer wg.Done()
			key, _ := s.table.Put(signedAt(nonce))
			var got bridge.SignedAuthorization
			if err := s.table.Get(key, &got); err != nil {
				s.T().Error(err)
				return
			}
			if got.Authorization().Nonce() != nonce {
				s.T().Errorf("nonce %d decoded as %d", nonce, got.Authorization().Nonce())
			}
		}(uint64(i))
	}
	wg.Wait()
	s.Assert().Equal(64, s.table.Len())
}

func (s *TableTestSuite) TestSnapshotRestore() {
	for i := uint64(0); i < 10; i++ {
		s.table.Put(signedAt(i))
	}

	var first, second bytes.Buffer
	s.Require().NoError(s.table.Snapshot(&first))
	s.Require().NoError(s.table.Snapshot(&second))
	s.Assert().Equal(first.Bytes(), second.Bytes(), "snapshots are deterministic")

	restored := NewTable(Options{})
	s.Require().NoError(restored.Restore(bytes.NewReader(first.Bytes())))
	s.Assert().Equal(s.table.Len(), restored.Len())

	s.table.Range(func(k Key, r Record) bool {
		got, ok := restored.Raw(k)
		s.Assert().True(ok)
		s.Assert().Equal(r, got)
		return true
	})
}

func (s *TableTestSuite) TestRestoreRejectsTamperedEntry() {
	key, rec := s.table.Put(signedAt(1))
	tampered := bytes.Clone(rec.Data)
	tampered[0] ^= 0xFF

	var buf bytes.Buffer
	s.Require().NoError(encMode.NewEncoder(&buf).Encode([]snapshotEntry{
		{Key: key[:], Data: tampered, Len: rec.Len},
	}))

	fresh := NewTable(Options{Logger: s.log})
	err := fresh.Restore(&buf)
	s.Assert().ErrorIs(err, ErrCorrupt)
	s.Assert().Zero(fresh.Len())
	s.Assert().Contains(s.log.msgs, "warn: snapshot entry rejected")
}

func (s *TableTestSuite) TestRestoreRejectsGarbage() {
	err := s.table.Restore(bytes.NewReader([]byte{0xFF, 0x00}))
	s.Assert().Error(err)
}

func TestTable(t *testing.T) {
	suite.Run(t, new(TableTestSuite))
}

// --- Log ---

func TestLogRoundTrip(t *testing.T) {
	var stream bytes.Buffer
	w, err := NewLogWriter(&stream)
	require.NoError(t, err)

	var written []Record
	for i := uint64(0); i < 5; i++ {
		rec, err := w.Append(signedAt(i))
		require.NoError(t, err)
		written = append(written, rec)
	}
	require.NoError(t, w.Flush())

	r, err := NewLogReader(bytes.NewReader(stream.Bytes()))
	require.NoError(t, err)
	for i, want := range written {
		got, err := r.Next()
		require.NoError(t, err, "frame %d", i)
		assert.Equal(t, want, got)

		var v bridge.SignedAuthorization
		require.NoError(t, got.Load(&v))
		assert.Equal(t, uint64(i), v.Authorization().Nonce())
	}
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.EqualValues(t, stream.Len(), r.Count())
}

func TestLogTornFrame(t *testing.T) {
	var stream bytes.Buffer
	w, _ := NewLogWriter(&stream)
	_, err := w.Append(signedAt(1))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	for _, cut := range []int{2, 4, stream.Len() - 1} {
		t.Run(fmt.Sprintf("Cut%d", cut), func(t *testing.T) {
			r, _ := NewLogReader(bytes.NewReader(stream.Bytes()[:cut]))
			_, err := r.Next()
			assert.ErrorIs(t, err, compact.ErrTruncatedData)
			assert.False(t, errors.Is(err, io.EOF))
		})
	}
}

func TestLogWriterRejectsMismatchedRecord(t *testing.T) {
	w, _ := NewLogWriter(io.Discard)
	err := w.Write(Record{Data: []byte{1, 2}, Len: 3})
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLogFrameLimit(t *testing.T) {
	corrupt := []byte{0xff, 0xff, 0xff, 0xf0, 0x01}

	t.Run("DefaultRejectsHugeHeader", func(t *testing.T) {
		r, err := NewLogReader(bytes.NewReader(corrupt))
		require.NoError(t, err)
		_, err = r.Next()
		assert.ErrorIs(t, err, ErrCorrupt)

		_, again := r.Next()
		assert.ErrorIs(t, again, ErrCorrupt, "the stream stays failed")
	})

	t.Run("CustomLimit", func(t *testing.T) {
		var stream bytes.Buffer
		w, _ := NewLogWriter(&stream)
		_, err := w.Append(signedAt(1))
		require.NoError(t, err)
		require.NoError(t, w.Flush())

		r, _ := NewLogReaderLimit(bytes.NewReader(stream.Bytes()), 8)
		_, err = r.Next()
		assert.ErrorIs(t, err, ErrCorrupt)

		r, _ = NewLogReaderLimit(bytes.NewReader(stream.Bytes()), 94)
		rec, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, 94, rec.Len)
	})

	t.Run("UnboundedReadAllocatesWhatArrives", func(t *testing.T) {
		r, _ := NewLogReaderLimit(bytes.NewReader(corrupt), math.MaxUint32)

		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		_, err := r.Next()
		runtime.ReadMemStats(&after)

		assert.ErrorIs(t, err, compact.ErrTruncatedData)
		assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
	})
}
