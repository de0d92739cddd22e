package record

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"slices"

	"github.com/fxamacker/cbor/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zeebo/blake3"

	"github.com/oy3o/compact"
)

// Key addresses a record by the BLAKE3 hash of its encoded bytes.
type Key [32]byte

// KeyOf returns the content key for data.
func KeyOf(data []byte) Key { return blake3.Sum256(data) }

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Options configures a Table.
type Options struct {
	// Logger receives corruption reports. Nil disables logging.
	Logger Logger
}

// Table is an in-memory, content-addressed record store safe for concurrent
// use. Encoding and decoding happen outside any lock; the map only guards
// the records themselves.
type Table struct {
	records *xsync.Map[Key, Record]
	log     Logger
}

// NewTable creates an empty Table.
func NewTable(opts Options) *Table {
	log := opts.Logger
	if log == nil {
		log = NopLogger{}
	}
	return &Table{records: xsync.NewMap[Key, Record](), log: log}
}

// Put encodes v and stores it under its content key. Storing an equal value
// twice is idempotent.
func (t *Table) Put(v compact.Marshaler) (Key, Record) {
	rec := Store(v)
	key := KeyOf(rec.Data)
	actual, _ := t.records.LoadOrStore(key, rec)
	return key, actual
}

// Get decodes the record stored under key into u.
func (t *Table) Get(key Key, u compact.Unmarshaler) error {
	rec, ok := t.records.Load(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err := rec.Load(u); err != nil {
		t.log.Error("record decode failed", Fields{"key": key.String(), "len": rec.Len, "err": err.Error()})
		return err
	}
	return nil
}

// Raw returns the stored record under key.
func (t *Table) Raw(key Key) (Record, bool) {
	return t.records.Load(key)
}

// Delete removes the record under key.
func (t *Table) Delete(key Key) {
	t.records.Delete(key)
}

// Len returns the number of stored records.
func (t *Table) Len() int {
	return t.records.Size()
}

// Range calls f for each record until f returns false. Order is unspecified.
func (t *Table) Range(f func(Key, Record) bool) {
	t.records.Range(f)
}

// snapshotEntry is the CBOR shape of one record in a snapshot.
type snapshotEntry struct {
	Key  []byte `cbor:"1,keyasint"`
	Data []byte `cbor:"2,keyasint"`
	Len  int    `cbor:"3,keyasint"`
}

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2) so the same
// table contents always snapshot to identical bytes.
var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("record: CBOR encoder initialization failed: " + err.Error())
	}
	return em
}()

// Snapshot writes every record to w as a CBOR array sorted by key.
func (t *Table) Snapshot(w io.Writer) error {
	var entries []snapshotEntry
	t.records.Range(func(k Key, r Record) bool {
		entries = append(entries, snapshotEntry{Key: bytes.Clone(k[:]), Data: r.Data, Len: r.Len})
		return true
	})
	slices.SortFunc(entries, func(a, b snapshotEntry) int { return bytes.Compare(a.Key, b.Key) })
	return encMode.NewEncoder(w).Encode(entries)
}

// Restore loads a snapshot written by Snapshot, adding its records to t.
// Every record is verified against its key and declared length first; on any
// mismatch nothing is added.
func (t *Table) Restore(r io.Reader) error {
	var entries []snapshotEntry
	if err := cbor.NewDecoder(r).Decode(&entries); err != nil {
		return fmt.Errorf("record: decoding snapshot: %w", err)
	}
	for i, e := range entries {
		if len(e.Key) != len(Key{}) || Key(e.Key) != KeyOf(e.Data) || e.Len != len(e.Data) {
			t.log.Warn("snapshot entry rejected", Fields{"index": i, "len": e.Len, "size": len(e.Data)})
			return fmt.Errorf("%w: snapshot entry %d", ErrCorrupt, i)
		}
	}
	for _, e := range entries {
		t.records.Store(Key(e.Key), Record{Data: e.Data, Len: e.Len})
	}
	t.log.Info("snapshot restored", Fields{"records": len(entries)})
	return nil
}
