// Package rowstore is a small demonstration harness standing in for the
// "enclosing scanner" spec.md places out of scope (§1): an embedded,
// file-backed store of column bindings, one bucket per row id, that feeds
// an eval.Evaluator the way a real storage node's scan loop would. It uses
// github.com/boltdb/bolt, a direct dependency of the teacher this module
// is modeled on, as the embedded store.
package rowstore

import (
	"encoding/binary"
	"fmt"

	bolt "github.com/boltdb/bolt"

	"github.com/rowstore/xeval/codec"
	"github.com/rowstore/xeval/datum"
	"github.com/rowstore/xeval/eval"
)

// Store is a bolt-backed table of rows, keyed by row id, each row a set of
// column_id -> Datum bindings.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a Store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open row store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying bolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func rowBucketName(rowID int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(rowID))
	return buf[:]
}

func columnKey(columnID int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(columnID))
	return buf[:]
}

// PutRow writes row's column bindings into rowID's bucket, replacing
// whatever was there before.
func (s *Store) PutRow(rowID int64, row map[int64]datum.Datum) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(rowBucketName(rowID))
		b, err := tx.CreateBucket(rowBucketName(rowID))
		if err != nil {
			return fmt.Errorf("create bucket for row %d: %w", rowID, err)
		}
		for columnID, d := range row {
			enc, err := codec.EncodeDatum(d)
			if err != nil {
				return err
			}
			if err := b.Put(columnKey(columnID), enc); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadInto clears ev's current row bindings and reads rowID's stored
// bindings in their place, calling ev.SetColumn for each one — the same
// "populate bindings, then eval" call shape spec.md §3.5/§6.1 documents
// for a real scan worker. The reset matters because ev is reused across
// rows by ScanMatches: without it, a column absent from rowID would keep
// resolving to whatever the previously loaded row left behind instead of
// producing the spec's "column not found" error.
func (s *Store) LoadInto(rowID int64, ev *eval.Evaluator) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(rowBucketName(rowID))
		if b == nil {
			return fmt.Errorf("row %d not found", rowID)
		}
		ev.ResetRow()
		return b.ForEach(func(k, v []byte) error {
			columnID := int64(binary.BigEndian.Uint64(k))
			d, err := codec.DecodeDatum(v)
			if err != nil {
				return fmt.Errorf("row %d column %d: %w", rowID, columnID, err)
			}
			ev.SetColumn(columnID, d)
			return nil
		})
	})
}

// RowIDs returns every row id with a bucket in the store, in no particular
// order.
func (s *Store) RowIDs() ([]int64, error) {
	var ids []int64
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if len(name) != 8 {
				return nil
			}
			ids = append(ids, int64(binary.BigEndian.Uint64(name)))
			return nil
		})
	})
	return ids, err
}
