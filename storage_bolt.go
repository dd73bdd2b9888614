package kvmap

import (
	"bytes"
	"fmt"
	"log/slog"
	"unsafe"

	"go.etcd.io/bbolt"
)

// BoltStorage is a Storage over a single bucket of a bbolt transaction. It is
// valid only while the transaction is open.
type BoltStorage struct {
	btx    *bbolt.Tx
	buck   *bbolt.Bucket
	logger *slog.Logger
	mutationCounter
}

var _ Storage = (*BoltStorage)(nil)

// NewBoltStorage wraps the named bucket of btx, creating it when btx is
// writable.
func NewBoltStorage(btx *bbolt.Tx, bucket string) (*BoltStorage, error) {
	var buck *bbolt.Bucket
	if btx.Writable() {
		var err error
		buck, err = btx.CreateBucketIfNotExists(unsafeBytesFromString(bucket))
		if err != nil {
			return nil, fmt.Errorf("kvmap: bucket %q: %w", bucket, err)
		}
	} else {
		buck = btx.Bucket(unsafeBytesFromString(bucket))
		if buck == nil {
			return nil, fmt.Errorf("kvmap: bucket %q: %w", bucket, bbolt.ErrBucketNotFound)
		}
	}
	return &BoltStorage{btx: btx, buck: buck}, nil
}

// BoltTx returns the underlying transaction.
func (s *BoltStorage) BoltTx() *bbolt.Tx { return s.btx }

func (s *BoltStorage) Read(key []byte) ([]byte, error) {
	// Seek distinguishes an empty value from an absent key.
	k, v := s.buck.Cursor().Seek(key)
	if k == nil || !bytes.Equal(k, key) {
		return nil, nil
	}
	// v points into the mmap and is only valid for the transaction.
	return append([]byte{}, v...), nil
}

func (s *BoltStorage) Write(key, value []byte) error {
	s.mutated()
	if value == nil {
		value = []byte{}
	}
	return s.buck.Put(key, value)
}

func (s *BoltStorage) Remove(key []byte) error {
	s.mutated()
	return s.buck.Delete(key)
}

func (s *BoltStorage) RemoveRange(min, max []byte) error {
	s.mutated()
	return removeRangeVia(s, min, max)
}

func (s *BoltStorage) Scan(min, max []byte, order Order) Iterator {
	return newRangeIterator(boltCursor{c: s.buck.Cursor()}, min, max, order, &s.mutationCounter, s.logger)
}

type boltCursor struct {
	c *bbolt.Cursor
}

func (c boltCursor) First() ([]byte, []byte) { return c.c.First() }

func (c boltCursor) Last() ([]byte, []byte) { return c.c.Last() }

func (c boltCursor) Seek(seek []byte) ([]byte, []byte) { return c.c.Seek(seek) }

func (c boltCursor) Next() ([]byte, []byte) { return c.c.Next() }

func (c boltCursor) Prev() ([]byte, []byte) { return c.c.Prev() }

func (c boltCursor) Close() {}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

type boltBackend struct {
	bdb    *bbolt.DB
	bucket string
	logger *slog.Logger
}

func (b *boltBackend) begin(writable bool) (backendTx, error) {
	btx, err := b.bdb.Begin(writable)
	if err != nil {
		return nil, err
	}
	s, err := NewBoltStorage(btx, b.bucket)
	if err != nil {
		_ = btx.Rollback()
		return nil, err
	}
	s.logger = b.logger
	return &boltTx{btx: btx, s: s}, nil
}

func (b *boltBackend) close() error {
	return b.bdb.Close()
}

type boltTx struct {
	btx *bbolt.Tx
	s   *BoltStorage
}

func (tx *boltTx) storage() Storage { return tx.s }

func (tx *boltTx) commit() error { return tx.btx.Commit() }

func (tx *boltTx) rollback() error {
	err := tx.btx.Rollback()
	if err == bbolt.ErrTxClosed {
		return nil
	}
	return err
}
