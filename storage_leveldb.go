package kvmap

import (
	"errors"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelReader is the read side shared by *leveldb.DB, *leveldb.Transaction
// and *leveldb.Snapshot.
type LevelReader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

// LevelWriter is the write side shared by *leveldb.DB and
// *leveldb.Transaction.
type LevelWriter interface {
	Put(key, value []byte, wo *opt.WriteOptions) error
	Delete(key []byte, wo *opt.WriteOptions) error
	Write(batch *leveldb.Batch, wo *opt.WriteOptions) error
}

// LevelStorage is a Storage over goleveldb. Writes fail with ErrReadOnly when
// the wrapped reader is not also a LevelWriter (e.g. a snapshot).
type LevelStorage struct {
	r      LevelReader
	w      LevelWriter
	logger *slog.Logger
	mutationCounter
}

var _ Storage = (*LevelStorage)(nil)

func NewLevelStorage(r LevelReader) *LevelStorage {
	w, _ := r.(LevelWriter)
	return &LevelStorage{r: r, w: w}
}

func (s *LevelStorage) Read(key []byte) ([]byte, error) {
	v, err := s.r.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if v == nil {
		v = []byte{}
	}
	return v, nil
}

func (s *LevelStorage) Write(key, value []byte) error {
	if s.w == nil {
		return ErrReadOnly
	}
	s.mutated()
	return s.w.Put(key, value, nil)
}

func (s *LevelStorage) Remove(key []byte) error {
	if s.w == nil {
		return ErrReadOnly
	}
	s.mutated()
	return s.w.Delete(key, nil)
}

func (s *LevelStorage) RemoveRange(min, max []byte) error {
	if s.w == nil {
		return ErrReadOnly
	}
	var batch leveldb.Batch
	it := s.r.NewIterator(&util.Range{Start: min, Limit: max}, nil)
	for it.Next() {
		batch.Delete(cloneBytes(it.Key()))
	}
	it.Release()
	if err := it.Error(); err != nil {
		return err
	}
	s.mutated()
	return s.w.Write(&batch, nil)
}

func (s *LevelStorage) Scan(min, max []byte, order Order) Iterator {
	it := s.r.NewIterator(&util.Range{Start: min, Limit: max}, nil)
	return newRangeIterator(&levelCursor{it: it}, min, max, order, &s.mutationCounter, s.logger)
}

// levelCursor adapts a goleveldb iterator. Keys and values are copied since
// goleveldb reuses its buffers between moves.
type levelCursor struct {
	it iterator.Iterator
}

func (c *levelCursor) pair(ok bool) ([]byte, []byte) {
	if !ok {
		return nil, nil
	}
	v := c.it.Value()
	if v == nil {
		v = []byte{}
	}
	return cloneBytes(c.it.Key()), cloneBytes(v)
}

func (c *levelCursor) First() ([]byte, []byte)        { return c.pair(c.it.First()) }
func (c *levelCursor) Last() ([]byte, []byte)         { return c.pair(c.it.Last()) }
func (c *levelCursor) Seek(k []byte) ([]byte, []byte) { return c.pair(c.it.Seek(k)) }
func (c *levelCursor) Next() ([]byte, []byte)         { return c.pair(c.it.Next()) }
func (c *levelCursor) Prev() ([]byte, []byte)         { return c.pair(c.it.Prev()) }
func (c *levelCursor) Close()                         { c.it.Release() }

type levelBackend struct {
	ldb    *leveldb.DB
	logger *slog.Logger
}

func (b *levelBackend) begin(writable bool) (backendTx, error) {
	if writable {
		tr, err := b.ldb.OpenTransaction()
		if err != nil {
			return nil, err
		}
		s := NewLevelStorage(tr)
		s.logger = b.logger
		return &levelTx{tr: tr, s: s}, nil
	}
	snap, err := b.ldb.GetSnapshot()
	if err != nil {
		return nil, err
	}
	s := NewLevelStorage(snap)
	s.logger = b.logger
	return &levelTx{snap: snap, s: s}, nil
}

func (b *levelBackend) close() error {
	return b.ldb.Close()
}

type levelTx struct {
	tr   *leveldb.Transaction
	snap *leveldb.Snapshot
	s    *LevelStorage
}

func (tx *levelTx) storage() Storage { return tx.s }

func (tx *levelTx) commit() error {
	if tx.tr == nil {
		return ErrReadOnly
	}
	return tx.tr.Commit()
}

func (tx *levelTx) rollback() error {
	if tx.tr != nil {
		tx.tr.Discard()
	} else {
		tx.snap.Release()
	}
	return nil
}
