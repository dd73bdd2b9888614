package kvmap

import (
	"context"
	"log/slog"
	"runtime/debug"
)

// txStorage is the Storage handed to DB.Read/DB.Write callbacks. It rejects
// use after the callback returns and writes in read-only transactions, and
// logs mutations when the DB is verbose.
type txStorage struct {
	inner    Storage
	db       *DB
	writable bool
	closed   bool
	writes   int
}

func (tx *txStorage) check(write bool) error {
	if tx.closed {
		return ErrTxClosed
	}
	if write && !tx.writable {
		return ErrReadOnly
	}
	return nil
}

func (tx *txStorage) Read(key []byte) ([]byte, error) {
	if err := tx.check(false); err != nil {
		return nil, err
	}
	return tx.inner.Read(key)
}

func (tx *txStorage) Scan(min, max []byte, order Order) Iterator {
	if err := tx.check(false); err != nil {
		return errIterator{err}
	}
	return &txIterator{Iterator: tx.inner.Scan(min, max, order), tx: tx}
}

// txIterator stops with ErrTxClosed once its transaction has ended, since
// bbolt cursors and goleveldb iterators are invalid past that point.
type txIterator struct {
	Iterator
	tx  *txStorage
	err error
}

func (it *txIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.tx.closed {
		it.err = ErrTxClosed
		it.Iterator.Close()
		return false
	}
	return it.Iterator.Next()
}

func (it *txIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.Iterator.Err()
}

func (tx *txStorage) Write(key, value []byte) error {
	if err := tx.check(true); err != nil {
		return err
	}
	tx.writes++
	if tx.db.verbose {
		tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "kvmap: WRITE", hexAttr("key", key), slog.Int("len", len(value)))
	}
	return tx.inner.Write(key, value)
}

func (tx *txStorage) Remove(key []byte) error {
	if err := tx.check(true); err != nil {
		return err
	}
	tx.writes++
	if tx.db.verbose {
		tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "kvmap: REMOVE", hexAttr("key", key))
	}
	return tx.inner.Remove(key)
}

func (tx *txStorage) RemoveRange(min, max []byte) error {
	if err := tx.check(true); err != nil {
		return err
	}
	tx.writes++
	if tx.db.verbose {
		tx.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "kvmap: REMOVE_RANGE", hexAttr("min", min), hexAttr("max", max))
	}
	return tx.inner.RemoveRange(min, max)
}

func safelyCall(fn func(Storage) error, s Storage) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked{p, string(debug.Stack())}
		}
	}()
	return fn(s)
}
