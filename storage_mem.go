package kvmap

import (
	"bytes"
	"slices"
	"sort"
	"sync"
)

// MemStorage is an in-memory Storage kept as a sorted slice. It is not safe
// for concurrent use; DB wraps it with transactions when opened via
// OpenMemory.
type MemStorage struct {
	items []memKV // sorted by key
	mutationCounter
}

type memKV struct {
	key   []byte
	value []byte
}

// NewMemStorage returns an empty in-memory store.
func NewMemStorage() *MemStorage {
	return &MemStorage{}
}

var _ Storage = (*MemStorage)(nil)

// Len returns the number of stored entries.
func (s *MemStorage) Len() int { return len(s.items) }

// Clone returns a deep copy of the store.
func (s *MemStorage) Clone() *MemStorage {
	out := &MemStorage{items: make([]memKV, len(s.items))}
	for i, kv := range s.items {
		out.items[i] = memKV{
			key:   slices.Clone(kv.key),
			value: append([]byte{}, kv.value...),
		}
	}
	return out
}

func (s *MemStorage) Read(key []byte) ([]byte, error) {
	i, ok := s.find(key)
	if !ok {
		return nil, nil
	}
	return append([]byte{}, s.items[i].value...), nil
}

func (s *MemStorage) Write(key, value []byte) error {
	s.mutated()
	value = append([]byte{}, value...)
	i, ok := s.find(key)
	if ok {
		s.items[i].value = value
		return nil
	}
	s.items = slices.Insert(s.items, i, memKV{key: slices.Clone(key), value: value})
	return nil
}

func (s *MemStorage) Remove(key []byte) error {
	s.mutated()
	i, ok := s.find(key)
	if !ok {
		return nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *MemStorage) RemoveRange(min, max []byte) error {
	s.mutated()
	lo := 0
	if min != nil {
		lo, _ = s.find(min)
	}
	hi := len(s.items)
	if max != nil {
		hi, _ = s.find(max)
	}
	if lo < hi {
		s.items = slices.Delete(s.items, lo, hi)
	}
	return nil
}

func (s *MemStorage) Scan(min, max []byte, order Order) Iterator {
	return newRangeIterator(&memCursor{s: s, pos: -1}, min, max, order, &s.mutationCounter, nil)
}

func (s *MemStorage) find(key []byte) (idx int, ok bool) {
	items := s.items
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, key) >= 0
	})
	if i < len(items) && bytes.Equal(items[i].key, key) {
		return i, true
	}
	return i, false
}

type memCursor struct {
	s   *MemStorage
	pos int
}

func (c *memCursor) at() ([]byte, []byte) {
	if c.pos < 0 || c.pos >= len(c.s.items) {
		return nil, nil
	}
	kv := c.s.items[c.pos]
	return kv.key, kv.value
}

func (c *memCursor) First() ([]byte, []byte) {
	c.pos = 0
	return c.at()
}

func (c *memCursor) Last() ([]byte, []byte) {
	c.pos = len(c.s.items) - 1
	return c.at()
}

func (c *memCursor) Seek(seek []byte) ([]byte, []byte) {
	c.pos, _ = c.s.find(seek)
	return c.at()
}

func (c *memCursor) Next() ([]byte, []byte) {
	if c.pos < 0 {
		return c.First()
	}
	if c.pos < len(c.s.items) {
		c.pos++
	}
	return c.at()
}

func (c *memCursor) Prev() ([]byte, []byte) {
	if c.pos < 0 {
		return nil, nil
	}
	c.pos--
	return c.at()
}

func (c *memCursor) Close() {}

// memBackend gives MemStorage snapshot transactions: readers see the last
// committed store, a single writer works on a private clone that replaces the
// committed store on commit.
type memBackend struct {
	mu        sync.Mutex
	cond      *sync.Cond
	committed *MemStorage
	closed    bool
	writer    bool
}

func newMemBackend() *memBackend {
	b := &memBackend{committed: NewMemStorage()}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *memBackend) begin(writable bool) (backendTx, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errStorageClosed
	}
	if !writable {
		return &memTx{base: b, s: b.committed}, nil
	}
	for b.writer && !b.closed {
		b.cond.Wait()
	}
	if b.closed {
		return nil, errStorageClosed
	}
	b.writer = true
	return &memTx{base: b, s: b.committed.Clone(), writable: true}, nil
}

func (b *memBackend) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.committed = nil
	b.cond.Broadcast()
	return nil
}

type memTx struct {
	base     *memBackend
	s        *MemStorage
	writable bool
	closed   bool
}

func (tx *memTx) storage() Storage { return tx.s }

func (tx *memTx) commit() error {
	if tx.closed {
		return ErrTxClosed
	}
	if !tx.writable {
		return ErrReadOnly
	}
	tx.base.mu.Lock()
	defer tx.base.mu.Unlock()
	defer tx.closeLocked()
	if tx.base.closed {
		return errStorageClosed
	}
	tx.base.committed = tx.s
	return nil
}

func (tx *memTx) rollback() error {
	tx.base.mu.Lock()
	defer tx.base.mu.Unlock()
	tx.closeLocked()
	return nil
}

func (tx *memTx) closeLocked() {
	if tx.closed {
		return
	}
	tx.closed = true
	if tx.writable {
		tx.base.writer = false
		tx.base.cond.Broadcast()
	}
}
