package kvmap

// Order is the direction of a scan.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Storage is an ordered byte-string store. It is the only capability the
// collections in this package need; MemStorage, BoltStorage and LevelStorage
// implement it, and DB hands out transactional instances.
//
// Read returns nil (and no error) when the key is absent, and a non-nil,
// possibly empty slice when it is present. The slice belongs to the caller.
//
// Scan bounds are half-open: min is inclusive, max is exclusive, and a nil
// bound means unbounded on that side. The returned iterator is lazy and must
// not outlive a write to the same Storage: backends fail such a scan with
// ErrMutatedDuringScan.
type Storage interface {
	Read(key []byte) ([]byte, error)
	Scan(min, max []byte, order Order) Iterator
	Write(key, value []byte) error
	Remove(key []byte) error
	RemoveRange(min, max []byte) error
}

// Iterator is a pull-based cursor over a scan. It is not restartable.
//
//	it := s.Scan(min, max, Ascending)
//	defer it.Close()
//	for it.Next() {
//		use(it.Key(), it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
//
// Key and Value are only valid until the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
	Close() error
}

// ScanKeys collects the keys of a scan.
func ScanKeys(s Storage, min, max []byte, order Order) ([][]byte, error) {
	it := s.Scan(min, max, order)
	defer it.Close()
	var out [][]byte
	for it.Next() {
		out = append(out, cloneBytes(it.Key()))
	}
	return out, it.Err()
}

// ScanValues collects the values of a scan.
func ScanValues(s Storage, min, max []byte, order Order) ([][]byte, error) {
	it := s.Scan(min, max, order)
	defer it.Close()
	var out [][]byte
	for it.Next() {
		out = append(out, cloneBytes(it.Value()))
	}
	return out, it.Err()
}

// storageCursor iterates over a sorted key space; backends adapt their native
// cursors to it and share rangeIterator for bound handling.
type storageCursor interface {
	// First moves to the first key-value pair.
	First() (key, value []byte)

	// Last moves to the last key-value pair.
	Last() (key, value []byte)

	// Seek moves to the first key >= seek.
	Seek(seek []byte) (key, value []byte)

	// Next moves to the next key-value pair.
	Next() (key, value []byte)

	// Prev moves to the previous key-value pair.
	Prev() (key, value []byte)

	// Close releases the cursor.
	Close()
}

// removeRangeVia deletes [min, max) by collecting keys first, for backends
// without a native ranged delete.
func removeRangeVia(s Storage, min, max []byte) error {
	keys := keyListPool.Get().([][]byte)
	defer func() { releaseKeyList(keys) }()

	it := s.Scan(min, max, Ascending)
	for it.Next() {
		keys = append(keys, cloneBytes(it.Key()))
	}
	it.Close()
	if err := it.Err(); err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.Remove(k); err != nil {
			return err
		}
	}
	return nil
}
