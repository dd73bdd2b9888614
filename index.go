package kvmap

// Index is a secondary index maintained by IndexedMap. Save adds the entries
// derived from (pk, v), Remove deletes the entries derived from (pk, old), and
// ClearAll wipes the whole index namespace.
type Index[K Key, V any] interface {
	Save(s Storage, pk K, v V) error
	Remove(s Storage, pk K, old V) error
	ClearAll(s Storage) error
}

// IndexList enumerates the indexes of an IndexedMap in the order they are
// updated. Callers usually implement it on a struct holding typed index
// fields, so that queries can name the index they need.
type IndexList[K Key, V any] interface {
	Indexes() []Index[K, V]
}

// Indexes is an IndexList over a plain slice.
type Indexes[K Key, V any] []Index[K, V]

func (l Indexes[K, V]) Indexes() []Index[K, V] {
	return l
}

// Indexer derives an index key from a primary key and its value.
type Indexer[IK, K, V any] func(pk K, v V) IK
