package kvmap

import (
	"bytes"
)

// UniqueIndex maps each index key to at most one primary key. It stores
// idx_ns | JoinedKey(ik) => JoinedKey(pk); values are read back from the
// primary map.
type UniqueIndex[IK KeyType[IK], K KeyType[K], V any] struct {
	indexer Indexer[IK, K, V]
	index   *Map[IK, []byte]
	primary *Map[K, V]
}

// NewUniqueIndex returns an index over primary under idxNamespace, which must
// differ from the primary namespace.
func NewUniqueIndex[IK KeyType[IK], K KeyType[K], V any](primary *Map[K, V], idxNamespace string, indexer Indexer[IK, K, V]) *UniqueIndex[IK, K, V] {
	return &UniqueIndex[IK, K, V]{
		indexer: indexer,
		index:   NewMapCodec[IK, []byte](idxNamespace, Raw{}),
		primary: primary,
	}
}

func (idx *UniqueIndex[IK, K, V]) Namespace() string { return idx.index.name }

// Save fails with ErrDuplicate if the derived index key already belongs to a
// different primary key.
func (idx *UniqueIndex[IK, K, V]) Save(s Storage, pk K, v V) error {
	ik := idx.indexer(pk, v)
	pkRaw := JoinedKey(pk)
	path := idx.index.Path(ik)
	owner, err := path.MayLoadRaw(s)
	if err != nil {
		return err
	}
	if owner != nil && !bytes.Equal(owner, pkRaw) {
		return keyErrf(idx.index.name, path.Key(), ErrDuplicate, "owned by %s", hexstr(owner))
	}
	return path.SaveRaw(s, pkRaw)
}

func (idx *UniqueIndex[IK, K, V]) Remove(s Storage, pk K, old V) error {
	return idx.index.Remove(s, idx.indexer(pk, old))
}

func (idx *UniqueIndex[IK, K, V]) ClearAll(s Storage) error {
	return idx.index.Clear(s, nil, nil)
}

func (idx *UniqueIndex[IK, K, V]) IsEmpty(s Storage) (bool, error) {
	return idx.index.IsEmpty(s)
}

func (idx *UniqueIndex[IK, K, V]) MayLoadKeyRaw(s Storage, ik IK) ([]byte, error) {
	return idx.index.Path(ik).MayLoadRaw(s)
}

func (idx *UniqueIndex[IK, K, V]) LoadKeyRaw(s Storage, ik IK) ([]byte, error) {
	return idx.index.Path(ik).LoadRaw(s)
}

func (idx *UniqueIndex[IK, K, V]) MayLoadKey(s Storage, ik IK) (K, bool, error) {
	var pk K
	path := idx.index.Path(ik)
	raw, err := path.MayLoadRaw(s)
	if err != nil || raw == nil {
		return pk, false, err
	}
	pk, err = decodeKeyAt[K](path.Key(), raw)
	if err != nil {
		return pk, false, err
	}
	return pk, true, nil
}

// LoadKey returns the primary key owning ik, failing with ErrNotFound.
func (idx *UniqueIndex[IK, K, V]) LoadKey(s Storage, ik IK) (K, error) {
	path := idx.index.Path(ik)
	raw, err := path.LoadRaw(s)
	if err != nil {
		var pk K
		return pk, err
	}
	return decodeKeyAt[K](path.Key(), raw)
}

// loadPrimary reads the value of the primary entry whose joined key is
// pkRaw. A missing primary entry means the index is out of sync.
func (idx *UniqueIndex[IK, K, V]) loadPrimary(s Storage, pkRaw []byte) (V, error) {
	return idx.primary.PathRaw(pkRaw).Load(s)
}

func (idx *UniqueIndex[IK, K, V]) MayLoadValue(s Storage, ik IK) (V, bool, error) {
	var zero V
	raw, err := idx.MayLoadKeyRaw(s, ik)
	if err != nil || raw == nil {
		return zero, false, err
	}
	v, err := idx.loadPrimary(s, raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (idx *UniqueIndex[IK, K, V]) LoadValue(s Storage, ik IK) (V, error) {
	raw, err := idx.LoadKeyRaw(s, ik)
	if err != nil {
		var zero V
		return zero, err
	}
	return idx.loadPrimary(s, raw)
}

// MayLoad returns the primary key and value owning ik.
func (idx *UniqueIndex[IK, K, V]) MayLoad(s Storage, ik IK) (Entry[K, V], bool, error) {
	path := idx.index.Path(ik)
	raw, err := path.MayLoadRaw(s)
	if err != nil || raw == nil {
		return Entry[K, V]{}, false, err
	}
	e, err := idx.decodePrimary(s, path.Key(), raw)
	if err != nil {
		return e, false, err
	}
	return e, true, nil
}

func (idx *UniqueIndex[IK, K, V]) Load(s Storage, ik IK) (Entry[K, V], error) {
	path := idx.index.Path(ik)
	raw, err := path.LoadRaw(s)
	if err != nil {
		return Entry[K, V]{}, err
	}
	return idx.decodePrimary(s, path.Key(), raw)
}

// decodePrimary resolves pkRaw, the value of the index entry at indexKey.
func (idx *UniqueIndex[IK, K, V]) decodePrimary(s Storage, indexKey, pkRaw []byte) (Entry[K, V], error) {
	var e Entry[K, V]
	pk, err := decodeKeyAt[K](indexKey, pkRaw)
	if err != nil {
		return e, err
	}
	v, err := idx.loadPrimary(s, pkRaw)
	if err != nil {
		return e, err
	}
	return Entry[K, V]{pk, v}, nil
}

// RangeRaw yields raw index keys paired with raw primary entries.
func (idx *UniqueIndex[IK, K, V]) RangeRaw(s Storage, min, max *Bound[IK], order Order) *Cursor[[]byte, Entry[[]byte, []byte]] {
	p := idx.index.NoPrefix()
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), func(k, v []byte) ([]byte, Entry[[]byte, []byte], error) {
		ikRaw, err := p.trim(k)
		if err != nil {
			return nil, Entry[[]byte, []byte]{}, err
		}
		vRaw, err := idx.primary.PathRaw(v).LoadRaw(s)
		if err != nil {
			return nil, Entry[[]byte, []byte]{}, err
		}
		return cloneBytes(ikRaw), Entry[[]byte, []byte]{cloneBytes(v), cloneBytes(vRaw)}, nil
	})
}

// Range yields index keys with their primary keys and values.
func (idx *UniqueIndex[IK, K, V]) Range(s Storage, min, max *Bound[IK], order Order) *Cursor[IK, Entry[K, V]] {
	p := idx.index.NoPrefix()
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), func(k, v []byte) (IK, Entry[K, V], error) {
		ik, err := p.decodeKey(k)
		if err != nil {
			return ik, Entry[K, V]{}, err
		}
		e, err := idx.decodePrimary(s, k, v)
		return ik, e, err
	})
}

func (idx *UniqueIndex[IK, K, V]) Keys(s Storage, min, max *Bound[IK], order Order) *Cursor[IK, K] {
	p := idx.index.NoPrefix()
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), func(k, v []byte) (IK, K, error) {
		var pk K
		ik, err := p.decodeKey(k)
		if err != nil {
			return ik, pk, err
		}
		pk, err = decodeKeyAt[K](k, v)
		return ik, pk, err
	})
}

func (idx *UniqueIndex[IK, K, V]) Values(s Storage, min, max *Bound[IK], order Order) *Cursor[IK, V] {
	p := idx.index.NoPrefix()
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), func(k, v []byte) (IK, V, error) {
		var val V
		ik, err := p.decodeKey(k)
		if err != nil {
			return ik, val, err
		}
		val, err = idx.loadPrimary(s, v)
		return ik, val, err
	})
}

// PrefixRange is Range with bounds over leading components of a tuple index
// key.
func (idx *UniqueIndex[IK, K, V]) PrefixRange(s Storage, min, max *PrefixBound, order Order) *Cursor[IK, Entry[K, V]] {
	p := idx.index.NoPrefix()
	lower, upper := p.prefixBounds(min, max)
	return newCursor(s.Scan(lower, upper, order), func(k, v []byte) (IK, Entry[K, V], error) {
		ik, err := p.decodeKey(k)
		if err != nil {
			return ik, Entry[K, V]{}, err
		}
		e, err := idx.decodePrimary(s, k, v)
		return ik, e, err
	})
}
