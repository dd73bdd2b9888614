package kvmap

// MultiIndex lets many primary keys share one index key. It stores
// idx_ns | JoinedPrefix(ik) | JoinedKey(pk) => empty, and reads values back
// from the primary map.
type MultiIndex[IK KeyType[IK], K KeyType[K], V any] struct {
	indexer Indexer[IK, K, V]
	set     *Set[Pair[IK, K]]
	primary *Map[K, V]
}

func NewMultiIndex[IK KeyType[IK], K KeyType[K], V any](primary *Map[K, V], idxNamespace string, indexer Indexer[IK, K, V]) *MultiIndex[IK, K, V] {
	return &MultiIndex[IK, K, V]{
		indexer: indexer,
		set:     NewSet[Pair[IK, K]](idxNamespace),
		primary: primary,
	}
}

func (idx *MultiIndex[IK, K, V]) Namespace() string { return idx.set.Namespace() }

func (idx *MultiIndex[IK, K, V]) Save(s Storage, pk K, v V) error {
	return idx.set.Insert(s, Pair[IK, K]{idx.indexer(pk, v), pk})
}

func (idx *MultiIndex[IK, K, V]) Remove(s Storage, pk K, old V) error {
	return idx.set.Remove(s, Pair[IK, K]{idx.indexer(pk, old), pk})
}

func (idx *MultiIndex[IK, K, V]) ClearAll(s Storage) error {
	return idx.set.Clear(s, nil, nil)
}

func (idx *MultiIndex[IK, K, V]) IsEmpty(s Storage) (bool, error) {
	return idx.set.IsEmpty(s)
}

// Prefix selects the primary entries indexed under ik.
func (idx *MultiIndex[IK, K, V]) Prefix(ik IK) *IndexPrefix[K, K, V] {
	return &IndexPrefix[K, K, V]{
		prefix:  newPrefix[K, Empty](idx.set.m.ns, ik.RawKeys(), emptyCodec{}),
		primary: idx.primary,
	}
}

// MultiSubPrefix selects the primary entries whose Pair index key starts with
// a. The remaining bound type covers both the rest of the index key and the
// primary key.
func MultiSubPrefix[A KeyType[A], B KeyType[B], K KeyType[K], V any](idx *MultiIndex[Pair[A, B], K, V], a A) *IndexPrefix[Pair[B, K], K, V] {
	var zb B
	return &IndexPrefix[Pair[B, K], K, V]{
		prefix:  newPrefix[Pair[B, K], Empty](idx.set.m.ns, a.RawKeys(), emptyCodec{}),
		primary: idx.primary,
		skip:    zb.KeyElems(),
	}
}

func (idx *MultiIndex[IK, K, V]) decodeKeys(p *Prefix[Pair[IK, K], Empty], k []byte) (IK, K, []byte, error) {
	var ik IK
	var pk K
	rest, err := p.trim(k)
	if err != nil {
		return ik, pk, nil, err
	}
	first, pkRaw, err := splitFirstKey(ik.KeyElems(), rest)
	if err != nil {
		return ik, pk, nil, keyErrf(idx.set.Namespace(), k, err, "")
	}
	ik, err = decodeKeyAt[IK](k, first)
	if err != nil {
		return ik, pk, nil, err
	}
	pk, err = decodeKeyAt[K](k, pkRaw)
	if err != nil {
		return ik, pk, nil, err
	}
	return ik, pk, pkRaw, nil
}

func (idx *MultiIndex[IK, K, V]) rangeCursor(s Storage, lower, upper []byte, order Order) *Cursor[IK, Entry[K, V]] {
	p := idx.set.NoPrefix()
	return newCursor(s.Scan(lower, upper, order), func(k, _ []byte) (IK, Entry[K, V], error) {
		ik, pk, pkRaw, err := idx.decodeKeys(p, k)
		if err != nil {
			return ik, Entry[K, V]{}, err
		}
		v, err := idx.primary.PathRaw(pkRaw).Load(s)
		return ik, Entry[K, V]{pk, v}, err
	})
}

func (idx *MultiIndex[IK, K, V]) keysCursor(s Storage, lower, upper []byte, order Order) *Cursor[IK, K] {
	p := idx.set.NoPrefix()
	return newCursor(s.Scan(lower, upper, order), func(k, _ []byte) (IK, K, error) {
		ik, pk, _, err := idx.decodeKeys(p, k)
		return ik, pk, err
	})
}

func (idx *MultiIndex[IK, K, V]) valuesCursor(s Storage, lower, upper []byte, order Order) *Cursor[IK, V] {
	p := idx.set.NoPrefix()
	return newCursor(s.Scan(lower, upper, order), func(k, _ []byte) (IK, V, error) {
		var v V
		ik, _, pkRaw, err := idx.decodeKeys(p, k)
		if err != nil {
			return ik, v, err
		}
		v, err = idx.primary.PathRaw(pkRaw).Load(s)
		return ik, v, err
	})
}

// RangeRaw yields raw index keys paired with raw primary entries.
func (idx *MultiIndex[IK, K, V]) RangeRaw(s Storage, min, max *Bound[Pair[IK, K]], order Order) *Cursor[[]byte, Entry[[]byte, []byte]] {
	p := idx.set.NoPrefix()
	lower, upper := p.bounds(min, max)
	var zik IK
	return newCursor(s.Scan(lower, upper, order), func(k, _ []byte) ([]byte, Entry[[]byte, []byte], error) {
		rest, err := p.trim(k)
		if err != nil {
			return nil, Entry[[]byte, []byte]{}, err
		}
		ikRaw, pkRaw, err := splitFirstKey(zik.KeyElems(), rest)
		if err != nil {
			return nil, Entry[[]byte, []byte]{}, err
		}
		vRaw, err := idx.primary.PathRaw(pkRaw).LoadRaw(s)
		if err != nil {
			return nil, Entry[[]byte, []byte]{}, err
		}
		return ikRaw, Entry[[]byte, []byte]{cloneBytes(pkRaw), cloneBytes(vRaw)}, nil
	})
}

// Range yields every (index key, primary entry) pair in index order.
func (idx *MultiIndex[IK, K, V]) Range(s Storage, min, max *Bound[Pair[IK, K]], order Order) *Cursor[IK, Entry[K, V]] {
	lower, upper := idx.set.NoPrefix().bounds(min, max)
	return idx.rangeCursor(s, lower, upper, order)
}

func (idx *MultiIndex[IK, K, V]) Keys(s Storage, min, max *Bound[Pair[IK, K]], order Order) *Cursor[IK, K] {
	lower, upper := idx.set.NoPrefix().bounds(min, max)
	return idx.keysCursor(s, lower, upper, order)
}

func (idx *MultiIndex[IK, K, V]) Values(s Storage, min, max *Bound[Pair[IK, K]], order Order) *Cursor[IK, V] {
	lower, upper := idx.set.NoPrefix().bounds(min, max)
	return idx.valuesCursor(s, lower, upper, order)
}

func (idx *MultiIndex[IK, K, V]) PrefixRange(s Storage, min, max *PrefixBound, order Order) *Cursor[IK, Entry[K, V]] {
	lower, upper := idx.set.NoPrefix().prefixBounds(min, max)
	return idx.rangeCursor(s, lower, upper, order)
}

func (idx *MultiIndex[IK, K, V]) PrefixKeys(s Storage, min, max *PrefixBound, order Order) *Cursor[IK, K] {
	lower, upper := idx.set.NoPrefix().prefixBounds(min, max)
	return idx.keysCursor(s, lower, upper, order)
}

func (idx *MultiIndex[IK, K, V]) PrefixValues(s Storage, min, max *PrefixBound, order Order) *Cursor[IK, V] {
	lower, upper := idx.set.NoPrefix().prefixBounds(min, max)
	return idx.valuesCursor(s, lower, upper, order)
}

// IndexPrefix scans the primary entries under one index key (or index key
// prefix). B is the type bounds are expressed in: the primary key, or the
// rest of the index key paired with the primary key.
type IndexPrefix[B KeyType[B], K KeyType[K], V any] struct {
	prefix   *Prefix[B, Empty]
	primary  *Map[K, V]
	skip     int
	pkPrefix []byte // leading primary key components fixed by AppendIndexPrefix
}

// AppendIndexPrefix narrows ip by the next key component a. While index key
// components remain unfixed, a is one of them; after that it is a leading
// component of the primary key.
func AppendIndexPrefix[A KeyType[A], B KeyType[B], K KeyType[K], V any](ip *IndexPrefix[Pair[A, B], K, V], a A) *IndexPrefix[B, K, V] {
	out := &IndexPrefix[B, K, V]{
		prefix:   &Prefix[B, Empty]{ns: appendPrefix(ip.prefix.ns, a), codec: emptyCodec{}},
		primary:  ip.primary,
		skip:     ip.skip,
		pkPrefix: ip.pkPrefix,
	}
	if ip.skip > 0 {
		out.skip -= a.KeyElems()
	} else {
		out.pkPrefix = concat(ip.pkPrefix, JoinedPrefix(a))
	}
	return out
}

// primaryKey strips the prefix and any remaining index key segments.
func (ip *IndexPrefix[B, K, V]) primaryKey(k []byte) ([]byte, error) {
	rest, err := ip.prefix.trim(k)
	if err != nil {
		return nil, err
	}
	if ip.skip > 0 {
		_, rest, err = splitFirstKey(ip.skip, rest)
		if err != nil {
			return nil, err
		}
	}
	if ip.pkPrefix != nil {
		return concat(ip.pkPrefix, rest), nil
	}
	return rest, nil
}

func (ip *IndexPrefix[B, K, V]) decodeEntry(s Storage, k []byte) (K, V, error) {
	var pk K
	var v V
	pkRaw, err := ip.primaryKey(k)
	if err != nil {
		return pk, v, err
	}
	pk, err = decodeKeyAt[K](k, pkRaw)
	if err != nil {
		return pk, v, err
	}
	v, err = ip.primary.PathRaw(pkRaw).Load(s)
	return pk, v, err
}

func (ip *IndexPrefix[B, K, V]) entries(s Storage, it Iterator) *Cursor[K, V] {
	return newCursor(it, func(k, _ []byte) (K, V, error) {
		return ip.decodeEntry(s, k)
	})
}

func (ip *IndexPrefix[B, K, V]) keys(it Iterator) *Cursor[K, Empty] {
	return newCursor(it, func(k, _ []byte) (K, Empty, error) {
		var pk K
		pkRaw, err := ip.primaryKey(k)
		if err != nil {
			return pk, Empty{}, err
		}
		pk, err = decodeKeyAt[K](k, pkRaw)
		return pk, Empty{}, err
	})
}

func (ip *IndexPrefix[B, K, V]) values(s Storage, it Iterator) *Cursor[Empty, V] {
	return newCursor(it, func(k, _ []byte) (Empty, V, error) {
		_, v, err := ip.decodeEntry(s, k)
		return Empty{}, v, err
	})
}

func (ip *IndexPrefix[B, K, V]) IsEmpty(s Storage) (bool, error) {
	return ip.prefix.IsEmpty(s)
}

// RangeRaw yields raw primary keys and values.
func (ip *IndexPrefix[B, K, V]) RangeRaw(s Storage, min, max *Bound[B], order Order) *Cursor[[]byte, []byte] {
	lower, upper := ip.prefix.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), func(k, _ []byte) ([]byte, []byte, error) {
		pkRaw, err := ip.primaryKey(k)
		if err != nil {
			return nil, nil, err
		}
		vRaw, err := ip.primary.PathRaw(pkRaw).LoadRaw(s)
		if err != nil {
			return nil, nil, err
		}
		return cloneBytes(pkRaw), cloneBytes(vRaw), nil
	})
}

func (ip *IndexPrefix[B, K, V]) Range(s Storage, min, max *Bound[B], order Order) *Cursor[K, V] {
	lower, upper := ip.prefix.bounds(min, max)
	return ip.entries(s, s.Scan(lower, upper, order))
}

func (ip *IndexPrefix[B, K, V]) Keys(s Storage, min, max *Bound[B], order Order) *Cursor[K, Empty] {
	lower, upper := ip.prefix.bounds(min, max)
	return ip.keys(s.Scan(lower, upper, order))
}

func (ip *IndexPrefix[B, K, V]) Values(s Storage, min, max *Bound[B], order Order) *Cursor[Empty, V] {
	lower, upper := ip.prefix.bounds(min, max)
	return ip.values(s, s.Scan(lower, upper, order))
}

func (ip *IndexPrefix[B, K, V]) PrefixRange(s Storage, min, max *PrefixBound, order Order) *Cursor[K, V] {
	lower, upper := ip.prefix.prefixBounds(min, max)
	return ip.entries(s, s.Scan(lower, upper, order))
}

func (ip *IndexPrefix[B, K, V]) PrefixKeys(s Storage, min, max *PrefixBound, order Order) *Cursor[K, Empty] {
	lower, upper := ip.prefix.prefixBounds(min, max)
	return ip.keys(s.Scan(lower, upper, order))
}

func (ip *IndexPrefix[B, K, V]) PrefixValues(s Storage, min, max *PrefixBound, order Order) *Cursor[Empty, V] {
	lower, upper := ip.prefix.prefixBounds(min, max)
	return ip.values(s, s.Scan(lower, upper, order))
}
