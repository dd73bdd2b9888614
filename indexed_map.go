package kvmap

// IndexedMap is a Map whose mutations keep a list of secondary indexes in
// sync. Every mutation reads the current value first, removes the index
// entries derived from it, saves the index entries for the new value and
// finally writes (or removes) the primary entry.
//
// The sequence is not atomic: if an index rejects the new value, the stale
// index entries are already gone and nothing is rolled back here. Run
// mutations inside DB.Write to get all-or-nothing behavior.
//
// IndexedMap deliberately has no partial Clear or PrefixClear, since those
// would leave the indexes pointing at removed entries; use ClearAll.
type IndexedMap[K KeyType[K], V any, I IndexList[K, V]] struct {
	primary *Map[K, V]
	Idx     I
}

func NewIndexedMap[K KeyType[K], V any, I IndexList[K, V]](primary *Map[K, V], indexes I) *IndexedMap[K, V, I] {
	return &IndexedMap[K, V, I]{primary: primary, Idx: indexes}
}

// Primary exposes the underlying map for reads. Writing through it bypasses
// index maintenance.
func (m *IndexedMap[K, V, I]) Primary() *Map[K, V] { return m.primary }
func (m *IndexedMap[K, V, I]) Namespace() string   { return m.primary.name }

func (m *IndexedMap[K, V, I]) replace(s Storage, pk K, v *V, old *V) error {
	indexes := m.Idx.Indexes()
	if old != nil {
		for _, idx := range indexes {
			if err := idx.Remove(s, pk, *old); err != nil {
				return err
			}
		}
	}
	if v == nil {
		return m.primary.Remove(s, pk)
	}
	for _, idx := range indexes {
		if err := idx.Save(s, pk, *v); err != nil {
			return err
		}
	}
	return m.primary.Save(s, pk, *v)
}

func optional[V any](v V, found bool) *V {
	if !found {
		return nil
	}
	return &v
}

func (m *IndexedMap[K, V, I]) Save(s Storage, pk K, v V) error {
	old, found, err := m.primary.MayLoad(s, pk)
	if err != nil {
		return err
	}
	return m.replace(s, pk, &v, optional(old, found))
}

// Remove is a no-op when pk is absent.
func (m *IndexedMap[K, V, I]) Remove(s Storage, pk K) error {
	old, found, err := m.primary.MayLoad(s, pk)
	if err != nil || !found {
		return err
	}
	return m.replace(s, pk, nil, &old)
}

func (m *IndexedMap[K, V, I]) Take(s Storage, pk K) (V, error) {
	old, err := m.primary.Load(s, pk)
	if err != nil {
		return old, err
	}
	return old, m.replace(s, pk, nil, &old)
}

func (m *IndexedMap[K, V, I]) MayTake(s Storage, pk K) (V, bool, error) {
	old, found, err := m.primary.MayLoad(s, pk)
	if err != nil || !found {
		return old, found, err
	}
	return old, true, m.replace(s, pk, nil, &old)
}

func (m *IndexedMap[K, V, I]) Update(s Storage, pk K, fn func(old V) (V, error)) (V, error) {
	old, err := m.primary.Load(s, pk)
	if err != nil {
		return old, err
	}
	v, err := fn(old)
	if err != nil {
		return v, err
	}
	return v, m.replace(s, pk, &v, &old)
}

func (m *IndexedMap[K, V, I]) MayUpdate(s Storage, pk K, fn func(old V, found bool) (V, error)) (V, error) {
	old, found, err := m.primary.MayLoad(s, pk)
	if err != nil {
		return old, err
	}
	v, err := fn(old, found)
	if err != nil {
		return v, err
	}
	return v, m.replace(s, pk, &v, optional(old, found))
}

// Modify is Update where fn may return keep=false to remove the entry.
func (m *IndexedMap[K, V, I]) Modify(s Storage, pk K, fn func(old V) (V, bool, error)) (V, bool, error) {
	old, err := m.primary.Load(s, pk)
	if err != nil {
		return old, false, err
	}
	v, keep, err := fn(old)
	if err != nil {
		return v, keep, err
	}
	return v, keep, m.replace(s, pk, optional(v, keep), &old)
}

func (m *IndexedMap[K, V, I]) MayModify(s Storage, pk K, fn func(old V, found bool) (V, bool, error)) (V, bool, error) {
	old, found, err := m.primary.MayLoad(s, pk)
	if err != nil {
		return old, false, err
	}
	v, keep, err := fn(old, found)
	if err != nil {
		return v, keep, err
	}
	if !keep && !found {
		return v, keep, nil
	}
	return v, keep, m.replace(s, pk, optional(v, keep), optional(old, found))
}

// ClearAll removes every primary entry and wipes every index.
func (m *IndexedMap[K, V, I]) ClearAll(s Storage) error {
	if err := m.primary.Clear(s, nil, nil); err != nil {
		return err
	}
	for _, idx := range m.Idx.Indexes() {
		if err := idx.ClearAll(s); err != nil {
			return err
		}
	}
	return nil
}

func (m *IndexedMap[K, V, I]) Path(pk K) *Path[V]              { return m.primary.Path(pk) }
func (m *IndexedMap[K, V, I]) NoPrefix() *Prefix[K, V]         { return m.primary.NoPrefix() }
func (m *IndexedMap[K, V, I]) IsEmpty(s Storage) (bool, error) { return m.primary.IsEmpty(s) }

func (m *IndexedMap[K, V, I]) Has(s Storage, pk K) (bool, error)          { return m.primary.Has(s, pk) }
func (m *IndexedMap[K, V, I]) HasRaw(s Storage, raw []byte) (bool, error) { return m.primary.HasRaw(s, raw) }

func (m *IndexedMap[K, V, I]) MayLoad(s Storage, pk K) (V, bool, error) { return m.primary.MayLoad(s, pk) }
func (m *IndexedMap[K, V, I]) Load(s Storage, pk K) (V, error)          { return m.primary.Load(s, pk) }

func (m *IndexedMap[K, V, I]) MayLoadRaw(s Storage, raw []byte) ([]byte, error) {
	return m.primary.MayLoadRaw(s, raw)
}

func (m *IndexedMap[K, V, I]) LoadRaw(s Storage, raw []byte) ([]byte, error) {
	return m.primary.LoadRaw(s, raw)
}

func (m *IndexedMap[K, V, I]) RangeRaw(s Storage, min, max *Bound[K], order Order) *Cursor[[]byte, []byte] {
	return m.primary.RangeRaw(s, min, max, order)
}

func (m *IndexedMap[K, V, I]) Range(s Storage, min, max *Bound[K], order Order) *Cursor[K, V] {
	return m.primary.Range(s, min, max, order)
}

func (m *IndexedMap[K, V, I]) KeysRaw(s Storage, min, max *Bound[K], order Order) *Cursor[[]byte, Empty] {
	return m.primary.KeysRaw(s, min, max, order)
}

func (m *IndexedMap[K, V, I]) Keys(s Storage, min, max *Bound[K], order Order) *Cursor[K, Empty] {
	return m.primary.Keys(s, min, max, order)
}

func (m *IndexedMap[K, V, I]) ValuesRaw(s Storage, min, max *Bound[K], order Order) *Cursor[Empty, []byte] {
	return m.primary.ValuesRaw(s, min, max, order)
}

func (m *IndexedMap[K, V, I]) Values(s Storage, min, max *Bound[K], order Order) *Cursor[Empty, V] {
	return m.primary.Values(s, min, max, order)
}

func (m *IndexedMap[K, V, I]) PrefixRange(s Storage, min, max *PrefixBound, order Order) *Cursor[K, V] {
	return m.primary.PrefixRange(s, min, max, order)
}

func (m *IndexedMap[K, V, I]) PrefixKeys(s Storage, min, max *PrefixBound, order Order) *Cursor[K, Empty] {
	return m.primary.PrefixKeys(s, min, max, order)
}

func (m *IndexedMap[K, V, I]) PrefixValues(s Storage, min, max *PrefixBound, order Order) *Cursor[Empty, V] {
	return m.primary.PrefixValues(s, min, max, order)
}
