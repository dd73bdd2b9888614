package kvmap

// Set stores keys with empty values.
type Set[K KeyType[K]] struct {
	m *Map[K, Empty]
}

func NewSet[K KeyType[K]](namespace string) *Set[K] {
	return &Set[K]{NewMapCodec[K, Empty](namespace, emptyCodec{})}
}

func (st *Set[K]) Namespace() string { return st.m.name }

func (st *Set[K]) NoPrefix() *Prefix[K, Empty] { return st.m.NoPrefix() }

func (st *Set[K]) IsEmpty(s Storage) (bool, error) { return st.m.IsEmpty(s) }

func (st *Set[K]) Has(s Storage, k K) (bool, error)           { return st.m.Has(s, k) }
func (st *Set[K]) HasRaw(s Storage, raw []byte) (bool, error) { return st.m.HasRaw(s, raw) }

func (st *Set[K]) Insert(s Storage, k K) error { return st.m.Save(s, k, Empty{}) }

func (st *Set[K]) UnsafeInsertRaw(s Storage, raw []byte) error {
	return st.m.UnsafeSaveRaw(s, raw, []byte{})
}

func (st *Set[K]) Remove(s Storage, k K) error           { return st.m.Remove(s, k) }
func (st *Set[K]) RemoveRaw(s Storage, raw []byte) error { return st.m.RemoveRaw(s, raw) }

func (st *Set[K]) RangeRaw(s Storage, min, max *Bound[K], order Order) *Cursor[[]byte, Empty] {
	return st.m.KeysRaw(s, min, max, order)
}

func (st *Set[K]) Range(s Storage, min, max *Bound[K], order Order) *Cursor[K, Empty] {
	return st.m.Keys(s, min, max, order)
}

func (st *Set[K]) PrefixRangeRaw(s Storage, min, max *PrefixBound, order Order) *Cursor[[]byte, Empty] {
	return st.m.PrefixKeysRaw(s, min, max, order)
}

func (st *Set[K]) PrefixRange(s Storage, min, max *PrefixBound, order Order) *Cursor[K, Empty] {
	return st.m.PrefixKeys(s, min, max, order)
}

func (st *Set[K]) Clear(s Storage, min, max *Bound[K]) error {
	return st.m.Clear(s, min, max)
}

func (st *Set[K]) PrefixClear(s Storage, min, max *PrefixBound) error {
	return st.m.PrefixClear(s, min, max)
}
