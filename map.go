package kvmap

// Map is a typed collection stored under a length-prefixed namespace. Every
// entry lives at len16(namespace) | namespace | JoinedKey(key).
type Map[K KeyType[K], V any] struct {
	name  string
	ns    []byte
	codec Codec[V]
}

// NewMap returns a Map using the MsgPack codec.
func NewMap[K KeyType[K], V any](namespace string) *Map[K, V] {
	return NewMapCodec[K, V](namespace, MsgPack[V]{})
}

func NewMapCodec[K KeyType[K], V any](namespace string, codec Codec[V]) *Map[K, V] {
	return &Map[K, V]{
		name:  namespace,
		ns:    encodeNamespace(namespace),
		codec: codec,
	}
}

func encodeNamespace(namespace string) []byte {
	return appendSegment(nil, []byte(namespace))
}

func (m *Map[K, V]) Namespace() string { return m.name }
func (m *Map[K, V]) Codec() Codec[V]   { return m.codec }

func (m *Map[K, V]) Path(k K) *Path[V] {
	return newPath(m.ns, nil, JoinedKey(k), m.codec)
}

// PathRaw addresses an entry by its joined key bytes.
func (m *Map[K, V]) PathRaw(raw []byte) *Path[V] {
	return newPath(m.ns, nil, raw, m.codec)
}

// NoPrefix returns a Prefix over the whole map. Use PairPrefix and friends
// to narrow it by leading key components.
func (m *Map[K, V]) NoPrefix() *Prefix[K, V] {
	return newPrefix[K](m.ns, nil, m.codec)
}

func (m *Map[K, V]) IsEmpty(s Storage) (bool, error) {
	return m.NoPrefix().IsEmpty(s)
}

func (m *Map[K, V]) Has(s Storage, k K) (bool, error)           { return m.Path(k).Exists(s) }
func (m *Map[K, V]) HasRaw(s Storage, raw []byte) (bool, error) { return m.PathRaw(raw).Exists(s) }

func (m *Map[K, V]) MayLoad(s Storage, k K) (V, bool, error) { return m.Path(k).MayLoad(s) }
func (m *Map[K, V]) Load(s Storage, k K) (V, error)          { return m.Path(k).Load(s) }

func (m *Map[K, V]) MayLoadRaw(s Storage, raw []byte) ([]byte, error) {
	return m.PathRaw(raw).MayLoadRaw(s)
}

func (m *Map[K, V]) LoadRaw(s Storage, raw []byte) ([]byte, error) {
	return m.PathRaw(raw).LoadRaw(s)
}

func (m *Map[K, V]) MayTake(s Storage, k K) (V, bool, error) { return m.Path(k).MayTake(s) }
func (m *Map[K, V]) Take(s Storage, k K) (V, error)          { return m.Path(k).Take(s) }

func (m *Map[K, V]) MayTakeRaw(s Storage, raw []byte) ([]byte, error) {
	return m.PathRaw(raw).MayTakeRaw(s)
}

func (m *Map[K, V]) TakeRaw(s Storage, raw []byte) ([]byte, error) {
	return m.PathRaw(raw).TakeRaw(s)
}

func (m *Map[K, V]) Save(s Storage, k K, v V) error { return m.Path(k).Save(s, v) }

// UnsafeSaveRaw writes already-encoded bytes without checking that they
// decode as V.
func (m *Map[K, V]) UnsafeSaveRaw(s Storage, raw, value []byte) error {
	return m.PathRaw(raw).SaveRaw(s, value)
}

func (m *Map[K, V]) Remove(s Storage, k K) error           { return m.Path(k).Remove(s) }
func (m *Map[K, V]) RemoveRaw(s Storage, raw []byte) error { return m.PathRaw(raw).Remove(s) }

func (m *Map[K, V]) Update(s Storage, k K, fn func(old V) (V, error)) (V, error) {
	return m.Path(k).Update(s, fn)
}

func (m *Map[K, V]) MayUpdate(s Storage, k K, fn func(old V, found bool) (V, error)) (V, error) {
	return m.Path(k).MayUpdate(s, fn)
}

func (m *Map[K, V]) Modify(s Storage, k K, fn func(old V) (V, bool, error)) (V, bool, error) {
	return m.Path(k).Modify(s, fn)
}

func (m *Map[K, V]) MayModify(s Storage, k K, fn func(old V, found bool) (V, bool, error)) (V, bool, error) {
	return m.Path(k).MayModify(s, fn)
}

func (m *Map[K, V]) RangeRaw(s Storage, min, max *Bound[K], order Order) *Cursor[[]byte, []byte] {
	return m.NoPrefix().RangeRaw(s, min, max, order)
}

func (m *Map[K, V]) Range(s Storage, min, max *Bound[K], order Order) *Cursor[K, V] {
	return m.NoPrefix().Range(s, min, max, order)
}

func (m *Map[K, V]) KeysRaw(s Storage, min, max *Bound[K], order Order) *Cursor[[]byte, Empty] {
	return m.NoPrefix().KeysRaw(s, min, max, order)
}

func (m *Map[K, V]) Keys(s Storage, min, max *Bound[K], order Order) *Cursor[K, Empty] {
	return m.NoPrefix().Keys(s, min, max, order)
}

func (m *Map[K, V]) ValuesRaw(s Storage, min, max *Bound[K], order Order) *Cursor[Empty, []byte] {
	return m.NoPrefix().ValuesRaw(s, min, max, order)
}

func (m *Map[K, V]) Values(s Storage, min, max *Bound[K], order Order) *Cursor[Empty, V] {
	return m.NoPrefix().Values(s, min, max, order)
}

func (m *Map[K, V]) Drain(s Storage, min, max *Bound[K]) ([]Entry[K, V], error) {
	return m.NoPrefix().Drain(s, min, max)
}

func (m *Map[K, V]) Clear(s Storage, min, max *Bound[K]) error {
	return m.NoPrefix().Clear(s, min, max)
}

func (m *Map[K, V]) PrefixRangeRaw(s Storage, min, max *PrefixBound, order Order) *Cursor[[]byte, []byte] {
	return m.NoPrefix().PrefixRangeRaw(s, min, max, order)
}

func (m *Map[K, V]) PrefixRange(s Storage, min, max *PrefixBound, order Order) *Cursor[K, V] {
	return m.NoPrefix().PrefixRange(s, min, max, order)
}

func (m *Map[K, V]) PrefixKeysRaw(s Storage, min, max *PrefixBound, order Order) *Cursor[[]byte, Empty] {
	return m.NoPrefix().PrefixKeysRaw(s, min, max, order)
}

func (m *Map[K, V]) PrefixKeys(s Storage, min, max *PrefixBound, order Order) *Cursor[K, Empty] {
	return m.NoPrefix().PrefixKeys(s, min, max, order)
}

func (m *Map[K, V]) PrefixValuesRaw(s Storage, min, max *PrefixBound, order Order) *Cursor[Empty, []byte] {
	return m.NoPrefix().PrefixValuesRaw(s, min, max, order)
}

func (m *Map[K, V]) PrefixValues(s Storage, min, max *PrefixBound, order Order) *Cursor[Empty, V] {
	return m.NoPrefix().PrefixValues(s, min, max, order)
}

func (m *Map[K, V]) PrefixClear(s Storage, min, max *PrefixBound) error {
	return m.NoPrefix().PrefixClear(s, min, max)
}
