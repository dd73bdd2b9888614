package kvmap

import (
	"bytes"
)

// Prefix scans the entries under a namespace extended by zero or more
// leading key components. K is the type of the remaining key suffix.
type Prefix[K KeyType[K], V any] struct {
	ns    []byte
	codec Codec[V]
}

func newPrefix[K KeyType[K], V any](ns []byte, prefixes [][]byte, codec Codec[V]) *Prefix[K, V] {
	buf := cloneBytes(ns)
	for _, p := range prefixes {
		buf = appendSegment(buf, p)
	}
	return &Prefix[K, V]{ns: buf, codec: codec}
}

// appendPrefix narrows p by the components of k, returning the new
// namespace bytes.
func appendPrefix(ns []byte, k Key) []byte {
	return concat(ns, JoinedPrefix(k))
}

// PairPrefix narrows a prefix over Pair[A, B] keys to the entries whose first
// component is a.
func PairPrefix[A KeyType[A], B KeyType[B], V any](p *Prefix[Pair[A, B], V], a A) *Prefix[B, V] {
	return &Prefix[B, V]{ns: appendPrefix(p.ns, a), codec: p.codec}
}

func TriplePrefix[A KeyType[A], B KeyType[B], C KeyType[C], V any](p *Prefix[Triple[A, B, C], V], a A) *Prefix[Pair[B, C], V] {
	return &Prefix[Pair[B, C], V]{ns: appendPrefix(p.ns, a), codec: p.codec}
}

// TripleSubPrefix narrows by the first two components at once.
func TripleSubPrefix[A KeyType[A], B KeyType[B], C KeyType[C], V any](p *Prefix[Triple[A, B, C], V], a A, b B) *Prefix[C, V] {
	ns := appendPrefix(p.ns, a)
	return &Prefix[C, V]{ns: appendPrefix(ns, b), codec: p.codec}
}

func QuadPrefix[A KeyType[A], B KeyType[B], C KeyType[C], D KeyType[D], V any](p *Prefix[Quad[A, B, C, D], V], a A) *Prefix[Triple[B, C, D], V] {
	return &Prefix[Triple[B, C, D], V]{ns: appendPrefix(p.ns, a), codec: p.codec}
}

// Namespace returns the resolved namespace and prefix bytes.
func (p *Prefix[K, V]) Namespace() []byte {
	return p.ns
}

func (p *Prefix[K, V]) trim(k []byte) ([]byte, error) {
	if !bytes.HasPrefix(k, p.ns) {
		return nil, dataErrf(k, 0, nil, "key outside of namespace %s", hexstr(p.ns))
	}
	return k[len(p.ns):], nil
}

func (p *Prefix[K, V]) decodeKey(k []byte) (K, error) {
	suffix, err := p.trim(k)
	if err != nil {
		var zero K
		return zero, err
	}
	return decodeKeyAt[K](k, suffix)
}

func (p *Prefix[K, V]) decodeValue(k, v []byte) (V, error) {
	val, err := p.codec.Decode(v)
	if err != nil {
		return val, keyErrf(namespaceOf(k), k, err, "")
	}
	return val, nil
}

func (p *Prefix[K, V]) decodeEntry(k, v []byte) (K, V, error) {
	var zv V
	key, err := p.decodeKey(k)
	if err != nil {
		return key, zv, err
	}
	val, err := p.decodeValue(k, v)
	return key, val, err
}

func (p *Prefix[K, V]) decodeKeyOnly(k, _ []byte) (K, Empty, error) {
	key, err := p.decodeKey(k)
	return key, Empty{}, err
}

func (p *Prefix[K, V]) decodeValueOnly(k, v []byte) (Empty, V, error) {
	val, err := p.decodeValue(k, v)
	return Empty{}, val, err
}

func (p *Prefix[K, V]) rawEntry(k, v []byte) ([]byte, []byte, error) {
	suffix, err := p.trim(k)
	if err != nil {
		return nil, nil, err
	}
	return cloneBytes(suffix), cloneBytes(v), nil
}

func (p *Prefix[K, V]) rawKeyOnly(k, _ []byte) ([]byte, Empty, error) {
	suffix, err := p.trim(k)
	if err != nil {
		return nil, Empty{}, err
	}
	return cloneBytes(suffix), Empty{}, nil
}

func rawValueOnly(_, v []byte) (Empty, []byte, error) {
	return Empty{}, cloneBytes(v), nil
}

func (p *Prefix[K, V]) bounds(min, max *Bound[K]) ([]byte, []byte) {
	return rangeBounds(p.ns, min.raw(), max.raw())
}

func (p *Prefix[K, V]) prefixBounds(min, max *PrefixBound) ([]byte, []byte) {
	return prefixRangeBounds(p.ns, min.rawBound(), max.rawBound())
}

// IsEmpty reports whether nothing is stored under the prefix.
func (p *Prefix[K, V]) IsEmpty(s Storage) (bool, error) {
	lower, upper := p.bounds(nil, nil)
	it := s.Scan(lower, upper, Ascending)
	defer it.Close()
	if it.Next() {
		return false, nil
	}
	return true, it.Err()
}

// RangeRaw yields the undecoded key suffixes and values in [min, max).
func (p *Prefix[K, V]) RangeRaw(s Storage, min, max *Bound[K], order Order) *Cursor[[]byte, []byte] {
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.rawEntry)
}

func (p *Prefix[K, V]) Range(s Storage, min, max *Bound[K], order Order) *Cursor[K, V] {
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.decodeEntry)
}

func (p *Prefix[K, V]) KeysRaw(s Storage, min, max *Bound[K], order Order) *Cursor[[]byte, Empty] {
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.rawKeyOnly)
}

func (p *Prefix[K, V]) Keys(s Storage, min, max *Bound[K], order Order) *Cursor[K, Empty] {
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.decodeKeyOnly)
}

func (p *Prefix[K, V]) ValuesRaw(s Storage, min, max *Bound[K], order Order) *Cursor[Empty, []byte] {
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), rawValueOnly)
}

func (p *Prefix[K, V]) Values(s Storage, min, max *Bound[K], order Order) *Cursor[Empty, V] {
	lower, upper := p.bounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.decodeValueOnly)
}

// Clear removes every entry in [min, max) with one ranged delete.
func (p *Prefix[K, V]) Clear(s Storage, min, max *Bound[K]) error {
	lower, upper := p.bounds(min, max)
	return s.RemoveRange(lower, upper)
}

// Drain removes the entries in [min, max) and returns them in ascending
// order.
func (p *Prefix[K, V]) Drain(s Storage, min, max *Bound[K]) ([]Entry[K, V], error) {
	entries, err := Collect(p.Range(s, min, max, Ascending))
	if err != nil {
		return nil, err
	}
	if err := p.Clear(s, min, max); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *Prefix[K, V]) PrefixRangeRaw(s Storage, min, max *PrefixBound, order Order) *Cursor[[]byte, []byte] {
	lower, upper := p.prefixBounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.rawEntry)
}

// PrefixRange is Range with bounds over leading key components, so that
// whole groups of keys can be included or skipped.
func (p *Prefix[K, V]) PrefixRange(s Storage, min, max *PrefixBound, order Order) *Cursor[K, V] {
	lower, upper := p.prefixBounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.decodeEntry)
}

func (p *Prefix[K, V]) PrefixKeysRaw(s Storage, min, max *PrefixBound, order Order) *Cursor[[]byte, Empty] {
	lower, upper := p.prefixBounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.rawKeyOnly)
}

func (p *Prefix[K, V]) PrefixKeys(s Storage, min, max *PrefixBound, order Order) *Cursor[K, Empty] {
	lower, upper := p.prefixBounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.decodeKeyOnly)
}

func (p *Prefix[K, V]) PrefixValuesRaw(s Storage, min, max *PrefixBound, order Order) *Cursor[Empty, []byte] {
	lower, upper := p.prefixBounds(min, max)
	return newCursor(s.Scan(lower, upper, order), rawValueOnly)
}

func (p *Prefix[K, V]) PrefixValues(s Storage, min, max *PrefixBound, order Order) *Cursor[Empty, V] {
	lower, upper := p.prefixBounds(min, max)
	return newCursor(s.Scan(lower, upper, order), p.decodeValueOnly)
}

func (p *Prefix[K, V]) PrefixClear(s Storage, min, max *PrefixBound) error {
	lower, upper := p.prefixBounds(min, max)
	return s.RemoveRange(lower, upper)
}
