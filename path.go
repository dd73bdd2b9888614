package kvmap

// Path addresses a single entry: a fully resolved storage key plus the codec
// of the value stored there.
type Path[V any] struct {
	key   []byte
	codec Codec[V]
}

// newPath builds namespace | len(p1) | p1 | ... | last.
func newPath[V any](ns []byte, prefixes [][]byte, last []byte, codec Codec[V]) *Path[V] {
	key := cloneBytes(ns)
	for _, p := range prefixes {
		key = appendSegment(key, p)
	}
	key = append(key, last...)
	return &Path[V]{key: key, codec: codec}
}

// Key returns the full storage key.
func (p *Path[V]) Key() []byte {
	return p.key
}

func (p *Path[V]) decode(raw []byte) (V, error) {
	v, err := p.codec.Decode(raw)
	if err != nil {
		return v, keyErrf(namespaceOf(p.key), p.key, err, "")
	}
	return v, nil
}

// MayLoadRaw returns nil when the entry is absent.
func (p *Path[V]) MayLoadRaw(s Storage) ([]byte, error) {
	return s.Read(p.key)
}

func (p *Path[V]) LoadRaw(s Storage) ([]byte, error) {
	raw, err := s.Read(p.key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, notFound(p.key)
	}
	return raw, nil
}

func (p *Path[V]) Exists(s Storage) (bool, error) {
	raw, err := s.Read(p.key)
	return raw != nil, err
}

func (p *Path[V]) MayLoad(s Storage) (V, bool, error) {
	var zero V
	raw, err := s.Read(p.key)
	if err != nil || raw == nil {
		return zero, false, err
	}
	v, err := p.decode(raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Load fails with ErrNotFound when the entry is absent.
func (p *Path[V]) Load(s Storage) (V, error) {
	raw, err := p.LoadRaw(s)
	if err != nil {
		var zero V
		return zero, err
	}
	return p.decode(raw)
}

func (p *Path[V]) SaveRaw(s Storage, raw []byte) error {
	return s.Write(p.key, raw)
}

func (p *Path[V]) Save(s Storage, v V) error {
	raw, err := p.codec.Encode(v)
	if err != nil {
		return keyErrf(namespaceOf(p.key), p.key, err, "")
	}
	return s.Write(p.key, raw)
}

// Remove is a no-op when the entry is absent.
func (p *Path[V]) Remove(s Storage) error {
	return s.Remove(p.key)
}

// Update loads the entry, applies fn and saves the result. Errors from the
// load, fn and the save share one return channel.
func (p *Path[V]) Update(s Storage, fn func(old V) (V, error)) (V, error) {
	old, err := p.Load(s)
	if err != nil {
		return old, err
	}
	v, err := fn(old)
	if err != nil {
		return v, err
	}
	return v, p.Save(s, v)
}

// MayUpdate is Update that passes found=false to fn instead of failing on a
// missing entry.
func (p *Path[V]) MayUpdate(s Storage, fn func(old V, found bool) (V, error)) (V, error) {
	old, found, err := p.MayLoad(s)
	if err != nil {
		return old, err
	}
	v, err := fn(old, found)
	if err != nil {
		return v, err
	}
	return v, p.Save(s, v)
}

// Modify is Update where fn may return keep=false to delete the entry.
func (p *Path[V]) Modify(s Storage, fn func(old V) (v V, keep bool, err error)) (V, bool, error) {
	old, err := p.Load(s)
	if err != nil {
		return old, false, err
	}
	v, keep, err := fn(old)
	return p.finishModify(s, v, keep, err)
}

func (p *Path[V]) MayModify(s Storage, fn func(old V, found bool) (v V, keep bool, err error)) (V, bool, error) {
	old, found, err := p.MayLoad(s)
	if err != nil {
		return old, false, err
	}
	v, keep, err := fn(old, found)
	return p.finishModify(s, v, keep, err)
}

func (p *Path[V]) finishModify(s Storage, v V, keep bool, err error) (V, bool, error) {
	if err != nil {
		return v, keep, err
	}
	if keep {
		err = p.Save(s, v)
	} else {
		err = p.Remove(s)
	}
	return v, keep, err
}

// Take loads and removes the entry, failing with ErrNotFound when absent.
func (p *Path[V]) Take(s Storage) (V, error) {
	v, err := p.Load(s)
	if err != nil {
		return v, err
	}
	return v, p.Remove(s)
}

func (p *Path[V]) MayTake(s Storage) (V, bool, error) {
	v, found, err := p.MayLoad(s)
	if err != nil || !found {
		return v, found, err
	}
	return v, true, p.Remove(s)
}

func (p *Path[V]) TakeRaw(s Storage) ([]byte, error) {
	raw, err := p.LoadRaw(s)
	if err != nil {
		return nil, err
	}
	return raw, p.Remove(s)
}

func (p *Path[V]) MayTakeRaw(s Storage) ([]byte, error) {
	raw, err := s.Read(p.key)
	if err != nil || raw == nil {
		return nil, err
	}
	return raw, p.Remove(s)
}
