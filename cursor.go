package kvmap

// Entry is a decoded key-value pair.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Cursor decodes the items of a storage scan one at a time. It is lazy and not
// restartable; call Close when abandoning it early.
//
//	c := m.Range(s, nil, nil, kvmap.Ascending)
//	defer c.Close()
//	for c.Next() {
//		use(c.Key(), c.Value())
//	}
//	if err := c.Err(); err != nil { ... }
//
// Projections that only decode one side (Keys, Values) leave the other side
// as Empty.
//
// A cursor over a DB.Read or DB.Write storage is only valid inside that
// callback; afterwards Next returns false and Err reports ErrTxClosed.
type Cursor[K, V any] struct {
	it     Iterator
	decode func(k, v []byte) (K, V, error)
	key    K
	value  V
	err    error
	done   bool
}

func newCursor[K, V any](it Iterator, decode func(k, v []byte) (K, V, error)) *Cursor[K, V] {
	return &Cursor[K, V]{it: it, decode: decode}
}

func (c *Cursor[K, V]) Next() bool {
	if c.done {
		return false
	}
	if !c.it.Next() {
		c.err = c.it.Err()
		c.finish()
		return false
	}
	k, v, err := c.decode(c.it.Key(), c.it.Value())
	if err != nil {
		c.err = err
		c.finish()
		return false
	}
	c.key, c.value = k, v
	return true
}

func (c *Cursor[K, V]) finish() {
	var zk K
	var zv V
	c.key, c.value = zk, zv
	c.done = true
	c.it.Close()
}

func (c *Cursor[K, V]) Key() K   { return c.key }
func (c *Cursor[K, V]) Value() V { return c.value }
func (c *Cursor[K, V]) Entry() Entry[K, V] {
	return Entry[K, V]{c.key, c.value}
}

// Err returns the first scan or decoding error. Iteration stops at the first
// error.
func (c *Cursor[K, V]) Err() error { return c.err }

func (c *Cursor[K, V]) Close() error {
	if !c.done {
		c.finish()
	}
	return nil
}

// Collect drains c into a slice and closes it.
func Collect[K, V any](c *Cursor[K, V]) ([]Entry[K, V], error) {
	defer c.Close()
	var out []Entry[K, V]
	for c.Next() {
		out = append(out, c.Entry())
	}
	return out, c.Err()
}

func CollectKeys[K, V any](c *Cursor[K, V]) ([]K, error) {
	defer c.Close()
	var out []K
	for c.Next() {
		out = append(out, c.Key())
	}
	return out, c.Err()
}

func CollectValues[K, V any](c *Cursor[K, V]) ([]V, error) {
	defer c.Close()
	var out []V
	for c.Next() {
		out = append(out, c.Value())
	}
	return out, c.Err()
}

// Count drains c and returns the number of items.
func Count[K, V any](c *Cursor[K, V]) (int, error) {
	defer c.Close()
	var n int
	for c.Next() {
		n++
	}
	return n, c.Err()
}
