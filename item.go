package kvmap

// Item is a single value stored under a fixed key, such as a config record
// or a counter. The key is used verbatim, without a length prefix.
type Item[V any] struct {
	Path[V]
}

func NewItem[V any](key string) *Item[V] {
	return NewItemCodec[V](key, MsgPack[V]{})
}

func NewItemCodec[V any](key string, codec Codec[V]) *Item[V] {
	return &Item[V]{Path[V]{key: []byte(key), codec: codec}}
}
