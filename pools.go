package kvmap

import "sync"

// keyListPool holds the key batches collected by removeRangeVia.
var keyListPool = &sync.Pool{
	New: func() any {
		return make([][]byte, 0, 1024)
	},
}

func releaseKeyList(keys [][]byte) {
	clear(keys)
	keyListPool.Put(keys[:0])
}
