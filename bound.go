package kvmap

// Bound is one end of a key range. A nil *Bound means the range is open on
// that side.
type Bound[K Key] struct {
	Key       K
	Exclusive bool
}

func Inclusive[K Key](k K) *Bound[K] {
	return &Bound[K]{Key: k}
}

func Exclusive[K Key](k K) *Bound[K] {
	return &Bound[K]{Key: k, Exclusive: true}
}

func (b *Bound[K]) raw() *rawBound {
	if b == nil {
		return nil
	}
	return &rawBound{JoinedKey(b.Key), b.Exclusive}
}

// PrefixBound is one end of a range over the leading components of a key.
// Unlike Bound, an exclusive PrefixBound skips every key that starts with the
// given prefix, not just the prefix itself.
type PrefixBound struct {
	raw rawBound
}

func InclusivePrefix(k Key) *PrefixBound {
	return &PrefixBound{rawBound{JoinedPrefix(k), false}}
}

func ExclusivePrefix(k Key) *PrefixBound {
	return &PrefixBound{rawBound{JoinedPrefix(k), true}}
}

func (b *PrefixBound) rawBound() *rawBound {
	if b == nil {
		return nil
	}
	return &b.raw
}

type rawBound struct {
	key       []byte
	exclusive bool
}

// rangeBounds converts key bounds under ns into a half-open storage range.
func rangeBounds(ns []byte, min, max *rawBound) (lower, upper []byte) {
	switch {
	case min == nil:
		lower = cloneBytes(ns)
	case min.exclusive:
		lower = concat(ns, extendOneByte(min.key))
	default:
		lower = concat(ns, min.key)
	}
	switch {
	case max == nil:
		upper = incrementLastByte(ns)
	case max.exclusive:
		upper = concat(ns, max.key)
	default:
		upper = concat(ns, extendOneByte(max.key))
	}
	return lower, upper
}

// prefixRangeBounds is rangeBounds for prefix bounds: exclusive minimums and
// inclusive maximums step past everything under the prefix.
func prefixRangeBounds(ns []byte, min, max *rawBound) (lower, upper []byte) {
	switch {
	case min == nil:
		lower = cloneBytes(ns)
	case min.exclusive:
		lower = incrementLastByte(concat(ns, min.key))
	default:
		lower = concat(ns, min.key)
	}
	switch {
	case max == nil:
		upper = incrementLastByte(ns)
	case max.exclusive:
		upper = concat(ns, max.key)
	default:
		upper = incrementLastByte(concat(ns, max.key))
	}
	return lower, upper
}
