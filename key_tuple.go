package kvmap

// Pair is a two-component key. Its prefix is First and its suffix is Second.
type Pair[A KeyType[A], B KeyType[B]] struct {
	First  A
	Second B
}

func MakePair[A KeyType[A], B KeyType[B]](a A, b B) Pair[A, B] {
	return Pair[A, B]{a, b}
}

func (k Pair[A, B]) RawKeys() [][]byte {
	return append(k.First.RawKeys(), k.Second.RawKeys()...)
}

func (k Pair[A, B]) KeyElems() int {
	return k.First.KeyElems() + k.Second.KeyElems()
}

func (Pair[A, B]) FromSlice(raw []byte) (Pair[A, B], error) {
	var za A
	var zb B
	first, rest, err := splitFirstKey(za.KeyElems(), raw)
	if err != nil {
		return Pair[A, B]{}, err
	}
	a, err := za.FromSlice(first)
	if err != nil {
		return Pair[A, B]{}, err
	}
	b, err := zb.FromSlice(rest)
	if err != nil {
		return Pair[A, B]{}, err
	}
	return Pair[A, B]{a, b}, nil
}

// Triple is a three-component key. Its prefix is First and its suffix is
// Pair[B, C].
type Triple[A KeyType[A], B KeyType[B], C KeyType[C]] struct {
	First  A
	Second B
	Third  C
}

func MakeTriple[A KeyType[A], B KeyType[B], C KeyType[C]](a A, b B, c C) Triple[A, B, C] {
	return Triple[A, B, C]{a, b, c}
}

func (k Triple[A, B, C]) RawKeys() [][]byte {
	segs := k.First.RawKeys()
	segs = append(segs, k.Second.RawKeys()...)
	return append(segs, k.Third.RawKeys()...)
}

func (k Triple[A, B, C]) KeyElems() int {
	return k.First.KeyElems() + k.Second.KeyElems() + k.Third.KeyElems()
}

func (k Triple[A, B, C]) Suffix() Pair[B, C] {
	return Pair[B, C]{k.Second, k.Third}
}

func (Triple[A, B, C]) FromSlice(raw []byte) (Triple[A, B, C], error) {
	var za A
	first, rest, err := splitFirstKey(za.KeyElems(), raw)
	if err != nil {
		return Triple[A, B, C]{}, err
	}
	a, err := za.FromSlice(first)
	if err != nil {
		return Triple[A, B, C]{}, err
	}
	suffix, err := Pair[B, C]{}.FromSlice(rest)
	if err != nil {
		return Triple[A, B, C]{}, err
	}
	return Triple[A, B, C]{a, suffix.First, suffix.Second}, nil
}

// Quad is a four-component key. Its prefix is First and its suffix is
// Triple[B, C, D].
type Quad[A KeyType[A], B KeyType[B], C KeyType[C], D KeyType[D]] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

func MakeQuad[A KeyType[A], B KeyType[B], C KeyType[C], D KeyType[D]](a A, b B, c C, d D) Quad[A, B, C, D] {
	return Quad[A, B, C, D]{a, b, c, d}
}

func (k Quad[A, B, C, D]) RawKeys() [][]byte {
	segs := k.First.RawKeys()
	segs = append(segs, k.Second.RawKeys()...)
	segs = append(segs, k.Third.RawKeys()...)
	return append(segs, k.Fourth.RawKeys()...)
}

func (k Quad[A, B, C, D]) KeyElems() int {
	return k.First.KeyElems() + k.Second.KeyElems() + k.Third.KeyElems() + k.Fourth.KeyElems()
}

func (k Quad[A, B, C, D]) Suffix() Triple[B, C, D] {
	return Triple[B, C, D]{k.Second, k.Third, k.Fourth}
}

func (Quad[A, B, C, D]) FromSlice(raw []byte) (Quad[A, B, C, D], error) {
	var za A
	first, rest, err := splitFirstKey(za.KeyElems(), raw)
	if err != nil {
		return Quad[A, B, C, D]{}, err
	}
	a, err := za.FromSlice(first)
	if err != nil {
		return Quad[A, B, C, D]{}, err
	}
	suffix, err := Triple[B, C, D]{}.FromSlice(rest)
	if err != nil {
		return Quad[A, B, C, D]{}, err
	}
	return Quad[A, B, C, D]{a, suffix.First, suffix.Second, suffix.Third}, nil
}
