package kvmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawEntries renders raw entries as "key=value" strings.
func rawEntries(t testing.TB, c *Cursor[[]byte, []byte]) []string {
	t.Helper()
	entries, err := Collect(c)
	require.NoError(t, err)
	out := []string{}
	for _, e := range entries {
		out = append(out, string(e.Key)+"="+string(e.Value))
	}
	return out
}

func TestPrefix_RangeBounds(t *testing.T) {
	s := NewMemStorage()
	foo := NewMapCodec[Bytes, []byte]("foo", Raw{})
	p := foo.NoPrefix()

	require.NoError(t, foo.Save(s, Bytes("bar"), []byte("1")))
	require.NoError(t, foo.Save(s, Bytes("ra"), []byte("2")))
	require.NoError(t, foo.Save(s, Bytes("zi"), []byte("3")))
	// these share a byte prefix with the namespace but must never match
	require.NoError(t, s.Write([]byte("foply"), []byte("100")))
	require.NoError(t, s.Write([]byte("font"), []byte("200")))
	require.NoError(t, NewMapCodec[Bytes, []byte]("fo", Raw{}).Save(s, Bytes("obar"), []byte("300")))
	require.NoError(t, NewMapCodec[Bytes, []byte]("fooo", Raw{}).Save(s, Bytes("bar"), []byte("400")))

	inc := Inclusive[Bytes]
	exc := Exclusive[Bytes]
	asc := []string{"bar=1", "ra=2", "zi=3"}
	desc := []string{"zi=3", "ra=2", "bar=1"}

	tests := []struct {
		name     string
		min, max *Bound[Bytes]
		order    Order
		want     []string
	}{
		{"all asc", nil, nil, Ascending, asc},
		{"all desc", nil, nil, Descending, desc},
		{"min inclusive", inc(Bytes("ra")), nil, Ascending, asc[1:]},
		{"min exclusive", exc(Bytes("ra")), nil, Ascending, asc[2:]},
		{"min exclusive lower", exc(Bytes("r")), nil, Ascending, asc[1:]},
		{"max inclusive desc", nil, inc(Bytes("ra")), Descending, desc[1:]},
		{"max exclusive desc", nil, exc(Bytes("ra")), Descending, desc[2:]},
		{"max exclusive higher desc", nil, exc(Bytes("rb")), Descending, desc[1:]},
		{"max exclusive asc", nil, exc(Bytes("zi")), Ascending, asc[:2]},
		{"both asc", inc(Bytes("ra")), exc(Bytes("zi")), Ascending, asc[1:2]},
		{"both desc", inc(Bytes("ra")), exc(Bytes("zi")), Descending, asc[1:2]},
		{"both inclusive desc", inc(Bytes("ra")), inc(Bytes("zi")), Descending, desc[:2]},
		{"both exclusive", exc(Bytes("ra")), exc(Bytes("zi")), Ascending, []string{}},
		{"inverted", inc(Bytes("zi")), inc(Bytes("bar")), Ascending, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rawEntries(t, p.RangeRaw(s, tt.min, tt.max, tt.order)))
		})
	}

	// inclusive-max descending equals reversed inclusive-max ascending
	up := rawEntries(t, p.RangeRaw(s, inc(Bytes("ra")), inc(Bytes("zi")), Ascending))
	down := rawEntries(t, p.RangeRaw(s, inc(Bytes("ra")), inc(Bytes("zi")), Descending))
	assert.Equal(t, []string{"ra=2", "zi=3"}, up)
	assert.Equal(t, []string{up[1], up[0]}, down)
}

func TestPrefix_ClearLimited(t *testing.T) {
	s := NewMemStorage()
	m := NewMapCodec[I32, []byte]("foo", Raw{})
	for i := I32(0); i < 100; i++ {
		require.NoError(t, m.Save(s, i, []byte("1")))
	}
	count := func() int {
		return must(Count(m.Range(s, nil, nil, Ascending)))
	}
	assert.Equal(t, 100, count())

	require.NoError(t, m.Clear(s, nil, Inclusive(I32(20))))
	assert.Equal(t, 100-21, count())

	require.NoError(t, m.Clear(s, Inclusive(I32(50)), nil))
	assert.Equal(t, 100-21-50, count())

	require.NoError(t, m.Clear(s, nil, Inclusive(I32(200))))
	assert.Equal(t, 0, count())
}

func TestPrefix_ClearSignedKeys(t *testing.T) {
	s := NewMemStorage()
	m := NewMapCodec[I32, []byte]("foo", Raw{})
	for i := I32(-10); i < 10; i++ {
		require.NoError(t, m.Save(s, i, []byte("1")))
	}
	require.NoError(t, m.Clear(s, Exclusive(I32(-5)), Exclusive(I32(5))))
	keys, err := CollectKeys(m.Keys(s, nil, nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, []I32{-10, -9, -8, -7, -6, -5, 5, 6, 7, 8, 9}, keys)
}

func TestPrefix_ClearUnlimited(t *testing.T) {
	s := NewMemStorage()
	m := NewMapCodec[Str, []byte]("foo", Raw{})
	other := NewMapCodec[Str, []byte]("fooo", Raw{})
	require.NoError(t, other.Save(s, "keep", []byte("1")))

	for i := 0; i < 1000; i++ {
		require.NoError(t, m.Save(s, Str(fmt.Sprintf("foo%d", i)), []byte("1")))
	}
	assert.Equal(t, 1000, must(Count(m.Range(s, nil, nil, Ascending))))
	require.NoError(t, m.Clear(s, nil, nil))
	assert.Equal(t, 0, must(Count(m.Range(s, nil, nil, Ascending))))

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Save(s, Str(fmt.Sprintf("foo%d", i)), []byte("1")))
	}
	assert.Equal(t, 5, must(Count(m.Range(s, nil, nil, Ascending))))
	require.NoError(t, m.NoPrefix().Clear(s, nil, nil))
	assert.True(t, must(m.IsEmpty(s)))

	assert.False(t, must(other.IsEmpty(s)))
}

func TestPrefix_IsEmpty(t *testing.T) {
	s := NewMemStorage()
	m := NewMapCodec[Bytes, []byte]("foo", Raw{})
	assert.True(t, must(m.IsEmpty(s)))

	require.NoError(t, s.Write(concat(x("0003"), []byte("fookey1")), []byte("1")))
	require.NoError(t, s.Write(concat(x("0003"), []byte("fookey2")), []byte("2")))
	assert.False(t, must(m.IsEmpty(s)))
	assert.True(t, must(NewMap[Bytes, int]("fo").IsEmpty(s)))
}

func TestPrefix_KeysRaw(t *testing.T) {
	s := NewMemStorage()
	m := NewMapCodec[Bytes, []byte]("foo", Raw{})
	require.NoError(t, s.Write(concat(x("0003"), []byte("fookey1")), []byte("1")))
	require.NoError(t, s.Write(concat(x("0003"), []byte("fookey2")), []byte("2")))

	keys, err := CollectKeys(m.KeysRaw(s, nil, nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("key1"), []byte("key2")}, keys)

	keys, err = CollectKeys(m.KeysRaw(s, Exclusive(Bytes("key1")), nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("key2")}, keys)

	values, err := CollectValues(m.ValuesRaw(s, nil, nil, Descending))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("2"), []byte("1")}, values)
}

func TestPrefix_Nested(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[Triple[Str, U8, Str], int]("allow")
	for _, e := range []struct {
		a string
		b U8
		c string
		v int
	}{
		{"john", 1, "maria", 1},
		{"john", 1, "pedro", 2},
		{"john", 2, "maria", 3},
		{"jon", 1, "maria", 4},
	} {
		require.NoError(t, m.Save(s, MakeTriple(Str(e.a), e.b, Str(e.c)), e.v))
	}

	john := TriplePrefix(m.NoPrefix(), Str("john"))
	deepEqual(t, john.Namespace(), x("0005 616c6c6f77 0004 6a6f686e"))
	entries, err := Collect(john.Range(s, nil, nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, []Entry[Pair[U8, Str], int]{
		{MakePair(U8(1), Str("maria")), 1},
		{MakePair(U8(1), Str("pedro")), 2},
		{MakePair(U8(2), Str("maria")), 3},
	}, entries)

	john1 := TripleSubPrefix(m.NoPrefix(), Str("john"), U8(1))
	values, err := CollectValues(john1.Values(s, nil, nil, Descending))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, values)

	john1b := PairPrefix(john, U8(1))
	keys, err := CollectKeys(john1b.Keys(s, Exclusive(Str("maria")), nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, []Str{"pedro"}, keys)

	drained, err := john1b.Drain(s, nil, nil)
	require.NoError(t, err)
	assert.Len(t, drained, 2)
	assert.True(t, must(john1b.IsEmpty(s)))
	assert.Equal(t, 2, must(Count(m.Range(s, nil, nil, Ascending))))
}

func TestPrefix_DecodeErrors(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[U32, int]("nums")
	require.NoError(t, m.Save(s, 1, 10))
	require.NoError(t, m.UnsafeSaveRaw(s, x("000002"), []byte{0x05}))
	require.NoError(t, m.UnsafeSaveRaw(s, x("00000003"), x("c1")))

	c := m.Range(s, nil, nil, Ascending)
	require.True(t, c.Next())
	assert.Equal(t, U32(1), c.Key())
	assert.Equal(t, 10, c.Value())
	require.False(t, c.Next())
	assert.ErrorIs(t, c.Err(), ErrDeserialize)
	var ke *KeyError
	require.ErrorAs(t, c.Err(), &ke)
	assert.Equal(t, "nums", ke.Namespace)
	assert.False(t, c.Next())

	// raw scans do not decode
	assert.Equal(t, 3, must(Count(m.RangeRaw(s, nil, nil, Ascending))))

	_, err := m.Load(s, 3)
	assert.ErrorIs(t, err, ErrDeserialize)
}
