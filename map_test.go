package kvmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string `msgpack:"n" json:"name" cbor:"1,keyasint"`
	Age  int    `msgpack:"a" json:"age" cbor:"2,keyasint"`
}

func TestMap_SaveLoad(t *testing.T) {
	eachEngine(t, func(t *testing.T, db *DB) {
		people := NewMap[Str, person]("people")
		john := person{"John", 32}

		require.NoError(t, db.Write(func(s Storage) error {
			_, found, err := people.MayLoad(s, "john")
			require.NoError(t, err)
			assert.False(t, found)

			_, err = people.Load(s, "john")
			assert.ErrorIs(t, err, ErrNotFound)
			var ke *KeyError
			require.ErrorAs(t, err, &ke)
			assert.Equal(t, "people", ke.Namespace)
			assert.Equal(t, "people/000670656f706c656a6f686e: not found", err.Error())

			return people.Save(s, "john", john)
		}))

		require.NoError(t, db.Read(func(s Storage) error {
			v, err := people.Load(s, "john")
			require.NoError(t, err)
			assert.Equal(t, john, v)
			assert.True(t, must(people.Has(s, "john")))
			assert.False(t, must(people.Has(s, "jack")))
			assert.True(t, must(people.HasRaw(s, []byte("john"))))

			raw, err := people.LoadRaw(s, []byte("john"))
			require.NoError(t, err)
			assert.Equal(t, john, must(MsgPack[person]{}.Decode(raw)))
			raw, err = people.MayLoadRaw(s, []byte("jack"))
			require.NoError(t, err)
			assert.Nil(t, raw)
			return nil
		}))

		require.NoError(t, db.Write(func(s Storage) error {
			v, err := people.Take(s, "john")
			require.NoError(t, err)
			assert.Equal(t, john, v)
			_, err = people.Take(s, "john")
			assert.ErrorIs(t, err, ErrNotFound)
			_, found, err := people.MayTake(s, "john")
			require.NoError(t, err)
			assert.False(t, found)
			return nil
		}))
	})
}

func TestMap_Path(t *testing.T) {
	people := NewMap[Str, int]("people")
	deepEqual(t, people.Path("john").Key(), x("0006 70656f706c65 6a6f686e"))

	allow := NewMap[Pair[Str, Str], int]("allow")
	deepEqual(t, allow.Path(MakePair(Str("john"), Str("maria"))).Key(), x("0005 616c6c6f77 0004 6a6f686e 6d61726961"))

	triple := NewMap[Triple[Str, U8, Str], int]("triple")
	deepEqual(t, triple.Path(MakeTriple(Str("john"), U8(8), Str("pedro"))).Key(), x("0006 747269706c65 0004 6a6f686e 0001 08 706564726f"))

	s := NewMemStorage()
	p := allow.Path(MakePair(Str("john"), Str("maria")))
	require.NoError(t, p.Save(s, 1234))
	assert.Equal(t, 1234, must(allow.Load(s, MakePair(Str("john"), Str("maria")))))
	_, found, err := allow.MayLoad(s, MakePair(Str("jack"), Str("maria")))
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, must(p.Exists(s)))
	require.NoError(t, p.Remove(s))
	assert.False(t, must(p.Exists(s)))
}

func TestMap_UpdateModify(t *testing.T) {
	s := NewMemStorage()
	counters := NewMap[Str, int]("counters")
	boom := errors.New("boom")

	_, err := counters.Update(s, "a", func(old int) (int, error) { return old + 1, nil })
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := counters.MayUpdate(s, "a", func(old int, found bool) (int, error) {
		assert.False(t, found)
		return old + 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = counters.Update(s, "a", func(old int) (int, error) { return old * 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	assert.Equal(t, 20, must(counters.Load(s, "a")))

	_, err = counters.Update(s, "a", func(old int) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 20, must(counters.Load(s, "a")))

	v, keep, err := counters.Modify(s, "a", func(old int) (int, bool, error) { return old + 1, true, nil })
	require.NoError(t, err)
	assert.True(t, keep)
	assert.Equal(t, 21, v)

	_, keep, err = counters.Modify(s, "a", func(old int) (int, bool, error) { return 0, false, nil })
	require.NoError(t, err)
	assert.False(t, keep)
	assert.False(t, must(counters.Has(s, "a")))

	_, _, err = counters.Modify(s, "a", func(old int) (int, bool, error) { return 0, true, nil })
	assert.ErrorIs(t, err, ErrNotFound)

	_, keep, err = counters.MayModify(s, "b", func(old int, found bool) (int, bool, error) {
		return 5, !found, nil
	})
	require.NoError(t, err)
	assert.True(t, keep)
	assert.Equal(t, 5, must(counters.Load(s, "b")))
}

func TestMap_IntegerRanges(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[I32, string]("ints")
	require.NoError(t, m.Save(s, 1234, "a"))
	require.NoError(t, m.Save(s, -56, "b"))
	require.NoError(t, m.Save(s, 50, "c"))
	require.NoError(t, m.Save(s, -1234, "d"))

	keys, err := CollectKeys(m.Keys(s, nil, nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, []I32{-1234, -56, 50, 1234}, keys)

	entries, err := Collect(m.Range(s, Inclusive(I32(-56)), Exclusive(I32(1234)), Ascending))
	require.NoError(t, err)
	assert.Equal(t, []Entry[I32, string]{{-56, "b"}, {50, "c"}}, entries)

	values, err := CollectValues(m.Values(s, Exclusive(I32(0)), nil, Descending))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, values)
}

func TestMap_PrefixRange(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[Pair[U64, Str], string]("foo")
	for _, e := range []struct {
		idx  U64
		addr Str
		desc string
	}{
		{1, "name_1", "desc_1"},
		{2, "name_2", "desc_2"},
		{2, "name_3", "desc_3"},
		{3, "name_4", "desc_4"},
		{3, "name_5", "desc_5"},
		{4, "name_6", "desc_6"},
	} {
		require.NoError(t, m.Save(s, MakePair(e.idx, e.addr), e.desc))
	}

	descs := func(min, max *PrefixBound, order Order) []string {
		t.Helper()
		entries, err := Collect(m.PrefixRange(s, min, max, order))
		require.NoError(t, err)
		out := []string{}
		for _, e := range entries {
			assert.Equal(t, "desc_"+string(e.Key.Second)[5:], e.Value)
			out = append(out, e.Value)
		}
		return out
	}

	assert.Equal(t, []string{"desc_1", "desc_2", "desc_3"}, descs(nil, InclusivePrefix(U64(2)), Ascending))
	assert.Equal(t, []string{"desc_4", "desc_5", "desc_6"}, descs(ExclusivePrefix(U64(2)), nil, Ascending))
	assert.Equal(t, []string{"desc_1"}, descs(nil, ExclusivePrefix(U64(2)), Descending))
	assert.Equal(t, []string{"desc_6", "desc_5", "desc_4", "desc_3", "desc_2"}, descs(InclusivePrefix(U64(2)), nil, Descending))
	assert.Equal(t, []string{"desc_2", "desc_3", "desc_4", "desc_5"}, descs(InclusivePrefix(U64(2)), ExclusivePrefix(U64(4)), Ascending))

	keys, err := CollectKeys(m.PrefixKeys(s, InclusivePrefix(U64(3)), InclusivePrefix(U64(3)), Descending))
	require.NoError(t, err)
	assert.Equal(t, []Pair[U64, Str]{MakePair(U64(3), Str("name_5")), MakePair(U64(3), Str("name_4"))}, keys)

	require.NoError(t, m.PrefixClear(s, ExclusivePrefix(U64(1)), ExclusivePrefix(U64(4))))
	assert.Equal(t, []string{"desc_1", "desc_6"}, descs(nil, nil, Ascending))
}

func TestMap_PrefixRangeRaw(t *testing.T) {
	s := NewMemStorage()
	ages := NewMap[Pair[U32, Bytes], uint64]("ages")
	require.NoError(t, ages.Save(s, MakePair(U32(2), Bytes{1, 2, 3}), 123))
	require.NoError(t, ages.Save(s, MakePair(U32(3), Bytes{4, 5, 6}), 456))
	require.NoError(t, ages.Save(s, MakePair(U32(5), Bytes{7, 8, 9}), 789))
	require.NoError(t, ages.Save(s, MakePair(U32(5), Bytes{9, 8, 7}), 987))
	require.NoError(t, ages.Save(s, MakePair(U32(7), Bytes{20, 21, 22}), 2002))
	require.NoError(t, ages.Save(s, MakePair(U32(8), Bytes{23, 24, 25}), 2332))

	fives, err := Collect(PairPrefix(ages.NoPrefix(), U32(5)).RangeRaw(s, nil, nil, Ascending))
	require.NoError(t, err)
	require.Len(t, fives, 2)
	assert.Equal(t, []byte{7, 8, 9}, fives[0].Key)
	assert.Equal(t, uint64(789), must(MsgPack[uint64]{}.Decode(fives[0].Value)))
	assert.Equal(t, []byte{9, 8, 7}, fives[1].Key)

	values := func(min, max *PrefixBound, order Order) []uint64 {
		t.Helper()
		raws, err := CollectValues(ages.PrefixValuesRaw(s, min, max, order))
		require.NoError(t, err)
		out := []uint64{}
		for _, raw := range raws {
			out = append(out, must(MsgPack[uint64]{}.Decode(raw)))
		}
		return out
	}
	assert.Equal(t, []uint64{456, 789, 987, 2002}, values(InclusivePrefix(U32(3)), InclusivePrefix(U32(7)), Ascending))
	assert.Equal(t, []uint64{789, 987}, values(ExclusivePrefix(U32(3)), ExclusivePrefix(U32(7)), Ascending))
	assert.Equal(t, []uint64{987, 789, 456}, values(InclusivePrefix(U32(3)), InclusivePrefix(U32(5)), Descending))
	assert.Equal(t, []uint64{456}, values(ExclusivePrefix(U32(2)), ExclusivePrefix(U32(5)), Descending))

	typed, err := CollectValues(ages.PrefixValues(s, ExclusivePrefix(U32(5)), nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, []uint64{2002, 2332}, typed)

	rawKeys, err := CollectKeys(ages.PrefixKeysRaw(s, InclusivePrefix(U32(8)), nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{x("0004 00000008 171819")}, rawKeys)

	entries, err := Collect(ages.PrefixRangeRaw(s, nil, ExclusivePrefix(U32(3)), Ascending))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, x("0004 00000002 010203"), entries[0].Key)
}

func TestMap_Drain(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[U8, string]("letters")
	for i, v := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.Save(s, U8(i), v))
	}
	drained, err := m.Drain(s, Inclusive(U8(1)), Exclusive(U8(3)))
	require.NoError(t, err)
	assert.Equal(t, []Entry[U8, string]{{1, "b"}, {2, "c"}}, drained)

	rest, err := Collect(m.Range(s, nil, nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, []Entry[U8, string]{{0, "a"}, {3, "d"}}, rest)
}

func TestMap_Codecs(t *testing.T) {
	alice := person{"Alice", 30}
	tests := []struct {
		name  string
		codec Codec[person]
	}{
		{"msgpack", MsgPack[person]{}},
		{"json", JSON[person]{}},
		{"cbor", CBOR[person]{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemStorage()
			m := NewMapCodec[U16, person]("people", tt.codec)
			assert.Equal(t, tt.codec, m.Codec())
			require.NoError(t, m.Save(s, 7, alice))
			assert.Equal(t, alice, must(m.Load(s, 7)))

			require.NoError(t, m.UnsafeSaveRaw(s, JoinedKey(U16(8)), x("ff")))
			_, err := m.Load(s, 8)
			assert.ErrorIs(t, err, ErrDeserialize)
		})
	}

	raw := must(JSON[person]{}.Encode(alice))
	assert.Equal(t, `{"name":"Alice","age":30}`, string(raw))
	raw = must(CBOR[person]{}.Encode(alice))
	assert.Equal(t, x("a2 01 65416c696365 02 181e"), raw)
}

func TestMsgPack_Deterministic(t *testing.T) {
	a := must(MsgPack[map[string]int]{}.Encode(map[string]int{"b": 2, "a": 1, "c": 3}))
	b := must(MsgPack[map[string]int]{}.Encode(map[string]int{"c": 3, "a": 1, "b": 2}))
	deepEqual(t, a, b)
	deepEqual(t, a, x("83 a161 01 a162 02 a163 03"))

	_, err := MsgPack[int]{}.Decode(x("01 02"))
	assert.ErrorIs(t, err, ErrDeserialize)
}

func TestItem(t *testing.T) {
	eachEngine(t, func(t *testing.T, db *DB) {
		config := NewItem[person]("config")
		require.NoError(t, db.Write(func(s Storage) error {
			_, err := config.Load(s)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.False(t, must(config.Exists(s)))
			deepEqual(t, config.Key(), []byte("config"))
			return config.Save(s, person{"cfg", 1})
		}))
		require.NoError(t, db.Write(func(s Storage) error {
			v, err := config.Update(s, func(old person) (person, error) {
				old.Age++
				return old, nil
			})
			require.NoError(t, err)
			assert.Equal(t, person{"cfg", 2}, v)
			raw, err := s.Read([]byte("config"))
			require.NoError(t, err)
			assert.Equal(t, v, must(MsgPack[person]{}.Decode(raw)))
			return nil
		}))
		require.NoError(t, db.Write(func(s Storage) error {
			v, found, err := config.MayTake(s)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, 2, v.Age)
			assert.False(t, must(config.Exists(s)))
			return nil
		}))
	})
}

func TestSet(t *testing.T) {
	s := NewMemStorage()
	st := NewSet[Pair[Str, U32]]("members")
	assert.True(t, must(st.IsEmpty(s)))
	for _, k := range []Pair[Str, U32]{
		MakePair(Str("a"), U32(1)),
		MakePair(Str("a"), U32(2)),
		MakePair(Str("b"), U32(1)),
	} {
		require.NoError(t, st.Insert(s, k))
	}
	require.NoError(t, st.Insert(s, MakePair(Str("a"), U32(1))))

	assert.True(t, must(st.Has(s, MakePair(Str("a"), U32(2)))))
	assert.False(t, must(st.Has(s, MakePair(Str("c"), U32(2)))))
	deepEqual(t, must(s.Read(st.NoPrefix().Namespace())), []byte(nil))
	v := must(s.Read(concat(st.NoPrefix().Namespace(), JoinedKey(MakePair(Str("b"), U32(1))))))
	assert.NotNil(t, v)
	assert.Len(t, v, 0)

	keys, err := CollectKeys(st.Range(s, nil, nil, Descending))
	require.NoError(t, err)
	assert.Equal(t, []Pair[Str, U32]{
		MakePair(Str("b"), U32(1)),
		MakePair(Str("a"), U32(2)),
		MakePair(Str("a"), U32(1)),
	}, keys)

	keys, err = CollectKeys(st.PrefixRange(s, ExclusivePrefix(Str("a")), nil, Ascending))
	require.NoError(t, err)
	assert.Equal(t, []Pair[Str, U32]{MakePair(Str("b"), U32(1))}, keys)

	require.NoError(t, st.Remove(s, MakePair(Str("a"), U32(2))))
	require.NoError(t, st.PrefixClear(s, InclusivePrefix(Str("b")), nil))
	assert.Equal(t, 1, must(Count(st.RangeRaw(s, nil, nil, Ascending))))

	require.NoError(t, st.UnsafeInsertRaw(s, x("0001 7a 00000001")))
	assert.True(t, must(st.HasRaw(s, x("0001 7a 00000001"))))
	require.NoError(t, st.Clear(s, nil, nil))
	assert.True(t, must(st.IsEmpty(s)))
}

func TestMap_LoadRawIsCopy(t *testing.T) {
	eachEngine(t, func(t *testing.T, db *DB) {
		m := NewMapCodec[Str, []byte]("greetings", Raw{})
		require.NoError(t, db.Write(func(s Storage) error {
			return m.Save(s, "en", []byte("hello"))
		}))

		var leaked []byte
		require.NoError(t, db.Read(func(s Storage) error {
			raw, err := m.LoadRaw(s, JoinedKey(Str("en")))
			require.NoError(t, err)
			raw[0] = 'J'
			leaked = raw

			v, err := m.Load(s, "en")
			require.NoError(t, err)
			assert.Equal(t, []byte("hello"), v)
			return nil
		}))
		assert.Equal(t, []byte("Jello"), leaked)

		require.NoError(t, db.Read(func(s Storage) error {
			raw, err := m.Path("en").MayLoadRaw(s)
			require.NoError(t, err)
			assert.Equal(t, []byte("hello"), raw)
			return nil
		}))
	})
}
