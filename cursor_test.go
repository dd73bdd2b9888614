package kvmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_EarlyClose(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[U8, string]("c")
	for i := U8(0); i < 5; i++ {
		require.NoError(t, m.Save(s, i, "v"))
	}

	c := m.Range(s, nil, nil, Ascending)
	require.True(t, c.Next())
	assert.Equal(t, Entry[U8, string]{0, "v"}, c.Entry())
	require.NoError(t, c.Close())
	assert.False(t, c.Next())
	assert.NoError(t, c.Err())
	assert.Equal(t, U8(0), c.Key())

	// the closed cursor no longer blocks writes
	require.NoError(t, m.Save(s, 9, "w"))
	assert.Equal(t, 6, must(Count(m.Keys(s, nil, nil, Ascending))))
}

func TestCursor_ErrIterator(t *testing.T) {
	boom := errors.New("boom")
	c := newCursor(errIterator{boom}, func(k, v []byte) ([]byte, []byte, error) {
		t.Fatalf("decode called on an empty iterator")
		return nil, nil, nil
	})
	_, err := Collect(c)
	assert.ErrorIs(t, err, boom)
	_, err = Count(newCursor[int, int](errIterator{boom}, nil))
	assert.ErrorIs(t, err, boom)
}

func TestCursor_MutationDuringDecodedScan(t *testing.T) {
	s := NewMemStorage()
	m := NewMap[U8, string]("c")
	require.NoError(t, m.Save(s, 1, "a"))
	require.NoError(t, m.Save(s, 2, "b"))

	c := m.Range(s, nil, nil, Ascending)
	defer c.Close()
	require.True(t, c.Next())
	require.NoError(t, m.Remove(s, 2))
	assert.False(t, c.Next())
	assert.ErrorIs(t, c.Err(), ErrMutatedDuringScan)
}

func TestCursor_OutlivesTransaction(t *testing.T) {
	eachEngine(t, func(t *testing.T, db *DB) {
		m := NewMap[U8, string]("c")
		require.NoError(t, db.Write(func(s Storage) error {
			for i := U8(0); i < 3; i++ {
				if err := m.Save(s, i, "v"); err != nil {
					return err
				}
			}
			return nil
		}))

		var started, fresh *Cursor[U8, string]
		require.NoError(t, db.Read(func(s Storage) error {
			started = m.Range(s, nil, nil, Ascending)
			require.True(t, started.Next())
			fresh = m.Range(s, nil, nil, Descending)
			return nil
		}))

		assert.False(t, started.Next())
		assert.ErrorIs(t, started.Err(), ErrTxClosed)
		_, err := Collect(fresh)
		assert.ErrorIs(t, err, ErrTxClosed)
	})
}
