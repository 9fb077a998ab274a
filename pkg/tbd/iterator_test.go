package tbd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Iterator_Visits_All_Live_Entries(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	want := map[string]string{"a": "1", "b": "2", "c": "3"}
	for k, v := range want {
		require.NoError(t, s.Create([]byte(k), []byte(v)))
	}
	require.NoError(t, s.Delete([]byte("b")))
	delete(want, "b")

	got := map[string]string{}
	for it := s.Begin(); !it.Equal(s.End()); it = it.Next() {
		got[string(it.Key())] = string(it.Value())
	}

	assert.Equal(t, want, got)
}

func Test_Iterator_Begin_Equals_End_When_Store_Empty(t *testing.T) {
	t.Parallel()

	s := newStore(t, 1024, 1)

	assert.True(t, s.Begin().Equal(s.End()))
}

// P8: an iterator's value_size equals read_size(key_of(iter)) for all
// positions.
func Test_Iterator_ValueSize_Matches_ReadSize(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	require.NoError(t, s.Create([]byte("short"), []byte("1")))
	require.NoError(t, s.Create([]byte("long"), []byte("1234567")))

	for it := s.Begin(); !it.Equal(s.End()); it = it.Next() {
		assert.Equal(t, s.ReadSize(it.Key()), it.ValueSize())
	}
}
