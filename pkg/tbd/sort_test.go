package tbd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S6, P7: ten entries with keys "j".."a"; after sort_by_key, the
// iterator yields "a".."j" in ascending order and all values still
// match.
func Test_SortByKey_Orders_Iteration_By_Ascending_Key(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	keys := []string{"j", "i", "h", "g", "f", "e", "d", "c", "b", "a"}
	for _, k := range keys {
		require.NoError(t, s.Create([]byte(k), []byte("v-"+k)))
	}

	s.SortByKey()

	var got []string
	for it := s.Begin(); !it.Equal(s.End()); it = it.Next() {
		got = append(got, string(it.Key()))
		assert.Equal(t, "v-"+string(it.Key()), string(it.Value()))
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, got)
}

func Test_SortByHeap_Preserves_Live_Entries(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	require.NoError(t, s.Create([]byte("a"), []byte("1")))
	require.NoError(t, s.Create([]byte("b"), []byte("2")))
	require.NoError(t, s.Create([]byte("c"), []byte("3")))
	require.NoError(t, s.Delete([]byte("b")))

	s.SortByHeap()

	out := make([]byte, 1)
	require.NoError(t, s.Read([]byte("a"), out))
	assert.Equal(t, []byte("1"), out)
	require.NoError(t, s.Read([]byte("c"), out))
	assert.Equal(t, []byte("3"), out)

	err := s.Read([]byte("b"), out)
	assert.Error(t, err)
}
