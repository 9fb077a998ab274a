package tbd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbdkv/tbd/pkg/tbd"
)

func Test_Copy_Duplicates_Live_Entries_Into_Destination(t *testing.T) {
	t.Parallel()

	src := newStore(t, 4096, 1)

	require.NoError(t, src.Create([]byte("a"), []byte("1")))
	require.NoError(t, src.Create([]byte("b"), []byte("2")))
	require.NoError(t, src.Create([]byte("stale"), []byte("x")))
	require.NoError(t, src.Delete([]byte("stale")))

	dst := newStore(t, 4096, 1)

	require.NoError(t, tbd.Copy(dst, src))

	assert.Equal(t, src.Count(), dst.Count())

	out := make([]byte, 1)
	require.NoError(t, dst.Read([]byte("a"), out))
	assert.Equal(t, []byte("1"), out)
	require.NoError(t, dst.Read([]byte("b"), out))
	assert.Equal(t, []byte("2"), out)

	assert.Equal(t, 0, dst.ReadSize([]byte("stale")))
}

func Test_Copy_Returns_OutOfSpace_When_Destination_Too_Small(t *testing.T) {
	t.Parallel()

	src := newStore(t, 4096, 1)
	require.NoError(t, src.Create([]byte("a"), []byte("1234567890")))

	dst := newStore(t, tbd.HeaderSize(), 1)

	err := tbd.Copy(dst, src)
	require.ErrorIs(t, err, tbd.ErrOutOfSpace)
}
