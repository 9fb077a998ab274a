package tbd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbdkv/tbd/pkg/tbd"
)

func Test_GatherStats_Reflects_Store_State(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 8)

	require.NoError(t, s.Create([]byte("a"), []byte("1")))
	require.NoError(t, s.Create([]byte("b"), []byte("2")))
	require.NoError(t, s.Delete([]byte("b")))

	stats := tbd.GatherStats(s)

	assert.Equal(t, 4096, stats.TotalSize)
	assert.Equal(t, tbd.HeaderSize(), stats.HeaderSize)
	assert.Equal(t, uint32(8), stats.HunkGranule)
	assert.Equal(t, 2, stats.SlotCount)
	assert.Equal(t, 1, stats.GarbageCount)
	assert.Equal(t, s.SizeUsed(), stats.SizeUsed)
}
