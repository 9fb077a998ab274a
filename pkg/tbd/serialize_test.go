package tbd_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbdkv/tbd/pkg/tbd"
)

func Test_ToText_Renders_Raw_Key_Value_Lines(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	require.NoError(t, s.Create([]byte("a"), []byte("1")))

	buf := make([]byte, 64)
	n := s.ToText(buf, tbd.TextFormat{})

	assert.Equal(t, "a:1\n", string(buf[:n]))
}

func Test_ToText_Supports_Hex_Value_And_Quoted_Key(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	require.NoError(t, s.Create([]byte("a"), []byte{0xDE, 0xAD}))

	buf := make([]byte, 64)
	n := s.ToText(buf, tbd.TextFormat{Key: tbd.KeyQuoted, Value: tbd.ValueHex})

	assert.Equal(t, "\"a\":dead\n", string(buf[:n]))
}

func Test_ToText_Truncates_Silently_When_Buffer_Too_Small(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	require.NoError(t, s.Create([]byte("a"), []byte("1")))
	require.NoError(t, s.Create([]byte("b"), []byte("2")))

	buf := make([]byte, 2)
	n := s.ToText(buf, tbd.TextFormat{})

	assert.Equal(t, 2, n)
}

func Test_KeysToText_Lists_Only_Live_Keys(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	require.NoError(t, s.Create([]byte("a"), []byte("1")))
	require.NoError(t, s.Create([]byte("b"), []byte("2")))
	require.NoError(t, s.Delete([]byte("b")))

	buf := make([]byte, 64)
	n := s.KeysToText(buf, tbd.TextFormat{})

	assert.Equal(t, "a\n", string(buf[:n]))
}

func Test_GarbageListToText_Lists_Tombstone_Hunks(t *testing.T) {
	t.Parallel()

	s := newStore(t, 4096, 1)

	require.NoError(t, s.Create([]byte("a"), []byte("1")))
	require.NoError(t, s.Delete([]byte("a")))

	buf := make([]byte, 64)
	n := s.GarbageListToText(buf)

	assert.True(t, strings.Contains(string(buf[:n]), ":"))
	assert.Equal(t, 1, s.GarbageCount())
}
