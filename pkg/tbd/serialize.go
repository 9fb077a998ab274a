package tbd

import (
	"encoding/hex"
	"strconv"
)

// ValueEncoding selects how value bytes are rendered by the text
// serializer: either raw bytes or lower-case hex.
type ValueEncoding int

const (
	// ValueRaw emits value bytes unescaped.
	ValueRaw ValueEncoding = iota
	// ValueHex emits value bytes as lower-case hex via encoding/hex.
	ValueHex
)

// KeyEncoding selects how keys are rendered by the text serializer:
// either raw or double-quoted.
type KeyEncoding int

const (
	// KeyRaw emits the key unescaped.
	KeyRaw KeyEncoding = iota
	// KeyQuoted emits the key wrapped in double quotes via
	// strconv.Quote.
	KeyQuoted
)

// TextFormat configures the textual serializer. The zero value renders
// keys raw and values raw.
type TextFormat struct {
	Key   KeyEncoding
	Value ValueEncoding
}

// Output is not required to round-trip; these routines exist for
// dump/inspection, not for a wire format.

func (f TextFormat) encodeKey(key []byte) string {
	switch f.Key {
	case KeyQuoted:
		return strconv.Quote(string(key))
	default:
		return string(key)
	}
}

func (f TextFormat) encodeValue(value []byte) string {
	switch f.Value {
	case ValueHex:
		return hex.EncodeToString(value)
	default:
		return string(value)
	}
}

// truncate copies as much of s into buf as fits, silently dropping the
// rest, and returns the number of bytes written. Bytes written are
// bounded by the caller's buffer; truncation is silent.
func truncate(buf []byte, s string) int {
	return copy(buf, s)
}

// KeyValueToText renders a single "key:value" pair into buf under
// format, returning the number of bytes written.
func (s *Store) KeyValueToText(buf []byte, idx uint32, format TextFormat) int {
	line := format.encodeKey(s.keyBytes(idx)) + ":" + format.encodeValue(s.valueBytes(idx))

	return truncate(buf, line)
}

// KeysToText renders the full set of live keys, one per line, into buf
// under format, returning the number of bytes written.
func (s *Store) KeysToText(buf []byte, format TextFormat) int {
	out := make([]byte, 0, len(buf))

	for it := s.Begin(); !it.Equal(s.End()); it = it.Next() {
		out = append(out, format.encodeKey(it.Key())...)
		out = append(out, '\n')
	}

	return truncate(buf, string(out))
}

// GarbageListToText renders the tombstone list — one "base:size" pair
// per line, in tombstone-list order — into buf, returning the number of
// bytes written.
func (s *Store) GarbageListToText(buf []byte) int {
	out := make([]byte, 0, len(buf))

	for cur := s.tombstoneHead(); cur != noSlot; cur = s.slotTombstoneNext(cur) {
		out = append(out, strconv.FormatUint(s.slotHunkBase(cur), 10)...)
		out = append(out, ':')
		out = append(out, strconv.FormatUint(uint64(s.slotHunkSize(cur)), 10)...)
		out = append(out, '\n')
	}

	return truncate(buf, string(out))
}

// ToText renders every live key:value pair, one per line, into buf under
// format, returning the number of bytes written.
func (s *Store) ToText(buf []byte, format TextFormat) int {
	out := make([]byte, 0, len(buf))

	for it := s.Begin(); !it.Equal(s.End()); it = it.Next() {
		out = append(out, format.encodeKey(it.Key())...)
		out = append(out, ':')
		out = append(out, format.encodeValue(it.Value())...)
		out = append(out, '\n')
	}

	return truncate(buf, string(out))
}
