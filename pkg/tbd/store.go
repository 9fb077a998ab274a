package tbd

import "encoding/binary"

// Store is a key-value datastore backed entirely by a caller-supplied
// byte slice. The zero value is not usable; obtain a Store via [Init] or
// [Attach].
type Store struct {
	buf []byte
}

// Init lays down a fresh store header at the front of buf and returns a
// Store backed by it. hunkGranule is the minimum size, in bytes, of any
// heap hunk; every hunk size is rounded up to a multiple of it.
//
// Init fails with ErrBadConfig if buf is nil, if buf is smaller than the
// fixed header, or if hunkGranule is zero or unreasonably large.
func Init(buf []byte, hunkGranule uint32) (*Store, error) {
	if buf == nil {
		return nil, ErrBadConfig
	}

	if len(buf) < headerSize {
		return nil, ErrBadConfig
	}

	if hunkGranule == 0 || hunkGranule > maxHunkGranule {
		return nil, ErrBadConfig
	}

	if uint64(len(buf)) > maxBufferSize {
		return nil, ErrBadConfig
	}

	s := &Store{buf: buf}

	copy(s.buf[offMagic:], magic)
	binary.LittleEndian.PutUint32(s.buf[offVersion:], formatVersion)
	binary.LittleEndian.PutUint32(s.buf[offHeaderSize:], headerSize)
	binary.LittleEndian.PutUint32(s.buf[offHunkGranule:], hunkGranule)
	binary.LittleEndian.PutUint32(s.buf[offSlotRecordSize:], slotRecordSize)
	binary.LittleEndian.PutUint32(s.buf[offMaxKeyLen:], MaxKeyLength)
	binary.LittleEndian.PutUint32(s.buf[offFlags:], 0)
	binary.LittleEndian.PutUint32(s.buf[offReserved0:], 0)
	binary.LittleEndian.PutUint64(s.buf[offTotalSize:], uint64(len(buf)))

	s.resetMutableState()

	return s, nil
}

// resetMutableState resets everything Clear/Empty touch: slot count, heap
// top/size, last-found cache, and the tombstone list. It does not touch
// the immutable configuration (hunk granule, total size) written by Init.
func (s *Store) resetMutableState() {
	s.setSlotCount(0)
	s.setHeapTop(uint64(len(s.buf)))
	s.setHeapSize(0)
	s.setLastFound(noSlot)
	s.setTombstoneHead(noSlot)
	s.setTombstoneTail(noSlot)
	s.setTombstoneCount(0)
	s.writeHeaderCRC()
}

// Attach re-opens a Store over a buffer that already holds a header
// written by Init (for example after the embedder reloaded the buffer
// from some external snapshot of its own bytes). It fails with
// ErrBadConfig if the magic, header size, or header checksum do not
// match, since that indicates a foreign or corrupted region rather than
// a tbd store.
func Attach(buf []byte) (*Store, error) {
	if buf == nil || len(buf) < headerSize {
		return nil, ErrBadConfig
	}

	s := &Store{buf: buf}

	if string(s.buf[offMagic:offMagic+4]) != magic {
		return nil, ErrBadConfig
	}

	if binary.LittleEndian.Uint32(s.buf[offHeaderSize:]) != headerSize {
		return nil, ErrBadConfig
	}

	if binary.LittleEndian.Uint32(s.buf[offSlotRecordSize:]) != slotRecordSize {
		return nil, ErrBadConfig
	}

	if !s.validHeaderCRC() {
		return nil, ErrBadConfig
	}

	if binary.LittleEndian.Uint64(s.buf[offTotalSize:]) != uint64(len(buf)) {
		return nil, ErrBadConfig
	}

	return s, nil
}

// Clear resets the store as if it had just been passed to Init: slot
// count, heap, and tombstone bookkeeping are all reset, but the hunk
// granule and total size configured at Init time are unchanged.
func (s *Store) Clear() {
	s.resetMutableState()
}

// Empty deletes all key-value pairs. Behaviorally equivalent to Clear.
func (s *Store) Empty() {
	s.resetMutableState()
}

// IsEmpty reports whether the store holds zero slots, live or tombstone.
func (s *Store) IsEmpty() bool {
	return s.slotCount() == 0
}

// Size returns the total size in bytes of the buffer backing the store.
func (s *Store) Size() int {
	return len(s.buf)
}

// HeadSize returns the number of bytes used by header information.
func (s *Store) HeadSize() int {
	return headerSize
}

// SizeUsed returns the number of bytes currently used by the store:
// header, slot stack, and heap combined.
func (s *Store) SizeUsed() int {
	return headerSize + int(s.slotCount())*slotRecordSize + int(s.heapSize())
}

// Count returns the number of live key-value pairs in the store.
func (s *Store) Count() int {
	n := 0

	for i := uint32(0); i < s.slotCount(); i++ {
		if !s.slotIsGarbage(i) {
			n++
		}
	}

	return n
}

// MaxKeyLength returns the maximum key length (including the null
// terminator) this store accepts.
func (s *Store) MaxKeyLength() int {
	return MaxKeyLength
}

// HunkGranule returns the hunk-size quantum configured at Init time.
func (s *Store) HunkGranule() uint32 {
	return s.hunkGranule()
}

// HeaderSize returns the fixed size, in bytes, of the store header that
// occupies every buffer's prefix, regardless of that buffer's size.
func HeaderSize() int {
	return headerSize
}
