package tbd

import "bytes"

// appendSlot grows the slot stack by one record and returns the index of
// the new (topmost) slot. It does not touch the heap; the caller is
// responsible for giving the new slot a hunk before returning it to a
// caller of the public API.
func (s *Store) appendSlot() uint32 {
	idx := s.slotCount()
	s.setSlotCount(idx + 1)

	return idx
}

// popTopSlot shrinks the slot stack by one record. Only the GC pop stage
// calls this, and only when the top slot is a tombstone whose hunk starts
// exactly at heap_top.
func (s *Store) popTopSlot() {
	s.setSlotCount(s.slotCount() - 1)
}

// hunkBytes returns the full hunk (value bytes followed by the
// null-terminated key) for slot idx.
func (s *Store) hunkBytes(idx uint32) []byte {
	base := s.slotHunkBase(idx)
	size := s.slotHunkSize(idx)

	return s.buf[base : base+uint64(size)]
}

// valueBytes returns the value view for slot idx.
func (s *Store) valueBytes(idx uint32) []byte {
	hunk := s.hunkBytes(idx)
	valueSize := s.slotValueSize(idx)

	return hunk[:valueSize]
}

// keyBytes returns the key view for slot idx, excluding the null
// terminator.
func (s *Store) keyBytes(idx uint32) []byte {
	hunk := s.hunkBytes(idx)
	valueSize := s.slotValueSize(idx)
	keyRegion := hunk[valueSize:]

	n := bytes.IndexByte(keyRegion, 0)
	if n < 0 {
		// Invariant I5 guarantees a terminator is present; this only
		// triggers on a corrupted buffer.
		return keyRegion
	}

	return keyRegion[:n]
}

// keyEquals reports whether slot idx's key matches key byte-exact.
func (s *Store) keyEquals(idx uint32, key []byte) bool {
	return bytes.Equal(s.keyBytes(idx), key)
}

// writeHunk copies value and the null-terminated key into slot idx's
// hunk, using the value-then-key layout.
func (s *Store) writeHunk(idx uint32, key, value []byte) {
	hunk := s.hunkBytes(idx)

	copy(hunk, value)
	keyRegion := hunk[len(value):]
	n := copy(keyRegion, key)
	keyRegion[n] = 0

	s.setSlotValueSize(idx, uint32(len(value)))
}

// --- tombstone list ---

// tombstoneInsert adds slot idx to the tombstone list. It does not touch
// the slot's garbage flag; callers set that separately.
func (s *Store) tombstoneInsert(idx uint32) {
	head := s.tombstoneHead()

	s.setSlotTombstonePrev(idx, noSlot)
	s.setSlotTombstoneNext(idx, head)

	if head != noSlot {
		s.setSlotTombstonePrev(head, idx)
	} else {
		s.setTombstoneTail(idx)
	}

	s.setTombstoneHead(idx)
	s.setTombstoneCount(s.tombstoneCount() + 1)
}

// tombstoneRemove unlinks slot idx from the tombstone list.
func (s *Store) tombstoneRemove(idx uint32) {
	prev := s.slotTombstonePrev(idx)
	next := s.slotTombstoneNext(idx)

	if prev != noSlot {
		s.setSlotTombstoneNext(prev, next)
	} else {
		s.setTombstoneHead(next)
	}

	if next != noSlot {
		s.setSlotTombstonePrev(next, prev)
	} else {
		s.setTombstoneTail(prev)
	}

	s.setSlotTombstonePrev(idx, noSlot)
	s.setSlotTombstoneNext(idx, noSlot)
	s.setTombstoneCount(s.tombstoneCount() - 1)
}

// findTombstoneByHunkSize returns the bottom-most (lowest slot index)
// tombstone slot whose hunk size exactly equals size, and ok=true, or
// ok=false if none exists. Preferring the bottom-most candidate bounds
// worst-case fragmentation growth.
func (s *Store) findTombstoneByHunkSize(size uint32) (idx uint32, ok bool) {
	best := noSlot

	for cur := s.tombstoneHead(); cur != noSlot; cur = s.slotTombstoneNext(cur) {
		if s.slotHunkSize(cur) != size {
			continue
		}

		if best == noSlot || cur < best {
			best = cur
		}
	}

	if best == noSlot {
		return 0, false
	}

	return best, true
}
