package tbd

import "bytes"

// requiredHunkSize returns the smallest positive multiple of hunkGranule
// not less than need. need is always keyLenWithNul+valueLen,
// both of which are at least 1, so the result is never zero.
func requiredHunkSize(need, granule uint32) uint32 {
	if need == 0 {
		need = 1
	}

	rem := need % granule
	if rem == 0 {
		return need
	}

	return need + (granule - rem)
}

// validateKey checks a candidate key: non-empty, no interior null byte,
// and short enough (with its terminator) to fit MaxKeyLength.
func validateKey(key []byte) error {
	if len(key) == 0 {
		return ErrBadArgument
	}

	if len(key)+1 > MaxKeyLength {
		return ErrBadArgument
	}

	if bytes.IndexByte(key, 0) >= 0 {
		return ErrBadArgument
	}

	return nil
}

// allocate reserves a slot and hunk for key/value, reusing a
// same-size tombstone when one exists, otherwise growing the slot stack
// and heap. On success it has already written value and key into the new
// hunk and cleared the slot's garbage flag.
func (s *Store) allocate(key, value []byte) (uint32, error) {
	need := uint32(len(key)) + 1 + uint32(len(value))
	hunkSize := requiredHunkSize(need, s.hunkGranule())

	if idx, ok := s.findTombstoneByHunkSize(hunkSize); ok {
		s.tombstoneRemove(idx)
		s.setSlotGarbage(idx, false)
		s.writeHunk(idx, key, value)

		return idx, nil
	}

	base, ok := s.heapPush(uint64(hunkSize))
	if !ok {
		return 0, ErrOutOfSpace
	}

	slotsEnd := uint64(headerSize) + (uint64(s.slotCount())+1)*uint64(slotRecordSize)
	if base < slotsEnd {
		// Roll back the heap push; the new slot would collide with it.
		s.heapPop(uint64(hunkSize))

		return 0, ErrOutOfSpace
	}

	idx := s.appendSlot()
	s.setSlotHunkBase(idx, base)
	s.setSlotHunkSize(idx, hunkSize)
	s.setSlotGarbage(idx, false)
	s.setSlotTombstonePrev(idx, noSlot)
	s.setSlotTombstoneNext(idx, noSlot)
	s.writeHunk(idx, key, value)

	return idx, nil
}
