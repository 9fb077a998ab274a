package tbd

// heapPush lowers heap_top by n bytes and raises heap_size by n,
// returning the new heap_top (the base of the freshly reserved hunk). It
// reports ok=false without mutating anything if the push would make
// heap_top collide with the end of the slot stack.
func (s *Store) heapPush(n uint64) (base uint64, ok bool) {
	top := s.heapTop()

	if n > top {
		return 0, false
	}

	newTop := top - n

	slotsEnd := uint64(headerSize) + uint64(s.slotCount())*uint64(slotRecordSize)
	if newTop < slotsEnd {
		return 0, false
	}

	s.setHeapTop(newTop)
	s.setHeapSize(s.heapSize() + n)

	return newTop, true
}

// heapPop reverses a heapPush of n bytes: raises heap_top by n and lowers
// heap_size by n.
func (s *Store) heapPop(n uint64) {
	s.setHeapTop(s.heapTop() + n)
	s.setHeapSize(s.heapSize() - n)
}
