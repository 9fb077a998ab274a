package tbd

// find returns the index of the unique live slot whose key matches key,
// and ok=true, or ok=false if no live slot has that key.
//
// The last-found cache is consulted first: if it still points at a live
// slot whose key matches, it is returned directly without a scan.
// Otherwise find scans from the top of the stack (the newest slot) down
// to the bottom, skipping tombstones, and caches the hit.
func (s *Store) find(key []byte) (uint32, bool) {
	if lf := s.lastFound(); lf != noSlot && lf < s.slotCount() {
		if !s.slotIsGarbage(lf) && s.keyEquals(lf, key) {
			return lf, true
		}
	}

	count := s.slotCount()
	for i := count; i > 0; i-- {
		idx := i - 1

		if s.slotIsGarbage(idx) {
			continue
		}

		if s.keyEquals(idx, key) {
			s.setLastFound(idx)

			return idx, true
		}
	}

	return 0, false
}
