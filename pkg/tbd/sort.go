package tbd

import (
	"bytes"
	"sort"
)

// SortByKey reorders the slot stack into ascending key order. Only the
// fixed-size slot records move; hunk contents are untouched. It
// invalidates every outstanding [Iterator] and the last-found cache,
// since slot indices change meaning.
func (s *Store) SortByKey() {
	s.sortBy(func(a, b uint32) bool {
		return bytes.Compare(s.keyBytes(a), s.keyBytes(b)) < 0
	})
}

// SortByHeap reorders the slot stack into ascending heap-address order.
// See [Store.SortByKey] for what is and isn't invalidated.
func (s *Store) SortByHeap() {
	s.sortBy(func(a, b uint32) bool {
		return s.slotHunkBase(a) < s.slotHunkBase(b)
	})
}

// sortBy reorders slot records so that the slot rank 0 under less (the
// "smallest") lands at the highest slot index, and so on down to the
// highest-ranked slot at index 0. [Store.Begin] starts at the highest
// index and [Iterator.Next] walks downward toward 0 — the same
// top-of-stack-first convention find uses — so this ordering is what
// makes iteration after a sort visit slots in ascending less order.
// It then fixes up the tombstone list and last-found cache to reference
// the new slot indices.
func (s *Store) sortBy(less func(a, b uint32) bool) {
	count := s.slotCount()
	if count < 2 {
		return
	}

	order := make([]uint32, count)
	for i := range order {
		order[i] = uint32(i)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return less(order[i], order[j])
	})

	oldToNew := make([]uint32, count)
	for rank, oldIdx := range order {
		oldToNew[oldIdx] = count - 1 - uint32(rank)
	}

	remap := func(idx uint32) uint32 {
		if idx == noSlot {
			return noSlot
		}

		return oldToNew[idx]
	}

	records := make([][]byte, count)
	for oldIdx := uint32(0); oldIdx < count; oldIdx++ {
		records[oldIdx] = append([]byte(nil), s.slotBytes(oldIdx)...)
	}

	for rank, oldIdx := range order {
		newIdx := count - 1 - uint32(rank)
		copy(s.slotBytes(newIdx), records[oldIdx])
	}

	for idx := uint32(0); idx < count; idx++ {
		s.setSlotTombstonePrev(idx, remap(s.slotTombstonePrev(idx)))
		s.setSlotTombstoneNext(idx, remap(s.slotTombstoneNext(idx)))
	}

	s.setTombstoneHead(remap(s.tombstoneHead()))
	s.setTombstoneTail(remap(s.tombstoneTail()))
	s.setLastFound(noSlot)
}
