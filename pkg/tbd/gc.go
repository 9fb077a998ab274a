package tbd

// GarbageSize returns the total number of heap bytes currently held by
// tombstoned slots.
func (s *Store) GarbageSize() uint64 {
	var total uint64

	for cur := s.tombstoneHead(); cur != noSlot; cur = s.slotTombstoneNext(cur) {
		total += uint64(s.slotHunkSize(cur))
	}

	return total
}

// GarbageCount returns the number of tombstoned slots.
func (s *Store) GarbageCount() int {
	return int(s.tombstoneCount())
}

// invalidateLastFound clears the last-found cache if it currently points
// at idx, since idx's role (live/garbage, or its hunk contents) just
// changed out from under it.
func (s *Store) invalidateLastFound(idx uint32) {
	if s.lastFound() == idx {
		s.setLastFound(noSlot)
	}
}

// GarbagePop reclaims tombstones at the top of the stack whose hunks sit
// at the current top of the heap, stopping at the first live slot or once
// budget bytes have been reclaimed ("Pop"). It is the cheapest
// GC stage: no hunk is moved, so no external pointer or iterator other
// than the freed slots themselves is invalidated.
func (s *Store) GarbagePop(budget uint64) uint64 {
	if budget == 0 {
		return 0
	}

	var total uint64

	for {
		count := s.slotCount()
		if count == 0 {
			break
		}

		top := count - 1
		if !s.slotIsGarbage(top) {
			break
		}

		if s.slotHunkBase(top) != s.heapTop() {
			break
		}

		size := uint64(s.slotHunkSize(top))
		if total+size > budget {
			break
		}

		s.tombstoneRemove(top)
		s.heapPop(size)
		s.invalidateLastFound(top)
		s.popTopSlot()

		total += size
	}

	return total
}

// GarbageFold migrates live slots into same-size tombstones, freeing up
// the (otherwise scattered) tombstones at the top of the stack for a
// later GarbagePop to reclaim ("Fold"). It scans live slots
// newest-to-oldest; for each, it looks for a tombstone of exactly the
// same hunk size lower in the stack and, if moving it fits in the
// remaining budget, copies the live slot's bytes into the tombstone's
// hunk and swaps their roles.
//
// Fold moves hunk contents, so it invalidates every previously returned
// iterator and any pointer the caller holds into the buffer.
func (s *Store) GarbageFold(budget uint64) uint64 {
	if budget == 0 {
		return 0
	}

	if s.GarbageSize() == 0 {
		return 0
	}

	var total uint64

	count := s.slotCount()
	for i := count; i > 0; i-- {
		live := i - 1

		if s.slotIsGarbage(live) {
			continue
		}

		hunkSize := s.slotHunkSize(live)

		tomb, ok := s.findTombstoneByHunkSize(hunkSize)
		if !ok || tomb > live {
			continue
		}

		cost := uint64(hunkSize)
		if total+cost > budget {
			continue
		}

		valueSize := s.slotValueSize(live)

		copy(s.hunkBytes(tomb), s.hunkBytes(live))
		s.setSlotValueSize(tomb, valueSize)

		// The tombstone at tomb's list position is replaced by live,
		// which is now the newly-dead slot: fix the tombstone-list links
		// so the newly-dead slot takes the newly-live slot's place.
		prev := s.slotTombstonePrev(tomb)
		next := s.slotTombstoneNext(tomb)

		s.setSlotTombstonePrev(live, prev)
		s.setSlotTombstoneNext(live, next)

		if prev != noSlot {
			s.setSlotTombstoneNext(prev, live)
		} else {
			s.setTombstoneHead(live)
		}

		if next != noSlot {
			s.setSlotTombstonePrev(next, live)
		} else {
			s.setTombstoneTail(live)
		}

		s.setSlotGarbage(tomb, false)
		s.setSlotGarbage(live, true)

		s.invalidateLastFound(live)
		s.invalidateLastFound(tomb)

		total += cost
	}

	return total
}

// GarbagePack coalesces heap-adjacent slot-stack pairs where the
// stack-lower slot is a tombstone and the stack-higher slot is live
// ("Pack"). The heap is a downward bump allocator, so for a pair reached
// by plain sequential allocation the live slot (allocated later, higher
// stack index) sits at the lower address and the tombstone (allocated
// earlier, lower stack index) sits at the higher one. The live hunk is
// relocated to the high-address end of the combined range (sized to its
// actual requirement) and moves to the lower slot; the remainder at the
// low-address end becomes the new, larger tombstone in the upper slot.
//
// A pair is skipped, never acted on, unless the tombstone's hunk and the
// live hunk are physically adjacent in the heap (the live hunk ends
// exactly where the tombstone's hunk begins). The source-and-destination
// overlap case is left open by allowing either forbidding the move or
// copying through a scratch buffer; this implementation does both:
// adjacency is required before a pair is touched at all (a non-adjacent
// pair's "combined range" would alias bytes owned by some other slot),
// and the live hunk's bytes are read into a small scratch buffer before
// anything is written, so a transient overlap between the old and new
// location of the live hunk during the copy itself is always safe.
//
// Pack moves hunk contents, so it invalidates every previously returned
// iterator and any pointer the caller holds into the buffer.
func (s *Store) GarbagePack(budget uint64) uint64 {
	if budget == 0 {
		return 0
	}

	count := s.slotCount()
	if count < 2 {
		return 0
	}

	granule := s.hunkGranule()
	var total uint64

	for i := uint32(0); i+1 < count; i++ {
		tomb, live := i, i+1

		if !s.slotIsGarbage(tomb) || s.slotIsGarbage(live) {
			continue
		}

		tBase, tSize := s.slotHunkBase(tomb), s.slotHunkSize(tomb)
		lBase, lSize := s.slotHunkBase(live), s.slotHunkSize(live)

		if lBase+uint64(lSize) != tBase {
			continue
		}

		valueSize := s.slotValueSize(live)
		keyLen := uint32(len(s.keyBytes(live)))
		actual := requiredHunkSize(keyLen+1+valueSize, granule)

		cost := uint64(actual)
		if total+cost > budget {
			continue
		}

		scratch := append([]byte(nil), s.hunkBytes(live)[:actual]...)

		reclaimed := lSize - actual
		newTombSize := tSize + reclaimed
		newLiveBase := lBase + uint64(newTombSize)

		copy(s.buf[newLiveBase:newLiveBase+uint64(actual)], scratch)
		s.setSlotHunkBase(tomb, newLiveBase)
		s.setSlotHunkSize(tomb, actual)
		s.setSlotValueSize(tomb, valueSize)

		s.setSlotHunkBase(live, lBase)
		s.setSlotHunkSize(live, newTombSize)

		s.tombstoneRemove(tomb)
		s.setSlotGarbage(tomb, false)
		s.setSlotGarbage(live, true)
		s.tombstoneInsert(live)

		s.invalidateLastFound(tomb)
		s.invalidateLastFound(live)

		total += cost
	}

	return total
}

// GarbageMerge combines every heap-adjacent pair of tombstoned slot-stack
// neighbors into one larger tombstone and one minimal (one-granule)
// tombstone, returning the total bytes reorganized. It never changes
// slot_count or garbage_size: invariant I4 requires a positive hunk_size
// for every slot, tombstones included, so one slot of each merged pair
// keeps the smallest legal hunk rather than vanishing. Concentrating
// tombstone space this way is most useful right before GarbagePack, of
// which Merge is an auxiliary routine.
func (s *Store) GarbageMerge() uint64 {
	count := s.slotCount()
	if count < 2 {
		return 0
	}

	granule := uint64(s.hunkGranule())
	var total uint64

	for i := uint32(0); i+1 < count; i++ {
		a, b := i, i+1

		if !s.slotIsGarbage(a) || !s.slotIsGarbage(b) {
			continue
		}

		aBase, aSize := s.slotHunkBase(a), uint64(s.slotHunkSize(a))
		bBase, bSize := s.slotHunkBase(b), uint64(s.slotHunkSize(b))

		var lowIdx, highIdx uint32

		var lowBase, combined uint64

		switch {
		case aBase+aSize == bBase:
			lowIdx, highIdx = a, b
			lowBase = aBase
			combined = aSize + bSize
		case bBase+bSize == aBase:
			lowIdx, highIdx = b, a
			lowBase = bBase
			combined = aSize + bSize
		default:
			continue
		}

		if combined < 2*granule {
			continue
		}

		big := combined - granule

		s.setSlotHunkBase(lowIdx, lowBase)
		s.setSlotHunkSize(lowIdx, uint32(big))
		s.setSlotHunkBase(highIdx, lowBase+big)
		s.setSlotHunkSize(highIdx, uint32(granule))

		total += combined
	}

	return total
}

// GarbageCollect runs GarbagePop, then GarbageFold, then GarbagePack in
// order, each with whatever budget remains after the previous stage,
// stopping early once budget is exhausted. It returns the total bytes
// reclaimed or moved across all three stages.
func (s *Store) GarbageCollect(budget uint64) uint64 {
	if budget == 0 {
		return 0
	}

	if s.GarbageSize() == 0 {
		return 0
	}

	var total uint64

	popped := s.GarbagePop(budget)
	total += popped

	if popped >= budget {
		return total
	}

	budget -= popped

	folded := s.GarbageFold(budget)
	total += folded

	if folded >= budget {
		return total
	}

	budget -= folded

	total += s.GarbagePack(budget)

	return total
}

// GarbageClean collects all garbage: after it returns, GarbageSize is 0.
// It repeats GarbageCollect with no budget limit until no garbage is
// left or a round makes no progress.
func (s *Store) GarbageClean() uint64 {
	var total uint64

	for s.GarbageSize() > 0 {
		n := s.GarbageCollect(^uint64(0))
		if n == 0 {
			break
		}

		total += n
	}

	return total
}
