package tbd

// Iterator is a read-only forward cursor over a Store's live slots. The
// zero value is not meaningful; obtain one from [Store.Begin] or
// [Store.End].
//
// Any mutating call on the underlying store — Create, Delete, Update,
// any GarbageCollect stage, or either Sort — invalidates every Iterator
// previously obtained from that store. Using one afterward yields
// unspecified results; the contract makes no stability promise across
// mutation.
type Iterator struct {
	s   *Store
	idx uint32
}

// Begin returns an iterator positioned at the newest live slot, or End
// if the store holds no live entries.
func (s *Store) Begin() Iterator {
	count := s.slotCount()

	for i := count; i > 0; i-- {
		idx := i - 1
		if !s.slotIsGarbage(idx) {
			return Iterator{s: s, idx: idx}
		}
	}

	return s.End()
}

// End returns the sentinel iterator one past the oldest live slot.
func (s *Store) End() Iterator {
	return Iterator{s: s, idx: noSlot}
}

// Equal reports whether it and other refer to the same position of the
// same store.
func (it Iterator) Equal(other Iterator) bool {
	return it.s == other.s && it.idx == other.idx
}

// Next returns an iterator advanced toward the oldest live slot,
// skipping tombstones, or End if it was already at or past the last
// live slot.
func (it Iterator) Next() Iterator {
	if it.idx == noSlot {
		return it
	}

	s := it.s

	for i := it.idx; i > 0; i-- {
		idx := i - 1
		if !s.slotIsGarbage(idx) {
			return Iterator{s: s, idx: idx}
		}
	}

	return s.End()
}

// Key returns the current position's key. It panics if called on End.
func (it Iterator) Key() []byte {
	return it.s.keyBytes(it.idx)
}

// Value returns the current position's value. It panics if called on
// End.
func (it Iterator) Value() []byte {
	return it.s.valueBytes(it.idx)
}

// ValueSize returns the byte length of the current position's value. It
// panics if called on End.
func (it Iterator) ValueSize() int {
	return int(it.s.slotValueSize(it.idx))
}
