package tbd

// Create inserts a new key-value pair.
//
// It returns ErrBadArgument if key is empty, longer than MaxKeyLength-1
// bytes, or contains an interior null byte, or if value is empty.
// It returns ErrKeyExists if key is already live. It returns
// ErrOutOfSpace if the allocator cannot satisfy the request; store state
// is left unchanged in that case.
func (s *Store) Create(key, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if len(value) == 0 {
		return ErrBadArgument
	}

	if _, ok := s.find(key); ok {
		return ErrKeyExists
	}

	if _, err := s.allocate(key, value); err != nil {
		return err
	}

	return nil
}

// Read copies the stored value for key into out. len(out) must equal the
// stored value length exactly; otherwise ErrBadSize is returned. It
// returns ErrKeyNotFound if key is absent.
func (s *Store) Read(key, out []byte) error {
	idx, ok := s.find(key)
	if !ok {
		return ErrKeyNotFound
	}

	value := s.valueBytes(idx)
	if len(out) != len(value) {
		return ErrBadSize
	}

	copy(out, value)

	return nil
}

// ReadSize returns the stored value length for key, or 0 if key is
// absent.
func (s *Store) ReadSize(key []byte) int {
	idx, ok := s.find(key)
	if !ok {
		return 0
	}

	return int(s.slotValueSize(idx))
}

// Update overwrites the value stored for key in place. value must be
// exactly the same length as the value currently stored for key;
// otherwise ErrBadSize is returned: update is strictly equal-size, since
// resizing would require moving the hunk outside of a GC primitive. It
// returns ErrKeyNotFound if key is absent, and
// ErrBadArgument if value is empty.
func (s *Store) Update(key, value []byte) error {
	if len(value) == 0 {
		return ErrBadArgument
	}

	idx, ok := s.find(key)
	if !ok {
		return ErrKeyNotFound
	}

	if int(s.slotValueSize(idx)) != len(value) {
		return ErrBadSize
	}

	copy(s.hunkBytes(idx), value)

	return nil
}

// Delete marks the slot holding key as a tombstone without reclaiming its
// hunk. Deleting an absent key is a no-op and returns nil: the operation
// is idempotent.
func (s *Store) Delete(key []byte) error {
	idx, ok := s.find(key)
	if !ok {
		return nil
	}

	s.setSlotGarbage(idx, true)
	s.tombstoneInsert(idx)

	if s.lastFound() == idx {
		s.setLastFound(noSlot)
	}

	return nil
}
