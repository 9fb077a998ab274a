package tbd

// Stats is a read-only snapshot of a store's header fields, deliberately
// scoped out of pretty-printing: statistics pretty-printing is an
// external collaborator's concern. cmd/tbdsrv's stats command formats
// this for display; the core only populates it.
type Stats struct {
	TotalSize      int
	HeaderSize     int
	SlotRecordSize int
	HunkGranule    uint32
	MaxKeyLength   int

	SlotCount int
	HeapTop   uint64
	HeapSize  uint64
	SizeUsed  int

	GarbageSize  uint64
	GarbageCount int

	TombstoneHead uint32
	TombstoneTail uint32
	LastFound     uint32
}

// GatherStats returns a snapshot of s's current header fields.
func GatherStats(s *Store) Stats {
	return Stats{
		TotalSize:      int(s.totalSize()),
		HeaderSize:     headerSize,
		SlotRecordSize: slotRecordSize,
		HunkGranule:    s.hunkGranule(),
		MaxKeyLength:   s.MaxKeyLength(),

		SlotCount: int(s.slotCount()),
		HeapTop:   s.heapTop(),
		HeapSize:  s.heapSize(),
		SizeUsed:  s.SizeUsed(),

		GarbageSize:  s.GarbageSize(),
		GarbageCount: s.GarbageCount(),

		TombstoneHead: s.tombstoneHead(),
		TombstoneTail: s.tombstoneTail(),
		LastFound:     s.lastFound(),
	}
}
