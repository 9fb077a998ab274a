package tbd

import (
	"encoding/binary"
	"hash/crc32"
)

// TBD1 buffer format constants.
const (
	magic         = "TBD1"
	formatVersion = 1

	// headerSize is the fixed size, in bytes, of the store header that
	// occupies the buffer prefix.
	headerSize = 128

	// slotRecordSize is the fixed size, in bytes, of one slot stack
	// record. Documented here (rather than left to sizeof) so capacity
	// boundary tests stay meaningful across changes.
	slotRecordSize = 32
)

// Header field offsets, bytes from the start of the buffer.
const (
	offMagic          = 0x00 // [4]byte
	offVersion        = 0x04 // uint32
	offHeaderSize     = 0x08 // uint32
	offHunkGranule    = 0x0C // uint32
	offSlotRecordSize = 0x10 // uint32
	offMaxKeyLen      = 0x14 // uint32
	offFlags          = 0x18 // uint32
	offReserved0      = 0x1C // uint32
	offTotalSize      = 0x20 // uint64
	offSlotCount      = 0x28 // uint64
	offHeapTop        = 0x30 // uint64
	offHeapSize       = 0x38 // uint64
	offLastFound      = 0x40 // uint32, slot index
	offTombstoneHead  = 0x44 // uint32, slot index
	offTombstoneTail  = 0x48 // uint32, slot index
	offTombstoneCount = 0x4C // uint32
	offHeaderCRC32    = 0x50 // uint32
	// offReservedStart..headerSize is reserved and kept zero.
	offReservedStart = 0x54
)

// Slot record field offsets, bytes from the start of the slot record.
const (
	slotOffHunkBase      = 0x00 // uint64
	slotOffHunkSize      = 0x08 // uint32
	slotOffValueSize     = 0x0C // uint32
	slotOffFlags         = 0x10 // uint8
	slotOffTombstonePrev = 0x14 // uint32
	slotOffTombstoneNext = 0x18 // uint32
	// 0x1C..0x20 reserved.
)

// Slot flag bits.
const (
	slotFlagGarbage uint8 = 1 << 0
)

func (s *Store) headerBytes() []byte {
	return s.buf[:headerSize]
}

func (s *Store) slotBytes(idx uint32) []byte {
	off := headerSize + int(idx)*slotRecordSize

	return s.buf[off : off+slotRecordSize]
}

// --- header accessors ---

func (s *Store) hunkGranule() uint32 {
	return binary.LittleEndian.Uint32(s.buf[offHunkGranule:])
}

func (s *Store) totalSize() uint64 {
	return binary.LittleEndian.Uint64(s.buf[offTotalSize:])
}

func (s *Store) slotCount() uint32 {
	return uint32(binary.LittleEndian.Uint64(s.buf[offSlotCount:]))
}

func (s *Store) setSlotCount(n uint32) {
	binary.LittleEndian.PutUint64(s.buf[offSlotCount:], uint64(n))
}

func (s *Store) heapTop() uint64 {
	return binary.LittleEndian.Uint64(s.buf[offHeapTop:])
}

func (s *Store) setHeapTop(v uint64) {
	binary.LittleEndian.PutUint64(s.buf[offHeapTop:], v)
}

func (s *Store) heapSize() uint64 {
	return binary.LittleEndian.Uint64(s.buf[offHeapSize:])
}

func (s *Store) setHeapSize(v uint64) {
	binary.LittleEndian.PutUint64(s.buf[offHeapSize:], v)
}

func (s *Store) lastFound() uint32 {
	return binary.LittleEndian.Uint32(s.buf[offLastFound:])
}

func (s *Store) setLastFound(idx uint32) {
	binary.LittleEndian.PutUint32(s.buf[offLastFound:], idx)
}

func (s *Store) tombstoneHead() uint32 {
	return binary.LittleEndian.Uint32(s.buf[offTombstoneHead:])
}

func (s *Store) setTombstoneHead(idx uint32) {
	binary.LittleEndian.PutUint32(s.buf[offTombstoneHead:], idx)
}

func (s *Store) tombstoneTail() uint32 {
	return binary.LittleEndian.Uint32(s.buf[offTombstoneTail:])
}

func (s *Store) setTombstoneTail(idx uint32) {
	binary.LittleEndian.PutUint32(s.buf[offTombstoneTail:], idx)
}

func (s *Store) tombstoneCount() uint32 {
	return binary.LittleEndian.Uint32(s.buf[offTombstoneCount:])
}

func (s *Store) setTombstoneCount(n uint32) {
	binary.LittleEndian.PutUint32(s.buf[offTombstoneCount:], n)
}

// computeHeaderCRC computes the CRC32C of the header's configuration
// fields (magic through total size), which Init writes once and no later
// operation changes. The mutable fields from slot count onward are not
// covered, so the stored checksum stays valid as the store is used.
func computeHeaderCRC(buf []byte) uint32 {
	return crc32.Checksum(buf[:offSlotCount], crc32.MakeTable(crc32.Castagnoli))
}

func (s *Store) writeHeaderCRC() {
	crc := computeHeaderCRC(s.buf)
	binary.LittleEndian.PutUint32(s.buf[offHeaderCRC32:], crc)
}

func (s *Store) validHeaderCRC() bool {
	stored := binary.LittleEndian.Uint32(s.buf[offHeaderCRC32:])

	return stored == computeHeaderCRC(s.buf)
}

// --- slot accessors ---

func (s *Store) slotHunkBase(idx uint32) uint64 {
	return binary.LittleEndian.Uint64(s.slotBytes(idx)[slotOffHunkBase:])
}

func (s *Store) setSlotHunkBase(idx uint32, v uint64) {
	binary.LittleEndian.PutUint64(s.slotBytes(idx)[slotOffHunkBase:], v)
}

func (s *Store) slotHunkSize(idx uint32) uint32 {
	return binary.LittleEndian.Uint32(s.slotBytes(idx)[slotOffHunkSize:])
}

func (s *Store) setSlotHunkSize(idx uint32, v uint32) {
	binary.LittleEndian.PutUint32(s.slotBytes(idx)[slotOffHunkSize:], v)
}

func (s *Store) slotValueSize(idx uint32) uint32 {
	return binary.LittleEndian.Uint32(s.slotBytes(idx)[slotOffValueSize:])
}

func (s *Store) setSlotValueSize(idx uint32, v uint32) {
	binary.LittleEndian.PutUint32(s.slotBytes(idx)[slotOffValueSize:], v)
}

func (s *Store) slotFlags(idx uint32) uint8 {
	return s.slotBytes(idx)[slotOffFlags]
}

func (s *Store) setSlotFlags(idx uint32, v uint8) {
	s.slotBytes(idx)[slotOffFlags] = v
}

func (s *Store) slotIsGarbage(idx uint32) bool {
	return s.slotFlags(idx)&slotFlagGarbage != 0
}

func (s *Store) setSlotGarbage(idx uint32, garbage bool) {
	f := s.slotFlags(idx)
	if garbage {
		f |= slotFlagGarbage
	} else {
		f &^= slotFlagGarbage
	}

	s.setSlotFlags(idx, f)
}

func (s *Store) slotTombstonePrev(idx uint32) uint32 {
	return binary.LittleEndian.Uint32(s.slotBytes(idx)[slotOffTombstonePrev:])
}

func (s *Store) setSlotTombstonePrev(idx uint32, v uint32) {
	binary.LittleEndian.PutUint32(s.slotBytes(idx)[slotOffTombstonePrev:], v)
}

func (s *Store) slotTombstoneNext(idx uint32) uint32 {
	return binary.LittleEndian.Uint32(s.slotBytes(idx)[slotOffTombstoneNext:])
}

func (s *Store) setSlotTombstoneNext(idx uint32, v uint32) {
	binary.LittleEndian.PutUint32(s.slotBytes(idx)[slotOffTombstoneNext:], v)
}
