package tbd

// Hardcoded implementation limits.
//
// These exist to keep slot-index and offset arithmetic safely inside
// uint32 range and to bound the sentinel values used for "no slot" and
// "no tombstone" links. All limit violations are reported as BadConfig or
// BadArgument.
const (
	// MaxKeyLength is the largest key length accepted by Create, including
	// the null terminator.
	MaxKeyLength = 64

	// maxBufferSize bounds the buffer Init/Attach will accept. Slot
	// offsets and hunk bases are stored as uint64 byte offsets, but the
	// slot count and tombstone links are stored as uint32 indices, so the
	// buffer is bounded well under what that would allow in order to
	// leave headroom for the sentinel value noSlot.
	maxBufferSize = 1 << 32

	// maxHunkGranule bounds hunk_granule so that
	// round-up-to-multiple-of-granule arithmetic in the allocator cannot
	// overflow a uint64 for any value_size/key_size this package accepts.
	maxHunkGranule = 1 << 20

	// noSlot is the sentinel slot index meaning "no slot": used for
	// last_found, tombstone head/tail, and a slot's own tombstone
	// prev/next links when it is not part of the tombstone list.
	noSlot = ^uint32(0)
)
