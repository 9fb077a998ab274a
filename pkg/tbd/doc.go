// Package tbd implements an embeddable key-value datastore that lives
// entirely inside a single caller-supplied byte slice.
//
// There is no file I/O and no operating system service used anywhere in
// the package, and all store state (header, slots, keys, values) lives in
// the buffer the caller handed to [Init]. A few operations (sorting, the
// text serializers, GarbagePack) use short-lived Go slices as scratch
// space; none of them keeps store data outside the buffer. This makes the store
// suitable for memory-constrained or bare-metal embedders that can offer a
// fixed-size []byte (a static array, an mmap'd region managed elsewhere, a
// slab cut from a larger arena) but cannot offer a heap.
//
// # Layout
//
// The buffer is split into three disjoint regions: a fixed-size header at
// the front, a slot stack that grows upward immediately after the header,
// and a heap that grows downward from the end of the buffer. Every live or
// tombstoned key-value pair owns exactly one slot and exactly one heap
// hunk; the two are never split or shared.
//
//	+--------------------------+
//	| header                   |  <- Init writes this
//	+--------------------------+
//	| slot 0 (oldest)          |
//	| slot 1                   |
//	| ...                      |
//	| slot N-1 (newest)        |  <- slot stack grows this way
//	+--------------------------+
//	|   ... free space ...     |
//	+--------------------------+
//	| hunk N-1                 |  <- heap grows this way
//	| ...                      |
//	| hunk 1                   |
//	| hunk 0                   |
//	+--------------------------+
//
// # Concurrency
//
// A [Store] is not safe for concurrent use. The package assumes a
// single-threaded, cooperative caller; if a store is shared across
// goroutines or OS threads over time, the caller must serialize access
// externally.
//
// # Garbage collection
//
// Deletes mark a slot as a tombstone without reclaiming its hunk. Space is
// only reclaimed when the caller explicitly invokes one of the garbage
// collection primitives ([Store.GarbagePop], [Store.GarbageFold],
// [Store.GarbagePack], [Store.GarbageCollect], [Store.GarbageClean]).
// [Store.GarbageFold] and [Store.GarbagePack] move hunks and therefore
// invalidate any previously returned iterator or pointer into the buffer.
package tbd
