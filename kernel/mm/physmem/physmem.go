// Package physmem implements the kernel's direct-mapped view of physical
// memory. The memory core never dereferences raw physical addresses;
// instead, it asks this package for an exclusive, bounds-checked byte view
// over exactly one frame's worth of storage. On real hardware this window
// would be the identity-mapped physical memory region; in the hosted kernel
// it is backed by process memory sized to the managed frame range.
package physmem

import (
	"fmt"

	"rvos/kernel/mm"
)

var (
	// window holds the backing storage for the direct-mapped frame range
	// [windowStart, windowEnd).
	window      []byte
	windowStart mm.Frame
	windowEnd   mm.Frame
)

// Init maps the physical frame range [low, high) into the direct-map window.
// It is called once by the boot sequence before any frame content is
// accessed; calling it again discards the previous window contents.
func Init(low, high mm.Frame) {
	if low >= high {
		panic(fmt.Sprintf("physmem: invalid frame range [%#x, %#x)", uint64(low), uint64(high)))
	}

	windowStart = low
	windowEnd = high
	window = make([]byte, uint64(high-low)<<mm.PageShift)
}

// FrameBytes returns the byte view over the single frame's worth of storage
// identified by the given frame number. The returned slice covers exactly
// mm.PageSize bytes and cannot be grown into a neighboring frame. Frames
// outside the direct-map window have no backing storage and requesting them
// panics.
func FrameBytes(frame mm.Frame) []byte {
	if frame < windowStart || frame >= windowEnd {
		panic(fmt.Sprintf("physmem: frame %#x outside direct-map window [%#x, %#x)", uint64(frame), uint64(windowStart), uint64(windowEnd)))
	}

	offset := uint64(frame-windowStart) << mm.PageShift
	return window[offset : offset+mm.PageSize : offset+mm.PageSize]
}

// FrameRange returns the frame range currently covered by the direct-map
// window.
func FrameRange() (low, high mm.Frame) {
	return windowStart, windowEnd
}
