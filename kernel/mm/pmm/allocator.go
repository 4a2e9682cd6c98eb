// Package pmm contains code that manages physical memory frame allocations.
package pmm

import (
	"fmt"

	"rvos/kernel"
	"rvos/kernel/mm"
)

// stackFrameAllocator hands out frames from a contiguous physical range. It
// combines a bump pointer over the never-yet-issued part of the range with a
// LIFO pool of recycled frames, which keeps both allocation and deallocation
// O(1) with no fragmentation bookkeeping: frames are fixed-size so there is
// nothing to coalesce.
//
// The set of outstanding frames is always {[initial current, current)} minus
// the recycled pool. Returning a frame that is outside that set indicates
// corrupted bookkeeping somewhere in the kernel and is handled by panicking
// rather than by an error value.
type stackFrameAllocator struct {
	// current is the next never-yet-issued frame in the managed range and
	// end is the exclusive upper bound of the range.
	current mm.Frame
	end     mm.Frame

	// recycled holds previously issued frames that have been returned to
	// the allocator. It is used as a stack: the most-recently-freed frame
	// is reused first, which favors cache-hot frames and surfaces
	// use-after-free bugs sooner.
	recycled []mm.Frame
}

// init sets the managed range to the frames in [low, high) and discards any
// recycled state from a previous range.
func (alloc *stackFrameAllocator) init(low, high mm.Frame) {
	alloc.current = low
	alloc.end = high
	alloc.recycled = nil
}

// alloc reserves the next available frame. It prefers the most recently
// recycled frame and falls back to bumping the range pointer. When the range
// is exhausted it returns ErrOutOfMemory; the caller decides whether that
// terminates the requesting operation.
func (alloc *stackFrameAllocator) alloc() (mm.Frame, *kernel.Error) {
	if poolLen := len(alloc.recycled); poolLen != 0 {
		frame := alloc.recycled[poolLen-1]
		alloc.recycled = alloc.recycled[:poolLen-1]
		return frame, nil
	}

	if alloc.current == alloc.end {
		return mm.InvalidFrame, ErrOutOfMemory
	}

	alloc.current++
	return alloc.current - 1, nil
}

// dealloc returns a frame to the recycled pool. Deallocating a frame that
// was never issued or that is already sitting in the pool is a double-free
// style defect in the caller's bookkeeping; continuing would alias physical
// memory between unrelated owners, so dealloc panics instead.
func (alloc *stackFrameAllocator) dealloc(frame mm.Frame) {
	if frame >= alloc.current {
		panic(fmt.Sprintf("pmm: dealloc of never-allocated frame %#x", uint64(frame)))
	}

	for _, recycledFrame := range alloc.recycled {
		if recycledFrame == frame {
			panic(fmt.Sprintf("pmm: double free of frame %#x", uint64(frame)))
		}
	}

	alloc.recycled = append(alloc.recycled, frame)
}

// remaining returns the number of frames that can still be handed out before
// the managed range is exhausted.
func (alloc *stackFrameAllocator) remaining() uint64 {
	return uint64(alloc.end-alloc.current) + uint64(len(alloc.recycled))
}
