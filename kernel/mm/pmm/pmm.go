package pmm

import (
	"github.com/sirupsen/logrus"

	"rvos/kernel"
	"rvos/kernel/mm"
	"rvos/kernel/mm/physmem"
	"rvos/kernel/sync"
)

var (
	// frameAllocator is the kernel's physical frame allocator singleton.
	// All access goes through allocatorCell: the execution model is a
	// single hardware context, so the cell only needs to detect reentrant
	// use, never to block.
	frameAllocator stackFrameAllocator
	allocatorCell  sync.ExclusiveCell

	// ErrOutOfMemory is returned by AllocFrame when the managed physical
	// range is exhausted.
	ErrOutOfMemory = &kernel.Error{Module: "pmm", Message: "out of physical memory"}

	errInvalidRange = &kernel.Error{Module: "pmm", Message: "physical memory range does not contain a full frame"}
)

// Init sets up the physical memory subsystem over the byte range
// [memLow, memHigh), typically the region between the end of the kernel
// image and the end of physical memory. The range start is rounded up and
// the range end rounded down to frame boundaries so that partially covered
// frames are never handed out.
//
// Init must be called before any allocation. Calling it again resets the
// allocator and the direct-map window; re-initializing while allocations
// are live is a caller error.
func Init(memLow, memHigh uint64) *kernel.Error {
	low := mm.FrameFromAddressRoundUp(memLow)
	high := mm.FrameFromAddress(memHigh)
	if low >= high {
		return errInvalidRange
	}

	physmem.Init(low, high)

	allocatorCell.Acquire()
	defer allocatorCell.Release()
	frameAllocator.init(low, high)

	logrus.WithFields(logrus.Fields{
		"low":    low,
		"high":   high,
		"frames": uint64(high - low),
	}).Info("pmm: initialized physical frame allocator")

	return nil
}

// AllocFrame reserves the next available physical frame and returns a
// FrameTracker that owns it. The frame contents are zero-filled before the
// tracker is handed out so no data from a previous tenant can leak to the
// new owner. AllocFrame returns ErrOutOfMemory when the managed range is
// exhausted; the caller is expected to fail the requesting operation rather
// than treat this as fatal.
func AllocFrame() (*FrameTracker, *kernel.Error) {
	allocatorCell.Acquire()
	defer allocatorCell.Release()

	frame, err := frameAllocator.alloc()
	if err != nil {
		return nil, err
	}

	return newFrameTracker(frame), nil
}

// DeallocFrame returns a frame to the allocator. It panics if the frame was
// never issued or is already free; see stackFrameAllocator.dealloc.
func DeallocFrame(frame mm.Frame) {
	allocatorCell.Acquire()
	defer allocatorCell.Release()

	frameAllocator.dealloc(frame)
}

// RemainingFrames returns the number of frames that can still be allocated
// before AllocFrame reports ErrOutOfMemory.
func RemainingFrames() uint64 {
	allocatorCell.Acquire()
	defer allocatorCell.Release()

	return frameAllocator.remaining()
}
