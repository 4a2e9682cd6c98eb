package pmm

import (
	"fmt"

	"rvos/kernel"
	"rvos/kernel/mm"
	"rvos/kernel/mm/physmem"
)

// FrameTracker ties the lifetime of one allocated physical frame to the
// value holding it. At most one live tracker exists per allocated frame; the
// tracker's identity is fixed at construction and the frame returns to the
// allocator exactly once, when Release is called.
//
// Go has no destructors, so release is explicit and deterministic: whoever
// owns the tracker must call Release on every exit path (a defer right after
// a successful AllocFrame is the usual shape). Relying on a finalizer would
// break the deallocation-timing guarantees that double-free detection
// depends on.
type FrameTracker struct {
	frame    mm.Frame
	released bool
}

// newFrameTracker wraps a freshly allocated frame, zero-filling its contents
// so the first owner never observes data from a previous tenant.
func newFrameTracker(frame mm.Frame) *FrameTracker {
	kernel.Memset(physmem.FrameBytes(frame), 0)
	return &FrameTracker{frame: frame}
}

// Frame returns the physical frame owned by this tracker.
func (t *FrameTracker) Frame() mm.Frame {
	return t.frame
}

// Release returns the tracked frame to the allocator. Each tracker must be
// released exactly once, even if its frame was never touched; releasing a
// tracker twice panics before the allocator can see a double free.
func (t *FrameTracker) Release() {
	if t.released {
		panic(fmt.Sprintf("pmm: frame tracker for %#x released twice", uint64(t.frame)))
	}

	t.released = true
	DeallocFrame(t.frame)
}

func (t *FrameTracker) String() string {
	return fmt.Sprintf("FrameTracker(frame=%#x)", uint64(t.frame))
}
