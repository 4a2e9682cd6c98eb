package pmm

import (
	"testing"

	"rvos/kernel/mm"
)

func TestStackFrameAllocatorBumpOrder(t *testing.T) {
	specs := []struct {
		low, high    mm.Frame
		expAllocated uint64
	}{
		{0, 1, 1},
		{100, 105, 5},
		{1 << 20, 1<<20 + 512, 512},
	}

	for specIndex, spec := range specs {
		var alloc stackFrameAllocator
		alloc.init(spec.low, spec.high)

		var allocated uint64
		for next := spec.low; ; next++ {
			frame, err := alloc.alloc()
			if err != nil {
				if err != ErrOutOfMemory {
					t.Errorf("[spec %d] unexpected allocator error: %v", specIndex, err)
				}
				break
			}

			if frame != next {
				t.Errorf("[spec %d] expected allocated frame to be %#x; got %#x", specIndex, uint64(next), uint64(frame))
			}
			allocated++
		}

		if allocated != spec.expAllocated {
			t.Errorf("[spec %d] expected allocator to hand out %d frames; handed out %d", specIndex, spec.expAllocated, allocated)
		}

		if remaining := alloc.remaining(); remaining != 0 {
			t.Errorf("[spec %d] expected exhausted allocator to report 0 remaining frames; got %d", specIndex, remaining)
		}
	}
}

func TestStackFrameAllocatorLIFOReuse(t *testing.T) {
	var alloc stackFrameAllocator
	alloc.init(100, 105)

	frames := make([]mm.Frame, 5)
	for i := range frames {
		frame, err := alloc.alloc()
		if err != nil {
			t.Fatalf("unexpected allocator error: %v", err)
		}
		frames[i] = frame
	}

	// Free the first frame handed out; the next allocation must reuse it
	// ahead of the untouched rest of the range.
	alloc.dealloc(frames[0])
	if frame, err := alloc.alloc(); err != nil || frame != frames[0] {
		t.Fatalf("expected allocator to reuse frame %#x; got %#x (err: %v)", uint64(frames[0]), uint64(frame), err)
	}

	// Free everything, then drain again: the recycled pool empties in
	// reverse deallocation order and the full set of frames comes back with
	// nothing outside the original range.
	for _, frame := range frames {
		alloc.dealloc(frame)
	}

	seen := make(map[mm.Frame]bool, len(frames))
	for range frames {
		frame, err := alloc.alloc()
		if err != nil {
			t.Fatalf("unexpected allocator error: %v", err)
		}
		if frame < 100 || frame >= 105 {
			t.Fatalf("allocator returned frame %#x outside managed range", uint64(frame))
		}
		if seen[frame] {
			t.Fatalf("allocator returned frame %#x twice", uint64(frame))
		}
		seen[frame] = true
	}

	if _, err := alloc.alloc(); err != ErrOutOfMemory {
		t.Fatalf("expected allocator to be exhausted; got err %v", err)
	}
}

func TestStackFrameAllocatorRemaining(t *testing.T) {
	var alloc stackFrameAllocator
	alloc.init(100, 105)

	if got := alloc.remaining(); got != 5 {
		t.Fatalf("expected 5 remaining frames; got %d", got)
	}

	frame, err := alloc.alloc()
	if err != nil {
		t.Fatalf("unexpected allocator error: %v", err)
	}
	if got := alloc.remaining(); got != 4 {
		t.Fatalf("expected remaining count to drop to 4 after alloc; got %d", got)
	}

	// alloc immediately followed by dealloc of the same frame leaves the
	// count unchanged.
	alloc.dealloc(frame)
	if got := alloc.remaining(); got != 5 {
		t.Fatalf("expected remaining count to return to 5 after dealloc; got %d", got)
	}
}

func TestStackFrameAllocatorDoubleFree(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected double free to panic")
		}
	}()

	var alloc stackFrameAllocator
	alloc.init(100, 105)

	frame, err := alloc.alloc()
	if err != nil {
		t.Fatalf("unexpected allocator error: %v", err)
	}

	alloc.dealloc(frame)
	alloc.dealloc(frame)
}

func TestStackFrameAllocatorDeallocNeverIssued(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected dealloc of a never-issued frame to panic")
		}
	}()

	var alloc stackFrameAllocator
	alloc.init(100, 105)

	alloc.dealloc(100)
}
