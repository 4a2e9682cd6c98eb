package vmm

import (
	"fmt"
	"unsafe"

	"rvos/kernel/mm"
	"rvos/kernel/mm/physmem"
)

// TranslateRange resolves the contiguous virtual byte range [ptr, ptr+length)
// inside the address space identified by token into a sequence of
// physically-contiguous byte views, one per physical frame the range
// crosses, in ascending virtual-address order. Concatenating the views
// yields exactly the length bytes starting at ptr; the first and last views
// are clipped to their page-offset boundaries. The virtual pointer is only
// meaningful in the target address space and is never dereferenced directly.
//
// A hole in the range (an unmapped page) means the caller handed over a
// pointer its own bookkeeping says is mapped, so TranslateRange panics
// rather than returning a partial view.
func TranslateRange(token uint64, ptr uint64, length uint64) [][]byte {
	pt := FromToken(token)

	var views [][]byte
	for start, end := ptr, ptr+length; start < end; {
		page := mm.PageFromAddress(start)
		pte, ok := pt.Translate(page)
		if !ok {
			panic(fmt.Sprintf("vmm: virtual address %#x is not mapped", start))
		}

		// Stop at whichever comes first: the end of the requested range or
		// the end of the current page.
		stop := (page + 1).Address()
		if stop > end {
			stop = end
		}

		frameBuf := physmem.FrameBytes(pte.Frame())
		views = append(views, frameBuf[mm.PageOffset(start):mm.PageOffset(stop-1)+1])
		start = stop
	}

	return views
}

// TranslateAndWrite stores a fixed-size value at the physical location that
// backs ptr in the address space identified by token. The write goes through
// the direct-map window, bypassing any dereference of ptr itself: the
// pointer is meaningful only in the target address space, never the
// caller's. It panics if ptr's page is unmapped or if the value would run
// past the frame backing it.
func TranslateAndWrite[T any](token uint64, ptr uint64, value T) {
	pt := FromToken(token)

	pte, ok := pt.Translate(mm.PageFromAddress(ptr))
	if !ok {
		panic(fmt.Sprintf("vmm: virtual address %#x is not mapped", ptr))
	}

	size := uint64(unsafe.Sizeof(value))
	offset := mm.PageOffset(ptr)
	if offset+size > mm.PageSize {
		panic(fmt.Sprintf("vmm: %d byte write at %#x crosses a frame boundary", size, ptr))
	}
	if size == 0 {
		return
	}

	src := unsafe.Slice((*byte)(unsafe.Pointer(&value)), size)
	copy(physmem.FrameBytes(pte.Frame())[offset:offset+size], src)
}
