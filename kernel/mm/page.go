// Package mm provides the typed physical/virtual frame numbers and address
// conversion helpers used by the memory-management subsystems.
package mm

import "math"

// Frame describes a physical memory page index.
type Frame uint64

const (
	// InvalidFrame is returned by page allocators when
	// they fail to reserve the requested frame.
	InvalidFrame = Frame(math.MaxUint64)
)

// Valid returns true if this is a valid frame.
func (f Frame) Valid() bool {
	return f != InvalidFrame
}

// Address returns the physical memory address pointed to by this Frame.
func (f Frame) Address() uint64 {
	return uint64(f) << PageShift
}

// FrameFromAddress returns the Frame that contains the given physical
// address. This function can handle both page-aligned and not aligned
// addresses; in the latter case, the input address will be rounded down to
// the frame that contains it.
func FrameFromAddress(physAddr uint64) Frame {
	return Frame(physAddr >> PageShift)
}

// FrameFromAddressRoundUp returns the Frame whose start is the given
// physical address rounded up to the next page boundary. It is used when
// carving the start of a managed range out of a partially used page.
func FrameFromAddressRoundUp(physAddr uint64) Frame {
	return Frame((physAddr + PageSize - 1) >> PageShift)
}

// Page describes a virtual memory page index.
type Page uint64

// Address returns the virtual memory address pointed to by this Page.
func (p Page) Address() uint64 {
	return uint64(p) << PageShift
}

// PageFromAddress returns the Page that contains the given virtual address.
// This function can handle both page-aligned and not aligned virtual
// addresses; in the latter case, the input address will be rounded down to
// the page that contains it.
func PageFromAddress(virtAddr uint64) Page {
	return Page(virtAddr >> PageShift)
}

// PageFromAddressRoundUp returns the Page whose start is the given virtual
// address rounded up to the next page boundary.
func PageFromAddressRoundUp(virtAddr uint64) Page {
	return Page((virtAddr + PageSize - 1) >> PageShift)
}

// PageOffset returns the offset within the page specified by a virtual or
// physical address.
func PageOffset(addr uint64) uint64 {
	return addr & (PageSize - 1)
}
