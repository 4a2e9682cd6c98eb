package mm

const (
	// PageShift is equal to log2(PageSize). This constant is used when
	// we need to convert a physical address to a page number (shift right by PageShift)
	// and vice-versa.
	PageShift = 12

	// PageSize defines the system's page size in bytes.
	PageSize = uint64(1 << PageShift)

	// FrameNumberBits is the width of an Sv39 physical frame number. Frame
	// numbers are stored in 44-bit fields inside page table entries and
	// the satp register.
	FrameNumberBits = 44

	// FrameNumberMask extracts a frame number from a machine word.
	FrameNumberMask = uint64(1)<<FrameNumberBits - 1
)
