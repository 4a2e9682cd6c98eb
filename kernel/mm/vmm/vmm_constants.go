package vmm

const (
	// pageLevels indicates the number of page table levels in the Sv39
	// translation scheme.
	pageLevels = 3

	// pageLevelBits defines the number of virtual page number bits that
	// index each page table level. 9 bits per level amounts to 512 entries
	// for each radix node.
	pageLevelBits = 9

	// pageTableEntries is the number of entry slots in one radix node.
	pageTableEntries = 1 << pageLevelBits

	// pteFrameShift and pteFrameMask locate the 44-bit physical frame
	// number field inside a page table entry (bits 10-53).
	pteFrameShift = 10
	pteFrameMask  = PageTableEntry(((1 << 44) - 1) << pteFrameShift)

	// pteFlagsMask covers the 8 architected flag bits. Bits 8-9 are
	// reserved for software and must survive encode/decode round trips
	// untouched.
	pteFlagsMask = PageTableEntry(0xff)

	// satpModeSv39 is the mode tag installed in the top 4 bits of the satp
	// register to activate 3-level translation; the low 44 bits of the
	// register hold the root table's physical frame number.
	satpModeSv39 = uint64(8) << 60
)

const (
	// FlagValid is set when the entry holds a live translation. An
	// all-zero entry is the canonical empty/invalid entry.
	FlagValid PageTableEntryFlag = 1 << iota

	// FlagRead is set if the mapped page can be read.
	FlagRead

	// FlagWrite is set if the mapped page can be written to.
	FlagWrite

	// FlagExec is set if the mapped page contains executable code.
	FlagExec

	// FlagUser is set if user-mode code can access the mapped page. If not
	// set only kernel code can access it.
	FlagUser

	// FlagGlobal marks a mapping that exists in all address spaces.
	FlagGlobal

	// FlagAccessed is set by the hardware when the page is accessed.
	FlagAccessed

	// FlagDirty is set by the hardware when the page is modified.
	FlagDirty
)
