package vmm

import "rvos/kernel/mm"

// PageTableEntryFlag describes a flag that can be applied to a page table
// entry.
type PageTableEntryFlag uint64

// PageTableEntry describes one slot of an Sv39 radix node: a 44-bit physical
// frame number homed at bit 10, OR-ed with the low flag bits. The zero value
// is the empty entry (FlagValid unset).
type PageTableEntry uint64

// NewPageTableEntry encodes a frame number and a flag set into an entry.
func NewPageTableEntry(frame mm.Frame, flags PageTableEntryFlag) PageTableEntry {
	return PageTableEntry(uint64(frame)<<pteFrameShift)&pteFrameMask | PageTableEntry(flags)&pteFlagsMask
}

// Frame returns the physical page frame that this page table entry points to.
func (pte PageTableEntry) Frame() mm.Frame {
	return mm.Frame(uint64(pte&pteFrameMask) >> pteFrameShift)
}

// SetFrame updates the page table entry to point to the given physical
// frame, leaving the flag and reserved bits untouched.
func (pte *PageTableEntry) SetFrame(frame mm.Frame) {
	*pte = (*pte &^ pteFrameMask) | PageTableEntry(uint64(frame)<<pteFrameShift)&pteFrameMask
}

// Flags returns the architected flag bits of this entry. The decode is total:
// every bit pattern yields a flag set, and bits outside the flag field are
// simply not reported.
func (pte PageTableEntry) Flags() PageTableEntryFlag {
	return PageTableEntryFlag(pte & pteFlagsMask)
}

// HasFlags returns true if this entry has all the input flags set.
func (pte PageTableEntry) HasFlags(flags PageTableEntryFlag) bool {
	return PageTableEntryFlag(pte)&flags == flags
}

// HasAnyFlag returns true if this entry has at least one of the input flags set.
func (pte PageTableEntry) HasAnyFlag(flags PageTableEntryFlag) bool {
	return PageTableEntryFlag(pte)&flags != 0
}

// SetFlags sets the input list of flags on the page table entry.
func (pte *PageTableEntry) SetFlags(flags PageTableEntryFlag) {
	*pte |= PageTableEntry(flags) & pteFlagsMask
}

// ClearFlags unsets the input list of flags from the page table entry.
func (pte *PageTableEntry) ClearFlags(flags PageTableEntryFlag) {
	*pte &^= PageTableEntry(flags) & pteFlagsMask
}

// Valid returns true if the entry holds a live translation.
func (pte PageTableEntry) Valid() bool {
	return pte.HasFlags(FlagValid)
}

// Readable returns true if the mapped page can be read.
func (pte PageTableEntry) Readable() bool {
	return pte.HasFlags(FlagRead)
}

// Writable returns true if the mapped page can be written to.
func (pte PageTableEntry) Writable() bool {
	return pte.HasFlags(FlagWrite)
}

// Executable returns true if the mapped page can be executed.
func (pte PageTableEntry) Executable() bool {
	return pte.HasFlags(FlagExec)
}
