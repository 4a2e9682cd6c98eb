// Package vmm implements the Sv39 multi-level page table: a 3-level radix
// tree of page table entries rooted at a single physical frame, plus the
// translation helpers used to reach user-mapped memory from kernel code.
package vmm

import (
	"fmt"
	"unsafe"

	"rvos/kernel/mm"
	"rvos/kernel/mm/physmem"
	"rvos/kernel/mm/pmm"
)

var (
	// allocFrameFn is used by tests to override the allocation of page
	// table node frames.
	allocFrameFn = pmm.AllocFrame
)

// PageTable is a 3-level Sv39 radix tree identified by the physical frame of
// its root node. The table owns the frames backing its own radix nodes (as
// FrameTrackers) but never the data frames installed at the leaf level: the
// caller that maps a data frame must keep it alive for as long as the
// mapping exists.
type PageTable struct {
	rootFrame mm.Frame

	// frames tracks every radix-node frame this table has allocated. The
	// set grows on demand during Map and is released en masse by Release;
	// nodes are never reclaimed while the table is live, even when every
	// leaf beneath them becomes unmapped.
	frames []*pmm.FrameTracker
}

// NewPageTable allocates the root radix node of a fresh address space. A
// fresh address space must always be constructible, so the caller is
// expected to guarantee frame capacity up front; NewPageTable panics if the
// allocator is exhausted.
func NewPageTable() *PageTable {
	root := mustAllocNodeFrame()
	return &PageTable{
		rootFrame: root.Frame(),
		frames:    []*pmm.FrameTracker{root},
	}
}

// FromToken reconstructs a page table view from a hardware satp token,
// typically to translate addresses inside an address space owned by another
// task. The view owns no frames: releasing it never deallocates anything,
// and it must not be used for Map/Unmap since any radix nodes those create
// would leak.
func FromToken(token uint64) *PageTable {
	return &PageTable{rootFrame: mm.Frame(token & mm.FrameNumberMask)}
}

// Token encodes the root frame number in the satp register format consumed
// by the hardware when an address space is installed: the Sv39 mode tag in
// the top bits and the root physical frame number in the low 44.
func (pt *PageTable) Token() uint64 {
	return satpModeSv39 | uint64(pt.rootFrame)
}

// Map establishes a translation from a virtual page to a physical frame with
// the supplied flags; FlagValid is always forced on. Radix nodes missing
// along the walk are allocated on demand and owned by the table. Mapping a
// page that is already mapped signals a double-map bug upstream and panics.
func (pt *PageTable) Map(page mm.Page, frame mm.Frame, flags PageTableEntryFlag) {
	pte := pt.findOrCreateEntry(page)
	if pte.Valid() {
		panic(fmt.Sprintf("vmm: page %#x is already mapped", uint64(page)))
	}

	*pte = NewPageTableEntry(frame, flags|FlagValid)
}

// Unmap removes the translation for a virtual page by overwriting its leaf
// entry with the empty entry. Unmapping a page that is not mapped signals a
// bug upstream and panics. The radix nodes that carried the mapping stay
// allocated for the life of the table.
func (pt *PageTable) Unmap(page mm.Page) {
	pte := pt.findEntry(page)
	if pte == nil || !pte.Valid() {
		panic(fmt.Sprintf("vmm: page %#x is not mapped", uint64(page)))
	}

	*pte = 0
}

// Translate returns a copy of the leaf entry for the given virtual page if a
// complete valid walk exists. It never allocates.
func (pt *PageTable) Translate(page mm.Page) (PageTableEntry, bool) {
	pte := pt.findEntry(page)
	if pte == nil || !pte.Valid() {
		return 0, false
	}

	return *pte, true
}

// Release returns every radix-node frame owned by this table to the frame
// allocator. It must be called exactly once when the address space is torn
// down; for FromToken views it is a no-op.
func (pt *PageTable) Release() {
	for _, tracker := range pt.frames {
		tracker.Release()
	}
	pt.frames = nil
}

// pageTableWalker is a function that can be passed to the walk method. The
// function receives the current page level and page table entry as its
// arguments. If the function returns false, then the page walk is aborted.
type pageTableWalker func(pteLevel uint8, pte *PageTableEntry) bool

// walk performs a page table walk for the given virtual page. It calls the
// supplied walkFn with the page table entry that corresponds to each of the
// three radix levels, following the entry's frame pointer between levels.
// The level-2 entry is the leaf: walkFn receives it like the others but walk
// never follows it, since an unmapped leaf's frame field is garbage.
func (pt *PageTable) walk(page mm.Page, walkFn pageTableWalker) {
	tableFrame := pt.rootFrame
	for level := uint8(0); level < pageLevels; level++ {
		pte := &pteArray(tableFrame)[pageTableIndex(page, level)]
		if !walkFn(level, pte) {
			return
		}
		tableFrame = pte.Frame()
	}
}

// findEntry returns the leaf entry for the given page, or nil if any
// intermediate entry along the walk is invalid. It is a pure lookup and
// never allocates.
func (pt *PageTable) findEntry(page mm.Page) *PageTableEntry {
	var entry *PageTableEntry

	pt.walk(page, func(pteLevel uint8, pte *PageTableEntry) bool {
		if pteLevel == pageLevels-1 {
			entry = pte
			return false
		}

		return pte.Valid()
	})

	return entry
}

// findOrCreateEntry returns the leaf entry for the given page, allocating
// zeroed radix nodes for any invalid intermediate entry it crosses.
// Intermediate entries carry only FlagValid: R/W/X/U semantics exist at the
// leaf level alone. Once allocation succeeds this always produces a slot; it
// panics only if the frame allocator is exhausted.
func (pt *PageTable) findOrCreateEntry(page mm.Page) *PageTableEntry {
	var entry *PageTableEntry

	pt.walk(page, func(pteLevel uint8, pte *PageTableEntry) bool {
		if pteLevel == pageLevels-1 {
			entry = pte
			return false
		}

		if !pte.Valid() {
			node := mustAllocNodeFrame()
			pt.frames = append(pt.frames, node)
			*pte = NewPageTableEntry(node.Frame(), FlagValid)
		}

		return true
	})

	return entry
}

// pteArray overlays the 512 entry slots stored in a radix-node frame.
func pteArray(frame mm.Frame) []PageTableEntry {
	buf := physmem.FrameBytes(frame)
	return unsafe.Slice((*PageTableEntry)(unsafe.Pointer(&buf[0])), pageTableEntries)
}

// pageTableIndex extracts the 9-bit radix index that the given level uses to
// select an entry; level 0 corresponds to the most significant index bits.
func pageTableIndex(page mm.Page, level uint8) uint64 {
	return (uint64(page) >> (uint(pageLevels-1-level) * pageLevelBits)) & (pageTableEntries - 1)
}

func mustAllocNodeFrame() *pmm.FrameTracker {
	tracker, err := allocFrameFn()
	if err != nil {
		panic(fmt.Sprintf("vmm: page table node allocation failed: %s", err.Message))
	}

	return tracker
}
