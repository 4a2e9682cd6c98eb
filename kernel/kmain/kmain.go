// Package kmain drives the memory core through its boot sequence. It is the
// hosted stand-in for the early-boot code that would otherwise be invoked by
// the platform's startup assembly.
package kmain

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"rvos/kernel"
	"rvos/kernel/config"
	"rvos/kernel/mm"
	"rvos/kernel/mm/pmm"
	"rvos/kernel/mm/vmm"
)

// Kmain initializes the physical memory subsystem over the supplied layout
// and exercises the allocator and a demo address space so a boot run fails
// loudly if the memory core is miswired. It returns an error only for
// recoverable boot problems (a bad layout, exhausted memory); invariant
// violations panic, halting the context as they would on real hardware.
func Kmain(layout config.Layout) *kernel.Error {
	if err := pmm.Init(layout.KernelEnd, layout.MemoryEnd); err != nil {
		return err
	}

	if err := frameAllocatorWalkthrough(); err != nil {
		return err
	}

	return addressSpaceWalkthrough()
}

// frameAllocatorWalkthrough allocates a handful of frames and hands them all
// back, verifying the remaining-frame accounting along the way.
func frameAllocatorWalkthrough() *kernel.Error {
	before := pmm.RemainingFrames()

	trackers := make([]*pmm.FrameTracker, 0, 5)
	for i := 0; i < 5; i++ {
		tracker, err := pmm.AllocFrame()
		if err != nil {
			return err
		}
		logrus.WithField("tracker", tracker).Debug("kmain: allocated frame")
		trackers = append(trackers, tracker)
	}

	for _, tracker := range trackers {
		tracker.Release()
	}

	logrus.WithFields(logrus.Fields{
		"before": before,
		"after":  pmm.RemainingFrames(),
	}).Info("kmain: frame allocator walkthrough passed")

	return nil
}

// addressSpaceWalkthrough builds a small user address space, pushes data
// into it through the translation helpers and reads it back.
func addressSpaceWalkthrough() *kernel.Error {
	pt := vmm.NewPageTable()
	defer pt.Release()

	data, err := pmm.AllocFrame()
	if err != nil {
		return err
	}
	defer data.Release()

	userPage := mm.Page(0x10)
	pt.Map(userPage, data.Frame(), vmm.FlagRead|vmm.FlagWrite|vmm.FlagUser)
	defer pt.Unmap(userPage)

	token := pt.Token()
	greeting := [4]byte{'r', 'v', 'o', 's'}
	vmm.TranslateAndWrite(token, userPage.Address()+64, greeting)

	view := vmm.TranslateRange(token, userPage.Address()+64, uint64(len(greeting)))[0]
	logrus.WithFields(logrus.Fields{
		"satp":    fmt.Sprintf("%#x", token),
		"page":    userPage,
		"content": string(view),
	}).Info("kmain: address space walkthrough passed")

	return nil
}
