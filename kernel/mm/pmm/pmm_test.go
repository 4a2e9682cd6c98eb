package pmm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rvos/kernel/mm"
	"rvos/kernel/mm/physmem"
)

func TestFrameAllocationScenario(t *testing.T) {
	// Manage the 5-frame physical range [100, 105).
	require.Nil(t, Init(mm.Frame(100).Address(), mm.Frame(105).Address()))
	require.EqualValues(t, 5, RemainingFrames())

	trackers := make([]*FrameTracker, 0, 5)
	for i := 0; i < 5; i++ {
		tracker, err := AllocFrame()
		require.Nil(t, err, "allocation %d", i)
		trackers = append(trackers, tracker)
	}
	require.EqualValues(t, 0, RemainingFrames())

	_, err := AllocFrame()
	require.Equal(t, ErrOutOfMemory, err)

	// Free the frame returned first; the next allocation reuses it.
	first := trackers[0].Frame()
	trackers[0].Release()
	require.EqualValues(t, 1, RemainingFrames())

	tracker, err := AllocFrame()
	require.Nil(t, err)
	require.Equal(t, first, tracker.Frame())
	trackers[0] = tracker

	for _, tracker := range trackers {
		tracker.Release()
	}
	require.EqualValues(t, 5, RemainingFrames())
}

func TestAllocFrameZeroFills(t *testing.T) {
	require.Nil(t, Init(mm.Frame(100).Address(), mm.Frame(105).Address()))

	tracker, err := AllocFrame()
	require.Nil(t, err)

	// Dirty the frame, release it and allocate again: LIFO reuse hands the
	// same frame back and its previous contents must not be observable.
	buf := physmem.FrameBytes(tracker.Frame())
	for i := range buf {
		buf[i] = 0xa5
	}
	dirtied := tracker.Frame()
	tracker.Release()

	tracker, err = AllocFrame()
	require.Nil(t, err)
	defer tracker.Release()
	require.Equal(t, dirtied, tracker.Frame())

	for i, b := range physmem.FrameBytes(tracker.Frame()) {
		require.Zerof(t, b, "byte %d not cleared on reallocation", i)
	}
}

func TestFrameTrackerDoubleRelease(t *testing.T) {
	require.Nil(t, Init(mm.Frame(100).Address(), mm.Frame(105).Address()))

	tracker, err := AllocFrame()
	require.Nil(t, err)
	tracker.Release()

	require.Panics(t, tracker.Release)
}

func TestFrameTrackerString(t *testing.T) {
	tracker := &FrameTracker{frame: 0x123}
	require.Equal(t, "FrameTracker(frame=0x123)", tracker.String())
}

func TestInitRejectsEmptyRange(t *testing.T) {
	// Rounding the start up and the end down leaves no full frame here.
	require.NotNil(t, Init(4097, 8191))
}
