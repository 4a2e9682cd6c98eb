// Package sync provides synchronization primitives for kernel state that is
// only ever touched by a single logical context at a time.
package sync

import "sync/atomic"

// ExclusiveCell guards global state that must be accessed by at most one
// logical context at any instant. Unlike a lock, an ExclusiveCell never
// waits: the surrounding scheduler guarantees that no two contexts run the
// guarded code concurrently, so an acquisition that finds the cell already
// held can only be a reentrant access from the same context. That is a
// bookkeeping bug, not contention, and Acquire panics instead of silently
// corrupting the guarded state.
type ExclusiveCell struct {
	state uint32
}

// Acquire claims exclusive access to the cell. It panics if the cell is
// already held.
func (c *ExclusiveCell) Acquire() {
	if atomic.SwapUint32(&c.state, 1) != 0 {
		panic("sync: reentrant acquisition of exclusive cell")
	}
}

// Release relinquishes a held cell. Calling Release while the cell is free
// has no effect.
func (c *ExclusiveCell) Release() {
	atomic.StoreUint32(&c.state, 0)
}
