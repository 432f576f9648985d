package engine

import "sync/atomic"

// Handle is the stable identifier of an entity store record. Handles are
// allocated from a monotonic counter and never reused while the record is
// alive; 0 is never a valid handle.
type Handle int64

// handleAllocator hands out strictly increasing handles.
//
// Allocation order doubles as creation order: the entity store iterates
// records by ascending handle, which keeps index reconciliation and event
// emission deterministic across replays.
//
// Thread-safety: atomic, though the engine's single-threaded design means
// only one goroutine calls Next in practice.
type handleAllocator struct {
	last atomic.Int64
}

// Next returns the next handle. The first call returns 1.
func (a *handleAllocator) Next() Handle {
	return Handle(a.last.Add(1))
}

// Current returns the most recently allocated handle without allocating.
func (a *handleAllocator) Current() Handle {
	return Handle(a.last.Load())
}
