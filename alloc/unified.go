package alloc

import (
	"sync/atomic"

	"github.com/xlsxcore/engine/xerr"
)

// Unified is the C3 size-dispatched façade over the slab (C1) and chunk
// (C2) allocators, per spec §4.3.
type Unified struct {
	slab  *Slab
	chunk *Chunk

	allocated atomic.Uint64 // bytes currently attributed to this allocator

	monitor *Monitor
}

// Config configures a Unified allocator's constituent parts and monitor.
type Config struct {
	ChunkMemLimit uint64 // 0 == default 4 GiB
	Monitor       MonitorConfig
}

// NewUnified constructs a Unified allocator and starts its background
// monitor thread.
func NewUnified(cfg Config) *Unified {
	u := &Unified{
		slab:  NewSlab(),
		chunk: NewChunk(cfg.ChunkMemLimit),
	}
	u.monitor = newMonitor(u, cfg.Monitor)
	u.monitor.start()
	return u
}

// Allocate dispatches to the slab allocator for size <= 8192 bytes and to
// the chunk allocator otherwise (spec §4.3 "On allocate").
func (u *Unified) Allocate(size int) (Block, error) {
	const op = "alloc.Unified.Allocate"
	if size <= 0 {
		return nil, xerr.New(xerr.InvalidArgument, op, "size must be positive")
	}
	var (
		b   Block
		err error
	)
	if CanHandle(size) {
		b, err = u.slab.Allocate(size)
	} else {
		b, err = u.chunk.Allocate(size, 0)
	}
	if err != nil {
		return nil, err
	}
	u.allocated.Add(uint64(cap(b)))
	return b, nil
}

// Deallocate frees b if it was allocated by the slab allocator. Objects
// larger than 8KB cannot be individually freed by design (spec §4.3,
// §9 Open Question #1): the caller must reset the owning chunk arena.
// This is not reported as an error; it is the documented contract.
func (u *Unified) Deallocate(b Block) {
	if u.slab.Deallocate(b) {
		u.allocated.Add(^uint64(cap(b) - 1)) // subtract cap(b)
	}
}

// ResetChunks invalidates every chunk-allocated block. Use this instead
// of Deallocate for objects larger than 8KB.
func (u *Unified) ResetChunks() {
	freed := u.chunk.TotalBytes()
	u.chunk.Reset()
	u.chunk.Compact()
	if freed > 0 {
		u.allocated.Add(^uint64(freed - 1))
	}
}

// Clear resets everything: compacts all slab classes and resets+compacts
// the chunk arena, as if the allocator were freshly constructed (spec §5
// "Resource discipline").
func (u *Unified) Clear() {
	u.slab.Compact()
	u.chunk.Reset()
	u.chunk.Compact()
	u.allocated.Store(0)
}

// BytesInUse reports the allocator's current view of live bytes, used by
// the monitor and by the pipeline's back-pressure check (spec §4.7).
func (u *Unified) BytesInUse() uint64 { return u.allocated.Load() }

// Stats reports the slab allocator's aggregate stats.
func (u *Unified) Stats() Stats { return u.slab.Stats() }

// Shutdown stops the background monitor thread. Safe to call multiple
// times.
func (u *Unified) Shutdown() { u.monitor.stop() }

// Monitor returns the allocator's background monitor for registering
// threshold callbacks.
func (u *Unified) Monitor() *Monitor { return u.monitor }
