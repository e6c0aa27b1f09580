// Package alloc implements the tiered memory allocator specified in §4.1-4.3:
// a fixed-size-class slab allocator (C1) for objects up to 8KB, a bump-
// allocating chunk arena (C2) for larger objects, and a size-dispatched
// unified façade (C3) with background threshold monitoring.
//
// Blocks are returned as Go byte slices (a slice header is itself a safe,
// bounds-checked pointer+length+capacity), not raw unsafe.Pointer values;
// deallocation identifies the owning slab/chunk by comparing the slice's
// backing-array address against each live region. The chunk arena (C2)
// scrubs its backing buffer on Reset via internal/memops.ZeroMemory.
package alloc

import (
	"encoding/binary"
	"sync"
	"unsafe"

	"github.com/xlsxcore/engine/ints"
	"github.com/xlsxcore/engine/xerr"
)

// Block is memory handed out by the allocator. Its length is always
// exactly the size the caller requested; its capacity may be larger
// (rounded up to the owning size class or alignment).
type Block []byte

func blockAddr(b Block) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// slab is a single contiguous allocation carved into objectSize slots,
// with an intrusive free list threaded through the unused slots
// (spec §4.1 "Free list").
type slab struct {
	buf        []byte
	objectSize int
	capacity   int // slots
	base       uintptr

	mu        sync.Mutex
	freeHead  int32 // -1 == empty free list
	freeCount int
}

const freeListEnd = -1

func newSlab(objectSize, slabSize int) *slab {
	capacity := slabSize / objectSize
	s := &slab{
		buf:        make([]byte, slabSize),
		objectSize: objectSize,
		capacity:   capacity,
	}
	s.base = uintptr(unsafe.Pointer(&s.buf[0]))
	for i := 0; i < capacity; i++ {
		next := int32(i + 1)
		if i == capacity-1 {
			next = freeListEnd
		}
		binary.LittleEndian.PutUint32(s.slotBytes(i), uint32(next))
	}
	s.freeHead = 0
	s.freeCount = capacity
	return s
}

func (s *slab) slotBytes(i int) []byte {
	off := i * s.objectSize
	return s.buf[off : off+s.objectSize : off+s.objectSize]
}

// allocate pops the free-list head; ok is false when the slab is full.
func (s *slab) allocate() (Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.freeHead == freeListEnd {
		return nil, false
	}
	i := int(s.freeHead)
	slot := s.slotBytes(i)
	s.freeHead = int32(binary.LittleEndian.Uint32(slot))
	s.freeCount--
	return Block(slot), true
}

// contains reports whether ptr falls within this slab's backing array.
func (s *slab) contains(addr uintptr) bool {
	return addr >= s.base && addr < s.base+uintptr(len(s.buf))
}

// deallocate pushes the slot back onto the free list. Returns false if b
// does not belong to this slab.
func (s *slab) deallocate(b Block) bool {
	addr := blockAddr(b)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.contains(addr) {
		return false
	}
	idx := int(addr-s.base) / s.objectSize
	slot := s.slotBytes(idx)
	binary.LittleEndian.PutUint32(slot, uint32(s.freeHead))
	s.freeHead = int32(idx)
	s.freeCount++
	return true
}

func (s *slab) isEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freeCount == s.capacity
}

func (s *slab) usage() (free, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freeCount, s.capacity
}

// slabClass owns every slab for one size class, guarded by its own mutex
// so that cross-class operations never serialize against one another
// (spec §4.1 "Concurrency").
type slabClass struct {
	objectSize int
	slabSize   int

	mu    sync.Mutex
	slabs []*slab
}

// Slab is the C1 slab allocator: a fixed-size-class pool for objects up
// to 8KB.
type Slab struct {
	classes [len(sizeClasses)]*slabClass
}

// NewSlab constructs an empty slab allocator; slabs are created lazily
// on first allocation per class.
func NewSlab() *Slab {
	s := &Slab{}
	for i, c := range sizeClasses {
		s.classes[i] = &slabClass{objectSize: c.objectSize, slabSize: c.slabSize}
	}
	return s
}

// CanHandle reports whether size is small enough for the slab allocator.
func CanHandle(size int) bool { return size > 0 && size <= maxSlabObjectSize }

// Allocate returns a Block of exactly size bytes, or an error if size is
// invalid or every slab in its class is full and the class has reached
// its maximum slab count.
func (s *Slab) Allocate(size int) (Block, error) {
	const op = "alloc.Slab.Allocate"
	if !CanHandle(size) {
		return nil, xerr.New(xerr.InvalidArgument, op, "size out of slab range")
	}
	idx, ok := classIndexFor(size)
	if !ok {
		return nil, xerr.New(xerr.InvalidArgument, op, "no size class fits")
	}
	c := s.classes[idx]

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sl := range c.slabs {
		if b, ok := sl.allocate(); ok {
			return b[:size], nil
		}
	}
	if len(c.slabs) >= maxSlabsPerClass {
		return nil, xerr.New(xerr.MemoryError, op, "size class at maximum slab count")
	}
	sl := newSlab(c.objectSize, c.slabSize)
	c.slabs = append(c.slabs, sl)
	b, _ := sl.allocate()
	return b[:size], nil
}

// Deallocate returns b to its owning slab. It returns false (not an
// error) if b was not allocated by this allocator, signalling the
// unified allocator to try a different backend (spec §4.1 "Failure").
func (s *Slab) Deallocate(b Block) bool {
	addr := blockAddr(b)
	if addr == 0 {
		return false
	}
	for _, c := range s.classes {
		c.mu.Lock()
		for _, sl := range c.slabs {
			if sl.contains(addr) {
				ok := sl.deallocate(b)
				c.mu.Unlock()
				return ok
			}
		}
		c.mu.Unlock()
	}
	return false
}

// Compact frees every fully-empty slab across all classes and returns
// the number of bytes freed.
func (s *Slab) Compact() uint64 {
	var freed uint64
	for _, c := range s.classes {
		c.mu.Lock()
		kept := c.slabs[:0]
		for _, sl := range c.slabs {
			if sl.isEmpty() {
				freed += uint64(len(sl.buf))
				continue
			}
			kept = append(kept, sl)
		}
		c.slabs = kept
		c.mu.Unlock()
	}
	return freed
}

// warmCacheSize is how many of the emptyCount empty slabs found during a
// SmartReclaim pass stay resident as warm cache, clamped to
// [0, warmSlabCache] so a class with fewer empty slabs than the warm
// target keeps all of them instead of underflowing.
func warmCacheSize(emptyCount int) int {
	return ints.Clamp(emptyCount, 0, warmSlabCache)
}

// SmartReclaim frees empty slabs beyond a warm cache of warmSlabCache per
// class, but only for classes whose fragmentation ratio (empty slots /
// total slots) exceeds fragmentationThreshold (spec §4.1 "Reclamation
// policy"). Rate limiting (at most once every 5s) is the caller's
// responsibility (see alloc.Unified's monitor), matching the spec's
// "runs automatically at most once every 5 seconds" as an external
// cadence rather than a property of a single call.
func (s *Slab) SmartReclaim() uint64 {
	var freed uint64
	for _, c := range s.classes {
		c.mu.Lock()
		var freeSlots, totalSlots int
		for _, sl := range c.slabs {
			free, total := sl.usage()
			freeSlots += free
			totalSlots += total
		}
		if totalSlots == 0 || float64(freeSlots)/float64(totalSlots) <= fragmentationThreshold {
			c.mu.Unlock()
			continue
		}
		empty := make([]*slab, 0)
		kept := c.slabs[:0]
		for _, sl := range c.slabs {
			if sl.isEmpty() {
				empty = append(empty, sl)
				continue
			}
			kept = append(kept, sl)
		}
		warm := warmCacheSize(len(empty))
		kept = append(kept, empty[:warm]...)
		for _, sl := range empty[warm:] {
			freed += uint64(len(sl.buf))
		}
		c.slabs = kept
		c.mu.Unlock()
	}
	return freed
}

// Stats summarizes the slab allocator's current state (spec §4.1 `stats`).
type Stats struct {
	TotalSlabs       int
	TotalObjects     int
	AllocatedObjects int
	TotalBytes       uint64
}

// Stats reports aggregate allocator state across all size classes.
func (s *Slab) Stats() Stats {
	var st Stats
	for _, c := range s.classes {
		c.mu.Lock()
		for _, sl := range c.slabs {
			free, total := sl.usage()
			st.TotalSlabs++
			st.TotalObjects += total
			st.AllocatedObjects += total - free
			st.TotalBytes += uint64(len(sl.buf))
		}
		c.mu.Unlock()
	}
	return st
}
