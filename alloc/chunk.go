package alloc

import (
	"sync"
	"unsafe"

	"github.com/xlsxcore/engine/internal/memops"
	"github.com/xlsxcore/engine/ints"
	"github.com/xlsxcore/engine/xerr"
)

// Chunk size tiers, selected by request size (spec §4.2 "Tiering").
const (
	smallChunkSize  = 1 << 20  // 1 MiB
	mediumChunkSize = 16 << 20 // 16 MiB
	largeChunkSize  = 64 << 20 // 64 MiB

	smallAllocThreshold  = 64 << 10 // 64 KiB
	mediumAllocThreshold = 4 << 20  // 4 MiB

	maxChunkAllocSize  = largeChunkSize
	defaultAlignment   = 32
	defaultChunkMemCap = 4 << 30 // 4 GiB
)

// chunkSizeFor picks the chunk size tier for a request of the given size.
func chunkSizeFor(size int) (int, bool) {
	switch {
	case size > maxChunkAllocSize:
		return 0, false
	case size <= smallAllocThreshold:
		return smallChunkSize, true
	case size <= mediumAllocThreshold:
		return mediumChunkSize, true
	default:
		return largeChunkSize, true
	}
}

// chunk is a single bump-allocated arena.
type chunk struct {
	buf  []byte
	base uintptr

	mu   sync.Mutex
	used int
}

func newChunk(size int) *chunk {
	c := &chunk{buf: make([]byte, size)}
	c.base = uintptr(unsafe.Pointer(&c.buf[0]))
	return c
}

func (c *chunk) contains(addr uintptr) bool {
	return addr >= c.base && addr < c.base+uintptr(len(c.buf))
}

// allocate bump-allocates size bytes aligned to alignment. ok is false
// if the chunk does not have room.
func (c *chunk) allocate(size, alignment int) (Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	aligned := int(ints.AlignUp64(uint64(c.used), uint64(alignment)))
	if aligned+size > len(c.buf) {
		return nil, false
	}
	b := c.buf[aligned : aligned+size]
	c.used = aligned + size
	return Block(b), true
}

// reset scrubs the bytes handed out so far and makes the whole chunk
// available again. Callers are required to have dropped every block this
// chunk ever returned (Reset's contract), so the scrub can run over the
// full used prefix without risk of zeroing a block still in use.
func (c *chunk) reset() {
	c.mu.Lock()
	memops.ZeroMemory(c.buf[:c.used])
	c.used = 0
	c.mu.Unlock()
}

func (c *chunk) usedBytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Chunk is the C2 chunk allocator: a bump-allocating arena for objects
// larger than the slab allocator's 8KB ceiling, with bulk-reset-only
// reclamation (spec §4.2).
type Chunk struct {
	mu       sync.Mutex
	chunks   []*chunk
	memLimit uint64
	total    uint64
}

// NewChunk constructs a chunk allocator with the given process-wide byte
// limit. A limit of 0 uses the spec default of 4 GiB.
func NewChunk(memLimit uint64) *Chunk {
	if memLimit == 0 {
		memLimit = defaultChunkMemCap
	}
	return &Chunk{memLimit: memLimit}
}

// Allocate bump-allocates size bytes at the given alignment (0 means the
// spec default of 32 bytes). A request over 64MB always fails.
func (ca *Chunk) Allocate(size int, alignment int) (Block, error) {
	const op = "alloc.Chunk.Allocate"
	if size <= 0 {
		return nil, xerr.New(xerr.InvalidArgument, op, "size must be positive")
	}
	if alignment <= 0 {
		alignment = defaultAlignment
	}
	chunkSize, ok := chunkSizeFor(size)
	if !ok {
		return nil, xerr.New(xerr.InvalidArgument, op, "request exceeds 64MB chunk ceiling")
	}

	ca.mu.Lock()
	defer ca.mu.Unlock()

	for _, c := range ca.chunks {
		if b, ok := c.allocate(size, alignment); ok {
			return b, nil
		}
	}
	if ca.total+uint64(chunkSize) > ca.memLimit {
		return nil, xerr.New(xerr.MemoryError, op, "process memory limit exceeded")
	}
	c := newChunk(chunkSize)
	ca.chunks = append(ca.chunks, c)
	ca.total += uint64(chunkSize)
	b, ok := c.allocate(size, alignment)
	if !ok {
		// size <= chunkSize is guaranteed by chunkSizeFor's tiering, so
		// this only happens if alignment padding alone exceeds the
		// chunk, which cannot occur for the alignments this type uses.
		return nil, xerr.New(xerr.MemoryError, op, "allocation did not fit freshly created chunk")
	}
	return b, nil
}

// Owns reports whether b was allocated from one of this allocator's
// chunks, used by the unified allocator to route deallocation attempts
// away from the chunk allocator (spec §4.2 "No per-allocation free").
func (ca *Chunk) Owns(b Block) bool {
	addr := blockAddr(b)
	if addr == 0 {
		return false
	}
	ca.mu.Lock()
	defer ca.mu.Unlock()
	for _, c := range ca.chunks {
		if c.contains(addr) {
			return true
		}
	}
	return false
}

// Reset invalidates every outstanding pointer handed out by this
// allocator and makes all chunk capacity available again.
func (ca *Chunk) Reset() {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	for _, c := range ca.chunks {
		c.reset()
	}
}

// Compact drops chunks with zero live bytes, returning bytes freed.
// "Live bytes" for a bump arena is approximated by its used-bytes
// counter: a chunk is droppable once Reset has zeroed it.
func (ca *Chunk) Compact() uint64 {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	var freed uint64
	kept := ca.chunks[:0]
	for _, c := range ca.chunks {
		if c.usedBytes() == 0 {
			freed += uint64(len(c.buf))
			ca.total -= uint64(len(c.buf))
			continue
		}
		kept = append(kept, c)
	}
	ca.chunks = kept
	return freed
}

// TotalBytes returns the sum of all chunk capacities currently held.
func (ca *Chunk) TotalBytes() uint64 {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	return ca.total
}
