package alloc

import "testing"

func TestChunkSizeForTiers(t *testing.T) {
	cases := []struct {
		size int
		want int
		ok   bool
	}{
		{1, smallChunkSize, true},
		{smallAllocThreshold, smallChunkSize, true},
		{smallAllocThreshold + 1, mediumChunkSize, true},
		{mediumAllocThreshold, mediumChunkSize, true},
		{mediumAllocThreshold + 1, largeChunkSize, true},
		{largeChunkSize, largeChunkSize, true},
		{largeChunkSize + 1, 0, false},
	}
	for _, c := range cases {
		got, ok := chunkSizeFor(c.size)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("chunkSizeFor(%d) = (%d, %v), want (%d, %v)", c.size, got, ok, c.want, c.ok)
		}
	}
}

func TestChunkAllocateAlignment(t *testing.T) {
	c := NewChunk(0)
	b, err := c.Allocate(10, 32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(b) != 10 {
		t.Fatalf("expected 10 bytes, got %d", len(b))
	}
	if blockAddr(b)%32 != 0 {
		t.Fatalf("expected 32-byte aligned block")
	}
}

func TestChunkOwns(t *testing.T) {
	c := NewChunk(0)
	b, err := c.Allocate(100, 0)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !c.Owns(b) {
		t.Fatalf("expected Owns to report true for own block")
	}
	other := NewChunk(0)
	if other.Owns(b) {
		t.Fatalf("expected Owns to report false for foreign block")
	}
}

func TestChunkResetReclaimsSpace(t *testing.T) {
	c := NewChunk(largeChunkSize)
	if _, err := c.Allocate(largeChunkSize, 0); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, err := c.Allocate(16, 0); err == nil {
		t.Fatalf("expected chunk to be full")
	}
	c.Reset()
	if _, err := c.Allocate(16, 0); err != nil {
		t.Fatalf("expected allocation to succeed after Reset: %v", err)
	}
}

func TestChunkResetScrubsBackingBytes(t *testing.T) {
	c := NewChunk(0)
	b, err := c.Allocate(64, 0)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	for i := range b {
		b[i] = 0xff
	}
	c.Reset()
	chunkBuf := c.chunks[0].buf
	for i, v := range chunkBuf[:64] {
		if v != 0 {
			t.Fatalf("expected byte %d to be scrubbed after Reset, got %#x", i, v)
		}
	}
}

func TestChunkAtMemoryLimitRefuses(t *testing.T) {
	limit := uint64(smallChunkSize)
	c := NewChunk(limit)
	if _, err := c.Allocate(16, 0); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// The first small-tier allocation already claimed the entire limit as
	// one chunk; a request needing a second chunk must fail.
	if _, err := c.Allocate(smallChunkSize, 0); err == nil {
		t.Fatalf("expected allocation beyond memory limit to fail")
	}
}

func TestChunkRejectsOversizeRequest(t *testing.T) {
	c := NewChunk(0)
	if _, err := c.Allocate(largeChunkSize+1, 0); err == nil {
		t.Fatalf("expected error for request above 64MB ceiling")
	}
}

func TestChunkCompactDropsEmptyChunks(t *testing.T) {
	c := NewChunk(0)
	if _, err := c.Allocate(16, 0); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	before := c.TotalBytes()
	if before == 0 {
		t.Fatalf("expected nonzero total bytes")
	}
	c.Reset()
	freed := c.Compact()
	if freed != before {
		t.Fatalf("expected Compact to free %d bytes, freed %d", before, freed)
	}
	if c.TotalBytes() != 0 {
		t.Fatalf("expected TotalBytes 0 after compact, got %d", c.TotalBytes())
	}
}
