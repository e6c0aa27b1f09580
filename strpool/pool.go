// Package strpool implements the global string pool: a thread-safe interner
// mapping distinct strings to stable, dense indices for the lifetime of the
// pool, per spec §3 "Global string pool".
//
// Reads (Get, IndexOf) are lock-free once a string has been interned: the
// insertion-stable slice of entries is only ever appended to under lock and
// read via an atomic snapshot pointer, so a reader never blocks on a writer
// past the point where it already observed the entry it wants.
package strpool

import (
	"sync"
	"sync/atomic"

	"github.com/dchest/siphash"
	"github.com/xlsxcore/engine/xerr"
)

// hash keys for HashString (the pool's own index is a Go map and does not
// use them). Fixed, not random: the pool's
// purpose is dense-index stability within a process run, not adversarial
// resistance, so a fixed key keeps behavior reproducible across runs
// (useful for golden-file tests of generated XML).
const (
	hashK0 = 0x9ae16a3b2f90404f
	hashK1 = 0xc949d7c7509e6557
)

// snapshot is the immutable, append-only view of interned strings. Readers
// load *snapshot atomically; writers build a new one under lock and publish
// it after appending.
type snapshot struct {
	strings []string
	index   map[string]uint32
}

// Pool is a process-wide (or test-scoped) string interner. The zero value
// is not usable; construct with New.
type Pool struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

// New returns an empty Pool ready for use.
func New() *Pool {
	p := &Pool{}
	p.snap.Store(&snapshot{index: make(map[string]uint32)})
	return p
}

// HashString returns a fast, process-stable 64-bit hash of s using the
// pool's siphash key, for callers that want to deduplicate a local batch
// of strings cheaply before paying the pool's lock to intern the
// survivors. No package in this module calls it.
func HashString(s string) uint64 {
	return siphash.Hash(hashK0, hashK1, []byte(s))
}

// Intern returns the stable index of s, inserting it if it has not been
// seen before. The returned index is valid for the lifetime of the pool.
func (p *Pool) Intern(s string) uint32 {
	snap := p.snap.Load()
	if idx, ok := snap.index[s]; ok {
		return idx
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// re-check under lock: another writer may have interned s already.
	snap = p.snap.Load()
	if idx, ok := snap.index[s]; ok {
		return idx
	}

	idx := uint32(len(snap.strings))
	next := &snapshot{
		strings: append(append([]string(nil), snap.strings...), s),
		index:   make(map[string]uint32, len(snap.index)+1),
	}
	for k, v := range snap.index {
		next.index[k] = v
	}
	next.index[s] = idx
	p.snap.Store(next)
	return idx
}

// IndexOf returns the index of s and true if s has been interned, or
// (0, false) otherwise.
func (p *Pool) IndexOf(s string) (uint32, bool) {
	snap := p.snap.Load()
	idx, ok := snap.index[s]
	return idx, ok
}

// Get returns the interned string at idx.
func (p *Pool) Get(idx uint32) (string, error) {
	snap := p.snap.Load()
	if int(idx) >= len(snap.strings) {
		return "", xerr.New(xerr.NotFound, "strpool.Get", "index out of range")
	}
	return snap.strings[idx], nil
}

// Len returns the number of distinct strings interned so far.
func (p *Pool) Len() int {
	return len(p.snap.Load().strings)
}

// Stats reports aggregate pool statistics for diagnostics/monitoring.
type Stats struct {
	Count int
	Bytes int
}

// Stats returns the current count of interned strings and their total
// byte length.
func (p *Pool) Stats() Stats {
	snap := p.snap.Load()
	s := Stats{Count: len(snap.strings)}
	for _, str := range snap.strings {
		s.Bytes += len(str)
	}
	return s
}

// EachInsertionOrder calls fn for every interned string in the order it
// was first interned — the order spec §6 requires for shared-strings-part
// emission. Iteration stops early if fn returns false.
func (p *Pool) EachInsertionOrder(fn func(idx uint32, s string) bool) {
	snap := p.snap.Load()
	for i, s := range snap.strings {
		if !fn(uint32(i), s) {
			return
		}
	}
}
