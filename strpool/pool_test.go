package strpool

import (
	"sync"
	"testing"
)

func TestInternGetRoundTrip(t *testing.T) {
	p := New()
	idx := p.Intern("hello")
	got, err := p.Get(idx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("Get(%d) = %q, want hello", idx, got)
	}
}

func TestInternIsStable(t *testing.T) {
	p := New()
	a := p.Intern("x")
	b := p.Intern("x")
	if a != b {
		t.Errorf("Intern not idempotent: %d != %d", a, b)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestIndexOf(t *testing.T) {
	p := New()
	if _, ok := p.IndexOf("missing"); ok {
		t.Error("expected not found")
	}
	idx := p.Intern("present")
	got, ok := p.IndexOf("present")
	if !ok || got != idx {
		t.Errorf("IndexOf(present) = (%d,%v), want (%d,true)", got, ok, idx)
	}
}

func TestGetOutOfRange(t *testing.T) {
	p := New()
	if _, err := p.Get(0); err == nil {
		t.Error("expected error for empty pool")
	}
}

func TestEachInsertionOrder(t *testing.T) {
	p := New()
	want := []string{"a", "b", "c"}
	for _, s := range want {
		p.Intern(s)
	}
	var got []string
	p.EachInsertionOrder(func(idx uint32, s string) bool {
		got = append(got, s)
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestConcurrentIntern(t *testing.T) {
	p := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Intern("shared")
			}
		}()
	}
	wg.Wait()
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after concurrent interning of one string", p.Len())
	}
}

func TestHashStringDeterministic(t *testing.T) {
	if HashString("foo") != HashString("foo") {
		t.Error("HashString must be deterministic within a process")
	}
	if HashString("foo") == HashString("bar") {
		t.Error("HashString collided unexpectedly for distinct inputs (flaky but suspicious)")
	}
}
