package cellbuf

import (
	"testing"

	"github.com/xlsxcore/engine/coord"
)

func c(row, col uint32) coord.Coord { return coord.MustPack(row, col) }

func TestAppendNumberAndGet(t *testing.T) {
	b := New(0)
	slot := b.AppendNumber(c(1, 1), 42.0, 0)
	if b.Len() != 1 {
		t.Fatalf("expected length 1, got %d", b.Len())
	}
	got, typ, num, _, _ := b.At(slot)
	if got != c(1, 1) || typ != TypeNumber || num != 42.0 {
		t.Fatalf("unexpected slot contents: %v %v %v", got, typ, num)
	}
}

func TestSetOverwritesExistingSlot(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(1, 1), 1.0, 0)
	b.Set(c(1, 1), Value{Type: TypeNumber, Number: 99.0}, 0)
	if b.Len() != 1 {
		t.Fatalf("expected overwrite not to grow buffer, got len %d", b.Len())
	}
	slot, ok := b.Get(c(1, 1))
	if !ok {
		t.Fatal("expected slot present")
	}
	_, _, num, _, _ := b.At(slot)
	if num != 99.0 {
		t.Fatalf("expected overwritten value 99.0, got %v", num)
	}
}

func TestSetAppendsWhenAbsent(t *testing.T) {
	b := New(0)
	b.Set(c(2, 2), Value{Type: TypeNumber, Number: 5}, 0)
	if b.Len() != 1 {
		t.Fatalf("expected 1 slot, got %d", b.Len())
	}
}

func TestIsSortedClearedOnOutOfOrderAppend(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(5, 5), 1, 0)
	if !b.IsSorted() {
		t.Fatal("single-element buffer should be sorted")
	}
	b.AppendNumber(c(1, 1), 2, 0)
	if b.IsSorted() {
		t.Fatal("expected is_sorted to clear on out-of-order append")
	}
}

func TestIsSortedStaysTrueOnIncreasingAppend(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(1, 1), 1, 0)
	b.AppendNumber(c(1, 2), 2, 0)
	b.AppendNumber(c(2, 1), 3, 0)
	if !b.IsSorted() {
		t.Fatal("expected is_sorted to remain true for increasing appends")
	}
}

func TestSortByCoordOrdersAndRebuildsMap(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(3, 1), 3, 0)
	b.AppendNumber(c(1, 1), 1, 0)
	b.AppendNumber(c(2, 1), 2, 0)
	b.SortByCoord()
	if !b.IsSorted() {
		t.Fatal("expected sorted after SortByCoord")
	}
	for i := 0; i < b.Len(); i++ {
		cr, _, num, _, _ := b.At(i)
		if cr.Row() != uint32(i+1) || num != float64(i+1) {
			t.Fatalf("slot %d out of order: row=%d num=%v", i, cr.Row(), num)
		}
		slot, ok := b.Get(cr)
		if !ok || slot != i {
			t.Fatalf("coord->slot map not rebuilt for slot %d", i)
		}
	}
}

func TestSortByCoordNoOpWhenAlreadySorted(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(1, 1), 1, 0)
	b.AppendNumber(c(2, 1), 2, 0)
	b.SortByCoord()
	if !b.IsSorted() {
		t.Fatal("expected sorted")
	}
}

func TestRowGroupsOnSortedBuffer(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(1, 1), 1, 0)
	b.AppendNumber(c(1, 2), 2, 0)
	b.AppendNumber(c(2, 1), 3, 0)
	groups := b.RowGroups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 row groups, got %d", len(groups))
	}
	if groups[0].Row != 1 || groups[0].SlotCount != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Row != 2 || groups[1].SlotCount != 1 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
}

func TestRowGroupsUndefinedOnUnsortedReturnsNil(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(5, 1), 1, 0)
	b.AppendNumber(c(1, 1), 2, 0)
	if b.IsSorted() {
		t.Fatal("expected unsorted buffer for this test")
	}
	if groups := b.RowGroups(); groups != nil {
		t.Fatalf("expected nil row groups on unsorted buffer, got %v", groups)
	}
}

func TestCompressSparseRemovesEmptySlots(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(1, 1), 1, 0)
	b.AppendMixed(c(1, 2), Value{Type: TypeEmpty}, 0)
	b.AppendNumber(c(1, 3), 3, 0)
	removed := b.CompressSparse()
	if removed != 1 {
		t.Fatalf("expected 1 removed slot, got %d", removed)
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 remaining slots, got %d", b.Len())
	}
	if _, ok := b.Get(c(1, 2)); ok {
		t.Fatal("expected empty slot's coordinate to be gone from the map")
	}
}

func TestClearRangeMarksSlotsEmpty(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(1, 1), 1, 0)
	b.AppendNumber(c(1, 2), 2, 0)
	r := coord.NewRange(c(1, 1), c(1, 1))
	b.ClearRange(r)
	_, typ, _, _, _ := b.At(0)
	if typ != TypeEmpty {
		t.Fatalf("expected slot 0 cleared, got type %v", typ)
	}
	_, typ2, _, _, _ := b.At(1)
	if typ2 == TypeEmpty {
		t.Fatal("expected slot 1 to remain populated")
	}
}

func TestReserveRoundsUpToSIMDAlignment(t *testing.T) {
	b := New(0)
	b.Reserve(3)
	if b.Cap()%simdAlignDoubles != 0 {
		t.Fatalf("expected capacity rounded to multiple of %d, got %d", simdAlignDoubles, b.Cap())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := New(0)
	b.AppendNumber(c(1, 1), 1, 0)
	clone := b.Clone()
	clone.AppendNumber(c(2, 2), 2, 0)
	if b.Len() != 1 {
		t.Fatalf("expected original buffer unaffected by clone mutation, got len %d", b.Len())
	}
	if clone.Len() != 2 {
		t.Fatalf("expected clone to have 2 slots, got %d", clone.Len())
	}
}

func TestArraysStayEqualLength(t *testing.T) {
	b := New(0)
	for i := 1; i <= 20; i++ {
		b.AppendNumber(c(uint32(i), 1), float64(i), 0)
	}
	n := b.Len()
	if len(b.coordinates) != n || len(b.numberValues) != n || len(b.stringIndices) != n ||
		len(b.styleIndices) != n || len(b.cellTypes) != n {
		t.Fatal("columnar arrays diverged in length")
	}
}
