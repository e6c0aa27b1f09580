package cellbuf

import (
	"github.com/xlsxcore/engine/coord"
	"github.com/xlsxcore/engine/xerr"
)

// simdAlignDoubles is the growth granularity for number_values: a multiple
// of 8 doubles (64 bytes), per §4.4 "Growth policy".
const simdAlignDoubles = 8

// Buffer is the compact cell buffer (C4): five parallel columnar arrays of
// identical length and capacity, addressed by slot index, plus an external
// coord-to-slot index maintained alongside it.
//
// Unlike the originating design, which drives every array's storage through
// the tiered allocator (C3) by raw pointer, this type grows its arrays with
// ordinary Go slices and does not allocate through C3 at all: coordinates,
// float64 payloads and the index arrays are left to the Go runtime's own
// allocator, matching how idiomatic Go code treats typed slices versus raw
// byte arenas.
type Buffer struct {
	coordinates   []coord.Coord
	numberValues  []float64
	stringIndices []uint32
	styleIndices  []uint16
	cellTypes     []CellType

	size     int
	isSorted bool

	slots map[coord.Coord]int
}

// New constructs an empty buffer with the given initial capacity.
func New(capacity int) *Buffer {
	b := &Buffer{slots: make(map[coord.Coord]int, capacity)}
	if capacity > 0 {
		b.Reserve(capacity)
	}
	b.isSorted = true
	return b
}

// Len returns the number of live slots.
func (b *Buffer) Len() int { return b.size }

// Cap returns the current array capacity.
func (b *Buffer) Cap() int { return cap(b.coordinates) }

// IsSorted reports whether the arrays are currently in non-decreasing
// coordinate order.
func (b *Buffer) IsSorted() bool { return b.isSorted }

// Reserve grows capacity to at least n, rounding number_values' backing
// capacity up to a multiple of simdAlignDoubles doubles (§4.4).
func (b *Buffer) Reserve(n int) {
	if n <= cap(b.coordinates) {
		return
	}
	aligned := ((n + simdAlignDoubles - 1) / simdAlignDoubles) * simdAlignDoubles

	newCoords := make([]coord.Coord, b.size, aligned)
	newNums := make([]float64, b.size, aligned)
	newStrIdx := make([]uint32, b.size, aligned)
	newStyle := make([]uint16, b.size, aligned)
	newTypes := make([]CellType, b.size, aligned)

	copy(newCoords, b.coordinates)
	copy(newNums, b.numberValues)
	copy(newStrIdx, b.stringIndices)
	copy(newStyle, b.styleIndices)
	copy(newTypes, b.cellTypes)

	b.coordinates = newCoords
	b.numberValues = newNums
	b.stringIndices = newStrIdx
	b.styleIndices = newStyle
	b.cellTypes = newTypes
}

// Resize sets the live length to n, zero-extending or truncating the
// columnar arrays as needed.
func (b *Buffer) Resize(n int) {
	if n > cap(b.coordinates) {
		b.Reserve(n)
	}
	b.coordinates = b.coordinates[:n]
	b.numberValues = b.numberValues[:n]
	b.stringIndices = b.stringIndices[:n]
	b.styleIndices = b.styleIndices[:n]
	b.cellTypes = b.cellTypes[:n]
	b.size = n
}

// Clear empties the buffer without releasing its backing capacity.
func (b *Buffer) Clear() {
	b.Resize(0)
	for k := range b.slots {
		delete(b.slots, k)
	}
	b.isSorted = true
}

// ShrinkToFit drops unused backing capacity, leaving all five arrays with
// capacity equal to the live length.
func (b *Buffer) ShrinkToFit() {
	n := b.size
	coords := make([]coord.Coord, n)
	nums := make([]float64, n)
	strIdx := make([]uint32, n)
	style := make([]uint16, n)
	types := make([]CellType, n)
	copy(coords, b.coordinates)
	copy(nums, b.numberValues)
	copy(strIdx, b.stringIndices)
	copy(style, b.styleIndices)
	copy(types, b.cellTypes)
	b.coordinates, b.numberValues, b.stringIndices = coords, nums, strIdx
	b.styleIndices, b.cellTypes = style, types
}

func (b *Buffer) growOne() {
	if b.size == cap(b.coordinates) {
		next := cap(b.coordinates)*2 + simdAlignDoubles
		b.Reserve(next)
	}
	b.coordinates = b.coordinates[:b.size+1]
	b.numberValues = b.numberValues[:b.size+1]
	b.stringIndices = b.stringIndices[:b.size+1]
	b.styleIndices = b.styleIndices[:b.size+1]
	b.cellTypes = b.cellTypes[:b.size+1]
}

// appendRaw appends one slot's columnar fields and maintains is_sorted
// (§3 invariant iii: an out-of-order append clears it).
func (b *Buffer) appendRaw(c coord.Coord, typ CellType, num float64, strIdx uint32, style uint16) int {
	if b.size > 0 && c < b.coordinates[b.size-1] {
		b.isSorted = false
	}
	b.growOne()
	slot := b.size
	b.coordinates[slot] = c
	b.cellTypes[slot] = typ
	b.numberValues[slot] = num
	b.stringIndices[slot] = strIdx
	b.styleIndices[slot] = style
	b.size++
	b.slots[c] = slot
	return slot
}

// AppendNumber appends a numeric cell (§4.4 append_number).
func (b *Buffer) AppendNumber(c coord.Coord, v float64, style uint16) int {
	return b.appendRaw(c, TypeNumber, v, 0, style)
}

// AppendString appends a string cell by pool index (§4.4 append_string).
func (b *Buffer) AppendString(c coord.Coord, poolIdx uint32, style uint16) int {
	return b.appendRaw(c, TypeString, 0, poolIdx, style)
}

// AppendMixed appends a tagged Value, dispatching on its Type
// (§4.4 append_mixed).
func (b *Buffer) AppendMixed(c coord.Coord, v Value, style uint16) int {
	switch v.Type {
	case TypeEmpty:
		return b.appendRaw(c, TypeEmpty, 0, 0, style)
	case TypeNumber:
		return b.appendRaw(c, TypeNumber, v.Number, 0, style)
	case TypeString:
		return b.appendRaw(c, TypeString, 0, v.StringIdx, style)
	case TypeBool:
		n := 0.0
		if v.Number != 0 {
			n = 1.0
		}
		return b.appendRaw(c, TypeBool, n, 0, style)
	case TypeFormula:
		return b.appendRaw(c, TypeFormula, v.Number, v.StringIdx, style)
	default:
		return b.appendRaw(c, TypeEmpty, 0, 0, style)
	}
}

// Set writes value at c, overwriting the existing slot if c is already
// occupied or appending a new one otherwise (§4.4 "Set semantics").
func (b *Buffer) Set(c coord.Coord, v Value, style uint16) int {
	if slot, ok := b.slots[c]; ok {
		b.coordinates[slot] = c
		b.cellTypes[slot] = v.Type
		switch v.Type {
		case TypeNumber, TypeFormula:
			b.numberValues[slot] = v.Number
		case TypeBool:
			if v.Number != 0 {
				b.numberValues[slot] = 1
			} else {
				b.numberValues[slot] = 0
			}
		default:
			b.numberValues[slot] = 0
		}
		if v.Type == TypeString || v.Type == TypeFormula {
			b.stringIndices[slot] = v.StringIdx
		} else {
			b.stringIndices[slot] = 0
		}
		b.styleIndices[slot] = style
		return slot
	}
	return b.AppendMixed(c, v, style)
}

// Get reads the slot at c, if any.
func (b *Buffer) Get(c coord.Coord) (slot int, ok bool) {
	slot, ok = b.slots[c]
	return
}

// At returns the coordinate, type, number, string index and style of slot
// i, for callers walking the buffer directly (e.g. the serializer).
func (b *Buffer) At(i int) (c coord.Coord, typ CellType, num float64, strIdx uint32, style uint16) {
	return b.coordinates[i], b.cellTypes[i], b.numberValues[i], b.stringIndices[i], b.styleIndices[i]
}

// SlotMap exposes the coord-to-slot index for callers (e.g. a workbook
// sheet façade) that need to look up or rebuild it directly.
func (b *Buffer) SlotMap() map[coord.Coord]int { return b.slots }

func (b *Buffer) rebuildSlotMap() {
	for k := range b.slots {
		delete(b.slots, k)
	}
	for i := 0; i < b.size; i++ {
		b.slots[b.coordinates[i]] = i
	}
}

// CompressSparse removes every slot whose type is TypeEmpty in a single
// compacting pass and returns the number of slots removed (§4.4
// "Sparse compression"). The caller must rebuild the coord→slot map; this
// call does it for them since the map is buffer-owned here.
func (b *Buffer) CompressSparse() int {
	write := 0
	removed := 0
	for read := 0; read < b.size; read++ {
		if b.cellTypes[read] == TypeEmpty {
			removed++
			continue
		}
		if write != read {
			b.coordinates[write] = b.coordinates[read]
			b.numberValues[write] = b.numberValues[read]
			b.stringIndices[write] = b.stringIndices[read]
			b.styleIndices[write] = b.styleIndices[read]
			b.cellTypes[write] = b.cellTypes[read]
		}
		write++
	}
	b.Resize(write)
	b.rebuildSlotMap()
	return removed
}

// ClearRange marks every occupied slot within r as empty (§4.5
// clear_range). The caller is responsible for a subsequent CompressSparse
// and/or rebuilding any external index, per spec.
func (b *Buffer) ClearRange(r coord.Range) {
	for i := 0; i < b.size; i++ {
		if r.Contains(b.coordinates[i]) {
			b.cellTypes[i] = TypeEmpty
			b.numberValues[i] = 0
			b.stringIndices[i] = 0
		}
	}
}

var errOutOfBounds = xerr.New(xerr.InvalidRange, "cellbuf.Buffer.At", "slot index out of bounds")

// CheckBounds returns an error if i is not a valid slot index.
func (b *Buffer) CheckBounds(i int) error {
	if i < 0 || i >= b.size {
		return errOutOfBounds
	}
	return nil
}
