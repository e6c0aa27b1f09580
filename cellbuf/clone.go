package cellbuf

import "github.com/xlsxcore/engine/coord"

// Clone returns an independent deep copy of b, including its coord→slot
// map. Mutating either buffer afterwards does not affect the other. The
// copy's five arrays share one capacity, like those of any other Buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		isSorted: b.isSorted,
		slots:    make(map[coord.Coord]int, len(b.slots)),
	}
	out.Resize(b.size)
	copy(out.coordinates, b.coordinates)
	copy(out.numberValues, b.numberValues)
	copy(out.stringIndices, b.stringIndices)
	copy(out.styleIndices, b.styleIndices)
	copy(out.cellTypes, b.cellTypes)
	for k, v := range b.slots {
		out.slots[k] = v
	}
	return out
}
