package cellbuf

import "github.com/xlsxcore/engine/coord"

// isSortedAscCoord mirrors the ascending scan in the teacher's
// isSortedAscFloat64: a single forward pass over packed keys.
func isSortedAscCoord(keys []coord.Coord) bool {
	for i := 1; i < len(keys); i++ {
		if keys[i] < keys[i-1] {
			return false
		}
	}
	return true
}

// quicksortAscCoord sorts keys ascending, permuting indices (initially
// 0..n-1) in lockstep, the same keys+indices dual-array shape the
// teacher's scalarQuicksortAscUint64SingleThread partitions, generalized
// here from uint64 to the packed Coord key and trimmed to a single
// worker (the buffer's sort is not large enough to need the teacher's
// thread-pool fan-out).
func quicksortAscCoord(keys []coord.Coord, indices []int, left, right int) {
	if left >= right {
		return
	}
	pivot := keys[(left+right)/2]
	i, j := partitionAscCoord(keys, indices, pivot, left, right)
	if left < j {
		quicksortAscCoord(keys, indices, left, j)
	}
	if i < right {
		quicksortAscCoord(keys, indices, i, right)
	}
}

func partitionAscCoord(keys []coord.Coord, indices []int, pivot coord.Coord, left, right int) (int, int) {
	for left <= right {
		for keys[left] < pivot {
			left++
		}
		for keys[right] > pivot {
			right--
		}
		if left <= right {
			keys[left], keys[right] = keys[right], keys[left]
			indices[left], indices[right] = indices[right], indices[left]
			left++
			right--
		}
	}
	return left, right
}

// SortByCoord sorts the buffer's slots by ascending packed coordinate,
// permuting all five columnar arrays together, rebuilding the coord→slot
// map, and setting is_sorted (§4.4 "Sort"). Ties cannot occur by §3
// invariant (iv), so the sort need not be stable.
func (b *Buffer) SortByCoord() {
	if b.isSorted || b.size <= 1 {
		b.isSorted = true
		return
	}

	keys := append([]coord.Coord(nil), b.coordinates[:b.size]...)
	indices := make([]int, b.size)
	for i := range indices {
		indices[i] = i
	}
	quicksortAscCoord(keys, indices, 0, b.size-1)

	permCoords := make([]coord.Coord, b.size)
	permNums := make([]float64, b.size)
	permStrIdx := make([]uint32, b.size)
	permStyle := make([]uint16, b.size)
	permTypes := make([]CellType, b.size)
	for newPos, oldPos := range indices {
		permCoords[newPos] = b.coordinates[oldPos]
		permNums[newPos] = b.numberValues[oldPos]
		permStrIdx[newPos] = b.stringIndices[oldPos]
		permStyle[newPos] = b.styleIndices[oldPos]
		permTypes[newPos] = b.cellTypes[oldPos]
	}
	copy(b.coordinates, permCoords)
	copy(b.numberValues, permNums)
	copy(b.stringIndices, permStrIdx)
	copy(b.styleIndices, permStyle)
	copy(b.cellTypes, permTypes)

	b.rebuildSlotMap()
	b.isSorted = true
}
