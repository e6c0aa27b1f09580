package simdops

import (
	"sync"

	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/coord"
	"github.com/xlsxcore/engine/internal/atomicext"
)

// ParallelBatchSum computes the same result as BatchSum but fans the
// range's rows out across workers goroutines, each summing its own slice
// of rows before folding its partial total into a shared accumulator with
// a lock-free float64 add (§4.6 "Worksheet emission" applies the same
// partition-and-fold shape to XML generation; this applies it to
// reduction). workers <= 1 falls back to BatchSum directly.
func ParallelBatchSum(b *cellbuf.Buffer, r coord.Range, workers int) float64 {
	fromRow := r.From.Row()
	toRow := r.To.Row()
	rows := int(toRow-fromRow) + 1
	if workers <= 1 || rows <= 1 {
		return BatchSum(b, r)
	}
	if workers > rows {
		workers = rows
	}

	var total float64
	chunk := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		startRow := fromRow + uint32(w*chunk)
		if startRow > toRow {
			break
		}
		endRow := startRow + uint32(chunk) - 1
		if endRow > toRow {
			endRow = toRow
		}
		wg.Add(1)
		go func(startRow, endRow uint32) {
			defer wg.Done()
			sub := coord.NewRange(coord.MustPack(startRow, r.From.Col()), coord.MustPack(endRow, r.To.Col()))
			partial := BatchSum(b, sub)
			atomicext.AddFloat64(&total, partial)
		}(startRow, endRow)
	}
	wg.Wait()
	return total
}
