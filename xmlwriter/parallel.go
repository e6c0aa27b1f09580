package xmlwriter

import (
	"sync"

	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/strpool"
)

// WriteWorksheetParallel serializes b exactly as WriteWorksheet does, but
// partitions the sorted buffer's row groups across workers private buffers
// and concatenates them in row-group order at the end (§4.6 "Worksheet
// emission" parallel-emission note). The result is byte-for-byte identical
// to WriteWorksheet's single-threaded output. workers <= 1 runs inline.
func WriteWorksheetParallel(w *RawWriter, b *cellbuf.Buffer, pool *strpool.Pool, workers int) {
	groups := b.RowGroups()
	if workers <= 1 || len(groups) <= 1 {
		WriteWorksheet(w, b, pool)
		return
	}
	if workers > len(groups) {
		workers = len(groups)
	}

	parts := make([]*RawWriter, workers)
	chunk := (len(groups) + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunk
		end := start + chunk
		if start >= len(groups) {
			parts[i] = New()
			continue
		}
		if end > len(groups) {
			end = len(groups)
		}
		wg.Add(1)
		go func(i, start, end int) {
			defer wg.Done()
			pw := New()
			for _, rg := range groups[start:end] {
				writeRow(pw, b, rg, pool)
			}
			parts[i] = pw
		}(i, start, end)
	}
	wg.Wait()

	w.WriteConstant(xmlDeclaration)
	w.WriteConstant(worksheetOpen)
	w.WriteConstant(sheetDataOpen)
	for _, pw := range parts {
		w.WriteRaw(pw.Bytes())
	}
	w.WriteConstant(sheetDataEnd)
	w.WriteConstant(worksheetEnd)
}
