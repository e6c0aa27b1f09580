// Package workbook is the façade that ties the core's pieces — coord,
// strpool, alloc, cellbuf, simdops, xmlwriter — into the small surface a
// caller actually builds an XLSX file with: add sheets, set cells, save.
package workbook

import (
	"github.com/xlsxcore/engine/alloc"
	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/strpool"
)

// Workbook owns a global string pool and a set of sheets. It is not
// internally thread-safe: per §5 "Ordering", all mutation of a single
// workbook's sheets must happen on one thread or be externally
// synchronized.
type Workbook struct {
	Pool      *strpool.Pool
	Allocator *alloc.Unified
	sheets    []*Sheet
}

// New constructs an empty Workbook with its own string pool and unified
// allocator, per §9 "Global mutable state" — injectable for testability
// rather than a process-wide singleton.
func New() *Workbook {
	return &Workbook{
		Pool:      strpool.New(),
		Allocator: alloc.NewUnified(alloc.Config{}),
	}
}

// AddSheet appends a new, empty sheet named name and returns it.
func (wb *Workbook) AddSheet(name string) *Sheet {
	s := &Sheet{
		Name:   name,
		id:     len(wb.sheets) + 1,
		buffer: cellbuf.New(0),
		pool:   wb.Pool,
	}
	wb.sheets = append(wb.sheets, s)
	return s
}

// Sheets returns the workbook's sheets, in the order they were added.
func (wb *Workbook) Sheets() []*Sheet { return wb.sheets }

// Close shuts down the workbook's allocator monitor thread. Call it when
// the workbook is no longer needed.
func (wb *Workbook) Close() {
	if wb.Allocator != nil {
		wb.Allocator.Shutdown()
	}
}
