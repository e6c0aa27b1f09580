package workbook

import (
	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/coord"
	"github.com/xlsxcore/engine/simdops"
	"github.com/xlsxcore/engine/strpool"
)

// Sheet is one worksheet within a Workbook: a name and a compact cell
// buffer.
type Sheet struct {
	Name string

	id     int
	buffer *cellbuf.Buffer
	pool   *strpool.Pool
}

// Buffer exposes the sheet's underlying compact cell buffer, for callers
// that want direct access to batch/SIMD operations (cellbuf, simdops).
func (s *Sheet) Buffer() *cellbuf.Buffer { return s.buffer }

// SetNumber sets ref to the numeric value v.
func (s *Sheet) SetNumber(ref string, v float64) error {
	c, err := coord.ParseA1(ref)
	if err != nil {
		return err
	}
	s.buffer.Set(c, cellbuf.Value{Type: cellbuf.TypeNumber, Number: v}, 0)
	return nil
}

// SetString sets ref to the string value v, interning v in the workbook's
// shared string pool.
func (s *Sheet) SetString(ref string, v string) error {
	c, err := coord.ParseA1(ref)
	if err != nil {
		return err
	}
	idx := s.pool.Intern(v)
	s.buffer.Set(c, cellbuf.Value{Type: cellbuf.TypeString, StringIdx: idx}, 0)
	return nil
}

// SetBool sets ref to the boolean value v.
func (s *Sheet) SetBool(ref string, v bool) error {
	c, err := coord.ParseA1(ref)
	if err != nil {
		return err
	}
	n := 0.0
	if v {
		n = 1.0
	}
	s.buffer.Set(c, cellbuf.Value{Type: cellbuf.TypeBool, Number: n}, 0)
	return nil
}

// SetFormula sets ref to a formula with expression text expr and cached
// numeric result cached.
func (s *Sheet) SetFormula(ref string, expr string, cached float64) error {
	c, err := coord.ParseA1(ref)
	if err != nil {
		return err
	}
	idx := s.pool.Intern(expr)
	s.buffer.Set(c, cellbuf.Value{Type: cellbuf.TypeFormula, Number: cached, StringIdx: idx}, 0)
	return nil
}

// FillRange sets every cell in the A1:A1-style range rangeRef to the
// numeric value v (§4.5 fill_range).
func (s *Sheet) FillRange(rangeRef string, v float64) error {
	r, err := coord.ParseRangeA1(rangeRef)
	if err != nil {
		return err
	}
	return simdops.FillRange(s.buffer, r, cellbuf.Value{Type: cellbuf.TypeNumber, Number: v})
}

// BatchSum returns the sum of numeric cells in the A1:A1-style range
// rangeRef (§4.5 batch_sum).
func (s *Sheet) BatchSum(rangeRef string) (float64, error) {
	r, err := coord.ParseRangeA1(rangeRef)
	if err != nil {
		return 0, err
	}
	return simdops.BatchSum(s.buffer, r), nil
}
