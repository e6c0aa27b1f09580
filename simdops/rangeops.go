package simdops

import (
	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/coord"
	"github.com/xlsxcore/engine/xerr"
)

// FillRange writes value to every cell in r, overwriting existing
// coordinates (§4.5 fill_range).
func FillRange(dst *cellbuf.Buffer, r coord.Range, value cellbuf.Value) error {
	const op = "simdops.FillRange"
	if err := r.Validate(); err != nil {
		return xerr.Wrap(xerr.InvalidRange, op, "invalid range", err)
	}
	r.Each(func(c coord.Coord) bool {
		dst.Set(c, value, 0)
		return true
	})
	return nil
}

// ClearRange marks every occupied slot within r as empty
// (§4.5 clear_range); it is a thin pass-through to cellbuf.Buffer's own
// ClearRange, kept here so callers reach every batch operation through
// one package.
func ClearRange(dst *cellbuf.Buffer, r coord.Range) error {
	const op = "simdops.ClearRange"
	if err := r.Validate(); err != nil {
		return xerr.Wrap(xerr.InvalidRange, op, "invalid range", err)
	}
	dst.ClearRange(r)
	return nil
}

// CopyRange duplicates each occupied slot in srcRange into dst, anchored
// at dstStart with the same row/col offset as the source range's
// top-left corner, preserving type and style (§4.5 copy_range). It fails
// if any shifted destination coordinate would overflow the worksheet
// bounds.
func CopyRange(dst *cellbuf.Buffer, srcRange coord.Range, dstStart coord.Coord) error {
	const op = "simdops.CopyRange"
	if err := srcRange.Validate(); err != nil {
		return xerr.Wrap(xerr.InvalidRange, op, "invalid source range", err)
	}
	srcRow, srcCol := srcRange.From.Unpack()
	dstRow, dstCol := dstStart.Unpack()
	rowOff := int64(dstRow) - int64(srcRow)
	colOff := int64(dstCol) - int64(srcCol)

	type pending struct {
		c     coord.Coord
		typ   cellbuf.CellType
		num   float64
		str   uint32
		style uint16
	}
	var writes []pending

	var rangeErr error
	srcRange.Each(func(c coord.Coord) bool {
		slot, ok := dst.Get(c)
		if !ok {
			return true
		}
		row, col := c.Unpack()
		newRow := int64(row) + rowOff
		newCol := int64(col) + colOff
		if newRow < 1 || newRow > int64(coord.MaxRow) || newCol < 1 || newCol > int64(coord.MaxCol) {
			rangeErr = xerr.New(xerr.InvalidRange, op, "destination coordinate overflows worksheet bounds")
			return false
		}
		nc, err := coord.Pack(uint32(newRow), uint32(newCol))
		if err != nil {
			rangeErr = xerr.Wrap(xerr.InvalidRange, op, "destination coordinate invalid", err)
			return false
		}
		_, typ, num, str, style := dst.At(slot)
		writes = append(writes, pending{nc, typ, num, str, style})
		return true
	})
	if rangeErr != nil {
		return rangeErr
	}
	for _, w := range writes {
		dst.Set(w.c, cellbuf.Value{Type: w.typ, Number: w.num, StringIdx: w.str}, w.style)
	}
	return nil
}
