// Package coord implements packed cell coordinates and Excel A1-notation
// conversion. A Coord is a 1-based (row, col) pair packed into a single
// uint32 word, the way the core's columnar buffers store them for cache
// density.
package coord

import (
	"fmt"

	"github.com/xlsxcore/engine/xerr"
)

const (
	// MaxRow is the highest row index (1-based) that fits the packed
	// word's 16 high bits. Excel's worksheet grid itself permits rows up
	// to 1,048,576, but (row << 16) | col cannot losslessly hold a
	// 20-bit row alongside a 14-bit col in a single 32-bit word; the
	// packed-coordinate fast path this core is built around (mirroring
	// the original packed_coords layout, 16 bits each for row and col)
	// caps rows at 65,535 as a result.
	MaxRow uint32 = 1<<16 - 1 // 65,535
	// MaxCol is the highest valid column index (1-based), matching
	// Excel's worksheet grid limit.
	MaxCol uint32 = 1 << 14 // 16,384
)

// Coord is a packed (row << 16) | col coordinate. Both row and col are
// 1-based; the zero Coord is never valid.
type Coord uint32

// Pack builds a Coord from 1-based row and col indices, validating both
// against the worksheet grid limits.
func Pack(row, col uint32) (Coord, error) {
	if row < 1 || row > MaxRow {
		return 0, xerr.New(xerr.InvalidArgument, "coord.Pack", fmt.Sprintf("row %d out of range [1,%d]", row, MaxRow))
	}
	if col < 1 || col > MaxCol {
		return 0, xerr.New(xerr.InvalidArgument, "coord.Pack", fmt.Sprintf("col %d out of range [1,%d]", col, MaxCol))
	}
	return Coord(row<<16 | col), nil
}

// MustPack is Pack but panics on error; intended for test fixtures and
// compile-time-known coordinates.
func MustPack(row, col uint32) Coord {
	c, err := Pack(row, col)
	if err != nil {
		panic(err)
	}
	return c
}

// Unpack returns the 1-based row and col that make up c.
func (c Coord) Unpack() (row, col uint32) {
	return uint32(c) >> 16, uint32(c) & 0xFFFF
}

// Row returns the 1-based row component.
func (c Coord) Row() uint32 { row, _ := c.Unpack(); return row }

// Col returns the 1-based column component.
func (c Coord) Col() uint32 { _, col := c.Unpack(); return col }

// Less reports whether c sorts before other in (row, col) lexicographic
// order, which for a packed uint32 with row in the high bits is simply
// numeric comparison.
func (c Coord) Less(other Coord) bool { return c < other }

// A1 renders c in Excel A1 notation, e.g. "A1", "AA100".
func (c Coord) A1() string {
	row, col := c.Unpack()
	return string(columnLetters(col)) + fmt.Sprintf("%d", row)
}

func columnLetters(col uint32) []byte {
	if col == 0 {
		return nil
	}
	var buf [8]byte
	i := len(buf)
	for col > 0 {
		col--
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return buf[i:]
}
