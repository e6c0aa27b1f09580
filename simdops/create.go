package simdops

import (
	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/coord"
	"github.com/xlsxcore/engine/strpool"
	"github.com/xlsxcore/engine/xerr"
)

// BatchCreateNumbers appends n number slots to dst, one per
// (coords[i], values[i]) pair (§4.5 batch_create_numbers). Input arrays
// are walked LaneWidth() elements at a time; there is no arithmetic
// reduction here to reorder, so the lane width only affects how the
// input is chunked, not the observable result.
func BatchCreateNumbers(dst *cellbuf.Buffer, values []float64, coords []coord.Coord, n int) error {
	const op = "simdops.BatchCreateNumbers"
	if n > len(values) || n > len(coords) {
		return xerr.New(xerr.InvalidArgument, op, "n exceeds input length")
	}
	dst.Reserve(dst.Len() + n)
	lanes := LaneWidth()
	i := 0
	for ; i+lanes <= n; i += lanes {
		for l := 0; l < lanes; l++ {
			dst.AppendNumber(coords[i+l], values[i+l], 0)
		}
	}
	for ; i < n; i++ {
		dst.AppendNumber(coords[i], values[i], 0)
	}
	return nil
}

// BatchCreateStrings appends n string slots to dst, interning each string
// into pool (§4.5 batch_create_strings).
func BatchCreateStrings(dst *cellbuf.Buffer, strings []string, coords []coord.Coord, n int, pool *strpool.Pool) error {
	const op = "simdops.BatchCreateStrings"
	if n > len(strings) || n > len(coords) {
		return xerr.New(xerr.InvalidArgument, op, "n exceeds input length")
	}
	dst.Reserve(dst.Len() + n)
	for i := 0; i < n; i++ {
		idx := pool.Intern(strings[i])
		dst.AppendString(coords[i], idx, 0)
	}
	return nil
}

// BatchCreateMixed appends n tagged-value slots to dst, dispatching each
// element per its Type (§4.5 batch_create_mixed).
func BatchCreateMixed(dst *cellbuf.Buffer, variants []cellbuf.Value, coords []coord.Coord, n int) error {
	const op = "simdops.BatchCreateMixed"
	if n > len(variants) || n > len(coords) {
		return xerr.New(xerr.InvalidArgument, op, "n exceeds input length")
	}
	dst.Reserve(dst.Len() + n)
	for i := 0; i < n; i++ {
		dst.AppendMixed(coords[i], variants[i], 0)
	}
	return nil
}
