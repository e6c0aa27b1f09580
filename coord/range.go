package coord

import "github.com/xlsxcore/engine/xerr"

// Range is an inclusive rectangular block of cells, addressed by its
// top-left and bottom-right corners.
type Range struct {
	From, To Coord
}

// NewRange builds a Range from two corners, normalizing them so From is
// the top-left and To is the bottom-right regardless of argument order.
func NewRange(a, b Coord) Range {
	ar, ac := a.Unpack()
	br, bc := b.Unpack()
	if ar > br {
		ar, br = br, ar
	}
	if ac > bc {
		ac, bc = bc, ac
	}
	return Range{From: MustPack(ar, ac), To: MustPack(br, bc)}
}

// Rows returns the number of rows spanned by r.
func (r Range) Rows() int {
	fr, _ := r.From.Unpack()
	tr, _ := r.To.Unpack()
	return int(tr-fr) + 1
}

// Cols returns the number of columns spanned by r.
func (r Range) Cols() int {
	_, fc := r.From.Unpack()
	_, tc := r.To.Unpack()
	return int(tc-fc) + 1
}

// Cells returns the total number of cells spanned by r (Rows() * Cols()).
func (r Range) Cells() int { return r.Rows() * r.Cols() }

// Contains reports whether c falls within r, inclusive of both corners.
func (r Range) Contains(c Coord) bool {
	row, col := c.Unpack()
	fr, fc := r.From.Unpack()
	tr, tc := r.To.Unpack()
	return row >= fr && row <= tr && col >= fc && col <= tc
}

// Validate checks that r's corners are ordered (From <= To in both
// dimensions) and within the worksheet grid limits.
func (r Range) Validate() error {
	const op = "coord.Range.Validate"
	fr, fc := r.From.Unpack()
	tr, tc := r.To.Unpack()
	if fr > tr || fc > tc {
		return xerr.New(xerr.InvalidRange, op, "range corners out of order")
	}
	if tr > MaxRow || tc > MaxCol {
		return xerr.New(xerr.InvalidRange, op, "range exceeds worksheet bounds")
	}
	return nil
}

// Each calls fn for every coordinate in r in row-major order. Each stops
// early if fn returns false.
func (r Range) Each(fn func(Coord) bool) {
	fr, fc := r.From.Unpack()
	tr, tc := r.To.Unpack()
	for row := fr; row <= tr; row++ {
		for col := fc; col <= tc; col++ {
			if !fn(MustPack(row, col)) {
				return
			}
		}
	}
}

// ParseRangeA1 parses an "A1:B2"-style range reference.
func ParseRangeA1(s string) (Range, error) {
	const op = "coord.ParseRangeA1"
	i := -1
	for j := 0; j < len(s); j++ {
		if s[j] == ':' {
			i = j
			break
		}
	}
	if i < 0 {
		return Range{}, xerr.New(xerr.InvalidArgument, op, "missing ':' in range "+quote(s))
	}
	from, err := ParseA1(s[:i])
	if err != nil {
		return Range{}, xerr.Wrap(xerr.InvalidArgument, op, "bad range start", err)
	}
	to, err := ParseA1(s[i+1:])
	if err != nil {
		return Range{}, xerr.Wrap(xerr.InvalidArgument, op, "bad range end", err)
	}
	return NewRange(from, to), nil
}
