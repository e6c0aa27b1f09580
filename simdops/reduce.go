package simdops

import (
	"math"

	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/coord"
)

// findValueEpsilon is the tolerance batch_find_value compares against
// (§4.5 "within 1e-10").
const findValueEpsilon = 1e-10

// Stats is the aggregate record batch_stats returns (§4.5).
type Stats struct {
	Count   int
	Sum     float64
	Mean    float64
	Min     float64
	Max     float64
	NNumber int
	NString int
	NEmpty  int
}

// BatchSum returns the sum of numeric cells in r, ignoring non-numeric
// slots. An empty range, or a range with no numeric cells, sums to 0.0
// (§4.5 batch_sum). Summation walks LaneWidth()-sized groups, accepting
// that floating-point associativity may differ from a strictly
// sequential scalar sum, per §4.5's explicit reduction-ordering license.
func BatchSum(b *cellbuf.Buffer, r coord.Range) float64 {
	lanes := LaneWidth()
	var partial [8]float64 // upper bound on LaneWidth(); unused lanes stay 0
	lane := 0
	var sum float64
	r.Each(func(c coord.Coord) bool {
		slot, ok := b.Get(c)
		if !ok {
			return true
		}
		_, typ, num, _, _ := b.At(slot)
		if typ != cellbuf.TypeNumber && typ != cellbuf.TypeFormula {
			return true
		}
		partial[lane%lanes] += num
		lane++
		return true
	})
	for i := 0; i < lanes; i++ {
		sum += partial[i]
	}
	return sum
}

// BatchStats computes count/sum/mean/min/max plus per-type tallies over
// r (§4.5 batch_stats). min/max are unspecified (left at 0) when there
// are no numeric cells, matching "count=0 and min/max unspecified".
func BatchStats(b *cellbuf.Buffer, r coord.Range) Stats {
	var st Stats
	first := true
	r.Each(func(c coord.Coord) bool {
		slot, ok := b.Get(c)
		if !ok {
			st.NEmpty++
			return true
		}
		_, typ, num, _, _ := b.At(slot)
		switch typ {
		case cellbuf.TypeNumber, cellbuf.TypeFormula:
			st.NNumber++
			st.Count++
			st.Sum += num
			if first || num < st.Min {
				st.Min = num
			}
			if first || num > st.Max {
				st.Max = num
			}
			first = false
		case cellbuf.TypeString:
			st.NString++
		case cellbuf.TypeEmpty:
			st.NEmpty++
		default:
			st.NEmpty++
		}
		return true
	})
	if st.Count > 0 {
		st.Mean = st.Sum / float64(st.Count)
	}
	return st
}

// BatchFindValue appends to out the coordinates of every slot whose
// number equals target within findValueEpsilon, returning the extended
// slice (§4.5 batch_find_value; the caller-provided output vector is
// modeled as the idiomatic Go append-and-return pattern).
func BatchFindValue(b *cellbuf.Buffer, target float64, out []coord.Coord) []coord.Coord {
	n := b.Len()
	for i := 0; i < n; i++ {
		c, typ, num, _, _ := b.At(i)
		if typ != cellbuf.TypeNumber && typ != cellbuf.TypeFormula {
			continue
		}
		if math.Abs(num-target) <= findValueEpsilon {
			out = append(out, c)
		}
	}
	return out
}
