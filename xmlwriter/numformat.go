package xmlwriter

import (
	"math"
	"strconv"
)

// maxSignificantDigits is the hard fallback cap §4.6 "Number formatting"
// imposes when the shortest round-tripping representation would need more
// digits than Excel's own double precision convention allows.
const maxSignificantDigits = 15

// appendFloat appends the SpreadsheetML textual form of v to dst: the
// shortest decimal representation that round-trips to v, falling back to
// 15 significant digits, with NaN and infinities mapped to the sentinel
// values §4.6 specifies and integral values written without a decimal
// point.
func appendFloat(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, '0')
	case math.IsInf(v, 1):
		return append(dst, "1E+308"...)
	case math.IsInf(v, -1):
		return append(dst, "-1E+308"...)
	}

	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.AppendFloat(dst, v, 'f', -1, 64)
	}

	shortest := strconv.FormatFloat(v, 'g', -1, 64)
	if significantDigits(shortest) <= maxSignificantDigits {
		return append(dst, shortest...)
	}
	return strconv.AppendFloat(dst, v, 'g', maxSignificantDigits, 64)
}

// significantDigits counts the decimal digits in s, a strconv 'g'-formatted
// float, ignoring the sign, decimal point, and any exponent suffix.
func significantDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == 'e' || c == 'E':
			return n
		case c >= '0' && c <= '9':
			n++
		}
	}
	return n
}
