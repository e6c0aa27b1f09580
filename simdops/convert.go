package simdops

import (
	"strconv"
	"strings"

	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/coord"
)

// BatchConvertA1ToPacked parses n A1-notation references from refs into
// out, returning the count of successful conversions. Conversion is
// total (never errors) for well-formed input within Excel's limits;
// malformed or out-of-range entries are skipped and leave their out[]
// slot untouched (§4.5 batch_convert_a1_to_packed).
func BatchConvertA1ToPacked(refs []string, out []coord.Coord, n int) int {
	if n > len(refs) || n > len(out) {
		n = min(len(refs), len(out))
	}
	count := 0
	for i := 0; i < n; i++ {
		c, err := coord.ParseA1(refs[i])
		if err != nil {
			continue
		}
		out[i] = c
		count++
	}
	return count
}

// BatchDetectTypes classifies n strings into out per element: a value
// parseable as a float64 is TypeNumber; "TRUE"/"FALSE" (case-insensitive)
// is TypeBool; anything else is TypeString (§4.5 batch_detect_types).
func BatchDetectTypes(strings_ []string, out []cellbuf.CellType, n int) {
	if n > len(strings_) {
		n = len(strings_)
	}
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = detectType(strings_[i])
	}
}

func detectType(s string) cellbuf.CellType {
	if strings.EqualFold(s, "TRUE") || strings.EqualFold(s, "FALSE") {
		return cellbuf.TypeBool
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return cellbuf.TypeNumber
	}
	return cellbuf.TypeString
}
