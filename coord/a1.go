package coord

import (
	"strconv"

	"github.com/xlsxcore/engine/xerr"
)

// ParseA1 parses an Excel A1-notation reference such as "A1" or "aa100"
// into a Coord. Letters are case-insensitive; the grammar accepted is
// [A-Za-z]+[0-9]+ with nothing else.
func ParseA1(s string) (Coord, error) {
	const op = "coord.ParseA1"
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, xerr.New(xerr.InvalidArgument, op, "malformed reference "+quote(s))
	}
	letters := s[:i]
	digits := s[i:]
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return 0, xerr.New(xerr.InvalidArgument, op, "malformed reference "+quote(s))
		}
	}
	col := ColumnIndex(letters)
	if col == 0 {
		return 0, xerr.New(xerr.InvalidArgument, op, "malformed column "+quote(letters))
	}
	row64, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, xerr.Wrap(xerr.InvalidArgument, op, "malformed row "+quote(digits), err)
	}
	return Pack(uint32(row64), col)
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func quote(s string) string { return "\"" + s + "\"" }

// ColumnIndex converts Excel column letters ("A", "Z", "AA", ...) to a
// 1-based column index. Returns 0 if letters is empty or contains a
// non-letter byte.
func ColumnIndex(letters string) uint32 {
	if letters == "" {
		return 0
	}
	var col uint32
	for i := 0; i < len(letters); i++ {
		b := letters[i]
		var v uint32
		switch {
		case b >= 'A' && b <= 'Z':
			v = uint32(b-'A') + 1
		case b >= 'a' && b <= 'z':
			v = uint32(b-'a') + 1
		default:
			return 0
		}
		col = col*26 + v
	}
	return col
}

// ColumnLetters converts a 1-based column index back to Excel column
// letters. Returns "" for col == 0.
func ColumnLetters(col uint32) string { return string(columnLetters(col)) }
