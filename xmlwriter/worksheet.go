package xmlwriter

import (
	"unicode/utf8"

	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/coord"
	"github.com/xlsxcore/engine/strpool"
)

// inlineMaxCodeUnits is the shared-vs-inline cutoff (§4.6 "Inline vs.
// shared string policy"): strings longer than this many UTF-16 code units
// are always inlined rather than paid the pool's indirection.
const inlineMaxCodeUnits = 100

// estimateBytesPerCell and estimateBytesPerRow are the constants §4.6
// "Size estimation" fixes for pre-reserving the output buffer.
const (
	estimateBytesPerCell = 50
	estimateBytesPerRow  = 20
	estimateBaseBytes    = 1024
)

// Estimate returns the pre-reservation size §4.6 specifies for a worksheet
// serialization of b: cells*50 + rows*20 + 1024 bytes.
func Estimate(b *cellbuf.Buffer) int {
	rows := len(b.RowGroups())
	return b.Len()*estimateBytesPerCell + rows*estimateBytesPerRow + estimateBaseBytes
}

// ShouldInline reports whether s must be emitted as an inline string
// rather than a shared-strings-part reference, per §4.6's policy: empty,
// single-character, containing an XML-reserved character, containing a
// control character, or exceeding 100 UTF-16 code units.
func ShouldInline(s string) bool {
	if len(s) == 0 {
		return true
	}
	if utf8.RuneCountInString(s) == 1 {
		return true
	}
	if needsEscaping(s) {
		return true
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n', '\r', '\t':
			return true
		}
	}
	if utf16Len(s) > inlineMaxCodeUnits {
		return true
	}
	return false
}

// utf16Len returns the number of UTF-16 code units s would occupy, which
// differs from its UTF-8 byte length or rune count for astral characters
// (each of which needs a surrogate pair, i.e. 2 code units).
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}

// WriteWorksheet serializes b's live cells as a single worksheet
// SpreadsheetML part into w, per §4.6 "Worksheet emission": XML
// declaration, worksheet root, sheetData open, one row element per row
// group with its cells in column order, sheetData and worksheet close.
// b must already be sorted by coordinate (SortByCoord); RowGroups returns
// nil otherwise, which WriteWorksheet treats as an empty sheet.
func WriteWorksheet(w *RawWriter, b *cellbuf.Buffer, pool *strpool.Pool) {
	w.WriteConstant(xmlDeclaration)
	w.WriteConstant(worksheetOpen)
	w.WriteConstant(sheetDataOpen)
	for _, rg := range b.RowGroups() {
		writeRow(w, b, rg, pool)
	}
	w.WriteConstant(sheetDataEnd)
	w.WriteConstant(worksheetEnd)
}

func writeRow(w *RawWriter, b *cellbuf.Buffer, rg cellbuf.RowGroup, pool *strpool.Pool) {
	w.WriteConstant(rowOpenPrefix)
	w.WriteUint32(rg.Row)
	w.WriteConstant(rowOpenSuffix)
	for i := rg.StartSlot; i < rg.StartSlot+rg.SlotCount; i++ {
		c, typ, num, strIdx, style := b.At(i)
		if typ == cellbuf.TypeEmpty {
			continue
		}

		var s string
		inline := false
		if typ == cellbuf.TypeString {
			s, _ = pool.Get(strIdx)
			inline = ShouldInline(s)
		}

		writeCellCoordAndStyle(w, c, style)
		switch typ {
		case cellbuf.TypeNumber:
			w.WriteConstant(cellTagClose)
			w.WriteConstant(vOpen)
			w.WriteFloat(num)
			w.WriteConstant(vClose)
		case cellbuf.TypeBool:
			w.WriteConstant(boolTypeAttr)
			w.WriteConstant(cellTagClose)
			w.WriteConstant(vOpen)
			if num != 0 {
				w.WriteByte('1')
			} else {
				w.WriteByte('0')
			}
			w.WriteConstant(vClose)
		case cellbuf.TypeFormula:
			w.WriteConstant(cellTagClose)
			w.WriteConstant(fOpen)
			expr, _ := pool.Get(strIdx)
			w.WriteEscaped(expr)
			w.WriteConstant(fClose)
			w.WriteConstant(vOpen)
			w.WriteFloat(num)
			w.WriteConstant(vClose)
		case cellbuf.TypeString:
			if inline {
				w.WriteConstant(inlineTypeAttr)
				w.WriteConstant(cellTagClose)
				w.WriteConstant(isOpen)
				w.WriteEscaped(s)
				w.WriteConstant(isClose)
			} else {
				w.WriteConstant(sharedTypeAttr)
				w.WriteConstant(cellTagClose)
				w.WriteConstant(vOpen)
				idx, _ := pool.IndexOf(s)
				w.WriteUint32(idx)
				w.WriteConstant(vClose)
			}
		}
		w.WriteConstant(cellClose)
	}
	w.WriteConstant(rowEnd)
}

// writeCellCoordAndStyle writes `<c r="{coord}"[ s="{style}"]"`, with the
// r/s attribute's closing quote written but the tag itself left open for
// the caller to append a type attribute (if any) and cellTagClose.
func writeCellCoordAndStyle(w *RawWriter, c coord.Coord, style uint16) {
	w.WriteConstant(cellCoordPrefix)
	w.WriteString(c.A1())
	if style != 0 {
		w.WriteConstant(styleAttrMid)
		w.WriteUint32(uint32(style))
	}
	w.WriteByte('"')
}
