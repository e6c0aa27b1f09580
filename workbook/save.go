package workbook

import (
	"archive/zip"
	"io"

	"github.com/xlsxcore/engine/xmlwriter"
)

// Save serializes every sheet's worksheet XML and the shared-strings and
// workbook-manifest parts (§6 "External interfaces"), and writes them
// into a ZIP archive at w. Assembling the ZIP container itself is
// explicitly out of this core's scope (§9 Open Questions); Save treats
// Go's standard archive/zip writer as that external collaborator, the way
// a caller would plug in any ZIP writer, file path builder, or in-memory
// collector.
func (wb *Workbook) Save(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, s := range wb.sheets {
		s.buffer.SortByCoord()
		rw := xmlwriter.NewSize(xmlwriter.Estimate(s.buffer))
		xmlwriter.WriteWorksheet(rw, s.buffer, wb.Pool)
		if err := writePart(zw, sheetPartPath(s.id), rw.Bytes()); err != nil {
			return err
		}
	}

	sst := xmlwriter.New()
	xmlwriter.WriteSharedStrings(sst, wb.Pool)
	if err := writePart(zw, "xl/sharedStrings.xml", sst.Bytes()); err != nil {
		return err
	}

	entries := make([]xmlwriter.SheetEntry, len(wb.sheets))
	for i, s := range wb.sheets {
		entries[i] = xmlwriter.SheetEntry{Name: s.Name, SheetID: s.id, RID: sheetRelID(s.id)}
	}
	wbXML := xmlwriter.New()
	xmlwriter.WriteWorkbook(wbXML, entries)
	if err := writePart(zw, "xl/workbook.xml", wbXML.Bytes()); err != nil {
		return err
	}

	return zw.Close()
}

func sheetPartPath(id int) string {
	return "xl/worksheets/sheet" + itoa(id) + ".xml"
}

func sheetRelID(id int) string { return "rId" + itoa(id) }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}
