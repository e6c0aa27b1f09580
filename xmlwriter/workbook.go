package xmlwriter

// SheetEntry is one row of the workbook.xml sheet manifest (§6 "xl/workbook.xml").
type SheetEntry struct {
	Name    string
	SheetID int
	RID     string // relationship id, e.g. "rId1"
}

// WriteWorkbook serializes the workbook.xml part: the XML declaration, the
// workbook root, and a <sheets> manifest with one <sheet> per entry in
// sheets, in order.
func WriteWorkbook(w *RawWriter, sheets []SheetEntry) {
	w.WriteConstant(xmlDeclaration)
	w.WriteConstant(workbookOpen)
	w.WriteConstant(sheetsOpen)
	for _, s := range sheets {
		w.WriteConstant(sheetPrefix)
		w.WriteEscaped(s.Name)
		w.WriteConstant(sheetIDMid)
		w.WriteInt(s.SheetID)
		w.WriteConstant(sheetRIDMid)
		w.WriteString(s.RID)
		w.WriteConstant(sheetSuffix)
	}
	w.WriteConstant(sheetsEnd)
	w.WriteConstant(workbookEnd)
}
