package xmlwriter

// Pre-compiled template literals for the fragments of §4.6's table that
// never vary. Declaring them as package-level byte slices (rather than
// string constants re-converted at each call site) avoids a conversion
// allocation on every emit.
var (
	xmlDeclaration = []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)

	worksheetNS   = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	worksheetOpen = []byte(`<worksheet xmlns="` + worksheetNS + `">`)
	worksheetEnd  = []byte(`</worksheet>`)

	sheetDataOpen = []byte(`<sheetData>`)
	sheetDataEnd  = []byte(`</sheetData>`)

	rowOpenPrefix = []byte(`<row r="`)
	rowOpenSuffix = []byte(`">`)
	rowEnd        = []byte(`</row>`)

	cellCoordPrefix = []byte(`<c r="`)
	styleAttrMid    = []byte(`" s="`)
	cellTagClose    = []byte(`>`)
	cellClose       = []byte(`</c>`)

	boolTypeAttr   = []byte(` t="b"`)
	sharedTypeAttr = []byte(` t="s"`)
	inlineTypeAttr = []byte(` t="inlineStr"`)

	vOpen  = []byte(`<v>`)
	vClose = []byte(`</v>`)

	isOpen  = []byte(`<is><t>`)
	isClose = []byte(`</t></is>`)

	fOpen  = []byte(`<f>`)
	fClose = []byte(`</f>`)

	sstOpenPrefix = []byte(`<sst xmlns="` + worksheetNS + `" count="`)
	sstUniqueMid  = []byte(`" uniqueCount="`)
	sstOpenEnd    = []byte(`">`)
	sstEnd        = []byte(`</sst>`)

	siOpen  = []byte(`<si><t>`)
	siClose = []byte(`</t></si>`)

	workbookOpen = []byte(`<workbook xmlns="` + worksheetNS + `" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`)
	workbookEnd  = []byte(`</workbook>`)

	sheetsOpen  = []byte(`<sheets>`)
	sheetsEnd   = []byte(`</sheets>`)
	sheetPrefix = []byte(`<sheet name="`)
	sheetIDMid  = []byte(`" sheetId="`)
	sheetRIDMid = []byte(`" r:id="`)
	sheetSuffix = []byte(`"/>`)
)
