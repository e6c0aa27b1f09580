package xmlwriter

import (
	"strings"
	"testing"

	"github.com/xlsxcore/engine/cellbuf"
	"github.com/xlsxcore/engine/coord"
	"github.com/xlsxcore/engine/strpool"
)

func c(row, col uint32) coord.Coord { return coord.MustPack(row, col) }

func TestTinyWriteScenario(t *testing.T) {
	b := cellbuf.New(0)
	pool := strpool.New()
	b.AppendNumber(c(1, 1), 42.0, 0)
	idx := pool.Intern("hello")
	b.AppendString(c(1, 2), idx, 0)
	b.AppendMixed(c(1, 3), cellbuf.Value{Type: cellbuf.TypeBool, Number: 1}, 0)
	b.SortByCoord()

	w := New()
	WriteWorksheet(w, b, pool)
	got := string(w.Bytes())

	const wantTail = `<sheetData><row r="1"><c r="A1"><v>42</v></c>` +
		`<c r="B1" t="s"><v>0</v></c><c r="C1" t="b"><v>1</v></c></row>` +
		`</sheetData></worksheet>`
	if !strings.HasSuffix(got, wantTail) {
		t.Fatalf("worksheet output mismatch.\ngot:  %s\nwant suffix: %s", got, wantTail)
	}

	sst := New()
	WriteSharedStrings(sst, pool)
	if !strings.Contains(string(sst.Bytes()), "<si><t>hello</t></si>") {
		t.Fatalf("shared strings missing expected entry: %s", sst.Bytes())
	}
}

func TestInlineVsSharedPolicy(t *testing.T) {
	if !ShouldInline("<script>") {
		t.Error("expected reserved-character string to be inlined")
	}
	if !ShouldInline("x") {
		t.Error("expected single-character string to be inlined")
	}
	if !ShouldInline("") {
		t.Error("expected empty string to be inlined")
	}
	if ShouldInline("normal string") {
		t.Error("expected an ordinary string under the cutoff to be shared, not inlined")
	}
	if !ShouldInline(strings.Repeat("a", 101)) {
		t.Error("expected a string past the 100-code-unit cutoff to be inlined")
	}
	if ShouldInline(strings.Repeat("a", 100)) {
		t.Error("expected a string exactly at the cutoff to be shared")
	}
	if !ShouldInline("line\nbreak") {
		t.Error("expected a control character to force inline")
	}
}

func TestWorksheetEscapesInlineString(t *testing.T) {
	b := cellbuf.New(0)
	pool := strpool.New()
	idx := pool.Intern("<script>")
	b.AppendString(c(1, 1), idx, 0)
	b.SortByCoord()

	w := New()
	WriteWorksheet(w, b, pool)
	got := string(w.Bytes())
	if !strings.Contains(got, `<c r="A1" t="inlineStr"><is><t>&lt;script&gt;</t></is></c>`) {
		t.Fatalf("expected escaped inline string, got %s", got)
	}
	if pool.Len() != 1 {
		t.Fatalf("interning does not itself force shared emission, pool should still hold 1 string, got %d", pool.Len())
	}
}

func TestWorksheetWithStyleAttribute(t *testing.T) {
	b := cellbuf.New(0)
	pool := strpool.New()
	b.AppendNumber(c(1, 1), 1, 3)
	b.SortByCoord()
	w := New()
	WriteWorksheet(w, b, pool)
	got := string(w.Bytes())
	if !strings.Contains(got, `<c r="A1" s="3"><v>1</v></c>`) {
		t.Fatalf("expected style attribute inserted after r=, got %s", got)
	}
}

func TestRangeFillScenario(t *testing.T) {
	b := cellbuf.New(0)
	r := coord.NewRange(c(1, 1), c(3, 2))
	r.Each(func(cc coord.Coord) bool {
		b.AppendNumber(cc, 7.5, 0)
		return true
	})
	if b.Len() != 6 {
		t.Fatalf("expected 6 cells appended, got %d", b.Len())
	}
	if !b.IsSorted() {
		t.Fatal("expected buffer to remain sorted after in-order range fill on an empty buffer")
	}
}

func TestNumberFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{42, "42"},
		{42.5, "42.5"},
		{0, "0"},
		{-1.5, "-1.5"},
	}
	for _, tc := range cases {
		w := New()
		w.WriteFloat(tc.in)
		if got := string(w.Bytes()); got != tc.want {
			t.Errorf("WriteFloat(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNumberFormattingSpecialValues(t *testing.T) {
	nan := New()
	nan.WriteFloat(nan64())
	if string(nan.Bytes()) != "0" {
		t.Fatalf("expected NaN to format as 0, got %s", nan.Bytes())
	}

	pinf := New()
	pinf.WriteFloat(inf64(1))
	if string(pinf.Bytes()) != "1E+308" {
		t.Fatalf("expected +Inf to format as 1E+308, got %s", pinf.Bytes())
	}

	ninf := New()
	ninf.WriteFloat(inf64(-1))
	if string(ninf.Bytes()) != "-1E+308" {
		t.Fatalf("expected -Inf to format as -1E+308, got %s", ninf.Bytes())
	}
}

func TestEscaping(t *testing.T) {
	w := New()
	w.WriteEscaped(`<a & "b" 'c'>`)
	want := `&lt;a &amp; &quot;b&quot; &apos;c&apos;&gt;`
	if got := string(w.Bytes()); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestEstimate(t *testing.T) {
	b := cellbuf.New(0)
	b.AppendNumber(c(1, 1), 1, 0)
	b.AppendNumber(c(1, 2), 2, 0)
	b.SortByCoord()
	got := Estimate(b)
	want := 2*estimateBytesPerCell + 1*estimateBytesPerRow + estimateBaseBytes
	if got != want {
		t.Fatalf("Estimate = %d, want %d", got, want)
	}
}

func TestWriteWorksheetParallelMatchesSequential(t *testing.T) {
	b := cellbuf.New(0)
	pool := strpool.New()
	for row := uint32(1); row <= 20; row++ {
		for col := uint32(1); col <= 3; col++ {
			b.AppendNumber(c(row, col), float64(row*10+col), 0)
		}
	}
	b.SortByCoord()

	seq := New()
	WriteWorksheet(seq, b, pool)

	par := New()
	WriteWorksheetParallel(par, b, pool, 4)

	if string(seq.Bytes()) != string(par.Bytes()) {
		t.Fatal("parallel worksheet emission diverged from sequential output")
	}
}

func TestWorkbookManifest(t *testing.T) {
	w := New()
	WriteWorkbook(w, []SheetEntry{
		{Name: "Sheet1", SheetID: 1, RID: "rId1"},
		{Name: "Data & More", SheetID: 2, RID: "rId2"},
	})
	got := string(w.Bytes())
	if !strings.Contains(got, `<sheet name="Sheet1" sheetId="1" r:id="rId1"/>`) {
		t.Fatalf("missing sheet1 entry: %s", got)
	}
	if !strings.Contains(got, `name="Data &amp; More"`) {
		t.Fatalf("expected sheet name escaping: %s", got)
	}
}

func TestRawWriterReserveAndReset(t *testing.T) {
	w := NewSize(16)
	w.WriteString("hello")
	if w.Len() != 5 {
		t.Fatalf("expected len 5, got %d", w.Len())
	}
	w.Reset()
	if w.Len() != 0 {
		t.Fatalf("expected len 0 after reset, got %d", w.Len())
	}
}

func nan64() float64 {
	var z float64
	return z / z
}

func inf64(sign float64) float64 {
	var z float64
	return sign / z
}
