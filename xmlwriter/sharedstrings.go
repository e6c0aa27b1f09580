package xmlwriter

import "github.com/xlsxcore/engine/strpool"

// WriteSharedStrings serializes every string interned in pool, in
// insertion order, as the xl/sharedStrings.xml part (§6). Every interned
// string gets one <si> entry regardless of whether any worksheet actually
// referenced it as shared rather than inline; callers that want a tight
// part intern only the strings they emit as shared.
func WriteSharedStrings(w *RawWriter, pool *strpool.Pool) {
	count := pool.Len()
	w.WriteConstant(xmlDeclaration)
	w.WriteConstant(sstOpenPrefix)
	w.WriteInt(count)
	w.WriteConstant(sstUniqueMid)
	w.WriteInt(count)
	w.WriteConstant(sstOpenEnd)
	pool.EachInsertionOrder(func(idx uint32, s string) bool {
		w.WriteConstant(siOpen)
		w.WriteEscaped(s)
		w.WriteConstant(siClose)
		return true
	})
	w.WriteConstant(sstEnd)
}
