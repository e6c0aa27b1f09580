// Package xmlwriter implements the zero-copy SpreadsheetML part serializer
// (§4.6). A RawWriter is a growable byte buffer with a write cursor: emit
// operations append raw bytes, a pre-compiled template literal, or a
// formatted value directly into the buffer, so no intermediate strings are
// constructed for stable literal fragments.
package xmlwriter

// RawWriter accumulates a SpreadsheetML part payload. The zero value is not
// usable; construct with New or NewSize.
type RawWriter struct {
	buf []byte
}

// New returns an empty RawWriter with a small default capacity.
func New() *RawWriter {
	return &RawWriter{buf: make([]byte, 0, 4096)}
}

// NewSize returns an empty RawWriter pre-reserved to hold at least capacity
// bytes without reallocating, per §4.6's estimate-then-reserve pattern.
func NewSize(capacity int) *RawWriter {
	return &RawWriter{buf: make([]byte, 0, capacity)}
}

// Reserve grows the writer's backing array, if needed, so at least
// additional more bytes can be appended without reallocating.
func (w *RawWriter) Reserve(additional int) {
	if cap(w.buf)-len(w.buf) >= additional {
		return
	}
	grown := make([]byte, len(w.buf), len(w.buf)+additional)
	copy(grown, w.buf)
	w.buf = grown
}

// Len returns the number of bytes written so far.
func (w *RawWriter) Len() int { return len(w.buf) }

// Bytes returns the writer's contents. The returned slice aliases the
// writer's internal buffer and is only valid until the next write.
func (w *RawWriter) Bytes() []byte { return w.buf }

// Reset empties the writer, retaining its backing array for reuse.
func (w *RawWriter) Reset() { w.buf = w.buf[:0] }

// WriteRaw appends p verbatim.
func (w *RawWriter) WriteRaw(p []byte) {
	w.buf = append(w.buf, p...)
}

// WriteConstant appends a pre-compiled template literal. It is identical to
// WriteRaw but documents intent at call sites that emit the fixed template
// fragments of §4.6's table.
func (w *RawWriter) WriteConstant(lit []byte) {
	w.buf = append(w.buf, lit...)
}

// WriteString appends s verbatim, unescaped. Callers that need XML escaping
// must use WriteEscaped.
func (w *RawWriter) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteByte appends a single byte. It implements io.ByteWriter.
func (w *RawWriter) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteEscaped appends s with XML entity escaping applied (§4.6 "XML
// escaping").
func (w *RawWriter) WriteEscaped(s string) {
	w.buf = appendEscaped(w.buf, s)
}

// WriteUint32 appends the base-10 decimal representation of v, with no
// intermediate string allocation.
func (w *RawWriter) WriteUint32(v uint32) {
	w.buf = appendUint(w.buf, uint64(v))
}

// WriteInt appends the base-10 decimal representation of v.
func (w *RawWriter) WriteInt(v int) {
	if v < 0 {
		w.buf = append(w.buf, '-')
		w.buf = appendUint(w.buf, uint64(-v))
		return
	}
	w.buf = appendUint(w.buf, uint64(v))
}

// WriteFloat appends the shortest round-tripping decimal representation of
// v per §4.6 "Number formatting".
func (w *RawWriter) WriteFloat(v float64) {
	w.buf = appendFloat(w.buf, v)
}

// appendUint appends the decimal digits of v to dst and returns the result.
func appendUint(dst []byte, v uint64) []byte {
	if v == 0 {
		return append(dst, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(dst, tmp[i:]...)
}
