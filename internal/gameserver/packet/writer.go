package packet

import (
	"bytes"
	"sync"
	"unicode/utf16"
)

// Writer собирает payload кадра. Все многобайтовые значения little-endian.
type Writer struct {
	buf bytes.Buffer
}

var writerPool = sync.Pool{
	New: func() any {
		w := &Writer{}
		w.buf.Grow(256)
		return w
	},
}

// Get returns a reset Writer from the pool.
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns the Writer to the pool. The Writer must not be used afterwards.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	w := &Writer{}
	w.buf.Grow(capacity)
	return w
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

// WriteBool writes 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

// WriteShort writes an int16.
func (w *Writer) WriteShort(val int16) {
	w.buf.Write([]byte{byte(val), byte(val >> 8)})
}

// WriteInt writes an int32.
func (w *Writer) WriteInt(val int32) {
	w.buf.Write([]byte{byte(val), byte(val >> 8), byte(val >> 16), byte(val >> 24)})
}

// WriteString writes a null-terminated UTF-16LE string.
func (w *Writer) WriteString(s string) {
	for _, u := range utf16.Encode([]rune(s)) {
		w.buf.Write([]byte{byte(u), byte(u >> 8)})
	}
	w.buf.Write([]byte{0, 0})
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated payload. The slice is valid until the next write or Reset.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current payload length.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}
