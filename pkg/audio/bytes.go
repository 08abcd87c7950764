// ABOUTME: Shared immutable audio byte buffers
// ABOUTME: Bytes values are cheap handles that compare by identity
package audio

import "bytes"

type buffer struct {
	data []byte
}

// Bytes is an immutable encoded asset. Copying a Bytes value shares the
// underlying data; two values are equal only when they share it.
type Bytes struct {
	buf *buffer
}

// NewBytes copies data into a new shared buffer
func NewBytes(data []byte) Bytes {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Bytes{buf: &buffer{data: cp}}
}

// IsZero reports whether b holds no buffer at all
func (b Bytes) IsZero() bool {
	return b.buf == nil
}

// Len returns the encoded size in bytes
func (b Bytes) Len() int {
	if b.buf == nil {
		return 0
	}
	return len(b.buf.data)
}

// Same reports whether both handles share one buffer
func (b Bytes) Same(other Bytes) bool {
	return b.buf == other.buf
}

// Bytes returns the encoded data. The slice must not be modified.
func (b Bytes) Bytes() []byte {
	if b.buf == nil {
		return nil
	}
	return b.buf.data
}

// Reader returns a fresh reader positioned at the start of the data
func (b Bytes) Reader() *bytes.Reader {
	return bytes.NewReader(b.Bytes())
}
