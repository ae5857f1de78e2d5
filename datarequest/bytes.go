package datarequest

// ByteArray is a raw block of bytes.
type ByteArray struct {
	base
}

// NewByteArray creates a read request for size bytes at offset.
func NewByteArray(offset uint32, size int) (*ByteArray, error) {
	b, err := newBase(offset, size, KindRead)
	if err != nil {
		return nil, err
	}
	return &ByteArray{base: b}, nil
}

// NewByteArrayValue creates a write request for a copy of data.
func NewByteArrayValue(offset uint32, data []byte) (*ByteArray, error) {
	a, err := NewByteArray(offset, len(data))
	if err != nil {
		return nil, err
	}
	copy(a.buf, data)
	a.kind = KindWrite
	return a, nil
}

// Value returns a copy of the buffer.
func (a *ByteArray) Value() []byte {
	out := make([]byte, len(a.buf))
	copy(out, a.buf)
	return out
}

// SetValue copies data into the buffer. Extra bytes are dropped and a short
// slice leaves the tail untouched.
func (a *ByteArray) SetValue(data []byte) {
	copy(a.buf, data)
}
