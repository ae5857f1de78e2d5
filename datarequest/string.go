package datarequest

import (
	"bytes"
	"strings"
)

// String is a NUL-terminated string field.
type String struct {
	base
}

// NewString creates a read request for a string field of size bytes.
func NewString(offset uint32, size int) (*String, error) {
	b, err := newBase(offset, size, KindRead)
	if err != nil {
		return nil, err
	}
	return &String{base: b}, nil
}

// NewStringValue creates a write request for value. The encoded string is
// truncated to maxSize-1 bytes and NUL-terminated; maxSize <= 0 writes the
// whole string plus the terminator.
func NewStringValue(offset uint32, maxSize int, value string) (*String, error) {
	if err := Validate(offset); err != nil {
		return nil, err
	}
	s := &String{base: base{offset: offset, kind: KindWrite}}
	s.buf = encodeString(value, maxSize)
	return s, nil
}

func encodeString(value string, maxSize int) []byte {
	n := len(value)
	if maxSize > 0 && n > maxSize-1 {
		n = maxSize - 1
	}
	buf := make([]byte, n+1)
	copy(buf, value[:n])
	return buf
}

// Value returns the text up to the first NUL, with surrounding whitespace
// removed.
func (s *String) Value() string {
	b := s.buf
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}

// SetValue replaces the buffer with value, keeping the current size as the
// maximum.
func (s *String) SetValue(value string) {
	s.buf = encodeString(value, len(s.buf))
}

// Allocate replaces the buffer with an empty one of size bytes.
func (s *String) Allocate(size int) error {
	if size <= 0 {
		return ErrSize
	}
	s.buf = make([]byte, size)
	return nil
}
