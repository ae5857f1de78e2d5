// Package datarequest provides typed FSUIPC offset requests. Each request
// owns the buffer that a session reads into or writes from, and decodes it
// little-endian.
package datarequest

import (
	"errors"
	"fmt"

	"github.com/ehrlich-b/go-fsuipc/internal/constants"
)

var (
	// ErrOffsetRange is returned for offsets above MaxOffset
	ErrOffsetRange = errors.New("datarequest: offset out of supported range")
	// ErrSize is returned for non-positive buffer sizes
	ErrSize = errors.New("datarequest: size must be positive")
	// ErrReadOnly is returned when setting the value of a read-only request
	ErrReadOnly = errors.New("datarequest: request is read-only")
)

// MaxOffset is the largest accepted offset
const MaxOffset = constants.MaxOffset

// Kind tells the client whether to read or write a request.
type Kind int

const (
	KindRead Kind = iota
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "READ"
	case KindWrite:
		return "WRITE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Request is a single offset transfer.
type Request interface {
	Offset() uint32
	Size() uint32
	// Buffer is read into or written from by the session
	Buffer() []byte
	Kind() Kind
}

// Validate checks that offset is within the supported range.
func Validate(offset uint32) error {
	if offset > MaxOffset {
		return fmt.Errorf("%w: 0x%X", ErrOffsetRange, offset)
	}
	return nil
}

type base struct {
	offset uint32
	buf    []byte
	kind   Kind
}

func newBase(offset uint32, size int, kind Kind) (base, error) {
	if err := Validate(offset); err != nil {
		return base{}, err
	}
	if size <= 0 {
		return base{}, ErrSize
	}
	return base{offset: offset, buf: make([]byte, size), kind: kind}, nil
}

func (b *base) Offset() uint32 { return b.offset }
func (b *base) Size() uint32   { return uint32(len(b.buf)) }
func (b *base) Buffer() []byte { return b.buf }
func (b *base) Kind() Kind     { return b.kind }
func (b *base) SetKind(k Kind) { b.kind = k }
func (b *base) String() string { return fmt.Sprintf("%s 0x%04X[%d]", b.kind, b.offset, len(b.buf)) }
