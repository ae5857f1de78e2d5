package datarequest

import (
	"encoding/binary"
	"math"
)

// Number lists the value types a Scalar can hold.
type Number interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64
}

// Scalar is a fixed-size little-endian number at an offset.
type Scalar[T Number] struct {
	base
}

type (
	Byte   = Scalar[uint8]
	Short  = Scalar[int16]
	Int    = Scalar[int32]
	Long   = Scalar[int64]
	Float  = Scalar[float32]
	Double = Scalar[float64]
)

func sizeOf[T Number]() int {
	var v T
	switch any(v).(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32, float32:
		return 4
	}
	// named types fall back to their reflected size
	if n := binary.Size(v); n > 0 {
		return n
	}
	return 8
}

// NewScalar creates a read request for a T at offset.
func NewScalar[T Number](offset uint32) (*Scalar[T], error) {
	b, err := newBase(offset, sizeOf[T](), KindRead)
	if err != nil {
		return nil, err
	}
	return &Scalar[T]{base: b}, nil
}

// NewScalarValue creates a write request of v at offset.
func NewScalarValue[T Number](offset uint32, v T) (*Scalar[T], error) {
	s, err := NewScalar[T](offset)
	if err != nil {
		return nil, err
	}
	s.SetValue(v)
	s.kind = KindWrite
	return s, nil
}

func NewByte(offset uint32) (*Byte, error)     { return NewScalar[uint8](offset) }
func NewShort(offset uint32) (*Short, error)   { return NewScalar[int16](offset) }
func NewInt(offset uint32) (*Int, error)       { return NewScalar[int32](offset) }
func NewLong(offset uint32) (*Long, error)     { return NewScalar[int64](offset) }
func NewFloat(offset uint32) (*Float, error)   { return NewScalar[float32](offset) }
func NewDouble(offset uint32) (*Double, error) { return NewScalar[float64](offset) }

// Value decodes the buffer.
func (s *Scalar[T]) Value() T {
	var v T
	b := s.buf
	switch p := any(&v).(type) {
	case *uint8:
		*p = b[0]
	case *int8:
		*p = int8(b[0])
	case *uint16:
		*p = binary.LittleEndian.Uint16(b)
	case *int16:
		*p = int16(binary.LittleEndian.Uint16(b))
	case *uint32:
		*p = binary.LittleEndian.Uint32(b)
	case *int32:
		*p = int32(binary.LittleEndian.Uint32(b))
	case *uint64:
		*p = binary.LittleEndian.Uint64(b)
	case *int64:
		*p = int64(binary.LittleEndian.Uint64(b))
	case *float32:
		*p = math.Float32frombits(binary.LittleEndian.Uint32(b))
	case *float64:
		*p = math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		_, _ = binary.Decode(b, binary.LittleEndian, &v)
	}
	return v
}

// SetValue encodes v into the buffer. The kind is left unchanged.
func (s *Scalar[T]) SetValue(v T) {
	b := s.buf
	switch x := any(v).(type) {
	case uint8:
		b[0] = x
	case int8:
		b[0] = byte(x)
	case uint16:
		binary.LittleEndian.PutUint16(b, x)
	case int16:
		binary.LittleEndian.PutUint16(b, uint16(x))
	case uint32:
		binary.LittleEndian.PutUint32(b, x)
	case int32:
		binary.LittleEndian.PutUint32(b, uint32(x))
	case uint64:
		binary.LittleEndian.PutUint64(b, x)
	case int64:
		binary.LittleEndian.PutUint64(b, uint64(x))
	case float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(x))
	default:
		_, _ = binary.Encode(b, binary.LittleEndian, v)
	}
}
