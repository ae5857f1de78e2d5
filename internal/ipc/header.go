package ipc

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrInsufficientData is returned when a buffer is too short for a header
	ErrInsufficientData = errors.New("ipc: insufficient data")

	// ErrFrameFull is returned when a request does not fit the frame
	ErrFrameFull = errors.New("ipc: frame full")

	// ErrBadFrame is returned when a frame cannot be walked
	ErrBadFrame = errors.New("ipc: malformed frame")
)

// ReadHeader precedes the data area of a read request.
type ReadHeader struct {
	ID     uint32
	Offset uint32
	NBytes uint32
	Dest   uint64
}

// WriteHeader precedes the data of a write request.
type WriteHeader struct {
	ID     uint32
	Offset uint32
	NBytes uint32
}

// Marshal converts a header to its little-endian wire form
func Marshal(v interface{}) []byte {
	switch val := v.(type) {
	case *ReadHeader:
		buf := make([]byte, ReadHeaderSize)
		putReadHeader(buf, val)
		return buf
	case *WriteHeader:
		buf := make([]byte, WriteHeaderSize)
		putWriteHeader(buf, val)
		return buf
	default:
		return nil
	}
}

// Unmarshal decodes a header from its wire form
func Unmarshal(data []byte, v interface{}) error {
	switch val := v.(type) {
	case *ReadHeader:
		return readReadHeader(data, val)
	case *WriteHeader:
		return readWriteHeader(data, val)
	default:
		return ErrBadFrame
	}
}

func putReadHeader(buf []byte, h *ReadHeader) {
	binary.LittleEndian.PutUint32(buf[0:4], h.ID)
	binary.LittleEndian.PutUint32(buf[4:8], h.Offset)
	binary.LittleEndian.PutUint32(buf[8:12], h.NBytes)
	binary.LittleEndian.PutUint32(buf[12:16], 0)
	binary.LittleEndian.PutUint64(buf[16:24], h.Dest)
}

func readReadHeader(data []byte, h *ReadHeader) error {
	if len(data) < ReadHeaderSize {
		return ErrInsufficientData
	}
	h.ID = binary.LittleEndian.Uint32(data[0:4])
	h.Offset = binary.LittleEndian.Uint32(data[4:8])
	h.NBytes = binary.LittleEndian.Uint32(data[8:12])
	h.Dest = binary.LittleEndian.Uint64(data[16:24])
	return nil
}

func putWriteHeader(buf []byte, h *WriteHeader) {
	binary.LittleEndian.PutUint32(buf[0:4], h.ID)
	binary.LittleEndian.PutUint32(buf[4:8], h.Offset)
	binary.LittleEndian.PutUint32(buf[8:12], h.NBytes)
}

func readWriteHeader(data []byte, h *WriteHeader) error {
	if len(data) < WriteHeaderSize {
		return ErrInsufficientData
	}
	h.ID = binary.LittleEndian.Uint32(data[0:4])
	h.Offset = binary.LittleEndian.Uint32(data[4:8])
	h.NBytes = binary.LittleEndian.Uint32(data[8:12])
	return nil
}
