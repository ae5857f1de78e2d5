package ipc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Memory is the offset space a server executes a frame against.
type Memory interface {
	io.ReaderAt
	io.WriterAt
}

// Serve executes a terminated frame the way the FSUIPC server does: writes
// are applied to mem and read data areas are filled from it, in frame order.
// Reads past the end of mem yield zeros.
func Serve(frame []byte, mem Memory) error {
	pos := 0
	for pos+TerminatorSize <= len(frame) {
		id := binary.LittleEndian.Uint32(frame[pos:])
		switch id {
		case 0:
			return nil
		case ReadStateDataID:
			var h ReadHeader
			if err := readReadHeader(frame[pos:], &h); err != nil {
				return fmt.Errorf("%w: read header at %d", ErrBadFrame, pos)
			}
			start := pos + ReadHeaderSize
			end := start + int(h.NBytes)
			if end > len(frame) {
				return fmt.Errorf("%w: read data at %d overruns frame", ErrBadFrame, pos)
			}
			data := frame[start:end]
			n, _ := mem.ReadAt(data, int64(h.Offset))
			clear(data[n:])
			pos = end
		case WriteStateDataID:
			var h WriteHeader
			if err := readWriteHeader(frame[pos:], &h); err != nil {
				return fmt.Errorf("%w: write header at %d", ErrBadFrame, pos)
			}
			start := pos + WriteHeaderSize
			end := start + int(h.NBytes)
			if end > len(frame) {
				return fmt.Errorf("%w: write data at %d overruns frame", ErrBadFrame, pos)
			}
			if _, err := mem.WriteAt(frame[start:end], int64(h.Offset)); err != nil {
				return fmt.Errorf("%w: write at 0x%04X: %v", ErrBadFrame, h.Offset, err)
			}
			pos = end
		default:
			return fmt.Errorf("%w: unknown request id %d at %d", ErrBadFrame, id, pos)
		}
	}
	return fmt.Errorf("%w: missing terminator", ErrBadFrame)
}
