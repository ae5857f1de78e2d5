package ipc

import (
	"encoding/binary"
	"fmt"
)

// Frame accumulates requests in a frame buffer. Read destinations are
// remembered by tag and filled by Decode once the server has answered.
type Frame struct {
	buf   []byte
	limit int
	next  int
	count int
	dests [][]byte
}

// NewFrame builds requests into buf, which is usually the mapped view.
// Only the first MaxSize bytes are used.
func NewFrame(buf []byte) *Frame {
	limit := len(buf)
	if limit > MaxSize {
		limit = MaxSize
	}
	return &Frame{buf: buf, limit: limit}
}

// Len returns the number of bytes used by requests, terminator excluded.
func (f *Frame) Len() int { return f.next }

// Count returns the number of requests in the frame.
func (f *Frame) Count() int { return f.count }

// Empty reports whether the frame holds no requests.
func (f *Frame) Empty() bool { return f.count == 0 }

func (f *Frame) reserve(n int) (int, error) {
	if f.next+n+TerminatorSize > f.limit {
		return 0, fmt.Errorf("%w: need %d bytes, %d free", ErrFrameFull, n, f.limit-f.next-TerminatorSize)
	}
	pos := f.next
	f.next += n
	f.count++
	return pos, nil
}

// AppendRead adds a read of len(dst) bytes at offset. dst is filled by Decode.
func (f *Frame) AppendRead(offset uint32, dst []byte) error {
	pos, err := f.reserve(ReadHeaderSize + len(dst))
	if err != nil {
		return err
	}
	f.dests = append(f.dests, dst)
	putReadHeader(f.buf[pos:], &ReadHeader{
		ID:     ReadStateDataID,
		Offset: offset,
		NBytes: uint32(len(dst)),
		Dest:   uint64(len(f.dests)),
	})
	clear(f.buf[pos+ReadHeaderSize : pos+ReadHeaderSize+len(dst)])
	return nil
}

// AppendWrite adds a write of src at offset. src is copied immediately.
func (f *Frame) AppendWrite(offset uint32, src []byte) error {
	pos, err := f.reserve(WriteHeaderSize + len(src))
	if err != nil {
		return err
	}
	putWriteHeader(f.buf[pos:], &WriteHeader{
		ID:     WriteStateDataID,
		Offset: offset,
		NBytes: uint32(len(src)),
	})
	copy(f.buf[pos+WriteHeaderSize:], src)
	return nil
}

// Terminate writes the zero dword that ends the frame.
func (f *Frame) Terminate() {
	binary.LittleEndian.PutUint32(f.buf[f.next:f.next+TerminatorSize], 0)
}

// Bytes returns the terminated frame.
func (f *Frame) Bytes() []byte {
	return f.buf[:f.next+TerminatorSize]
}

// Decode copies read replies into their destinations and resets the frame.
// Walking stops at the terminator or at an unknown request id.
func (f *Frame) Decode() error {
	defer f.Reset()

	pos := 0
	for pos+TerminatorSize <= f.next {
		id := binary.LittleEndian.Uint32(f.buf[pos:])
		switch id {
		case ReadStateDataID:
			var h ReadHeader
			if err := readReadHeader(f.buf[pos:f.next], &h); err != nil {
				return fmt.Errorf("%w: read header at %d", ErrBadFrame, pos)
			}
			start := pos + ReadHeaderSize
			end := start + int(h.NBytes)
			if end > f.next {
				return fmt.Errorf("%w: read data at %d overruns frame", ErrBadFrame, pos)
			}
			if h.Dest > 0 && h.Dest <= uint64(len(f.dests)) {
				copy(f.dests[h.Dest-1], f.buf[start:end])
			}
			pos = end
		case WriteStateDataID:
			var h WriteHeader
			if err := readWriteHeader(f.buf[pos:f.next], &h); err != nil {
				return fmt.Errorf("%w: write header at %d", ErrBadFrame, pos)
			}
			pos += WriteHeaderSize + int(h.NBytes)
		default:
			return nil
		}
	}
	return nil
}

// Reset drops all requests and destination references.
func (f *Frame) Reset() {
	clear(f.dests)
	f.dests = f.dests[:0]
	f.next = 0
	f.count = 0
}
