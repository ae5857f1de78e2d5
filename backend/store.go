// Package backend provides underlying FSUIPC library implementations: a
// RAM-backed simulator and the Windows IPC client.
package backend

import (
	"fmt"
	"sync"
)

// Store is a RAM-backed FSUIPC offset space.
type Store struct {
	data []byte
	size int64
	mu   sync.RWMutex
}

// NewStore creates an offset space of the specified size
func NewStore(size int64) *Store {
	return &Store{
		data: make([]byte, size),
		size: size,
	}
}

// ReadAt reads from the offset space. Reads past the end are short.
func (s *Store) ReadAt(p []byte, off int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if off < 0 || off >= s.size {
		return 0, nil
	}

	// Calculate how much we can actually read
	available := s.size - off
	if int64(len(p)) > available {
		p = p[:available]
	}

	n := copy(p, s.data[off:off+int64(len(p))])
	return n, nil
}

// WriteAt writes into the offset space. A write that does not fit is
// rejected as a whole.
func (s *Store) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if off < 0 || off+int64(len(p)) > s.size {
		return 0, fmt.Errorf("write of %d bytes at 0x%04X beyond end of offset space", len(p), off)
	}

	n := copy(s.data[off:], p)
	return n, nil
}

// Size returns the size of the offset space in bytes
func (s *Store) Size() int64 {
	return s.size
}

// Clear zeroes a range of the offset space
func (s *Store) Clear(offset, length int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offset >= s.size {
		return
	}

	end := offset + length
	if end > s.size {
		end = s.size
	}
	clear(s.data[offset:end])
}
