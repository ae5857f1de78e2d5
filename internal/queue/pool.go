package queue

import "sync"

// BufferPool provides pooled byte slices for pinned request storage.
// FSUIPC transfers are small: most are a handful of bytes, strings run to a
// few hundred, and nothing can exceed one IPC frame (0x7F00 bytes). Buckets
// are 64B, 1KB and 32KB; anything larger is allocated directly.
//
// Uses *[]byte pattern to avoid sync.Pool interface allocation overhead.

// Buffer size thresholds
const (
	size64  = 64
	size1k  = 1024
	size32k = 32 * 1024
)

// globalPool is the shared buffer pool for all request records.
var globalPool = struct {
	pool64  sync.Pool
	pool1k  sync.Pool
	pool32k sync.Pool
}{
	pool64:  sync.Pool{New: func() any { b := make([]byte, size64); return &b }},
	pool1k:  sync.Pool{New: func() any { b := make([]byte, size1k); return &b }},
	pool32k: sync.Pool{New: func() any { b := make([]byte, size32k); return &b }},
}

// GetBuffer returns a buffer of exactly size bytes, pooled when it fits a
// bucket. Caller must call PutBuffer when done.
func GetBuffer(size int) []byte {
	switch {
	case size <= size64:
		return (*globalPool.pool64.Get().(*[]byte))[:size]
	case size <= size1k:
		return (*globalPool.pool1k.Get().(*[]byte))[:size]
	case size <= size32k:
		return (*globalPool.pool32k.Get().(*[]byte))[:size]
	default:
		return make([]byte, size)
	}
}

// PutBuffer returns a buffer to the pool.
// The buffer's capacity determines which pool it goes to.
func PutBuffer(buf []byte) {
	c := cap(buf)
	// Restore full capacity before returning to pool
	buf = buf[:c]
	switch c {
	case size64:
		globalPool.pool64.Put(&buf)
	case size1k:
		globalPool.pool1k.Put(&buf)
	case size32k:
		globalPool.pool32k.Put(&buf)
		// Buffers with non-standard capacity are left to the GC
	}
}
