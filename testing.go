package fsuipc

import (
	"sync"

	"github.com/ehrlich-b/go-fsuipc/backend"
)

// FakeLibrary is an in-process Library for testing applications built on
// the bridge. It simulates FSUIPC with a backend.Memory, can be told to fail
// individual methods, and counts calls.
type FakeLibrary struct {
	mem *backend.Memory

	mu       sync.RWMutex
	failures map[string]ResultCode

	openCalls    int
	closeCalls   int
	readCalls    int
	writeCalls   int
	processCalls int
}

// NewFakeLibrary creates a fake simulating FSUIPC 7 on MSFS 2020.
func NewFakeLibrary() *FakeLibrary {
	return NewFakeLibraryWithConfig(backend.DefaultMemoryConfig())
}

// NewFakeLibraryWithConfig creates a fake with a custom simulated server.
func NewFakeLibraryWithConfig(config backend.MemoryConfig) *FakeLibrary {
	return &FakeLibrary{
		mem:      backend.NewMemory(config),
		failures: make(map[string]ResultCode),
	}
}

func (f *FakeLibrary) failure(method string) (ResultCode, bool) {
	rc, ok := f.failures[method]
	return rc, ok
}

// Open implements the Library interface
func (f *FakeLibrary) Open(sim uint32) error {
	f.mu.Lock()
	f.openCalls++
	rc, fail := f.failure("open")
	f.mu.Unlock()
	if fail {
		return rc
	}
	return f.mem.Open(sim)
}

// Close implements the Library interface
func (f *FakeLibrary) Close() error {
	f.mu.Lock()
	f.closeCalls++
	f.mu.Unlock()
	return f.mem.Close()
}

// Read implements the Library interface
func (f *FakeLibrary) Read(offset uint32, dst []byte) error {
	f.mu.Lock()
	f.readCalls++
	rc, fail := f.failure("read")
	f.mu.Unlock()
	if fail {
		return rc
	}
	return f.mem.Read(offset, dst)
}

// Write implements the Library interface
func (f *FakeLibrary) Write(offset uint32, src []byte) error {
	f.mu.Lock()
	f.writeCalls++
	rc, fail := f.failure("write")
	f.mu.Unlock()
	if fail {
		return rc
	}
	return f.mem.Write(offset, src)
}

// Process implements the Library interface. An injected failure still
// executes the batch, the way a server can apply a frame and then fail to
// reply.
func (f *FakeLibrary) Process() error {
	f.mu.Lock()
	f.processCalls++
	rc, fail := f.failure("process")
	f.mu.Unlock()
	err := f.mem.Process()
	if fail {
		return rc
	}
	return err
}

func (f *FakeLibrary) Version() uint32    { return f.mem.Version() }
func (f *FakeLibrary) FSVersion() uint32  { return f.mem.FSVersion() }
func (f *FakeLibrary) LibVersion() uint32 { return f.mem.LibVersion() }

// Stats implements the StatLibrary interface
func (f *FakeLibrary) Stats() map[string]interface{} {
	stats := f.mem.Stats()
	for k, v := range f.CallCounts() {
		stats[k+"_calls"] = v
	}
	return stats
}

// Testing utility methods

// Fail makes every later call of method ("open", "read", "write" or
// "process") return rc.
func (f *FakeLibrary) Fail(method string, rc ResultCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = rc
}

// ClearFailures removes all injected failures
func (f *FakeLibrary) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]ResultCode)
}

// Peek returns n bytes of the simulated offset space
func (f *FakeLibrary) Peek(offset uint32, n int) []byte {
	return f.mem.Peek(offset, n)
}

// Poke writes directly into the simulated offset space
func (f *FakeLibrary) Poke(offset uint32, data []byte) error {
	return f.mem.Poke(offset, data)
}

// CallCounts returns the number of times each method has been called
func (f *FakeLibrary) CallCounts() map[string]int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return map[string]int{
		"open":    f.openCalls,
		"close":   f.closeCalls,
		"read":    f.readCalls,
		"write":   f.writeCalls,
		"process": f.processCalls,
	}
}

// Reset resets all call counters
func (f *FakeLibrary) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.openCalls = 0
	f.closeCalls = 0
	f.readCalls = 0
	f.writeCalls = 0
	f.processCalls = 0
}

// Compile-time interface checks
var (
	_ Library     = (*FakeLibrary)(nil)
	_ StatLibrary = (*FakeLibrary)(nil)
)
