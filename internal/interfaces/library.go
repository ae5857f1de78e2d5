package interfaces

//go:generate go run go.uber.org/mock/mockgen -destination ../mocks/mock_library.go -package mocks github.com/ehrlich-b/go-fsuipc/internal/interfaces Library

// Library is the underlying FSUIPC client library the bridge forwards to.
//
// Read and Write only schedule a transfer. The destination (or source) slice
// is retained by the implementation until the next Process call, which
// executes every scheduled transfer in order. Callers must therefore keep
// the slice alive and unmodified until Process returns.
//
// Every method that can fail returns a ResultCode as its error. ResultOK is
// never returned as an error.
type Library interface {
	// Open links to the simulator. sim selects a specific simulator
	// version, or 0 for any.
	Open(sim uint32) error

	// Close breaks the link. Scheduled requests are dropped.
	Close() error

	// Read schedules a read of len(dst) bytes at offset into dst.
	Read(offset uint32, dst []byte) error

	// Write schedules a write of src at offset.
	Write(offset uint32, src []byte) error

	// Process executes all scheduled requests.
	Process() error

	// Version returns the FSUIPC version in BCD form, or 0 if not open.
	Version() uint32

	// FSVersion returns the connected simulator version, or 0 if not open.
	FSVersion() uint32

	// LibVersion returns the client library version times 1000.
	LibVersion() uint32
}

// StatLibrary is an optional interface for libraries that report statistics.
type StatLibrary interface {
	Library

	// Stats returns implementation-specific counters keyed by name.
	Stats() map[string]interface{}
}
