package backend

import (
	"encoding/binary"
	"sync"

	"github.com/ehrlich-b/go-fsuipc/internal/constants"
	"github.com/ehrlich-b/go-fsuipc/internal/interfaces"
	"github.com/ehrlich-b/go-fsuipc/internal/ipc"
)

// MemoryConfig configures the simulated server.
type MemoryConfig struct {
	// Size of the offset space in bytes
	Size int64
	// Sim is the simulator version the server reports
	Sim uint32
	// FSUIPCVersion is the BCD version the server reports
	FSUIPCVersion uint32
}

// DefaultMemoryConfig simulates FSUIPC 7.100 on MSFS 2020.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Size:          constants.DefaultMemorySize,
		Sim:           13,
		FSUIPCVersion: 0x71000000,
	}
}

// Memory is an in-process FSUIPC: requests are framed exactly as for the
// real server and executed against a RAM offset space.
type Memory struct {
	*frameLibrary
	store  *Store
	config MemoryConfig

	// client library version written by the handshake, kept out of the
	// offset space
	libMu     sync.Mutex
	clientLib [2]byte
}

// NewMemory creates a simulated server with the version offsets seeded.
func NewMemory(config MemoryConfig) *Memory {
	if config.Size <= 0 {
		config.Size = constants.DefaultMemorySize
	}
	m := &Memory{
		store:  NewStore(config.Size),
		config: config,
	}
	m.frameLibrary = newFrameLibrary(memTransport{m})
	m.seed()
	return m
}

func (m *Memory) seed() {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], m.config.FSUIPCVersion)
	m.store.WriteAt(b[:], ipc.OffsetFSUIPCVersion)
	binary.LittleEndian.PutUint32(b[:], ipc.FSVersionCheck|m.config.Sim)
	m.store.WriteAt(b[:], ipc.OffsetFSVersion)
}

// ClientLibVersion is the library version the last handshake reported.
func (m *Memory) ClientLibVersion() uint16 {
	m.libMu.Lock()
	defer m.libMu.Unlock()
	return binary.LittleEndian.Uint16(m.clientLib[:])
}

// Store returns the offset space.
func (m *Memory) Store() *Store { return m.store }

// Peek returns a copy of n bytes at offset, bypassing the request batch.
func (m *Memory) Peek(offset uint32, n int) []byte {
	buf := make([]byte, n)
	m.store.ReadAt(buf, int64(offset))
	return buf
}

// Poke writes data at offset, bypassing the request batch.
func (m *Memory) Poke(offset uint32, data []byte) error {
	_, err := m.store.WriteAt(data, int64(offset))
	return err
}

// Stats implements the StatLibrary interface
func (m *Memory) Stats() map[string]interface{} {
	stats := m.frameLibrary.stats()
	stats["type"] = "memory"
	stats["size"] = m.store.Size()
	stats["sim"] = m.config.Sim
	stats["client_lib_version"] = m.ClientLibVersion()
	return stats
}

type memTransport struct {
	m *Memory
}

func (t memTransport) connect() ([]byte, error) {
	return make([]byte, ipc.MappingSize), nil
}

func (t memTransport) send(frame []byte) error {
	if err := ipc.Serve(frame, offsetSpace{t.m}); err != nil {
		return interfaces.ResultData
	}
	return nil
}

func (t memTransport) disconnect() {}

// offsetSpace is what a frame executes against. Like FSUIPC, it takes the
// client library version written to 0x330A aside so the 0xFADE check word
// in the FS version dword stays intact.
type offsetSpace struct {
	m *Memory
}

func (o offsetSpace) ReadAt(p []byte, off int64) (int, error) {
	return o.m.store.ReadAt(p, off)
}

func (o offsetSpace) WriteAt(p []byte, off int64) (int, error) {
	const lo, hi = int64(ipc.OffsetLibVersion), int64(ipc.OffsetLibVersion + 2)
	end := off + int64(len(p))
	if end <= lo || off >= hi {
		return o.m.store.WriteAt(p, off)
	}

	n := 0
	if off < lo {
		k, err := o.m.store.WriteAt(p[:lo-off], off)
		n += k
		if err != nil {
			return n, err
		}
	}
	from, to := max(off, lo), min(end, hi)
	o.m.libMu.Lock()
	copy(o.m.clientLib[from-lo:to-lo], p[from-off:to-off])
	o.m.libMu.Unlock()
	n += int(to - from)
	if end > hi {
		k, err := o.m.store.WriteAt(p[hi-off:], hi)
		n += k
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Compile-time interface checks
var (
	_ interfaces.Library     = (*Memory)(nil)
	_ interfaces.StatLibrary = (*Memory)(nil)
)
