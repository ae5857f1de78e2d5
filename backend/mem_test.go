package backend

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/go-fsuipc/internal/interfaces"
	"github.com/ehrlich-b/go-fsuipc/internal/ipc"
)

func openMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(DefaultMemoryConfig())
	require.NoError(t, m.Open(0))
	return m
}

func TestMemoryOpenHandshake(t *testing.T) {
	m := NewMemory(DefaultMemoryConfig())
	assert.Zero(t, m.Version())
	assert.Zero(t, m.FSVersion())

	require.NoError(t, m.Open(0))
	assert.Equal(t, uint32(0x71000000), m.Version())
	assert.Equal(t, uint32(13), m.FSVersion())
	assert.Equal(t, uint32(ipc.LibVersion), m.LibVersion())

	assert.Equal(t, uint16(ipc.LibVersion), m.ClientLibVersion(), "handshake reports the client version")
	fs := binary.LittleEndian.Uint32(m.Peek(ipc.OffsetFSVersion, 4))
	assert.Equal(t, uint32(ipc.FSVersionCheck|13), fs, "check word survives the handshake")

	assert.Equal(t, interfaces.ResultOpen, m.Open(0))

	require.NoError(t, m.Close())
	assert.Zero(t, m.Version())
	require.NoError(t, m.Open(13))
}

func TestMemoryOpenFailures(t *testing.T) {
	tests := []struct {
		name  string
		sim   uint32
		setup func(m *Memory)
		want  interfaces.ResultCode
	}{
		{
			name: "wrong simulator",
			sim:  10,
			want: interfaces.ResultWrongFS,
		},
		{
			name: "simulator not running",
			setup: func(m *Memory) {
				m.Poke(ipc.OffsetFSVersion, []byte{0, 0, 0, 0})
			},
			want: interfaces.ResultRunning,
		},
		{
			name: "bad check word",
			setup: func(m *Memory) {
				m.Poke(ipc.OffsetFSVersion, []byte{13, 0, 0xAD, 0xDE})
			},
			want: interfaces.ResultVersion,
		},
		{
			name: "old FSUIPC",
			setup: func(m *Memory) {
				m.Poke(ipc.OffsetFSUIPCVersion, []byte{0, 0, 0, 0x10})
			},
			want: interfaces.ResultVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(DefaultMemoryConfig())
			if tt.setup != nil {
				tt.setup(m)
			}
			assert.Equal(t, tt.want, m.Open(tt.sim))
			assert.Equal(t, interfaces.ResultNotOpen, m.Read(0, make([]byte, 1)))
		})
	}
}

func TestMemoryDeferredBatch(t *testing.T) {
	m := openMemory(t)
	require.NoError(t, m.Poke(0x0200, []byte{1, 2, 3, 4}))

	dst := make([]byte, 4)
	require.NoError(t, m.Read(0x0200, dst))
	require.NoError(t, m.Write(0x3000, []byte{9, 9}))

	assert.Equal(t, []byte{0, 0, 0, 0}, dst)
	assert.Equal(t, []byte{0, 0}, m.Peek(0x3000, 2))

	require.NoError(t, m.Process())
	assert.Equal(t, []byte{1, 2, 3, 4}, dst)
	assert.Equal(t, []byte{9, 9}, m.Peek(0x3000, 2))

	assert.Equal(t, interfaces.ResultNoData, m.Process())
}

func TestMemoryErrors(t *testing.T) {
	m := NewMemory(DefaultMemoryConfig())
	assert.Equal(t, interfaces.ResultNotOpen, m.Write(0, []byte{1}))
	assert.Equal(t, interfaces.ResultNotOpen, m.Process())
	assert.NoError(t, m.Close())

	require.NoError(t, m.Open(0))
	assert.Equal(t, interfaces.ResultSize, m.Read(0, make([]byte, ipc.MaxSize)))

	require.NoError(t, m.Write(0xFFFF, []byte{1, 2}))
	assert.Equal(t, interfaces.ResultData, m.Process())

	stats := m.Stats()
	assert.Equal(t, "memory", stats["type"])
	assert.Equal(t, uint64(1), stats["failed"])
}

func TestMemoryCloseDropsQueue(t *testing.T) {
	m := openMemory(t)
	require.NoError(t, m.Write(0x3000, []byte{7}))
	require.NoError(t, m.Close())
	require.NoError(t, m.Open(0))
	assert.Equal(t, interfaces.ResultNoData, m.Process())
	assert.Equal(t, []byte{0}, m.Peek(0x3000, 1))
}

func TestMemoryReopen(t *testing.T) {
	m := NewMemory(DefaultMemoryConfig())
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Open(0), "open %d", i)
		assert.Equal(t, uint32(13), m.FSVersion())
		require.NoError(t, m.Close())
	}
}

func TestMemoryLibVersionWriteSpansStore(t *testing.T) {
	m := openMemory(t)

	// 0x3308..0x330F in one write: FS version, lib version slot, 0x330C..
	data := []byte{1, 2, 0xD2, 0x07, 5, 6, 7, 8}
	require.NoError(t, m.Write(ipc.OffsetFSVersion, data))
	require.NoError(t, m.Process())

	assert.Equal(t, []byte{1, 2}, m.Peek(ipc.OffsetFSVersion, 2))
	assert.Equal(t, []byte{0xDE, 0xFA}, m.Peek(ipc.OffsetLibVersion, 2))
	assert.Equal(t, []byte{5, 6, 7, 8}, m.Peek(0x330C, 4))
	assert.Equal(t, uint16(2002), m.ClientLibVersion())
}

func TestIPCLibVersion(t *testing.T) {
	assert.Equal(t, uint32(ipc.LibVersion), NewIPC().LibVersion())
}
