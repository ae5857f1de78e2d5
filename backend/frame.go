package backend

import (
	"encoding/binary"
	"sync"

	"github.com/ehrlich-b/go-fsuipc/internal/interfaces"
	"github.com/ehrlich-b/go-fsuipc/internal/ipc"
)

// transport moves a request frame to an FSUIPC server and back. Errors are
// interfaces.ResultCode values.
type transport interface {
	connect() ([]byte, error)
	send(frame []byte) error
	disconnect()
}

// frameLibrary implements the client half of the FSUIPC user library on top
// of a transport: requests are queued into an ipc.Frame and executed by
// Process.
type frameLibrary struct {
	mu        sync.Mutex
	t         transport
	frame     *ipc.Frame
	open      bool
	version   uint32
	fsVersion uint32

	processed uint64
	failed    uint64
}

func newFrameLibrary(t transport) *frameLibrary {
	return &frameLibrary{t: t}
}

// Open links to the server and performs the version handshake.
func (l *frameLibrary) Open(sim uint32) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.open {
		return interfaces.ResultOpen
	}
	buf, err := l.t.connect()
	if err != nil {
		return err
	}
	l.frame = ipc.NewFrame(buf)
	l.open = true

	var version, fsVersion [4]byte
	var lib [2]byte
	binary.LittleEndian.PutUint16(lib[:], ipc.LibVersion)
	l.frame.AppendRead(ipc.OffsetFSUIPCVersion, version[:])
	l.frame.AppendRead(ipc.OffsetFSVersion, fsVersion[:])
	l.frame.AppendWrite(ipc.OffsetLibVersion, lib[:])
	if err := l.processLocked(); err != nil {
		l.closeLocked()
		return err
	}

	v := binary.LittleEndian.Uint32(version[:])
	fs := binary.LittleEndian.Uint32(fsVersion[:])
	if v < ipc.MinFSUIPCVersion || fs&ipc.FSVersionCheckMask != ipc.FSVersionCheck {
		l.closeLocked()
		if fs == 0 {
			return interfaces.ResultRunning
		}
		return interfaces.ResultVersion
	}
	fs &= 0xFFFF
	if sim != 0 && sim != fs {
		l.closeLocked()
		return interfaces.ResultWrongFS
	}

	l.version = v
	l.fsVersion = fs
	return nil
}

// Close breaks the link and drops any queued requests.
func (l *frameLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeLocked()
	return nil
}

func (l *frameLibrary) closeLocked() {
	if !l.open {
		return
	}
	l.frame.Reset()
	l.frame = nil
	l.t.disconnect()
	l.open = false
	l.version = 0
	l.fsVersion = 0
}

func (l *frameLibrary) Read(offset uint32, dst []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return interfaces.ResultNotOpen
	}
	if err := l.frame.AppendRead(offset, dst); err != nil {
		return interfaces.ResultSize
	}
	return nil
}

func (l *frameLibrary) Write(offset uint32, src []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return interfaces.ResultNotOpen
	}
	if err := l.frame.AppendWrite(offset, src); err != nil {
		return interfaces.ResultSize
	}
	return nil
}

func (l *frameLibrary) Process() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return interfaces.ResultNotOpen
	}
	if l.frame.Empty() {
		return interfaces.ResultNoData
	}
	return l.processLocked()
}

func (l *frameLibrary) processLocked() error {
	l.frame.Terminate()
	if err := l.t.send(l.frame.Bytes()); err != nil {
		l.frame.Reset()
		l.failed++
		return err
	}
	if err := l.frame.Decode(); err != nil {
		l.failed++
		return interfaces.ResultData
	}
	l.processed++
	return nil
}

func (l *frameLibrary) Version() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

func (l *frameLibrary) FSVersion() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fsVersion
}

func (l *frameLibrary) LibVersion() uint32 {
	return ipc.LibVersion
}

func (l *frameLibrary) stats() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	queued := 0
	if l.frame != nil {
		queued = l.frame.Count()
	}
	return map[string]interface{}{
		"open":      l.open,
		"queued":    queued,
		"processed": l.processed,
		"failed":    l.failed,
	}
}
