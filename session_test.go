package fsuipc

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ehrlich-b/go-fsuipc/internal/mocks"
)

func quietOptions() *Options {
	return &Options{LogOutput: io.Discard}
}

func openFake(t *testing.T) (*Session, *FakeLibrary) {
	t.Helper()
	lib := NewFakeLibrary()
	s := NewSession(lib, quietOptions())
	require.NoError(t, s.Open(SimAny))
	return s, lib
}

func newMockSession(t *testing.T) (*Session, *mocks.MockLibrary) {
	t.Helper()
	ctrl := gomock.NewController(t)
	lib := mocks.NewMockLibrary(ctrl)
	lib.EXPECT().Version().Return(uint32(0x71000000)).AnyTimes()
	lib.EXPECT().FSVersion().Return(uint32(SimMSFS)).AnyTimes()
	lib.EXPECT().LibVersion().Return(uint32(2002)).AnyTimes()
	return NewSession(lib, quietOptions()), lib
}

func TestReadThenProcess(t *testing.T) {
	s, lib := openFake(t)
	require.NoError(t, lib.Poke(0x0200, []byte{1, 2, 3, 4}))

	buf := make([]byte, 4)
	require.NoError(t, s.Read(0x0200, 4, buf))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf, "read is deferred until Process")
	assert.Equal(t, 1, s.Pending())

	require.NoError(t, s.Process())
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, ResultOK, s.Result())
}

func TestWriteIsDeferredUntilProcess(t *testing.T) {
	s, lib := openFake(t)

	require.NoError(t, s.Write(0x3000, 2, []byte{9, 9}))
	assert.Equal(t, []byte{0, 0}, lib.Peek(0x3000, 2))

	require.NoError(t, s.Process())
	assert.Equal(t, []byte{9, 9}, lib.Peek(0x3000, 2))

	back := make([]byte, 2)
	require.NoError(t, s.Read(0x3000, 2, back))
	require.NoError(t, s.Process())
	assert.Equal(t, []byte{9, 9}, back)
}

func TestWriteUsesOnlySizeBytes(t *testing.T) {
	s, lib := openFake(t)

	require.NoError(t, s.Write(0x3000, 2, []byte{1, 2, 3, 4}))
	require.NoError(t, s.Process())
	assert.Equal(t, []byte{1, 2, 0, 0}, lib.Peek(0x3000, 4))
}

func TestCloseSyncsPendingRead(t *testing.T) {
	s, lib := newMockSession(t)

	var scheduled []byte
	gomock.InOrder(
		lib.EXPECT().Open(uint32(0)).Return(nil),
		lib.EXPECT().Read(uint32(0x0200), gomock.Any()).DoAndReturn(func(offset uint32, dst []byte) error {
			scheduled = dst
			return nil
		}),
		lib.EXPECT().Close().Return(nil),
	)

	require.NoError(t, s.Open(SimAny))
	buf := make([]byte, 4)
	require.NoError(t, s.Read(0x0200, 4, buf))

	// The library wrote into the pinned storage but Process was never called.
	copy(scheduled, []byte{5, 6, 7, 8})
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)

	require.NoError(t, s.Close())
	assert.Equal(t, []byte{5, 6, 7, 8}, buf)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, SessionStateClosed, s.State())
}

func TestCloseWithFakeEmptiesRegistry(t *testing.T) {
	s, lib := openFake(t)
	buf := []byte{3, 3}
	require.NoError(t, s.Read(0x0200, 2, buf))
	require.NoError(t, s.Close())

	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, []byte{3, 3}, buf)
	assert.Equal(t, 1, lib.CallCounts()["close"])
}

func TestReopenAfterClose(t *testing.T) {
	s, lib := openFake(t)
	require.NoError(t, lib.Poke(0x0200, []byte{1, 2, 3, 4}))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Close())
		assert.Equal(t, SessionStateClosed, s.State())

		require.NoError(t, s.Open(SimAny), "reopen %d", i)
		assert.Equal(t, SessionStateOpen, s.State())
		assert.Equal(t, SimMSFS, s.FSVersion())

		buf := make([]byte, 4)
		require.NoError(t, s.ReadData(0x0200, 4, buf))
		assert.Equal(t, []byte{1, 2, 3, 4}, buf)
	}
	assert.Equal(t, 4, lib.CallCounts()["open"])
}

func TestForwardingOrder(t *testing.T) {
	s, lib := newMockSession(t)

	gomock.InOrder(
		lib.EXPECT().Open(uint32(SimP3D64)).Return(nil),
		lib.EXPECT().Write(uint32(0x0262), []byte{1, 0}).Return(nil),
		lib.EXPECT().Read(uint32(0x0264), gomock.Len(2)).Return(nil),
		lib.EXPECT().Process().Return(nil),
		lib.EXPECT().Close().Return(nil),
	)

	require.NoError(t, s.Open(SimP3D64))
	require.NoError(t, s.Write(0x0262, 2, []byte{1, 0}))
	require.NoError(t, s.Read(0x0264, 2, make([]byte, 2)))
	require.NoError(t, s.Process())
	require.NoError(t, s.Close())
}

func TestLibraryFailureDiscardsRecord(t *testing.T) {
	s, lib := openFake(t)
	lib.Fail("read", ResultSize)

	buf := []byte{7, 7}
	err := s.Read(0x0200, 2, buf)
	require.Error(t, err)

	assert.True(t, IsResult(err, ResultSize))
	assert.True(t, IsCode(err, ErrCodeRequestFull))
	assert.ErrorIs(t, err, ErrRequestFull)
	assert.ErrorIs(t, err, ResultSize)
	assert.Equal(t, []byte{7, 7}, buf)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, ResultSize, s.Result())

	lib.ClearFailures()
	require.NoError(t, s.Read(0x0200, 2, buf))
	assert.Equal(t, ResultOK, s.Result())
}

func TestReadWhenNotOpen(t *testing.T) {
	lib := NewFakeLibrary()
	s := NewSession(lib, quietOptions())

	buf := []byte{1}
	err := s.Read(0x0200, 1, buf)
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.Equal(t, ResultNotOpen, s.Result())
	assert.Equal(t, []byte{1}, buf)

	assert.ErrorIs(t, s.Process(), ErrNotOpen)
}

func TestProcessFailureStillReleases(t *testing.T) {
	s, lib := newMockSession(t)

	var scheduled []byte
	lib.EXPECT().Read(uint32(0x0560), gomock.Any()).DoAndReturn(func(offset uint32, dst []byte) error {
		scheduled = dst
		return nil
	})
	lib.EXPECT().Process().DoAndReturn(func() error {
		copy(scheduled, []byte{0xAB, 0xCD})
		return ResultTimeout
	})

	buf := make([]byte, 2)
	require.NoError(t, s.Read(0x0560, 2, buf))

	err := s.Process()
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, ResultTimeout, s.Result())
	assert.Equal(t, []byte{0xAB, 0xCD}, buf)
	assert.Equal(t, 0, s.Pending())

	snap := s.MetricsSnapshot()
	assert.Equal(t, uint64(1), snap.ProcessErrors)
	assert.Equal(t, uint64(1), snap.RecordsReleased)
}

func TestInvalidBuffers(t *testing.T) {
	s, _ := newMockSession(t)

	tests := []struct {
		name string
		size uint32
		buf  []byte
	}{
		{"nil buffer", 4, nil},
		{"size exceeds buffer", 8, make([]byte, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Read(0x0200, tt.size, tt.buf)
			assert.ErrorIs(t, err, ErrInvalidParameters)
			err = s.WriteData(0x0200, tt.size, tt.buf)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
	assert.Equal(t, 0, s.Pending())
}

type failingPinner struct{}

func (failingPinner) Pin([]byte) ([]byte, error)       { return nil, errors.New("heap exhausted") }
func (failingPinner) Unpin(_, _ []byte, _ bool) error { return nil }

// stalePinner pins fine but cannot unpin.
type stalePinner struct{ CopyPinner }

func (stalePinner) Unpin(_, _ []byte, _ bool) error { return errors.New("stale handle") }

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDiscardFailureIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	lib := mocks.NewMockLibrary(ctrl)
	lib.EXPECT().Read(uint32(0x0200), gomock.Any()).Return(ResultNotOpen)

	out := &lockedBuffer{}
	s := NewSession(lib, &Options{Pinner: stalePinner{}, LogOutput: out, LogFormat: "json"})

	buf := []byte{1, 2, 3, 4}
	err := s.Read(0x0200, 4, buf)
	assert.True(t, IsResult(err, ResultNotOpen))
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)

	assert.Eventually(t, func() bool {
		log := out.String()
		return strings.Contains(log, "failed to discard request") && strings.Contains(log, "stale handle")
	}, time.Second, 5*time.Millisecond)
}

func TestPinFailureSkipsLibrary(t *testing.T) {
	ctrl := gomock.NewController(t)
	lib := mocks.NewMockLibrary(ctrl)
	s := NewSession(lib, &Options{Pinner: failingPinner{}, LogOutput: io.Discard})

	err := s.Read(0x0200, 4, make([]byte, 4))
	assert.ErrorIs(t, err, ErrPinFailed)
	assert.True(t, IsCode(err, ErrCodePinFailed))

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "READ", fe.Op)
	assert.Equal(t, uint32(0x0200), fe.Offset)
	assert.Equal(t, uint32(4), fe.Size)
	assert.Equal(t, ResultOK, s.Result(), "the library was never called")
}

func TestReadDataWriteData(t *testing.T) {
	s, lib := openFake(t)
	require.NoError(t, lib.Poke(0x0570, []byte{1, 2, 3, 4, 5, 6, 7, 8}))

	buf := make([]byte, 8)
	require.NoError(t, s.ReadData(0x0570, 8, buf))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, buf)

	require.NoError(t, s.WriteData(0x3000, 3, []byte{4, 5, 6}))
	assert.Equal(t, []byte{4, 5, 6}, lib.Peek(0x3000, 3))
	assert.Equal(t, 0, s.Pending())
}

func TestReadDataLeavesScheduledRequestsPending(t *testing.T) {
	s, lib := openFake(t)
	require.NoError(t, lib.Poke(0x0200, []byte{1}))

	pending := make([]byte, 1)
	require.NoError(t, s.Read(0x0200, 1, pending))
	require.NoError(t, s.ReadData(0x0200, 1, make([]byte, 1)))

	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, []byte{0}, pending)

	// The batch has already run, so the next Process has nothing to do but
	// still releases the pending record.
	assert.ErrorIs(t, s.Process(), ErrNoData)
	assert.Equal(t, []byte{1}, pending)
}

func TestReadDataProcessFailureStillCopiesBack(t *testing.T) {
	s, lib := newMockSession(t)

	lib.EXPECT().Read(uint32(0x0238), gomock.Any()).DoAndReturn(func(offset uint32, dst []byte) error {
		copy(dst, []byte{12, 30, 0})
		return nil
	})
	lib.EXPECT().Process().Return(ResultSendMsg)

	buf := make([]byte, 3)
	err := s.ReadData(0x0238, 3, buf)
	assert.ErrorIs(t, err, ResultSendMsg)
	assert.Equal(t, []byte{12, 30, 0}, buf)
}

func TestReadDataReadFailureStillProcesses(t *testing.T) {
	s, lib := newMockSession(t)

	gomock.InOrder(
		lib.EXPECT().Read(uint32(0x0238), gomock.Any()).Return(ResultNotOpen),
		lib.EXPECT().Process().Return(ResultNotOpen),
	)

	err := s.ReadData(0x0238, 3, make([]byte, 3))
	assert.True(t, IsResult(err, ResultNotOpen))
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "READ", fe.Op)
}

func TestOpenFailure(t *testing.T) {
	s := NewSession(NewFakeLibrary(), quietOptions())

	err := s.Open(SimP3D)
	assert.ErrorIs(t, err, ErrVersion)
	assert.Equal(t, ResultWrongFS, s.Result())
	assert.Equal(t, SessionStateClosed, s.State())

	require.NoError(t, s.Open(SimMSFS))
	assert.ErrorIs(t, s.Open(SimAny), ErrAlreadyOpen)
	assert.Equal(t, SessionStateOpen, s.State())
}

func TestVersions(t *testing.T) {
	s, _ := openFake(t)

	assert.Equal(t, SimMSFS, s.FSVersion())
	assert.Equal(t, uint32(0x71000000), s.Version())
	assert.Equal(t, "7.100", s.VersionString())
	assert.Equal(t, uint32(2002), s.LibVersion())
	assert.Equal(t, "2.002", s.LibVersionString())

	require.NoError(t, s.Close())
	assert.Equal(t, SimAny, s.FSVersion())
}

func TestSessionInfo(t *testing.T) {
	s, _ := openFake(t)
	require.NoError(t, s.Read(0x0200, 1, make([]byte, 1)))

	info := s.Info()
	assert.Equal(t, s.ID.String(), info.ID)
	assert.Equal(t, SessionStateOpen, info.State)
	assert.Equal(t, "OK", info.Result)
	assert.Equal(t, 1, info.Pending)
	assert.Equal(t, "Microsoft Flight Simulator (2020)", info.FSVersion)
	assert.NotNil(t, info.OpenedAt)

	require.NoError(t, s.Close())
	assert.Nil(t, s.Info().OpenedAt)
}

func TestSessionMetrics(t *testing.T) {
	s, lib := openFake(t)
	require.NoError(t, s.Read(0x0200, 4, make([]byte, 4)))
	require.NoError(t, s.Write(0x3000, 2, []byte{1, 2}))
	require.NoError(t, s.Process())
	lib.Fail("write", ResultSize)
	s.Write(0x3000, 2, []byte{1, 2})

	snap := s.MetricsSnapshot()
	assert.Equal(t, uint64(1), snap.ReadOps)
	assert.Equal(t, uint64(4), snap.ReadBytes)
	assert.Equal(t, uint64(2), snap.WriteOps)
	assert.Equal(t, uint64(1), snap.WriteErrors)
	assert.Equal(t, uint64(1), snap.ProcessOps)
	assert.Equal(t, uint64(2), snap.RecordsReleased)
	assert.Equal(t, uint32(2), snap.MaxPending)
}

func TestSetupLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsuipc.log")
	s := NewSession(NewFakeLibrary(), &Options{
		LogOutput: io.Discard,
		Log:       &LogConfig{FileLogging: true, FileName: path, Severity: SeverityTrace},
	})

	require.NoError(t, s.Open(SimAny))
	require.NoError(t, s.Read(0x0200, 2, make([]byte, 2)))
	require.NoError(t, s.Process())
	require.NoError(t, s.SetupLogging(LogConfig{FileLogging: false}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Started logging to file")
	assert.Contains(t, content, "stored request")
	assert.Contains(t, content, "session="+s.ID.String())
	assert.Contains(t, content, "This is the last line of the log. Good Bye.")
}

func TestObserverOverride(t *testing.T) {
	lib := NewFakeLibrary()
	s := NewSession(lib, &Options{Observer: NoOpObserver{}, LogOutput: io.Discard})
	require.NoError(t, s.Open(SimAny))
	require.NoError(t, s.Read(0x0200, 1, make([]byte, 1)))
	assert.Equal(t, uint64(0), s.MetricsSnapshot().ReadOps)
}
