//go:build windows

package backend

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ehrlich-b/go-fsuipc/internal/interfaces"
	"github.com/ehrlich-b/go-fsuipc/internal/ipc"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procFindWindowExW          = user32.NewProc("FindWindowExW")
	procRegisterWindowMessageW = user32.NewProc("RegisterWindowMessageW")
	procSendMessageTimeoutW    = user32.NewProc("SendMessageTimeoutW")
	procGlobalAddAtomW         = kernel32.NewProc("GlobalAddAtomW")
	procGlobalDeleteAtom       = kernel32.NewProc("GlobalDeleteAtom")
)

const smtoBlock = 0x0001

// IPC talks to a running FSUIPC (or WideClient) through a shared file
// mapping and window messages.
type IPC struct {
	*frameLibrary
	t *winTransport
}

// NewIPC creates an unopened IPC client.
func NewIPC() *IPC {
	t := &winTransport{}
	return &IPC{frameLibrary: newFrameLibrary(t), t: t}
}

// Stats implements the StatLibrary interface
func (c *IPC) Stats() map[string]interface{} {
	stats := c.frameLibrary.stats()
	stats["type"] = "ipc"
	stats["sends"] = c.t.sends.Load()
	stats["retries"] = c.t.retries.Load()
	return stats
}

type winTransport struct {
	hwnd    uintptr
	msg     uintptr
	atom    uintptr
	mapping windows.Handle
	view    uintptr
	counter uint32

	sends   atomic.Uint64
	retries atomic.Uint64
}

func findWindow(class string) uintptr {
	p, err := windows.UTF16PtrFromString(class)
	if err != nil {
		return 0
	}
	hwnd, _, _ := procFindWindowExW.Call(0, 0, uintptr(unsafe.Pointer(p)), 0)
	return hwnd
}

func (t *winTransport) connect() ([]byte, error) {
	t.hwnd = findWindow(ipc.WindowClass)
	if t.hwnd == 0 {
		t.hwnd = findWindow(ipc.LegacyWindowClass)
	}
	if t.hwnd == 0 {
		return nil, interfaces.ResultNoFS
	}

	msgName, _ := windows.UTF16PtrFromString(ipc.MessageName)
	t.msg, _, _ = procRegisterWindowMessageW.Call(uintptr(unsafe.Pointer(msgName)))
	if t.msg == 0 {
		return nil, interfaces.ResultRegMsg
	}

	t.counter++
	name := fmt.Sprintf(ipc.MappingNameFormat, windows.GetCurrentProcessId(), t.counter)
	namePtr, _ := windows.UTF16PtrFromString(name)
	t.atom, _, _ = procGlobalAddAtomW.Call(uintptr(unsafe.Pointer(namePtr)))
	if t.atom == 0 {
		return nil, interfaces.ResultAtom
	}

	mapping, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, 0, ipc.MappingSize, namePtr)
	if err != nil || mapping == 0 {
		t.deleteAtom()
		return nil, interfaces.ResultMap
	}
	t.mapping = mapping

	view, err := windows.MapViewOfFile(mapping, windows.FILE_MAP_WRITE, 0, 0, 0)
	if err != nil || view == 0 {
		windows.CloseHandle(t.mapping)
		t.mapping = 0
		t.deleteAtom()
		return nil, interfaces.ResultView
	}
	t.view = view

	return unsafe.Slice((*byte)(unsafe.Pointer(view)), ipc.MappingSize), nil
}

func (t *winTransport) send(frame []byte) error {
	var reply uintptr
	var lastErr error
	timeout := uintptr(ipc.SendTimeout / time.Millisecond)

	t.sends.Add(1)
	for try := 0; try < ipc.MaxSendTries; try++ {
		if try > 0 {
			t.retries.Add(1)
			time.Sleep(ipc.RetryDelay)
		}
		r, _, err := procSendMessageTimeoutW.Call(t.hwnd, t.msg, t.atom, 0, smtoBlock, timeout, uintptr(unsafe.Pointer(&reply)))
		if r != 0 {
			if reply != ipc.MessageSuccess {
				return interfaces.ResultData
			}
			return nil
		}
		lastErr = err
	}

	var errno windows.Errno
	if lastErr == nil || (errors.As(lastErr, &errno) && (errno == 0 || errno == windows.ERROR_TIMEOUT)) {
		return interfaces.ResultTimeout
	}
	return interfaces.ResultSendMsg
}

func (t *winTransport) disconnect() {
	if t.view != 0 {
		windows.UnmapViewOfFile(t.view)
		t.view = 0
	}
	if t.mapping != 0 {
		windows.CloseHandle(t.mapping)
		t.mapping = 0
	}
	t.deleteAtom()
	t.hwnd = 0
}

func (t *winTransport) deleteAtom() {
	if t.atom != 0 {
		procGlobalDeleteAtom.Call(t.atom)
		t.atom = 0
	}
}

// Compile-time interface checks
var (
	_ interfaces.Library     = (*IPC)(nil)
	_ interfaces.StatLibrary = (*IPC)(nil)
)
