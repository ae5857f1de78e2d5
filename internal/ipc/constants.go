// Package ipc implements the FSUIPC user-library request frame: the byte
// layout written into the shared file mapping before the IPC message is
// sent, and decoded after the server has answered.
package ipc

import "time"

// Frame layout
const (
	// MaxSize is the largest frame the server accepts, terminator included
	MaxSize = 0x7F00

	// MappingSize is the size of the shared file mapping
	MappingSize = MaxSize + 256

	// ReadHeaderSize is the size of a read request header: id, offset,
	// byte count, padding and a 64-bit destination tag
	ReadHeaderSize = 24

	// WriteHeaderSize is the size of a write request header: id, offset,
	// byte count
	WriteHeaderSize = 12

	// TerminatorSize is the zero dword that ends a frame
	TerminatorSize = 4
)

// Request identifiers
const (
	ReadStateDataID  uint32 = 1
	WriteStateDataID uint32 = 2
)

// Windows messaging
const (
	WindowClass       = "UIPCMAIN"
	LegacyWindowClass = "FS98MAIN"
	MessageName       = "FsasmLib:IPC"
	MappingNameFormat = "FsasmLib:IPC:%X:%X"

	// MessageSuccess is the reply of a server that executed the frame
	MessageSuccess = 1

	SendTimeout  = 2000 * time.Millisecond
	MaxSendTries = 10
	RetryDelay   = 100 * time.Millisecond
)

// Version handshake offsets and checks
const (
	OffsetFSUIPCVersion = 0x3304
	OffsetFSVersion     = 0x3308
	OffsetLibVersion    = 0x330A

	// MinFSUIPCVersion is the oldest FSUIPC build the protocol supports
	MinFSUIPCVersion = 0x19980005

	// FSVersionCheck is the check word in the high half of the FS version
	FSVersionCheck     = 0xFADE0000
	FSVersionCheckMask = 0xFFFF0000

	// LibVersion identifies this client to the server (2.002)
	LibVersion = 2002
)
