//go:build !windows

package backend

import (
	"github.com/ehrlich-b/go-fsuipc/internal/interfaces"
	"github.com/ehrlich-b/go-fsuipc/internal/ipc"
)

// IPC is only available on Windows. Elsewhere every call reports that no
// simulator can be reached.
type IPC struct{}

// NewIPC creates an IPC client that can never connect on this platform.
func NewIPC() *IPC { return &IPC{} }

func (*IPC) Open(sim uint32) error                 { return interfaces.ResultNoFS }
func (*IPC) Close() error                          { return nil }
func (*IPC) Read(offset uint32, dst []byte) error  { return interfaces.ResultNoFS }
func (*IPC) Write(offset uint32, src []byte) error { return interfaces.ResultNoFS }
func (*IPC) Process() error                        { return interfaces.ResultNoFS }
func (*IPC) Version() uint32                       { return 0 }
func (*IPC) FSVersion() uint32                     { return 0 }
func (*IPC) LibVersion() uint32                    { return ipc.LibVersion }

// Compile-time interface checks
var _ interfaces.Library = (*IPC)(nil)
