package datarequest

import "encoding/binary"

// OffsetFSControl accepts a control number and its parameter.
const OffsetFSControl = 0x3110

// FSControl sends a simulator control (event). It is always a write.
type FSControl struct {
	base
}

// NewFSControl creates a control request with its parameter.
func NewFSControl(control, param int32) *FSControl {
	c := &FSControl{base: base{offset: OffsetFSControl, buf: make([]byte, 8), kind: KindWrite}}
	c.SetControl(control)
	c.SetParam(param)
	return c
}

// SetKind is a no-op; controls cannot be read back.
func (c *FSControl) SetKind(Kind) {}

func (c *FSControl) SetControl(control int32) {
	binary.LittleEndian.PutUint32(c.buf[0:4], uint32(control))
}

func (c *FSControl) SetParam(param int32) {
	binary.LittleEndian.PutUint32(c.buf[4:8], uint32(param))
}

func (c *FSControl) Control() int32 { return int32(binary.LittleEndian.Uint32(c.buf[0:4])) }
func (c *FSControl) Param() int32   { return int32(binary.LittleEndian.Uint32(c.buf[4:8])) }
