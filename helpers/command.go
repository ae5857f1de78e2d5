package helpers

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ehrlich-b/go-fsuipc/datarequest"
)

// Offsets of the FSUIPC command interface. The parameter is written first,
// then the command string, which FSUIPC executes on receipt.
const (
	OffsetCommandParam  = 0x0D6C
	OffsetCommandString = 0x0D70
)

// ControlLuaKillAll is the FS control that stops every running Lua plugin.
const ControlLuaKillAll = 1084

// Macro file and macro names are limited to this many bytes each.
const maxMacroPart = 16

var (
	// ErrEmptyName is returned for a blank L:var, Lua plugin or macro name.
	ErrEmptyName = errors.New("helpers: name must not be empty")
	// ErrMacroName is returned when a macro reference is malformed or too long.
	ErrMacroName = errors.New("helpers: invalid macro name")
	// ErrLVarOffset is returned when an L:var value offset does not fit the
	// 16 bits left beside the format in the parameter.
	ErrLVarOffset = errors.New("helpers: L:var offset must be below 0x10000")
)

// Command is a batch of writes to the command interface, optionally with
// the request carrying an L:var value. Requests must be processed in the
// order returned by Requests.
type Command struct {
	Param   *datarequest.Int
	Control *datarequest.String
	// Value is set for L:var commands only.
	Value *datarequest.Func[float64]

	order []datarequest.Request
}

// Requests returns the requests in execution order.
func (c *Command) Requests() []datarequest.Request {
	return c.order
}

func newCommand(param int32, text string) (*Command, error) {
	p, err := datarequest.NewScalarValue[int32](OffsetCommandParam, param)
	if err != nil {
		return nil, err
	}
	ctl, err := datarequest.NewStringValue(OffsetCommandString, 0, text)
	if err != nil {
		return nil, err
	}
	c := &Command{Param: p, Control: ctl}
	c.order = []datarequest.Request{p, ctl}
	return c, nil
}

// LVarFormat selects how FSUIPC converts an L:var, whose native type is a
// double, when copying it to or from the value offset.
type LVarFormat int32

const (
	LVarDouble LVarFormat = 0x00000
	LVarFloat  LVarFormat = 0x10000
	LVarInt32  LVarFormat = 0x20000
	LVarUint32 LVarFormat = 0x30000
	LVarInt16  LVarFormat = 0x40000
	LVarUint16 LVarFormat = 0x50000
	LVarInt8   LVarFormat = 0x60000
	LVarUint8  LVarFormat = 0x70000
)

func (f LVarFormat) String() string {
	switch f {
	case LVarDouble:
		return "double"
	case LVarFloat:
		return "float"
	case LVarInt32:
		return "int32"
	case LVarUint32:
		return "uint32"
	case LVarInt16:
		return "int16"
	case LVarUint16:
		return "uint16"
	case LVarInt8:
		return "int8"
	case LVarUint8:
		return "uint8"
	default:
		return fmt.Sprintf("LVarFormat(0x%X)", int32(f))
	}
}

// LVar builds L:var (panel local variable) commands. The value travels
// through a spare offset, usually in the user area at 0x66C0.
type LVar struct{}

// Read returns a command copying the L:var name into offset, converted to
// format. Value holds the result after processing.
func (LVar) Read(name string, offset uint32, format LVarFormat) (*Command, error) {
	c, err := lvarCommand(":", name, offset, format, datarequest.KindRead)
	if err != nil {
		return nil, err
	}
	c.order = append(c.order, c.Value)
	return c, nil
}

// Write returns a command setting the L:var name to value.
func (LVar) Write(name string, offset uint32, format LVarFormat, value float64) (*Command, error) {
	return lvarWrite("::", name, offset, format, value)
}

// Create returns a command creating the L:var name with an initial value.
// FSUIPC treats it as a write when the variable already exists.
func (LVar) Create(name string, offset uint32, format LVarFormat, value float64) (*Command, error) {
	return lvarWrite(":::", name, offset, format, value)
}

func lvarWrite(prefix, name string, offset uint32, format LVarFormat, value float64) (*Command, error) {
	c, err := lvarCommand(prefix, name, offset, format, datarequest.KindWrite)
	if err != nil {
		return nil, err
	}
	if err := c.Value.SetValue(value); err != nil {
		return nil, err
	}
	// The value must be in place before the command runs.
	c.order = append([]datarequest.Request{c.Value}, c.order...)
	return c, nil
}

func lvarCommand(prefix, name string, offset uint32, format LVarFormat, kind datarequest.Kind) (*Command, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "L:")
	if name == "" {
		return nil, ErrEmptyName
	}
	if offset > 0xFFFF {
		return nil, fmt.Errorf("%w: 0x%X", ErrLVarOffset, offset)
	}
	value, err := lvarValue(offset, format, kind)
	if err != nil {
		return nil, err
	}
	c, err := newCommand(int32(format)|int32(offset), prefix+name)
	if err != nil {
		return nil, err
	}
	c.Value = value
	return c, nil
}

func lvarValue(offset uint32, format LVarFormat, kind datarequest.Kind) (*datarequest.Func[float64], error) {
	switch format {
	case LVarDouble:
		return number[float64](offset, kind, false)
	case LVarFloat:
		return number[float32](offset, kind, false)
	case LVarInt32:
		return number[int32](offset, kind, true)
	case LVarUint32:
		return number[uint32](offset, kind, true)
	case LVarInt16:
		return number[int16](offset, kind, true)
	case LVarUint16:
		return number[uint16](offset, kind, true)
	case LVarInt8:
		return number[int8](offset, kind, true)
	case LVarUint8:
		return number[uint8](offset, kind, true)
	}
	return nil, fmt.Errorf("helpers: unknown L:var format %s", format)
}

func number[T datarequest.Number](offset uint32, kind datarequest.Kind, integer bool) (*datarequest.Func[float64], error) {
	r, err := datarequest.NewScalar[T](offset)
	if err != nil {
		return nil, err
	}
	r.SetKind(kind)
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) },
		func(v float64) {
			if integer {
				v = math.Round(v)
			}
			r.SetValue(T(v))
		}), nil
}

// LuaCommand names an action on a Lua plugin.
type LuaCommand string

const (
	LuaRun    LuaCommand = "Lua"
	LuaValue  LuaCommand = "LuaValue"
	LuaDebug  LuaCommand = "LuaDebug"
	LuaKill   LuaCommand = "LuaKill"
	LuaSet    LuaCommand = "LuaSet"
	LuaClear  LuaCommand = "LuaClear"
	LuaToggle LuaCommand = "LuaToggle"
)

// Lua builds commands for Lua plugins run by FSUIPC.
type Lua struct{}

// Command returns cmd applied to program with param. For LuaSet, LuaClear
// and LuaToggle param is the flag number; for LuaValue it is the value
// passed to the plugin's ipcPARAM.
func (Lua) Command(cmd LuaCommand, program string, param int32) (*Command, error) {
	program = strings.TrimSpace(program)
	if program == "" {
		return nil, ErrEmptyName
	}
	return newCommand(param, string(cmd)+":"+program)
}

func (l Lua) Run(program string, param int32) (*Command, error) {
	return l.Command(LuaRun, program, param)
}

func (l Lua) Debug(program string, param int32) (*Command, error) {
	return l.Command(LuaDebug, program, param)
}

func (l Lua) Value(program string, value int32) (*Command, error) {
	return l.Command(LuaValue, program, value)
}

func (l Lua) Kill(program string) (*Command, error) {
	return l.Command(LuaKill, program, 0)
}

func (l Lua) SetFlag(program string, flag int32) (*Command, error) {
	return l.Command(LuaSet, program, flag)
}

func (l Lua) ClearFlag(program string, flag int32) (*Command, error) {
	return l.Command(LuaClear, program, flag)
}

func (l Lua) ToggleFlag(program string, flag int32) (*Command, error) {
	return l.Command(LuaToggle, program, flag)
}

// KillAll stops every running Lua plugin.
func (Lua) KillAll() *datarequest.FSControl {
	return datarequest.NewFSControl(ControlLuaKillAll, 0)
}

// Macro builds commands executing FSUIPC macros.
type Macro struct{}

// Execute runs macro name from macro file file (without the .mcro
// extension) with param.
func (Macro) Execute(file, name string, param int32) (*Command, error) {
	if file == "" || name == "" {
		return nil, ErrEmptyName
	}
	if len(file) > maxMacroPart || len(name) > maxMacroPart || strings.Contains(file, ":") {
		return nil, fmt.Errorf("%w: %q:%q", ErrMacroName, file, name)
	}
	return newCommand(param, file+":"+name)
}

// ExecuteRef runs a macro given as "file:name".
func (m Macro) ExecuteRef(ref string, param int32) (*Command, error) {
	file, name, ok := strings.Cut(ref, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMacroName, ref)
	}
	return m.Execute(file, name, param)
}
