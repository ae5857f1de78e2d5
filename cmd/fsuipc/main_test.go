package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	off, err := parseOffset("0x3304")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x3304), off)

	off, err = parseOffset(" 610 ")
	require.NoError(t, err)
	assert.Equal(t, uint32(610), off)

	_, err = parseOffset("0x1FFFFFFFF")
	assert.Error(t, err)
	_, err = parseOffset("offset")
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	b, err := parseHex("01 00 ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0xFF}, b)

	b, err = parseHex("0xDEAD")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, b)

	_, err = parseHex("abc")
	assert.Error(t, err)
	_, err = parseHex("")
	assert.Error(t, err)
}

func TestEncodeInt(t *testing.T) {
	b, err := encodeInt(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0}, b)

	b, err = encodeInt(-1, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, b)

	_, err = encodeInt(70000, 2)
	assert.Error(t, err)
	_, err = encodeInt(1, 3)
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		buf    []byte
		format string
		want   string
	}{
		{[]byte{0x00, 0x00, 0x00, 0x71}, "hex", "00 00 00 71"},
		{[]byte{0xFE}, "int", "-2"},
		{[]byte{0x00, 0x80}, "int", "-32768"},
		{[]byte{0x10, 0x27, 0x00, 0x00}, "int", "10000"},
		{[]byte{0x00, 0x00, 0xC0, 0x3F}, "float", "1.5"},
		{[]byte{0, 0, 0, 0, 0, 0, 0x04, 0x40}, "float", "2.5"},
		{[]byte("EDDB\x00junk"), "string", "EDDB"},
	}
	for _, tt := range tests {
		got, err := formatValue(tt.buf, tt.format)
		require.NoError(t, err, "%s % x", tt.format, tt.buf)
		assert.Equal(t, tt.want, got)
	}

	_, err := formatValue([]byte{1, 2, 3}, "int")
	assert.Error(t, err)
	_, err = formatValue([]byte{1, 2}, "float")
	assert.Error(t, err)
	_, err = formatValue([]byte{1}, "base64")
	assert.Error(t, err)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--backend", "mem", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestReadCommand(t *testing.T) {
	out, err := run(t, "read", "--offset", "0x3304", "--size", "4")
	require.NoError(t, err)
	assert.Equal(t, "00 00 00 71\n", out)

	out, err = run(t, "read", "--offset", "0x3D00", "--size", "256", "--format", "string")
	require.NoError(t, err)
	assert.Equal(t, "Cessna Skyhawk G1000 (memory)\n", out)

	out, err = run(t, "read", "--offset", "0x0AEC", "--size", "2", "--format", "int")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestReadCommandWrongSim(t *testing.T) {
	_, err := run(t, "--sim", "fsx", "read", "--offset", "0x3304")
	assert.Error(t, err)
}

func TestWriteCommand(t *testing.T) {
	out, err := run(t, "write", "--offset", "0x0262", "--int", "1", "--size", "2")
	require.NoError(t, err)
	assert.Equal(t, "wrote 2 bytes at 0x0262\n", out)

	out, err = run(t, "write", "--offset", "0x0262", "--hex", "01 00")
	require.NoError(t, err)
	assert.Equal(t, "wrote 2 bytes at 0x0262\n", out)

	_, err = run(t, "write", "--offset", "0x0262")
	assert.Error(t, err)
}

func TestStatusCommand(t *testing.T) {
	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Simulator processes")
	assert.Contains(t, out, "Simulator: Microsoft Flight Simulator (2020)")
	assert.Contains(t, out, "FSUIPC version: 7.100")
}

func TestUnknownBackend(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--backend", "serial", "read", "--offset", "0x3304"})
	assert.Error(t, cmd.Execute())
}

func TestSeededRadios(t *testing.T) {
	out, err := run(t, "read", "--offset", "0x034E", "--size", "2")
	require.NoError(t, err)
	assert.Equal(t, "80 22\n", out)

	out, err = run(t, "read", "--offset", "0x0BE8", "--size", "4", "--format", "int")
	require.NoError(t, err)
	assert.Equal(t, "16383\n", out)
}

func TestLVarCommand(t *testing.T) {
	_, err := run(t, "lvar", "set", "Landing_Light", "1", "--format", "int32")
	require.NoError(t, err)
	_, err = run(t, "lvar", "set", "My_Var", "2.5", "--create")
	require.NoError(t, err)

	out, err := run(t, "lvar", "get", "Flaps_Handle", "--offset", "0x66D0")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = run(t, "lvar", "get", "Flaps_Handle", "--format", "quad")
	assert.Error(t, err)
	_, err = run(t, "lvar", "set", "Landing_Light", "on")
	assert.Error(t, err)
	_, err = run(t, "lvar", "get", "Flaps_Handle", "--offset", "0x10000")
	assert.Error(t, err)
}

func TestLuaAndMacroCommands(t *testing.T) {
	_, err := run(t, "lua", "run", "autobrake")
	require.NoError(t, err)
	_, err = run(t, "lua", "set", "autobrake", "--param", "3")
	require.NoError(t, err)
	_, err = run(t, "lua", "killall")
	require.NoError(t, err)

	_, err = run(t, "lua", "dance", "autobrake")
	assert.Error(t, err)
	_, err = run(t, "lua", "run")
	assert.Error(t, err)

	_, err = run(t, "macro", "a320:gear_dn", "--param", "1")
	require.NoError(t, err)
	_, err = run(t, "macro", "gear_dn")
	assert.Error(t, err)
}
