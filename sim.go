package fsuipc

import (
	"fmt"
	"strconv"
	"strings"
)

// SimVersion identifies a simulator as reported by FSUIPC.
type SimVersion uint32

const (
	SimAny   SimVersion = iota // any simulator
	SimFS98                    // Flight Simulator 98
	SimFS2K                    // Flight Simulator 2000
	SimCFS2                    // Combat Flight Simulator 2
	SimCFS1                    // Combat Flight Simulator 1
	SimFly                     // Fly!
	SimFS2K2                   // Flight Simulator 2002
	SimFS2K4                   // Flight Simulator 2004
	SimFSX                     // Flight Simulator X
	SimESP                     // ESP
	SimP3D                     // Prepar3D
	SimFSX64                   // Flight Simulator X (64bit)
	SimP3D64                   // Prepar3D (64bit)
	SimMSFS                    // Microsoft Flight Simulator (2020)
)

var simInfo = [...]struct {
	key  string
	name string
}{
	SimAny:   {"any", "Any"},
	SimFS98:  {"fs98", "Flight Simulator 98"},
	SimFS2K:  {"fs2k", "Flight Simulator 2000"},
	SimCFS2:  {"cfs2", "Combat Flight Simulator 2"},
	SimCFS1:  {"cfs1", "Combat Flight Simulator 1"},
	SimFly:   {"fly", "Fly!"},
	SimFS2K2: {"fs2k2", "Flight Simulator 2002"},
	SimFS2K4: {"fs2k4", "Flight Simulator 2004"},
	SimFSX:   {"fsx", "Flight Simulator X"},
	SimESP:   {"esp", "ESP"},
	SimP3D:   {"p3d", "Prepar3D"},
	SimFSX64: {"fsx64", "Flight Simulator X (64bit)"},
	SimP3D64: {"p3d64", "Prepar3D (64bit)"},
	SimMSFS:  {"msfs", "Microsoft Flight Simulator (2020)"},
}

// String returns the display name of the simulator.
func (s SimVersion) String() string {
	if int(s) < len(simInfo) {
		return simInfo[s].name
	}
	return fmt.Sprintf("Unknown (%d)", uint32(s))
}

// Key returns the short lower-case identifier, e.g. "p3d64".
func (s SimVersion) Key() string {
	if int(s) < len(simInfo) {
		return simInfo[s].key
	}
	return strconv.FormatUint(uint64(s), 10)
}

// ParseSimVersion accepts a short identifier ("msfs"), a display name or a
// number.
func ParseSimVersion(s string) (SimVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SimAny, nil
	}
	if n, err := strconv.ParseUint(s, 0, 32); err == nil {
		if n >= uint64(len(simInfo)) {
			return SimAny, fmt.Errorf("unknown simulator version %d", n)
		}
		return SimVersion(n), nil
	}
	for i, info := range simInfo {
		if strings.EqualFold(s, info.key) || strings.EqualFold(s, info.name) {
			return SimVersion(i), nil
		}
	}
	return SimAny, fmt.Errorf("unknown simulator %q", s)
}

// FormatVersion renders a BCD FSUIPC version such as 0x71000000 as "7.100",
// with a build letter appended when the low word is set ("4.974b").
func FormatVersion(v uint32) string {
	digit := func(shift uint) byte { return '0' + byte((v>>shift)&0xF) }
	s := fmt.Sprintf("%c.%c%c%c", digit(28), digit(24), digit(20), digit(16))
	if v&0xFFFF != 0 {
		s += string(rune('a' + (v & 0xFF) - 1))
	}
	return s
}

// FormatLibVersion renders a library version (times 1000) as "2.002".
func FormatLibVersion(v uint32) string {
	return fmt.Sprintf("%.3f", float64(v)/1000)
}
