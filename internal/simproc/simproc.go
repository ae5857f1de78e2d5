// Package simproc finds running flight simulator processes.
package simproc

import (
	"context"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/process"
)

// Process is a running simulator.
type Process struct {
	PID  int32
	Name string
	// Sim is the FSUIPC simulator version number
	Sim uint32
}

// Simulator version numbers as reported by FSUIPC.
const (
	SimFS2K4 uint32 = 7
	SimFSX   uint32 = 8
	SimP3D   uint32 = 10
	SimP3D64 uint32 = 12
	SimMSFS  uint32 = 13
)

var executables = map[string]uint32{
	"flightsimulator.exe": SimMSFS,
	"flightsimulator":     SimMSFS,
	"prepar3d.exe":        SimP3D64,
	"fsx.exe":             SimFSX,
	"fs9.exe":             SimFS2K4,
}

// Match returns the simulator version for an executable name.
func Match(name string) (uint32, bool) {
	sim, ok := executables[strings.ToLower(name)]
	return sim, ok
}

// Lister enumerates processes; the default uses gopsutil.
type Lister func(ctx context.Context) ([]Named, error)

// Named is the part of a process Find needs.
type Named interface {
	NameWithContext(ctx context.Context) (string, error)
}

func listProcesses(ctx context.Context) ([]Named, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Named, len(procs))
	for i, p := range procs {
		out[i] = p
	}
	return out, nil
}

// Find lists the running simulators, ordered by PID.
func Find(ctx context.Context) ([]Process, error) {
	return FindWith(ctx, listProcesses)
}

// FindWith is Find over a custom process list. Processes whose name cannot
// be read are skipped.
func FindWith(ctx context.Context, list Lister) ([]Process, error) {
	procs, err := list(ctx)
	if err != nil {
		return nil, err
	}

	var found []Process
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		sim, ok := Match(name)
		if !ok {
			continue
		}
		found = append(found, Process{PID: pidOf(p), Name: name, Sim: sim})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].PID < found[j].PID })
	return found, nil
}

func pidOf(p Named) int32 {
	if withPID, ok := p.(interface{ PIDValue() int32 }); ok {
		return withPID.PIDValue()
	}
	if proc, ok := p.(*process.Process); ok {
		return proc.Pid
	}
	return 0
}
