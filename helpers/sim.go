package helpers

import (
	"fmt"
	"time"

	"github.com/ehrlich-b/go-fsuipc/datarequest"
)

// Season as reported by the simulator.
type Season int16

const (
	Winter Season = iota
	Spring
	Summer
	Fall
)

func (s Season) String() string {
	switch s {
	case Winter:
		return "winter"
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Fall:
		return "fall"
	default:
		return fmt.Sprintf("Season(%d)", int16(s))
	}
}

// Sim builds requests describing the simulator itself.
type Sim struct{}

// LocalTime is the local time of day in the simulator, to the second.
func (Sim) LocalTime() *datarequest.Func[time.Duration] {
	r, err := datarequest.NewByteArray(0x0238, 3)
	if err != nil {
		panic(err)
	}
	return datarequest.NewFunc(r,
		func() time.Duration {
			b := r.Buffer()
			return time.Duration(b[0])*time.Hour + time.Duration(b[1])*time.Minute + time.Duration(b[2])*time.Second
		},
		func(d time.Duration) {
			s := int(d/time.Second) % 86400
			r.SetValue([]byte{byte(s / 3600), byte(s / 60 % 60), byte(s % 60)})
		})
}

// Paused reports the pause indicator.
func (Sim) Paused() *datarequest.Func[bool] {
	return boolFunc(scalar[int16](0x0264))
}

// SetPause returns a write request that pauses or resumes the simulator.
func (Sim) SetPause(pause bool) *datarequest.Short {
	var v int16
	if pause {
		v = 1
	}
	r := scalar[int16](0x0262)
	r.SetValue(v)
	r.SetKind(datarequest.KindWrite)
	return r
}

// Season is the current scenery season.
func (Sim) Season() *datarequest.Func[Season] {
	r := scalar[int16](0x0248)
	return datarequest.NewFunc(r, func() Season { return Season(r.Value()) }, nil)
}

// GroundAltitude is the ground elevation below the aircraft in metres, or
// feet when feet is set.
func (Sim) GroundAltitude(feet bool) *datarequest.Func[float64] {
	r := scalar[int32](0x0020)
	factor := 1.0
	if feet {
		factor = MetresToFeet
	}
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) / 256 * factor }, nil)
}

// MemorySize is the memory FSUIPC reserves for requests, in kilobytes.
func (Sim) MemorySize() *datarequest.Func[int32] {
	r := scalar[int32](0x0258)
	return datarequest.NewFunc(r, r.Value, nil)
}

// FrameRate in frames per second.
func (Sim) FrameRate() *datarequest.Func[float64] {
	r := scalar[int16](0x0274)
	return datarequest.NewFunc(r, func() float64 {
		if r.Value() == 0 {
			return 0
		}
		return 32768 / float64(r.Value())
	}, nil)
}

// SituationFile is the name of the loaded flight.
func (Sim) SituationFile() *datarequest.Func[string] {
	return stringFunc(str(0x0024, 256))
}

// Product names the FSX/Prepar3D/MSFS build from offset 0x3124.
func (Sim) Product() *datarequest.Func[string] {
	r := scalar[uint8](0x3124)
	return datarequest.NewFunc(r, func() string { return productName(r.Value()) }, nil)
}

func productName(v uint8) string {
	switch {
	case v < 10:
		switch v {
		case 1:
			return "FSX RTM"
		case 2:
			return "FSX SP1"
		case 3:
			return "FSX SP2"
		case 4:
			return "FSX Acceleration"
		}
		return "FSX (Unknown version)"
	case v <= 100:
		return fmt.Sprintf("Prepar3D %g", float64(v)/10)
	case v <= 109:
		return fmt.Sprintf("FSX Steam Edition, build: %d", 62607+int(v)-100)
	default:
		return "Microsoft Flight Simulator (2020)"
	}
}

// SendControl returns a request sending an FS control with its parameter.
func (Sim) SendControl(control, param int32) *datarequest.FSControl {
	return datarequest.NewFSControl(control, param)
}
