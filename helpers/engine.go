package helpers

import (
	"fmt"

	"github.com/ehrlich-b/go-fsuipc/datarequest"
)

// MaxEngines is the number of engines FSUIPC lays out offsets for.
const MaxEngines = 4

// Engine 1 offsets; each further engine is engineStride bytes higher.
const (
	engineStride = 0x98

	throttleLever    = 0x088C
	propLever        = 0x088E
	mixtureLever     = 0x0890
	oilTemperature   = 0x08B8
	oilPressure      = 0x08BA
	manifoldPressure = 0x08C0
	oilQuantity      = 0x08D0
	fuelUsed         = 0x090C
	elapsedTime      = 0x0910
	fuelFlow         = 0x0918
)

// Engine builds requests for one engine.
type Engine struct {
	index int
}

// EngineN returns the helper for engine n, counted from 1.
func EngineN(n int) (Engine, error) {
	if n < 1 || n > MaxEngines {
		return Engine{}, fmt.Errorf("helpers: engine %d out of range 1..%d", n, MaxEngines)
	}
	return Engine{index: n - 1}, nil
}

func (e Engine) Number() int { return e.index + 1 }

func (e Engine) offset(engine1 uint32) uint32 {
	return engine1 + uint32(e.index)*engineStride
}

// Levers run from -4096 (full reverse) to 16384; prop and mixture from 0.
func (e Engine) ThrottleLever() *datarequest.Short  { return scalar[int16](e.offset(throttleLever)) }
func (e Engine) PropellerLever() *datarequest.Short { return scalar[int16](e.offset(propLever)) }
func (e Engine) MixtureLever() *datarequest.Short   { return scalar[int16](e.offset(mixtureLever)) }

// SetThrottle returns a write request moving the throttle to percent,
// negative values selecting reverse.
func (e Engine) SetThrottle(percent float64) *datarequest.Short {
	r := e.ThrottleLever()
	r.SetValue(int16(clamp(percent, -25, 100) / 100 * 16384))
	r.SetKind(datarequest.KindWrite)
	return r
}

// FuelFlow in pounds per hour.
func (e Engine) FuelFlow() *datarequest.Func[float64] {
	r := scalar[float64](e.offset(fuelFlow))
	return datarequest.NewFunc(r, r.Value, nil)
}

// OilTemperature in degrees Celsius.
func (e Engine) OilTemperature() *datarequest.Func[float64] {
	r := scalar[int16](e.offset(oilTemperature))
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) / 16384 * 140 },
		func(v float64) { r.SetValue(int16(v / 140 * 16384)) })
}

// OilPressure in psi.
func (e Engine) OilPressure() *datarequest.Func[float64] {
	r := scalar[uint16](e.offset(oilPressure))
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) / 65535 * 220 },
		func(v float64) { r.SetValue(uint16(clamp(v, 0, 220) / 220 * 65535)) })
}

// OilQuantity in percent.
func (e Engine) OilQuantity() *datarequest.Func[float64] {
	r := scalar[int32](e.offset(oilQuantity))
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) / 16384 * 100 },
		func(v float64) { r.SetValue(int32(v / 100 * 16384)) })
}

// ManifoldPressure in inches of mercury.
func (e Engine) ManifoldPressure() *datarequest.Func[float64] {
	r := scalar[int16](e.offset(manifoldPressure))
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) / 1024 },
		func(v float64) { r.SetValue(int16(v * 1024)) })
}

// FuelUsed since start in pounds.
func (e Engine) FuelUsed() *datarequest.Func[float64] {
	r := scalar[float32](e.offset(fuelUsed))
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) },
		func(v float64) { r.SetValue(float32(v)) })
}

// ElapsedTime the engine has run, in hours.
func (e Engine) ElapsedTime() *datarequest.Func[float64] {
	r := scalar[float32](e.offset(elapsedTime))
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) }, nil)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// GearDown is the lever and position value for gear fully down.
const GearDown = 16383

// Gear builds landing gear requests. Positions are in percent extended.
type Gear struct{}

// Lever is the gear control, 0 up and 16383 down.
func (Gear) Lever() *datarequest.Int { return scalar[int32](0x0BE8) }

// SetLever returns a write request moving the gear lever.
func (g Gear) SetLever(down bool) *datarequest.Int {
	r := g.Lever()
	if down {
		r.SetValue(GearDown)
	}
	r.SetKind(datarequest.KindWrite)
	return r
}

func (Gear) Nose() *datarequest.Func[float64]  { return gearPosition(0x0BEC) }
func (Gear) Right() *datarequest.Func[float64] { return gearPosition(0x0BF0) }
func (Gear) Left() *datarequest.Func[float64]  { return gearPosition(0x0BF4) }

func gearPosition(offset uint32) *datarequest.Func[float64] {
	r := scalar[int32](offset)
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) / GearDown * 100 }, nil)
}

// Wheel RPMs.
func (Gear) CenterWheelRPM() *datarequest.Func[int16] { return wheelRPM(0x0266) }
func (Gear) LeftWheelRPM() *datarequest.Func[int16]   { return wheelRPM(0x0268) }
func (Gear) RightWheelRPM() *datarequest.Func[int16]  { return wheelRPM(0x026A) }

func wheelRPM(offset uint32) *datarequest.Func[int16] {
	r := scalar[int16](offset)
	return datarequest.NewFunc(r, r.Value, nil)
}
