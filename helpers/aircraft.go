package helpers

import "github.com/ehrlich-b/go-fsuipc/datarequest"

// Aircraft builds requests describing the user aircraft.
type Aircraft struct{}

// IAS is the indicated airspeed in knots.
func (Aircraft) IAS() *datarequest.Func[float64] {
	return knots(0x02BC)
}

// TAS is the true airspeed in knots.
func (Aircraft) TAS() *datarequest.Func[float64] {
	return knots(0x02B8)
}

func knots(offset uint32) *datarequest.Func[float64] {
	r := scalar[int32](offset)
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) / 128 },
		func(v float64) { r.SetValue(int32(v * 128)) })
}

// VerticalSpeed is in metres per second, or feet per minute when fpm is set.
func (Aircraft) VerticalSpeed(fpm bool) *datarequest.Func[float64] {
	r := scalar[int32](0x02C8)
	factor := 1.0
	if fpm {
		factor = 60 * MetresToFeet
	}
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) / 256 * factor },
		func(v float64) { r.SetValue(int32(v / factor * 256)) })
}

// Latitude in degrees, north positive.
func (Aircraft) Latitude() *datarequest.Func[float64] {
	r := scalar[int64](0x0560)
	const unit = 90.0 / (10001750.0 * two32)
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) * unit },
		func(v float64) { r.SetValue(int64(v / unit)) })
}

// Longitude in degrees, east positive.
func (Aircraft) Longitude() *datarequest.Func[float64] {
	r := scalar[int64](0x0568)
	const unit = 360.0 / two64
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) * unit },
		func(v float64) { r.SetValue(int64(v / unit)) })
}

// Altitude above sea level in metres, or feet when feet is set.
func (Aircraft) Altitude(feet bool) *datarequest.Func[float64] {
	r := scalar[int64](0x0570)
	factor := 1.0
	if feet {
		factor = MetresToFeet
	}
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) / two32 * factor },
		func(v float64) { r.SetValue(int64(v / factor * two32)) })
}

// Pitch in degrees. FSUIPC reports nose up as negative.
func (Aircraft) Pitch() *datarequest.Func[float64] {
	return angle(0x0578)
}

// Bank in degrees.
func (Aircraft) Bank() *datarequest.Func[float64] {
	return angle(0x057C)
}

func angle(offset uint32) *datarequest.Func[float64] {
	r := scalar[int32](offset)
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) * 360 / two32 },
		func(v float64) { r.SetValue(int32(v / 360 * two32)) })
}

// Heading is the true heading in degrees, 0 to 360.
func (Aircraft) Heading() *datarequest.Func[float64] {
	r := scalar[uint32](0x0580)
	return datarequest.NewFunc(r,
		func() float64 { return float64(r.Value()) * 360 / two32 },
		func(v float64) { r.SetValue(uint32(v / 360 * two32)) })
}

// MagneticVariation in degrees, west negative.
func (Aircraft) MagneticVariation() *datarequest.Func[float64] {
	r := scalar[int16](0x02A0)
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) * 360 / 65536 }, nil)
}

// OnGround reports whether the aircraft is on the ground.
func (Aircraft) OnGround() *datarequest.Func[bool] {
	return boolFunc(scalar[int16](0x0366))
}

// EngineCount is the number of engines.
func (Aircraft) EngineCount() *datarequest.Func[int] {
	r := scalar[int16](0x0AEC)
	return datarequest.NewFunc(r, func() int { return int(r.Value()) }, nil)
}

// Name is the aircraft title.
func (Aircraft) Name() *datarequest.Func[string] {
	return stringFunc(str(0x3D00, 256))
}

func (Aircraft) ATCFlightNumber() *datarequest.Func[string] { return stringFunc(str(0x3130, 12)) }
func (Aircraft) ATCIdent() *datarequest.Func[string]        { return stringFunc(str(0x313C, 12)) }
func (Aircraft) ATCAirlineName() *datarequest.Func[string]  { return stringFunc(str(0x3148, 24)) }
func (Aircraft) ATCAircraftType() *datarequest.Func[string] { return stringFunc(str(0x3160, 24)) }
