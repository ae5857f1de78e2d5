package helpers

import (
	"math"

	"github.com/ehrlich-b/go-fsuipc/datarequest"
)

// OffsetRadioSwap takes the radio swap bits: one of the Radio swap values
// exchanges that radio's active and standby frequencies.
const OffsetRadioSwap = 0x3123

// Radio builds requests for one COM or NAV radio. Frequencies are in MHz
// and stored as four BCD digits without the leading 1.
type Radio struct {
	active  uint32
	standby uint32
	swap    uint8
}

func COM1() Radio { return Radio{active: 0x034E, standby: 0x311A, swap: 8} }
func COM2() Radio { return Radio{active: 0x3118, standby: 0x311C, swap: 4} }

// Frequency is the active frequency.
func (r Radio) Frequency() *datarequest.Func[float64] {
	return frequency(r.active)
}

// StandbyFrequency is the standby frequency.
func (r Radio) StandbyFrequency() *datarequest.Func[float64] {
	return frequency(r.standby)
}

// Swap returns a write request exchanging the active and standby
// frequencies.
func (r Radio) Swap() *datarequest.Byte {
	s, err := datarequest.NewScalarValue[uint8](OffsetRadioSwap, r.swap)
	if err != nil {
		panic(err)
	}
	return s
}

func frequency(offset uint32) *datarequest.Func[float64] {
	r := scalar[uint16](offset)
	return datarequest.NewFunc(r,
		func() float64 { return DecodeFrequency(r.Value()) },
		func(mhz float64) { r.SetValue(EncodeFrequency(mhz)) })
}

// DecodeFrequency converts a BCD radio frequency, 0x2345 meaning 123.45 MHz.
func DecodeFrequency(bcd uint16) float64 {
	d := func(shift uint) float64 { return float64(bcd >> shift & 0xF) }
	return 100 + d(12)*10 + d(8) + d(4)/10 + d(0)/100
}

// EncodeFrequency converts a frequency between 100 and 199.99 MHz to BCD.
// Digits beyond 10 kHz are rounded.
func EncodeFrequency(mhz float64) uint16 {
	v := int(math.Round((mhz - 100) * 100))
	var bcd uint16
	for i := 0; i < 4; i++ {
		bcd |= uint16(v%10) << (4 * i)
		v /= 10
	}
	return bcd
}

// NavRadio is a NAV receiver with its instruments and the tuned station.
type NavRadio struct {
	Radio

	cdi, gsi                 uint32
	localiser, signal        uint32
	radial, obs, vorBearing  uint32
	toFrom, backCourse, code uint32
	gsFlag, magVar           uint32
	lat, lon, elev           uint32
	locLat, locLon, locElev  uint32
	gsInclination, invRwyHdg uint32
	name, ident              uint32
	dmeDist, dmeSpeed, dmeTT uint32
}

func NAV1() NavRadio {
	return NavRadio{
		Radio:         Radio{active: 0x0350, standby: 0x311E, swap: 2},
		cdi:           0x2AAC,
		gsi:           0x2AB0,
		localiser:     0x0C48,
		signal:        0x0C52,
		radial:        0x0C50,
		obs:           0x0C4E,
		vorBearing:    0x0C56,
		toFrom:        0x0C4B,
		backCourse:    0x0C4A,
		code:          0x0C4D,
		gsFlag:        0x0C4C,
		magVar:        0x0C40,
		lat:           0x085C,
		lon:           0x0864,
		elev:          0x086C,
		locLat:        0x0874,
		locLon:        0x0878,
		locElev:       0x087C,
		gsInclination: 0x0872,
		invRwyHdg:     0x0870,
		name:          0x3006,
		ident:         0x3000,
		dmeDist:       0x0300,
		dmeSpeed:      0x0302,
		dmeTT:         0x0304,
	}
}

func NAV2() NavRadio {
	return NavRadio{
		Radio:         Radio{active: 0x0352, standby: 0x3120, swap: 1},
		cdi:           0x2AB4,
		gsi:           0x2AB8,
		localiser:     0x0C59,
		signal:        0x0C62,
		radial:        0x0C60,
		obs:           0x0C5E,
		vorBearing:    0x0C5C,
		toFrom:        0x0C5B,
		backCourse:    0x0C5A,
		code:          0x0C70,
		gsFlag:        0x0C6F,
		magVar:        0x0C42,
		lat:           0x0858,
		lon:           0x0860,
		elev:          0x0868,
		locLat:        0x084C,
		locLon:        0x0850,
		locElev:       0x0854,
		gsInclination: 0x0846,
		invRwyHdg:     0x0844,
		name:          0x301F,
		ident:         0x3025,
		dmeDist:       0x0306,
		dmeSpeed:      0x0308,
		dmeTT:         0x030A,
	}
}

// CDINeedle is the course deviation, -127 to 127.
func (n NavRadio) CDINeedle() *datarequest.Func[float64] { return readFloat32(n.cdi) }

// GSINeedle is the glideslope deviation, -119 to 119.
func (n NavRadio) GSINeedle() *datarequest.Func[float64] { return readFloat32(n.gsi) }

// LocaliserNeedle is the raw localiser needle, -127 to 127.
func (n NavRadio) LocaliserNeedle() *datarequest.Func[int8] {
	r := scalar[int8](n.localiser)
	return datarequest.NewFunc(r, r.Value, nil)
}

// SignalStrength is zero when no station is received.
func (n NavRadio) SignalStrength() *datarequest.Func[int32] {
	r := scalar[int32](n.signal)
	return datarequest.NewFunc(r, r.Value, nil)
}

// Radial is the radial the aircraft is on, in degrees.
func (n NavRadio) Radial() *datarequest.Func[float64] { return readAngle16(n.radial) }

// OBS is the course selector in degrees. It is writable.
func (n NavRadio) OBS() *datarequest.Func[int16] {
	r := scalar[int16](n.obs)
	return datarequest.NewFunc(r, r.Value, r.SetValue)
}

// VORRelativeBearing in degrees.
func (n NavRadio) VORRelativeBearing() *datarequest.Func[int16] {
	r := scalar[int16](n.vorBearing)
	return datarequest.NewFunc(r, r.Value, nil)
}

// ToFrom is 0 when off, 1 for TO and 2 for FROM.
func (n NavRadio) ToFrom() *datarequest.Func[uint8] { return readByte(n.toFrom) }

// GlideslopeAlive reports a received glideslope.
func (n NavRadio) GlideslopeAlive() *datarequest.Func[bool] {
	r := scalar[uint8](n.gsFlag)
	return datarequest.NewFunc(r, func() bool { return r.Value() != 0 }, nil)
}

// BackCourse holds the localiser back course flags.
type BackCourse uint8

func (b BackCourse) Available() bool      { return b&0x01 != 0 }
func (b BackCourse) LocaliserTuned() bool { return b&0x02 != 0 }
func (b BackCourse) OnBackCourse() bool   { return b&0x04 != 0 }
func (b BackCourse) StationActive() bool  { return b&0x80 != 0 }

func (n NavRadio) BackCourse() *datarequest.Func[BackCourse] {
	r := scalar[uint8](n.backCourse)
	return datarequest.NewFunc(r, func() BackCourse { return BackCourse(r.Value()) }, nil)
}

// StationCode holds the tuned station's capability flags.
type StationCode uint8

func (c StationCode) DME() bool          { return c&0x01 != 0 }
func (c StationCode) TACAN() bool        { return c&0x02 != 0 }
func (c StationCode) Voice() bool        { return c&0x04 != 0 }
func (c StationCode) NoSignal() bool     { return c&0x08 != 0 }
func (c StationCode) DMEColocated() bool { return c&0x10 != 0 }
func (c StationCode) NoBackCourse() bool { return c&0x20 != 0 }
func (c StationCode) Glideslope() bool   { return c&0x40 != 0 }
func (c StationCode) Localiser() bool    { return c&0x80 != 0 }

func (n NavRadio) Code() *datarequest.Func[StationCode] {
	r := scalar[uint8](n.code)
	return datarequest.NewFunc(r, func() StationCode { return StationCode(r.Value()) }, nil)
}

// MagneticVariation at the station in degrees.
func (n NavRadio) MagneticVariation() *datarequest.Func[float64] { return readAngle16(n.magVar) }

// Latitude of the VOR, or of the glideslope transmitter for an ILS.
func (n NavRadio) Latitude() *datarequest.Func[float64] { return navLatitude(n.lat) }

func (n NavRadio) Longitude() *datarequest.Func[float64] { return navLongitude(n.lon) }

// Elevation of the station in metres, or feet when feet is set.
func (n NavRadio) Elevation(feet bool) *datarequest.Func[float64] { return navElevation(n.elev, feet) }

// LocaliserLatitude is the localiser transmitter position for an ILS.
func (n NavRadio) LocaliserLatitude() *datarequest.Func[float64] { return navLatitude(n.locLat) }

func (n NavRadio) LocaliserLongitude() *datarequest.Func[float64] { return navLongitude(n.locLon) }

func (n NavRadio) LocaliserElevation(feet bool) *datarequest.Func[float64] {
	return navElevation(n.locElev, feet)
}

// GlideslopeInclination of an ILS in degrees.
func (n NavRadio) GlideslopeInclination() *datarequest.Func[float64] {
	return readAngle16(n.gsInclination)
}

// InverseRunwayHeading is the localiser heading plus 180, in degrees true.
func (n NavRadio) InverseRunwayHeading() *datarequest.Func[float64] {
	return readAngle16(n.invRwyHdg)
}

func (n NavRadio) Name() *datarequest.Func[string]     { return stringFunc(str(n.name, 25)) }
func (n NavRadio) Identity() *datarequest.Func[string] { return stringFunc(str(n.ident, 6)) }

// DMEDistance in nautical miles.
func (n NavRadio) DMEDistance() *datarequest.Func[float64] { return tenths(n.dmeDist) }

// DMESpeed in knots.
func (n NavRadio) DMESpeed() *datarequest.Func[float64] { return tenths(n.dmeSpeed) }

// DMETimeToStation in minutes.
func (n NavRadio) DMETimeToStation() *datarequest.Func[float64] { return tenths(n.dmeTT) }

func readFloat32(offset uint32) *datarequest.Func[float64] {
	r := scalar[float32](offset)
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) }, nil)
}

func readByte(offset uint32) *datarequest.Func[uint8] {
	r := scalar[uint8](offset)
	return datarequest.NewFunc(r, r.Value, nil)
}

// readAngle16 decodes a 16-bit angle where 65536 is a full circle.
func readAngle16(offset uint32) *datarequest.Func[float64] {
	r := scalar[int16](offset)
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) * 360 / 65536 }, nil)
}

func tenths(offset uint32) *datarequest.Func[float64] {
	r := scalar[int16](offset)
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) / 10 }, nil)
}

func navLatitude(offset uint32) *datarequest.Func[float64] {
	r := scalar[int32](offset)
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) * 90 / 10001750 }, nil)
}

func navLongitude(offset uint32) *datarequest.Func[float64] {
	r := scalar[int32](offset)
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) * 360 / two32 }, nil)
}

func navElevation(offset uint32, feet bool) *datarequest.Func[float64] {
	r := scalar[int32](offset)
	factor := 1.0
	if feet {
		factor = MetresToFeet
	}
	return datarequest.NewFunc(r, func() float64 { return float64(r.Value()) * factor }, nil)
}
