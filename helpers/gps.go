package helpers

import (
	"math"

	"github.com/ehrlich-b/go-fsuipc/datarequest"
)

const (
	metresToNM      = 1 / 1852.0
	msToKnots       = 1.94384449
	gallonsToLitres = 3.78541178
)

// GPS builds read-only requests for the simulator GPS. Raw values are SI
// units and radians; the flags select friendlier units.
type GPS struct{}

// Latitude of the aircraft in degrees.
func (GPS) Latitude() *datarequest.Func[float64] { return gpsDouble(0x6010, 1) }

func (GPS) Longitude() *datarequest.Func[float64] { return gpsDouble(0x6018, 1) }

// Altitude in metres, or feet when feet is set.
func (GPS) Altitude(feet bool) *datarequest.Func[float64] { return gpsDouble(0x6020, feetFactor(feet)) }

func (GPS) MagneticVariation(degrees bool) *datarequest.Func[float64] {
	return gpsDouble(0x6028, degreeFactor(degrees))
}

// GroundSpeed in metres per second, or knots when knots is set.
func (GPS) GroundSpeed(knots bool) *datarequest.Func[float64] {
	f := 1.0
	if knots {
		f = msToKnots
	}
	return gpsDouble(0x6030, f)
}

func (GPS) Heading(degrees bool) *datarequest.Func[float64] {
	return gpsDouble(0x6038, degreeFactor(degrees))
}

func (GPS) MagneticTrack(degrees bool) *datarequest.Func[float64] {
	return gpsDouble(0x6040, degreeFactor(degrees))
}

// DistanceToNextWaypoint in metres, or nautical miles when nm is set.
func (GPS) DistanceToNextWaypoint(nm bool) *datarequest.Func[float64] {
	return gpsDouble(0x6048, nmFactor(nm))
}

func (GPS) BearingToNextWaypoint(degrees bool) *datarequest.Func[float64] {
	return gpsDouble(0x6050, degreeFactor(degrees))
}

func (GPS) CrossTrackError(nm bool) *datarequest.Func[float64] {
	return gpsDouble(0x6058, nmFactor(nm))
}

func (GPS) RequiredHeading(degrees bool) *datarequest.Func[float64] {
	return gpsDouble(0x6060, degreeFactor(degrees))
}

func (GPS) TrackError(degrees bool) *datarequest.Func[float64] {
	return gpsDouble(0x6068, degreeFactor(degrees))
}

// VerticalSpeed in metres per second.
func (GPS) VerticalSpeed() *datarequest.Func[float64] { return gpsDouble(0x6078, 1) }

// PreviousWaypointValid reports whether the previous waypoint fields hold data.
func (GPS) PreviousWaypointValid() *datarequest.Func[bool] {
	r := scalar[uint8](0x6080)
	return datarequest.NewFunc(r, func() bool { return r.Value() != 0 }, nil)
}

func (GPS) PreviousWaypointID() *datarequest.Func[string] { return gpsString(0x6081, 6) }
func (GPS) PreviousWaypointLatitude() *datarequest.Func[float64] {
	return gpsDouble(0x608C, 1)
}
func (GPS) PreviousWaypointLongitude() *datarequest.Func[float64] {
	return gpsDouble(0x6094, 1)
}
func (GPS) PreviousWaypointAltitude(feet bool) *datarequest.Func[float64] {
	return gpsDouble(0x609C, feetFactor(feet))
}

func (GPS) NextWaypointID() *datarequest.Func[string]        { return gpsString(0x60A4, 6) }
func (GPS) NextWaypointLatitude() *datarequest.Func[float64] { return gpsDouble(0x60AC, 1) }
func (GPS) NextWaypointLongitude() *datarequest.Func[float64] {
	return gpsDouble(0x60B4, 1)
}
func (GPS) NextWaypointAltitude(feet bool) *datarequest.Func[float64] {
	return gpsDouble(0x60BC, feetFactor(feet))
}

// NextWaypointETE is the estimated time en route in seconds.
func (GPS) NextWaypointETE() *datarequest.Func[int32] { return gpsInt(0x60E4) }

// NextWaypointETA is the local time of arrival in seconds since midnight.
func (GPS) NextWaypointETA() *datarequest.Func[int32] { return gpsInt(0x60E8) }

func (GPS) CourseToSet(degrees bool) *datarequest.Func[float64] {
	return gpsDouble(0x610C, degreeFactor(degrees))
}

func (GPS) DestinationID() *datarequest.Func[string] { return gpsString(0x6137, 5) }
func (GPS) DestinationETE() *datarequest.Func[int32] { return gpsInt(0x6198) }
func (GPS) DestinationETA() *datarequest.Func[int32] { return gpsInt(0x619C) }

func (GPS) RouteDistance(nm bool) *datarequest.Func[float64] {
	return gpsDouble(0x61A0, nmFactor(nm))
}

// EstimatedFuelBurn in US gallons, or litres when litres is set.
func (GPS) EstimatedFuelBurn(litres bool) *datarequest.Func[float64] {
	f := 1.0
	if litres {
		f = gallonsToLitres
	}
	return gpsDouble(0x61A8, f)
}

func gpsDouble(offset uint32, factor float64) *datarequest.Func[float64] {
	r := scalar[float64](offset)
	return datarequest.NewFunc(r, func() float64 { return r.Value() * factor }, nil)
}

func gpsInt(offset uint32) *datarequest.Func[int32] {
	r := scalar[int32](offset)
	return datarequest.NewFunc(r, r.Value, nil)
}

func gpsString(offset uint32, size int) *datarequest.Func[string] {
	r := str(offset, size)
	return datarequest.NewFunc(r, r.Value, nil)
}

func feetFactor(feet bool) float64 {
	if feet {
		return MetresToFeet
	}
	return 1
}

func degreeFactor(degrees bool) float64 {
	if degrees {
		return 180 / math.Pi
	}
	return 1
}

func nmFactor(nm bool) float64 {
	if nm {
		return metresToNM
	}
	return 1
}
