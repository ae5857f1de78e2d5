package helpers

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/go-fsuipc/datarequest"
)

func TestFrequencyBCD(t *testing.T) {
	tests := []struct {
		bcd uint16
		mhz float64
	}{
		{0x2345, 123.45},
		{0x1870, 118.70},
		{0x2150, 121.50},
		{0x0800, 108.00},
		{0x3595, 135.95},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.mhz, DecodeFrequency(tt.bcd), 1e-9, "%04X", tt.bcd)
		assert.Equal(t, tt.bcd, EncodeFrequency(tt.mhz), "%.2f", tt.mhz)
	}
	// digits below 10 kHz are rounded away
	assert.Equal(t, uint16(0x1870), EncodeFrequency(118.7049))
}

func TestComRadios(t *testing.T) {
	com1 := COM1()
	active := com1.Frequency()
	assert.Equal(t, uint32(0x034E), active.Offset())
	assert.Equal(t, uint32(2), active.Size())
	require.NoError(t, active.SetValue(122.8))
	assert.Equal(t, []byte{0x80, 0x22}, active.Buffer())
	assert.InDelta(t, 122.8, active.Value(), 1e-9)

	assert.Equal(t, uint32(0x311A), com1.StandbyFrequency().Offset())
	assert.Equal(t, uint32(0x3118), COM2().Frequency().Offset())
	assert.Equal(t, uint32(0x311C), COM2().StandbyFrequency().Offset())

	swap := COM2().Swap()
	assert.Equal(t, uint32(OffsetRadioSwap), swap.Offset())
	assert.Equal(t, datarequest.KindWrite, swap.Kind())
	assert.Equal(t, []byte{4}, swap.Buffer())
	assert.Equal(t, []byte{8}, com1.Swap().Buffer())
}

func TestNavRadios(t *testing.T) {
	nav1, nav2 := NAV1(), NAV2()

	assert.Equal(t, uint32(0x0350), nav1.Frequency().Offset())
	assert.Equal(t, uint32(0x3120), nav2.StandbyFrequency().Offset())
	assert.Equal(t, []byte{2}, nav1.Swap().Buffer())
	assert.Equal(t, []byte{1}, nav2.Swap().Buffer())

	ident := nav1.Identity()
	assert.Equal(t, uint32(0x3000), ident.Offset())
	assert.Equal(t, uint32(6), ident.Size())
	copy(ident.Buffer(), "TGL\x00")
	assert.Equal(t, "TGL", ident.Value())

	name := nav2.Name()
	assert.Equal(t, uint32(0x301F), name.Offset())
	assert.Equal(t, uint32(25), name.Size())

	radial := nav1.Radial()
	binary.LittleEndian.PutUint16(radial.Buffer(), 16384)
	assert.InDelta(t, 90.0, radial.Value(), 1e-9)

	dme := nav2.DMEDistance()
	assert.Equal(t, uint32(0x0306), dme.Offset())
	binary.LittleEndian.PutUint16(dme.Buffer(), 125)
	assert.InDelta(t, 12.5, dme.Value(), 1e-9)

	cdi := nav1.CDINeedle()
	binary.LittleEndian.PutUint32(cdi.Buffer(), math.Float32bits(-63.5))
	assert.Equal(t, -63.5, cdi.Value())

	lat := nav1.Latitude()
	binary.LittleEndian.PutUint32(lat.Buffer(), uint32(int32(10001750/2)))
	assert.InDelta(t, 45.0, lat.Value(), 1e-9)

	elev := nav1.Elevation(true)
	binary.LittleEndian.PutUint32(elev.Buffer(), 100)
	assert.InDelta(t, 328.084, elev.Value(), 1e-9)

	obs := nav1.OBS()
	require.NoError(t, obs.SetValue(270))
	assert.Equal(t, int16(270), obs.Value())

	code := nav1.Code()
	code.Buffer()[0] = 0x81
	assert.True(t, code.Value().DME())
	assert.True(t, code.Value().Localiser())
	assert.False(t, code.Value().Glideslope())

	bc := nav2.BackCourse()
	assert.Equal(t, uint32(0x0C5A), bc.Offset())
	bc.Buffer()[0] = 0x07
	assert.True(t, bc.Value().Available())
	assert.True(t, bc.Value().OnBackCourse())
	assert.False(t, bc.Value().StationActive())

	assert.ErrorIs(t, nav1.SignalStrength().SetValue(1), datarequest.ErrReadOnly)
}

func TestGPS(t *testing.T) {
	var gps GPS

	alt := gps.Altitude(true)
	assert.Equal(t, uint32(0x6020), alt.Offset())
	binary.LittleEndian.PutUint64(alt.Buffer(), math.Float64bits(1000))
	assert.InDelta(t, 3280.84, alt.Value(), 1e-9)

	hdg := gps.Heading(true)
	binary.LittleEndian.PutUint64(hdg.Buffer(), math.Float64bits(math.Pi/2))
	assert.InDelta(t, 90.0, hdg.Value(), 1e-9)

	dist := gps.DistanceToNextWaypoint(true)
	binary.LittleEndian.PutUint64(dist.Buffer(), math.Float64bits(3704))
	assert.InDelta(t, 2.0, dist.Value(), 1e-9)

	gs := gps.GroundSpeed(true)
	binary.LittleEndian.PutUint64(gs.Buffer(), math.Float64bits(100))
	assert.InDelta(t, 194.384449, gs.Value(), 1e-6)

	dest := gps.DestinationID()
	assert.Equal(t, uint32(0x6137), dest.Offset())
	assert.Equal(t, uint32(5), dest.Size())
	copy(dest.Buffer(), "EDDB")
	assert.Equal(t, "EDDB", dest.Value())

	assert.Equal(t, uint32(0x60A4), gps.NextWaypointID().Offset())
	assert.Equal(t, uint32(0x60E4), gps.NextWaypointETE().Offset())
	assert.Equal(t, uint32(0x61A8), gps.EstimatedFuelBurn(true).Offset())
	assert.ErrorIs(t, gps.Latitude().SetValue(1), datarequest.ErrReadOnly)
}
