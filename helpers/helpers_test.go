package helpers

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/go-fsuipc/datarequest"
)

func put32(r datarequest.Request, v int32) {
	binary.LittleEndian.PutUint32(r.Buffer(), uint32(v))
}

func put64(r datarequest.Request, v int64) {
	binary.LittleEndian.PutUint64(r.Buffer(), uint64(v))
}

func TestAircraftSpeeds(t *testing.T) {
	var a Aircraft

	ias := a.IAS()
	assert.Equal(t, uint32(0x02BC), ias.Offset())
	put32(ias, 128*142)
	assert.Equal(t, 142.0, ias.Value())
	require.NoError(t, ias.SetValue(100))
	assert.Equal(t, 100.0, ias.Value())

	tas := a.TAS()
	assert.Equal(t, uint32(0x02B8), tas.Offset())

	vs := a.VerticalSpeed(false)
	put32(vs, 256*5)
	assert.Equal(t, 5.0, vs.Value())

	fpm := a.VerticalSpeed(true)
	put32(fpm, 256*5)
	assert.InDelta(t, 984.25, fpm.Value(), 0.01)
	require.NoError(t, fpm.SetValue(984.252))
	assert.InDelta(t, 984.25, fpm.Value(), 1.0)
}

func TestAircraftPosition(t *testing.T) {
	var a Aircraft

	lat := a.Latitude()
	assert.Equal(t, uint32(8), lat.Size())
	put64(lat, int64(45.0/90.0*10001750.0*two32))
	assert.InDelta(t, 45.0, lat.Value(), 1e-9)
	require.NoError(t, lat.SetValue(-33.5))
	assert.InDelta(t, -33.5, lat.Value(), 1e-9)

	lon := a.Longitude()
	require.NoError(t, lon.SetValue(-122.25))
	assert.InDelta(t, -122.25, lon.Value(), 1e-9)

	alt := a.Altitude(false)
	put64(alt, 1000*int64(two32))
	assert.InDelta(t, 1000.0, alt.Value(), 1e-9)

	ft := a.Altitude(true)
	put64(ft, 1000*int64(two32))
	assert.InDelta(t, 3280.84, ft.Value(), 1e-6)
	require.NoError(t, ft.SetValue(10000))
	assert.InDelta(t, 10000.0, ft.Value(), 1e-6)
}

func TestAircraftAttitude(t *testing.T) {
	var a Aircraft

	hdg := a.Heading()
	binary.LittleEndian.PutUint32(hdg.Buffer(), uint32(270.0/360.0*two32))
	assert.InDelta(t, 270.0, hdg.Value(), 1e-6)

	pitch := a.Pitch()
	put32(pitch, int32(math.Round(-5.0/360.0*two32)))
	assert.InDelta(t, -5.0, pitch.Value(), 1e-6)

	bank := a.Bank()
	require.NoError(t, bank.SetValue(30))
	assert.InDelta(t, 30.0, bank.Value(), 1e-6)

	magvar := a.MagneticVariation()
	binary.LittleEndian.PutUint16(magvar.Buffer(), 0xF8E4)
	assert.InDelta(t, -10.0, magvar.Value(), 0.01)
	assert.ErrorIs(t, magvar.SetValue(1), datarequest.ErrReadOnly)
}

func TestAircraftStateAndNames(t *testing.T) {
	var a Aircraft

	ground := a.OnGround()
	assert.False(t, ground.Value())
	ground.Buffer()[0] = 1
	assert.True(t, ground.Value())

	engines := a.EngineCount()
	engines.Buffer()[0] = 2
	assert.Equal(t, 2, engines.Value())

	name := a.Name()
	assert.Equal(t, uint32(256), name.Size())
	copy(name.Buffer(), "Airbus A320neo\x00")
	assert.Equal(t, "Airbus A320neo", name.Value())

	assert.Equal(t, uint32(12), a.ATCFlightNumber().Size())
	assert.Equal(t, uint32(0x313C), a.ATCIdent().Offset())
	assert.Equal(t, uint32(24), a.ATCAirlineName().Size())
	assert.Equal(t, uint32(0x3160), a.ATCAircraftType().Offset())
}

func TestSimLocalTime(t *testing.T) {
	var s Sim

	lt := s.LocalTime()
	assert.Equal(t, uint32(3), lt.Size())
	copy(lt.Buffer(), []byte{13, 45, 30})
	assert.Equal(t, 13*time.Hour+45*time.Minute+30*time.Second, lt.Value())

	require.NoError(t, lt.SetValue(25*time.Hour+time.Minute))
	assert.Equal(t, []byte{1, 1, 0}, lt.Buffer())
}

func TestSimPause(t *testing.T) {
	var s Sim

	p := s.SetPause(true)
	assert.Equal(t, uint32(0x0262), p.Offset())
	assert.Equal(t, datarequest.KindWrite, p.Kind())
	assert.Equal(t, []byte{1, 0}, p.Buffer())
	assert.Equal(t, []byte{0, 0}, s.SetPause(false).Buffer())

	ind := s.Paused()
	assert.Equal(t, uint32(0x0264), ind.Offset())
	assert.Equal(t, datarequest.KindRead, ind.Kind())
}

func TestSimValues(t *testing.T) {
	var s Sim

	season := s.Season()
	season.Buffer()[0] = 2
	assert.Equal(t, Summer, season.Value())
	assert.Equal(t, "summer", Summer.String())
	assert.Equal(t, "Season(9)", Season(9).String())

	ground := s.GroundAltitude(true)
	put32(ground, 256*100)
	assert.InDelta(t, 328.084, ground.Value(), 1e-9)

	mem := s.MemorySize()
	put32(mem, 1024)
	assert.Equal(t, int32(1024), mem.Value())

	fps := s.FrameRate()
	assert.Equal(t, 0.0, fps.Value())
	binary.LittleEndian.PutUint16(fps.Buffer(), 1092)
	assert.InDelta(t, 30.0, fps.Value(), 0.01)

	ctl := s.SendControl(65752, 0)
	assert.Equal(t, uint32(datarequest.OffsetFSControl), ctl.Offset())
	assert.Equal(t, int32(65752), ctl.Control())
}

func TestProductName(t *testing.T) {
	tests := []struct {
		in   uint8
		want string
	}{
		{0, "FSX (Unknown version)"},
		{3, "FSX SP2"},
		{4, "FSX Acceleration"},
		{45, "Prepar3D 4.5"},
		{50, "Prepar3D 5"},
		{102, "FSX Steam Edition, build: 62609"},
		{110, "Microsoft Flight Simulator (2020)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, productName(tt.in))
		})
	}

	p := Sim{}.Product()
	p.Buffer()[0] = 4
	assert.Equal(t, "FSX Acceleration", p.Value())
}
