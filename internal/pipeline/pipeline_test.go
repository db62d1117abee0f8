package pipeline

import (
	"context"
	"math"
	"testing"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/telarray/airshower/internal/atmosphere"
	"github.com/telarray/airshower/internal/reco"
	"github.com/telarray/airshower/internal/units"
)

func horizontal(altDeg, azDeg float64) r3.Vec {
	alt := altDeg * math.Pi / 180
	az := azDeg * math.Pi / 180
	return r3.Vec{
		X: math.Cos(alt) * math.Cos(az),
		Y: math.Cos(alt) * math.Sin(az),
		Z: math.Sin(alt),
	}
}

// synthObservation forward-models the Hillas image a telescope would record
// for a shower with the given core and direction.
func synthObservation(tel reco.Telescope, core, direction r3.Vec) reco.Observation {
	frame := reco.NewCameraFrame(tel.PointingAlt, tel.PointingAz)
	near := r3.Sub(r3.Add(core, r3.Scale(6000, direction)), tel.Position)
	far := r3.Sub(r3.Add(core, r3.Scale(12000, direction)), tel.Position)
	x1, y1 := frame.Project(r3.Unit(near))
	x2, y2 := frame.Project(r3.Unit(far))

	return reco.Observation{
		Telescope: tel,
		Hillas: reco.HillasParameters{
			X:         (x1 + x2) / 2,
			Y:         (y1 + y2) / 2,
			Psi:       unit.Angle(math.Atan2((y2 - y1).Rad(), (x2 - x1).Rad())),
			Width:     unit.AngleFromDeg(0.05),
			Length:    unit.AngleFromDeg(0.3),
			Intensity: 750,
		},
	}
}

func synthEvent(id uint64, altDeg, azDeg, coreX, coreY float64) Event {
	direction := horizontal(altDeg, azDeg)
	core := r3.Vec{X: coreX, Y: coreY}
	pointingAlt, pointingAz := unit.AngleFromDeg(altDeg), unit.AngleFromDeg(azDeg)

	var obs []reco.Observation
	for i, pos := range []r3.Vec{{X: 120, Y: 120}, {X: 120, Y: -120}, {X: -120, Y: 120}, {X: -120, Y: -120}} {
		tel := reco.Telescope{ID: i + 1, Position: pos, PointingAlt: pointingAlt, PointingAz: pointingAz}
		obs = append(obs, synthObservation(tel, core, direction))
	}
	return Event{ID: id, Observations: obs}
}

func TestRunBatch(t *testing.T) {
	profile := atmosphere.NewExponentialProfile(units.Kilometers(8), units.GramsPerCubicCentimeter(0.00125))
	p := New(profile, units.Meters(2150), 3)

	events := []Event{
		synthEvent(1, 70, 40, 30, -20),
		synthEvent(2, 75, 120, -40, 55),
		synthEvent(3, 80, 200, 10, 5),
		synthEvent(4, 65, 310, -75, -60),
	}
	// an event with a single telescope cannot be reconstructed; the batch
	// must carry on regardless
	bad := synthEvent(5, 70, 0, 0, 0)
	bad.Observations = bad.Observations[:1]
	events = append(events[:2], append([]Event{bad}, events[2:]...)...)

	results := p.Run(context.Background(), events)
	require.Len(t, results, len(events))

	for i, res := range results {
		require.Equal(t, events[i].ID, res.EventID, "results must keep input order")
	}

	for _, res := range results {
		if res.EventID == 5 {
			require.ErrorIs(t, res.Err, reco.ErrTooFewTelescopes)
			require.False(t, res.Geometry.Valid)
			continue
		}
		require.NoError(t, res.Err)
		require.True(t, res.Geometry.Valid)
		require.Equal(t, 4, res.Geometry.NTelescopes)

		depth := res.SlantDepth.GramsPerSquareCentimeter()
		require.Greater(t, depth, 0.0)
		// slant depth is the vertical depth scaled by sec(zenith)
		vertical := profile.Integral(units.Meters(2150)).GramsPerSquareCentimeter()
		zenith := unit.AngleFromDeg(90) - res.Geometry.Alt
		require.InDelta(t, vertical/zenith.Cos(), depth, 1e-9)
	}
}

func TestRunRecoversDirections(t *testing.T) {
	profile := atmosphere.NewExponentialProfile(units.Kilometers(8), units.GramsPerCubicCentimeter(0.00125))
	p := New(profile, units.Meters(2150), 0)

	events := []Event{
		synthEvent(11, 72, 33, 12, -7),
		synthEvent(12, 68, 280, -90, 40),
	}
	wantAlt := []float64{72, 68}
	wantAz := []float64{33, 280}

	results := p.Run(context.Background(), events)
	require.Len(t, results, 2)
	for i, res := range results {
		require.NoError(t, res.Err)
		require.InDelta(t, wantAlt[i], res.Geometry.Alt.Deg(), 0.05)
		require.InDelta(t, wantAz[i], res.Geometry.Az.Deg(), 0.05)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	profile := atmosphere.DefaultExponentialProfile()
	p := New(profile, units.Meters(0), 2)

	results := p.Run(context.Background(), nil)
	require.Empty(t, results)
}

func TestRunHonorsCancellation(t *testing.T) {
	profile := atmosphere.DefaultExponentialProfile()
	p := New(profile, units.Meters(0), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := make([]Event, 64)
	for i := range events {
		events[i] = synthEvent(uint64(i+1), 70, 0, 0, 0)
	}
	results := p.Run(ctx, events)
	require.Len(t, results, len(events))

	processed := 0
	for _, res := range results {
		if res.Geometry.Valid {
			processed++
		}
	}
	require.Less(t, processed, len(events), "a cancelled batch must not run to completion")
}
