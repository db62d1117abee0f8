package reco

import (
	"errors"
	"math"
	"testing"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// synthesizeObservation builds Hillas parameters consistent with a shower of
// the given core and direction as seen by one telescope: two points on the
// shower axis are projected into the telescope's tangent-plane frame and the
// image centroid and orientation are read off the projected line.
func synthesizeObservation(tel Telescope, core, direction r3.Vec, intensity float64) Observation {
	frame := NewCameraFrame(tel.PointingAlt, tel.PointingAz)

	near := r3.Sub(r3.Add(core, r3.Scale(6000, direction)), tel.Position)
	far := r3.Sub(r3.Add(core, r3.Scale(12000, direction)), tel.Position)
	x1, y1 := frame.Project(r3.Unit(near))
	x2, y2 := frame.Project(r3.Unit(far))

	return Observation{
		Telescope: tel,
		Hillas: HillasParameters{
			X:         (x1 + x2) / 2,
			Y:         (y1 + y2) / 2,
			Psi:       unit.Angle(math.Atan2((y2 - y1).Rad(), (x2 - x1).Rad())),
			Width:     unit.AngleFromDeg(0.05),
			Length:    unit.AngleFromDeg(0.3),
			Intensity: intensity,
		},
	}
}

func testArray(pointingAlt, pointingAz unit.Angle) []Telescope {
	positions := []r3.Vec{
		{X: 120, Y: 120}, {X: 120, Y: -120}, {X: -120, Y: 120}, {X: -120, Y: -120},
	}
	tels := make([]Telescope, len(positions))
	for i, pos := range positions {
		tels[i] = Telescope{ID: i + 1, Position: pos, PointingAlt: pointingAlt, PointingAz: pointingAz}
	}
	return tels
}

func TestCameraFrameRoundTrip(t *testing.T) {
	frame := NewCameraFrame(unit.AngleFromDeg(70), unit.AngleFromDeg(40))

	tests := []struct{ x, y float64 }{ // degrees
		{0, 0}, {0.5, 0}, {0, -0.5}, {1.2, 0.7}, {-0.3, -1.1},
	}
	for _, tt := range tests {
		x, y := unit.AngleFromDeg(tt.x), unit.AngleFromDeg(tt.y)
		gotX, gotY := frame.Project(frame.Unproject(x, y))
		if math.Abs(gotX.Deg()-tt.x) > 1e-9 || math.Abs(gotY.Deg()-tt.y) > 1e-9 {
			t.Errorf("round trip of (%v°, %v°) gave (%v°, %v°)", tt.x, tt.y, gotX.Deg(), gotY.Deg())
		}
	}
}

func TestHillasValidate(t *testing.T) {
	tests := []struct {
		name    string
		hillas  HillasParameters
		wantErr error
	}{
		{"valid", HillasParameters{Width: unit.AngleFromDeg(0.05), Length: unit.AngleFromDeg(0.3), Intensity: 100}, nil},
		{"zero width", HillasParameters{Width: 0, Length: unit.AngleFromDeg(0.3)}, ErrInvalidWidth},
		{"negative width", HillasParameters{Width: unit.AngleFromDeg(-0.1), Length: unit.AngleFromDeg(0.3)}, ErrInvalidWidth},
		{"nan width", HillasParameters{Width: unit.Angle(math.NaN()), Length: unit.AngleFromDeg(0.3)}, ErrInvalidWidth},
		{"round image", HillasParameters{Width: unit.AngleFromDeg(0.3), Length: unit.AngleFromDeg(0.3)}, ErrInvalidWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.hillas.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReconstructKnownShower(t *testing.T) {
	const (
		wantAltDeg = 70.0
		wantAzDeg  = 40.0
		wantCoreX  = 30.0
		wantCoreY  = -20.0
	)
	direction := horizontalVec(unit.AngleFromDeg(wantAltDeg), unit.AngleFromDeg(wantAzDeg))
	core := r3.Vec{X: wantCoreX, Y: wantCoreY}

	var observations []Observation
	for i, tel := range testArray(unit.AngleFromDeg(wantAltDeg), unit.AngleFromDeg(wantAzDeg)) {
		observations = append(observations, synthesizeObservation(tel, core, direction, 500+100*float64(i)))
	}

	geom, err := NewStereoReconstructor().Reconstruct(observations)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if !geom.Valid {
		t.Fatal("geometry marked invalid")
	}
	if geom.NTelescopes != 4 {
		t.Errorf("NTelescopes = %d, want 4", geom.NTelescopes)
	}

	// angular output is degree-equivalent, core output is meter-equivalent
	if math.Abs(geom.Alt.Deg()-wantAltDeg) > 0.05 {
		t.Errorf("Alt = %v°, want %v°", geom.Alt.Deg(), wantAltDeg)
	}
	if math.Abs(geom.Az.Deg()-wantAzDeg) > 0.05 {
		t.Errorf("Az = %v°, want %v°", geom.Az.Deg(), wantAzDeg)
	}
	if math.Abs(geom.CoreX.Meters()-wantCoreX) > 1.0 {
		t.Errorf("CoreX = %v m, want %v m", geom.CoreX.Meters(), wantCoreX)
	}
	if math.Abs(geom.CoreY.Meters()-wantCoreY) > 1.0 {
		t.Errorf("CoreY = %v m, want %v m", geom.CoreY.Meters(), wantCoreY)
	}
}

func TestReconstructExcludesDegenerateImages(t *testing.T) {
	direction := horizontalVec(unit.AngleFromDeg(75), unit.AngleFromDeg(120))
	core := r3.Vec{X: -40, Y: 55}

	var observations []Observation
	for _, tel := range testArray(unit.AngleFromDeg(75), unit.AngleFromDeg(120)) {
		observations = append(observations, synthesizeObservation(tel, core, direction, 800))
	}
	// one telescope saw a degenerate image; it must not poison the fit
	observations[2].Hillas.Width = 0

	geom, err := NewStereoReconstructor().Reconstruct(observations)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if geom.NTelescopes != 3 {
		t.Errorf("NTelescopes = %d, want 3", geom.NTelescopes)
	}
	if math.Abs(geom.Alt.Deg()-75) > 0.05 || math.Abs(geom.Az.Deg()-120) > 0.05 {
		t.Errorf("direction = (%v°, %v°), want (75°, 120°)", geom.Alt.Deg(), geom.Az.Deg())
	}
}

func TestReconstructTooFewTelescopes(t *testing.T) {
	direction := horizontalVec(unit.AngleFromDeg(80), unit.AngleFromDeg(0))
	core := r3.Vec{}

	var observations []Observation
	for _, tel := range testArray(unit.AngleFromDeg(80), 0) {
		obs := synthesizeObservation(tel, core, direction, 800)
		obs.Hillas.Width = 0 // every image degenerate
		observations = append(observations, obs)
	}
	observations[0].Hillas.Width = unit.AngleFromDeg(0.05) // one survivor is not enough

	geom, err := NewStereoReconstructor().Reconstruct(observations)
	if !errors.Is(err, ErrTooFewTelescopes) {
		t.Fatalf("Reconstruct error = %v, want ErrTooFewTelescopes", err)
	}
	if geom.Valid {
		t.Error("geometry should be invalid")
	}
}

func TestReconstructDegenerateGeometry(t *testing.T) {
	// two telescopes at the same place seeing the same image define a single
	// plane; the direction within it is unconstrained
	tel := Telescope{ID: 1, Position: r3.Vec{X: 50}, PointingAlt: unit.AngleFromDeg(70), PointingAz: 0}
	direction := horizontalVec(unit.AngleFromDeg(70), 0)
	obs := synthesizeObservation(tel, r3.Vec{}, direction, 500)

	_, err := NewStereoReconstructor().Reconstruct([]Observation{obs, obs})
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("Reconstruct error = %v, want ErrDegenerateGeometry", err)
	}
}
