package reco

import (
	"errors"
	"fmt"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/telarray/airshower/internal/log"
	"github.com/telarray/airshower/internal/units"
)

// ReconstructedGeometry is the stereo fit result for one event: the arrival
// direction in horizontal coordinates and the shower core impact point in the
// array frame. Valid is false when the event could not be reconstructed.
type ReconstructedGeometry struct {
	Alt, Az      unit.Angle
	CoreX, CoreY units.Length
	Valid        bool
	NTelescopes  int
}

// StereoReconstructor combines the viewing planes of an event into one
// geometry estimate. The zero value is not usable; use NewStereoReconstructor.
type StereoReconstructor struct {
	// MinTelescopes is the minimum number of valid planes required for a fit.
	// Stereo reconstruction needs at least two.
	MinTelescopes int
}

// NewStereoReconstructor returns a reconstructor requiring the stereo minimum
// of two valid telescope planes.
func NewStereoReconstructor() *StereoReconstructor {
	return &StereoReconstructor{MinTelescopes: 2}
}

// Reconstruct fits one event. Telescopes with degenerate images are excluded;
// if fewer than MinTelescopes valid planes remain, the event is returned as
// invalid with ErrTooFewTelescopes. A returned error never concerns more than
// this one event.
func (s *StereoReconstructor) Reconstruct(observations []Observation) (ReconstructedGeometry, error) {
	planes := make([]viewingPlane, 0, len(observations))
	for _, obs := range observations {
		plane, err := newViewingPlane(obs)
		if err != nil {
			log.Debugw("excluding telescope from stereo fit",
				"telescope", obs.Telescope.ID, "error", err)
			continue
		}
		planes = append(planes, plane)
	}

	min := s.MinTelescopes
	if min < 2 {
		min = 2
	}
	if len(planes) < min {
		return ReconstructedGeometry{}, fmt.Errorf("%w: %d of %d usable, need %d",
			ErrTooFewTelescopes, len(planes), len(observations), min)
	}

	direction, err := intersectPlanes(planes)
	if err != nil {
		return ReconstructedGeometry{}, err
	}
	coreX, coreY, err := intersectGroundTraces(planes)
	if err != nil {
		return ReconstructedGeometry{}, err
	}

	alt, az := vecHorizontal(direction)
	return ReconstructedGeometry{
		Alt:         alt,
		Az:          az,
		CoreX:       units.Meters(coreX),
		CoreY:       units.Meters(coreY),
		Valid:       true,
		NTelescopes: len(planes),
	}, nil
}

// intersectPlanes finds the direction common to all viewing planes as the
// weighted least-squares minimizer of Σ wᵢ·(d·nᵢ)² over unit vectors d, i.e.
// the eigenvector of Σ wᵢ·nᵢnᵢᵀ with the smallest eigenvalue.
func intersectPlanes(planes []viewingPlane) (r3.Vec, error) {
	scatter := mat.NewSymDense(3, nil)
	for _, p := range planes {
		n := [3]float64{p.normal.X, p.normal.Y, p.normal.Z}
		for i := 0; i < 3; i++ {
			for j := i; j < 3; j++ {
				scatter.SetSym(i, j, scatter.At(i, j)+p.weight*n[i]*n[j])
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(scatter, true) {
		return r3.Vec{}, errors.New("reco: eigendecomposition failed")
	}
	values := eig.Values(nil) // ascending
	if values[1] <= 1e-12*values[2] {
		// all planes coincide; the direction is not constrained
		return r3.Vec{}, ErrDegenerateGeometry
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)
	d := r3.Vec{X: vectors.At(0, 0), Y: vectors.At(1, 0), Z: vectors.At(2, 0)}
	if d.Z < 0 {
		d = r3.Scale(-1, d) // showers arrive from above the horizon
	}
	return d, nil
}

// intersectGroundTraces estimates the core position as the weighted
// least-squares crossing point of the planes' ground traces: each telescope
// contributes the line through its position along its plane's ground
// direction, and the core minimizes Σ wᵢ·dist²(core, lineᵢ).
func intersectGroundTraces(planes []viewingPlane) (x, y float64, err error) {
	var a00, a01, a11, b0, b1 float64
	for _, p := range planes {
		ux, uy := p.groundDir.X, p.groundDir.Y
		// projector onto the line's normal space, I - uuᵀ
		p00 := 1 - ux*ux
		p01 := -ux * uy
		p11 := 1 - uy*uy
		a00 += p.weight * p00
		a01 += p.weight * p01
		a11 += p.weight * p11
		b0 += p.weight * (p00*p.position.X + p01*p.position.Y)
		b1 += p.weight * (p01*p.position.X + p11*p.position.Y)
	}

	lhs := mat.NewDense(2, 2, []float64{a00, a01, a01, a11})
	rhs := mat.NewVecDense(2, []float64{b0, b1})
	var core mat.VecDense
	if err := core.SolveVec(lhs, rhs); err != nil {
		// parallel ground traces, no crossing point
		return 0, 0, ErrDegenerateGeometry
	}
	return core.AtVec(0), core.AtVec(1), nil
}
