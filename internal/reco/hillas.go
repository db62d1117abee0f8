// Package reco implements stereo reconstruction of air-shower geometry from
// per-telescope Hillas image parameters.
//
// Each telescope that saw the shower contributes one viewing plane, spanned by
// its position and the great circle of the image's major axis on the sky.
// Combining two or more planes pins down the shower axis: the planes' common
// direction is the arrival direction, and the crossing point of their ground
// traces is the impact (core) position. Cleaning and image parametrization
// happen upstream; this package starts from finished Hillas parameters.
package reco

import (
	"errors"
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidWidth marks a degenerate Hillas ellipse (zero or undefined
	// width, or width not smaller than length). Such an image cannot define a
	// viewing plane and its telescope is excluded from the fit.
	ErrInvalidWidth = errors.New("reco: invalid hillas width")

	// ErrTooFewTelescopes is returned when fewer than the minimum number of
	// valid viewing planes remain for an event.
	ErrTooFewTelescopes = errors.New("reco: too few valid telescope planes")

	// ErrDegenerateGeometry is returned when the valid planes are parallel and
	// no unique intersection exists.
	ErrDegenerateGeometry = errors.New("reco: degenerate plane geometry")
)

// HillasParameters describes one cleaned, parametrized camera image as an
// ellipse in the telescope's tangent-plane frame. Offsets and sizes are
// angles; intensity is the total image amplitude in photoelectrons.
type HillasParameters struct {
	X, Y          unit.Angle // centroid offset from the pointing position
	Psi           unit.Angle // major-axis orientation, counterclockwise from +x
	Width, Length unit.Angle
	Intensity     float64
}

// Validate reports whether the ellipse can contribute a viewing plane.
func (h HillasParameters) Validate() error {
	w, l := h.Width.Rad(), h.Length.Rad()
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return ErrInvalidWidth
	}
	if l <= w || math.IsNaN(l) {
		return ErrInvalidWidth
	}
	return nil
}

// Telescope is the geometry of one array element: ground position in the
// array frame (x north, y east, z up, meters) and the optical axis pointing.
type Telescope struct {
	ID                      int
	Position                r3.Vec
	PointingAlt, PointingAz unit.Angle
}

// Observation pairs a telescope with the Hillas parameters it measured for
// one event.
type Observation struct {
	Telescope Telescope
	Hillas    HillasParameters
}
