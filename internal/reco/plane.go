package reco

import (
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// horizontalVec converts horizontal coordinates to a unit vector in the array
// frame: x north, y east, z up; azimuth is measured from north through east.
func horizontalVec(alt, az unit.Angle) r3.Vec {
	sinAlt, cosAlt := alt.Sincos()
	sinAz, cosAz := az.Sincos()
	return r3.Vec{X: cosAlt * cosAz, Y: cosAlt * sinAz, Z: sinAlt}
}

// vecHorizontal is the inverse of horizontalVec for a non-zero vector.
func vecHorizontal(v r3.Vec) (alt, az unit.Angle) {
	n := r3.Norm(v)
	alt = unit.Angle(math.Asin(v.Z / n))
	az = unit.Angle(math.Atan2(v.Y, v.X)).Mod1()
	return alt, az
}

// CameraFrame maps between sky directions and tangent-plane offsets around a
// telescope's pointing position. The frame's +y axis points toward increasing
// altitude and +x toward increasing azimuth.
type CameraFrame struct {
	pointing, ex, ey r3.Vec
}

// NewCameraFrame builds the tangent-plane frame for a pointing direction.
func NewCameraFrame(alt, az unit.Angle) CameraFrame {
	sinAlt, cosAlt := alt.Sincos()
	sinAz, cosAz := az.Sincos()
	return CameraFrame{
		pointing: r3.Vec{X: cosAlt * cosAz, Y: cosAlt * sinAz, Z: sinAlt},
		ex:       r3.Vec{X: -sinAz, Y: cosAz, Z: 0},
		ey:       r3.Vec{X: -sinAlt * cosAz, Y: -sinAlt * sinAz, Z: cosAlt},
	}
}

// Project returns the tangent-plane (gnomonic) offsets of a sky direction.
// Only directions in the pointing hemisphere are meaningful.
func (f CameraFrame) Project(d r3.Vec) (x, y unit.Angle) {
	w := r3.Dot(d, f.pointing)
	return unit.Angle(r3.Dot(d, f.ex) / w), unit.Angle(r3.Dot(d, f.ey) / w)
}

// Unproject is the inverse of Project, returning the unit sky direction of a
// tangent-plane offset.
func (f CameraFrame) Unproject(x, y unit.Angle) r3.Vec {
	v := r3.Add(r3.Add(f.pointing, r3.Scale(x.Rad(), f.ex)), r3.Scale(y.Rad(), f.ey))
	return r3.Unit(v)
}

// viewingPlane is one telescope's contribution to the stereo fit: the plane
// through the telescope spanned by the reconstructed image axis on the sky.
type viewingPlane struct {
	normal    r3.Vec // unit normal of the plane
	groundDir r3.Vec // direction of the plane's trace on the ground (z == 0)
	position  r3.Vec // telescope position
	weight    float64
}

// axisStep is the tangent-plane step used to trace the Hillas major axis when
// spanning the viewing plane. The plane is scale-invariant in this step.
const axisStep = 1e-3

// newViewingPlane validates the observation and builds its viewing plane.
func newViewingPlane(obs Observation) (viewingPlane, error) {
	if err := obs.Hillas.Validate(); err != nil {
		return viewingPlane{}, err
	}

	frame := NewCameraFrame(obs.Telescope.PointingAlt, obs.Telescope.PointingAz)
	sinPsi, cosPsi := obs.Hillas.Psi.Sincos()

	// two points on the image axis span the plane together with the telescope
	v1 := frame.Unproject(obs.Hillas.X, obs.Hillas.Y)
	v2 := frame.Unproject(
		obs.Hillas.X+unit.Angle(axisStep*cosPsi),
		obs.Hillas.Y+unit.Angle(axisStep*sinPsi),
	)

	normal := r3.Cross(v1, v2)
	if r3.Norm(normal) == 0 {
		return viewingPlane{}, ErrDegenerateGeometry
	}
	normal = r3.Unit(normal)

	// trace of the plane on the horizontal plane through the telescope
	ground := r3.Vec{X: normal.Y, Y: -normal.X}
	if r3.Norm(ground) == 0 {
		// plane is horizontal; it carries no core information
		return viewingPlane{}, ErrDegenerateGeometry
	}

	// elongated, bright images constrain the axis best
	weight := obs.Hillas.Intensity * (1 - obs.Hillas.Width.Rad()/obs.Hillas.Length.Rad())

	return viewingPlane{
		normal:    normal,
		groundDir: r3.Unit(ground),
		position:  obs.Telescope.Position,
		weight:    weight,
	}, nil
}
