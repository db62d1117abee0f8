package atmosphere

import (
	"math"

	"github.com/telarray/airshower/internal/units"
)

// ExponentialProfile is a single-exponential isothermal atmosphere:
//
//	ρ(h) = ρ0·exp(-h/H)
//	X(h) = ρ0·H·exp(-h/H)
//
// with scale density ρ0 and scale height H. The model is defined for h ≥ 0;
// ρ0·H is the total column density of the atmosphere, reached at sea level.
type ExponentialProfile struct {
	ScaleHeight  units.Length
	ScaleDensity units.Density
}

// NewExponentialProfile returns the profile with the given scale height and
// scale density.
func NewExponentialProfile(scaleHeight units.Length, scaleDensity units.Density) ExponentialProfile {
	return ExponentialProfile{ScaleHeight: scaleHeight, ScaleDensity: scaleDensity}
}

// DefaultExponentialProfile returns the conventional test atmosphere with an
// 8 km scale height and a sea-level density of 0.00125 g/cm³.
func DefaultExponentialProfile() ExponentialProfile {
	return NewExponentialProfile(units.Kilometers(8), units.GramsPerCubicCentimeter(0.00125))
}

// totalOverburden is X(0) = ρ0·H, the full atmospheric content.
func (p ExponentialProfile) totalOverburden() float64 {
	return p.ScaleDensity.GramsPerCubicCentimeter() * p.ScaleHeight.Centimeters()
}

// Density implements DensityProfile. Heights below zero are out of domain.
func (p ExponentialProfile) Density(height units.Length) units.Density {
	h := height.Meters()
	if h < 0 || math.IsNaN(h) {
		return nanDensity()
	}
	return units.Density(p.ScaleDensity.GramsPerCubicCentimeter() * math.Exp(-h/p.ScaleHeight.Meters()))
}

// Integral implements DensityProfile.
func (p ExponentialProfile) Integral(height units.Length) units.ColumnDensity {
	h := height.Meters()
	if h < 0 || math.IsNaN(h) {
		return nanColumn()
	}
	return units.ColumnDensity(p.totalOverburden() * math.Exp(-h/p.ScaleHeight.Meters()))
}

// HeightFromOverburden implements DensityProfile:
//
//	h(X) = -H·ln(X / (ρ0·H))
//
// An overburden of zero maps to +Inf (top of atmosphere, logged as a
// divide-by-zero warning). The closed form only has a solution inside the
// h ≥ 0 domain for 0 < X ≤ ρ0·H; anything larger would require more mass than
// the atmosphere contains and yields NaN.
func (p ExponentialProfile) HeightFromOverburden(overburden units.ColumnDensity) units.Length {
	x := overburden.GramsPerSquareCentimeter()
	switch {
	case x == 0:
		warnZeroOverburden("exponential profile")
		return infLength()
	case x < 0 || x > p.totalOverburden() || math.IsNaN(x):
		return nanLength()
	}
	return units.Meters(-p.ScaleHeight.Meters() * math.Log(x/p.totalOverburden()))
}
