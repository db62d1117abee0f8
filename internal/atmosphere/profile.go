// Package atmosphere implements the atmospheric density-profile models used to
// convert telescope geometry into line-of-sight atmospheric depth during
// air-shower reconstruction.
//
// A profile answers three questions: the mass density at a height, the column
// density (overburden) above a height, and the height at which a given
// overburden is reached. The three model variants are a closed set: a
// single-exponential atmosphere, a five-layer piecewise fit, and a tabulated
// profile built from discrete samples.
//
// Out-of-domain queries follow a common policy: heights below the model's
// minimum return NaN, heights above its top return exactly zero (no atmosphere
// left), inverting an overburden of zero returns +Inf and logs a divide-by-zero
// warning, and inverting an overburden larger than the total atmospheric
// content returns NaN. NaN propagates through downstream arithmetic; nothing
// here panics on a numerical edge case.
package atmosphere

import (
	"math"

	"github.com/soniakeys/unit"

	"github.com/telarray/airshower/internal/log"
	"github.com/telarray/airshower/internal/units"
)

// DensityProfile is the common contract of the atmospheric density models.
// Implementations are immutable value objects and safe for concurrent use.
type DensityProfile interface {
	// Density returns the mass density at the given height above sea level.
	Density(height units.Length) units.Density

	// Integral returns the column density above the given height, i.e. the
	// vertical integral of Density from height to the top of the atmosphere.
	Integral(height units.Length) units.ColumnDensity

	// HeightFromOverburden is the functional inverse of Integral.
	HeightFromOverburden(overburden units.ColumnDensity) units.Length
}

// LineOfSightIntegral returns the slant depth along a line of sight at the
// given zenith angle, using the flat-atmosphere secant approximation. A zenith
// angle of zero gives the vertical integral.
func LineOfSightIntegral(p DensityProfile, height units.Length, zenith unit.Angle) units.ColumnDensity {
	return p.Integral(height) / units.ColumnDensity(zenith.Cos())
}

// Densities evaluates p.Density over a slice of heights.
func Densities(p DensityProfile, heights []units.Length) []units.Density {
	out := make([]units.Density, len(heights))
	for i, h := range heights {
		out[i] = p.Density(h)
	}
	return out
}

// Integrals evaluates p.Integral over a slice of heights.
func Integrals(p DensityProfile, heights []units.Length) []units.ColumnDensity {
	out := make([]units.ColumnDensity, len(heights))
	for i, h := range heights {
		out[i] = p.Integral(h)
	}
	return out
}

// HeightsFromOverburden evaluates p.HeightFromOverburden over a slice of
// overburdens.
func HeightsFromOverburden(p DensityProfile, overburdens []units.ColumnDensity) []units.Length {
	out := make([]units.Length, len(overburdens))
	for i, x := range overburdens {
		out[i] = p.HeightFromOverburden(x)
	}
	return out
}

// warnZeroOverburden reports the recoverable divide-by-zero case of inverting
// an overburden of exactly zero. The caller still returns +Inf.
func warnZeroOverburden(model string) {
	log.Warnf("%s: divide by zero inverting overburden 0, returning +Inf (top of atmosphere)", model)
}

func nanLength() units.Length   { return units.Length(math.NaN()) }
func infLength() units.Length   { return units.Length(math.Inf(1)) }
func nanDensity() units.Density { return units.Density(math.NaN()) }
func nanColumn() units.ColumnDensity {
	return units.ColumnDensity(math.NaN())
}
