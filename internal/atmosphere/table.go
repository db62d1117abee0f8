package atmosphere

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"

	"github.com/telarray/airshower/internal/units"
)

// Construction errors for TableProfile.
var (
	ErrBadTable      = errors.New("atmosphere: invalid height-density table")
	ErrNotInvertible = errors.New("atmosphere: cumulative column density is not strictly decreasing")
)

// TableProfile is a density profile interpolated from discrete (height,
// density) samples, typically read from a simulation file. The cumulative
// column density above each sample height is precomputed once at construction
// by trapezoidal integration; Integral interpolates that table and
// HeightFromOverburden inverse-interpolates it. The profile is immutable after
// construction and safe to share across goroutines.
type TableProfile struct {
	heights []float64 // cm, ascending
	density []float64 // g/cm³
	column  []float64 // g/cm², strictly decreasing with height

	densityAt interp.PiecewiseLinear
	columnAt  interp.PiecewiseLinear
	heightAt  interp.PiecewiseLinear // overburden → height
}

// NewTableProfile builds a profile from samples sorted by strictly ascending
// height. At least two samples are required and densities must be
// non-negative. The table's own top is treated as the top of the atmosphere:
// the column density above the last sample is zero.
func NewTableProfile(heights []units.Length, densities []units.Density) (*TableProfile, error) {
	n := len(heights)
	if n != len(densities) {
		return nil, fmt.Errorf("%w: %d heights but %d densities", ErrBadTable, n, len(densities))
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrBadTable, n)
	}

	p := &TableProfile{
		heights: make([]float64, n),
		density: make([]float64, n),
		column:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p.heights[i] = heights[i].Centimeters()
		p.density[i] = densities[i].GramsPerCubicCentimeter()
		if i > 0 && p.heights[i] <= p.heights[i-1] {
			return nil, fmt.Errorf("%w: heights not strictly ascending at sample %d", ErrBadTable, i)
		}
		if p.density[i] < 0 || math.IsNaN(p.density[i]) {
			return nil, fmt.Errorf("%w: negative or undefined density at sample %d", ErrBadTable, i)
		}
	}

	// Column density above each sample: ρ integrated from the sample height to
	// the top of the table.
	for i := 0; i < n-1; i++ {
		p.column[i] = integrate.Trapezoidal(p.heights[i:], p.density[i:])
	}
	p.column[n-1] = 0

	if err := p.densityAt.Fit(p.heights, p.density); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}
	if err := p.columnAt.Fit(p.heights, p.column); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}

	// Inverse table: overburden ascending from the top of the table down.
	revX := make([]float64, n)
	revY := make([]float64, n)
	for i := 0; i < n; i++ {
		revX[i] = p.column[n-1-i]
		revY[i] = p.heights[n-1-i]
		if i > 0 && revX[i] <= revX[i-1] {
			return nil, ErrNotInvertible
		}
	}
	if err := p.heightAt.Fit(revX, revY); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}
	return p, nil
}

// Density implements DensityProfile. Heights above the table's top return
// exactly zero; heights below its bottom are out of domain.
func (p *TableProfile) Density(height units.Length) units.Density {
	h := height.Centimeters()
	switch {
	case h < p.heights[0] || math.IsNaN(h):
		return nanDensity()
	case h > p.heights[len(p.heights)-1]:
		return 0
	}
	return units.Density(p.densityAt.Predict(h))
}

// Integral implements DensityProfile.
func (p *TableProfile) Integral(height units.Length) units.ColumnDensity {
	h := height.Centimeters()
	switch {
	case h < p.heights[0] || math.IsNaN(h):
		return nanColumn()
	case h > p.heights[len(p.heights)-1]:
		return 0
	}
	return units.ColumnDensity(p.columnAt.Predict(h))
}

// HeightFromOverburden implements DensityProfile by inverse interpolation of
// the precomputed cumulative table.
func (p *TableProfile) HeightFromOverburden(overburden units.ColumnDensity) units.Length {
	x := overburden.GramsPerSquareCentimeter()
	switch {
	case x == 0:
		warnZeroOverburden("table profile")
		return infLength()
	case x < 0 || x > p.column[0] || math.IsNaN(x):
		return nanLength()
	}
	return units.Centimeters(p.heightAt.Predict(x))
}

// Len returns the number of samples in the table.
func (p *TableProfile) Len() int { return len(p.heights) }

// Sample returns the i-th (height, density) sample.
func (p *TableProfile) Sample(i int) (units.Length, units.Density) {
	return units.Centimeters(p.heights[i]), units.Density(p.density[i])
}
