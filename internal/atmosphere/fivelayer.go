package atmosphere

import (
	"errors"
	"fmt"
	"math"

	"github.com/telarray/airshower/internal/units"
)

// NumLayers is the number of layers in the piecewise atmosphere fit.
const NumLayers = 5

// FiveLayerTableColumns is the number of columns in the construction table:
// [boundary height (cm), a (g/cm²), b (g/cm²), c (cm), unused].
const FiveLayerTableColumns = 5

// ErrBadLayerTable is returned when a five-layer coefficient table cannot
// describe a valid atmosphere.
var ErrBadLayerTable = errors.New("atmosphere: invalid five-layer coefficient table")

// FiveLayerProfile is the piecewise atmosphere fit used by air-shower
// simulation tools. The lower four layers model the column density above a
// height h as an exponential,
//
//	T(h) = a + b·exp(-h/c)      ρ(h) = (b/c)·exp(-h/c)
//
// and the top layer as a linear ramp down to zero,
//
//	T(h) = a - b·h/c            ρ(h) = b/c
//
// so the density is the exact negated derivative of the column density in
// every layer. The atmosphere ends at the height where the top layer's column
// density reaches zero; above that both quantities are exactly zero.
type FiveLayerProfile struct {
	base [NumLayers]float64 // layer lower boundaries (cm), base[0] == 0
	a    [NumLayers]float64 // g/cm²
	b    [NumLayers]float64 // g/cm²
	c    [NumLayers]float64 // cm
	edge [NumLayers]float64 // column density at each layer's lower boundary (g/cm²)
	top  float64            // height where the atmosphere ends (cm)
}

// NewFiveLayerProfile builds a profile from the fixed 5×5 fit table, one row
// per layer with columns [boundary height (cm), a (g/cm²), b (g/cm²), c (cm),
// unused]. The format matches the reference fit files exactly; the fifth
// column is carried by those files but not used by the model.
func NewFiveLayerProfile(table [NumLayers][FiveLayerTableColumns]float64) (*FiveLayerProfile, error) {
	p := &FiveLayerProfile{}
	for i := 0; i < NumLayers; i++ {
		p.base[i] = table[i][0]
		p.a[i] = table[i][1]
		p.b[i] = table[i][2]
		p.c[i] = table[i][3]
		if p.c[i] <= 0 {
			return nil, fmt.Errorf("%w: layer %d has non-positive scale length %g", ErrBadLayerTable, i, p.c[i])
		}
		// exponential layers need b > 0 or the density and the log inversion
		// are undefined
		if i < NumLayers-1 && p.b[i] <= 0 {
			return nil, fmt.Errorf("%w: layer %d has non-positive amplitude %g", ErrBadLayerTable, i, p.b[i])
		}
		if i > 0 && p.base[i] <= p.base[i-1] {
			return nil, fmt.Errorf("%w: layer boundaries not ascending at layer %d", ErrBadLayerTable, i)
		}
	}
	last := NumLayers - 1
	if p.b[last] <= 0 || p.a[last] <= 0 {
		return nil, fmt.Errorf("%w: top layer must ramp down to zero", ErrBadLayerTable)
	}
	p.top = p.a[last] * p.c[last] / p.b[last]
	if p.top <= p.base[last] {
		return nil, fmt.Errorf("%w: top of atmosphere %g cm is below the last layer boundary", ErrBadLayerTable, p.top)
	}
	for i := 0; i < NumLayers; i++ {
		p.edge[i] = p.thickness(p.base[i])
	}
	return p, nil
}

// layer returns the index of the layer containing height h (cm).
func (p *FiveLayerProfile) layer(h float64) int {
	for i := NumLayers - 1; i > 0; i-- {
		if h >= p.base[i] {
			return i
		}
	}
	return 0
}

// thickness returns the column density above height h (cm), in g/cm².
// Domain checks are the caller's responsibility.
func (p *FiveLayerProfile) thickness(h float64) float64 {
	if h >= p.top {
		return 0
	}
	i := p.layer(h)
	if i == NumLayers-1 {
		return p.a[i] - p.b[i]*h/p.c[i]
	}
	return p.a[i] + p.b[i]*math.Exp(-h/p.c[i])
}

// Density implements DensityProfile.
func (p *FiveLayerProfile) Density(height units.Length) units.Density {
	h := height.Centimeters()
	switch {
	case h < 0 || math.IsNaN(h):
		return nanDensity()
	case h >= p.top:
		return 0
	}
	i := p.layer(h)
	if i == NumLayers-1 {
		return units.Density(p.b[i] / p.c[i])
	}
	return units.Density(p.b[i] / p.c[i] * math.Exp(-h/p.c[i]))
}

// Integral implements DensityProfile.
func (p *FiveLayerProfile) Integral(height units.Length) units.ColumnDensity {
	h := height.Centimeters()
	if h < 0 || math.IsNaN(h) {
		return nanColumn()
	}
	return units.ColumnDensity(p.thickness(h))
}

// HeightFromOverburden implements DensityProfile. The layer containing the
// requested overburden is found by monotonic search over the boundary
// overburden values, then that layer's closed form is inverted.
func (p *FiveLayerProfile) HeightFromOverburden(overburden units.ColumnDensity) units.Length {
	x := overburden.GramsPerSquareCentimeter()
	switch {
	case x == 0:
		warnZeroOverburden("five-layer profile")
		return infLength()
	case x < 0 || x > p.edge[0] || math.IsNaN(x):
		return nanLength()
	}
	i := 0
	for j := NumLayers - 1; j > 0; j-- {
		if x <= p.edge[j] {
			i = j
			break
		}
	}
	var h float64
	if i == NumLayers-1 {
		h = (p.a[i] - x) * p.c[i] / p.b[i]
	} else {
		h = -p.c[i] * math.Log((x-p.a[i])/p.b[i])
	}
	return units.Centimeters(h)
}

// Top returns the height at which the modeled atmosphere ends.
func (p *FiveLayerProfile) Top() units.Length {
	return units.Centimeters(p.top)
}
