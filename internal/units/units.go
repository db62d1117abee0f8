// Package units provides the dimensioned quantity types used throughout the
// toolkit. Each quantity is a distinct float64-based type with a fixed internal
// unit, so mixing heights with overburdens (or raw floats with either) is a
// compile error. Named constructors and accessors perform the conversions.
//
// Internal units: Length in meters, Density in g/cm³, ColumnDensity in g/cm².
// Angles use github.com/soniakeys/unit.Angle.
package units

// Length is a distance or height. Stored in meters.
type Length float64

// Meters returns a Length from a value in meters.
func Meters(v float64) Length { return Length(v) }

// Kilometers returns a Length from a value in kilometers.
func Kilometers(v float64) Length { return Length(v * 1e3) }

// Centimeters returns a Length from a value in centimeters.
func Centimeters(v float64) Length { return Length(v * 1e-2) }

func (l Length) Meters() float64      { return float64(l) }
func (l Length) Kilometers() float64  { return float64(l) * 1e-3 }
func (l Length) Centimeters() float64 { return float64(l) * 1e2 }

// Density is a mass per volume. Stored in g/cm³.
type Density float64

// GramsPerCubicCentimeter returns a Density from a value in g/cm³.
func GramsPerCubicCentimeter(v float64) Density { return Density(v) }

// KilogramsPerCubicMeter returns a Density from a value in kg/m³.
func KilogramsPerCubicMeter(v float64) Density { return Density(v * 1e-3) }

func (d Density) GramsPerCubicCentimeter() float64 { return float64(d) }
func (d Density) KilogramsPerCubicMeter() float64  { return float64(d) * 1e3 }

// ColumnDensity is a mass per area, the overburden ("grammage") along a path.
// Stored in g/cm².
type ColumnDensity float64

// GramsPerSquareCentimeter returns a ColumnDensity from a value in g/cm².
func GramsPerSquareCentimeter(v float64) ColumnDensity { return ColumnDensity(v) }

// KilogramsPerSquareMeter returns a ColumnDensity from a value in kg/m².
func KilogramsPerSquareMeter(v float64) ColumnDensity { return ColumnDensity(v * 1e-1) }

func (c ColumnDensity) GramsPerSquareCentimeter() float64 { return float64(c) }
func (c ColumnDensity) KilogramsPerSquareMeter() float64  { return float64(c) * 1e1 }
