// Package config loads and validates the toolkit configuration from a YAML
// file. Configuration problems are reported immediately at load time; they are
// not recoverable at runtime.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/telarray/airshower/internal/atmosphere"
	"github.com/telarray/airshower/internal/units"
)

// ErrUnsupported marks a configuration that names a model or combination of
// parameters the toolkit does not support.
var ErrUnsupported = errors.New("config: unsupported configuration")

// Site describes the observatory location.
type Site struct {
	LatitudeDeg  float64 `mapstructure:"latitude_deg"`
	LongitudeDeg float64 `mapstructure:"longitude_deg"`
	ElevationM   float64 `mapstructure:"elevation_m"`
}

// Atmosphere selects and parametrizes the density-profile model.
type Atmosphere struct {
	// Model is one of "exponential", "fivelayer" or "table".
	Model string `mapstructure:"model"`

	// exponential parameters
	ScaleHeightM     float64 `mapstructure:"scale_height_m"`
	ScaleDensityGCm3 float64 `mapstructure:"scale_density_g_cm3"`

	// fivelayer: the 5×5 fit table, rows [boundary height (cm), a, b, c, unused]
	FiveLayerTable [][]float64 `mapstructure:"fivelayer_table"`

	// table: sampled profile, sorted by ascending height
	TableHeightsM      []float64 `mapstructure:"table_heights_m"`
	TableDensitiesGCm3 []float64 `mapstructure:"table_densities_g_cm3"`
}

// Pipeline holds batch-processing settings.
type Pipeline struct {
	Workers int `mapstructure:"workers"`
}

// Storage holds results-database settings.
type Storage struct {
	Path string `mapstructure:"path"`
}

// Config is the root configuration.
type Config struct {
	Site       Site       `mapstructure:"site"`
	Atmosphere Atmosphere `mapstructure:"atmosphere"`
	Pipeline   Pipeline   `mapstructure:"pipeline"`
	Storage    Storage    `mapstructure:"storage"`
}

// Load reads, unmarshals and validates the configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("atmosphere.model", "exponential")
	v.SetDefault("atmosphere.scale_height_m", 8000.0)
	v.SetDefault("atmosphere.scale_density_g_cm3", 0.00125)
	v.SetDefault("pipeline.workers", 0)
	v.SetDefault("storage.path", "airshower.db")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for unsupported combinations.
func (c *Config) Validate() error {
	switch c.Atmosphere.Model {
	case "exponential":
		if c.Atmosphere.ScaleHeightM <= 0 || c.Atmosphere.ScaleDensityGCm3 <= 0 {
			return fmt.Errorf("%w: exponential model needs positive scale height and density", ErrUnsupported)
		}
	case "fivelayer":
		if len(c.Atmosphere.FiveLayerTable) != atmosphere.NumLayers {
			return fmt.Errorf("%w: fivelayer_table must have %d rows", ErrUnsupported, atmosphere.NumLayers)
		}
		for i, row := range c.Atmosphere.FiveLayerTable {
			if len(row) != atmosphere.FiveLayerTableColumns {
				return fmt.Errorf("%w: fivelayer_table row %d must have %d columns",
					ErrUnsupported, i, atmosphere.FiveLayerTableColumns)
			}
		}
	case "table":
		if len(c.Atmosphere.TableHeightsM) < 2 {
			return fmt.Errorf("%w: table model needs at least 2 samples", ErrUnsupported)
		}
		if len(c.Atmosphere.TableHeightsM) != len(c.Atmosphere.TableDensitiesGCm3) {
			return fmt.Errorf("%w: table heights and densities differ in length", ErrUnsupported)
		}
	default:
		return fmt.Errorf("%w: unknown atmosphere model %q", ErrUnsupported, c.Atmosphere.Model)
	}

	if c.Site.LatitudeDeg < -90 || c.Site.LatitudeDeg > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrUnsupported, c.Site.LatitudeDeg)
	}
	return nil
}

// BuildProfile constructs the configured density profile.
func (c *Config) BuildProfile() (atmosphere.DensityProfile, error) {
	switch c.Atmosphere.Model {
	case "exponential":
		return atmosphere.NewExponentialProfile(
			units.Meters(c.Atmosphere.ScaleHeightM),
			units.GramsPerCubicCentimeter(c.Atmosphere.ScaleDensityGCm3),
		), nil
	case "fivelayer":
		var table [atmosphere.NumLayers][atmosphere.FiveLayerTableColumns]float64
		for i, row := range c.Atmosphere.FiveLayerTable {
			copy(table[i][:], row)
		}
		return atmosphere.NewFiveLayerProfile(table)
	case "table":
		heights := make([]units.Length, len(c.Atmosphere.TableHeightsM))
		densities := make([]units.Density, len(c.Atmosphere.TableDensitiesGCm3))
		for i := range heights {
			heights[i] = units.Meters(c.Atmosphere.TableHeightsM[i])
			densities[i] = units.GramsPerCubicCentimeter(c.Atmosphere.TableDensitiesGCm3[i])
		}
		return atmosphere.NewTableProfile(heights, densities)
	}
	return nil, fmt.Errorf("%w: unknown atmosphere model %q", ErrUnsupported, c.Atmosphere.Model)
}

// ObservationLevel returns the site elevation as a Length.
func (c *Config) ObservationLevel() units.Length {
	return units.Meters(c.Site.ElevationM)
}
