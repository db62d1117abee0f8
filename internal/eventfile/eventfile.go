// Package eventfile reads and writes batches of per-telescope shower
// observations as msgpack, the hand-off format from the external calibration
// and imaging stage. Native telescope raw formats are out of scope; converters
// produce these files upstream.
package eventfile

import (
	"fmt"
	"os"

	"github.com/soniakeys/unit"
	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/telarray/airshower/internal/reco"
)

// TelescopeImage is one telescope's parametrized view of a shower. Angles are
// in degrees and positions in meters, matching the converter output.
type TelescopeImage struct {
	TelescopeID    int     `msgpack:"tel_id"`
	PosX           float64 `msgpack:"pos_x"`
	PosY           float64 `msgpack:"pos_y"`
	PosZ           float64 `msgpack:"pos_z"`
	PointingAltDeg float64 `msgpack:"pointing_alt"`
	PointingAzDeg  float64 `msgpack:"pointing_az"`
	CentroidXDeg   float64 `msgpack:"cen_x"`
	CentroidYDeg   float64 `msgpack:"cen_y"`
	PsiDeg         float64 `msgpack:"psi"`
	WidthDeg       float64 `msgpack:"width"`
	LengthDeg      float64 `msgpack:"length"`
	Intensity      float64 `msgpack:"intensity"`
}

// Event is one shower event as stored on disk.
type Event struct {
	ID     uint64           `msgpack:"id"`
	Images []TelescopeImage `msgpack:"images"`
}

// Observations converts the stored images to reconstruction inputs.
func (e Event) Observations() []reco.Observation {
	obs := make([]reco.Observation, len(e.Images))
	for i, img := range e.Images {
		obs[i] = reco.Observation{
			Telescope: reco.Telescope{
				ID:          img.TelescopeID,
				Position:    r3.Vec{X: img.PosX, Y: img.PosY, Z: img.PosZ},
				PointingAlt: unit.AngleFromDeg(img.PointingAltDeg),
				PointingAz:  unit.AngleFromDeg(img.PointingAzDeg),
			},
			Hillas: reco.HillasParameters{
				X:         unit.AngleFromDeg(img.CentroidXDeg),
				Y:         unit.AngleFromDeg(img.CentroidYDeg),
				Psi:       unit.AngleFromDeg(img.PsiDeg),
				Width:     unit.AngleFromDeg(img.WidthDeg),
				Length:    unit.AngleFromDeg(img.LengthDeg),
				Intensity: img.Intensity,
			},
		}
	}
	return obs
}

// Write stores events to path, replacing any existing file.
func Write(path string, events []Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating event file: %w", err)
	}
	defer f.Close()

	if err := msgpack.NewEncoder(f).Encode(events); err != nil {
		return fmt.Errorf("encoding event file: %w", err)
	}
	return f.Close()
}

// Read loads all events from path.
func Read(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening event file: %w", err)
	}
	defer f.Close()

	var events []Event
	if err := msgpack.NewDecoder(f).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding event file: %w", err)
	}
	return events, nil
}
