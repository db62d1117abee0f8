package storage

import (
	"path/filepath"
	"testing"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/require"

	"github.com/telarray/airshower/internal/pipeline"
	"github.com/telarray/airshower/internal/reco"
	"github.com/telarray/airshower/internal/units"
)

func testResults() []pipeline.Result {
	return []pipeline.Result{
		{
			EventID: 1,
			Geometry: reco.ReconstructedGeometry{
				Alt:         unit.AngleFromDeg(71.3),
				Az:          unit.AngleFromDeg(42.1),
				CoreX:       units.Meters(30.5),
				CoreY:       units.Meters(-19.8),
				Valid:       true,
				NTelescopes: 4,
			},
			SlantDepth: units.GramsPerSquareCentimeter(812.4),
		},
		{
			EventID: 2,
			Err:     reco.ErrTooFewTelescopes,
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer client.Close()

	const runID = "2f1f3a52-9f43-4a8e-bb6e-5b4c1c5a9e01"
	require.NoError(t, client.SaveRun(runID, testResults()))

	records, err := client.RunResults(runID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, uint64(1), records[0].EventID)
	require.True(t, records[0].Valid)
	require.InDelta(t, 71.3, records[0].AltDeg, 1e-9)
	require.InDelta(t, 42.1, records[0].AzDeg, 1e-9)
	require.InDelta(t, 30.5, records[0].CoreXMeters, 1e-9)
	require.InDelta(t, -19.8, records[0].CoreYMeters, 1e-9)
	require.InDelta(t, 812.4, records[0].SlantDepth, 1e-9)
	require.Equal(t, 4, records[0].Telescopes)

	require.Equal(t, uint64(2), records[1].EventID)
	require.False(t, records[1].Valid)
}

func TestRunsAreIsolated(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.SaveRun("run-a", testResults()))
	require.NoError(t, client.SaveRun("run-b", testResults()[:1]))

	a, err := client.RunResults("run-a")
	require.NoError(t, err)
	require.Len(t, a, 2)

	b, err := client.RunResults("run-b")
	require.NoError(t, err)
	require.Len(t, b, 1)

	none, err := client.RunResults("run-c")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSaveEmptyRun(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.SaveRun("empty", nil))
}
