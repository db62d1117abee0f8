// Package pipeline runs stereo reconstruction over batches of shower events.
//
// Events are independent, so the batch is fanned out to worker goroutines.
// A failure to reconstruct one event (degenerate images, too few telescopes)
// is recorded in that event's result and never aborts the batch.
package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/soniakeys/unit"

	"github.com/telarray/airshower/internal/atmosphere"
	"github.com/telarray/airshower/internal/log"
	"github.com/telarray/airshower/internal/reco"
	"github.com/telarray/airshower/internal/units"
)

// Event is one shower event ready for reconstruction.
type Event struct {
	ID           uint64
	Observations []reco.Observation
}

// Result is the outcome of reconstructing one event. Err is non-nil when the
// event could not be reconstructed; the geometry is then invalid.
type Result struct {
	EventID  uint64
	Geometry reco.ReconstructedGeometry

	// SlantDepth is the atmospheric depth above the observation level along
	// the reconstructed shower axis.
	SlantDepth units.ColumnDensity

	Err error
}

// Pipeline reconstructs batches of events against a fixed array setup: a
// density profile for slant-depth conversion and the observation level of the
// site.
type Pipeline struct {
	reconstructor    *reco.StereoReconstructor
	profile          atmosphere.DensityProfile
	observationLevel units.Length
	workers          int
}

// New returns a pipeline with the given atmosphere and observation level.
// workers <= 0 selects one worker per CPU.
func New(profile atmosphere.DensityProfile, observationLevel units.Length, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{
		reconstructor:    reco.NewStereoReconstructor(),
		profile:          profile,
		observationLevel: observationLevel,
		workers:          workers,
	}
}

// Run reconstructs all events and returns one result per event, in input
// order. Cancelling the context stops feeding new events; results for events
// never processed keep their zero value.
func (p *Pipeline) Run(ctx context.Context, events []Event) []Result {
	results := make([]Result, len(events))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.process(events[i])
			}
		}()
	}

feed:
	for i := range events {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	reconstructed := 0
	for _, r := range results {
		if r.Geometry.Valid {
			reconstructed++
		}
	}
	log.Infow("batch finished", "events", len(events), "reconstructed", reconstructed)
	return results
}

func (p *Pipeline) process(ev Event) Result {
	result := Result{EventID: ev.ID}

	geometry, err := p.reconstructor.Reconstruct(ev.Observations)
	if err != nil {
		log.Debugw("event not reconstructed", "event", ev.ID, "error", err)
		result.Err = err
		return result
	}
	result.Geometry = geometry

	zenith := unit.AngleFromDeg(90) - geometry.Alt
	result.SlantDepth = atmosphere.LineOfSightIntegral(p.profile, p.observationLevel, zenith)
	return result
}
