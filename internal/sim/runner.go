// Package sim drives an engine through headless runs: one Step plus one
// ApplyBoundary per tick, with metric observation and history capture.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/porfanid/N-Body-Simulator/internal/engine"
	"github.com/porfanid/N-Body-Simulator/internal/metrics"
)

// Runner owns the stepping loop for one engine. Steps never overlap: the
// boundary pass for step N completes before step N+1 begins, so every force
// evaluation sees boundary-corrected positions.
type Runner struct {
	eng     *engine.Engine
	metrics []metrics.Metric
}

func New(eng *engine.Engine) *Runner {
	return &Runner{eng: eng}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }

// Options controls a headless run.
type Options struct {
	Steps         int
	FrameEvery    int  // capture a position frame every k steps; 0 disables
	ValidateState bool // abort on NaN/Inf positions or velocities
}

// Result holds per-step diagnostic series and sampled position frames.
type Result struct {
	Times      []float64
	Kinetic    []float64
	Potential  []float64
	Total      []float64
	Frames     [][]float64 // interleaved x,y snapshots
	Metrics    map[string]float64
	StepsTaken int
}

// StepError reports where a run went numerically bad.
type StepError struct {
	Step    int
	Time    float64
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

// Run advances the engine opts.Steps times, applying boundary conditions
// after every step and observing metrics. It stops early on context
// cancellation, returning what was captured so far along with the error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", opts.Steps)
	}

	result := &Result{
		Times:     make([]float64, 0, opts.Steps),
		Kinetic:   make([]float64, 0, opts.Steps),
		Potential: make([]float64, 0, opts.Steps),
		Total:     make([]float64, 0, opts.Steps),
		Metrics:   make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < opts.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		r.eng.Step()
		r.eng.ApplyBoundary()
		t += r.eng.Dt()

		if opts.ValidateState && !stateValid(r.eng) {
			return result, StepError{Step: i, Time: t, Message: "invalid state (NaN/Inf)"}
		}

		for _, m := range r.metrics {
			m.Observe(r.eng, t)
		}

		result.Times = append(result.Times, t)
		result.Kinetic = append(result.Kinetic, r.eng.KineticEnergy())
		result.Potential = append(result.Potential, r.eng.PotentialEnergy())
		result.Total = append(result.Total, r.eng.TotalEnergy())
		result.StepsTaken++

		if opts.FrameEvery > 0 && i%opts.FrameEvery == 0 {
			frame := make([]float64, len(r.eng.Positions()))
			copy(frame, r.eng.Positions())
			result.Frames = append(result.Frames, frame)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps the engine until the callback returns false or the
// context is canceled. The callback sees the engine after boundary
// application for the tick.
func (r *Runner) RunWithCallback(ctx context.Context, steps int, callback func(e *engine.Engine, t float64) bool) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.eng.Step()
		r.eng.ApplyBoundary()
		t += r.eng.Dt()

		if !callback(r.eng, t) {
			return nil
		}
	}

	return nil
}

func stateValid(e *engine.Engine) bool {
	for _, v := range e.Positions() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range e.Velocities() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
