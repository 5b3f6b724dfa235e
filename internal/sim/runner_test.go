package sim

import (
	"context"
	"math"
	"testing"

	"github.com/porfanid/N-Body-Simulator/internal/engine"
	"github.com/porfanid/N-Body-Simulator/internal/metrics"
)

func newTestRunner(t *testing.T, bodies int) (*Runner, *engine.Engine) {
	t.Helper()
	eng, err := engine.New(bodies, nil, 3)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return New(eng), eng
}

func TestRunSeriesLengths(t *testing.T) {
	r, eng := newTestRunner(t, 5)

	result, err := r.Run(context.Background(), Options{Steps: 100})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.StepsTaken != 100 {
		t.Errorf("StepsTaken = %d, want 100", result.StepsTaken)
	}
	for name, series := range map[string][]float64{
		"Times":     result.Times,
		"Kinetic":   result.Kinetic,
		"Potential": result.Potential,
		"Total":     result.Total,
	} {
		if len(series) != 100 {
			t.Errorf("len(%s) = %d, want 100", name, len(series))
		}
	}

	if math.Abs(result.Times[0]-eng.Dt()) > 1e-12 {
		t.Errorf("Times[0] = %v, want dt %v", result.Times[0], eng.Dt())
	}
	last := result.Times[len(result.Times)-1]
	if math.Abs(last-100*eng.Dt()) > 1e-9 {
		t.Errorf("Times[99] = %v, want %v", last, 100*eng.Dt())
	}
}

func TestRunInvalidSteps(t *testing.T) {
	r, _ := newTestRunner(t, 3)

	if _, err := r.Run(context.Background(), Options{Steps: 0}); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := r.Run(context.Background(), Options{Steps: -1}); err == nil {
		t.Error("expected error for negative steps")
	}
}

func TestRunContextCancel(t *testing.T) {
	r, _ := newTestRunner(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, Options{Steps: 1000})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if result == nil {
		t.Fatal("expected partial result on cancellation")
	}
	if result.StepsTaken != 0 {
		t.Errorf("StepsTaken = %d, want 0 for pre-canceled context", result.StepsTaken)
	}
}

func TestRunFrameSampling(t *testing.T) {
	r, eng := newTestRunner(t, 4)

	result, err := r.Run(context.Background(), Options{Steps: 100, FrameEvery: 10})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Frames) != 10 {
		t.Fatalf("captured %d frames, want 10", len(result.Frames))
	}
	for i, frame := range result.Frames {
		if len(frame) != eng.NumBodies()*2 {
			t.Errorf("frame[%d] has %d values, want %d", i, len(frame), eng.NumBodies()*2)
		}
	}
}

func TestRunObservesMetrics(t *testing.T) {
	r, _ := newTestRunner(t, 5)
	r.AddMetric(metrics.NewEnergyDrift())
	r.AddMetric(metrics.NewMomentum())
	r.AddMetric(metrics.NewMaxSpeed())

	result, err := r.Run(context.Background(), Options{Steps: 50})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, name := range []string{"energy_drift", "momentum", "max_speed"} {
		val, ok := result.Metrics[name]
		if !ok {
			t.Errorf("metric %q missing from result", name)
			continue
		}
		if math.IsNaN(val) || val < 0 {
			t.Errorf("metric %q = %v, want finite non-negative", name, val)
		}
	}
}

func TestRunValidateState(t *testing.T) {
	// A healthy run must not trip the validity check.
	r, _ := newTestRunner(t, 5)
	if _, err := r.Run(context.Background(), Options{Steps: 50, ValidateState: true}); err != nil {
		t.Fatalf("healthy run flagged invalid: %v", err)
	}
}

func TestRunWithCallbackStopsEarly(t *testing.T) {
	r, _ := newTestRunner(t, 3)

	count := 0
	err := r.RunWithCallback(context.Background(), 100, func(e *engine.Engine, tm float64) bool {
		count++
		return count < 5
	})
	if err != nil {
		t.Fatalf("RunWithCallback failed: %v", err)
	}
	if count != 5 {
		t.Errorf("callback ran %d times, want 5", count)
	}
}

func TestStepError(t *testing.T) {
	err := StepError{Step: 7, Time: 0.08, Message: "invalid state (NaN/Inf)"}
	want := "step 7 (t=0.0800): invalid state (NaN/Inf)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
