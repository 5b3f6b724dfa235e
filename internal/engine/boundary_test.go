package engine

import (
	"errors"
	"math"
	"testing"
)

func newTestEngine(t *testing.T, n int) *Engine {
	t.Helper()
	e, err := New(n, nil, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := e.SetBoundary(200); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestBounceReflectsAndDamps(t *testing.T) {
	e := newTestEngine(t, 1)
	e.SetBoundaryMode(BoundaryBounce)

	// Overshoot on both axes in the same tick: each is handled independently.
	copy(e.positions, []float64{101, -102})
	copy(e.velocities, []float64{2, -3})

	e.ApplyBoundary()

	if e.positions[0] != 99 {
		t.Errorf("x = %v, want 99", e.positions[0])
	}
	if e.positions[1] != -98 {
		t.Errorf("y = %v, want -98", e.positions[1])
	}
	if math.Abs(e.velocities[0]-(-1.8)) > 1e-12 {
		t.Errorf("vx = %v, want -1.8", e.velocities[0])
	}
	if math.Abs(e.velocities[1]-2.7) > 1e-12 {
		t.Errorf("vy = %v, want 2.7", e.velocities[1])
	}
}

func TestBounceInsideUntouched(t *testing.T) {
	e := newTestEngine(t, 1)
	e.SetBoundaryMode(BoundaryBounce)

	copy(e.positions, []float64{50, -75})
	copy(e.velocities, []float64{1, 1})

	e.ApplyBoundary()

	if e.positions[0] != 50 || e.positions[1] != -75 {
		t.Errorf("in-domain body moved: (%v, %v)", e.positions[0], e.positions[1])
	}
	if e.velocities[0] != 1 || e.velocities[1] != 1 {
		t.Errorf("in-domain velocity changed: (%v, %v)", e.velocities[0], e.velocities[1])
	}
}

func TestPeriodicWrap(t *testing.T) {
	e := newTestEngine(t, 2)
	e.SetBoundaryMode(BoundaryPeriodic)

	copy(e.positions, []float64{100.5, 0, -100.5, 0})
	copy(e.velocities, []float64{3, 1, -2, 1})

	e.ApplyBoundary()

	if math.Abs(e.positions[0]-(-99.5)) > 1e-12 {
		t.Errorf("wrapped x = %v, want -99.5", e.positions[0])
	}
	if math.Abs(e.positions[2]-99.5) > 1e-12 {
		t.Errorf("wrapped x = %v, want 99.5", e.positions[2])
	}

	// Wrapping never touches velocity.
	want := []float64{3, 1, -2, 1}
	for i, v := range e.velocities {
		if v != want[i] {
			t.Errorf("velocity[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestPeriodicFarWrap(t *testing.T) {
	e := newTestEngine(t, 1)
	e.SetBoundaryMode(BoundaryPeriodic)

	// Several domain widths out still lands inside.
	copy(e.positions, []float64{730, -510})
	e.ApplyBoundary()

	half := e.Boundary() / 2
	for i, p := range e.positions {
		if p < -half || p > half {
			t.Errorf("position[%d] = %v outside domain after wrap", i, p)
		}
	}
}

func TestOpenRecyclesEscapedBody(t *testing.T) {
	e := newTestEngine(t, 1)
	e.SetBoundaryMode(BoundaryOpen)

	e.trails[0].Push(Point{X: 1, Y: 2})
	copy(e.positions, []float64{500, 0})
	copy(e.velocities, []float64{9, 9})

	e.ApplyBoundary()

	x, y := e.positions[0], e.positions[1]
	radius := math.Sqrt(x*x + y*y)
	want := 0.9 * e.Boundary() / 2
	if math.Abs(radius-want) > 1e-9 {
		t.Errorf("recycled radius = %v, want %v", radius, want)
	}

	vx, vy := e.velocities[0], e.velocities[1]
	speed := math.Hypot(vx, vy)
	if speed < 0.1 || speed >= 0.5 {
		t.Errorf("recycled speed = %v, want [0.1, 0.5)", speed)
	}
	if x*vx+y*vy >= 0 {
		t.Errorf("recycled velocity not inward: pos=(%v,%v) vel=(%v,%v)", x, y, vx, vy)
	}

	if e.Trail(0).Len() != 0 {
		t.Errorf("trail not cleared on recycle, len=%d", e.Trail(0).Len())
	}
}

func TestOpenLeavesDriftersAlone(t *testing.T) {
	e := newTestEngine(t, 1)
	e.SetBoundaryMode(BoundaryOpen)

	// Outside the domain but within twice the boundary extent.
	copy(e.positions, []float64{350, 0})
	copy(e.velocities, []float64{1, 0})
	e.trails[0].Push(Point{X: 1, Y: 2})

	e.ApplyBoundary()

	if e.positions[0] != 350 || e.positions[1] != 0 {
		t.Errorf("drifting body moved: (%v, %v)", e.positions[0], e.positions[1])
	}
	if e.Trail(0).Len() != 1 {
		t.Errorf("drifting body trail cleared")
	}
}

func TestParseBoundaryMode(t *testing.T) {
	cases := map[string]BoundaryMode{
		"bounce":   BoundaryBounce,
		"periodic": BoundaryPeriodic,
		"open":     BoundaryOpen,
	}
	for s, want := range cases {
		got, err := ParseBoundaryMode(s)
		if err != nil {
			t.Errorf("ParseBoundaryMode(%q) failed: %v", s, err)
		}
		if got != want {
			t.Errorf("ParseBoundaryMode(%q) = %v, want %v", s, got, want)
		}
		if got.String() != s {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), s)
		}
	}

	if _, err := ParseBoundaryMode("reflect"); !errors.Is(err, ErrBoundaryMode) {
		t.Errorf("expected ErrBoundaryMode for unknown name, got %v", err)
	}
}
