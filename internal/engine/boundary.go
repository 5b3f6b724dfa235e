package engine

import (
	"fmt"
	"math"
)

// BoundaryMode selects what happens when a body leaves the simulation domain.
type BoundaryMode int

const (
	// BoundaryBounce reflects the overshoot back into the domain and damps
	// the offending velocity component by 0.9. Each axis is handled
	// independently, so a corner hit bounces on both in the same tick.
	BoundaryBounce BoundaryMode = iota

	// BoundaryPeriodic wraps coordinates onto a torus; velocity unchanged.
	BoundaryPeriodic

	// BoundaryOpen lets bodies drift out and recycles those that stray past
	// twice the boundary extent back onto a ring near the edge, aimed inward.
	BoundaryOpen
)

func (m BoundaryMode) String() string {
	switch m {
	case BoundaryBounce:
		return "bounce"
	case BoundaryPeriodic:
		return "periodic"
	case BoundaryOpen:
		return "open"
	}
	return fmt.Sprintf("boundarymode(%d)", int(m))
}

// ParseBoundaryMode converts a mode name to its BoundaryMode value.
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	switch s {
	case "bounce":
		return BoundaryBounce, nil
	case "periodic":
		return BoundaryPeriodic, nil
	case "open":
		return BoundaryOpen, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBoundaryMode, s)
}

// ApplyBoundary enforces the selected boundary mode on all bodies. Callers
// invoke it once immediately after each Step so the next force evaluation
// sees positions inside the domain.
func (e *Engine) ApplyBoundary() {
	switch e.boundaryMode {
	case BoundaryBounce:
		e.applyBounce()
	case BoundaryPeriodic:
		e.applyPeriodic()
	case BoundaryOpen:
		e.applyOpen()
	}
}

// applyBounce is the damped reflect-and-reposition variant: the overshoot is
// mirrored back inside and the velocity component is negated and scaled by
// 0.9 restitution.
func (e *Engine) applyBounce() {
	half := e.boundary / 2
	for i := 0; i < e.n*2; i++ {
		if e.positions[i] > half {
			e.positions[i] = e.boundary - e.positions[i]
			e.velocities[i] *= -0.9
		} else if e.positions[i] < -half {
			e.positions[i] = -e.boundary - e.positions[i]
			e.velocities[i] *= -0.9
		}
	}
}

func (e *Engine) applyPeriodic() {
	half := e.boundary / 2
	for i := 0; i < e.n*2; i++ {
		w := math.Mod(e.positions[i]+half, e.boundary)
		if w < 0 {
			w += e.boundary
		}
		e.positions[i] = w - half
	}
}

// applyOpen teleports far-escaped bodies onto a circle at 90% of the domain
// half-extent with a small inward velocity, and clears their trails so the
// renderer never draws a line across the jump.
func (e *Engine) applyOpen() {
	limit := 2 * e.boundary
	for i := 0; i < e.n; i++ {
		x, y := e.positions[i*2], e.positions[i*2+1]
		if math.Sqrt(x*x+y*y) <= limit {
			continue
		}

		angle := e.rng.Float64() * 2 * math.Pi
		radius := 0.9 * e.boundary / 2
		cos, sin := math.Cos(angle), math.Sin(angle)

		e.positions[i*2] = cos * radius
		e.positions[i*2+1] = sin * radius

		speed := 0.1 + e.rng.Float64()*0.4
		e.velocities[i*2] = -cos * speed
		e.velocities[i*2+1] = -sin * speed

		e.trails[i].Clear()
	}
}
