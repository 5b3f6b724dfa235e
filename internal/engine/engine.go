package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/porfanid/N-Body-Simulator/internal/compute"
)

// Default simulation parameters. Values are simulation-scaled, not SI.
const (
	DefaultG              = 6.67
	DefaultDt             = 0.01
	DefaultSoftening      = 0.1
	DefaultBoundary       = 400.0
	DefaultMaxTrailLength = 50
)

// Engine owns the full N-body state: positions, velocities, masses, color
// hints, bounded trails, and recomputed energy totals. It is synchronous and
// single-owner: one driving loop calls Step then ApplyBoundary once per tick,
// and external callers read state only through the accessors below.
//
// Force evaluation is delegated to a [compute.Backend] chosen at construction;
// the engine never branches on which backend is active.
type Engine struct {
	backend compute.Backend
	rng     *rand.Rand

	g              float64
	dt             float64
	softening      float64
	boundary       float64
	maxTrailLength int
	boundaryMode   BoundaryMode

	n             int
	positions     []float64 // interleaved x,y
	velocities    []float64 // interleaved x,y
	accelerations []float64 // interleaved x,y, scratch per step
	masses        []float64
	colors        []Color
	trails        []*Trail

	kinetic   float64
	potential float64
}

// New creates an engine with default parameters and initializes it for
// numBodies bodies. A nil backend selects the best available one. A zero
// seed draws from the wall clock; any other seed makes Reset deterministic.
func New(numBodies int, backend compute.Backend, seed int64) (*Engine, error) {
	if backend == nil {
		backend = compute.AutoSelect()
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		backend:        backend,
		rng:            rand.New(rand.NewSource(seed)),
		g:              DefaultG,
		dt:             DefaultDt,
		softening:      DefaultSoftening,
		boundary:       DefaultBoundary,
		maxTrailLength: DefaultMaxTrailLength,
		boundaryMode:   BoundaryBounce,
	}
	if err := e.Reset(numBodies); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset reinitializes the body set with numBodies bodies: uniform random
// positions inside the domain, small random velocities, a bimodal mass
// distribution (most bodies light, up to three boosted heavy), mass-derived
// color hints, cleared trails, and zeroed accelerations and energies.
// Parameters (G, dt, softening, boundary, trail cap, boundary mode) persist
// across resets.
func (e *Engine) Reset(numBodies int) error {
	if numBodies <= 0 {
		return fmt.Errorf("%w: got %d", ErrBodyCount, numBodies)
	}
	n := numBodies
	e.n = n

	e.positions = make([]float64, n*2)
	e.velocities = make([]float64, n*2)
	e.accelerations = make([]float64, n*2)
	e.masses = make([]float64, n)
	e.colors = make([]Color, n)
	e.trails = make([]*Trail, n)

	half := e.boundary / 2
	for i := 0; i < n*2; i++ {
		e.positions[i] = -half + e.rng.Float64()*e.boundary
		e.velocities[i] = -0.5 + e.rng.Float64()
	}

	for i := 0; i < n; i++ {
		e.masses[i] = 0.5 + e.rng.Float64()*1.5
	}
	// Boost a few bodies to heavy masses. Indices are drawn with
	// replacement, so fewer than three distinct bodies may end up heavy.
	boosts := 3
	if n < boosts {
		boosts = n
	}
	for i := 0; i < boosts; i++ {
		idx := e.rng.Intn(n)
		e.masses[idx] = 10 + e.rng.Float64()*10
	}

	for i := 0; i < n; i++ {
		e.colors[i] = colorForMass(e.masses[i])
		e.trails[i] = newTrail(e.maxTrailLength)
	}

	e.kinetic = 0
	e.potential = 0
	return nil
}

// Step advances the simulation by one dt: force accumulation, semi-implicit
// Euler integration (velocities before positions), trail append, and a full
// energy recompute. Boundary conditions are NOT applied here; the caller
// invokes ApplyBoundary immediately after each Step.
func (e *Engine) Step() {
	for i := range e.accelerations {
		e.accelerations[i] = 0
	}

	ax, ay := e.backend.Accelerations(e.positions, e.masses, e.g, e.softening)
	for i := 0; i < e.n; i++ {
		e.accelerations[i*2] = ax[i]
		e.accelerations[i*2+1] = ay[i]
	}

	// Velocity update first: the new velocity feeds the position update,
	// which is what keeps orbits from spiraling out under plain Euler.
	for i := 0; i < e.n; i++ {
		e.velocities[i*2] += ax[i] * e.dt
		e.velocities[i*2+1] += ay[i] * e.dt
	}
	for i := 0; i < e.n; i++ {
		e.positions[i*2] += e.velocities[i*2] * e.dt
		e.positions[i*2+1] += e.velocities[i*2+1] * e.dt
		e.trails[i].Push(Point{X: e.positions[i*2], Y: e.positions[i*2+1]})
	}

	e.computeEnergy()
}

// computeEnergy recomputes kinetic and potential energy from scratch.
// Recomputing avoids incremental drift at O(N^2) cost, which the force
// evaluation already pays anyway.
func (e *Engine) computeEnergy() {
	ke := 0.0
	for i := 0; i < e.n; i++ {
		vx, vy := e.velocities[i*2], e.velocities[i*2+1]
		ke += 0.5 * e.masses[i] * (vx*vx + vy*vy)
	}

	pe := 0.0
	eps2 := e.softening * e.softening
	for i := 0; i < e.n; i++ {
		xi, yi := e.positions[i*2], e.positions[i*2+1]
		for j := i + 1; j < e.n; j++ {
			dx := e.positions[j*2] - xi
			dy := e.positions[j*2+1] - yi
			r := math.Sqrt(dx*dx + dy*dy + eps2)
			pe -= e.g * e.masses[i] * e.masses[j] / r
		}
	}

	e.kinetic = ke
	e.potential = pe
}

// SetG sets the gravitational constant. It must be positive.
func (e *Engine) SetG(g float64) error {
	if g <= 0 {
		return fmt.Errorf("%w: G must be positive, got %v", ErrParameterBounds, g)
	}
	e.g = g
	return nil
}

// SetDt sets the integration time step. It must be positive.
func (e *Engine) SetDt(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrParameterBounds, dt)
	}
	e.dt = dt
	return nil
}

// SetSoftening sets the Plummer softening length. It must be non-negative.
func (e *Engine) SetSoftening(eps float64) error {
	if eps < 0 {
		return fmt.Errorf("%w: softening must be non-negative, got %v", ErrParameterBounds, eps)
	}
	e.softening = eps
	return nil
}

// SetBoundary sets the full extent of the simulation domain. Bodies live in
// [-boundary/2, boundary/2] per axis. It must be positive.
func (e *Engine) SetBoundary(b float64) error {
	if b <= 0 {
		return fmt.Errorf("%w: boundary must be positive, got %v", ErrParameterBounds, b)
	}
	e.boundary = b
	return nil
}

// SetMaxTrailLength caps the per-body trail history. Shrinking the cap trims
// all existing trails immediately, dropping from the front.
func (e *Engine) SetMaxTrailLength(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: trail length must be non-negative, got %d", ErrParameterBounds, n)
	}
	e.maxTrailLength = n
	for _, t := range e.trails {
		t.SetCap(n)
	}
	return nil
}

// SetBoundaryMode selects which boundary policy ApplyBoundary enforces.
func (e *Engine) SetBoundaryMode(m BoundaryMode) error {
	switch m {
	case BoundaryBounce, BoundaryPeriodic, BoundaryOpen:
		e.boundaryMode = m
		return nil
	}
	return fmt.Errorf("%w: %d", ErrBoundaryMode, m)
}

func (e *Engine) G() float64               { return e.g }
func (e *Engine) Dt() float64              { return e.dt }
func (e *Engine) Softening() float64       { return e.softening }
func (e *Engine) Boundary() float64        { return e.boundary }
func (e *Engine) MaxTrailLength() int      { return e.maxTrailLength }
func (e *Engine) Mode() BoundaryMode       { return e.boundaryMode }
func (e *Engine) NumBodies() int           { return e.n }
func (e *Engine) KineticEnergy() float64   { return e.kinetic }
func (e *Engine) PotentialEnergy() float64 { return e.potential }
func (e *Engine) TotalEnergy() float64     { return e.kinetic + e.potential }
func (e *Engine) Backend() compute.Backend { return e.backend }

// Positions returns the interleaved (x,y) position array. Read-only: callers
// must not mutate it.
func (e *Engine) Positions() []float64 { return e.positions }

// Velocities returns the interleaved (x,y) velocity array. Read-only.
func (e *Engine) Velocities() []float64 { return e.velocities }

// Masses returns the per-body mass array. Read-only.
func (e *Engine) Masses() []float64 { return e.masses }

// Colors returns the per-body color hints computed at reset. Read-only.
func (e *Engine) Colors() []Color { return e.colors }

// Trail returns body i's position history. Read-only.
func (e *Engine) Trail(i int) *Trail { return e.trails[i] }

// Position returns body i's position as a point.
func (e *Engine) Position(i int) Point {
	return Point{X: e.positions[i*2], Y: e.positions[i*2+1]}
}

// Velocity returns body i's velocity as a point.
func (e *Engine) Velocity(i int) Point {
	return Point{X: e.velocities[i*2], Y: e.velocities[i*2+1]}
}
