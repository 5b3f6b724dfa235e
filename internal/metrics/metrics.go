// Package metrics provides diagnostics observed over a simulation run.
package metrics

import (
	"math"

	"github.com/porfanid/N-Body-Simulator/internal/engine"
)

// Metric observes engine state once per step and reduces it to one value.
type Metric interface {
	Name() string
	Observe(e *engine.Engine, t float64)
	Value() float64
	Reset()
}

// EnergyDrift tracks the maximum relative drift of total energy from the
// first observed value. Semi-implicit Euler is not exactly conservative, so
// some drift is expected; large values flag a too-coarse dt or softening.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (m *EnergyDrift) Name() string { return "energy_drift" }

func (m *EnergyDrift) Observe(e *engine.Engine, t float64) {
	total := e.TotalEnergy()

	if m.samples == 0 {
		m.initial = total
	}
	m.samples++

	if m.initial != 0 {
		drift := math.Abs(total-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *EnergyDrift) Value() float64 { return m.maxDrift }

func (m *EnergyDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// Momentum tracks the peak magnitude of total linear momentum. Pairwise
// gravity is third-law consistent, so under bounce-free evolution this stays
// near its initial value.
type Momentum struct {
	max float64
}

func NewMomentum() *Momentum {
	return &Momentum{}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(e *engine.Engine, t float64) {
	var px, py float64
	masses := e.Masses()
	vel := e.Velocities()
	for i := range masses {
		px += masses[i] * vel[i*2]
		py += masses[i] * vel[i*2+1]
	}
	mag := math.Hypot(px, py)
	if mag > m.max {
		m.max = mag
	}
}

func (m *Momentum) Value() float64 { return m.max }
func (m *Momentum) Reset()         { m.max = 0 }

// MaxSpeed tracks the fastest body speed seen across the run, a cheap
// runaway detector for close encounters that outran the softening.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{}
}

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(e *engine.Engine, t float64) {
	vel := e.Velocities()
	for i := 0; i < e.NumBodies(); i++ {
		speed := math.Hypot(vel[i*2], vel[i*2+1])
		if speed > m.max {
			m.max = speed
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }
