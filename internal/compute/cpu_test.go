package compute

import (
	"math"
	"math/rand"
	"testing"
)

func randomBodies(n int, seed int64) (positions, masses []float64) {
	rng := rand.New(rand.NewSource(seed))
	positions = make([]float64, n*2)
	masses = make([]float64, n)
	for i := range positions {
		positions[i] = -200 + rng.Float64()*400
	}
	for i := range masses {
		masses[i] = 0.5 + rng.Float64()*19.5
	}
	return positions, masses
}

func TestSerialParallelAgree(t *testing.T) {
	positions, masses := randomBodies(100, 11)
	c := NewCPUBackend()

	n := len(masses)
	sx := make([]float64, n)
	sy := make([]float64, n)
	px := make([]float64, n)
	py := make([]float64, n)

	c.serial(positions, masses, 6.67, 0.1, sx, sy)
	c.parallel(positions, masses, 6.67, 0.1, px, py)

	for i := 0; i < n; i++ {
		scale := math.Max(math.Abs(sx[i]), math.Abs(sy[i]))
		if scale == 0 {
			scale = 1
		}
		if math.Abs(sx[i]-px[i])/scale > 1e-9 {
			t.Errorf("ax[%d]: serial %v vs parallel %v", i, sx[i], px[i])
		}
		if math.Abs(sy[i]-py[i])/scale > 1e-9 {
			t.Errorf("ay[%d]: serial %v vs parallel %v", i, sy[i], py[i])
		}
	}
}

func TestAccelerationsSymmetricPair(t *testing.T) {
	positions := []float64{-1, 0, 1, 0}
	masses := []float64{2, 2}
	g, eps := 1.0, 0.1

	c := NewCPUBackend()
	ax, ay := c.Accelerations(positions, masses, g, eps)

	r := 2.0
	want := g * masses[1] * r / math.Pow(r*r+eps*eps, 1.5)

	if math.Abs(ax[0]-want) > 1e-12 {
		t.Errorf("ax[0] = %v, want %v", ax[0], want)
	}
	if math.Abs(ax[1]+want) > 1e-12 {
		t.Errorf("ax[1] = %v, want %v", ax[1], -want)
	}
	if ay[0] != 0 || ay[1] != 0 {
		t.Errorf("ay = (%v, %v), want (0, 0)", ay[0], ay[1])
	}
}

func TestAccelerationsSoftenedAtZeroSeparation(t *testing.T) {
	// Coincident bodies must not produce NaN or Inf with nonzero softening.
	positions := []float64{5, 5, 5, 5}
	masses := []float64{1, 1}

	c := NewCPUBackend()
	ax, ay := c.Accelerations(positions, masses, 6.67, 0.1)

	for i := range masses {
		if math.IsNaN(ax[i]) || math.IsInf(ax[i], 0) || math.IsNaN(ay[i]) || math.IsInf(ay[i], 0) {
			t.Fatalf("non-finite acceleration for coincident bodies: (%v, %v)", ax[i], ay[i])
		}
	}
	if ax[0] != 0 || ay[0] != 0 {
		t.Errorf("coincident bodies should exert no net force, got (%v, %v)", ax[0], ay[0])
	}
}

func TestSingleBodyNoForce(t *testing.T) {
	c := NewCPUBackend()
	ax, ay := c.Accelerations([]float64{3, 4}, []float64{7}, 6.67, 0.1)
	if ax[0] != 0 || ay[0] != 0 {
		t.Errorf("lone body accelerated: (%v, %v)", ax[0], ay[0])
	}
}

func TestCPUBackendMeta(t *testing.T) {
	c := NewCPUBackend()
	if c.Name() != "cpu" {
		t.Errorf("Name = %q, want cpu", c.Name())
	}
	if !c.Available() {
		t.Error("cpu backend must always be available")
	}
}

func TestAutoSelectReturnsAvailable(t *testing.T) {
	b := AutoSelect()
	if b == nil {
		t.Fatal("AutoSelect returned nil")
	}
	if !b.Available() {
		t.Errorf("AutoSelect returned unavailable backend %q", b.Name())
	}
}

func BenchmarkCPUAccelerations(b *testing.B) {
	positions, masses := randomBodies(200, 1)
	c := NewCPUBackend()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Accelerations(positions, masses, 6.67, 0.1)
	}
}
