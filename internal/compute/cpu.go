package compute

import (
	"math"
	"runtime"
	"sync"
)

// serialThreshold is the body count below which the goroutine fan-out costs
// more than the O(N²) loop it would split.
const serialThreshold = 16

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{workers: runtime.NumCPU()}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Accelerations(positions, masses []float64, g, softening float64) ([]float64, []float64) {
	n := len(masses)
	ax := make([]float64, n)
	ay := make([]float64, n)

	if n < serialThreshold || c.workers <= 1 {
		c.serial(positions, masses, g, softening, ax, ay)
		return ax, ay
	}

	c.parallel(positions, masses, g, softening, ax, ay)
	return ax, ay
}

// serial walks unique pairs once, applying each interaction to both bodies.
func (c *CPUBackend) serial(pos, masses []float64, g, eps float64, ax, ay []float64) {
	n := len(masses)
	eps2 := eps * eps

	for i := 0; i < n; i++ {
		xi, yi := pos[i*2], pos[i*2+1]

		for j := i + 1; j < n; j++ {
			rx := pos[j*2] - xi
			ry := pos[j*2+1] - yi
			r2 := rx*rx + ry*ry + eps2

			rInv := 1.0 / math.Sqrt(r2)
			r3Inv := rInv * rInv * rInv

			fij := g * masses[j] * r3Inv
			ax[i] += fij * rx
			ay[i] += fij * ry

			fji := g * masses[i] * r3Inv
			ax[j] -= fji * rx
			ay[j] -= fji * ry
		}
	}
}

// parallel distributes body indices across workers. Each worker computes the
// full interaction row for its own indices and is the sole writer of those
// output slots, so no synchronization beyond the final join is needed.
func (c *CPUBackend) parallel(pos, masses []float64, g, eps float64, ax, ay []float64) {
	n := len(masses)
	eps2 := eps * eps
	chunk := (n + c.workers - 1) / c.workers

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for i := start; i < end; i++ {
				xi, yi := pos[i*2], pos[i*2+1]
				var sx, sy float64

				for j := 0; j < n; j++ {
					if j == i {
						continue
					}

					rx := pos[j*2] - xi
					ry := pos[j*2+1] - yi
					r2 := rx*rx + ry*ry + eps2

					rInv := 1.0 / math.Sqrt(r2)
					f := g * masses[j] * rInv * rInv * rInv

					sx += f * rx
					sy += f * ry
				}

				ax[i] = sx
				ay[i] = sy
			}
		}(start, end)
	}

	wg.Wait()
}
