//go:build !cuda

package compute

import (
	"math"
	"testing"
)

func TestCUDAStubFallsBackToCPU(t *testing.T) {
	cuda := NewCUDABackend()
	if cuda.Available() {
		t.Fatal("stub reports available without the cuda build tag")
	}

	positions, masses := randomBodies(20, 3)
	cax, cay := cuda.Accelerations(positions, masses, 6.67, 0.1)
	ax, ay := NewCPUBackend().Accelerations(positions, masses, 6.67, 0.1)

	for i := range masses {
		if math.Abs(cax[i]-ax[i]) > 1e-12 || math.Abs(cay[i]-ay[i]) > 1e-12 {
			t.Errorf("stub diverged from cpu at body %d", i)
		}
	}
}
