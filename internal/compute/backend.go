package compute

// Backend computes pairwise softened-gravity accelerations for a body set.
//
// Given interleaved (x,y) positions and per-body masses, Accelerations
// returns the net acceleration components for every body:
//
//	a_i = g * Σ_{j≠i} m_j * (r_j - r_i) / (|r_j - r_i|² + softening²)^1.5
//
// Implementations may parallelize internally but must fully join before
// returning, and each body's output slot must be written by exactly one
// task. All backends produce the same result within floating-point
// reordering tolerance.
type Backend interface {
	Name() string
	Available() bool
	Accelerations(positions, masses []float64, g, softening float64) (ax, ay []float64)
	Cleanup()
}

// AutoSelect returns the best available backend: CUDA when built in and a
// device is present, otherwise the CPU worker pool.
func AutoSelect() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}
