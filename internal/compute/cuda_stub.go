//go:build !cuda

package compute

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) Accelerations(positions, masses []float64, g, softening float64) ([]float64, []float64) {
	cpu := NewCPUBackend()
	return cpu.Accelerations(positions, masses, g, softening)
}
