//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern void nbody_accel_gpu(float* positions, float* masses, float* ax, float* ay, int n, float g, float softening);
*/
import "C"
import "unsafe"

type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) Accelerations(positions, masses []float64, g, softening float64) ([]float64, []float64) {
	if !c.available {
		cpu := NewCPUBackend()
		return cpu.Accelerations(positions, masses, g, softening)
	}

	n := len(masses)
	ax := make([]float64, n)
	ay := make([]float64, n)

	// The kernel runs in float32; stage the arrays through conversion
	// buffers on both sides.
	posF := make([]float32, len(positions))
	massF := make([]float32, n)
	axF := make([]float32, n)
	ayF := make([]float32, n)

	for i := range positions {
		posF[i] = float32(positions[i])
	}
	for i := range masses {
		massF[i] = float32(masses[i])
	}

	C.nbody_accel_gpu(
		(*C.float)(unsafe.Pointer(&posF[0])),
		(*C.float)(unsafe.Pointer(&massF[0])),
		(*C.float)(unsafe.Pointer(&axF[0])),
		(*C.float)(unsafe.Pointer(&ayF[0])),
		C.int(n),
		C.float(g),
		C.float(softening),
	)

	for i := 0; i < n; i++ {
		ax[i] = float64(axF[i])
		ay[i] = float64(ayF[i])
	}

	return ax, ay
}
