// Package compute provides force-calculation backends for the N-body engine.
//
// All backends honor the same contract and are observationally equivalent:
//
//   - CPU: serial pair loop for small N, worker-pool row distribution above
//   - CUDA: GPU kernel behind the `cuda` build tag
//   - OpenGL: data-parallel compute shader (requires a GL context and Init)
//
// Select one explicitly, or let [AutoSelect] pick the best available:
//
//	backend := compute.AutoSelect()
//	ax, ay := backend.Accelerations(positions, masses, g, softening)
//
// Swapping backends changes only performance, never results.
package compute
