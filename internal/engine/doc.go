// Package engine implements the N-body gravitational simulation core.
//
// An [Engine] owns the body set and advances it with semi-implicit Euler
// integration under pairwise Newtonian attraction with Plummer softening:
//
//	a_i = G * Σ_{j≠i} m_j * (r_j - r_i) / (|r_j - r_i|² + ε²)^1.5
//
// Force evaluation is delegated to a pluggable [compute.Backend]; swapping
// backends changes performance, never results.
//
// # Usage
//
//	eng, _ := engine.New(10, nil, 0)
//	for running {
//	    eng.Step()
//	    eng.ApplyBoundary()
//	    render(eng.Positions(), eng.Colors())
//	}
//
// # Thread Safety
//
// An Engine is not thread-safe. It is designed for a single driving loop;
// any parallelism lives inside the force backend and is joined before Step
// returns.
package engine
