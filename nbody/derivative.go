// Package nbody computes the time-derivative of a flattened N-body
// state vector: mutual Newtonian gravity between the propagated bodies,
// plus the gravitational pull of any external attractors whose own
// positions are read from an ephemeris.Adapter rather than integrated.
package nbody

import (
	"math"

	"github.com/astrograv/propagate/ephemeris"
)

// Attractor is an external gravitational source: its position is
// looked up at each derivative evaluation, its own motion is not
// integrated.
type Attractor struct {
	ID int32
	Mu float64 // m^3/s^2
}

// Config is the immutable, closure-captured configuration a Derivative
// closes over: the mass of each propagated body (0 for small bodies),
// the attractor set, and the observing body every position is expressed
// relative to.
type Config struct {
	Mus        []float64 // m^3/s^2, len == N, parallel to the propagated body order
	Attractors []Attractor
	CenterID   int32
	Adapter    *ephemeris.Adapter

	// RebaseToCenter and CenterIndex together say that CenterID is
	// itself one of the propagated bodies at index CenterIndex.
	// Derivative then rebases every acceleration onto that body's own
	// acceleration, so its slot's derivative is identically zero and
	// its state - fixed at zero by the caller's initial condition -
	// stays zero for the rest of the integration.
	RebaseToCenter bool
	CenterIndex    int
}

// N returns the number of propagated bodies this configuration expects
// state vectors to carry.
func (c *Config) N() int { return len(c.Mus) }

// Derivative evaluates f(et, y) -> dy: zero-initialize, copy velocities
// into the position-derivative slots, accumulate pairwise mutual
// gravity among propagated bodies, accumulate the attractors'
// contributions, and - when the observing body is itself one of the
// propagated bodies - rebase every acceleration onto that body's own,
// so its slot's derivative is identically zero and the positions stay
// expressed relative to it rather than drifting into an inertial
// frame. It allocates only the output vector; the attractor state
// lookups are the only dynamic operation.
//
// Singularities at coincident bodies are not guarded: callers must not
// request propagation through a collision epoch.
func (c *Config) Derivative(et float64, y []float64) ([]float64, error) {
	n := c.N()
	dy := make([]float64, 6*n)

	for i := 0; i < n; i++ {
		copy(dy[6*i:6*i+3], y[6*i+3:6*i+6])
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var r [3]float64
			for k := 0; k < 3; k++ {
				r[k] = y[6*j+k] - y[6*i+k]
			}
			rNormCubed := math.Pow(r[0]*r[0]+r[1]*r[1]+r[2]*r[2], 1.5)
			muJ, muI := c.Mus[j], c.Mus[i]
			for k := 0; k < 3; k++ {
				dy[6*i+3+k] += muJ / rNormCubed * r[k]
				dy[6*j+3+k] -= muI / rNormCubed * r[k]
			}
		}
	}

	for _, att := range c.Attractors {
		state, err := c.Adapter.State(att.ID, c.CenterID, et)
		if err != nil {
			return nil, err
		}
		aPos := [3]float64{state[0], state[1], state[2]}
		for i := 0; i < n; i++ {
			var r [3]float64
			for k := 0; k < 3; k++ {
				r[k] = aPos[k] - y[6*i+k]
			}
			rNormCubed := math.Pow(r[0]*r[0]+r[1]*r[1]+r[2]*r[2], 1.5)
			for k := 0; k < 3; k++ {
				dy[6*i+3+k] += att.Mu / rNormCubed * r[k]
			}
		}
	}

	if c.RebaseToCenter {
		var aCenter [3]float64
		copy(aCenter[:], dy[6*c.CenterIndex+3:6*c.CenterIndex+6])
		for i := 0; i < n; i++ {
			for k := 0; k < 3; k++ {
				dy[6*i+3+k] -= aCenter[k]
			}
		}
	}

	return dy, nil
}
