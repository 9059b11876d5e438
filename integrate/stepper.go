// Package integrate provides the three ODE steppers the propagator
// chooses between at runtime: fixed-step Euler, fixed-step classical
// RK4, and adaptive Dormand-Prince 5(4). Each implements Stepper, a
// small pull-based iterator: the propagator drives it one step at a
// time rather than handing control away for the whole run, which is
// what lets the Dopri45 implementation adapt its own step size between
// calls.
package integrate

import "gonum.org/v1/gonum/floats"

// Derivative is the time-derivative function f(t, y) -> dy the steppers
// are built from.
type Derivative func(t float64, y []float64) ([]float64, error)

// Stepper yields successive (t, y) points with strictly increasing t,
// starting with the first point after the stepper's initial condition
// and terminating once t >= tFinal. The caller, not the stepper, is
// responsible for recording the initial condition; Next only ever
// yields points the stepper computes. Once ok is false, all further
// calls to Next also yield ok == false.
type Stepper interface {
	Next() (t float64, y []float64, ok bool, err error)
}

// clampStep truncates h so that a step from x would not overshoot xMax,
// and stretches it to land exactly on xMax when a full step would stop
// short of xMax by no more than accumulated round-off (1e-9*h), so that
// no near-zero extra step is taken.
func clampStep(x, h, xMax float64) float64 {
	if x+h > xMax || xMax-(x+h) <= 1e-9*h {
		return xMax - x
	}
	return h
}

// axpy returns base + scale*v, allocating a new slice.
func axpy(base []float64, scale float64, v []float64) []float64 {
	out := append([]float64(nil), base...)
	floats.AddScaled(out, scale, v)
	return out
}

// vecNorm2 returns the Euclidean norm of v.
func vecNorm2(v []float64) float64 {
	return floats.Norm(v, 2)
}
