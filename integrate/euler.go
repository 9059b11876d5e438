package integrate

// Euler is the fixed-step forward-Euler stepper:
// y_{n+1} = y_n + h*f(t_n, y_n), t_{n+1} = t_n + h.
type Euler struct {
	f      Derivative
	t      float64
	y      []float64
	h      float64
	tFinal float64
	done   bool
}

// NewEuler constructs an Euler stepper starting from (t0, y0), stepping
// by h, and terminating once t >= tFinal.
func NewEuler(f Derivative, t0 float64, y0 []float64, h, tFinal float64) *Euler {
	y := make([]float64, len(y0))
	copy(y, y0)
	return &Euler{f: f, t: t0, y: y, h: h, tFinal: tFinal}
}

// Next implements Stepper.
func (s *Euler) Next() (float64, []float64, bool, error) {
	if s.done || s.t >= s.tFinal {
		s.done = true
		return 0, nil, false, nil
	}
	h := clampStep(s.t, s.h, s.tFinal)
	dy, err := s.f(s.t, s.y)
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}
	s.y = axpy(s.y, h, dy)
	s.t += h
	return s.t, s.y, true, nil
}
