package integrate

// RK4 is the fixed-step classical fourth-order Runge-Kutta stepper,
// Butcher tableau c = (0, 1/2, 1/2, 1), weights (1/6, 1/3, 1/3, 1/6).
type RK4 struct {
	f      Derivative
	t      float64
	y      []float64
	h      float64
	tFinal float64
	done   bool
}

// NewRK4 constructs an RK4 stepper starting from (t0, y0), stepping by
// h, and terminating once t >= tFinal.
func NewRK4(f Derivative, t0 float64, y0 []float64, h, tFinal float64) *RK4 {
	y := make([]float64, len(y0))
	copy(y, y0)
	return &RK4{f: f, t: t0, y: y, h: h, tFinal: tFinal}
}

// Next implements Stepper.
func (s *RK4) Next() (float64, []float64, bool, error) {
	if s.done || s.t >= s.tFinal {
		s.done = true
		return 0, nil, false, nil
	}
	h := clampStep(s.t, s.h, s.tFinal)
	t, y := s.t, s.y

	k1, err := s.f(t, y)
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}
	k2, err := s.f(t+0.5*h, axpy(y, 0.5*h, k1))
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}
	k3, err := s.f(t+0.5*h, axpy(y, 0.5*h, k2))
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}
	k4, err := s.f(t+h, axpy(y, h, k3))
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}

	next := make([]float64, len(y))
	for i := range next {
		next[i] = y[i] + h/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	s.y = next
	s.t = t + h
	return s.t, s.y, true, nil
}
