package integrate

import "math"

// Dopri45 is the adaptive Dormand-Prince 5(4) stepper: a seven-stage
// pair producing a 5th-order solution and an embedded 4th-order
// solution used only to size the next step. The 5th-order result is
// always emitted; there is no step rejection, so a large local error
// estimate shrinks the next step rather than retrying the current one.
type Dopri45 struct {
	f      Derivative
	t      float64
	y      []float64
	h      float64
	tFinal float64
	atol   float64
	rtol   float64
	done   bool
}

const (
	dopriSafetyFactor  = 0.85
	dopriMaxRelativeDh = 1.2
)

// NewDopri45 constructs a Dopri45 stepper starting from (t0, y0), with
// initial step h, absolute tolerance atol, relative tolerance rtol, and
// terminating once t >= tFinal.
func NewDopri45(f Derivative, t0 float64, y0 []float64, h, tFinal, atol, rtol float64) *Dopri45 {
	y := make([]float64, len(y0))
	copy(y, y0)
	return &Dopri45{f: f, t: t0, y: y, h: h, tFinal: tFinal, atol: atol, rtol: rtol}
}

// Next implements Stepper.
func (s *Dopri45) Next() (float64, []float64, bool, error) {
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
	k2, err := s.f(t+h/5, combine(y, h, term{k1, 1.0 / 5}))
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}
	k3, err := s.f(t+3*h/10, combine(y, h, term{k1, 3.0 / 40}, term{k2, 9.0 / 40}))
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}
	k4, err := s.f(t+4*h/5, combine(y, h, term{k1, 44.0 / 45}, term{k2, -56.0 / 15}, term{k3, 32.0 / 9}))
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}
	k5, err := s.f(t+8*h/9, combine(y, h,
		term{k1, 19372.0 / 6561}, term{k2, -25360.0 / 2187}, term{k3, 64448.0 / 6561}, term{k4, -212.0 / 729}))
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}
	k6, err := s.f(t+h, combine(y, h,
		term{k1, 9017.0 / 3168}, term{k2, -355.0 / 33}, term{k3, 46732.0 / 5247}, term{k4, 49.0 / 176}, term{k5, -5103.0 / 18656}))
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}

	hiOrd := combine(y, h,
		term{k1, 35.0 / 384}, term{k3, 500.0 / 1113}, term{k4, 125.0 / 192}, term{k5, -2187.0 / 6784}, term{k6, 11.0 / 84})

	k7, err := s.f(t+h, hiOrd)
	if err != nil {
		s.done = true
		return 0, nil, false, err
	}

	loOrd := combine(y, h,
		term{k1, 5179.0 / 57600}, term{k3, 7571.0 / 16695}, term{k4, 393.0 / 640},
		term{k5, -92097.0 / 339200}, term{k6, 187.0 / 2100}, term{k7, 1.0 / 40})

	errVec := make([]float64, len(hiOrd))
	scVec := make([]float64, len(hiOrd))
	hiNorm := vecNorm2(hiOrd)
	yNorm := vecNorm2(y)
	maxNorm := hiNorm
	if yNorm > maxNorm {
		maxNorm = yNorm
	}
	for i := range errVec {
		errVec[i] = hiOrd[i] - loOrd[i]
		scVec[i] = errVec[i] / (s.atol + s.rtol*maxNorm)
	}
	errNorm := vecNorm2(scVec)

	factor := math.Pow(1/errNorm, 0.2) * dopriSafetyFactor
	if factor < 1/dopriMaxRelativeDh {
		factor = 1 / dopriMaxRelativeDh
	}
	if factor > dopriMaxRelativeDh {
		factor = dopriMaxRelativeDh
	}

	s.y = hiOrd
	s.t = t + h
	s.h = factor * h
	return s.t, s.y, true, nil
}

type term struct {
	k []float64
	w float64
}

// combine returns y0 + h*sum(w_i*k_i) for the given weighted stage
// derivatives.
func combine(y0 []float64, h float64, terms ...term) []float64 {
	out := make([]float64, len(y0))
	copy(out, y0)
	for i := range out {
		var sum float64
		for _, t := range terms {
			sum += t.w * t.k[i]
		}
		out[i] += h * sum
	}
	return out
}
