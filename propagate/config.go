package propagate

// Method selects the integration scheme and carries its tunables.
type Method interface {
	isMethod()
}

// EulerMethod runs fixed-step forward Euler with step H seconds.
type EulerMethod struct{ H float64 }

func (EulerMethod) isMethod() {}

// RK4Method runs fixed-step classical RK4 with step H seconds.
type RK4Method struct{ H float64 }

func (RK4Method) isMethod() {}

// Dopri45Method runs adaptive Dormand-Prince 5(4) with initial step H
// and tolerances Atol/Rtol.
type Dopri45Method struct {
	H, Atol, Rtol float64
}

func (Dopri45Method) isMethod() {}

// Config describes one propagation run: the full and small body labels
// (resolved against the adapter), the optional external attractors, the
// observing body, the UTC interval, and the integration method.
type Config struct {
	Full       []string
	Small      []string
	Attractors []string
	CenterBody string
	T0, TFinal string
	Method     Method
}
