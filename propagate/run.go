package propagate

import (
	"fmt"

	"github.com/astrograv/propagate/ephemeris"
	"github.com/astrograv/propagate/integrate"
	"github.com/astrograv/propagate/nbody"
)

// Trajectory is the aligned result of a propagation run: ETs[k] is the
// ephemeris time of sample k, States[k] the corresponding length-6N
// state vector. AllBodies is the resolved full++small body order the
// states are laid out in, and CenterID is the observing body every
// state is expressed relative to.
type Trajectory struct {
	ETs       []float64
	States    [][]float64
	AllBodies []int32
	CenterID  int32
}

// Run executes the propagator algorithm: validate the configuration,
// resolve bodies and the time interval through the adapter, build the
// masses and attractor set, construct the chosen stepper, and drain it
// into an aligned (ets, states) trajectory.
func Run(adapter *ephemeris.Adapter, cfg Config) (*Trajectory, error) {
	if len(cfg.Full) == 0 && len(cfg.Small) == 0 {
		return nil, &ValidationError{Reason: "at least one of Full or Small must be non-empty"}
	}
	if len(cfg.Full) > 0 && len(cfg.Attractors) > 0 {
		return nil, &ValidationError{Reason: "Full and Attractors are mutually exclusive"}
	}
	if len(cfg.Attractors) > 0 && cfg.CenterBody == "" {
		return nil, &ValidationError{Reason: "CenterBody is required when Attractors is set"}
	}

	et0, err := adapter.ETOf(cfg.T0)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("bad t0: %v", err)}
	}
	etFinal, err := adapter.ETOf(cfg.TFinal)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("bad tfinal: %v", err)}
	}
	if et0 >= etFinal {
		return nil, &ValidationError{Reason: "t0 must be strictly before tfinal"}
	}

	allLabels := append(append([]string{}, cfg.Full...), cfg.Small...)
	allBodies, err := adapter.ResolveIDs(allLabels)
	if err != nil {
		return nil, err
	}

	centerID := allBodies[0]
	if cfg.CenterBody != "" {
		ids, err := adapter.ResolveIDs([]string{cfg.CenterBody})
		if err != nil {
			return nil, err
		}
		centerID = ids[0]
	}

	y0, err := adapter.StatesAt(allBodies, centerID, et0)
	if err != nil {
		return nil, err
	}

	mus := make([]float64, len(allBodies))
	for i := range cfg.Full {
		mu, err := adapter.Mu(allBodies[i])
		if err != nil {
			return nil, err
		}
		mus[i] = mu
	}
	// the small-body tail of mus is left at its zero value.

	attractorIDs, err := adapter.ResolveIDs(cfg.Attractors)
	if err != nil {
		return nil, err
	}
	attractors := make([]nbody.Attractor, len(attractorIDs))
	for i, id := range attractorIDs {
		mu, err := adapter.Mu(id)
		if err != nil {
			return nil, err
		}
		attractors[i] = nbody.Attractor{ID: id, Mu: mu}
	}

	deriv := &nbody.Config{
		Mus:        mus,
		Attractors: attractors,
		CenterID:   centerID,
		Adapter:    adapter,
	}
	for i, id := range allBodies {
		if id == centerID {
			deriv.RebaseToCenter = true
			deriv.CenterIndex = i
			break
		}
	}

	f := func(t float64, y []float64) ([]float64, error) {
		dy, err := deriv.Derivative(t, y)
		if err != nil {
			return nil, &PropagationError{ET: t, Cause: err}
		}
		return dy, nil
	}

	var stepper integrate.Stepper
	switch m := cfg.Method.(type) {
	case EulerMethod:
		stepper = integrate.NewEuler(f, et0, y0, m.H, etFinal)
	case RK4Method:
		stepper = integrate.NewRK4(f, et0, y0, m.H, etFinal)
	case Dopri45Method:
		stepper = integrate.NewDopri45(f, et0, y0, m.H, etFinal, m.Atol, m.Rtol)
	default:
		return nil, &ValidationError{Reason: "unknown integration method"}
	}

	ets := []float64{et0}
	states := [][]float64{y0}
	for {
		t, y, ok, err := stepper.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		ets = append(ets, t)
		states = append(states, y)
	}

	return &Trajectory{
		ETs:       ets,
		States:    states,
		AllBodies: allBodies,
		CenterID:  centerID,
	}, nil
}
