// Package ephemeris is the thin boundary over an external body-name/state
// lookup collaborator: it resolves labels to NAIF IDs, looks up
// gravitational parameters, returns position/velocity state vectors at an
// epoch relative to a chosen center, and converts UTC timestamps to
// ephemeris time. It does not itself know how any of that is stored; it
// delegates to a Source and enforces the unit/error-handling discipline
// documented on each method.
package ephemeris

import "fmt"

// UnknownBodyError reports a label that did not resolve against the
// loaded kernel pool.
type UnknownBodyError struct {
	Label string
	Cause error
}

func (e *UnknownBodyError) Error() string {
	return fmt.Sprintf("ephemeris: unknown body %q", e.Label)
}

func (e *UnknownBodyError) Unwrap() error { return e.Cause }

// GMUnavailableError reports a failed gravitational-parameter lookup.
type GMUnavailableError struct {
	ID    int32
	Cause error
}

func (e *GMUnavailableError) Error() string {
	return fmt.Sprintf("ephemeris: GM unavailable for body %d: %v", e.ID, e.Cause)
}

func (e *GMUnavailableError) Unwrap() error { return e.Cause }

// StateUnavailableError reports a state lookup that failed, either
// because the epoch falls outside the loaded kernel coverage or because
// the underlying source otherwise could not produce a state.
type StateUnavailableError struct {
	ID, Center int32
	ET         float64
	Cause      error
}

func (e *StateUnavailableError) Error() string {
	return fmt.Sprintf("ephemeris: state unavailable for body %d relative to %d at et=%g: %v",
		e.ID, e.Center, e.ET, e.Cause)
}

func (e *StateUnavailableError) Unwrap() error { return e.Cause }
