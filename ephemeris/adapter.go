package ephemeris

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// Source is the external ephemeris/kernel-library collaborator: a
// NAIF-ID/label registry plus epoch-indexed state lookups. Adapter
// delegates every operation to a Source and is agnostic to whether it is
// backed by a real SPICE toolkit binding, a flat-file catalog, or
// anything else.
type Source interface {
	// ResolveID maps a label (name or numeric NAIF-ID string) to its
	// NAIF ID. ok is false if the label is not in the loaded pool.
	ResolveID(label string) (id int32, ok bool)
	// GM returns the gravitational parameter of id in km^3/s^2. ok is
	// false if the body has no known GM.
	GM(id int32) (muKm float64, ok bool)
	// State returns the position and velocity of id relative to center
	// at et seconds past J2000, in km and km/s. ok is false if the
	// lookup cannot be satisfied (e.g. et falls outside loaded
	// coverage).
	State(id, center int32, et float64) (pos, vel [3]float64, ok bool)
}

// Adapter is the Ephemeris Adapter: it wraps a Source, converts its
// km/(km/s) answers into the SI units used throughout propagation, and
// translates Source misses into the typed error taxonomy.
//
// A production Source backed by a real SPICE toolkit binding typically
// signals failure through a process-wide error flag rather than a
// regular return value. Adapter's contract is written so that either
// shape works: a Source implementation that uses such a flag internally
// must capture it, translate it, and reset it before returning from
// ResolveID/GM/State, so that Adapter never observes stale error state
// across calls.
type Adapter struct {
	src Source
	log kitlog.Logger
}

// NewAdapter returns an Adapter over src. If log is nil a no-op logger
// is used.
func NewAdapter(src Source, log kitlog.Logger) *Adapter {
	if log == nil {
		log = kitlog.NewNopLogger()
	}
	return &Adapter{src: src, log: kitlog.With(log, "subsys", "ephemeris")}
}

// ResolveIDs maps each label to its NAIF ID, in order.
func (a *Adapter) ResolveIDs(labels []string) ([]int32, error) {
	ids := make([]int32, len(labels))
	for i, label := range labels {
		id, ok := a.src.ResolveID(label)
		if !ok {
			a.log.Log("level", "error", "message", "unresolved body", "label", label)
			return nil, &UnknownBodyError{Label: label}
		}
		ids[i] = id
	}
	return ids, nil
}

// Mu returns mu in m^3/s^2: the source reports km^3/s^2, so the adapter
// scales by 1e9.
func (a *Adapter) Mu(id int32) (float64, error) {
	muKm, ok := a.src.GM(id)
	if !ok {
		return 0, &GMUnavailableError{ID: id, Cause: fmt.Errorf("no GM entry for body %d", id)}
	}
	return muKm * 1e9, nil
}

// State returns the position+velocity of id relative to center at et,
// in metres and metres/second: the source reports km and km/s, so the
// adapter scales both by 1e3.
func (a *Adapter) State(id, center int32, et float64) ([6]float64, error) {
	pos, vel, ok := a.src.State(id, center, et)
	if !ok {
		return [6]float64{}, &StateUnavailableError{
			ID: id, Center: center, ET: et,
			Cause: fmt.Errorf("no coverage for body %d relative to %d at et=%g", id, center, et),
		}
	}
	var y [6]float64
	for k := 0; k < 3; k++ {
		y[k] = pos[k] * 1e3
		y[k+3] = vel[k] * 1e3
	}
	return y, nil
}

// ETOf converts a UTC timestamp such as "2013-NOV-20" or
// "2013-NOV-20 12:00:00" to ephemeris time: seconds past the J2000
// epoch (2000-01-01 12:00:00). This stand-in adapter treats ET and UTC
// as equal (no leap-second/TDB-UT1 correction), which is adequate for
// the propagator's own correctness properties; a production Source
// backed by a real SPICE binding would perform the full UTC->ET
// conversion itself and this method would simply forward to it.
func (a *Adapter) ETOf(utc string) (float64, error) {
	return etOfUTC(utc)
}

// StatesAt concatenates State(id, center, et) for each id in order,
// returning a flat length-6*len(ids) slice.
func (a *Adapter) StatesAt(ids []int32, center int32, et float64) ([]float64, error) {
	y := make([]float64, 6*len(ids))
	for i, id := range ids {
		s, err := a.State(id, center, et)
		if err != nil {
			return nil, err
		}
		copy(y[6*i:6*i+6], s[:])
	}
	return y, nil
}
