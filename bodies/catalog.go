// Package bodies provides the in-repo stand-in for the external
// "ephemeris/kernel library" collaborator described in ephemeris.Source:
// a NAIF-ID/label registry plus a built-in analytic ephemeris backed by
// heliocentric osculating elements for the Sun and the eight planets.
//
// A production deployment wires a different ephemeris.Source (for
// example one backed by a real SPICE toolkit binding) in place of
// Catalog; nothing above the ephemeris package depends on which one is
// used.
package bodies

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Elements holds heliocentric osculating elements at epoch J2000 (ET=0),
// in the same units and layout as smd's NewOrbitFromOE: a in km, angles
// in degrees, mean anomaly m0 in degrees at epoch.
type Elements struct {
	SMA, Ecc, Inc, RAAN, ArgPeri, M0 float64
}

// Record is one catalog entry: a label, its NAIF ID, its gravitational
// parameter (km^3/s^2) and, for bodies the built-in analytic propagator
// knows how to move, its heliocentric elements. Small bodies and
// spacecraft instead carry a fixed-epoch StateOverride recorded by
// LoadState.
type Record struct {
	Label    string
	ID       int32
	GMkm     float64 // km^3/s^2
	Elements *Elements
	Override *StateOverride
}

// StateOverride is a directly-supplied state for a body the built-in
// analytic propagator has no orbital elements for (a spacecraft or
// other small body). It is only matched when queried at its own
// recorded epoch: small bodies have no ongoing analytic ephemeris, only
// the one initial condition the propagator needs before it starts
// integrating.
type StateOverride struct {
	ET       float64
	Pos, Vel [3]float64
}

// sunGM is the Sun's GM in km^3/s^2 (IAU 1976 value, matching the
// constant smd/celestial.go uses for Sun.μ).
const sunGM = 1.32712440018e11

// builtin is the included kernel set: Sun plus the eight planets (using
// planet barycenter IDs for every planet except Earth, which uses its
// own body ID 399, matching NAIF convention), with heliocentric
// osculating elements at J2000.
var builtin = []Record{
	{Label: "SUN", ID: 10, GMkm: sunGM},
	{Label: "MERCURY BARYCENTER", ID: 1, GMkm: 2.2032e4, Elements: &Elements{57909050, 0.20563069, 7.00487, 48.33167, 77.45645, 252.25084}},
	{Label: "VENUS BARYCENTER", ID: 2, GMkm: 3.24859e5, Elements: &Elements{108208000, 0.00677323, 3.39471, 76.68069, 131.53298, 181.97973}},
	{Label: "EARTH", ID: 399, GMkm: 3.986004418e5, Elements: &Elements{149598023, 0.01671022, 0.00005, -11.26064, 102.94719, 100.46435}},
	{Label: "MARS BARYCENTER", ID: 4, GMkm: 4.282837e4, Elements: &Elements{227939186, 0.09341233, 1.85061, 49.57854, 336.04084, 355.45332}},
	{Label: "JUPITER BARYCENTER", ID: 5, GMkm: 1.26686534e8, Elements: &Elements{778547200, 0.04839266, 1.30530, 100.55615, 14.75385, 34.40438}},
	{Label: "SATURN BARYCENTER", ID: 6, GMkm: 3.7931187e7, Elements: &Elements{1433449370, 0.05415060, 2.48446, 113.71504, 92.43194, 49.94432}},
	{Label: "URANUS BARYCENTER", ID: 7, GMkm: 5.793939e6, Elements: &Elements{2876679082, 0.04716771, 0.76986, 74.22988, 170.96424, 313.23218}},
	{Label: "NEPTUNE BARYCENTER", ID: 8, GMkm: 6.836529e6, Elements: &Elements{4503443661, 0.00858587, 1.76917, 131.72169, 44.97135, 304.88003}},
}

// Catalog is a loaded body registry: the built-in kernel plus any
// user-supplied overrides. It implements ephemeris.Source.
//
// Each method holds the Catalog's own mutex, so single calls may run
// concurrently; a Load or LoadState made while a propagation is running
// still changes the answers that propagation sees part way through, so
// callers serialize propagation runs, mirroring smd/config.go's
// spiceCSVMutex guard around its own lazily populated ephemeris cache.
type Catalog struct {
	mu      sync.Mutex
	records map[string]Record // normalized label -> record
	byID    map[int32]Record
}

// NewCatalog returns a Catalog pre-loaded with the built-in kernel (Sun
// and the eight planets).
func NewCatalog() *Catalog {
	c := &Catalog{
		records: make(map[string]Record, len(builtin)),
		byID:    make(map[int32]Record, len(builtin)),
	}
	for _, r := range builtin {
		c.add(r)
	}
	return c
}

func (c *Catalog) add(r Record) {
	c.records[normalize(r.Label)] = r
	c.byID[r.ID] = r
}

func normalize(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// Load adds or overrides records from a simple meta-kernel-like text
// file: one record per line, "LABEL,ID,GM_KM3S2", where the GM field
// may be omitted (read as 0) for massless/small bodies. Loaded records
// carry no Elements, whatever their GM, so a loaded body has no state
// until one is supplied out of band (see LoadState).
func (c *Catalog) Load(lines []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return fmt.Errorf("bodies: malformed meta-kernel line %q", line)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 32)
		if err != nil {
			return fmt.Errorf("bodies: malformed NAIF ID in %q: %w", line, err)
		}
		gm := 0.0
		if len(fields) > 2 {
			gm, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
			if err != nil {
				return fmt.Errorf("bodies: malformed GM in %q: %w", line, err)
			}
		}
		c.add(Record{Label: strings.TrimSpace(fields[0]), ID: int32(id), GMkm: gm})
	}
	return nil
}

// ResolveID maps a label (name or numeric NAIF-ID string) to its
// NAIF ID. Returns ok=false if the label is not in the loaded pool.
func (c *Catalog) ResolveID(label string) (int32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, err := strconv.ParseInt(strings.TrimSpace(label), 10, 32); err == nil {
		_, found := c.byID[int32(id)]
		return int32(id), found
	}
	r, found := c.records[normalize(label)]
	return r.ID, found
}

// GM returns the gravitational parameter in km^3/s^2 for a loaded body.
func (c *Catalog) GM(id int32) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, found := c.byID[id]
	return r.GMkm, found
}

// State returns the position and velocity (km, km/s) of id relative to
// center at et seconds past J2000. State subtracts center's
// heliocentric state from id's (see heliocentric), so any two bodies
// that both have a heliocentric state at et can be expressed relative
// to one another; ok is false if either of them has none.
func (c *Catalog) State(id, center int32, et float64) (pos, vel [3]float64, ok bool) {
	idPos, idVel, ok := c.heliocentric(id, et)
	if !ok {
		return pos, vel, false
	}
	if center == 10 {
		return idPos, idVel, true
	}
	cPos, cVel, ok := c.heliocentric(center, et)
	if !ok {
		return pos, vel, false
	}
	for k := 0; k < 3; k++ {
		pos[k] = idPos[k] - cPos[k]
		vel[k] = idVel[k] - cVel[k]
	}
	return pos, vel, true
}

// heliocentric returns the position and velocity (km, km/s) of a body
// at et seconds past J2000, relative to the Sun. Bodies with Elements
// are propagated analytically; bodies with a StateOverride are matched
// only at their recorded epoch (see LoadState). A body with neither has
// no heliocentric state Catalog can serve.
func (c *Catalog) heliocentric(id int32, et float64) (pos, vel [3]float64, ok bool) {
	c.mu.Lock()
	r, found := c.byID[id]
	c.mu.Unlock()
	if !found {
		return pos, vel, false
	}
	if r.Override != nil && et == r.Override.ET {
		return r.Override.Pos, r.Override.Vel, true
	}
	if id == 10 {
		return pos, vel, true // Sun at the origin of its own frame.
	}
	if r.Elements == nil {
		return pos, vel, false
	}
	pos, vel = r.Elements.rv(et, sunGM)
	return pos, vel, true
}

// LoadState registers a fixed-epoch heliocentric state override for a
// body the built-in analytic propagator cannot otherwise move (a
// spacecraft or other small body): State only returns this override
// when queried at exactly et, which matches the one call the propagator
// makes before it starts integrating a small body forward itself.
func (c *Catalog) LoadState(label string, id int32, et float64, pos, vel [3]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(Record{Label: label, ID: id, Override: &StateOverride{ET: et, Pos: pos, Vel: vel}})
}

// rv propagates the osculating elements forward by et seconds
// (Keplerian two-body motion only — no perturbations) and returns the
// Cartesian state in the J2000 equatorial frame (km, km/s), following
// the same perifocal-to-equatorial transform as smd's NewOrbitFromOE
// (Vallado 4th ed., COE2RV).
func (e *Elements) rv(et, muSun float64) (r, v [3]float64) {
	const deg2rad = math.Pi / 180
	a := e.SMA
	ecc := e.Ecc
	inc := e.Inc * deg2rad
	raan := e.RAAN * deg2rad
	argp := e.ArgPeri * deg2rad
	n := math.Sqrt(muSun / (a * a * a)) // rad/s
	m := (e.M0 * deg2rad) + n*et
	m = math.Mod(m, 2*math.Pi)
	eAnom := solveKepler(m, ecc)
	sinE, cosE := math.Sin(eAnom), math.Cos(eAnom)
	nu := math.Atan2(math.Sqrt(1-ecc*ecc)*sinE, cosE-ecc)
	p := a * (1 - ecc*ecc)
	radius := p / (1 + ecc*math.Cos(nu))
	muOverP := math.Sqrt(muSun / p)
	sinNu, cosNu := math.Sincos(nu)
	rPQW := [3]float64{radius * cosNu, radius * sinNu, 0}
	vPQW := [3]float64{-muOverP * sinNu, muOverP * (ecc + cosNu), 0}
	rot := newRot313(-argp, -inc, -raan)
	return rot.apply(rPQW), rot.apply(vPQW)
}

// solveKepler solves Kepler's equation m = E - e*sin(E) for E via
// Newton-Raphson, starting from m itself (adequate for the low-to-
// moderate eccentricities of the planets).
func solveKepler(m, ecc float64) float64 {
	eAnom := m
	for i := 0; i < 50; i++ {
		f := eAnom - ecc*math.Sin(eAnom) - m
		fPrime := 1 - ecc*math.Cos(eAnom)
		delta := f / fPrime
		eAnom -= delta
		if math.Abs(delta) < 1e-13 {
			break
		}
	}
	return eAnom
}

// rot313 is a 3-1-3 Euler rotation matrix (classical orbital-elements
// perifocal-to-inertial transform), applied row-major (Schaub and
// Junkins' form, matching smd's R3R1R3 — not the Vallado version, which
// smd's own rotation.go notes disagrees with Schaub and Junkins here).
type rot313 [3][3]float64

func newRot313(t1, t2, t3 float64) rot313 {
	s1, c1 := math.Sincos(t1)
	s2, c2 := math.Sincos(t2)
	s3, c3 := math.Sincos(t3)
	return rot313{
		{c3*c1 - s3*c2*s1, c3*s1 + s3*c2*c1, s3 * s2},
		{-s3*c1 - c3*c2*s1, -s3*s1 + c3*c2*c1, c3 * s2},
		{s2 * s1, -s2 * c1, c2},
	}
}

func (m rot313) apply(v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}
