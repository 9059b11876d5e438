package ephemeris

import (
	"errors"
	"math"
	"testing"
)

type fakeSource struct {
	ids   map[string]int32
	gms   map[int32]float64
	state map[int32][6]float64 // km, km/s relative to body 10
}

func (f *fakeSource) ResolveID(label string) (int32, bool) {
	id, ok := f.ids[label]
	return id, ok
}

func (f *fakeSource) GM(id int32) (float64, bool) {
	mu, ok := f.gms[id]
	return mu, ok
}

func (f *fakeSource) State(id, center int32, et float64) (pos, vel [3]float64, ok bool) {
	s, found := f.state[id]
	if !found {
		return pos, vel, false
	}
	copy(pos[:], s[0:3])
	copy(vel[:], s[3:6])
	return pos, vel, true
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		ids:   map[string]int32{"EARTH": 399},
		gms:   map[int32]float64{399: 398600.4418},
		state: map[int32][6]float64{399: {1, 2, 3, 4, 5, 6}},
	}
}

func TestResolveIDsUnknownBody(t *testing.T) {
	a := NewAdapter(newFakeSource(), nil)
	_, err := a.ResolveIDs([]string{"doesnotexist"})
	var unknown *UnknownBodyError
	if !errors.As(err, &unknown) {
		t.Fatalf("ResolveIDs error = %v, want *UnknownBodyError", err)
	}
}

func TestMuUnitConversion(t *testing.T) {
	a := NewAdapter(newFakeSource(), nil)
	mu, err := a.Mu(399)
	if err != nil {
		t.Fatalf("Mu: %v", err)
	}
	want := 398600.4418 * 1e9
	if math.Abs(mu-want)/want > 1e-12 {
		t.Fatalf("Mu(399) = %g, want %g", mu, want)
	}
}

func TestMuUnavailable(t *testing.T) {
	a := NewAdapter(newFakeSource(), nil)
	_, err := a.Mu(-202)
	var gmErr *GMUnavailableError
	if !errors.As(err, &gmErr) {
		t.Fatalf("Mu(-202) error = %v, want *GMUnavailableError", err)
	}
}

func TestStateUnitConversion(t *testing.T) {
	a := NewAdapter(newFakeSource(), nil)
	y, err := a.State(399, 10, 0)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	for i, want := range []float64{1000, 2000, 3000, 4000, 5000, 6000} {
		if math.Abs(y[i]-want) > 1e-9 {
			t.Fatalf("State()[%d] = %g, want %g", i, y[i], want)
		}
	}
}

func TestStateUnavailable(t *testing.T) {
	a := NewAdapter(newFakeSource(), nil)
	_, err := a.State(-202, 10, 0)
	var stateErr *StateUnavailableError
	if !errors.As(err, &stateErr) {
		t.Fatalf("State(-202) error = %v, want *StateUnavailableError", err)
	}
}

func TestETOfParsesNAIFCalendarString(t *testing.T) {
	et, err := etOfUTC("2000-JAN-01 12:00:00")
	if err != nil {
		t.Fatalf("etOfUTC: %v", err)
	}
	if et != 0 {
		t.Fatalf("etOfUTC(J2000 epoch) = %g, want 0", et)
	}
}

func TestETOfOneDayLater(t *testing.T) {
	et, err := etOfUTC("2000-JAN-02 12:00:00")
	if err != nil {
		t.Fatalf("etOfUTC: %v", err)
	}
	if et != 86400 {
		t.Fatalf("etOfUTC(one day later) = %g, want 86400", et)
	}
}

func TestStatesAtConcatenatesInOrder(t *testing.T) {
	a := NewAdapter(newFakeSource(), nil)
	y, err := a.StatesAt([]int32{399, 399}, 10, 0)
	if err != nil {
		t.Fatalf("StatesAt: %v", err)
	}
	if len(y) != 12 {
		t.Fatalf("len(StatesAt) = %d, want 12", len(y))
	}
}
