package spk

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sampleTrajectory(n int) ([]float64, [][]float64) {
	ets := make([]float64, n)
	states := make([][]float64, n)
	for k := 0; k < n; k++ {
		et := float64(k) * 3600.0
		ets[k] = et
		states[k] = []float64{
			0, 0, 0, 0, 0, 0, // SUN, center
			1.5e11 + 1e6*float64(k), 2e10, 0, 1e4, 2.9e4, 0, // EARTH
		}
	}
	return ets, states
}

func TestWriteThenOpenRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bsp")
	ets, states := sampleTrajectory(20)

	if err := Write(path, []int32{10, 399}, ets, states, 10, 1.0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(r.segments) != 1 {
		t.Fatalf("segments = %d, want 1 (center body is not written as its own segment)", len(r.segments))
	}
	seg := r.segments[0]
	if seg.target != 399 || seg.center != 10 {
		t.Fatalf("segment target/center = %d/%d, want 399/10", seg.target, seg.center)
	}
	if len(seg.ets) != len(ets) {
		t.Fatalf("segment sample count = %d, want %d", len(seg.ets), len(ets))
	}
}

func TestPositionExactAtStoredEpoch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bsp")
	ets, states := sampleTrajectory(30)
	if err := Write(path, []int32{10, 399}, ets, states, 10, 1.0); err != nil {
		t.Fatalf("Write: %v", err)
	}
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	k := 12
	pos, err := r.Position(399, ets[k])
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	want := [3]float64{states[k][6] / 1000, states[k][7] / 1000, states[k][8] / 1000}
	for i := range pos {
		if diff := math.Abs(pos[i] - want[i]); diff > 1e-6 {
			t.Fatalf("Position()[%d] = %g, want %g (diff %g)", i, pos[i], want[i], diff)
		}
	}
}

func TestPositionUnknownBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bsp")
	ets, states := sampleTrajectory(5)
	if err := Write(path, []int32{10, 399}, ets, states, 10, 1.0); err != nil {
		t.Fatalf("Write: %v", err)
	}
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := r.Position(-202, ets[0]); err == nil {
		t.Fatal("expected error for a body with no segment")
	}
}

func TestWriteAppendsToExistingKernel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bsp")
	ets, states := sampleTrajectory(10)
	if err := Write(path, []int32{10, 399}, ets, states, 10, 1.0); err != nil {
		t.Fatalf("first Write: %v", err)
	}

	ets2 := make([]float64, 10)
	states2 := make([][]float64, 10)
	for k := range ets2 {
		ets2[k] = float64(k) * 3600
		states2[k] = []float64{0, 0, 0, 0, 0, 0, 2.28e11, 0, 0, 0, 2.4e4, 0}
	}
	if err := Write(path, []int32{10, 499}, ets2, states2, 10, 1.0); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(r.segments) != 2 {
		t.Fatalf("segments = %d, want 2 (old kernel's segment preserved alongside the new one)", len(r.segments))
	}
	seen := map[int32]bool{}
	for _, seg := range r.segments {
		seen[seg.target] = true
	}
	if !seen[399] || !seen[499] {
		t.Fatalf("segments = %v, want both 399 and 499 present", r.segments)
	}
}

func TestWriteRejectsFractionOutsideUnitInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bsp")
	ets, states := sampleTrajectory(5)
	for _, bad := range []float64{0, -0.5, 1.1} {
		err := Write(path, []int32{10, 399}, ets, states, 10, bad)
		var werr *WriteError
		if !errors.As(err, &werr) {
			t.Fatalf("fts=%g: error = %v, want *WriteError", bad, err)
		}
		var frac *BadFractionError
		if !errors.As(err, &frac) {
			t.Fatalf("fts=%g: error = %v, want to wrap *BadFractionError", bad, err)
		}
	}
	if _, err := os.Stat(path); err == nil {
		t.Fatal("Write should not have created a file after a validation error")
	}
}
