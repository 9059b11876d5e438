package nbody

import (
	"math"
	"testing"
)

func TestDerivativeCopiesVelocityIntoPositionSlot(t *testing.T) {
	cfg := &Config{Mus: []float64{0, 0}}
	y := []float64{0, 0, 0, 1, 2, 3, 10, 0, 0, -1, 0, 0}
	dy, err := cfg.Derivative(0, y)
	if err != nil {
		t.Fatalf("Derivative: %v", err)
	}
	for i, want := range []float64{1, 2, 3} {
		if dy[i] != want {
			t.Fatalf("dy[%d] = %g, want %g", i, dy[i], want)
		}
	}
}

func TestDerivativeTwoBodyNewtonThirdLaw(t *testing.T) {
	mu1, mu2 := 1.0e10, 2.0e10
	cfg := &Config{Mus: []float64{mu1, mu2}}
	y := []float64{0, 0, 0, 0, 0, 0, 100, 0, 0, 0, 0, 0}
	dy, err := cfg.Derivative(0, y)
	if err != nil {
		t.Fatalf("Derivative: %v", err)
	}
	a1 := dy[3]
	a2 := dy[9]
	// body 1 accelerates toward body 2 (+x), body 2 toward body 1 (-x),
	// with magnitudes set by the other body's mu.
	wantA1 := mu2 / (100 * 100)
	wantA2 := -mu1 / (100 * 100)
	if math.Abs(a1-wantA1) > 1e-6 {
		t.Fatalf("a1 = %g, want %g", a1, wantA1)
	}
	if math.Abs(a2-wantA2) > 1e-6 {
		t.Fatalf("a2 = %g, want %g", a2, wantA2)
	}
}

func TestDerivativeSmallBodyExertsNoForce(t *testing.T) {
	mu1 := 1.0e10
	cfg := &Config{Mus: []float64{mu1, 0}}
	y := []float64{0, 0, 0, 0, 0, 0, 100, 0, 0, 0, 0, 0}
	dy, err := cfg.Derivative(0, y)
	if err != nil {
		t.Fatalf("Derivative: %v", err)
	}
	if dy[3] != 0 || dy[4] != 0 || dy[5] != 0 {
		t.Fatalf("full body acceleration from a small body = (%g %g %g), want zero", dy[3], dy[4], dy[5])
	}
	if dy[9] == 0 {
		t.Fatal("small body should still accelerate toward the full body")
	}
}

func TestDerivativeNoAttractorsLeavesBodyUnaccelerated(t *testing.T) {
	cfg := &Config{Mus: []float64{0}}
	y := []float64{0, 0, 0, 0, 0, 0}
	dy, err := cfg.Derivative(0, y)
	if err != nil {
		t.Fatalf("Derivative: %v", err)
	}
	for _, v := range dy[3:6] {
		if v != 0 {
			t.Fatalf("acceleration with no attractors = %v, want zero", dy[3:6])
		}
	}
}
