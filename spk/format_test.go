package spk

import "testing"

func TestDownsampleStepKeepsEverySample(t *testing.T) {
	if step := DownsampleStep(1.0); step != 1 {
		t.Fatalf("DownsampleStep(1.0) = %d, want 1", step)
	}
}

func TestDownsampleStepHalvesSamples(t *testing.T) {
	if step := DownsampleStep(0.5); step != 2 {
		t.Fatalf("DownsampleStep(0.5) = %d, want 2", step)
	}
}

func TestDownsampleStepNearOneKeepsEverySample(t *testing.T) {
	// floor(1/0.9) == 1, so a fraction-to-save just under 1.0 still keeps
	// every sample rather than dropping one in ten.
	if step := DownsampleStep(0.9); step != 1 {
		t.Fatalf("DownsampleStep(0.9) = %d, want 1", step)
	}
}

func TestDownsampleKeepsFirstSample(t *testing.T) {
	ets := []float64{0, 1, 2, 3, 4, 5}
	states := make([][]float64, len(ets))
	for i := range states {
		states[i] = []float64{float64(i)}
	}
	outETs, outStates := Downsample(ets, states, 2)
	wantETs := []float64{0, 2, 4}
	if len(outETs) != len(wantETs) {
		t.Fatalf("len(outETs) = %d, want %d", len(outETs), len(wantETs))
	}
	for i, want := range wantETs {
		if outETs[i] != want {
			t.Fatalf("outETs[%d] = %g, want %g", i, outETs[i], want)
		}
		if outStates[i][0] != want {
			t.Fatalf("outStates[%d][0] = %g, want %g", i, outStates[i][0], want)
		}
	}
}
