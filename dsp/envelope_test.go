package dsp

import (
	"math"
	"testing"
)

func TestADSRLengthAndRange(t *testing.T) {
	env := ADSR{Attack: 0.01, Decay: 0.1, Sustain: 0.7, Release: 0.15, SampleRate: 44100}
	x := env.Generate(0.5, 0.35)
	if len(x) != NumSamples(44100, 0.5) {
		t.Fatalf("len = %d, want %d", len(x), NumSamples(44100, 0.5))
	}
	for i, v := range x {
		if v < 0 || v > 1 {
			t.Fatalf("sample %d = %f outside [0,1]", i, v)
		}
	}
	if x[0] != 0 {
		t.Fatalf("envelope should start at 0, got %f", x[0])
	}
	peakIdx := NumSamples(44100, 0.01)
	if math.Abs(x[peakIdx]-1) > 1e-9 {
		t.Fatalf("envelope at end of attack = %f, want 1", x[peakIdx])
	}
	sustainIdx := NumSamples(44100, 0.2)
	if math.Abs(x[sustainIdx]-0.7) > 1e-9 {
		t.Fatalf("sustain level = %f, want 0.7", x[sustainIdx])
	}
	if x[len(x)-1] > 0.01 {
		t.Fatalf("envelope should be released by the end, got %f", x[len(x)-1])
	}
}

func TestADSRReleaseBeforeSustain(t *testing.T) {
	env := ADSR{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1, SampleRate: 1000}
	x := env.Generate(0.15, 0.05)
	// Released halfway up the attack ramp.
	if math.Abs(x[50]-0.5) > 1e-9 {
		t.Fatalf("release start = %f, want 0.5", x[50])
	}
	for i := 51; i < len(x); i++ {
		if x[i] > x[i-1] {
			t.Fatalf("release must not rise: x[%d]=%f > x[%d]=%f", i, x[i], i-1, x[i-1])
		}
	}
}

func TestExpDecayMonotonic(t *testing.T) {
	x := ExpDecay(4410, 44100, 0.05)
	if math.Abs(x[0]-1) > 1e-3 {
		t.Fatalf("ExpDecay[0] = %f, want 1", x[0])
	}
	idx := NumSamples(44100, 0.05)
	if math.Abs(x[idx]-math.Exp(-1)) > 0.01 {
		t.Fatalf("ExpDecay at tau = %f, want %f", x[idx], math.Exp(-1))
	}
	for i := 1; i < len(x); i++ {
		if x[i] > x[i-1]+1e-6 {
			t.Fatalf("decay rises at %d", i)
		}
	}
}
