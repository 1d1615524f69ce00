package dsp

import (
	"math"
	"math/rand"
	"testing"
)

func TestMIDIToFreqA4(t *testing.T) {
	if got := MIDIToFreq(69); got != 440 {
		t.Fatalf("MIDIToFreq(69) = %f, want 440", got)
	}
	if got := MIDIToFreq(81); math.Abs(got-880) > 1e-9 {
		t.Fatalf("MIDIToFreq(81) = %f, want 880", got)
	}
}

func TestNumSamples(t *testing.T) {
	cases := []struct {
		sr   int
		sec  float64
		want int
	}{
		{44100, 1, 44100},
		{44100, 0.5, 22050},
		{44100, 0, 0},
		{44100, -1, 0},
		{0, 1, 0},
		{44100, math.NaN(), 0},
	}
	for _, c := range cases {
		if got := NumSamples(c.sr, c.sec); got != c.want {
			t.Fatalf("NumSamples(%d, %f) = %d, want %d", c.sr, c.sec, got, c.want)
		}
	}
}

func TestNormalizeLeavesSilenceUntouched(t *testing.T) {
	x := make([]float64, 16)
	Normalize(x, 0.9)
	for i, v := range x {
		if v != 0 {
			t.Fatalf("sample %d = %f, want 0", i, v)
		}
	}

	y := []float64{0.1, -0.5, 0.25}
	Normalize(y, 0.9)
	if math.Abs(Peak(y)-0.9) > 1e-12 {
		t.Fatalf("peak after normalize = %f, want 0.9", Peak(y))
	}
}

func TestAddAtClipsToDestination(t *testing.T) {
	dst := make([]float64, 4)
	AddAt(dst, []float64{1, 1, 1}, 2, 0.5)
	want := []float64{0, 0, 0.5, 0.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %f, want %f", i, dst[i], want[i])
		}
	}
}

func TestOscillatorLengthsAndRange(t *testing.T) {
	osc := NewOscillator(44100, rand.New(rand.NewSource(1)))
	for _, w := range []Waveform{Sine, Square, Saw, Triangle, Noise} {
		x := osc.Generate(220, 0.25, w, 0)
		if len(x) != 11025 {
			t.Fatalf("%s: len = %d, want 11025", w, len(x))
		}
		for i, v := range x {
			if v < -1 || v > 1 {
				t.Fatalf("%s: sample %d = %f out of range", w, i, v)
			}
		}
	}
}

func TestOscillatorShapes(t *testing.T) {
	osc := NewOscillator(8, nil)
	sq := osc.Generate(1, 1, Square, 0)
	if sq[0] != 1 || sq[3] != 1 || sq[4] != -1 || sq[7] != -1 {
		t.Fatalf("unexpected square %v", sq)
	}
	saw := osc.Generate(1, 1, Saw, 0)
	if saw[0] != -1 || saw[4] != 0 {
		t.Fatalf("unexpected saw %v", saw)
	}
	tri := osc.Generate(1, 1, Triangle, 0)
	if tri[0] != -1 || tri[2] != 0 || tri[4] != 1 {
		t.Fatalf("unexpected triangle %v", tri)
	}
}

func TestNoiseIsSeeded(t *testing.T) {
	a := NewOscillator(44100, rand.New(rand.NewSource(42))).Generate(0, 0.01, Noise, 0)
	b := NewOscillator(44100, rand.New(rand.NewSource(42))).Generate(0, 0.01, Noise, 0)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise differs at %d", i)
		}
	}
}
