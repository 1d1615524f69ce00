package dsp

import (
	"math"
	"testing"
)

func sine(freq float64, sr, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sr))
	}
	return x
}

func rms(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s / float64(len(x)))
}

func TestLowpassPassesDC(t *testing.T) {
	const sr = 44100
	x := make([]float64, sr)
	for i := range x {
		x[i] = 0.5
	}
	y := Lowpass(x, 1000, sr, 4)
	if len(y) != len(x) {
		t.Fatalf("len = %d, want %d", len(y), len(x))
	}
	for i := sr / 4; i < 3*sr/4; i++ {
		if math.Abs(y[i]-0.5) > 1e-3 {
			t.Fatalf("y[%d] = %f, want 0.5", i, y[i])
		}
	}
}

func TestFilterEdgesSettleOnConstantInput(t *testing.T) {
	const sr = 44100
	const n = 4410
	x := make([]float64, n)
	for i := range x {
		x[i] = 1
	}
	for _, order := range []int{1, 2, 3, 4} {
		lp := Lowpass(x, 100, sr, order)
		for _, i := range []int{0, 1, 100, n - 1} {
			if math.Abs(lp[i]-1) > 1e-6 {
				t.Fatalf("order %d: lowpass y[%d] = %f, want 1", order, i, lp[i])
			}
		}
		hp := Highpass(x, 100, sr, order)
		for _, i := range []int{0, 1, 100, n - 1} {
			if math.Abs(hp[i]) > 1e-6 {
				t.Fatalf("order %d: highpass y[%d] = %f, want 0", order, i, hp[i])
			}
		}
	}
}

func TestSteadyStateHoldsConstantOutput(t *testing.T) {
	coeffs := butterworth(lowpassKind, 500, 8000, 3)
	x := []float64{0.25, 0.25, 0.25, 0.25}
	runPass(coeffs, x)
	for i, v := range x {
		if math.Abs(v-0.25) > 1e-9 {
			t.Fatalf("y[%d] = %f, want 0.25", i, v)
		}
	}
}

func TestLowpassAttenuatesHighs(t *testing.T) {
	const sr = 44100
	x := sine(8000, sr, sr/2)
	y := Lowpass(x, 500, sr, 4)
	if r := rms(y[1000 : len(y)-1000]); r > 0.01 {
		t.Fatalf("8 kHz through 500 Hz lowpass rms = %f", r)
	}
}

func TestHighpassBlocksDCAndPassesHighs(t *testing.T) {
	const sr = 44100
	dc := make([]float64, sr/2)
	for i := range dc {
		dc[i] = 1
	}
	y := Highpass(dc, 1000, sr, 2)
	if r := rms(y[2000 : len(y)-2000]); r > 1e-3 {
		t.Fatalf("DC through highpass rms = %f", r)
	}

	x := sine(8000, sr, sr/2)
	y = Highpass(x, 500, sr, 3)
	if r := rms(y[1000 : len(y)-1000]); math.Abs(r-math.Sqrt(0.5)) > 0.02 {
		t.Fatalf("8 kHz through 500 Hz highpass rms = %f", r)
	}
}

func TestBandpassKeepsCenter(t *testing.T) {
	const sr = 44100
	in := sine(2000, sr, sr/2)
	out := Bandpass(in, 500, 8000, sr, 2)
	if r := rms(out[1000 : len(out)-1000]); r < 0.6 {
		t.Fatalf("in-band rms = %f", r)
	}
	low := Bandpass(sine(50, sr, sr/2), 500, 8000, sr, 2)
	if r := rms(low[2000 : len(low)-2000]); r > 0.05 {
		t.Fatalf("out-of-band rms = %f", r)
	}
}

func TestFilterShortInputs(t *testing.T) {
	if y := Lowpass(nil, 100, 44100, 4); len(y) != 0 {
		t.Fatalf("empty input produced %d samples", len(y))
	}
	if y := Lowpass([]float64{1}, 100, 44100, 4); len(y) != 1 {
		t.Fatalf("single sample produced %d samples", len(y))
	}
}
