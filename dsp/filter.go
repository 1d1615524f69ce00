package dsp

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

type filterKind int

const (
	lowpassKind filterKind = iota
	highpassKind
)

// butterworth designs the section coefficients for one cascade.
// The cutoff is kept strictly inside (0, Nyquist).
func butterworth(kind filterKind, cutoff float64, sampleRate, order int) []biquad.Coefficients {
	sr := float64(sampleRate)
	nyq := sr / 2
	cutoff = clamp(cutoff/nyq, 0.001, 0.999) * nyq
	if order < 1 {
		order = 1
	}
	if kind == highpassKind {
		return design.ButterworthHP(cutoff, order, sr)
	}
	return design.ButterworthLP(cutoff, order, sr)
}

// steadyState returns the per-section DF-II-T states of a cascade that has
// settled on the constant input x0.
func steadyState(coeffs []biquad.Coefficients, x0 float64) [][2]float64 {
	states := make([][2]float64, len(coeffs))
	in := x0
	for i, c := range coeffs {
		den := 1 + c.A1 + c.A2
		var g float64
		if den != 0 {
			g = (c.B0 + c.B1 + c.B2) / den
		}
		states[i] = [2]float64{in * (g - c.B0), in * (c.B2 - c.A2*g)}
		in *= g
	}
	return states
}

// runPass filters x in place with the cascade primed at steady state for x[0].
func runPass(coeffs []biquad.Coefficients, x []float64) {
	chain := biquad.NewChain(coeffs)
	chain.SetState(steadyState(coeffs, x[0]))
	chain.ProcessBlock(x)
}

// filtfilt runs the cascade forward and backward over an odd-extended copy of x,
// which cancels the phase response and doubles the attenuation. Both passes start
// settled on their first sample so constant input passes without edge transients.
func filtfilt(x []float64, order int, coeffs []biquad.Coefficients) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}
	pad := 3 * (max(order, 1) + 1)
	if pad > n-1 {
		pad = n - 1
	}

	ext := make([]float64, n+2*pad)
	for i := 0; i < pad; i++ {
		ext[i] = 2*x[0] - x[pad-i]
		ext[pad+n+i] = 2*x[n-1] - x[n-2-i]
	}
	copy(ext[pad:], x)

	runPass(coeffs, ext)
	reverse(ext)
	runPass(coeffs, ext)
	reverse(ext)

	out := make([]float64, n)
	copy(out, ext[pad:pad+n])
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}

// Lowpass applies a zero-phase Butterworth low-pass and returns a new buffer.
func Lowpass(x []float64, cutoff float64, sampleRate, order int) []float64 {
	return filtfilt(x, order, butterworth(lowpassKind, cutoff, sampleRate, order))
}

// Highpass applies a zero-phase Butterworth high-pass and returns a new buffer.
func Highpass(x []float64, cutoff float64, sampleRate, order int) []float64 {
	return filtfilt(x, order, butterworth(highpassKind, cutoff, sampleRate, order))
}

// Bandpass is a high-pass at low followed by a low-pass at high.
func Bandpass(x []float64, low, high float64, sampleRate, order int) []float64 {
	if high < low {
		low, high = high, low
	}
	return Lowpass(Highpass(x, low, sampleRate, order), high, sampleRate, order)
}
