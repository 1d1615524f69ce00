package dsp

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

// ADSR is a piecewise-linear attack/decay/sustain/release envelope. Times are in seconds.
type ADSR struct {
	Attack     float64
	Decay      float64
	Sustain    float64
	Release    float64
	SampleRate int
}

// Generate returns NumSamples(total) envelope values. The note is held for the first
// note seconds, then released linearly from whatever level it had reached.
func (e ADSR) Generate(total, note float64) []float64 {
	n := NumSamples(e.SampleRate, total)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	a := NumSamples(e.SampleRate, e.Attack)
	d := NumSamples(e.SampleRate, e.Decay)
	r := NumSamples(e.SampleRate, e.Release)
	s := clamp(e.Sustain, 0, 1)

	held := NumSamples(e.SampleRate, note)
	if held > n {
		held = n
	}

	level := func(i int) float64 {
		switch {
		case i < a:
			return float64(i) / float64(a)
		case i < a+d:
			return 1 - (1-s)*float64(i-a)/float64(d)
		default:
			return s
		}
	}

	for i := 0; i < held; i++ {
		out[i] = level(i)
	}
	start := level(held)
	for i := held; i < n; i++ {
		j := i - held
		if j >= r {
			break
		}
		out[i] = start * (1 - float64(j)/float64(r))
	}
	for i := range out {
		out[i] = clamp(out[i], 0, 1)
	}
	return out
}

// ExpDecay returns exp(-t/tau) sampled for n samples.
func ExpDecay(n, sampleRate int, tau float64) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	if sampleRate <= 0 || tau <= 0 {
		if n > 0 {
			out[0] = 1
		}
		return out
	}
	k := 1.0 / (tau * float64(sampleRate))
	for i := range out {
		out[i] = fastExp(-float64(i) * k)
	}
	return out
}

// fastExp is exp(x) for x <= 0, flushed to zero below the float32 range.
func fastExp(x float64) float64 {
	if x < -80 {
		return 0
	}
	v := float64(approx.FastExp(float32(x)))
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// ExpSweep returns a frequency track decaying from start to end with time constant tau.
func ExpSweep(n, sampleRate int, start, end, tau float64) []float64 {
	env := ExpDecay(n, sampleRate, tau)
	for i := range env {
		env[i] = end + (start-end)*env[i]
	}
	return env
}

// Multiply multiplies x by env in place over their common length.
func Multiply(x, env []float64) []float64 {
	n := len(x)
	if len(env) < n {
		n = len(env)
	}
	for i := 0; i < n; i++ {
		x[i] *= env[i]
	}
	for i := n; i < len(x); i++ {
		x[i] = 0
	}
	return x
}
