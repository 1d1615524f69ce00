package dsp

import (
	"math"
	"math/rand"
)

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Saw
	Triangle
	Noise
)

var waveformNames = [...]string{"sine", "square", "saw", "triangle", "noise"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return "unknown"
	}
	return waveformNames[w]
}

// Oscillator generates basic waveforms at a fixed sample rate.
// Noise is drawn from rng so renders stay reproducible for a given seed.
type Oscillator struct {
	SampleRate int
	rng        *rand.Rand
}

// NewOscillator creates an oscillator. A nil rng is replaced by a zero-seeded source.
func NewOscillator(sampleRate int, rng *rand.Rand) *Oscillator {
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	return &Oscillator{SampleRate: sampleRate, rng: rng}
}

// Generate returns NumSamples(SampleRate, duration) samples of the waveform.
// Phase is in radians. Square, saw and triangle are not band-limited.
func (o *Oscillator) Generate(freq, duration float64, w Waveform, phase float64) []float64 {
	n := NumSamples(o.SampleRate, duration)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if w == Noise {
		for i := range out {
			out[i] = o.rng.Float64()*2 - 1
		}
		return out
	}

	sr := float64(o.SampleRate)
	for i := range out {
		t := float64(i) / sr
		arg := 2*math.Pi*freq*t + phase
		switch w {
		case Sine:
			out[i] = math.Sin(arg)
		case Square:
			if cycle(arg) < 0.5 {
				out[i] = 1
			} else {
				out[i] = -1
			}
		case Saw:
			out[i] = 2*cycle(arg) - 1
		case Triangle:
			c := cycle(arg)
			if c < 0.5 {
				out[i] = -1 + 4*c
			} else {
				out[i] = 3 - 4*c
			}
		}
	}
	return out
}

// Noise returns n uniform samples in [-1, 1).
func (o *Oscillator) Noise(n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = o.rng.Float64()*2 - 1
	}
	return out
}

// cycle maps a phase in radians to its position within one period, in [0, 1).
func cycle(arg float64) float64 {
	c := math.Mod(arg/(2*math.Pi), 1)
	if c < 0 {
		c += 1
	}
	return c
}

// SineSweep integrates an instantaneous frequency track (Hz per sample) into a sine.
func SineSweep(freqs []float64, sampleRate int) []float64 {
	out := make([]float64, len(freqs))
	if sampleRate <= 0 {
		return out
	}
	step := 2 * math.Pi / float64(sampleRate)
	var phase float64
	for i, f := range freqs {
		phase += f * step
		out[i] = math.Sin(phase)
	}
	return out
}
