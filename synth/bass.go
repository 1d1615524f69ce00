package synth

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-edm/dsp"
)

// Bass synthesizes bass notes. Durations are in seconds, velocity in [0,1].
type Bass struct {
	cfg Config
	osc *dsp.Oscillator
}

func NewBass(cfg Config, rng *rand.Rand) *Bass {
	cfg = cfg.Sanitized()
	return &Bass{cfg: cfg, osc: dsp.NewOscillator(cfg.SampleRate, rng)}
}

// envelope builds an ADSR whose release fits inside duration.
func envelope(sr int, a, d, s, r, duration float64) []float64 {
	env := dsp.ADSR{Attack: a, Decay: d, Sustain: s, Release: r, SampleRate: sr}
	return env.Generate(duration, math.Max(duration-r, 0))
}

// Sub is a pure sine.
func (b *Bass) Sub(note int, duration, velocity float64) []float64 {
	x := b.osc.Generate(dsp.MIDIToFreq(float64(note)), duration, dsp.Sine, 0)
	dsp.Multiply(x, envelope(b.cfg.SampleRate, 0.01, 0.1, 0.8, 0.1, duration))
	return dsp.Scale(x, velocity)
}

// Saw averages three saws detuned by ±1%, low-passed by brightness and driven
// by the distortion amount.
func (b *Bass) Saw(note int, duration, velocity float64) []float64 {
	sr := b.cfg.SampleRate
	f := dsp.MIDIToFreq(float64(note))
	s1 := b.osc.Generate(f, duration, dsp.Saw, 0)
	s2 := b.osc.Generate(f*1.01, duration, dsp.Saw, 0)
	s3 := b.osc.Generate(f*0.99, duration, dsp.Saw, 0)
	x := make([]float64, len(s1))
	for i := range x {
		x[i] = (s1[i] + s2[i] + s3[i]) / 3
	}

	cutoff := 200 + 800*b.cfg.Brightness() + 300
	x = dsp.Lowpass(x, cutoff, sr, 4)
	dsp.Multiply(x, envelope(sr, 0.01, 0.15, 0.7, 0.15, duration))
	dsp.Scale(x, velocity)

	if dist := b.cfg.DistortionAmount(); dist > 0 {
		dsp.Tanh(x, 1+3*dist)
	}
	return dsp.Scale(x, 0.7)
}

// FM phase-modulates a sine carrier with a sine at twice its frequency.
// The modulation index decays from 3.
func (b *Bass) FM(note int, duration, velocity float64) []float64 {
	sr := b.cfg.SampleRate
	carrier := dsp.MIDIToFreq(float64(note))
	modulator := 2 * carrier
	n := dsp.NumSamples(sr, duration)
	index := dsp.ExpDecay(n, sr, 0.1)

	x := make([]float64, n)
	for i := range x {
		t := float64(i) / float64(sr)
		m := math.Sin(2 * math.Pi * modulator * t)
		x[i] = math.Sin(2*math.Pi*carrier*t + 3*index[i]*m)
	}
	dsp.Multiply(x, envelope(sr, 0.005, 0.1, 0.6, 0.1, duration))
	dsp.Scale(x, velocity)
	x = dsp.Lowpass(x, 800, sr, 4)
	return dsp.Scale(x, 0.7)
}
