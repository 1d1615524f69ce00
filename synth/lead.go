package synth

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-edm/dsp"
)

// Detune offsets of the supersaw voices, in semitones.
var supersawDetune = [...]float64{-0.15, -0.10, -0.05, 0, 0.05, 0.10, 0.15}

// Lead synthesizes melodic notes.
type Lead struct {
	cfg Config
	osc *dsp.Oscillator
}

func NewLead(cfg Config, rng *rand.Rand) *Lead {
	cfg = cfg.Sanitized()
	return &Lead{cfg: cfg, osc: dsp.NewOscillator(cfg.SampleRate, rng)}
}

// Supersaw averages seven detuned saws, cleans the lows and opens the top
// with brightness.
func (l *Lead) Supersaw(note int, duration, velocity float64) []float64 {
	sr := l.cfg.SampleRate
	f := dsp.MIDIToFreq(float64(note))
	x := make([]float64, dsp.NumSamples(sr, duration))
	for _, detune := range supersawDetune {
		saw := l.osc.Generate(f*math.Pow(2, detune/12), duration, dsp.Saw, 0)
		for i := range x {
			x[i] += saw[i] / float64(len(supersawDetune))
		}
	}
	dsp.Multiply(x, envelope(sr, 0.02, 0.2, 0.8, 0.3, duration))
	dsp.Scale(x, velocity)

	x = dsp.Highpass(x, 100, sr, 4)
	x = dsp.Lowpass(x, 2000+6000*l.cfg.Brightness(), sr, 4)
	return dsp.Scale(x, 0.6)
}

// Pluck low-passes a single period of noise at four times the fundamental
// under a long decay.
func (l *Lead) Pluck(note int, duration, velocity float64) []float64 {
	sr := l.cfg.SampleRate
	f := dsp.MIDIToFreq(float64(note))
	n := dsp.NumSamples(sr, duration)
	x := make([]float64, n)
	burst := l.osc.Noise(min(int(float64(sr)/f), n))
	copy(x, burst)

	x = dsp.Lowpass(x, 4*f, sr, 4)
	dsp.Multiply(x, dsp.ExpDecay(n, sr, 0.5))
	dsp.Scale(x, velocity)
	return dsp.Scale(x, 0.5)
}

// Arp is a square wave held for at most 150 ms, band-passed between 500 Hz and 4 kHz.
func (l *Lead) Arp(note int, duration, velocity float64) []float64 {
	sr := l.cfg.SampleRate
	x := l.osc.Generate(dsp.MIDIToFreq(float64(note)), duration, dsp.Square, 0)
	env := dsp.ADSR{Attack: 0.001, Decay: 0.05, Sustain: 0.3, Release: 0.05, SampleRate: sr}
	held := math.Min(math.Max(duration-env.Release, 0), 0.15)
	dsp.Multiply(x, env.Generate(duration, held))
	dsp.Scale(x, velocity)
	x = dsp.Bandpass(x, 500, 4000, sr, 4)
	return dsp.Scale(x, 0.5)
}
