package synth

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-edm/dsp"
	"github.com/cwbudde/algo-edm/pattern"
)

const drumHeadroom = 0.9

// Default hit lengths in seconds.
var drumDurations = [pattern.NumDrumTypes]float64{
	pattern.Kick:        0.5,
	pattern.Snare:       0.3,
	pattern.Clap:        0.2,
	pattern.HiHatClosed: 0.1,
	pattern.HiHatOpen:   0.4,
	pattern.Crash:       2.0,
	pattern.Ride:        1.0,
	pattern.TomHigh:     0.4,
	pattern.TomMid:      0.4,
	pattern.TomLow:      0.45,
	pattern.Percussion:  0.15,
}

var tomPitches = map[pattern.DrumType]float64{
	pattern.TomHigh: 55,
	pattern.TomMid:  50,
	pattern.TomLow:  45,
}

// Drums synthesizes one-shot drum sounds. Every voice is peak-normalized.
type Drums struct {
	cfg Config
	osc *dsp.Oscillator
}

func NewDrums(cfg Config, rng *rand.Rand) *Drums {
	cfg = cfg.Sanitized()
	return &Drums{cfg: cfg, osc: dsp.NewOscillator(cfg.SampleRate, rng)}
}

func (d *Drums) n(duration float64) int { return dsp.NumSamples(d.cfg.SampleRate, duration) }

// KickPitch is the MIDI pitch the kick settles on; higher energy tunes it lower.
func (d *Drums) KickPitch() float64 { return 55 - 10*d.cfg.Energy }

// Kick sweeps a sine from pitch+24 down to pitch with a short noise click.
func (d *Drums) Kick(duration, pitch float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	freqs := dsp.ExpSweep(n, sr, dsp.MIDIToFreq(pitch+24), dsp.MIDIToFreq(pitch), 0.04)
	kick := dsp.Multiply(dsp.SineSweep(freqs, sr), dsp.ExpDecay(n, sr, 0.1))

	click := dsp.Scale(d.osc.Noise(n), 0.1)
	click = dsp.Multiply(dsp.Lowpass(click, 200, sr, 4), dsp.ExpDecay(n, sr, 0.05))
	for i := range kick {
		kick[i] += click[i]
	}

	if dist := d.cfg.DistortionAmount(); dist > 0 {
		dsp.Tanh(kick, 1+2*dist)
	}
	return dsp.Normalize(kick, drumHeadroom)
}

// Snare blends 180 Hz and 330 Hz tones with band-passed noise.
func (d *Drums) Snare(duration float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	t1 := d.osc.Generate(180, duration, dsp.Sine, 0)
	t2 := d.osc.Generate(330, duration, dsp.Sine, 0)
	noise := dsp.Bandpass(d.osc.Noise(n), 2000, 8000, sr, 4)

	out := make([]float64, n)
	for i := range out {
		out[i] = 0.3*0.5*(t1[i]+t2[i]) + 0.7*noise[i]
	}
	dsp.Multiply(out, dsp.ExpDecay(n, sr, 0.1))
	return dsp.Normalize(out, drumHeadroom)
}

// HiHatClosed is short high-passed noise, darkened when brightness is low.
func (d *Drums) HiHatClosed(duration float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	hat := dsp.Multiply(dsp.Highpass(d.osc.Noise(n), 7000, sr, 4), dsp.ExpDecay(n, sr, 0.05))
	if d.cfg.Brightness() < 0.7 {
		hat = dsp.Lowpass(hat, 12000, sr, 4)
	}
	return dsp.Normalize(hat, drumHeadroom*0.6)
}

func (d *Drums) HiHatOpen(duration float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	hat := dsp.Multiply(dsp.Highpass(d.osc.Noise(n), 6000, sr, 4), dsp.ExpDecay(n, sr, 0.15))
	return dsp.Normalize(hat, drumHeadroom*0.5)
}

// Clap layers four band-passed noise bursts 10 ms apart.
func (d *Drums) Clap(duration float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	out := make([]float64, n)
	for _, delay := range [...]float64{0, 0.01, 0.02, 0.03} {
		start := int(delay * float64(sr))
		if start >= n {
			continue
		}
		burstLen := min(500, n-start)
		burst := dsp.Bandpass(d.osc.Noise(burstLen), 1000, 4000, sr, 4)
		dsp.AddAt(out, burst, start, 1)
	}
	dsp.Multiply(out, dsp.ExpDecay(n, sr, 0.08))
	return dsp.Normalize(out, drumHeadroom)
}

func (d *Drums) Crash(duration float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	c := dsp.Multiply(dsp.Highpass(d.osc.Noise(n), 3000, sr, 4), dsp.ExpDecay(n, sr, 0.6))
	return dsp.Normalize(c, drumHeadroom*0.4)
}

// Ride is bright noise with two inharmonic bell partials.
func (d *Drums) Ride(duration float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	noise := dsp.Highpass(d.osc.Noise(n), 5000, sr, 4)
	b1 := d.osc.Generate(3140, duration, dsp.Sine, 0)
	b2 := d.osc.Generate(5270, duration, dsp.Sine, 0)
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.6*noise[i] + 0.2*(b1[i]+b2[i])
	}
	dsp.Multiply(out, dsp.ExpDecay(n, sr, 0.8))
	return dsp.Normalize(out, drumHeadroom*0.35)
}

// Tom is a shallow pitch sweep from pitch+7 to pitch with a noise attack.
func (d *Drums) Tom(duration, pitch float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	freqs := dsp.ExpSweep(n, sr, dsp.MIDIToFreq(pitch+7), dsp.MIDIToFreq(pitch), 0.05)
	tom := dsp.Multiply(dsp.SineSweep(freqs, sr), dsp.ExpDecay(n, sr, 0.2))
	hit := dsp.Multiply(dsp.Lowpass(d.osc.Noise(n), 1500, sr, 2), dsp.ExpDecay(n, sr, 0.01))
	for i := range tom {
		tom[i] += 0.2 * hit[i]
	}
	return dsp.Normalize(tom, drumHeadroom*0.8)
}

// Percussion is a short woody blip.
func (d *Drums) Percussion(duration float64) []float64 {
	sr := d.cfg.SampleRate
	n := d.n(duration)
	tone := d.osc.Generate(620, duration, dsp.Triangle, 0)
	noise := dsp.Bandpass(d.osc.Noise(n), 800, 3000, sr, 2)
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.7*tone[i] + 0.3*noise[i]
	}
	dsp.Multiply(out, dsp.ExpDecay(n, sr, 0.04))
	return dsp.Normalize(out, drumHeadroom*0.5)
}

// Voice renders drum at its default length.
func (d *Drums) Voice(drum pattern.DrumType) []float64 {
	if !drum.Valid() {
		panic("synth: invalid drum type " + drum.String())
	}
	dur := drumDurations[drum]
	switch drum {
	case pattern.Kick:
		return d.Kick(dur, d.KickPitch())
	case pattern.Snare:
		return d.Snare(dur)
	case pattern.Clap:
		return d.Clap(dur)
	case pattern.HiHatClosed:
		return d.HiHatClosed(dur)
	case pattern.HiHatOpen:
		return d.HiHatOpen(dur)
	case pattern.Crash:
		return d.Crash(dur)
	case pattern.Ride:
		return d.Ride(dur)
	case pattern.TomHigh, pattern.TomMid, pattern.TomLow:
		return d.Tom(dur, tomPitches[drum])
	default:
		return d.Percussion(dur)
	}
}

// RenderPattern plays a one-bar pattern bars times. The result holds exactly
// bars × BarSeconds of audio; tails past the end are cut.
func (d *Drums) RenderPattern(p *pattern.Pattern, bars int) []float64 {
	return d.RenderPatternFunc(p, bars, nil)
}

// RenderPatternFunc is RenderPattern restricted to the drums keep accepts.
// A nil keep renders every drum.
func (d *Drums) RenderPatternFunc(p *pattern.Pattern, bars int, keep func(pattern.DrumType) bool) []float64 {
	if bars < 0 {
		bars = 0
	}
	sr := float64(d.cfg.SampleRate)
	bar := d.cfg.BarSeconds()
	out := make([]float64, d.n(float64(bars)*bar))
	if p == nil {
		return out
	}
	stepSeconds := bar / float64(p.Steps())
	hits := p.Hits()
	for b := 0; b < bars; b++ {
		for _, h := range hits {
			if keep != nil && !keep(h.Drum) {
				continue
			}
			at := float64(b)*bar + float64(h.Step)*stepSeconds
			offset := int(math.Floor(at * sr))
			if offset >= len(out) {
				continue
			}
			dsp.AddAt(out, d.Voice(h.Drum), offset, float64(h.Velocity)/127.0)
		}
	}
	return out
}
