package arrange

import (
	"math"

	"github.com/cwbudde/algo-edm/synth"
)

const (
	MinTempo = 130.0
	MaxTempo = 180.0
)

// ForceTempo maps a source tempo into the energetic range: below 100 BPM it is
// doubled, then clamped to [MinTempo, MaxTempo]. Unusable input gives MinTempo.
func ForceTempo(raw float64) float64 {
	if !(raw > 0) || math.IsInf(raw, 0) {
		return MinTempo
	}
	if raw < 100 {
		raw *= 2
	}
	return math.Max(MinTempo, math.Min(MaxTempo, raw))
}

// Floor for energy and danceability so every remix stays driving.
const remixFloor = 0.7

// SynthConfigFor derives the render configuration for d.
func SynthConfigFor(d Descriptors, opts Options) synth.Config {
	d = d.Sanitized()
	cfg := synth.Config{
		SampleRate:   opts.SampleRate,
		Tempo:        ForceTempo(d.Tempo),
		MasterVolume: opts.MasterVolume,
		Energy:       math.Max(remixFloor, d.Energy),
		Valence:      d.Valence,
		Danceability: math.Max(remixFloor, d.Danceability),
	}
	return cfg.Sanitized()
}
