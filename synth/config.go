// Package synth renders drum, bass and lead voices from patterns and note lists.
package synth

import (
	"fmt"
	"math"
)

// Config is the per-render synthesis configuration. Energy, Valence and
// Danceability are normalized descriptor values in [0,1].
type Config struct {
	SampleRate   int
	Tempo        float64
	MasterVolume float64
	Energy       float64
	Valence      float64
	Danceability float64
}

func DefaultConfig() Config {
	return Config{
		SampleRate:   44100,
		Tempo:        128,
		MasterVolume: 0.8,
		Energy:       0.7,
		Valence:      0.6,
		Danceability: 0.8,
	}
}

// Validate reports settings that cannot be rendered at all.
func (c *Config) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if !(c.Tempo > 0) || math.IsInf(c.Tempo, 0) {
		return fmt.Errorf("tempo must be > 0")
	}
	return nil
}

// Sanitized returns a copy with every field forced into its usable range.
func (c Config) Sanitized() Config {
	d := DefaultConfig()
	if c.SampleRate < 8000 {
		c.SampleRate = d.SampleRate
	}
	if !(c.Tempo > 0) || math.IsInf(c.Tempo, 0) {
		c.Tempo = d.Tempo
	}
	c.MasterVolume = unit(c.MasterVolume, d.MasterVolume)
	c.Energy = unit(c.Energy, d.Energy)
	c.Valence = unit(c.Valence, d.Valence)
	c.Danceability = unit(c.Danceability, d.Danceability)
	return c
}

// unit clamps v into [0,1]; NaN falls back to def.
func unit(v, def float64) float64 {
	switch {
	case math.IsNaN(v):
		return def
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Brightness biases filter cutoffs, 0.3 to 1.0.
func (c Config) Brightness() float64 { return 0.3 + 0.7*c.Valence }

// DistortionAmount drives the soft clipping of kick and saw bass.
func (c Config) DistortionAmount() float64 { return 0.5 * c.Energy }

// SidechainStrength scales kick-keyed ducking on the mix bus.
func (c Config) SidechainStrength() float64 { return 0.7 * c.Danceability }

func (c Config) BeatSeconds() float64 { return 60.0 / c.Tempo }

func (c Config) BarSeconds() float64 { return 4 * c.BeatSeconds() }
