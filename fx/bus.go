package fx

import "github.com/cwbudde/algo-edm/dsp"

// Track is one named stem handed to the bus.
type Track struct {
	Name    string
	Samples []float64
	// Weight is used by MixDown only.
	Weight float64
}

// Bus sums tracks at per-name levels, compresses, applies master volume,
// optional hall, then soft-limits to ±Ceiling.
type Bus struct {
	SampleRate   int
	Levels       map[string]float64
	DefaultLevel float64
	Compressor   Compressor
	MasterVolume float64
	Hall         *Hall
	Drive        float64
	Ceiling      float64
}

// DefaultBus returns the standard EDM bus with the kick pushed above the rest.
func DefaultBus(sampleRate int, masterVolume float64) *Bus {
	return &Bus{
		SampleRate: sampleRate,
		Levels: map[string]float64{
			"drums": 1.0,
			"bass":  0.8,
			"lead":  0.7,
			"kick":  1.2,
		},
		DefaultLevel: 0.8,
		Compressor:   Compressor{Threshold: 0.6, Ratio: 4, Attack: 0.005, Release: 0.1},
		MasterVolume: clamp01(masterVolume),
		Drive:        1.2,
		Ceiling:      0.9,
	}
}

func (b *Bus) level(name string) float64 {
	if l, ok := b.Levels[name]; ok {
		return l
	}
	return b.DefaultLevel
}

// Mix zero-pads every track to the longest one and sums them in the given
// order. No tracks yields an empty buffer.
func (b *Bus) Mix(tracks []Track) []float64 {
	n := longest(tracks)
	if n == 0 {
		return []float64{}
	}
	mixed := make([]float64, n)
	for _, t := range tracks {
		dsp.AddAt(mixed, t.Samples, 0, b.level(t.Name))
	}

	mixed = b.Compressor.Process(mixed, b.SampleRate)
	dsp.Scale(mixed, b.MasterVolume)
	if b.Hall != nil {
		mixed = b.Hall.Process(mixed)
	}
	return SoftLimit(mixed, b.Drive, b.Ceiling)
}

// MixDown is a plain weighted sum of zero-padded tracks.
func MixDown(tracks []Track) []float64 {
	mixed := make([]float64, longest(tracks))
	for _, t := range tracks {
		dsp.AddAt(mixed, t.Samples, 0, t.Weight)
	}
	return mixed
}

func longest(tracks []Track) int {
	n := 0
	for _, t := range tracks {
		if len(t.Samples) > n {
			n = len(t.Samples)
		}
	}
	return n
}
