// Package arrange turns musical descriptors into a 16-bar intro, build and
// drop arrangement and renders it to audio.
package arrange

import "math"

// Descriptors are the catalog features of a source track. Energy, Danceability,
// Valence, Acousticness, Instrumentalness and Speechiness are in [0,1];
// Loudness is in dB.
type Descriptors struct {
	Tempo            float64
	Key              int
	Mode             int
	Energy           float64
	Danceability     float64
	Valence          float64
	Acousticness     float64
	Instrumentalness float64
	Speechiness      float64
	Loudness         float64

	TrackName string
	Artist    string
}

// DefaultDescriptors is a mid-tempo major track in C.
func DefaultDescriptors() Descriptors {
	return Descriptors{
		Tempo:        128,
		Key:          0,
		Mode:         1,
		Energy:       0.8,
		Danceability: 0.75,
		Valence:      0.6,
		Loudness:     -6,
	}
}

// Sanitized clamps every normalized feature into [0,1] and wraps Key into 0..11.
// Only Mode 1 is major; every other value becomes 0. NaN features become 0.
func (d Descriptors) Sanitized() Descriptors {
	d.Energy = unit(d.Energy)
	d.Danceability = unit(d.Danceability)
	d.Valence = unit(d.Valence)
	d.Acousticness = unit(d.Acousticness)
	d.Instrumentalness = unit(d.Instrumentalness)
	d.Speechiness = unit(d.Speechiness)
	if math.IsNaN(d.Loudness) || math.IsInf(d.Loudness, 0) {
		d.Loudness = 0
	}
	d.Key = ((d.Key % 12) + 12) % 12
	if d.Mode != 1 {
		d.Mode = 0
	}
	return d
}

func unit(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
