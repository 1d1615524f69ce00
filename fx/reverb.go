// Package fx holds the offline effects and the mix bus.
package fx

import (
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	dspdelay "github.com/cwbudde/algo-dsp/dsp/delay"

	"github.com/cwbudde/algo-edm/dsp"
)

// Comb delay times in seconds at RoomSize 1.
var combDelays = [...]float64{0.037, 0.041, 0.043, 0.047}

// Reverb is a parallel comb-filter reverb. All parameters are in [0,1].
type Reverb struct {
	RoomSize float64
	Damping  float64
	Wet      float64
}

func DefaultReverb() Reverb {
	return Reverb{RoomSize: 0.5, Damping: 0.5, Wet: 0.3}
}

// Process returns a new buffer of len(x) samples.
func (r Reverb) Process(x []float64, sampleRate int) []float64 {
	room := clamp01(r.RoomSize)
	wet := clamp01(r.Wet)
	damping := clamp01(r.Damping)
	feedback := 0.7 * room

	tail := make([]float64, len(x))
	for _, delay := range combDelays {
		comb := combFilter(x, max(1, int(delay*float64(sampleRate)*room)), feedback)
		if damping > 0 {
			comb = dsp.Lowpass(comb, 20000*(1-damping), sampleRate, 2)
		}
		for i, v := range comb {
			tail[i] += v / float64(len(combDelays))
		}
	}

	out := make([]float64, len(x))
	for i := range out {
		out[i] = x[i]*(1-wet) + tail[i]*wet
	}
	return out
}

// combFilter computes y[n] = x[n-d] + g·y[n-d].
func combFilter(x []float64, d int, g float64) []float64 {
	line, err := dspdelay.New(d)
	if err != nil {
		panic(err)
	}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = line.Read(d)
		line.Write(dspcore.FlushDenormals(v + g*y[i]))
	}
	return y
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
