package fx

import (
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	dspdelay "github.com/cwbudde/algo-dsp/dsp/delay"
)

// Delay is a single feedback echo. Time is in seconds.
type Delay struct {
	Time     float64
	Feedback float64
	Wet      float64
}

func DefaultDelay() Delay {
	return Delay{Time: 0.25, Feedback: 0.4, Wet: 0.3}
}

// Process returns x·(1-wet) + y·wet where y[n] = x[n] + feedback·y[n-d].
func (d Delay) Process(x []float64, sampleRate int) []float64 {
	wet := clamp01(d.Wet)
	fb := d.Feedback
	if fb > 0.95 {
		fb = 0.95
	}
	if fb < 0 {
		fb = 0
	}
	samples := max(1, int(d.Time*float64(sampleRate)))

	line, err := dspdelay.New(samples)
	if err != nil {
		panic(err)
	}
	out := make([]float64, len(x))
	for i, v := range x {
		y := dspcore.FlushDenormals(v + fb*line.Read(samples))
		line.Write(y)
		out[i] = v*(1-wet) + y*wet
	}
	return out
}
