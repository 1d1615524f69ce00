package dsp

import "math"

// MIDIToFreq converts a (possibly fractional) MIDI note number to Hz, A4 = 69 = 440 Hz.
func MIDIToFreq(note float64) float64 {
	const a4Freq = 440.0
	const a4Note = 69.0
	return a4Freq * math.Pow(2, (note-a4Note)/12.0)
}

// NumSamples returns round(sampleRate * seconds), never negative.
func NumSamples(sampleRate int, seconds float64) int {
	if sampleRate <= 0 || !(seconds > 0) || math.IsInf(seconds, 0) {
		return 0
	}
	return int(math.Round(float64(sampleRate) * seconds))
}

// Peak returns the maximum absolute sample value.
func Peak(x []float64) float64 {
	var peak float64
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Normalize scales x in place so its peak equals headroom. Silent buffers are left untouched.
func Normalize(x []float64, headroom float64) []float64 {
	peak := Peak(x)
	if peak <= 0 {
		return x
	}
	g := headroom / peak
	for i := range x {
		x[i] *= g
	}
	return x
}

// Scale multiplies x in place by g.
func Scale(x []float64, g float64) []float64 {
	for i := range x {
		x[i] *= g
	}
	return x
}

// Tanh applies tanh(drive*x) in place.
func Tanh(x []float64, drive float64) []float64 {
	for i := range x {
		x[i] = math.Tanh(x[i] * drive)
	}
	return x
}

// AddAt mixes src into dst starting at offset, clipping at the end of dst.
func AddAt(dst []float64, src []float64, offset int, gain float64) {
	if offset >= len(dst) {
		return
	}
	start := 0
	if offset < 0 {
		start = -offset
		offset = 0
	}
	n := len(src) - start
	if offset+n > len(dst) {
		n = len(dst) - offset
	}
	for i := 0; i < n; i++ {
		dst[offset+i] += src[start+i] * gain
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
