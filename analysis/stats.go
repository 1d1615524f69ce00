package analysis

import "math"

// Stats summarizes the level of a rendered buffer.
type Stats struct {
	DurationSec float64 `json:"duration_sec"`
	Peak        float64 `json:"peak"`
	RMS         float64 `json:"rms"`
	PeakDB      float64 `json:"peak_db"`
	RMSDB       float64 `json:"rms_db"`
	CrestDB     float64 `json:"crest_db"`
	// Clipped counts samples at or above full scale.
	Clipped int `json:"clipped"`
}

// Measure computes Stats for x at sampleRate.
func Measure(x []float64, sampleRate int) Stats {
	var s Stats
	if sampleRate > 0 {
		s.DurationSec = float64(len(x)) / float64(sampleRate)
	}
	for _, v := range x {
		a := math.Abs(v)
		if a > s.Peak {
			s.Peak = a
		}
		if a >= 1 {
			s.Clipped++
		}
	}
	s.RMS = rms1(x)
	s.PeakDB = linToDB(s.Peak)
	s.RMSDB = linToDB(s.RMS)
	if s.RMS > 0 {
		s.CrestDB = s.PeakDB - s.RMSDB
	}
	return s
}

// SectionRMS returns the RMS level of consecutive sections of x, each
// bars[i] bars long. Sections running past the end of x are truncated;
// sections starting after it are 0.
func SectionRMS(x []float64, sampleRate int, barSeconds float64, bars []int) []float64 {
	out := make([]float64, len(bars))
	if sampleRate <= 0 || barSeconds <= 0 {
		return out
	}
	barLen := barSeconds * float64(sampleRate)
	startBar := 0
	for i, b := range bars {
		start := int(math.Floor(float64(startBar) * barLen))
		end := int(math.Floor(float64(startBar+b) * barLen))
		startBar += b
		if start >= len(x) || end <= start {
			continue
		}
		end = min(end, len(x))
		out[i] = rms1(x[start:end])
	}
	return out
}
