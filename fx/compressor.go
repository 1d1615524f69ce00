package fx

import "math"

// Compressor is a feed-forward peak compressor. Threshold is linear amplitude,
// Attack and Release are in seconds.
type Compressor struct {
	Threshold float64
	Ratio     float64
	Attack    float64
	Release   float64
}

func DefaultCompressor() Compressor {
	return Compressor{Threshold: 0.5, Ratio: 4, Attack: 0.005, Release: 0.1}
}

func coefficient(seconds float64, sampleRate int) float64 {
	n := seconds * float64(sampleRate)
	if n <= 0 {
		return 0
	}
	return math.Exp(-1 / n)
}

// Process reduces everything above Threshold by Ratio.
func (c Compressor) Process(x []float64, sampleRate int) []float64 {
	ratio := math.Max(c.Ratio, 1)
	attack := coefficient(c.Attack, sampleRate)
	release := coefficient(c.Release, sampleRate)

	out := make([]float64, len(x))
	var env float64
	for i, v := range x {
		a := math.Abs(v)
		coeff := release
		if a > env {
			coeff = attack
		}
		env = coeff*env + (1-coeff)*a

		g := 1.0
		if env > c.Threshold && env > 0 {
			g = (c.Threshold + (env-c.Threshold)/ratio) / env
		}
		out[i] = v * g
	}
	return out
}
