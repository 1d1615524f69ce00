package fx

import "math"

// Distortion is normalized tanh soft clipping. Amount sets the drive from 1 to 10.
type Distortion struct {
	Amount float64
	Mix    float64
}

func (d Distortion) Process(x []float64) []float64 {
	gain := 1 + 9*clamp01(d.Amount)
	mix := clamp01(d.Mix)
	norm := math.Tanh(gain)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*(1-mix) + math.Tanh(v*gain)/norm*mix
	}
	return out
}

// SoftLimit applies tanh(drive·x)·ceiling, keeping every sample inside ±ceiling.
func SoftLimit(x []float64, drive, ceiling float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Tanh(v*drive) * ceiling
	}
	return out
}
