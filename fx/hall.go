package fx

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/effects"
)

// Hall is a mono Freeverb-style room used for master air.
type Hall struct {
	RoomSize float64
	Damping  float64
	Wet      float64
	Dry      float64
	Gain     float64
}

func DefaultHall() Hall {
	return Hall{RoomSize: 0.4, Damping: 0.45, Wet: 0.15, Dry: 0.85, Gain: 0.015}
}

// Process returns a new buffer. The reverb state starts empty for every call.
func (h Hall) Process(x []float64) []float64 {
	rv := effects.NewReverb()
	rv.SetRoomSize(clamp(h.RoomSize, 0, 0.98))
	rv.SetDamp(clamp(h.Damping, 0, 0.99))
	rv.SetWet(clamp(h.Wet, 0, 1.5))
	rv.SetDry(clamp(h.Dry, 0, 1.5))
	rv.SetGain(clamp(h.Gain, 0, 0.1))

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = rv.ProcessSample(v)
	}
	return out
}

// Chorus widens a lead with a short modulated delay. Depth is in seconds.
type Chorus struct {
	Mix     float64
	Depth   float64
	SpeedHz float64
	Stages  int
}

func DefaultChorus() Chorus {
	return Chorus{Mix: 0.18, Depth: 0.003, SpeedHz: 0.35, Stages: 3}
}

// Process returns a new buffer, or an error when the settings are rejected.
func (c Chorus) Process(x []float64, sampleRate int) ([]float64, error) {
	ch, err := effects.NewChorus()
	if err != nil {
		return nil, fmt.Errorf("chorus: %w", err)
	}
	stages := c.Stages
	if stages < 1 {
		stages = 1
	}
	if stages > 6 {
		stages = 6
	}
	if err := ch.SetSampleRate(float64(sampleRate)); err != nil {
		return nil, fmt.Errorf("chorus sample rate: %w", err)
	}
	if err := ch.SetMix(clamp(c.Mix, 0, 1)); err != nil {
		return nil, fmt.Errorf("chorus mix: %w", err)
	}
	if err := ch.SetDepth(clamp(c.Depth, 0, 0.01)); err != nil {
		return nil, fmt.Errorf("chorus depth: %w", err)
	}
	if err := ch.SetSpeedHz(clamp(c.SpeedHz, 0.05, 5)); err != nil {
		return nil, fmt.Errorf("chorus speed: %w", err)
	}
	if err := ch.SetStages(stages); err != nil {
		return nil, fmt.Errorf("chorus stages: %w", err)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = ch.ProcessSample(v)
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || v != v {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
