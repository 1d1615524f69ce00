package fx

import "math"

// Sidechain ducks a target whenever a trigger's envelope crosses Threshold.
// Attack and Release are gain smoothing times in seconds.
type Sidechain struct {
	Threshold float64
	Ratio     float64
	Attack    float64
	Release   float64
}

// Floor on the ducked gain.
const minSidechainGain = 0.1

// Release time of the trigger envelope follower.
const triggerRelease = 0.01

// SidechainForStrength maps a strength in [0,1] to a kick-keyed setting,
// ratio 2:1 to 10:1.
func SidechainForStrength(strength float64) Sidechain {
	return Sidechain{
		Threshold: 0.2,
		Ratio:     2 + 8*clamp01(strength),
		Attack:    0.005,
		Release:   0.15,
	}
}

func smoothing(seconds float64, sampleRate int) float64 {
	n := seconds * float64(sampleRate)
	if n < 1 {
		return 1
	}
	return 1 - math.Exp(-1/n)
}

// Process returns target multiplied by the ducking gain. The result keeps the
// target's length; trigger samples past its end count as silence.
func (s Sidechain) Process(target, trigger []float64, sampleRate int) []float64 {
	ratio := math.Max(s.Ratio, 1)
	attack := smoothing(s.Attack, sampleRate)
	release := smoothing(s.Release, sampleRate)
	follow := smoothing(triggerRelease, sampleRate)

	out := make([]float64, len(target))
	var env float64
	gain := 1.0
	for i, v := range target {
		var trig float64
		if i < len(trigger) {
			trig = math.Abs(trigger[i])
		}
		if trig > env {
			env = trig
		} else {
			env += follow * (trig - env)
		}

		want := 1.0
		if env > s.Threshold {
			want = math.Max(minSidechainGain, 1-(env-s.Threshold)/ratio)
		}
		if want < gain {
			gain += attack * (want - gain)
		} else {
			gain += release * (want - gain)
		}
		out[i] = v * gain
	}
	return out
}
