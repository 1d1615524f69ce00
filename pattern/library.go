package pattern

import "math/rand"

// FourOnTheFloor places a kick on every quarter note. When accentEvery > 0, every
// accentEvery-th quarter is played at full velocity and the rest at 100.
func FourOnTheFloor(steps, accentEvery int) *Pattern {
	p := New(steps)
	for i := 0; i < steps; i += 4 {
		v := 100
		if accentEvery > 0 && (i/4)%accentEvery == 0 {
			v = 127
		}
		p.AddHit(i, Kick, v)
	}
	return p
}

// SyncopatedHiHat scatters closed hats on 8ths (probability density) and on
// off-16ths (probability 0.6·density), with an occasional open hat.
func SyncopatedHiHat(steps int, density float64, rng *rand.Rand) *Pattern {
	p := New(steps)
	for i := 0; i < steps; i += 2 {
		if rng.Float64() < density {
			p.AddHit(i, HiHatClosed, RandInt(rng, 60, 100))
		}
	}
	for i := 1; i < steps; i += 4 {
		if rng.Float64() < density*0.6 {
			p.AddHit(i, HiHatClosed, RandInt(rng, 40, 70))
		}
	}
	for i := 6; i < steps; i += 8 {
		if rng.Float64() < 0.4 {
			p.AddHit(i, HiHatOpen, 80)
		}
	}
	return p
}

// SnareClap is a backbeat: snare and clap on steps 4 and 12 of every 16-step bar.
func SnareClap(steps int) *Pattern {
	p := New(steps)
	for bar := 0; bar < steps; bar += 16 {
		for _, s := range [...]int{4, 12} {
			p.AddHit(bar+s, Snare, 110)
			p.AddHit(bar+s, Clap, 90)
		}
	}
	return p
}

// BuildUp grows kick, snare and hi-hat density and velocity with position and
// ends with a crash.
func BuildUp(steps int, rng *rand.Rand) *Pattern {
	p := New(steps)
	for i := 0; i < steps; i++ {
		progress := float64(i) / float64(steps)
		if i%4 == 0 {
			p.AddHit(i, Kick, 80+int(47*progress))
		}
		if progress >= 0.5 && i%2 == 0 {
			p.AddHit(i, Snare, 60+int(67*progress))
		}
		if rng.Float64() < progress {
			p.AddHit(i, HiHatClosed, 40+int(60*progress))
		}
	}
	p.AddHit(steps-1, Crash, 127)
	return p
}

// Drop is the full-energy groove: kicks on quarters, backbeat snare and clap,
// 8th hats and a crash on the downbeat.
func Drop(steps int) *Pattern {
	p := New(steps)
	for i := 0; i < steps; i += 4 {
		p.AddHit(i, Kick, 127)
	}
	for bar := 0; bar < steps; bar += 16 {
		for _, s := range [...]int{4, 12} {
			p.AddHit(bar+s, Snare, 120)
			p.AddHit(bar+s, Clap, 100)
		}
	}
	for i := 0; i < steps; i += 2 {
		p.AddHit(i, HiHatClosed, 100)
	}
	p.AddHit(0, Crash, 120)
	return p
}

// Breakbeat is a fixed syncopated kick/snare template with 8th hats.
func Breakbeat(steps int, rng *rand.Rand) *Pattern {
	p := New(steps)
	for bar := 0; bar < steps; bar += 16 {
		for _, s := range [...]int{0, 6, 11} {
			p.AddHit(bar+s, Kick, RandInt(rng, 100, 120))
		}
		for _, s := range [...]int{4, 10, 12} {
			p.AddHit(bar+s, Snare, RandInt(rng, 90, 110))
		}
	}
	for i := 0; i < steps; i += 2 {
		p.AddHit(i, HiHatClosed, RandInt(rng, 60, 100))
	}
	return p
}

// Combine layers patterns, keeping the louder velocity of each cell. The result
// is as long as the longest input. Combine of nothing is a one-step empty pattern.
func Combine(patterns ...*Pattern) *Pattern {
	steps := 1
	for _, p := range patterns {
		if p != nil && p.steps > steps {
			steps = p.steps
		}
	}
	out := New(steps)
	for _, p := range patterns {
		if p == nil {
			continue
		}
		for i, v := range p.cells {
			if v > out.cells[i] {
				out.cells[i] = v
			}
		}
	}
	return out
}

// randRange returns an integer in [lo, hi).
func RandInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}
