package pattern

import "math/rand"

var toms = [...]DrumType{TomHigh, TomMid, TomLow}

// AddFills returns a copy with random tom hits in the last four steps, each
// placed with probability prob.
func AddFills(p *Pattern, prob float64, rng *rand.Rand) *Pattern {
	out := p.Clone()
	start := p.steps - 4
	if start < 0 {
		start = 0
	}
	for i := start; i < p.steps; i++ {
		if rng.Float64() < prob {
			out.AddHit(i, toms[rng.Intn(len(toms))], RandInt(rng, 80, 110))
		}
	}
	return out
}

// VelocityVariation returns a copy with every hit jittered by up to
// ±amount·velocity, floored at 20.
func VelocityVariation(p *Pattern, amount float64, rng *rand.Rand) *Pattern {
	out := p.Clone()
	for i, v := range out.cells {
		if v == 0 {
			continue
		}
		delta := int(float64(v) * amount * (rng.Float64()*2 - 1))
		nv := int(v) + delta
		if nv < 20 {
			nv = 20
		}
		out.cells[i] = clampVelocity(nv)
	}
	return out
}

// Shift rotates the pattern right by n steps; negative n rotates left.
func Shift(p *Pattern, n int) *Pattern {
	out := New(p.steps)
	n = ((n % p.steps) + p.steps) % p.steps
	for s := 0; s < p.steps; s++ {
		dst := (s + n) % p.steps
		copy(out.cells[dst*NumDrumTypes:(dst+1)*NumDrumTypes], p.cells[s*NumDrumTypes:(s+1)*NumDrumTypes])
	}
	return out
}

// Reverse flips the step order.
func Reverse(p *Pattern) *Pattern {
	out := New(p.steps)
	for s := 0; s < p.steps; s++ {
		dst := p.steps - 1 - s
		copy(out.cells[dst*NumDrumTypes:(dst+1)*NumDrumTypes], p.cells[s*NumDrumTypes:(s+1)*NumDrumTypes])
	}
	return out
}
