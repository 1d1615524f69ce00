package pattern

import (
	"math/rand"
	"strings"
)

// MarkovGenerator learns per-drum on/off sequences and samples new ones.
// States are the previous Order steps of the same drum.
type MarkovGenerator struct {
	Order       int
	transitions map[DrumType]map[string]*counts
}

type counts struct {
	off, on int
}

// NewMarkovGenerator creates a generator. order < 1 is treated as 1.
func NewMarkovGenerator(order int) *MarkovGenerator {
	if order < 1 {
		order = 1
	}
	return &MarkovGenerator{Order: order, transitions: make(map[DrumType]map[string]*counts)}
}

func stateKey(seq []bool) string {
	var b strings.Builder
	for _, on := range seq {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Train adds the hit sequences of every drum in patterns to the model.
func (m *MarkovGenerator) Train(patterns ...*Pattern) {
	for _, p := range patterns {
		if p == nil {
			continue
		}
		for _, d := range DrumTypes() {
			seq := make([]bool, p.steps)
			for s := range seq {
				seq[s] = p.Velocity(s, d) > 0
			}
			for i := m.Order; i < len(seq); i++ {
				m.observe(d, stateKey(seq[i-m.Order:i]), seq[i])
			}
		}
	}
}

func (m *MarkovGenerator) observe(d DrumType, key string, on bool) {
	table := m.transitions[d]
	if table == nil {
		table = make(map[string]*counts)
		m.transitions[d] = table
	}
	c := table[key]
	if c == nil {
		c = &counts{}
		table[key] = c
	}
	if on {
		c.on++
	} else {
		c.off++
	}
}

// Trained reports whether the model has seen any sequence for drum.
func (m *MarkovGenerator) Trained(drum DrumType) bool {
	return len(m.transitions[drum]) > 0
}

// Generate samples steps on/off values for drum. seed supplies the first Order
// states; missing seed values count as off. Unseen states and untrained drums
// fire with probability 0.3.
func (m *MarkovGenerator) Generate(steps int, drum DrumType, seed []bool, rng *rand.Rand) []bool {
	if steps < 0 {
		steps = 0
	}
	out := make([]bool, steps)
	history := make([]bool, m.Order)
	copy(history[max(0, m.Order-len(seed)):], seed[max(0, len(seed)-m.Order):])

	table := m.transitions[drum]
	for i := range out {
		p := 0.3
		if c := table[stateKey(history)]; c != nil && c.on+c.off > 0 {
			p = float64(c.on) / float64(c.on+c.off)
		}
		out[i] = rng.Float64() < p
		copy(history, history[1:])
		history[len(history)-1] = out[i]
	}
	return out
}

// Pattern generates a single-drum pattern with hits at the given velocity.
func (m *MarkovGenerator) Pattern(steps int, drum DrumType, velocity int, rng *rand.Rand) *Pattern {
	p := New(steps)
	for s, on := range m.Generate(steps, drum, nil, rng) {
		if on {
			p.AddHit(s, drum, velocity)
		}
	}
	return p
}
