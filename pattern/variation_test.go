package pattern

import (
	"math/rand"
	"testing"
)

func TestReverseTwiceIsIdentity(t *testing.T) {
	p := Breakbeat(16, rand.New(rand.NewSource(5)))
	if !Reverse(Reverse(p)).Equal(p) {
		t.Fatalf("reverse(reverse(p)) != p")
	}
	r := Reverse(p)
	if r.Velocity(15, Kick) != p.Velocity(0, Kick) {
		t.Fatalf("reverse did not flip steps")
	}
}

func TestShiftRotates(t *testing.T) {
	p := New(16)
	p.AddHit(14, Kick, 100)
	s := Shift(p, 3)
	if s.Velocity(1, Kick) != 100 || s.Len() != 1 {
		t.Fatalf("shift by 3 should wrap step 14 to 1:\n%s", s)
	}
	if !Shift(s, -3).Equal(p) {
		t.Fatalf("shift back did not restore pattern")
	}
}

func TestVelocityVariationBounds(t *testing.T) {
	p := Drop(64)
	rng := rand.New(rand.NewSource(11))
	v := VelocityVariation(p, 0.2, rng)
	if !v.Binary().Equal(p.Binary()) {
		t.Fatalf("velocity variation changed hit positions")
	}
	for _, h := range p.Hits() {
		got := v.Velocity(h.Step, h.Drum)
		lo := int(float64(h.Velocity) * 0.8)
		hi := int(float64(h.Velocity)*1.2) + 1
		if got < 20 || got > 127 || got < lo || got > hi {
			t.Fatalf("step %d %s: velocity %d outside [%d,%d]", h.Step, h.Drum, got, lo, hi)
		}
	}
	if p.Velocity(0, Kick) != 127 {
		t.Fatalf("input mutated")
	}
}

func TestAddFillsOnlyTouchesTail(t *testing.T) {
	p := FourOnTheFloor(16, 0)
	f := AddFills(p, 1, rand.New(rand.NewSource(2)))
	for s := 0; s < 12; s++ {
		for _, d := range []DrumType{TomHigh, TomMid, TomLow} {
			if f.Velocity(s, d) != 0 {
				t.Fatalf("fill outside the last four steps at %d", s)
			}
		}
	}
	fills := 0
	for s := 12; s < 16; s++ {
		for _, d := range []DrumType{TomHigh, TomMid, TomLow} {
			if f.Velocity(s, d) > 0 {
				fills++
			}
		}
	}
	if fills != 4 {
		t.Fatalf("prob=1 should fill every tail step, got %d", fills)
	}
	if p.Len() != 4 {
		t.Fatalf("input mutated")
	}
}

func TestMarkovReproducesDeterministicPattern(t *testing.T) {
	m := NewMarkovGenerator(4)
	m.Train(FourOnTheFloor(64, 0))
	if !m.Trained(Kick) {
		t.Fatalf("kick should be trained")
	}
	got := m.Generate(16, Kick, []bool{true, false, false, false}, rand.New(rand.NewSource(1)))
	for i, on := range got {
		if want := i%4 == 0; on != want {
			t.Fatalf("step %d = %v, want %v", i, on, want)
		}
	}
}

func TestMarkovUntrainedIsRandomButSeeded(t *testing.T) {
	m := NewMarkovGenerator(2)
	a := m.Pattern(64, Ride, 90, rand.New(rand.NewSource(7)))
	b := m.Pattern(64, Ride, 90, rand.New(rand.NewSource(7)))
	if !a.Equal(b) {
		t.Fatalf("same seed produced different patterns")
	}
	if a.Len() == 0 || a.Len() == 64 {
		t.Fatalf("untrained generator should produce sparse hits, got %d", a.Len())
	}
}
