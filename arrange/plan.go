package arrange

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-edm/pattern"
	"github.com/cwbudde/algo-edm/synth"
)

const (
	TotalBars = 16
	introBars = 4
	buildBars = 4
	dropBars  = 8
	barSteps  = 16
)

// SectionKind is one of the three macro sections.
type SectionKind int

const (
	Intro SectionKind = iota
	BuildUp
	Drop
)

func (k SectionKind) String() string {
	switch k {
	case Intro:
		return "intro"
	case BuildUp:
		return "build"
	case Drop:
		return "drop"
	}
	return fmt.Sprintf("section(%d)", int(k))
}

// SectionPlan is a contiguous bar range and the chord root (scale degree) of each bar.
type SectionPlan struct {
	Kind       SectionKind
	StartBar   int
	Bars       int
	ChordRoots []int
}

// DrumSection is a one-bar pattern looped Bars times.
type DrumSection struct {
	Kind    SectionKind
	Pattern *pattern.Pattern
	Bars    int
}

// Arrangement is everything needed to render a track, with no audio in it.
type Arrangement struct {
	Tempo    float64
	Key      int
	Mode     int
	Root     int
	Scale    []int
	Sections []SectionPlan
	Drums    []DrumSection
	Bass     []synth.NoteEvent
	Lead     []synth.NoteEvent
}

// Bars returns the total bar count of the drum sections.
func (a *Arrangement) Bars() int {
	n := 0
	for _, s := range a.Drums {
		n += s.Bars
	}
	return n
}

// Melodic shapes as (eighth-note position, degree offset from the chord root).
var melodies = [4][8][2]int{
	{{0, 0}, {1, 2}, {2, 4}, {3, 7}, {4, 4}, {5, 2}, {6, 4}, {7, 0}},
	{{0, 4}, {1, 2}, {2, 0}, {3, 2}, {4, 4}, {5, 7}, {6, 4}, {7, 2}},
	{{0, 0}, {1, 1}, {2, 2}, {3, 4}, {4, 5}, {5, 4}, {6, 2}, {7, 0}},
	{{0, 7}, {1, 4}, {2, 2}, {3, 0}, {4, 2}, {5, 4}, {6, 7}, {7, 9}},
}

// Build lays out the 16 bars for d. All randomness comes from rng, so the same
// descriptors and generator state always give the same arrangement.
func Build(d Descriptors, rng *rand.Rand) *Arrangement {
	d = d.Sanitized()
	a := &Arrangement{
		Tempo: ForceTempo(d.Tempo),
		Key:   d.Key,
		Mode:  d.Mode,
		Root:  RootNote(d.Key),
		Scale: Scale(d.Mode),
	}
	chords := ChordRoots(d.Mode)
	chordAt := func(bar int) int { return chords[bar%len(chords)] }

	start := 0
	for _, s := range []struct {
		kind SectionKind
		bars int
	}{{Intro, introBars}, {BuildUp, buildBars}, {Drop, dropBars}} {
		plan := SectionPlan{Kind: s.kind, StartBar: start, Bars: s.bars}
		for b := start; b < start+s.bars; b++ {
			plan.ChordRoots = append(plan.ChordRoots, chordAt(b))
		}
		a.Sections = append(a.Sections, plan)
		start += s.bars
	}

	a.Drums = append(a.Drums, DrumSection{Kind: Intro, Pattern: introDrums(rng), Bars: introBars})
	for b := 0; b < buildBars; b++ {
		a.Drums = append(a.Drums, DrumSection{Kind: BuildUp, Pattern: buildDrums(b, rng), Bars: 1})
	}
	a.Drums = append(a.Drums, DrumSection{Kind: Drop, Pattern: dropDrums(rng), Bars: dropBars})

	a.Bass = a.bassLine(chordAt)
	a.Lead = a.leadLine(chordAt)
	return a
}

func introDrums(rng *rand.Rand) *pattern.Pattern {
	p := pattern.New(barSteps)
	for s := 0; s < barSteps; s += 2 {
		p.AddHit(s, pattern.HiHatClosed, pattern.RandInt(rng, 45, 65))
	}
	for _, s := range [...]int{0, 8} {
		p.AddHit(s, pattern.Kick, 65)
	}
	return p
}

// buildDrums returns build bar b (0..3): kick, hat and snare density and
// velocity rise with b. The last bar rolls into the drop.
func buildDrums(b int, rng *rand.Rand) *pattern.Pattern {
	p := pattern.New(barSteps)
	for s := 0; s < barSteps; s += 4 {
		p.AddHit(s, pattern.Kick, 85+10*b)
	}
	hat := max(1, 4-b)
	for s := 0; s < barSteps; s += hat {
		p.AddHit(s, pattern.HiHatClosed, 55+12*b)
	}
	if b >= 2 {
		snare := max(1, 4-b)
		for s := 0; s < barSteps; s += snare {
			p.AddHit(s, pattern.Snare, 50+18*b)
		}
	}
	if b == buildBars-1 {
		// Snare roll: velocity climbs across the bar with a little jitter.
		for s := 0; s < barSteps; s++ {
			v := 80 + 47*s/(barSteps-1) + rng.Intn(9) - 4
			p.AddHit(s, pattern.Snare, v)
		}
		p = pattern.AddFills(p, 0.35, rng)
		p.AddHit(barSteps-1, pattern.Crash, 120)
	}
	return p
}

func dropDrums(rng *rand.Rand) *pattern.Pattern {
	backbeat := pattern.New(barSteps)
	for _, s := range [...]int{4, 12} {
		backbeat.AddHit(s, pattern.Snare, 115)
		backbeat.AddHit(s, pattern.Clap, 95)
	}
	hats := pattern.New(barSteps)
	for s := 0; s < barSteps; s += 2 {
		hats.AddHit(s, pattern.HiHatClosed, pattern.RandInt(rng, 75, 100))
	}
	for _, s := range [...]int{6, 14} {
		if rng.Float64() < 0.5 {
			hats.AddHit(s, pattern.HiHatOpen, 80)
		}
	}
	p := pattern.Combine(pattern.FourOnTheFloor(barSteps, 1), backbeat, hats)
	p.AddHit(0, pattern.Crash, 115)
	return pattern.VelocityVariation(p, 0.08, rng)
}

func (a *Arrangement) note(degree, octave int) int {
	return ScaleNote(a.Root, a.Scale, degree, octave)
}

func (a *Arrangement) bassLine(chordAt func(int) int) []synth.NoteEvent {
	beat := 60.0 / a.Tempo
	eighth := beat / 2
	bar := 4 * beat

	var notes []synth.NoteEvent
	for b := introBars; b < TotalBars; b++ {
		pitch := a.note(chordAt(b), -1)
		t0 := float64(b) * bar
		if b < introBars+buildBars {
			notes = append(notes, synth.NoteEvent{
				Pitch:    pitch,
				Start:    t0,
				Duration: 0.9 * bar,
				Velocity: 0.4 + 0.12*float64(b-introBars),
			})
			continue
		}
		for i := 0; i < 8; i++ {
			vel := 0.5
			if i%2 == 0 {
				vel = 0.9
			}
			notes = append(notes, synth.NoteEvent{
				Pitch:    pitch,
				Start:    t0 + float64(i)*eighth,
				Duration: 0.7 * eighth,
				Velocity: vel,
			})
		}
	}
	return notes
}

func (a *Arrangement) leadLine(chordAt func(int) int) []synth.NoteEvent {
	beat := 60.0 / a.Tempo
	eighth := beat / 2
	bar := 4 * beat

	var notes []synth.NoteEvent
	for b := 0; b < TotalBars; b++ {
		root := chordAt(b)
		t0 := float64(b) * bar
		if b < introBars {
			for i, beatIdx := range [...]int{0, 2} {
				notes = append(notes, synth.NoteEvent{
					Pitch:    a.note(root+4*i, 1),
					Start:    t0 + float64(beatIdx)*beat,
					Duration: 1.8 * beat,
					Velocity: 0.3,
				})
			}
			continue
		}

		vel, length := 0.7, 0.8
		if b < introBars+buildBars {
			vel, length = 0.35+0.1*float64(b-introBars), 0.85
		}
		for _, step := range melodies[b%len(melodies)] {
			notes = append(notes, synth.NoteEvent{
				Pitch:    a.note(root+step[1], 1),
				Start:    t0 + float64(step[0])*eighth,
				Duration: length * eighth,
				Velocity: vel,
			})
		}
	}
	return notes
}
