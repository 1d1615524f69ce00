// Package pattern models step-sequenced drum patterns as dense velocity grids.
package pattern

import (
	"fmt"
	"strings"
)

// DrumType identifies a drum voice. The set is closed.
type DrumType int

const (
	Kick DrumType = iota
	Snare
	Clap
	HiHatClosed
	HiHatOpen
	Crash
	Ride
	TomHigh
	TomMid
	TomLow
	Percussion

	NumDrumTypes = 11
)

var drumNames = [NumDrumTypes]string{
	"kick", "snare", "clap", "hihat_closed", "hihat_open",
	"crash", "ride", "tom_high", "tom_mid", "tom_low", "percussion",
}

// General MIDI percussion notes, indexed by DrumType.
var gmNotes = [NumDrumTypes]int{36, 38, 39, 42, 46, 49, 51, 50, 47, 45, 37}

func (d DrumType) String() string {
	if !d.Valid() {
		return fmt.Sprintf("drum(%d)", int(d))
	}
	return drumNames[d]
}

// Valid reports whether d is one of the defined drum types.
func (d DrumType) Valid() bool {
	return d >= 0 && d < NumDrumTypes
}

// MIDINote returns the General MIDI percussion note for d.
func (d DrumType) MIDINote() int {
	if !d.Valid() {
		panic(fmt.Sprintf("pattern: invalid drum type %d", int(d)))
	}
	return gmNotes[d]
}

// DrumTypes returns every drum type in declaration order.
func DrumTypes() []DrumType {
	out := make([]DrumType, NumDrumTypes)
	for i := range out {
		out[i] = DrumType(i)
	}
	return out
}

// ParseDrumType resolves a drum name as returned by String.
func ParseDrumType(name string) (DrumType, error) {
	for i, n := range drumNames {
		if n == name {
			return DrumType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown drum type %q", name)
}

// Hit is one non-zero cell of a pattern.
type Hit struct {
	Step     int
	Drum     DrumType
	Velocity int
}

// Pattern is a steps × NumDrumTypes grid of velocities in [0,127], 0 meaning no hit.
type Pattern struct {
	steps int
	cells []uint8
}

// New allocates an empty pattern. steps < 1 is a programming error.
func New(steps int) *Pattern {
	if steps < 1 {
		panic(fmt.Sprintf("pattern: invalid step count %d", steps))
	}
	return &Pattern{steps: steps, cells: make([]uint8, steps*NumDrumTypes)}
}

// Steps returns the pattern length.
func (p *Pattern) Steps() int { return p.steps }

func (p *Pattern) index(step int, drum DrumType) int {
	if !drum.Valid() {
		panic(fmt.Sprintf("pattern: invalid drum type %d", int(drum)))
	}
	return step*NumDrumTypes + int(drum)
}

// AddHit sets the velocity of a cell, clamped to [0,127]. Steps outside the
// pattern are ignored.
func (p *Pattern) AddHit(step int, drum DrumType, velocity int) {
	idx := p.index(0, drum) + step*NumDrumTypes
	if step < 0 || step >= p.steps {
		return
	}
	p.cells[idx] = clampVelocity(velocity)
}

// RemoveHit clears a cell.
func (p *Pattern) RemoveHit(step int, drum DrumType) {
	p.AddHit(step, drum, 0)
}

// Velocity returns the velocity of a cell, or 0 outside the pattern.
func (p *Pattern) Velocity(step int, drum DrumType) int {
	idx := p.index(0, drum) + step*NumDrumTypes
	if step < 0 || step >= p.steps {
		return 0
	}
	return int(p.cells[idx])
}

// Hits lists all non-zero cells, step-major then drum order.
func (p *Pattern) Hits() []Hit {
	var hits []Hit
	for s := 0; s < p.steps; s++ {
		row := p.cells[s*NumDrumTypes : (s+1)*NumDrumTypes]
		for d, v := range row {
			if v > 0 {
				hits = append(hits, Hit{Step: s, Drum: DrumType(d), Velocity: int(v)})
			}
		}
	}
	return hits
}

// Len returns the number of hits.
func (p *Pattern) Len() int {
	n := 0
	for _, v := range p.cells {
		if v > 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (p *Pattern) Clone() *Pattern {
	c := &Pattern{steps: p.steps, cells: make([]uint8, len(p.cells))}
	copy(c.cells, p.cells)
	return c
}

// Equal reports whether both patterns have the same length and cells.
func (p *Pattern) Equal(o *Pattern) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.steps != o.steps {
		return false
	}
	for i := range p.cells {
		if p.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Binary returns a copy with every hit set to velocity 1.
func (p *Pattern) Binary() *Pattern {
	c := p.Clone()
	for i, v := range c.cells {
		if v > 0 {
			c.cells[i] = 1
		}
	}
	return c
}

// Normalized returns the grid as velocities / 127, indexed [step][drum].
func (p *Pattern) Normalized() [][]float64 {
	out := make([][]float64, p.steps)
	for s := range out {
		row := make([]float64, NumDrumTypes)
		for d := range row {
			row[d] = float64(p.cells[s*NumDrumTypes+d]) / 127.0
		}
		out[s] = row
	}
	return out
}

// FromNormalized rebuilds a pattern from a [step][drum] grid of values in [0,1].
// Rows shorter than NumDrumTypes leave the remaining drums empty.
func FromNormalized(grid [][]float64) *Pattern {
	steps := len(grid)
	if steps < 1 {
		steps = 1
	}
	p := New(steps)
	for s, row := range grid {
		for d, v := range row {
			if d >= NumDrumTypes {
				break
			}
			p.AddHit(s, DrumType(d), int(v*127+0.5))
		}
	}
	return p
}

// String renders an ASCII grid, one line per drum that has at least one hit.
func (p *Pattern) String() string {
	var b strings.Builder
	for d := 0; d < NumDrumTypes; d++ {
		used := false
		for s := 0; s < p.steps; s++ {
			if p.cells[s*NumDrumTypes+d] > 0 {
				used = true
				break
			}
		}
		if !used {
			continue
		}
		fmt.Fprintf(&b, "%-13s|", DrumType(d))
		for s := 0; s < p.steps; s++ {
			v := p.cells[s*NumDrumTypes+d]
			switch {
			case v > 100:
				b.WriteByte('X')
			case v > 50:
				b.WriteByte('x')
			case v > 0:
				b.WriteByte('.')
			default:
				b.WriteByte('-')
			}
		}
		b.WriteString("|\n")
	}
	return b.String()
}

func clampVelocity(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
