package synth

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-edm/dsp"
	"github.com/cwbudde/algo-edm/pattern"
)

// Renderer bundles the drum, bass and lead synthesizers for one render.
// All three draw noise from the same generator.
type Renderer struct {
	cfg   Config
	Drums *Drums
	Bass  *Bass
	Lead  *Lead
}

func NewRenderer(cfg Config, rng *rand.Rand) *Renderer {
	cfg = cfg.Sanitized()
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	return &Renderer{
		cfg:   cfg,
		Drums: NewDrums(cfg, rng),
		Bass:  NewBass(cfg, rng),
		Lead:  NewLead(cfg, rng),
	}
}

func (r *Renderer) Config() Config { return r.cfg }

// Note renders a single note with voice.
func (r *Renderer) Note(v Voice, pitch int, duration, velocity float64) []float64 {
	switch v {
	case SubBass:
		return r.Bass.Sub(pitch, duration, velocity)
	case SawBass:
		return r.Bass.Saw(pitch, duration, velocity)
	case FMBass:
		return r.Bass.FM(pitch, duration, velocity)
	case Supersaw:
		return r.Lead.Supersaw(pitch, duration, velocity)
	case Pluck:
		return r.Lead.Pluck(pitch, duration, velocity)
	case Arp:
		return r.Lead.Arp(pitch, duration, velocity)
	default:
		panic("synth: unknown voice " + v.String())
	}
}

// RenderNotes sums events rendered with voice into a buffer long enough for
// the last note to end. An empty list yields a single silent sample.
func (r *Renderer) RenderNotes(events []NoteEvent, v Voice) []float64 {
	var end float64
	for _, e := range events {
		if e.Duration > 0 && e.End() > end {
			end = e.End()
		}
	}
	n := dsp.NumSamples(r.cfg.SampleRate, end)
	if n == 0 {
		return make([]float64, 1)
	}
	out := make([]float64, n)
	sr := float64(r.cfg.SampleRate)
	for _, e := range events {
		if e.Duration <= 0 || e.Velocity <= 0 {
			continue
		}
		vel := math.Min(e.Velocity, 1)
		offset := int(math.Floor(math.Max(e.Start, 0) * sr))
		dsp.AddAt(out, r.Note(v, e.Pitch, e.Duration, vel), offset, 1)
	}
	return out
}

// RenderPattern is a shortcut for Drums.RenderPattern.
func (r *Renderer) RenderPattern(p *pattern.Pattern, bars int) []float64 {
	return r.Drums.RenderPattern(p, bars)
}
