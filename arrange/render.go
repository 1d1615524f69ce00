package arrange

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-edm/dsp"
	"github.com/cwbudde/algo-edm/fx"
	"github.com/cwbudde/algo-edm/pattern"
	"github.com/cwbudde/algo-edm/synth"
)

// Stem weights and limiter of the simple mastering chain.
const (
	drumWeight = 1.0
	bassWeight = 0.75
	leadWeight = 0.55

	limiterDrive   = 1.5
	limiterCeiling = 0.92
)

// Track is a rendered mono track.
type Track struct {
	Samples     []float64
	SampleRate  int
	Tempo       float64
	Bars        int
	Seed        int64
	Arrangement *Arrangement
	// Wide holds interleaved stereo frames when a room was applied.
	Wide []float64
}

// Duration returns the length in seconds.
func (t *Track) Duration() float64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return float64(len(t.Samples)) / float64(t.SampleRate)
}

// PCM16 converts the samples to 16-bit PCM, clipping at full scale.
func (t *Track) PCM16() []int16 {
	out := make([]int16, len(t.Samples))
	for i, v := range t.Samples {
		out[i] = int16(math.Max(-1, math.Min(1, v)) * 32767)
	}
	return out
}

// Stereo returns interleaved L/R frames: the room render when present,
// otherwise the mono samples duplicated.
func (t *Track) Stereo() []float64 {
	if len(t.Wide) == 2*len(t.Samples) {
		return t.Wide
	}
	out := make([]float64, 2*len(t.Samples))
	for i, v := range t.Samples {
		out[2*i] = v
		out[2*i+1] = v
	}
	return out
}

// Render builds and renders the arrangement for d. It never fails: invalid
// descriptors and options are clamped.
func Render(d Descriptors, opts Options) *Track {
	opts = opts.Normalized()
	cfg := SynthConfigFor(d, opts)
	seed := ResolveSeed(d, opts)
	rng := rand.New(rand.NewSource(seed))

	arr := Build(d, rng)
	r := synth.NewRenderer(cfg, rng)

	var out []float64
	switch opts.Mastering {
	case MasteringBus:
		out = renderBus(arr, r, opts)
	default:
		out = renderSimple(arr, r, opts)
	}
	t := &Track{
		Samples:     out,
		SampleRate:  cfg.SampleRate,
		Tempo:       cfg.Tempo,
		Bars:        arr.Bars(),
		Seed:        seed,
		Arrangement: arr,
	}
	if opts.Room > 0 {
		t.Wide = renderRoom(out, cfg.SampleRate, seed, opts.Room)
	}
	return t
}

// renderRoom widens the mix with a seeded room impulse response and scales
// it back under the mastering ceiling.
func renderRoom(x []float64, sampleRate int, seed int64, wet float64) []float64 {
	ir := fx.DefaultRoomIR(sampleRate)
	ir.Seed = seed
	room, err := fx.NewRoom(ir, wet)
	if err != nil {
		panic("arrange: room: " + err.Error())
	}
	wide, err := room.Process(x)
	if err != nil {
		panic("arrange: room: " + err.Error())
	}
	if p := dsp.Peak(wide); p > limiterCeiling {
		dsp.Scale(wide, limiterCeiling/p)
	}
	return wide
}

// renderDrums concatenates the drum sections in bar order.
func renderDrums(arr *Arrangement, r *synth.Renderer, keep func(pattern.DrumType) bool) []float64 {
	var out []float64
	for _, s := range arr.Drums {
		out = append(out, r.Drums.RenderPatternFunc(s.Pattern, s.Bars, keep)...)
	}
	return out
}

func renderSimple(arr *Arrangement, r *synth.Renderer, opts Options) []float64 {
	drums := renderDrums(arr, r, nil)
	bass := r.RenderNotes(arr.Bass, opts.BassVoice)
	lead := r.RenderNotes(arr.Lead, opts.LeadVoice)

	mixed := fx.MixDown([]fx.Track{
		{Name: "drums", Samples: drums, Weight: drumWeight},
		{Name: "bass", Samples: bass, Weight: bassWeight},
		{Name: "lead", Samples: lead, Weight: leadWeight},
	})
	dsp.Normalize(mixed, opts.MasterVolume)
	return fx.SoftLimit(mixed, limiterDrive, limiterCeiling)
}

func renderBus(arr *Arrangement, r *synth.Renderer, opts Options) []float64 {
	cfg := r.Config()
	sr := cfg.SampleRate
	isKick := func(d pattern.DrumType) bool { return d == pattern.Kick }
	notKick := func(d pattern.DrumType) bool { return d != pattern.Kick }

	kick := renderDrums(arr, r, isKick)
	drums := renderDrums(arr, r, notKick)
	dsp.AddAt(drums, kick, 0, 1)

	bass := r.RenderNotes(arr.Bass, opts.BassVoice)
	bass = fx.SidechainForStrength(cfg.SidechainStrength()).Process(bass, kick, sr)

	lead := r.RenderNotes(arr.Lead, opts.LeadVoice)
	lead = fx.Reverb{RoomSize: 0.6, Damping: 0.5, Wet: 0.2 + 0.3*cfg.Valence}.Process(lead, sr)
	lead = fx.Delay{Time: cfg.BeatSeconds() / 2, Feedback: 0.3, Wet: 0.2}.Process(lead, sr)
	widened, err := fx.DefaultChorus().Process(lead, sr)
	if err != nil {
		panic("arrange: default chorus rejected: " + err.Error())
	}
	lead = fx.SidechainForStrength(0.3).Process(widened, kick, sr)

	bus := fx.DefaultBus(sr, cfg.MasterVolume)
	hall := fx.DefaultHall()
	bus.Hall = &hall
	return bus.Mix([]fx.Track{
		{Name: "drums", Samples: drums},
		{Name: "bass", Samples: bass},
		{Name: "lead", Samples: lead},
	})
}
