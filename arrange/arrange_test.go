package arrange

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-edm/dsp"
	"github.com/cwbudde/algo-edm/pattern"
	"github.com/cwbudde/algo-edm/synth"
)

func demoDescriptors() Descriptors {
	return Descriptors{Tempo: 122, Key: 0, Mode: 1, Energy: 0.8, Danceability: 0.75, Valence: 0.6, TrackName: "Demo"}
}

func TestForceTempo(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{90, 180},
		{128, 130},
		{200, 180},
		{70, 140},
		{150, 150},
		{0, 130},
		{-20, 130},
		{math.NaN(), 130},
		{math.Inf(1), 130},
	}
	for _, c := range cases {
		if got := ForceTempo(c.in); got != c.want {
			t.Fatalf("ForceTempo(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestScaleNoteWrapsOctaves(t *testing.T) {
	major := Scale(1)
	root := RootNote(0)
	cases := []struct{ degree, octave, want int }{
		{0, 0, 48},
		{2, 0, 52},
		{7, 0, 60},
		{9, 1, 76},
		{-1, 0, 47},
		{0, -1, 36},
	}
	for _, c := range cases {
		if got := ScaleNote(root, major, c.degree, c.octave); got != c.want {
			t.Fatalf("ScaleNote(degree=%d, octave=%d) = %d, want %d", c.degree, c.octave, got, c.want)
		}
	}
	if got := ChordRoots(0); got[1] != 5 || got[3] != 6 {
		t.Fatalf("minor progression = %v", got)
	}
}

func TestDescriptorsSanitized(t *testing.T) {
	d := Descriptors{Tempo: 120, Key: -1, Mode: 7, Energy: 3, Danceability: -1, Valence: math.NaN()}.Sanitized()
	if d.Key != 11 || d.Mode != 0 || d.Energy != 1 || d.Danceability != 0 || d.Valence != 0 {
		t.Fatalf("unexpected sanitized descriptors %+v", d)
	}
	for mode, want := range map[int]int{1: 1, 0: 0, 2: 0, -3: 0, -1: 0} {
		if got := (Descriptors{Mode: mode}).Sanitized().Mode; got != want {
			t.Fatalf("mode %d sanitized to %d, want %d", mode, got, want)
		}
	}
}

func TestSynthConfigForFloorsEnergy(t *testing.T) {
	d := demoDescriptors()
	d.Energy = 0.2
	d.Danceability = 0.1
	cfg := SynthConfigFor(d, DefaultOptions())
	if cfg.Energy != 0.7 || cfg.Danceability != 0.7 {
		t.Fatalf("energy/danceability not floored: %+v", cfg)
	}
	if cfg.Tempo != 130 || cfg.Valence != 0.6 || cfg.SampleRate != 44100 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestResolveSeedPrecedence(t *testing.T) {
	d := demoDescriptors()
	opts := DefaultOptions()
	if ResolveSeed(d, opts) != HashSeed("Demo") {
		t.Fatalf("track name should seed by default")
	}
	opts.Seed = 42
	if ResolveSeed(d, opts) != 42 {
		t.Fatalf("explicit seed should win over track name")
	}
	opts.SeedKey = "demo"
	if ResolveSeed(d, opts) != HashSeed("demo") {
		t.Fatalf("seed key should win over explicit seed")
	}
	if ResolveSeed(Descriptors{}, DefaultOptions()) != HashSeed("edm") {
		t.Fatalf("anonymous tracks should hash \"edm\"")
	}
}

func TestBuildStructure(t *testing.T) {
	a := Build(demoDescriptors(), rand.New(rand.NewSource(1)))
	if a.Bars() != TotalBars {
		t.Fatalf("bars = %d, want %d", a.Bars(), TotalBars)
	}
	if len(a.Sections) != 3 || a.Sections[1].StartBar != 4 || a.Sections[2].Bars != 8 {
		t.Fatalf("unexpected sections %+v", a.Sections)
	}
	if got := a.Sections[2].ChordRoots; len(got) != 8 || got[0] != 0 || got[1] != 4 {
		t.Fatalf("drop chord roots = %v", got)
	}

	bar := 4 * 60.0 / a.Tempo
	for _, n := range a.Bass {
		if n.Start < 4*bar-1e-9 {
			t.Fatalf("bass note in the intro at %f", n.Start)
		}
	}
	if len(a.Bass) != 4+8*8 {
		t.Fatalf("bass notes = %d, want %d", len(a.Bass), 4+8*8)
	}
	if len(a.Lead) != 4*2+12*8 {
		t.Fatalf("lead notes = %d, want %d", len(a.Lead), 4*2+12*8)
	}
	for i := 1; i < 4; i++ {
		if a.Bass[i].Velocity <= a.Bass[i-1].Velocity {
			t.Fatalf("build bass velocity must rise: %v", a.Bass[:4])
		}
	}
	for _, n := range append(append([]synth.NoteEvent(nil), a.Bass...), a.Lead...) {
		if n.End() > 16*bar+1e-9 {
			t.Fatalf("note ends after the arrangement: %+v", n)
		}
	}
}

func TestBuildDrumDensityRises(t *testing.T) {
	a := Build(demoDescriptors(), rand.New(rand.NewSource(2)))
	prev := 0
	for _, s := range a.Drums {
		if s.Kind != BuildUp {
			continue
		}
		n := s.Pattern.Len()
		if n < prev {
			t.Fatalf("build density fell from %d to %d", prev, n)
		}
		prev = n
	}
	last := a.Drums[len(a.Drums)-2]
	if last.Pattern.Velocity(15, pattern.Crash) == 0 {
		t.Fatalf("final build bar should end in a crash")
	}
	drop := a.Drums[len(a.Drums)-1]
	if drop.Kind != Drop || drop.Pattern.Velocity(4, pattern.Clap) == 0 || drop.Pattern.Velocity(0, pattern.Kick) == 0 {
		t.Fatalf("drop pattern incomplete:\n%s", drop.Pattern)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := Build(demoDescriptors(), rand.New(rand.NewSource(9)))
	b := Build(demoDescriptors(), rand.New(rand.NewSource(9)))
	for i := range a.Drums {
		if !a.Drums[i].Pattern.Equal(b.Drums[i].Pattern) {
			t.Fatalf("drum section %d differs", i)
		}
	}
}

func fastOptions() Options {
	opts := DefaultOptions()
	opts.SampleRate = 16000
	opts.SeedKey = "demo"
	return opts
}

func TestRenderIsBitIdentical(t *testing.T) {
	a := Render(demoDescriptors(), fastOptions())
	b := Render(demoDescriptors(), fastOptions())
	if len(a.Samples) != len(b.Samples) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Samples), len(b.Samples))
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs", i)
		}
	}
}

func TestRenderDemoScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("full-rate render")
	}
	opts := DefaultOptions()
	opts.SeedKey = "demo"
	tr := Render(demoDescriptors(), opts)

	want := 16 * 4 * (60.0 / 130) * 44100
	if math.Abs(float64(len(tr.Samples))-want) > 8 {
		t.Fatalf("len = %d, want ≈ %.0f", len(tr.Samples), want)
	}
	if tr.Tempo != 130 || tr.Bars != 16 || tr.SampleRate != 44100 {
		t.Fatalf("unexpected track metadata %+v", tr)
	}
	if peak := dsp.Peak(tr.Samples); peak > 0.92 || peak == 0 {
		t.Fatalf("peak = %f, want (0, 0.92]", peak)
	}
}

func TestRenderBusStaysInRange(t *testing.T) {
	opts := fastOptions()
	opts.Mastering = MasteringBus
	tr := Render(demoDescriptors(), opts)
	if dsp.Peak(tr.Samples) == 0 {
		t.Fatalf("bus render is silent")
	}
	for i, v := range tr.Samples {
		if math.IsNaN(v) || v < -1 || v > 1 {
			t.Fatalf("sample %d = %f outside [-1,1]", i, v)
		}
	}
}

func TestRenderClampsWildDescriptors(t *testing.T) {
	d := Descriptors{Tempo: math.NaN(), Key: 40, Mode: -3, Energy: 9, Danceability: -9, Valence: 4}
	tr := Render(d, fastOptions())
	if tr.Tempo != 130 || len(tr.Samples) == 0 {
		t.Fatalf("wild descriptors not clamped: tempo %f, %d samples", tr.Tempo, len(tr.Samples))
	}
}

func TestTrackExports(t *testing.T) {
	tr := &Track{Samples: []float64{0, 0.5, -1, 2}, SampleRate: 4}
	pcm := tr.PCM16()
	if pcm[1] != 16383 || pcm[2] != -32767 || pcm[3] != 32767 {
		t.Fatalf("unexpected PCM %v", pcm)
	}
	st := tr.Stereo()
	if len(st) != 8 || st[2] != 0.5 || st[3] != 0.5 {
		t.Fatalf("unexpected stereo %v", st)
	}
	if tr.Duration() != 1 {
		t.Fatalf("duration = %f, want 1", tr.Duration())
	}
}

func TestRenderRoomWidensStereoOnly(t *testing.T) {
	dry := Render(demoDescriptors(), fastOptions())
	opts := fastOptions()
	opts.Room = 0.3
	wet := Render(demoDescriptors(), opts)

	if len(wet.Samples) != len(dry.Samples) {
		t.Fatalf("room changed mono length: %d vs %d", len(wet.Samples), len(dry.Samples))
	}
	for i := range dry.Samples {
		if wet.Samples[i] != dry.Samples[i] {
			t.Fatalf("room changed mono sample %d", i)
		}
	}
	st := wet.Stereo()
	if len(st) != 2*len(wet.Samples) {
		t.Fatalf("stereo length = %d", len(st))
	}
	if p := dsp.Peak(st); p > limiterCeiling+1e-12 || p == 0 {
		t.Fatalf("stereo peak = %f", p)
	}
	differ := false
	for i := 0; i+1 < len(st); i += 2 {
		if st[i] != st[i+1] {
			differ = true
			break
		}
	}
	if !differ {
		t.Fatalf("room output is not stereo")
	}
}

func TestOptionsNormalizedRepairsZeroValue(t *testing.T) {
	got := Options{}.Normalized()
	want := DefaultOptions()
	if got != want {
		t.Fatalf("Normalized() = %+v, want %+v", got, want)
	}

	mixed := Options{SampleRate: 16000, MasterVolume: 3, BassVoice: synth.Pluck, LeadVoice: synth.FMBass, Room: -1}.Normalized()
	if mixed.MasterVolume != 1 || mixed.BassVoice != synth.SawBass || mixed.LeadVoice != synth.Supersaw || mixed.Room != 0 {
		t.Fatalf("unexpected repair %+v", mixed)
	}
	kept := Options{SampleRate: 16000, MasterVolume: 0.5, BassVoice: synth.SubBass, LeadVoice: synth.Arp}.Normalized()
	if kept.SampleRate != 16000 || kept.MasterVolume != 0.5 || kept.BassVoice != synth.SubBass || kept.LeadVoice != synth.Arp {
		t.Fatalf("valid fields changed: %+v", kept)
	}
}

func TestRenderZeroOptionsMatchDefaults(t *testing.T) {
	a := Render(demoDescriptors(), Options{SampleRate: 16000, SeedKey: "demo"})
	b := Render(demoDescriptors(), fastOptions())
	if len(a.Samples) != len(b.Samples) {
		t.Fatalf("len %d vs %d", len(a.Samples), len(b.Samples))
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs", i)
		}
	}
}

func TestSimpleMasteringFollowsMasterVolume(t *testing.T) {
	quiet := fastOptions()
	quiet.MasterVolume = 0.1
	loud := fastOptions()
	loud.MasterVolume = 0.8

	pq := dsp.Peak(Render(demoDescriptors(), quiet).Samples)
	pl := dsp.Peak(Render(demoDescriptors(), loud).Samples)
	if math.Abs(pq-limiterCeiling*math.Tanh(limiterDrive*0.1)) > 1e-9 {
		t.Fatalf("quiet peak = %f", pq)
	}
	if math.Abs(pl-limiterCeiling*math.Tanh(limiterDrive*0.8)) > 1e-9 {
		t.Fatalf("loud peak = %f", pl)
	}
}
