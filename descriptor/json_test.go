package descriptor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cwbudde/algo-edm/arrange"
	"github.com/cwbudde/algo-edm/synth"
)

func TestLoadFlatRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.json")
	content := `{
  "track_name": "Blinding Lights",
  "artist": "The Weeknd",
  "tempo": 171.0,
  "key": 1,
  "mode": 1,
  "energy": 0.73,
  "danceability": 0.51,
  "valence": 0.33,
  "loudness": -5.9
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := r.Descriptors()
	if d.Tempo != 171 || d.Key != 1 || d.Mode != 1 || d.Energy != 0.73 || d.Valence != 0.33 {
		t.Fatalf("descriptor mismatch: %+v", d)
	}
	if d.TrackName != "Blinding Lights" || d.Artist != "The Weeknd" {
		t.Fatalf("names mismatch: %+v", d)
	}
	if got := OutputName(d); got != "The_Weeknd_Blinding_Lights_edm_remix.wav" {
		t.Fatalf("OutputName = %q", got)
	}
}

func TestNestedFeaturesWinAndClamp(t *testing.T) {
	r, err := Parse([]byte(`{"energy": 0.1, "features": {"energy": 1.7, "valence": -2, "key": 14, "tempo": 95}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d := r.Descriptors()
	if d.Energy != 1 || d.Valence != 0 || d.Key != 2 || d.Tempo != 95 {
		t.Fatalf("nested features not applied or clamped: %+v", d)
	}
	def := arrange.DefaultDescriptors()
	if d.Danceability != def.Danceability || d.Mode != def.Mode {
		t.Fatalf("missing keys should keep defaults: %+v", d)
	}
}

func TestRenderOverrides(t *testing.T) {
	r, err := Parse([]byte(`{"render": {"sample_rate": 48000, "master_volume": 0.5, "seed_key": "demo", "bass_voice": "fm_bass", "lead_voice": "pluck", "mastering": "bus"}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts, err := r.Options(arrange.DefaultOptions())
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.SampleRate != 48000 || opts.MasterVolume != 0.5 || opts.SeedKey != "demo" {
		t.Fatalf("render overrides not applied: %+v", opts)
	}
	if opts.BassVoice != synth.FMBass || opts.LeadVoice != synth.Pluck || opts.Mastering != arrange.MasteringBus {
		t.Fatalf("voice overrides not applied: %+v", opts)
	}
}

func TestRenderOverridesRejectWrongFamily(t *testing.T) {
	for _, body := range []string{
		`{"render": {"bass_voice": "supersaw"}}`,
		`{"render": {"lead_voice": "sub_bass"}}`,
		`{"render": {"sample_rate": 100}}`,
		`{"render": {"mastering": "loud"}}`,
	} {
		r, err := Parse([]byte(body))
		if err != nil {
			t.Fatalf("Parse(%s): %v", body, err)
		}
		if _, err := r.Options(arrange.DefaultOptions()); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}

func TestParseBatchLayouts(t *testing.T) {
	cases := map[string]int{
		`[{"track_name": "a"}, {"track_name": "b"}]`: 2,
		`{"tracks": [{"track_name": "a"}]}`:          1,
		`{"track_name": "solo", "tempo": 120}`:       1,
	}
	for body, want := range cases {
		rs, err := ParseBatch([]byte(body))
		if err != nil {
			t.Fatalf("ParseBatch(%s): %v", body, err)
		}
		if len(rs) != want {
			t.Fatalf("ParseBatch(%s) = %d records, want %d", body, len(rs), want)
		}
	}
	if _, err := ParseBatch([]byte(`{not json`)); err == nil {
		t.Fatalf("expected error for malformed batch")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Don't Stop Me Now!": "Dont_Stop_Me_Now",
		"a - b   c":          "a_b_c",
		"":                   "",
		"Beyoncé Déjà Vu":    "Beyoncé_Déjà_Vu",
		"夜に駆ける (Remix)":      "夜に駆ける_Remix",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
	long := SanitizeFilename(strings.Repeat("é", 60))
	if n := utf8.RuneCountInString(long); n != 50 || !utf8.ValidString(long) {
		t.Fatalf("truncated to %d runes, valid %v", n, utf8.ValidString(long))
	}
	if got := OutputName(arrange.Descriptors{}); got != "edm_edm_remix.wav" {
		t.Fatalf("anonymous OutputName = %q", got)
	}
	if got := OutputName(arrange.Descriptors{TrackName: "夜に駆ける"}); got != "夜に駆ける_edm_remix.wav" {
		t.Fatalf("OutputName = %q", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	d := arrange.DefaultDescriptors()
	d.TrackName = "Night Drive"
	d.Energy = 0.42
	d.Key = 7
	d.Mode = 0
	opts := arrange.DefaultOptions()
	opts.Seed = 99
	opts.LeadVoice = synth.Arp
	opts.Mastering = arrange.MasteringBus

	path := filepath.Join(t.TempDir(), "nested", "fit.json")
	if err := Save(path, FromDescriptors(d, opts)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := r.Descriptors(); got != d {
		t.Fatalf("descriptors round trip mismatch:\n got %+v\nwant %+v", got, d)
	}
	gotOpts, err := r.Options(arrange.DefaultOptions())
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if gotOpts != opts {
		t.Fatalf("options round trip mismatch:\n got %+v\nwant %+v", gotOpts, opts)
	}
}

func TestFromDescriptorsResolvesDefaultVoices(t *testing.T) {
	rec := FromDescriptors(arrange.DefaultDescriptors(), arrange.Options{})
	if rec.Render.BassVoice != "saw_bass" || rec.Render.LeadVoice != "supersaw" {
		t.Fatalf("voices = %q/%q", rec.Render.BassVoice, rec.Render.LeadVoice)
	}
	if _, err := rec.Options(arrange.DefaultOptions()); err != nil {
		t.Fatalf("Options: %v", err)
	}
}
