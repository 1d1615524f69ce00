// Package descriptor loads track descriptor records from JSON.
package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cwbudde/algo-edm/arrange"
	"github.com/cwbudde/algo-edm/synth"
)

// Features is the catalog feature block. Missing keys keep their defaults.
type Features struct {
	Tempo            *float64 `json:"tempo,omitempty"`
	Key              *float64 `json:"key,omitempty"`
	Mode             *float64 `json:"mode,omitempty"`
	Energy           *float64 `json:"energy,omitempty"`
	Danceability     *float64 `json:"danceability,omitempty"`
	Valence          *float64 `json:"valence,omitempty"`
	Acousticness     *float64 `json:"acousticness,omitempty"`
	Instrumentalness *float64 `json:"instrumentalness,omitempty"`
	Speechiness      *float64 `json:"speechiness,omitempty"`
	Loudness         *float64 `json:"loudness,omitempty"`
}

// RenderSettings are optional per-record render overrides.
type RenderSettings struct {
	SampleRate   *int     `json:"sample_rate,omitempty"`
	MasterVolume *float64 `json:"master_volume,omitempty"`
	Seed         *int64   `json:"seed,omitempty"`
	SeedKey      string   `json:"seed_key,omitempty"`
	BassVoice    string   `json:"bass_voice,omitempty"`
	LeadVoice    string   `json:"lead_voice,omitempty"`
	Mastering    string   `json:"mastering,omitempty"`
	Room         *float64 `json:"room,omitempty"`
}

// Record is one input track. Features may be given at the top level, in a
// nested "features" object, or both; nested values win.
type Record struct {
	Features
	TrackName string          `json:"track_name,omitempty"`
	Artist    string          `json:"artist,omitempty"`
	Nested    *Features       `json:"features,omitempty"`
	Render    *RenderSettings `json:"render,omitempty"`
}

// Parse decodes a single record.
func Parse(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("parse descriptor: %w", err)
	}
	return r, nil
}

// Load reads a single record from path.
func Load(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	r, err := Parse(b)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// ParseBatch accepts a JSON array of records, an object with a "tracks"
// array, or a single record.
func ParseBatch(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rs []Record
		if err := json.Unmarshal(trimmed, &rs); err != nil {
			return nil, fmt.Errorf("parse batch: %w", err)
		}
		return rs, nil
	}
	var wrapped struct {
		Tracks []Record `json:"tracks"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	if wrapped.Tracks != nil {
		return wrapped.Tracks, nil
	}
	r, err := Parse(trimmed)
	if err != nil {
		return nil, err
	}
	return []Record{r}, nil
}

// LoadBatch reads every record from path.
func LoadBatch(path string) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rs, err := ParseBatch(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

func applyFeatures(d *arrange.Descriptors, f *Features) {
	if f == nil {
		return
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.Tempo, f.Tempo)
	set(&d.Energy, f.Energy)
	set(&d.Danceability, f.Danceability)
	set(&d.Valence, f.Valence)
	set(&d.Acousticness, f.Acousticness)
	set(&d.Instrumentalness, f.Instrumentalness)
	set(&d.Speechiness, f.Speechiness)
	set(&d.Loudness, f.Loudness)
	if f.Key != nil && !math.IsNaN(*f.Key) {
		d.Key = int(math.Round(*f.Key))
	}
	if f.Mode != nil && !math.IsNaN(*f.Mode) {
		d.Mode = int(math.Round(*f.Mode))
	}
}

// Descriptors merges the record over arrange.DefaultDescriptors. Out-of-range
// values are clamped, never rejected.
func (r Record) Descriptors() arrange.Descriptors {
	d := arrange.DefaultDescriptors()
	applyFeatures(&d, &r.Features)
	applyFeatures(&d, r.Nested)
	d.TrackName = strings.TrimSpace(r.TrackName)
	d.Artist = strings.TrimSpace(r.Artist)
	return d.Sanitized()
}

// Options applies the record's render block on top of base.
func (r Record) Options(base arrange.Options) (arrange.Options, error) {
	if err := ApplyRender(&base, r.Render); err != nil {
		return base, err
	}
	return base, nil
}

// ApplyRender applies render overrides onto dst.
func ApplyRender(dst *arrange.Options, s *RenderSettings) error {
	if dst == nil {
		return fmt.Errorf("nil destination options")
	}
	if s == nil {
		return nil
	}
	if s.SampleRate != nil {
		if *s.SampleRate < 8000 {
			return fmt.Errorf("sample_rate must be >= 8000")
		}
		dst.SampleRate = *s.SampleRate
	}
	if s.MasterVolume != nil {
		if !(*s.MasterVolume > 0) || *s.MasterVolume > 1 {
			return fmt.Errorf("master_volume must be in (0,1]")
		}
		dst.MasterVolume = *s.MasterVolume
	}
	if s.Seed != nil {
		dst.Seed = *s.Seed
	}
	if s.SeedKey != "" {
		dst.SeedKey = s.SeedKey
	}
	if s.BassVoice != "" {
		v, err := synth.ParseVoice(s.BassVoice)
		if err != nil || !v.IsBass() {
			return fmt.Errorf("bass_voice %q is not a bass voice", s.BassVoice)
		}
		dst.BassVoice = v
	}
	if s.LeadVoice != "" {
		v, err := synth.ParseVoice(s.LeadVoice)
		if err != nil || !v.IsLead() {
			return fmt.Errorf("lead_voice %q is not a lead voice", s.LeadVoice)
		}
		dst.LeadVoice = v
	}
	if s.Mastering != "" {
		m, err := arrange.ParseMastering(s.Mastering)
		if err != nil {
			return err
		}
		dst.Mastering = m
	}
	if s.Room != nil {
		if *s.Room < 0 || *s.Room > 1 {
			return fmt.Errorf("room must be in [0,1]")
		}
		dst.Room = *s.Room
	}
	return nil
}

// FromDescriptors builds a record that loads back into d and the normalized opts.
func FromDescriptors(d arrange.Descriptors, opts arrange.Options) Record {
	opts = opts.Normalized()
	f := func(v float64) *float64 { return &v }
	sr := opts.SampleRate
	vol := opts.MasterVolume
	r := Record{
		Features: Features{
			Tempo:            f(d.Tempo),
			Key:              f(float64(d.Key)),
			Mode:             f(float64(d.Mode)),
			Energy:           f(d.Energy),
			Danceability:     f(d.Danceability),
			Valence:          f(d.Valence),
			Acousticness:     f(d.Acousticness),
			Instrumentalness: f(d.Instrumentalness),
			Speechiness:      f(d.Speechiness),
			Loudness:         f(d.Loudness),
		},
		TrackName: d.TrackName,
		Artist:    d.Artist,
		Render: &RenderSettings{
			SampleRate:   &sr,
			MasterVolume: &vol,
			SeedKey:      opts.SeedKey,
			BassVoice:    opts.BassVoice.String(),
			LeadVoice:    opts.LeadVoice.String(),
			Mastering:    opts.Mastering.String(),
		},
	}
	if opts.Room > 0 {
		room := opts.Room
		r.Render.Room = &room
	}
	if opts.Seed != 0 {
		seed := opts.Seed
		r.Render.Seed = &seed
	}
	return r
}

// Save writes r as indented JSON, creating parent directories.
func Save(path string, r Record) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

var (
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Zs}-]`)
	separators  = regexp.MustCompile(`[-\s\p{Zs}]+`)
)

// SanitizeFilename keeps letters, digits and underscores in any script, turns
// runs of spaces and hyphens into underscores and truncates to 50 runes.
func SanitizeFilename(text string) string {
	safe := unsafeChars.ReplaceAllString(text, "")
	safe = separators.ReplaceAllString(safe, "_")
	if r := []rune(safe); len(r) > 50 {
		safe = string(r[:50])
	}
	return safe
}

// OutputName is the WAV filename for a rendered record.
func OutputName(d arrange.Descriptors) string {
	track := SanitizeFilename(d.TrackName)
	if track == "" {
		track = "edm"
	}
	if artist := SanitizeFilename(d.Artist); artist != "" {
		return artist + "_" + track + "_edm_remix.wav"
	}
	return track + "_edm_remix.wav"
}
