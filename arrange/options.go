package arrange

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/cwbudde/algo-edm/synth"
)

// Mastering selects how the stems are combined.
type Mastering int

const (
	// MasteringSimple weights drums, bass and lead 1.0/0.75/0.55, peak-normalizes
	// and soft-limits with tanh(1.5x)·0.92.
	MasteringSimple Mastering = iota
	// MasteringBus adds kick sidechain, lead reverb, delay and chorus, and runs
	// the stems through the compressed mix bus with a hall.
	MasteringBus
)

func (m Mastering) String() string {
	switch m {
	case MasteringSimple:
		return "simple"
	case MasteringBus:
		return "bus"
	}
	return fmt.Sprintf("mastering(%d)", int(m))
}

func ParseMastering(s string) (Mastering, error) {
	switch s {
	case "simple", "":
		return MasteringSimple, nil
	case "bus":
		return MasteringBus, nil
	}
	return 0, fmt.Errorf("unknown mastering %q", s)
}

// Options is the caller-facing render configuration.
type Options struct {
	SampleRate int
	// MasterVolume is the peak level fed to the final soft limiter in both
	// mastering chains.
	MasterVolume float64
	// SeedKey, when set, is hashed into the seed and wins over Seed.
	SeedKey string
	// Seed is used as is when non-zero and SeedKey is empty.
	Seed      int64
	BassVoice synth.Voice
	LeadVoice synth.Voice
	Mastering Mastering
	// Room is the wet level of the stereo room convolution, 0 disables it.
	// It only affects Track.Stereo.
	Room float64
}

func DefaultOptions() Options {
	return Options{
		SampleRate:   44100,
		MasterVolume: 0.8,
		BassVoice:    synth.SawBass,
		LeadVoice:    synth.Supersaw,
		Mastering:    MasteringSimple,
	}
}

// Normalized repairs fields a zero or invalid Options would otherwise render
// wrongly: the sample rate, a non-positive or NaN master volume, and voices
// outside their slot's family fall back to DefaultOptions.
func (o Options) Normalized() Options {
	def := DefaultOptions()
	if o.SampleRate < 8000 {
		o.SampleRate = def.SampleRate
	}
	if !(o.MasterVolume > 0) {
		o.MasterVolume = def.MasterVolume
	}
	o.MasterVolume = math.Min(o.MasterVolume, 1)
	if !o.BassVoice.IsBass() {
		o.BassVoice = def.BassVoice
	}
	if !o.LeadVoice.IsLead() {
		o.LeadVoice = def.LeadVoice
	}
	if !(o.Room > 0) {
		o.Room = 0
	}
	o.Room = math.Min(o.Room, 1)
	return o
}

// HashSeed is the 64-bit FNV-1a hash of key.
func HashSeed(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64())
}

// ResolveSeed picks the generator seed: SeedKey, then Seed, then the track
// name, then "edm".
func ResolveSeed(d Descriptors, opts Options) int64 {
	switch {
	case opts.SeedKey != "":
		return HashSeed(opts.SeedKey)
	case opts.Seed != 0:
		return opts.Seed
	case d.TrackName != "":
		return HashSeed(d.TrackName)
	}
	return HashSeed("edm")
}
