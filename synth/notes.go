package synth

import "fmt"

// NoteEvent is one pitched note. Start and Duration are in seconds, Velocity in [0,1].
type NoteEvent struct {
	Pitch    int
	Start    float64
	Duration float64
	Velocity float64
}

// End returns Start + Duration.
func (n NoteEvent) End() float64 { return n.Start + n.Duration }

// Voice selects a pitched synthesizer.
type Voice int

const (
	// DefaultVoice defers to the default voice of the slot it is used in.
	DefaultVoice Voice = iota
	SubBass
	SawBass
	FMBass
	Supersaw
	Pluck
	Arp
)

var voiceNames = [...]string{"default", "sub_bass", "saw_bass", "fm_bass", "supersaw", "pluck", "arp"}

func (v Voice) String() string {
	if v < 0 || int(v) >= len(voiceNames) {
		return fmt.Sprintf("voice(%d)", int(v))
	}
	return voiceNames[v]
}

// IsBass reports whether v is one of the bass voices.
func (v Voice) IsBass() bool { return v >= SubBass && v <= FMBass }

// IsLead reports whether v is one of the lead voices.
func (v Voice) IsLead() bool { return v >= Supersaw && v <= Arp }

// ParseVoice resolves a voice name. "bass" and "lead" select the default
// voice of each family.
func ParseVoice(name string) (Voice, error) {
	switch name {
	case "bass":
		return SawBass, nil
	case "lead":
		return Supersaw, nil
	}
	for v := SubBass; v <= Arp; v++ {
		if voiceNames[v] == name {
			return v, nil
		}
	}
	return DefaultVoice, fmt.Errorf("unknown voice %q", name)
}
