package fx

import (
	"fmt"
	"math"
	"math/rand"

	dspconv "github.com/cwbudde/algo-dsp/dsp/conv"
	"github.com/cwbudde/algo-edm/dsp"
)

const roomBlockSize = 4096

// RoomIR describes a synthetic stereo room impulse response: sparse early
// reflections over a two-band decaying noise tail.
type RoomIR struct {
	SampleRate int
	Duration   float64
	Seed       int64
	EarlyCount int
	LateLevel  float64
	Width      float64
	Brightness float64
	LowDecay   float64
	HighDecay  float64
	FadeOut    float64
}

// DefaultRoomIR is a short, fairly dry club room.
func DefaultRoomIR(sampleRate int) RoomIR {
	return RoomIR{
		SampleRate: sampleRate,
		Duration:   0.8,
		Seed:       1,
		EarlyCount: 16,
		LateLevel:  0.08,
		Width:      0.7,
		Brightness: 0.9,
		LowDecay:   0.9,
		HighDecay:  0.15,
		FadeOut:    0.01,
	}
}

func (c *RoomIR) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.EarlyCount < 0 || c.LateLevel < 0 || c.Width < 0 {
		return fmt.Errorf("early count, late level and width must be >= 0")
	}
	if c.Brightness <= 0 || c.LowDecay <= 0 || c.HighDecay <= 0 {
		return fmt.Errorf("brightness and decay times must be > 0")
	}
	return nil
}

// Generate renders the left and right impulse responses, peak-normalized to 0.9.
func (c RoomIR) Generate() ([]float32, []float32, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	sr := float64(c.SampleRate)
	n := max(dsp.NumSamples(c.SampleRate, c.Duration), 1)
	left := make([]float64, n)
	right := make([]float64, n)
	rng := rand.New(rand.NewSource(c.Seed))

	// Early reflections in the first 50 ms.
	for i := 0; i < c.EarlyCount; i++ {
		t := 0.001 + 0.049*rng.Float64()
		idx := int(t * sr)
		if idx <= 0 || idx >= n {
			continue
		}
		amp := (0.10 + 0.35*rng.Float64()) * math.Exp(-t*20.0)
		amp *= math.Pow(0.5+0.5*rng.Float64(), 1.0/c.Brightness)
		pan := (rng.Float64()*2.0 - 1.0) * c.Width
		left[idx] += amp * (1.0 - 0.5*pan)
		right[idx] += amp * (1.0 + 0.5*pan)
	}

	if c.LateLevel > 0 {
		air := math.Max(0, 0.3*(c.Brightness-0.3))
		var lpL, lpR, hpL, hpR float64
		for i := 0; i < n; i++ {
			t := float64(i) / sr
			lowEnv := math.Exp(-t / (0.75 * c.LowDecay))
			highEnv := math.Exp(-t / (0.75 * c.HighDecay))
			nL, nR := rng.NormFloat64(), rng.NormFloat64()
			lpL = 0.985*lpL + 0.015*nL
			lpR = 0.985*lpR + 0.015*nR
			hpL = 0.15*nL - 0.15*hpL
			hpR = 0.15*nR - 0.15*hpR
			left[i] += c.LateLevel * (lowEnv*lpL + air*highEnv*hpL)
			right[i] += c.LateLevel * (lowEnv*lpR + air*highEnv*hpR)
		}
	}

	for _, ch := range [][]float64{left, right} {
		blockDC(ch, 0.995)
		fadeOut(ch, c.FadeOut, c.SampleRate)
	}
	peak := math.Max(dsp.Peak(left), dsp.Peak(right))
	if peak < 1e-12 {
		peak = 1e-12
	}
	g := 0.9 / peak
	outL := make([]float32, n)
	outR := make([]float32, n)
	for i := range n {
		outL[i] = float32(left[i] * g)
		outR[i] = float32(right[i] * g)
	}
	return outL, outR, nil
}

func blockDC(x []float64, r float64) {
	var prevIn, prevOut float64
	for i := range x {
		y := x[i] - prevIn + r*prevOut
		prevIn = x[i]
		prevOut = y
		x[i] = y
	}
}

// fadeOut applies a raised-cosine fade to the last sec seconds of x.
func fadeOut(x []float64, sec float64, sampleRate int) {
	n := min(dsp.NumSamples(sampleRate, sec), len(x))
	start := len(x) - n
	for i := 0; i < n; i++ {
		x[start+i] *= 0.5 * (1.0 + math.Cos(math.Pi*float64(i)/float64(n)))
	}
}

// Room is a stereo convolution reverb that widens a mono mix.
type Room struct {
	Left, Right []float32
	Wet, Dry    float64
}

// NewRoom synthesizes ir and returns a Room at the given wet level.
func NewRoom(ir RoomIR, wet float64) (*Room, error) {
	l, r, err := ir.Generate()
	if err != nil {
		return nil, err
	}
	wet = clamp(wet, 0, 1)
	return &Room{Left: l, Right: r, Wet: wet, Dry: 1 - 0.5*wet}, nil
}

// Process convolves x with both impulse responses and returns interleaved
// stereo frames of the same length as x.
func (r *Room) Process(x []float64) ([]float64, error) {
	left, err := convolve(x, r.Left)
	if err != nil {
		return nil, fmt.Errorf("room left: %w", err)
	}
	right, err := convolve(x, r.Right)
	if err != nil {
		return nil, fmt.Errorf("room right: %w", err)
	}
	out := make([]float64, 2*len(x))
	for i, v := range x {
		out[2*i] = r.Dry*v + r.Wet*left[i]
		out[2*i+1] = r.Dry*v + r.Wet*right[i]
	}
	return out, nil
}

// convolve returns the first len(x) samples of x * ir.
func convolve(x []float64, ir []float32) ([]float64, error) {
	if len(x) == 0 {
		return []float64{}, nil
	}
	kernel := make([]float64, max(1, len(ir)))
	if len(ir) == 0 {
		kernel[0] = 1
	}
	for i, v := range ir {
		kernel[i] = float64(v)
	}
	ola, err := dspconv.NewOverlapAdd(kernel, roomBlockSize)
	if err != nil {
		return nil, err
	}
	full, err := ola.Process(x)
	if err != nil {
		return nil, err
	}
	return full[:len(x)], nil
}
