// Package analysis measures how far a rendered track is from a reference.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dsp/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
)

const (
	envFrame = 256
	envHop   = 128
	fftSize  = 4096
	fftHop   = 2048
)

// Score weights of the normalized components.
const (
	WeightTime     = 0.15
	WeightEnvelope = 0.25
	WeightSpectral = 0.25
	WeightBand     = 0.25
	WeightLevel    = 0.10
)

// Band is a named frequency range used for band-energy comparison.
type Band struct {
	Name string
	LoHz float64
	HiHz float64
}

// Bands split the mix the way a dance track is usually balanced.
var Bands = []Band{
	{"sub", 20, 60},
	{"bass", 60, 250},
	{"low_mid", 250, 1000},
	{"mid", 1000, 4000},
	{"presence", 4000, 8000},
	{"air", 8000, 16000},
}

// Metrics contains distance and similarity measurements between two audio signals.
type Metrics struct {
	SampleRate int `json:"sample_rate"`

	ReferenceFrames int `json:"reference_frames"`
	CandidateFrames int `json:"candidate_frames"`
	AlignedFrames   int `json:"aligned_frames"`
	LagSamples      int `json:"lag_samples"`

	LevelDiffDB    float64 `json:"level_diff_db"`
	TimeRMSE       float64 `json:"time_rmse"`
	EnvelopeRMSEDB float64 `json:"envelope_rmse_db"`
	SpectralRMSEDB float64 `json:"spectral_rmse_db"`
	BandRMSEDB     float64 `json:"band_rmse_db"`

	TimeNorm     float64 `json:"time_norm"`
	EnvelopeNorm float64 `json:"envelope_norm"`
	SpectralNorm float64 `json:"spectral_norm"`
	BandNorm     float64 `json:"band_norm"`
	LevelNorm    float64 `json:"level_norm"`
	// Dominant names the component with the largest weighted contribution.
	Dominant string `json:"dominant,omitempty"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

// Compare returns objective distance metrics and a combined score in [0,1].
// Lower Score is closer.
func Compare(reference []float64, candidate []float64, sampleRate int) Metrics {
	m := Metrics{
		SampleRate:      sampleRate,
		ReferenceFrames: len(reference),
		CandidateFrames: len(candidate),
	}
	if sampleRate <= 0 || len(reference) == 0 || len(candidate) == 0 {
		return worst(m)
	}

	ref := trimLeadingSilence(reference, 1e-6)
	cand := trimLeadingSilence(candidate, 1e-6)
	if len(ref) == 0 || len(cand) == 0 {
		return worst(m)
	}
	m.LevelDiffDB = math.Abs(linToDB(rms1(ref)) - linToDB(rms1(cand)))

	ref = normalizeRMS(ref, 0.1)
	cand = normalizeRMS(cand, 0.1)

	lag := estimateLag(ref, cand, sampleRate)
	m.LagSamples = lag

	refA, candA := alignByLag(ref, cand, lag)
	n := min(len(refA), len(candA))
	if n < envFrame {
		return worst(m)
	}
	if maxFrames := sampleRate * 40; n > maxFrames {
		n = maxFrames
	}
	refA = refA[:n]
	candA = candA[:n]
	m.AlignedFrames = n

	m.TimeRMSE = rmse(refA, candA)

	refEnv := rmsEnvelope(refA, envFrame, envHop)
	candEnv := rmsEnvelope(candA, envFrame, envHop)
	if envN := min(len(refEnv), len(candEnv)); envN > 0 {
		envDiff := make([]float64, envN)
		for i := range envN {
			envDiff[i] = linToDB(refEnv[i]) - linToDB(candEnv[i])
		}
		m.EnvelopeRMSEDB = rms1(envDiff)
	}

	refSpec := averageSpectrum(refA)
	candSpec := averageSpectrum(candA)
	m.SpectralRMSEDB = spectrumRMSEDB(refSpec, candSpec)
	m.BandRMSEDB = bandRMSEDB(refSpec, candSpec, sampleRate)

	m.TimeNorm = clamp01(m.TimeRMSE / 0.25)
	m.EnvelopeNorm = clamp01(m.EnvelopeRMSEDB / 30.0)
	m.SpectralNorm = clamp01(m.SpectralRMSEDB / 30.0)
	m.BandNorm = clamp01(m.BandRMSEDB / 20.0)
	m.LevelNorm = clamp01(m.LevelDiffDB / 24.0)
	parts := []struct {
		name string
		v    float64
	}{
		{"time", WeightTime * m.TimeNorm},
		{"envelope", WeightEnvelope * m.EnvelopeNorm},
		{"spectral", WeightSpectral * m.SpectralNorm},
		{"band", WeightBand * m.BandNorm},
		{"level", WeightLevel * m.LevelNorm},
	}
	var total, top float64
	for _, p := range parts {
		total += p.v
		if p.v > top {
			top = p.v
			m.Dominant = p.name
		}
	}
	m.Score = clamp01(total)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))

	return m
}

func worst(m Metrics) Metrics {
	m.Score = 1.0
	m.Similarity = 0.0
	return m
}

func trimLeadingSilence(x []float64, threshold float64) []float64 {
	for i := 0; i < len(x); i++ {
		if math.Abs(x[i]) > threshold {
			return x[i:]
		}
	}
	return nil
}

func normalizeRMS(x []float64, target float64) []float64 {
	if len(x) == 0 {
		return x
	}
	r := rms1(x)
	if r <= 1e-12 {
		return append([]float64(nil), x...)
	}
	g := target / r
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] * g
	}
	return out
}

// estimateLag cross-correlates the RMS envelopes of both signals with an
// FFT convolution and returns the lag in samples, limited to half a second.
// A positive lag means the reference starts later.
func estimateLag(ref []float64, cand []float64, sampleRate int) int {
	refEnv := centered(rmsEnvelope(ref, envFrame, envHop))
	candEnv := centered(rmsEnvelope(cand, envFrame, envHop))
	if len(refEnv) < 2 || len(candEnv) < 2 {
		return 0
	}
	maxLag := max(sampleRate/2/envHop, 1)

	rev := make([]float32, len(candEnv))
	for i, v := range candEnv {
		rev[len(candEnv)-1-i] = v
	}
	xc := make([]float32, len(refEnv)+len(rev)-1)
	if err := algofft.ConvolveReal(xc, refEnv, rev); err != nil {
		return 0
	}

	zero := len(candEnv) - 1
	best := float32(math.Inf(-1))
	bestLag := 0
	for k := -maxLag; k <= maxLag; k++ {
		i := zero + k
		if i < 0 || i >= len(xc) {
			continue
		}
		if xc[i] > best {
			best = xc[i]
			bestLag = k
		}
	}
	return bestLag * envHop
}

func centered(env []float64) []float32 {
	if len(env) == 0 {
		return nil
	}
	var mean float64
	for _, v := range env {
		mean += v
	}
	mean /= float64(len(env))
	out := make([]float32, len(env))
	for i, v := range env {
		out[i] = float32(v - mean)
	}
	return out
}

func alignByLag(ref []float64, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(ref) {
			return nil, nil
		}
		return ref[lag:], cand
	}
	o := -lag
	if o >= len(cand) {
		return nil, nil
	}
	return ref, cand[o:]
}

func rmse(a []float64, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

func rms1(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func rmsEnvelope(x []float64, frame int, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = rms1(x[start : start+frame])
	}
	return out
}

// averageSpectrum is the mean Hann-windowed STFT magnitude. Signals shorter
// than one frame use the largest power-of-two prefix.
func averageSpectrum(x []float64) []float64 {
	size := fftSize
	for size > len(x) {
		size >>= 1
	}
	if size < 512 {
		return nil
	}
	hop := size / 2
	plan, err := algofft.NewPlanReal64(size)
	if err != nil {
		return nil
	}

	hann := window.Generate(window.TypeHann, size, window.WithPeriodic())
	if len(hann) != size {
		return nil
	}
	bins := make([]complex128, size/2+1)
	buf := make([]float64, size)
	avg := make([]float64, size/2)
	frames := 0
	for pos := 0; pos+size <= len(x); pos += hop {
		for i := range size {
			buf[i] = x[pos+i] * hann[i]
		}
		if err := plan.Forward(bins, buf); err != nil {
			return nil
		}
		for k := 1; k < len(avg); k++ {
			avg[k] += cmplx.Abs(bins[k])
		}
		frames++
	}
	if frames == 0 {
		return nil
	}
	for k := range avg {
		avg[k] /= float64(frames)
	}
	return avg
}

func spectrumRMSEDB(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n < 2 {
		return 0
	}
	var sum float64
	for k := 1; k < n; k++ {
		d := linToDB(a[k]) - linToDB(b[k])
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// bandEnergies sums the power of the half spectrum mag into Bands.
func bandEnergies(mag []float64, sampleRate int) []float64 {
	out := make([]float64, len(Bands))
	if len(mag) == 0 || sampleRate <= 0 {
		return out
	}
	binHz := float64(sampleRate) / float64(2*len(mag))
	for k := 1; k < len(mag); k++ {
		f := float64(k) * binHz
		for b, band := range Bands {
			if f >= band.LoHz && f < band.HiHz {
				out[b] += mag[k] * mag[k]
				break
			}
		}
	}
	return out
}

func bandRMSEDB(a, b []float64, sampleRate int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ea := bandEnergies(a, sampleRate)
	eb := bandEnergies(b, sampleRate)
	var sum float64
	for i := range ea {
		d := powToDB(ea[i]) - powToDB(eb[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(ea)))
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func powToDB(x float64) float64 {
	if x < 1e-24 {
		x = 1e-24
	}
	return 10.0 * math.Log10(x)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
