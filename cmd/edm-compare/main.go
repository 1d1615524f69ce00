// Command edm-compare prints distance metrics between a reference WAV and a
// candidate WAV or a freshly rendered descriptor.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-edm/analysis"
	"github.com/cwbudde/algo-edm/arrange"
	"github.com/cwbudde/algo-edm/descriptor"
	"github.com/cwbudde/algo-edm/internal/wavio"
)

func main() {
	referencePath := flag.String("reference", "", "Reference WAV path")
	candidatePath := flag.String("candidate", "", "Candidate WAV path; if empty, render one from -descriptor")
	descriptorPath := flag.String("descriptor", "", "Descriptor JSON for the rendered candidate (defaults when empty)")
	sampleRate := flag.Int("sample-rate", 22050, "Analysis sample rate in Hz")
	writeCandidate := flag.String("write-candidate", "", "Optional path to write the rendered candidate WAV")
	jsonOut := flag.Bool("json", false, "Print metrics as JSON")
	flag.Parse()

	if *referencePath == "" {
		die("-reference is required")
	}
	ref, err := wavio.ReadMonoAt(*referencePath, *sampleRate)
	if err != nil {
		die("failed to read reference: %v", err)
	}

	var cand []float64
	if *candidatePath != "" {
		cand, err = wavio.ReadMonoAt(*candidatePath, *sampleRate)
		if err != nil {
			die("failed to read candidate: %v", err)
		}
	} else {
		d := arrange.DefaultDescriptors()
		opts := arrange.DefaultOptions()
		if *descriptorPath != "" {
			rec, err := descriptor.Load(*descriptorPath)
			if err != nil {
				die("failed to load descriptor: %v", err)
			}
			d = rec.Descriptors()
			if opts, err = rec.Options(opts); err != nil {
				die("invalid render settings: %v", err)
			}
		}
		opts.SampleRate = *sampleRate
		cand = arrange.Render(d, opts).Samples
		if *writeCandidate != "" {
			if err := wavio.WriteMono(*writeCandidate, cand, *sampleRate); err != nil {
				die("failed to write candidate wav: %v", err)
			}
		}
	}

	metrics := analysis.Compare(ref, cand, *sampleRate)
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(metrics); err != nil {
			die("json encode failed: %v", err)
		}
		return
	}

	fmt.Printf("Reference frames: %d\n", metrics.ReferenceFrames)
	fmt.Printf("Candidate frames: %d\n", metrics.CandidateFrames)
	fmt.Printf("Aligned frames:   %d\n", metrics.AlignedFrames)
	fmt.Printf("Lag:              %d samples (%.3f ms)\n", metrics.LagSamples, 1000.0*float64(metrics.LagSamples)/float64(metrics.SampleRate))
	fmt.Println()
	fmt.Printf("Component        Raw          Norm   Weight  Contribution\n")
	fmt.Printf("─────────────────────────────────────────────────────────\n")
	printComp := func(name string, raw string, norm, weight float64, dominant bool) {
		marker := ""
		if dominant {
			marker = " ◄"
		}
		fmt.Printf("%-16s %-12s %5.1f%%  ×%.2f   → %.4f%s\n", name, raw, norm*100, weight, norm*weight, marker)
	}
	printComp("Time RMSE", fmt.Sprintf("%.6f", metrics.TimeRMSE), metrics.TimeNorm, analysis.WeightTime, metrics.Dominant == "time")
	printComp("Envelope RMSE", fmt.Sprintf("%.1f dB", metrics.EnvelopeRMSEDB), metrics.EnvelopeNorm, analysis.WeightEnvelope, metrics.Dominant == "envelope")
	printComp("Spectral RMSE", fmt.Sprintf("%.1f dB", metrics.SpectralRMSEDB), metrics.SpectralNorm, analysis.WeightSpectral, metrics.Dominant == "spectral")
	printComp("Band RMSE", fmt.Sprintf("%.1f dB", metrics.BandRMSEDB), metrics.BandNorm, analysis.WeightBand, metrics.Dominant == "band")
	printComp("Level diff", fmt.Sprintf("%.1f dB", metrics.LevelDiffDB), metrics.LevelNorm, analysis.WeightLevel, metrics.Dominant == "level")
	fmt.Printf("─────────────────────────────────────────────────────────\n")
	fmt.Printf("Score:            %.4f  (0 best, 1 worst)\n", metrics.Score)
	fmt.Printf("Similarity:       %.2f%%\n", metrics.Similarity*100.0)
	if metrics.Dominant != "" {
		fmt.Printf("Dominant factor:  %s\n", metrics.Dominant)
	}

	refStats := analysis.Measure(ref, *sampleRate)
	candStats := analysis.Measure(cand, *sampleRate)
	fmt.Printf("\nLevels: ref peak %.1f dBFS rms %.1f dBFS  cand peak %.1f dBFS rms %.1f dBFS\n",
		refStats.PeakDB, refStats.RMSDB, candStats.PeakDB, candStats.RMSDB)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
