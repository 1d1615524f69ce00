// Command edm-fit searches descriptor values whose rendered track sounds
// closest to a reference WAV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/cwbudde/algo-edm/arrange"
	"github.com/cwbudde/algo-edm/descriptor"
	"github.com/cwbudde/algo-edm/internal/wavio"
)

func main() {
	referencePath := flag.String("reference", "", "Reference WAV path")
	descriptorPath := flag.String("descriptor", "", "Base descriptor JSON (optional)")
	outputPath := flag.String("output", "out/fitted.json", "Path to write the fitted descriptor JSON")
	reportPath := flag.String("report", "", "Optional report JSON path (default: <output>.report.json)")
	optimize := flag.String("optimize", "mood,mix", "Comma-separated knob groups to optimize: mood, tempo, key, mix")
	sampleRate := flag.Int("sample-rate", 22050, "Render/analysis sample rate")
	mastering := flag.String("mastering", "simple", "Mastering chain: simple or bus")
	seed := flag.Int64("seed", 1, "Random seed for the optimizer")
	timeBudget := flag.Float64("time-budget", 120.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 400, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 20, "Print progress every N evaluations")
	topK := flag.Int("top-k", 5, "How many top candidates to keep in report")
	workers := flag.String("workers", "1", "Parallel optimization workers running independent Mayfly rounds (number or 'auto')")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 8, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 80, "Target eval budget per Mayfly round")
	flag.Parse()

	if *referencePath == "" {
		die("-reference is required")
	}
	groups, err := parseOptimizeGroups(*optimize)
	if err != nil {
		die("invalid -optimize: %v", err)
	}
	if *maxEvals < 1 {
		die("max-evals must be >= 1")
	}
	if *timeBudget <= 0 {
		die("time-budget must be > 0")
	}
	if *sampleRate < 8000 {
		die("sample-rate must be >= 8000")
	}
	if *reportEvery < 1 {
		*reportEvery = 1
	}
	if *mayflyPop < 2 {
		*mayflyPop = 2
	}
	if *mayflyRoundEvals < *mayflyPop*2 {
		*mayflyRoundEvals = *mayflyPop * 2
	}
	if *topK < 1 {
		*topK = 1
	}
	parsedWorkers, err := wavio.ParseWorkers(*workers)
	if err != nil {
		die("invalid workers value: %v", err)
	}
	if parsedWorkers == 0 {
		parsedWorkers = runtime.NumCPU()
	}

	base := arrange.DefaultDescriptors()
	opts := arrange.DefaultOptions()
	if *descriptorPath != "" {
		rec, err := descriptor.Load(*descriptorPath)
		if err != nil {
			die("failed to load descriptor: %v", err)
		}
		base = rec.Descriptors()
		if opts, err = rec.Options(opts); err != nil {
			die("invalid render settings: %v", err)
		}
	}
	opts.SampleRate = *sampleRate
	if opts.Mastering, err = arrange.ParseMastering(*mastering); err != nil {
		die("invalid -mastering: %v", err)
	}

	reference, err := wavio.ReadMonoAt(*referencePath, *sampleRate)
	if err != nil {
		die("failed to read reference: %v", err)
	}

	defs, start := initCandidate(base, opts, groups)
	cfg := &optimizationConfig{
		reference:        reference,
		base:             base,
		opts:             opts,
		defs:             defs,
		initCandidate:    start,
		seed:             *seed,
		timeBudget:       *timeBudget,
		maxEvals:         *maxEvals,
		reportEvery:      *reportEvery,
		mayflyVariant:    *mayflyVariant,
		mayflyPop:        *mayflyPop,
		mayflyRoundEvals: *mayflyRoundEvals,
		workers:          parsedWorkers,
		topK:             *topK,
	}

	fmt.Printf("Fitting %d knobs against %s at %d Hz (%d worker(s))\n", len(defs), *referencePath, *sampleRate, parsedWorkers)
	res, err := runOptimization(context.Background(), cfg)
	if err != nil {
		die("optimization failed: %v", err)
	}
	if err := writeOutputs(cfg, res, *referencePath, *descriptorPath, *outputPath, *reportPath); err != nil {
		die("failed to write outputs: %v", err)
	}

	fmt.Printf("Done evals=%d elapsed=%.1fs best score=%.4f similarity=%.2f%%\n", res.evals, res.elapsed, res.bestMetrics.Score, res.bestMetrics.Similarity*100.0)
	for i, d := range defs {
		fmt.Printf("  %-14s %.4f\n", d.Name, res.best.Vals[i])
	}
	fmt.Printf("Wrote %s\n", *outputPath)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
