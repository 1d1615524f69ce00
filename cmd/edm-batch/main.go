// Command edm-batch renders every record of a descriptor batch file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-edm/arrange"
	"github.com/cwbudde/algo-edm/descriptor"
	"github.com/cwbudde/algo-edm/internal/wavio"
	"golang.org/x/sync/errgroup"
)

type batchConfig struct {
	outDir    string
	workers   int
	base      arrange.Options
	stereo    bool
	overwrite bool
}

type batchResult struct {
	Path     string
	Duration float64
	Err      error
}

// uniqueNames assigns each record its output filename, suffixing repeats
// with _2, _3 and so on.
func uniqueNames(recs []descriptor.Record) []string {
	seen := make(map[string]int, len(recs))
	names := make([]string, len(recs))
	for i, r := range recs {
		name := descriptor.OutputName(r.Descriptors())
		seen[name]++
		if n := seen[name]; n > 1 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s_%d%s", name[:len(name)-len(ext)], n, ext)
		}
		names[i] = name
	}
	return names
}

func renderBatch(recs []descriptor.Record, cfg batchConfig) []batchResult {
	results := make([]batchResult, len(recs))
	names := uniqueNames(recs)

	var done int64
	var printMu sync.Mutex
	var g errgroup.Group
	g.SetLimit(max(cfg.workers, 1))
	for i, rec := range recs {
		g.Go(func() error {
			res := renderOne(rec, filepath.Join(cfg.outDir, names[i]), cfg)
			results[i] = res
			n := atomic.AddInt64(&done, 1)
			printMu.Lock()
			if res.Err != nil {
				fmt.Fprintf(os.Stderr, "[%d/%d] %s: %v\n", n, len(recs), names[i], res.Err)
			} else {
				fmt.Printf("[%d/%d] %s (%.1fs)\n", n, len(recs), res.Path, res.Duration)
			}
			printMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func renderOne(rec descriptor.Record, path string, cfg batchConfig) batchResult {
	res := batchResult{Path: path}
	if !cfg.overwrite {
		if _, err := os.Stat(path); err == nil {
			res.Err = fmt.Errorf("exists (use -overwrite)")
			return res
		}
	}
	opts, err := rec.Options(cfg.base)
	if err != nil {
		res.Err = err
		return res
	}
	t := arrange.Render(rec.Descriptors(), opts)
	if cfg.stereo {
		err = wavio.WriteStereo(path, t.Stereo(), t.SampleRate)
	} else {
		err = wavio.WriteMono(path, t.Samples, t.SampleRate)
	}
	res.Err = err
	res.Duration = t.Duration()
	return res
}

func main() {
	input := flag.String("input", "", "Batch JSON: an array of records or {\"tracks\": [...]}")
	outDir := flag.String("out-dir", "out/batch", "Directory for rendered WAV files")
	workers := flag.String("workers", "auto", "Parallel renders (number or 'auto')")
	sampleRate := flag.Int("sample-rate", 44100, "Default render sample rate in Hz")
	mastering := flag.String("mastering", "simple", "Default mastering chain: simple|bus")
	stereo := flag.Bool("stereo", false, "Write two-channel WAV files")
	overwrite := flag.Bool("overwrite", false, "Replace existing output files")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		os.Exit(2)
	}
	n, err := wavio.ParseWorkers(*workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid workers value: %v\n", err)
		os.Exit(2)
	}
	if n == 0 {
		n = runtime.NumCPU()
	}
	base := arrange.DefaultOptions()
	base.SampleRate = *sampleRate
	if base.Mastering, err = arrange.ParseMastering(*mastering); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	recs, err := descriptor.LoadBatch(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading batch: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	fmt.Printf("Rendering %d tracks with %d worker(s) into %s\n", len(recs), n, *outDir)
	start := time.Now()
	results := renderBatch(recs, batchConfig{
		outDir:    *outDir,
		workers:   n,
		base:      base,
		stereo:    *stereo,
		overwrite: *overwrite,
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	fmt.Printf("Done: %d rendered, %d failed in %.1fs\n", len(results)-failed, failed, time.Since(start).Seconds())
	if failed > 0 {
		os.Exit(1)
	}
}
