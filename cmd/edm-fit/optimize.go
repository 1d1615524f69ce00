package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-edm/analysis"
	"github.com/cwbudde/algo-edm/arrange"
	"github.com/cwbudde/mayfly"
	"golang.org/x/sync/errgroup"
)

type topCandidate struct {
	Eval       int                `json:"eval"`
	Score      float64            `json:"score"`
	Similarity float64            `json:"similarity"`
	Knobs      map[string]float64 `json:"knobs"`
}

type optimizationConfig struct {
	reference        []float64
	base             arrange.Descriptors
	opts             arrange.Options
	defs             []knobDef
	initCandidate    candidate
	seed             int64
	timeBudget       float64
	maxEvals         int
	reportEvery      int
	mayflyVariant    string
	mayflyPop        int
	mayflyRoundEvals int
	workers          int
	topK             int
}

type optimizationResult struct {
	best        candidate
	bestMetrics analysis.Metrics
	descriptors arrange.Descriptors
	options     arrange.Options
	top         []topCandidate
	evals       int
	elapsed     float64
}

type optimizationState struct {
	mu      sync.Mutex
	best    candidate
	metrics analysis.Metrics
	top     []topCandidate
}

func (s *optimizationState) bestScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.Score
}

func runOptimization(ctx context.Context, cfg *optimizationConfig) (*optimizationResult, error) {
	start := time.Now()
	deadline := start.Add(time.Duration(cfg.timeBudget * float64(time.Second)))
	variant := strings.ToLower(cfg.mayflyVariant)
	if _, err := newMayflyConfig(variant, cfg.mayflyPop, max(len(cfg.defs), 1), 1); err != nil {
		return nil, err
	}

	initial := evaluateCandidate(cfg, cfg.initCandidate)
	fmt.Printf("Start score=%.4f similarity=%.2f%%\n", initial.Score, initial.Similarity*100.0)

	state := &optimizationState{
		best:    cloneCandidate(cfg.initCandidate),
		metrics: initial,
		top:     updateTopCandidates(nil, cfg.topK, 1, initial, cfg.defs, cfg.initCandidate),
	}

	var evals int64 = 1
	var rounds int64
	var improves int64

	workers := max(cfg.workers, 1)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				if ctx.Err() != nil || time.Now().After(deadline) {
					return nil
				}
				remaining := cfg.maxEvals - int(atomic.LoadInt64(&evals))
				if remaining <= 0 {
					return nil
				}
				round := int(atomic.AddInt64(&rounds, 1))
				budget := min(cfg.mayflyRoundEvals, remaining)
				iters := max(1, budget/(2*cfg.mayflyPop))

				mc, err := newMayflyConfig(variant, cfg.mayflyPop, len(cfg.defs), iters)
				if err != nil {
					return err
				}
				mc.Rand = rand.New(rand.NewSource(cfg.seed + int64(round)*7919))
				mc.ObjectiveFunc = func(pos []float64) float64 {
					if ctx.Err() != nil || time.Now().After(deadline) {
						return state.bestScore() + 1.0
					}
					evalNum, ok := reserveEval(&evals, cfg.maxEvals)
					if !ok {
						return state.bestScore() + 1.0
					}

					cand := fromNormalized(pos, cfg.defs)
					m := evaluateCandidate(cfg, cand)

					state.mu.Lock()
					state.top = updateTopCandidates(state.top, cfg.topK, int(evalNum), m, cfg.defs, cand)
					improved := m.Score < state.metrics.Score
					if improved {
						state.best = cloneCandidate(cand)
						state.metrics = m
					}
					bestScore := state.metrics.Score
					state.mu.Unlock()

					if improved {
						n := atomic.AddInt64(&improves, 1)
						fmt.Printf("Improved #%d eval=%d score=%.4f sim=%.2f%%\n", n, evalNum, m.Score, m.Similarity*100.0)
					}
					if cfg.reportEvery > 0 && evalNum%int64(cfg.reportEvery) == 0 {
						fmt.Printf("Progress eval=%d/%d elapsed=%.1fs best=%.4f\n", evalNum, cfg.maxEvals, time.Since(start).Seconds(), bestScore)
					}
					return m.Score
				}

				if _, err := runMayfly(mc); err != nil {
					fmt.Fprintf(os.Stderr, "mayfly round %d failed: %v\n", round, err)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	d, opts := applyCandidate(cfg.base, cfg.opts, cfg.defs, state.best)
	return &optimizationResult{
		best:        cloneCandidate(state.best),
		bestMetrics: state.metrics,
		descriptors: d,
		options:     opts,
		top:         cloneTopCandidates(state.top),
		evals:       int(atomic.LoadInt64(&evals)),
		elapsed:     time.Since(start).Seconds(),
	}, nil
}

func evaluateCandidate(cfg *optimizationConfig, cand candidate) analysis.Metrics {
	d, opts := applyCandidate(cfg.base, cfg.opts, cfg.defs, cand)
	track := arrange.Render(d, opts)
	return analysis.Compare(cfg.reference, track.Samples, track.SampleRate)
}

func cloneCandidate(c candidate) candidate {
	return candidate{Vals: append([]float64(nil), c.Vals...)}
}

func cloneTopCandidates(in []topCandidate) []topCandidate {
	out := make([]topCandidate, len(in))
	for i, e := range in {
		out[i] = e
		out[i].Knobs = make(map[string]float64, len(e.Knobs))
		for k, v := range e.Knobs {
			out[i].Knobs[k] = v
		}
	}
	return out
}

func newMayflyConfig(variant string, pop int, dims int, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = max(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func reserveEval(evals *int64, maxEvals int) (int64, bool) {
	for {
		cur := atomic.LoadInt64(evals)
		if cur >= int64(maxEvals) {
			return 0, false
		}
		if atomic.CompareAndSwapInt64(evals, cur, cur+1) {
			return cur + 1, true
		}
	}
}

// updateTopCandidates keeps the topK lowest-score entries, best first.
func updateTopCandidates(top []topCandidate, topK int, eval int, m analysis.Metrics, defs []knobDef, cand candidate) []topCandidate {
	top = append(top, topCandidate{
		Eval:       eval,
		Score:      m.Score,
		Similarity: m.Similarity,
		Knobs:      knobMap(defs, cand),
	})
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score < top[j].Score })
	if len(top) > topK {
		top = top[:topK]
	}
	return top
}
