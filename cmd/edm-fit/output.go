package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-edm/analysis"
	"github.com/cwbudde/algo-edm/descriptor"
)

type fitReport struct {
	ReferencePath  string             `json:"reference_path"`
	DescriptorPath string             `json:"descriptor_path,omitempty"`
	OutputPath     string             `json:"output_path"`
	SampleRate     int                `json:"sample_rate"`
	Mastering      string             `json:"mastering"`
	DurationSec    float64            `json:"elapsed_seconds"`
	Evaluations    int                `json:"evaluations"`
	MayflyVariant  string             `json:"mayfly_variant"`
	BestScore      float64            `json:"best_score"`
	BestSimilarity float64            `json:"best_similarity"`
	BestMetrics    analysis.Metrics   `json:"best_metrics"`
	BestKnobs      map[string]float64 `json:"best_knobs"`
	TopCandidates  []topCandidate     `json:"top_candidates,omitempty"`
}

func writeOutputs(cfg *optimizationConfig, res *optimizationResult, referencePath, descriptorPath, outputPath, reportPath string) error {
	if err := descriptor.Save(outputPath, descriptor.FromDescriptors(res.descriptors, res.options)); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	if reportPath == "" {
		reportPath = outputPath + ".report.json"
	}
	report := fitReport{
		ReferencePath:  referencePath,
		DescriptorPath: descriptorPath,
		OutputPath:     outputPath,
		SampleRate:     res.options.SampleRate,
		Mastering:      res.options.Mastering.String(),
		DurationSec:    res.elapsed,
		Evaluations:    res.evals,
		MayflyVariant:  cfg.mayflyVariant,
		BestScore:      res.bestMetrics.Score,
		BestSimilarity: res.bestMetrics.Similarity,
		BestMetrics:    res.bestMetrics,
		BestKnobs:      knobMap(cfg.defs, res.best),
		TopCandidates:  res.top,
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(reportPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(reportPath, append(b, '\n'), 0o644)
}
