package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-pluck/analysis"
	"github.com/cwbudde/algo-pluck/internal/wavio"
	"github.com/cwbudde/algo-pluck/pluck"
	"github.com/cwbudde/algo-pluck/preset"
)

type runReport struct {
	ReferencePath   string             `json:"reference_path"`
	PresetPath      string             `json:"preset_path"`
	OutputPreset    string             `json:"output_preset"`
	SampleRate      int                `json:"sample_rate"`
	Note            int                `json:"note"`
	DurationSec     float64            `json:"elapsed_seconds"`
	Evaluations     int                `json:"evaluations"`
	MayflyVariant   string             `json:"mayfly_variant"`
	BestScore       float64            `json:"best_score"`
	BestSimilarity  float64            `json:"best_similarity"`
	BestMetrics     analysis.Metrics   `json:"best_metrics"`
	BestKnobs       map[string]float64 `json:"best_knobs"`
	CheckpointCount int                `json:"checkpoint_count"`
}

func defaultReportPath(outputPreset string, reportPath string) string {
	if reportPath != "" {
		return reportPath
	}
	return outputPreset + ".report.json"
}

func writeOutputs(
	cfg *optimizationConfig,
	elapsed float64,
	evals int,
	best candidate,
	bestM analysis.Metrics,
	checkpoints int,
) error {
	if err := preset.SaveJSON(cfg.outputPreset, applyCandidate(cfg.base, cfg.defs, best)); err != nil {
		return err
	}

	knobs := make(map[string]float64, len(cfg.defs))
	for i, d := range cfg.defs {
		knobs[d.Name] = best.Vals[i]
	}
	rep := runReport{
		ReferencePath:   cfg.referencePath,
		PresetPath:      cfg.presetPath,
		OutputPreset:    cfg.outputPreset,
		SampleRate:      cfg.base.SampleRate,
		Note:            cfg.note,
		DurationSec:     elapsed,
		Evaluations:     evals,
		MayflyVariant:   cfg.mayflyVariant,
		BestScore:       bestM.Score,
		BestSimilarity:  bestM.Similarity,
		BestMetrics:     bestM.Finite(),
		BestKnobs:       knobs,
		CheckpointCount: checkpoints,
	}
	return writeJSON(defaultReportPath(cfg.outputPreset, cfg.reportPath), rep)
}

func writeBestCandidateSnapshot(path string, base pluck.Config, note int, defs []knobDef, best candidate) error {
	samples, err := pluck.Synthesize(note, applyCandidate(base, defs, best))
	if err != nil {
		return err
	}
	return wavio.WriteMonoWAV(path, samples, base.SampleRate)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
