package main

import (
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-pluck/analysis"
	"github.com/cwbudde/algo-pluck/internal/wavio"
	"github.com/cwbudde/algo-pluck/pluck"
	"github.com/cwbudde/algo-pluck/preset"
)

func TestRenderedCandidateMatchesItsOwnRecording(t *testing.T) {
	dir := t.TempDir()
	cfg := pluck.NewDefaultConfig()
	cfg.Duration = 1.0
	cfg.ADSR = pluck.ADSR{Decay: 0.3, Sustain: 0.5, Release: 0.2}
	presetPath := filepath.Join(dir, "p.json")
	if err := preset.SaveJSON(presetPath, cfg); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	cand, err := renderCandidate(presetPath, 64, 3, 44100)
	if err != nil {
		t.Fatalf("renderCandidate: %v", err)
	}
	wavPath := filepath.Join(dir, "ref.wav")
	if err := wavio.WriteMonoWAV(wavPath, cand, 44100); err != nil {
		t.Fatalf("WriteMonoWAV: %v", err)
	}
	ref, err := loadResampled(wavPath, 44100)
	if err != nil {
		t.Fatalf("loadResampled: %v", err)
	}
	if len(ref) != len(cand) {
		t.Fatalf("reference len = %d, want %d", len(ref), len(cand))
	}

	m := analysis.Compare(ref, cand, 44100)
	if m.Score > 0.1 {
		t.Fatalf("score of a recording against its source = %f", m.Score)
	}
	if m.LagSamples < -1 || m.LagSamples > 1 {
		t.Fatalf("lag = %d, want aligned", m.LagSamples)
	}
}

func TestRenderCandidateRejectsMissingPreset(t *testing.T) {
	if _, err := renderCandidate(filepath.Join(t.TempDir(), "none.json"), 60, 1, 44100); err == nil {
		t.Fatalf("expected error")
	}
}
