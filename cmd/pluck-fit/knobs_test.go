package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-pluck/pluck"
)

func knobNames(defs []knobDef) map[string]bool {
	names := make(map[string]bool, len(defs))
	for _, d := range defs {
		names[d.Name] = true
	}
	return names
}

func TestInitCandidateKnobsFollowEnabledStages(t *testing.T) {
	tests := []struct {
		name    string
		adsr    bool
		lowPass bool
		want    []string
		absent  []string
	}{
		{
			name:   "core only",
			want:   []string{"decay_factor", "stretch_factor"},
			absent: []string{"cutoff_frequency", "attack_time", "release_time"},
		},
		{
			name:    "filter",
			lowPass: true,
			want:    []string{"decay_factor", "stretch_factor", "cutoff_frequency"},
			absent:  []string{"attack_time"},
		},
		{
			name:    "all stages",
			adsr:    true,
			lowPass: true,
			want:    []string{"decay_factor", "stretch_factor", "cutoff_frequency", "attack_time", "decay_time", "sustain_level", "release_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := pluck.NewDefaultConfig()
			base.UseADSR = tt.adsr
			base.UseLowPass = tt.lowPass
			defs, cand := initCandidate(base)
			if len(defs) != len(tt.want) {
				t.Fatalf("defs len = %d, want %d", len(defs), len(tt.want))
			}
			if len(cand.Vals) != len(defs) {
				t.Fatalf("vals len = %d, want %d", len(cand.Vals), len(defs))
			}
			names := knobNames(defs)
			for _, n := range tt.want {
				if !names[n] {
					t.Fatalf("missing knob %q", n)
				}
			}
			for _, n := range tt.absent {
				if names[n] {
					t.Fatalf("unexpected knob %q", n)
				}
			}
			for i, d := range defs {
				if cand.Vals[i] < d.Min || cand.Vals[i] > d.Max {
					t.Fatalf("%s = %f outside [%f,%f]", d.Name, cand.Vals[i], d.Min, d.Max)
				}
			}
		})
	}
}

func TestInitCandidateKeepsEnvelopeInsideDuration(t *testing.T) {
	base := pluck.NewDefaultConfig()
	base.Duration = 0.8
	defs, cand := initCandidate(base)
	if err := applyCandidate(base, defs, cand).Validate(); err != nil {
		t.Fatalf("initial candidate invalid: %v", err)
	}
}

func TestApplyCandidateSetsKnobs(t *testing.T) {
	base := pluck.NewDefaultConfig()
	base.UseLowPass = true
	defs, cand := initCandidate(base)

	want := map[string]float64{
		"decay_factor":     0.99,
		"stretch_factor":   1.05,
		"cutoff_frequency": 1800,
		"attack_time":      0.01,
		"decay_time":       0.4,
		"sustain_level":    0.7,
		"release_time":     0.2,
	}
	for i, d := range defs {
		cand.Vals[i] = want[d.Name]
	}

	got := applyCandidate(base, defs, cand)
	if got.DecayFactor != 0.99 || got.StretchFactor != 1.05 || got.CutoffFrequency != 1800 {
		t.Fatalf("core knobs not applied: %+v", got)
	}
	if got.ADSR != (pluck.ADSR{Attack: 0.01, Decay: 0.4, Sustain: 0.7, Release: 0.2}) {
		t.Fatalf("envelope knobs not applied: %+v", got.ADSR)
	}
	if base.DecayFactor == 0.99 {
		t.Fatalf("base config mutated")
	}
}

func TestFromNormalizedMapsBounds(t *testing.T) {
	defs := []knobDef{{Name: "a", Min: 1, Max: 3}, {Name: "b", Min: -1, Max: 1}}
	got := fromNormalized([]float64{0.5, 2.0}, defs)
	if got.Vals[0] != 2 || got.Vals[1] != 1 {
		t.Fatalf("fromNormalized = %v, want [2 1]", got.Vals)
	}
	got = fromNormalized(nil, defs)
	if got.Vals[0] != 1 || got.Vals[1] != -1 {
		t.Fatalf("fromNormalized(nil) = %v, want minimums", got.Vals)
	}
}

func TestLoadCandidateFromReportBestKnobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rep.json")
	rep := runReport{BestKnobs: map[string]float64{"decay_factor": 0.98, "stretch_factor": 5}}
	b, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	base := pluck.NewDefaultConfig()
	base.UseADSR = false
	defs, fallback := initCandidate(base)
	got, ok, err := loadCandidateFromReport(path, defs, fallback)
	if err != nil || !ok {
		t.Fatalf("loadCandidateFromReport: ok=%v err=%v", ok, err)
	}
	if got.Vals[0] != 0.98 {
		t.Fatalf("decay_factor = %f, want 0.98", got.Vals[0])
	}
	if got.Vals[1] != defs[1].Max {
		t.Fatalf("stretch_factor = %f, want clamped %f", got.Vals[1], defs[1].Max)
	}
}

func TestLoadCandidateFromReportMissingFile(t *testing.T) {
	defs, fallback := initCandidate(pluck.NewDefaultConfig())
	got, ok, err := loadCandidateFromReport(filepath.Join(t.TempDir(), "missing.json"), defs, fallback)
	if err != nil || ok {
		t.Fatalf("expected silent fallback, got ok=%v err=%v", ok, err)
	}
	if len(got.Vals) != len(fallback.Vals) {
		t.Fatalf("fallback not returned")
	}
}

func TestFitDuration(t *testing.T) {
	tests := []struct {
		explicit float64
		frames   int
		want     float64
	}{
		{explicit: 2.5, frames: 44100, want: 2.5},
		{frames: 88200, want: 2},
		{frames: 44100 * 60, want: 12},
		{frames: 100, want: 0.5},
	}
	for _, tt := range tests {
		if got := fitDuration(tt.explicit, tt.frames, 44100); got != tt.want {
			t.Fatalf("fitDuration(%v, %d) = %v, want %v", tt.explicit, tt.frames, got, tt.want)
		}
	}
}
