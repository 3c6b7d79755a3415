package main

import (
	"encoding/json"
	"errors"
	"math"
	"os"

	"github.com/cwbudde/algo-pluck/pluck"
)

type knobDef struct {
	Name string
	Min  float64
	Max  float64
}

type candidate struct {
	Vals []float64
}

// initCandidate lists the knobs for the stages enabled in base and seeds them
// from base.
func initCandidate(base pluck.Config) ([]knobDef, candidate) {
	defs := []knobDef{
		{Name: "decay_factor", Min: 0.95, Max: 0.99999},
		{Name: "stretch_factor", Min: 0.9, Max: 1.1},
	}
	vals := []float64{base.DecayFactor, base.StretchFactor}

	if base.UseLowPass {
		defs = append(defs, knobDef{Name: "cutoff_frequency", Min: 200, Max: 0.45 * float64(base.SampleRate)})
		vals = append(vals, base.CutoffFrequency)
	}
	if base.UseADSR {
		defs = append(defs,
			knobDef{Name: "attack_time", Min: 0, Max: 0.05},
			knobDef{Name: "decay_time", Min: 0, Max: 0.6 * base.Duration},
			knobDef{Name: "sustain_level", Min: 0, Max: 1},
			knobDef{Name: "release_time", Min: 0, Max: 0.3 * base.Duration},
		)
		vals = append(vals, base.ADSR.Attack, base.ADSR.Decay, base.ADSR.Sustain, base.ADSR.Release)
	}

	for i := range vals {
		vals[i] = clamp(vals[i], defs[i].Min, defs[i].Max)
	}
	return defs, candidate{Vals: vals}
}

func applyCandidate(base pluck.Config, defs []knobDef, c candidate) pluck.Config {
	cfg := base
	for i, def := range defs {
		v := c.Vals[i]
		switch def.Name {
		case "decay_factor":
			cfg.DecayFactor = v
		case "stretch_factor":
			cfg.StretchFactor = v
		case "cutoff_frequency":
			cfg.CutoffFrequency = v
		case "attack_time":
			cfg.ADSR.Attack = v
		case "decay_time":
			cfg.ADSR.Decay = v
		case "sustain_level":
			cfg.ADSR.Sustain = v
		case "release_time":
			cfg.ADSR.Release = v
		}
	}
	return cfg
}

func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i := range defs {
		x := 0.0
		if i < len(pos) {
			x = clamp(pos[i], 0, 1)
		}
		vals[i] = defs[i].Min + x*(defs[i].Max-defs[i].Min)
	}
	return candidate{Vals: vals}
}

func cloneCandidate(c candidate) candidate {
	vals := make([]float64, len(c.Vals))
	copy(vals, c.Vals)
	return candidate{Vals: vals}
}

func loadCandidateFromReport(path string, defs []knobDef, fallback candidate) (candidate, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback, false, nil
		}
		return fallback, false, err
	}
	var rep runReport
	if err := json.Unmarshal(b, &rep); err != nil {
		return fallback, false, err
	}
	if len(rep.BestKnobs) == 0 {
		return fallback, false, nil
	}

	vals := make([]float64, len(fallback.Vals))
	copy(vals, fallback.Vals)
	updated := false
	for i, d := range defs {
		if v, ok := rep.BestKnobs[d.Name]; ok && !math.IsNaN(v) {
			vals[i] = clamp(v, d.Min, d.Max)
			updated = true
		}
	}
	if !updated {
		return fallback, false, nil
	}
	return candidate{Vals: vals}, true, nil
}
