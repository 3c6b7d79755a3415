package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-pluck/analysis"
	"github.com/cwbudde/algo-pluck/internal/wavio"
	"github.com/cwbudde/algo-pluck/pluck"
	"github.com/cwbudde/algo-pluck/preset"
)

func main() {
	referencePath := flag.String("reference", "reference/a4.wav", "Reference WAV path")
	candidatePath := flag.String("candidate", "", "Candidate WAV path; if empty, render candidate from the pluck model")
	presetPath := flag.String("preset", "", "Preset JSON path for rendered candidate (optional)")
	note := flag.Int("note", 69, "MIDI note for rendered candidate")
	seed := flag.Int64("seed", 1, "Noise seed for rendered candidate")
	sampleRate := flag.Int("sample-rate", pluck.DefaultSampleRate, "Analysis sample rate in Hz")
	writeCandidate := flag.String("write-candidate", "", "Optional path to write rendered candidate WAV")
	jsonOut := flag.Bool("json", false, "Print metrics as JSON")
	flag.Parse()

	ref, err := loadResampled(*referencePath, *sampleRate)
	if err != nil {
		die("failed to read reference: %v", err)
	}

	var cand []float64
	if *candidatePath != "" {
		cand, err = loadResampled(*candidatePath, *sampleRate)
		if err != nil {
			die("failed to read candidate: %v", err)
		}
	} else {
		cand, err = renderCandidate(*presetPath, *note, *seed, *sampleRate)
		if err != nil {
			die("failed to render candidate: %v", err)
		}
		if *writeCandidate != "" {
			if err := wavio.WriteMonoWAV(*writeCandidate, cand, *sampleRate); err != nil {
				die("failed to write candidate wav: %v", err)
			}
		}
	}

	metrics := analysis.Compare(ref, cand, *sampleRate)
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(metrics.Finite()); err != nil {
			die("json encode failed: %v", err)
		}
		return
	}
	printMetrics(metrics)
}

func loadResampled(path string, sampleRate int) ([]float64, error) {
	x, sr, err := wavio.ReadWAVMono(path)
	if err != nil {
		return nil, err
	}
	return wavio.ResampleIfNeeded(x, sr, sampleRate)
}

func renderCandidate(presetPath string, note int, seed int64, sampleRate int) ([]float64, error) {
	cfg := pluck.NewDefaultConfig()
	if presetPath != "" {
		var err error
		if cfg, err = preset.LoadJSON(presetPath); err != nil {
			return nil, err
		}
	}
	cfg.SampleRate = sampleRate
	return pluck.Synthesize(note, cfg.Seed(seed))
}

func printMetrics(m analysis.Metrics) {
	fmt.Printf("Reference frames: %d\n", m.ReferenceFrames)
	fmt.Printf("Candidate frames: %d\n", m.CandidateFrames)
	fmt.Printf("Aligned frames:   %d\n", m.AlignedFrames)
	fmt.Printf("Lag:              %d samples (%.3f ms)\n", m.LagSamples, 1000.0*float64(m.LagSamples)/float64(m.SampleRate))
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
	printComp("Time RMSE", fmt.Sprintf("%.6f", m.TimeRMSE), m.TimeNorm, analysis.WeightTime, m.Dominant == "time")
	printComp("Envelope RMSE", fmt.Sprintf("%.1f dB", m.EnvelopeRMSEDB), m.EnvelopeNorm, analysis.WeightEnvelope, m.Dominant == "envelope")
	printComp("Spectral RMSE", fmt.Sprintf("%.1f dB", m.SpectralRMSEDB), m.SpectralNorm, analysis.WeightSpectral, m.Dominant == "spectral")
	printComp("Decay diff", fmt.Sprintf("%.1f dB/s", m.DecayDiffDBPerS), m.DecayNorm, analysis.WeightDecay, m.Dominant == "decay")
	printComp("Pitch error", fmt.Sprintf("%.1f cents", m.PitchErrorCents), m.PitchNorm, analysis.WeightPitch, m.Dominant == "pitch")
	fmt.Printf("─────────────────────────────────────────────────────────\n")
	fmt.Printf("Score:            %.4f  (0 best, 1 worst)\n", m.Score)
	fmt.Printf("Similarity:       %.2f%%\n", m.Similarity*100.0)
	if m.Dominant != "" {
		fmt.Printf("Dominant factor:  %s\n", m.Dominant)
	}
	fmt.Printf("\nPitch: ref=%.2f Hz  cand=%.2f Hz\n", m.RefF0Hz, m.CandF0Hz)
	fmt.Printf("Decay slopes: ref=%.1f dB/s  cand=%.1f dB/s\n", m.RefDecayDBPerS, m.CandDecayDBPerS)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
