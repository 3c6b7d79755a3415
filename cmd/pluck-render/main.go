package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-pluck/analysis"
	"github.com/cwbudde/algo-pluck/internal/wavio"
	"github.com/cwbudde/algo-pluck/pluck"
	"github.com/cwbudde/algo-pluck/preset"
)

func main() {
	note := flag.Int("note", 69, "MIDI note number (69 = A4)")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	seed := flag.Int64("seed", 1, "Noise seed")
	duration := flag.Float64("duration", 0, "Duration override in seconds (0 keeps the preset value)")
	trimDB := flag.Float64("trim-db", math.Inf(-1), "Drop the tail once it stays below this dBFS (e.g. -90). Disabled by default")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	cfg := pluck.NewDefaultConfig()
	if *presetPath != "" {
		var err error
		cfg, err = preset.LoadJSON(*presetPath)
		if err != nil {
			die("Error loading preset %q: %v", *presetPath, err)
		}
	}
	cfg = cfg.Seed(*seed)
	if *duration > 0 {
		cfg.Duration = *duration
	}

	fmt.Printf("Rendering note %d for %.2f seconds at %d Hz (%.2f Hz nominal)...\n",
		*note, cfg.Duration, cfg.SampleRate, pluck.NoteFrequency(*note, cfg.TuningFrequency))

	samples, err := render(*note, cfg, *trimDB)
	if err != nil {
		die("Error rendering: %v", err)
	}
	if err := wavio.WriteMonoWAV(*output, samples, cfg.SampleRate); err != nil {
		die("Error writing %s: %v", *output, err)
	}

	fmt.Printf("Wrote %d samples to %s\n", len(samples), *output)
	printStats(samples, cfg.SampleRate)
}

func render(note int, cfg pluck.Config, trimDB float64) ([]float64, error) {
	samples, err := pluck.Synthesize(note, cfg)
	if err != nil {
		return nil, err
	}
	if !math.IsInf(trimDB, -1) {
		samples = analysis.TrimTail(samples, cfg.SampleRate, trimDB)
	}
	return samples, nil
}

func printStats(samples []float64, sampleRate int) {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	fmt.Printf("Peak %.4f, RMS %.4f\n", peak, analysis.WindowRMS(samples))

	win := samples
	if len(win) > sampleRate {
		win = win[:sampleRate]
	}
	if f0, err := analysis.EstimateFundamental(win, sampleRate, 20, 0.45*float64(sampleRate)); err == nil {
		fmt.Printf("Estimated f0 %.2f Hz\n", f0)
	}
	if t60 := analysis.DecayTime(samples, sampleRate); !math.IsNaN(t60) {
		fmt.Printf("Estimated T60 %.2f s\n", t60)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
