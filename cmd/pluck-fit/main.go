package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-pluck/internal/wavio"
	"github.com/cwbudde/algo-pluck/pluck"
	"github.com/cwbudde/algo-pluck/preset"
)

func main() {
	referencePath := flag.String("reference", "reference/a4.wav", "Reference WAV path")
	presetPath := flag.String("preset", "", "Base preset JSON path (optional)")
	outputPreset := flag.String("output-preset", "presets/fitted.json", "Path to write best fitted preset JSON")
	reportPath := flag.String("report", "", "Optional report JSON path (default: <output-preset>.report.json)")
	note := flag.Int("note", 69, "MIDI note to fit")
	sampleRate := flag.Int("sample-rate", 0, "Render/analysis sample rate (0 keeps the preset value)")
	duration := flag.Float64("duration", 0, "Render duration in seconds (0 matches the reference, capped at 12s)")
	lowPass := flag.Bool("lowpass", false, "Enable and fit the tone filter")
	seed := flag.Int64("seed", 1, "Random seed for noise and optimizer")
	timeBudget := flag.Float64("time-budget", 60.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 4000, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 20, "Print progress every N evaluations")
	checkpointEvery := flag.Int("checkpoint-every", 1, "Write checkpoint every N best-score improvements")
	writeBestCandidate := flag.String("write-best-candidate", "", "Optional WAV path to write best candidate render")
	resume := flag.Bool("resume", true, "Resume from previous best_knobs report when available")
	workersRaw := flag.String("workers", "auto", "Parallel optimizer workers (integer >= 1 or 'auto')")

	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 240, "Target eval budget per Mayfly round")
	flag.Parse()

	if *maxEvals < 1 {
		die("max-evals must be >= 1")
	}
	if *timeBudget <= 0 {
		die("time-budget must be > 0")
	}
	if *note < pluck.MinNote || *note > pluck.MaxNote {
		die("note must be in [%d,%d]", pluck.MinNote, pluck.MaxNote)
	}
	workers, err := parseWorkersFlag(*workersRaw)
	if err != nil {
		die("invalid workers: %v", err)
	}
	if *reportEvery < 1 {
		*reportEvery = 1
	}
	if *checkpointEvery < 1 {
		*checkpointEvery = 1
	}
	if *mayflyPop < 2 {
		*mayflyPop = 2
	}
	if *mayflyRoundEvals < *mayflyPop*2 {
		*mayflyRoundEvals = *mayflyPop * 2
	}

	base := pluck.NewDefaultConfig()
	if *presetPath != "" {
		base, err = preset.LoadJSON(*presetPath)
		if err != nil {
			die("failed to load preset: %v", err)
		}
	}
	if *sampleRate > 0 {
		base.SampleRate = *sampleRate
	}
	if *lowPass {
		base.UseLowPass = true
	}
	base = base.Seed(*seed)

	ref, refSR, err := wavio.ReadWAVMono(*referencePath)
	if err != nil {
		die("failed to read reference: %v", err)
	}
	ref, err = wavio.ResampleIfNeeded(ref, refSR, base.SampleRate)
	if err != nil {
		die("failed to resample reference: %v", err)
	}
	base.Duration = fitDuration(*duration, len(ref), base.SampleRate)

	defs, initCand := initCandidate(base)
	if err := applyCandidate(base, defs, initCand).Validate(); err != nil {
		die("invalid base configuration: %v", err)
	}
	if *resume {
		resumePath := defaultReportPath(*outputPreset, *reportPath)
		if resumed, ok, err := loadCandidateFromReport(resumePath, defs, initCand); err != nil {
			fmt.Fprintf(os.Stderr, "resume skipped (%s): %v\n", resumePath, err)
		} else if ok {
			initCand = resumed
			fmt.Printf("Resumed candidate from %s\n", resumePath)
		}
	}

	fmt.Printf("Fitting note %d to %s: %d knobs, %.2fs at %d Hz\n", *note, *referencePath, len(defs), base.Duration, base.SampleRate)

	cfg := &optimizationConfig{
		reference:          ref,
		base:               base,
		note:               *note,
		defs:               defs,
		initCandidate:      initCand,
		seed:               *seed,
		timeBudget:         *timeBudget,
		maxEvals:           *maxEvals,
		reportEvery:        *reportEvery,
		checkpointEvery:    *checkpointEvery,
		mayflyVariant:      strings.ToLower(*mayflyVariant),
		mayflyPop:          *mayflyPop,
		mayflyRoundEvals:   *mayflyRoundEvals,
		workers:            workers,
		outputPreset:       *outputPreset,
		reportPath:         *reportPath,
		referencePath:      *referencePath,
		presetPath:         *presetPath,
		writeBestCandidate: *writeBestCandidate,
	}
	if _, err := newMayflyConfig(cfg.mayflyVariant, cfg.mayflyPop, len(defs), 1); err != nil {
		die("invalid mayfly variant: %v", err)
	}

	res, err := runOptimization(cfg)
	if err != nil {
		die("optimization failed: %v", err)
	}
	if err := writeOutputs(cfg, res.elapsed, res.evals, res.best, res.bestMetrics, res.checkpoints); err != nil {
		die("failed to write outputs: %v", err)
	}
	if *writeBestCandidate != "" {
		if err := writeBestCandidateSnapshot(*writeBestCandidate, base, *note, defs, res.best); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write best candidate wav: %v\n", err)
		}
	}

	fmt.Printf("Done evals=%d elapsed=%.1fs best_score=%.4f best_similarity=%.2f%% variant=%s\n",
		res.evals, res.elapsed, res.bestMetrics.Score, res.bestMetrics.Similarity*100.0, cfg.mayflyVariant)
}

// fitDuration returns the render length for the fit: the explicit value when
// set, otherwise the reference length clamped to [0.5, 12] seconds.
func fitDuration(explicit float64, refFrames int, sampleRate int) float64 {
	if explicit > 0 {
		return explicit
	}
	d := float64(refFrames) / float64(sampleRate)
	if d > 12 {
		d = 12
	}
	if d < 0.5 {
		d = 0.5
	}
	return d
}
