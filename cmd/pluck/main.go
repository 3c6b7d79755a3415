package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-pluck/internal/wavio"
	"github.com/cwbudde/algo-pluck/playback"
	"github.com/cwbudde/algo-pluck/pluck"
	"github.com/cwbudde/algo-pluck/preset"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type options struct {
	cfg      pluck.Config
	writeDir string
	debug    bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	cfg := opts.cfg

	logger, err := newLogger(opts.debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	sink, err := playback.NewDefaultSink(cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("failed to open audio output: %w", err)
	}
	defer sink.Close()

	var writer *wavio.NumberedWriter
	if opts.writeDir != "" {
		writer = wavio.NewNumberedWriter(opts.writeDir, "n", 4, cfg.SampleRate)
	}

	logger.Info("ready",
		zap.Float64("tuning", cfg.TuningFrequency),
		zap.Float64("duration", cfg.Duration),
		zap.Bool("adsr", cfg.UseADSR),
		zap.Bool("lowpass", cfg.UseLowPass),
		zap.Int("sampleRate", cfg.SampleRate),
	)

	s := &session{
		cfg:    cfg,
		sink:   sink,
		writer: writer,
		logger: logger,
		out:    os.Stdout,
		prompt: term.IsTerminal(int(os.Stdin.Fd())),
	}
	if err := s.run(os.Stdin); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

// parseOptions builds the note configuration from the preset and flags.
// Flags given on the command line override the preset.
func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("pluck", flag.ContinueOnError)
	presetPath := fs.String("preset", "", "Preset JSON file path (optional)")
	tuning := fs.Float64("tuning", 440.0, "Frequency of MIDI note 69 in Hz")
	duration := fs.Float64("duration", 3.0, "Note duration in seconds")
	decay := fs.Float64("decay", 0.995, "Waveguide decay factor in (0,1]")
	stretch := fs.Float64("stretch", 1.0, "Delay line stretch factor")
	noiseRange := fs.Float64("noise-range", 1.15, "Excitation noise amplitude")
	seed := fs.Int64("seed", 0, "Noise seed (random per note when unset)")
	useADSR := fs.Bool("adsr", true, "Apply the ADSR envelope")
	attack := fs.Float64("attack", 0.0, "ADSR attack time in seconds")
	decayTime := fs.Float64("decay-time", 1.5, "ADSR decay time in seconds")
	sustain := fs.Float64("sustain", 0.5, "ADSR sustain level in [0,1]")
	release := fs.Float64("release", 0.3, "ADSR release time in seconds")
	useLowPass := fs.Bool("lowpass", false, "Apply the Butterworth tone filter")
	cutoff := fs.Float64("cutoff", 2650.0, "Tone filter cutoff in Hz")
	sampleRate := fs.Int("sample-rate", pluck.DefaultSampleRate, "Sample rate in Hz")
	writeDir := fs.String("write-dir", "", "Also write each note to <dir>/n<k>.wav (optional)")
	debug := fs.Bool("debug", false, "Verbose development logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	cfg := pluck.NewDefaultConfig()
	if *presetPath != "" {
		var err error
		cfg, err = preset.LoadJSON(*presetPath)
		if err != nil {
			return options{}, fmt.Errorf("failed to load preset %q: %w", *presetPath, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tuning":
			cfg.TuningFrequency = *tuning
		case "duration":
			cfg.Duration = *duration
		case "decay":
			cfg.DecayFactor = *decay
		case "stretch":
			cfg.StretchFactor = *stretch
		case "noise-range":
			cfg.NoiseRange = *noiseRange
		case "seed":
			cfg = cfg.Seed(*seed)
		case "adsr":
			cfg.UseADSR = *useADSR
		case "attack":
			cfg.ADSR.Attack = *attack
		case "decay-time":
			cfg.ADSR.Decay = *decayTime
		case "sustain":
			cfg.ADSR.Sustain = *sustain
		case "release":
			cfg.ADSR.Release = *release
		case "lowpass":
			cfg.UseLowPass = *useLowPass
		case "cutoff":
			cfg.CutoffFrequency = *cutoff
		case "sample-rate":
			cfg.SampleRate = *sampleRate
		}
	})
	if err := cfg.Validate(); err != nil {
		return options{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return options{cfg: cfg, writeDir: *writeDir, debug: *debug}, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
