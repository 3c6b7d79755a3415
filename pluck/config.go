package pluck

import (
	"fmt"
	"math"
)

// DefaultSampleRate is the render rate used when no other rate is configured.
const DefaultSampleRate = 44100

// Config holds every parameter of one synthesis call.
type Config struct {
	TuningFrequency float64 // Hz of MIDI note 69
	Duration        float64 // seconds
	DecayFactor     float64 // feedback gain in (0,1]
	StretchFactor   float64 // divides the delay-line length
	NoiseRange      float64 // excitation amplitude
	NoiseSeed       *int64  // nil draws a fresh seed per call

	UseADSR bool
	ADSR    ADSR

	UseLowPass      bool
	CutoffFrequency float64 // Hz

	SampleRate int
}

// ADSR describes the amplitude envelope. Times are in seconds.
type ADSR struct {
	Attack  float64
	Decay   float64
	Sustain float64 // level in [0,1]
	Release float64
}

// NewDefaultConfig returns the stock plucked-string settings.
func NewDefaultConfig() Config {
	return Config{
		TuningFrequency: 440.0,
		Duration:        3.0,
		DecayFactor:     0.995,
		StretchFactor:   1.0,
		NoiseRange:      1.15,
		UseADSR:         true,
		ADSR: ADSR{
			Attack:  0.0,
			Decay:   1.5,
			Sustain: 0.5,
			Release: 0.3,
		},
		UseLowPass:      false,
		CutoffFrequency: 2650.0,
		SampleRate:      DefaultSampleRate,
	}
}

// Seed returns a copy of c with a fixed noise seed.
func (c Config) Seed(seed int64) Config {
	c.NoiseSeed = &seed
	return c
}

// NumSamples returns the output length floor(duration * sampleRate).
func (c Config) NumSamples() int {
	return int(c.Duration * float64(c.SampleRate))
}

// Nyquist returns half the sample rate.
func (c Config) Nyquist() float64 {
	return 0.5 * float64(c.SampleRate)
}

// Validate checks the parameter bounds that do not depend on the note.
// Envelope and filter constraints are checked as well so that a failing
// config never produces a partial buffer.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be > 0, got %d", ErrInvalidConfig, c.SampleRate)
	}
	if !positive(c.TuningFrequency) {
		return fmt.Errorf("%w: tuning_frequency must be > 0, got %g", ErrInvalidConfig, c.TuningFrequency)
	}
	if !positive(c.Duration) {
		return fmt.Errorf("%w: duration must be > 0, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.Duration*float64(c.SampleRate) > maxSamples {
		return fmt.Errorf("%w: duration %gs is too long", ErrInvalidConfig, c.Duration)
	}
	if c.NumSamples() < 1 {
		return fmt.Errorf("%w: duration %gs is shorter than one sample", ErrInvalidConfig, c.Duration)
	}
	if !positive(c.DecayFactor) || c.DecayFactor > 1 {
		return fmt.Errorf("%w: decay_factor must be in (0,1], got %g", ErrInvalidConfig, c.DecayFactor)
	}
	if !positive(c.StretchFactor) {
		return fmt.Errorf("%w: stretch_factor must be > 0, got %g", ErrInvalidConfig, c.StretchFactor)
	}
	if !positive(c.NoiseRange) {
		return fmt.Errorf("%w: noise_range must be > 0, got %g", ErrInvalidConfig, c.NoiseRange)
	}
	if c.UseADSR {
		if _, err := c.ADSR.segments(c.NumSamples(), c.SampleRate); err != nil {
			return err
		}
	}
	if c.UseLowPass {
		if err := checkCutoff(c.CutoffFrequency, c.SampleRate); err != nil {
			return err
		}
	}
	return nil
}

const maxSamples = 1 << 31

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
