package pluck

import "fmt"

// Synthesizer renders plucked notes with an explicit noise source.
// It holds no per-note state, so one value may serve concurrent callers
// as long as its NoiseSource does.
type Synthesizer struct {
	noise NoiseSource
}

// NewSynthesizer returns a synthesizer drawing excitation from noise.
// A nil source falls back to unseeded uniform noise.
func NewSynthesizer(noise NoiseSource) *Synthesizer {
	if noise == nil {
		noise = NewNoiseSource(nil)
	}
	return &Synthesizer{noise: noise}
}

// Synthesize renders note with cfg, using cfg.NoiseSeed for the excitation.
func Synthesize(note int, cfg Config) ([]float64, error) {
	return NewSynthesizer(NewNoiseSource(cfg.NoiseSeed)).Synthesize(note, cfg)
}

// Synthesize validates cfg, then runs noise -> waveguide -> envelope -> filter.
// cfg.NoiseSeed is ignored in favour of the synthesizer's noise source.
func (s *Synthesizer) Synthesize(note int, cfg Config) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	freq := NoteFrequency(note, cfg.TuningFrequency)
	n, err := DelayLineLength(cfg.SampleRate, freq, cfg.StretchFactor)
	if err != nil {
		return nil, err
	}

	var filter *ToneFilter
	if cfg.UseLowPass {
		filter, err = NewToneFilter(cfg.CutoffFrequency, cfg.SampleRate)
		if err != nil {
			return nil, err
		}
	}

	initial, err := s.noise.Generate(n, cfg.NoiseRange)
	if err != nil {
		return nil, err
	}
	if len(initial) != n {
		return nil, fmt.Errorf("noise source returned %d samples, want %d", len(initial), n)
	}
	out, err := Waveguide(initial, cfg.NumSamples(), cfg.DecayFactor)
	if err != nil {
		return nil, err
	}

	if cfg.UseADSR {
		if err := cfg.ADSR.Apply(out, cfg.SampleRate); err != nil {
			return nil, err
		}
	}
	if filter != nil {
		filter.Apply(out)
	}
	return out, nil
}
