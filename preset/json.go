package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-pluck/pluck"
)

// File is the JSON schema for synthesis presets. Absent fields keep their defaults.
type File struct {
	TuningFrequency *float64 `json:"tuning_frequency,omitempty"`
	Duration        *float64 `json:"duration,omitempty"`
	DecayFactor     *float64 `json:"decay_factor,omitempty"`
	StretchFactor   *float64 `json:"stretch_factor,omitempty"`
	NoiseRange      *float64 `json:"noise_range,omitempty"`
	NoiseSeed       *int64   `json:"noise_seed,omitempty"`

	UseADSR      *bool    `json:"use_adsr,omitempty"`
	AttackTime   *float64 `json:"attack_time,omitempty"`
	DecayTime    *float64 `json:"decay_time,omitempty"`
	SustainLevel *float64 `json:"sustain_level,omitempty"`
	ReleaseTime  *float64 `json:"release_time,omitempty"`

	UseLowPass      *bool    `json:"use_low_pass,omitempty"`
	CutoffFrequency *float64 `json:"cutoff_frequency,omitempty"`

	SampleRate *int `json:"sample_rate,omitempty"`
}

// LoadJSON loads a preset JSON file and applies it on top of the default config.
func LoadJSON(path string) (pluck.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return pluck.Config{}, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return pluck.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := pluck.NewDefaultConfig()
	if err := ApplyFile(&cfg, &f); err != nil {
		return pluck.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return pluck.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyFile applies a parsed preset file onto an existing config.
func ApplyFile(dst *pluck.Config, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination config")
	}
	if f == nil {
		return nil
	}

	if f.TuningFrequency != nil {
		if *f.TuningFrequency <= 0 {
			return fmt.Errorf("tuning_frequency must be > 0")
		}
		dst.TuningFrequency = *f.TuningFrequency
	}
	if f.Duration != nil {
		if *f.Duration <= 0 {
			return fmt.Errorf("duration must be > 0")
		}
		dst.Duration = *f.Duration
	}
	if f.DecayFactor != nil {
		if *f.DecayFactor <= 0 || *f.DecayFactor > 1 {
			return fmt.Errorf("decay_factor must be in (0,1]")
		}
		dst.DecayFactor = *f.DecayFactor
	}
	if f.StretchFactor != nil {
		if *f.StretchFactor <= 0 {
			return fmt.Errorf("stretch_factor must be > 0")
		}
		dst.StretchFactor = *f.StretchFactor
	}
	if f.NoiseRange != nil {
		if *f.NoiseRange <= 0 {
			return fmt.Errorf("noise_range must be > 0")
		}
		dst.NoiseRange = *f.NoiseRange
	}
	if f.NoiseSeed != nil {
		seed := *f.NoiseSeed
		dst.NoiseSeed = &seed
	}

	if f.UseADSR != nil {
		dst.UseADSR = *f.UseADSR
	}
	if f.AttackTime != nil {
		if *f.AttackTime < 0 {
			return fmt.Errorf("attack_time must be >= 0")
		}
		dst.ADSR.Attack = *f.AttackTime
	}
	if f.DecayTime != nil {
		if *f.DecayTime < 0 {
			return fmt.Errorf("decay_time must be >= 0")
		}
		dst.ADSR.Decay = *f.DecayTime
	}
	if f.SustainLevel != nil {
		if *f.SustainLevel < 0 || *f.SustainLevel > 1 {
			return fmt.Errorf("sustain_level must be in [0,1]")
		}
		dst.ADSR.Sustain = *f.SustainLevel
	}
	if f.ReleaseTime != nil {
		if *f.ReleaseTime < 0 {
			return fmt.Errorf("release_time must be >= 0")
		}
		dst.ADSR.Release = *f.ReleaseTime
	}

	if f.UseLowPass != nil {
		dst.UseLowPass = *f.UseLowPass
	}
	if f.CutoffFrequency != nil {
		if *f.CutoffFrequency <= 0 {
			return fmt.Errorf("cutoff_frequency must be > 0")
		}
		dst.CutoffFrequency = *f.CutoffFrequency
	}
	if f.SampleRate != nil {
		if *f.SampleRate <= 0 {
			return fmt.Errorf("sample_rate must be > 0")
		}
		dst.SampleRate = *f.SampleRate
	}
	return nil
}

// FromConfig returns a fully populated preset file for cfg.
func FromConfig(cfg pluck.Config) *File {
	f := &File{
		TuningFrequency: &cfg.TuningFrequency,
		Duration:        &cfg.Duration,
		DecayFactor:     &cfg.DecayFactor,
		StretchFactor:   &cfg.StretchFactor,
		NoiseRange:      &cfg.NoiseRange,
		UseADSR:         &cfg.UseADSR,
		AttackTime:      &cfg.ADSR.Attack,
		DecayTime:       &cfg.ADSR.Decay,
		SustainLevel:    &cfg.ADSR.Sustain,
		ReleaseTime:     &cfg.ADSR.Release,
		UseLowPass:      &cfg.UseLowPass,
		CutoffFrequency: &cfg.CutoffFrequency,
		SampleRate:      &cfg.SampleRate,
	}
	if cfg.NoiseSeed != nil {
		seed := *cfg.NoiseSeed
		f.NoiseSeed = &seed
	}
	return f
}

// SaveJSON writes cfg as an indented preset file, creating parent directories.
func SaveJSON(path string, cfg pluck.Config) error {
	b, err := json.MarshalIndent(FromConfig(cfg), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
