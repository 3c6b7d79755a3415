package pluck

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-dsp/dsp/signal"
)

// NoiseSource produces the excitation that fills the delay line.
type NoiseSource interface {
	Generate(length int, amplitude float64) ([]float64, error)
}

// UniformNoise draws independent uniform samples in [-amplitude, amplitude].
// A nil seed makes every Generate call draw a fresh seed.
type UniformNoise struct {
	seed *int64
}

// NewNoiseSource returns a uniform noise source. Pass nil for ambient randomness.
func NewNoiseSource(seed *int64) *UniformNoise {
	if seed == nil {
		return &UniformNoise{}
	}
	s := *seed
	return &UniformNoise{seed: &s}
}

// Generate returns length samples. Seeded sources repeat the same sequence.
func (n *UniformNoise) Generate(length int, amplitude float64) ([]float64, error) {
	seed := rand.Int64()
	if n != nil && n.seed != nil {
		seed = *n.seed
	}
	return GenerateNoise(length, amplitude, seed)
}

// GenerateNoise is the deterministic form of UniformNoise.Generate.
func GenerateNoise(length int, amplitude float64, seed int64) ([]float64, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: noise length must be >= 1, got %d", ErrInvalidConfig, length)
	}
	if !positive(amplitude) {
		return nil, fmt.Errorf("%w: noise amplitude must be > 0, got %g", ErrInvalidConfig, amplitude)
	}
	g := signal.NewGeneratorWithOptions(nil, signal.WithSeed(seed))
	return g.WhiteNoise(amplitude, length)
}
