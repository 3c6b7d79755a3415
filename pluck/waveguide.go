package pluck

import (
	"fmt"
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// DelayLineLength returns floor(sampleRate / (freq * stretch)), the number of
// taps the string needs to sound at freq.
func DelayLineLength(sampleRate int, freq float64, stretch float64) (int, error) {
	if !positive(freq) || !positive(stretch) {
		return 0, fmt.Errorf("%w: frequency %g Hz, stretch %g", ErrDelayLineTooShort, freq, stretch)
	}
	n := math.Floor(float64(sampleRate) / (freq * stretch))
	if n < 2 {
		return 0, fmt.Errorf("%w: %g Hz at %d Hz with stretch %g gives %g taps",
			ErrDelayLineTooShort, freq, sampleRate, stretch, n)
	}
	return int(n), nil
}

// StringWaveguide is the Karplus-Strong delay line. Each tick emits the front
// sample, drops it, and appends the decayed average of the two new front samples.
type StringWaveguide struct {
	delayLine []float64
	head      int
	decay     float64
}

// NewStringWaveguide copies initial into a fresh delay line.
func NewStringWaveguide(initial []float64, decay float64) (*StringWaveguide, error) {
	if len(initial) < 2 {
		return nil, fmt.Errorf("%w: got %d taps", ErrDelayLineTooShort, len(initial))
	}
	if !positive(decay) || decay > 1 {
		return nil, fmt.Errorf("%w: decay_factor must be in (0,1], got %g", ErrInvalidConfig, decay)
	}
	line := make([]float64, len(initial))
	copy(line, initial)
	return &StringWaveguide{delayLine: line, decay: decay}, nil
}

// Len returns the delay-line length in samples.
func (s *StringWaveguide) Len() int {
	return len(s.delayLine)
}

// Process renders one sample and advances the string.
func (s *StringWaveguide) Process() float64 {
	n := len(s.delayLine)
	out := s.delayLine[s.head]

	// Front taps after the shift. With two taps the second read lands on the
	// slot being replaced, which still holds the old last sample.
	first := s.delayLine[(s.head+1)%n]
	second := first
	if n > 2 {
		second = s.delayLine[(s.head+2)%n]
	}

	// The vacated front slot becomes the new tail.
	s.delayLine[s.head] = dspcore.FlushDenormals(s.decay * 0.5 * (first + second))
	s.head = (s.head + 1) % n
	return out
}

// ProcessBlock fills dst with consecutive samples.
func (s *StringWaveguide) ProcessBlock(dst []float64) {
	for i := range dst {
		dst[i] = s.Process()
	}
}

// Waveguide runs the recurrence over initial for m ticks and returns the output.
// initial is not modified.
func Waveguide(initial []float64, m int, decay float64) ([]float64, error) {
	if m < 0 {
		return nil, fmt.Errorf("%w: output length must be >= 0, got %d", ErrInvalidConfig, m)
	}
	s, err := NewStringWaveguide(initial, decay)
	if err != nil {
		return nil, err
	}
	out := make([]float64, m)
	s.ProcessBlock(out)
	return out, nil
}
