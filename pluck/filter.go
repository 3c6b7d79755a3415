package pluck

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design/pass"
)

// ToneFilterOrder is the Butterworth order of the tone filter.
const ToneFilterOrder = 4

// ToneFilter is a Butterworth low-pass cascade used to darken the string.
type ToneFilter struct {
	cutoff     float64
	sampleRate int
	chain      *biquad.Chain
}

// NewToneFilter designs the low-pass for cutoff Hz at sampleRate.
func NewToneFilter(cutoff float64, sampleRate int) (*ToneFilter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample_rate must be > 0, got %d", ErrInvalidConfig, sampleRate)
	}
	if err := checkCutoff(cutoff, sampleRate); err != nil {
		return nil, err
	}
	coeffs := pass.ButterworthLP(cutoff, ToneFilterOrder, float64(sampleRate))
	return &ToneFilter{
		cutoff:     cutoff,
		sampleRate: sampleRate,
		chain:      biquad.NewChain(coeffs),
	}, nil
}

// NormalizedCutoff returns the cutoff as a fraction of nyquist.
func (f *ToneFilter) NormalizedCutoff() float64 {
	return f.cutoff / (0.5 * float64(f.sampleRate))
}

// Order returns the filter order.
func (f *ToneFilter) Order() int {
	return f.chain.Order()
}

// MagnitudeDB returns the filter gain at freqHz.
func (f *ToneFilter) MagnitudeDB(freqHz float64) float64 {
	return f.chain.MagnitudeDB(freqHz, float64(f.sampleRate))
}

// Apply filters samples in place. Every call starts from zero state.
func (f *ToneFilter) Apply(samples []float64) {
	f.chain.Reset()
	f.chain.ProcessBlock(samples)
}

func checkCutoff(cutoff float64, sampleRate int) error {
	nyquist := 0.5 * float64(sampleRate)
	if !(cutoff > 0 && cutoff < nyquist) {
		return fmt.Errorf("%w: %g Hz must be in (0, %g)", ErrCutoffOutOfRange, cutoff, nyquist)
	}
	return nil
}
