package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Spectrum is a Hann-windowed magnitude spectrum of one analysis frame.
type Spectrum struct {
	SampleRate int
	FFTSize    int
	Mag        []float64 // bins 0..FFTSize/2
}

// BinHz returns the width of one bin.
func (s Spectrum) BinHz() float64 {
	return float64(s.SampleRate) / float64(s.FFTSize)
}

// MagnitudeSpectrum analyses the first fftSize samples of x, zero padding
// when x is shorter. fftSize must be a power of two.
func MagnitudeSpectrum(x []float64, sampleRate int, fftSize int) (Spectrum, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return Spectrum{}, fmt.Errorf("fft size must be a power of two >= 2, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return Spectrum{}, fmt.Errorf("sample rate must be > 0, got %d", sampleRate)
	}
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("fft plan: %w", err)
	}

	n := len(x)
	if n > fftSize {
		n = fftSize
	}
	buf := make([]float64, fftSize)
	for i := 0; i < n; i++ {
		buf[i] = x[i] * hann(i, n)
	}
	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)

	mag := make([]float64, len(spec))
	for k, c := range spec {
		mag[k] = cmplx.Abs(c)
	}
	return Spectrum{SampleRate: sampleRate, FFTSize: fftSize, Mag: mag}, nil
}

// EstimateFundamental returns the frequency of the strongest spectral peak in
// [minHz, maxHz], refined by parabolic interpolation of the log magnitude.
func EstimateFundamental(x []float64, sampleRate int, minHz float64, maxHz float64) (float64, error) {
	if len(x) < 64 {
		return 0, fmt.Errorf("need at least 64 samples, got %d", len(x))
	}
	fftSize := nextPow2(len(x))
	if fftSize > 1<<17 {
		fftSize = 1 << 17
	}
	s, err := MagnitudeSpectrum(x, sampleRate, fftSize)
	if err != nil {
		return 0, err
	}

	binHz := s.BinHz()
	lo := int(math.Ceil(minHz / binHz))
	hi := int(math.Floor(maxHz / binHz))
	if lo < 1 {
		lo = 1
	}
	if hi > len(s.Mag)-2 {
		hi = len(s.Mag) - 2
	}
	if lo > hi {
		return 0, fmt.Errorf("search range %.1f-%.1f Hz is empty at %.2f Hz/bin", minHz, maxHz, binHz)
	}

	best := lo
	for k := lo + 1; k <= hi; k++ {
		if s.Mag[k] > s.Mag[best] {
			best = k
		}
	}
	if s.Mag[best] == 0 {
		return 0, fmt.Errorf("no energy between %.1f and %.1f Hz", minHz, maxHz)
	}

	a := linToDB(s.Mag[best-1])
	b := linToDB(s.Mag[best])
	c := linToDB(s.Mag[best+1])
	offset := 0.0
	if den := a - 2*b + c; den != 0 {
		offset = 0.5 * (a - c) / den
	}
	return (float64(best) + offset) * binHz, nil
}

// SpectralCentroid returns the magnitude-weighted mean frequency of the first
// fftSize samples of x.
func SpectralCentroid(x []float64, sampleRate int, fftSize int) (float64, error) {
	s, err := MagnitudeSpectrum(x, sampleRate, fftSize)
	if err != nil {
		return 0, err
	}
	var weighted, total float64
	for k := 1; k < len(s.Mag); k++ {
		weighted += float64(k) * s.BinHz() * s.Mag[k]
		total += s.Mag[k]
	}
	if total == 0 {
		return 0, nil
	}
	return weighted / total, nil
}

func hann(i int, n int) float64 {
	if n < 2 {
		return 1
	}
	return 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
