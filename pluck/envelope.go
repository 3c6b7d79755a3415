package pluck

import (
	"fmt"
	"math"
)

type envelopeSegments struct {
	attack       int
	decay        int
	release      int
	releaseStart int
}

// segments converts the envelope times to sample counts for a buffer of m samples.
// A nonzero time shorter than one sample still gets one sample.
func (a ADSR) segments(m int, sampleRate int) (envelopeSegments, error) {
	for _, v := range []float64{a.Attack, a.Decay, a.Release, a.Sustain} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return envelopeSegments{}, fmt.Errorf("%w: envelope parameters must be finite (attack=%g decay=%g sustain=%g release=%g)",
				ErrInvalidConfig, a.Attack, a.Decay, a.Sustain, a.Release)
		}
	}
	if a.Attack < 0 || a.Decay < 0 || a.Release < 0 {
		return envelopeSegments{}, fmt.Errorf("%w: envelope times must be >= 0 (attack=%g decay=%g release=%g)",
			ErrInvalidConfig, a.Attack, a.Decay, a.Release)
	}
	if a.Sustain < 0 || a.Sustain > 1 {
		return envelopeSegments{}, fmt.Errorf("%w: sustain_level must be in [0,1], got %g", ErrInvalidConfig, a.Sustain)
	}

	rate := float64(sampleRate)
	attack := segmentLength(a.Attack, rate)
	decay := segmentLength(a.Decay, rate)
	release := segmentLength(a.Release, rate)
	// Compared in float64 so that huge times cannot overflow int.
	if attack+decay > float64(m)-release {
		return envelopeSegments{}, fmt.Errorf("%w: attack+decay (%g samples) exceed release start %g of %d",
			ErrEnvelopeOverlap, attack+decay, float64(m)-release, m)
	}
	seg := envelopeSegments{
		attack:  int(attack),
		decay:   int(decay),
		release: int(release),
	}
	seg.releaseStart = m - seg.release
	return seg, nil
}

func segmentLength(sec float64, rate float64) float64 {
	n := math.Floor(sec * rate)
	if n == 0 && sec > 0 {
		return 1
	}
	return n
}

// Envelope returns m gain multipliers: attack 0->1, decay 1->sustain, hold at
// sustain, release sustain->0. Each ramp includes both end points; a one-sample
// attack is 0 and a one-sample release is 0.
func (a ADSR) Envelope(m int, sampleRate int) ([]float64, error) {
	seg, err := a.segments(m, sampleRate)
	if err != nil {
		return nil, err
	}
	env := make([]float64, m)
	decayEnd := seg.attack + seg.decay
	ramp(env[:seg.attack], 0, 1)
	ramp(env[seg.attack:decayEnd], 1, a.Sustain)
	for i := decayEnd; i < seg.releaseStart; i++ {
		env[i] = a.Sustain
	}
	ramp(env[seg.releaseStart:], a.Sustain, 0)
	if seg.release > 0 {
		env[m-1] = 0
	}
	return env, nil
}

// Apply multiplies samples by the envelope in place.
func (a ADSR) Apply(samples []float64, sampleRate int) error {
	env, err := a.Envelope(len(samples), sampleRate)
	if err != nil {
		return err
	}
	for i := range samples {
		samples[i] *= env[i]
	}
	return nil
}

func ramp(dst []float64, from float64, to float64) {
	switch n := len(dst); n {
	case 0:
	case 1:
		dst[0] = from
	default:
		step := (to - from) / float64(n-1)
		for i := range dst {
			dst[i] = from + step*float64(i)
		}
		dst[n-1] = to
	}
}
