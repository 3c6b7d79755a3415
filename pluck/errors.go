package pluck

import "errors"

var (
	// ErrInvalidConfig marks a parameter outside its documented range.
	ErrInvalidConfig = errors.New("pluck: invalid config")

	// ErrDelayLineTooShort is returned when the note and stretch factor leave
	// fewer than two taps in the delay line.
	ErrDelayLineTooShort = errors.New("pluck: delay line shorter than 2 samples")

	// ErrCutoffOutOfRange is returned for a low-pass cutoff outside (0, nyquist).
	ErrCutoffOutOfRange = errors.New("pluck: cutoff frequency out of range")

	// ErrEnvelopeOverlap is returned when attack+decay run into the release segment.
	ErrEnvelopeOverlap = errors.New("pluck: envelope segments overlap")
)
