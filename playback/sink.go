// Package playback hands finished sample buffers to an audio device.
package playback

import (
	"encoding/binary"
	"math"
)

// Sink accepts finished buffers. Play must not block until playback ends.
type Sink interface {
	Play(samples []float64) error
	Close() error
}

// DiscardSink drops every buffer. It is used in headless builds and tests.
type DiscardSink struct{}

// Play implements Sink.
func (DiscardSink) Play([]float64) error { return nil }

// Close implements Sink.
func (DiscardSink) Close() error { return nil }

// EncodeFloat32LE converts samples to little-endian float32 PCM.
func EncodeFloat32LE(samples []float64) []byte {
	out := make([]byte, 4*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(v)))
	}
	return out
}
