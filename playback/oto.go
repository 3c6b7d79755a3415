//go:build !headless

package playback

import (
	"bytes"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoSink plays each buffer on its own oto player so notes may overlap.
type OtoSink struct {
	ctx *oto.Context

	mu      sync.Mutex
	players []*oto.Player
}

// NewOtoSink opens a mono float32 output at sampleRate.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &OtoSink{ctx: ctx}, nil
}

// NewDefaultSink returns the device sink for this build.
func NewDefaultSink(sampleRate int) (Sink, error) {
	return NewOtoSink(sampleRate)
}

// Play starts samples and returns immediately.
func (s *OtoSink) Play(samples []float64) error {
	p := s.ctx.NewPlayer(bytes.NewReader(EncodeFloat32LE(samples)))
	p.Play()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.players = append(s.players, p)
	return nil
}

// prune releases players that have finished. Caller holds s.mu.
func (s *OtoSink) prune() {
	active := s.players[:0]
	for _, p := range s.players {
		if p.IsPlaying() {
			active = append(active, p)
			continue
		}
		_ = p.Close()
	}
	for i := len(active); i < len(s.players); i++ {
		s.players[i] = nil
	}
	s.players = active
}

// Close stops every player still sounding.
func (s *OtoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, p := range s.players {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.players = nil
	return firstErr
}
