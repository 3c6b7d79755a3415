//go:build headless

package playback

// NewDefaultSink returns a sink that discards audio in headless builds.
func NewDefaultSink(sampleRate int) (Sink, error) {
	return DiscardSink{}, nil
}
