package wavio

import (
	"fmt"
	"path/filepath"
	"sync"
)

// NumberedWriter writes each buffer to <dir>/<prefix><n>.wav with n counting up.
type NumberedWriter struct {
	dir        string
	prefix     string
	sampleRate int

	mu   sync.Mutex
	next int
}

// NewNumberedWriter returns a writer whose first file is numbered start.
func NewNumberedWriter(dir string, prefix string, start int, sampleRate int) *NumberedWriter {
	return &NumberedWriter{
		dir:        dir,
		prefix:     prefix,
		sampleRate: sampleRate,
		next:       start,
	}
}

// Write persists samples and returns the path written. The counter only
// advances on success.
func (w *NumberedWriter) Write(samples []float64) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dir, fmt.Sprintf("%s%d.wav", w.prefix, w.next))
	if err := WriteMonoWAV(path, samples, w.sampleRate); err != nil {
		return "", err
	}
	w.next++
	return path, nil
}

// Next returns the number the next file will get.
func (w *NumberedWriter) Next() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.next
}
