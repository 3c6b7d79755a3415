package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cwbudde/algo-pluck/internal/noteinput"
	"github.com/cwbudde/algo-pluck/internal/wavio"
	"github.com/cwbudde/algo-pluck/playback"
	"github.com/cwbudde/algo-pluck/pluck"
	"go.uber.org/zap"
)

const promptText = "Enter a MIDI note number (0-127) or 'q' to quit: "

type session struct {
	cfg    pluck.Config
	sink   playback.Sink
	writer *wavio.NumberedWriter
	logger *zap.Logger
	out    io.Writer
	prompt bool
}

// run reads notes from in until end of input or the quit token. Bad lines and
// failed notes are reported and skipped.
func (s *session) run(in io.Reader) error {
	sc := noteinput.NewScanner(in)
	s.showPrompt()
	for sc.Scan() {
		if err := sc.Err(); err != nil {
			fmt.Fprintln(s.out, err)
			s.showPrompt()
			continue
		}
		if err := s.play(sc.Command().Note); err != nil {
			fmt.Fprintf(s.out, "note %d failed: %v\n", sc.Command().Note, err)
		}
		s.showPrompt()
	}
	return sc.IOErr()
}

func (s *session) play(note int) error {
	start := time.Now()
	samples, err := pluck.Synthesize(note, s.cfg)
	if err != nil {
		return err
	}
	s.logger.Debug("synthesized",
		zap.Int("note", note),
		zap.Float64("freq", pluck.NoteFrequency(note, s.cfg.TuningFrequency)),
		zap.Int("samples", len(samples)),
		zap.Duration("took", time.Since(start)),
	)

	if s.writer != nil {
		path, err := s.writer.Write(samples)
		if err != nil {
			s.logger.Warn("wav write failed", zap.Int("note", note), zap.Error(err))
		} else {
			s.logger.Info("wrote note", zap.Int("note", note), zap.String("path", path))
		}
	}
	return s.sink.Play(samples)
}

func (s *session) showPrompt() {
	if s.prompt {
		fmt.Fprint(s.out, promptText)
	}
}
