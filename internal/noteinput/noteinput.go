// Package noteinput parses the interactive note prompt.
package noteinput

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pluck/pluck"
)

// QuitToken ends the input loop.
const QuitToken = "q"

var (
	// ErrNotANumber is returned for input that is neither a note nor QuitToken.
	ErrNotANumber = errors.New("invalid input: enter a valid MIDI note number")
	// ErrOutOfRange is returned for integers outside the MIDI note range.
	ErrOutOfRange = fmt.Errorf("invalid MIDI note number: enter a number between %d and %d", pluck.MinNote, pluck.MaxNote)
)

// Command is one parsed line of input.
type Command struct {
	Note int
	Quit bool
}

// Parse interprets a single input line. Errors are recoverable: the caller
// reports them and keeps reading.
func Parse(line string) (Command, error) {
	s := strings.TrimSpace(line)
	if s == QuitToken {
		return Command{Quit: true}, nil
	}
	note, err := strconv.Atoi(s)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	if note < pluck.MinNote || note > pluck.MaxNote {
		return Command{}, fmt.Errorf("%w: %d", ErrOutOfRange, note)
	}
	return Command{Note: note}, nil
}

// Scanner reads commands line by line.
type Scanner struct {
	sc  *bufio.Scanner
	cmd Command
	err error
}

// NewScanner reads commands from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r)}
}

// Scan advances to the next line. It returns false at end of input or after a
// quit command. A parse failure still returns true; check Err.
func (s *Scanner) Scan() bool {
	if s.cmd.Quit || !s.sc.Scan() {
		return false
	}
	s.cmd, s.err = Parse(s.sc.Text())
	if s.err == nil && s.cmd.Quit {
		return false
	}
	return true
}

// Command returns the command parsed from the current line.
func (s *Scanner) Command() Command {
	return s.cmd
}

// Err returns the parse error of the current line, if any.
func (s *Scanner) Err() error {
	return s.err
}

// IOErr returns the underlying read error, if any.
func (s *Scanner) IOErr() error {
	return s.sc.Err()
}
