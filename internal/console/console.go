package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

var (
	// ErrInputClosed is returned when the input ends before an answer is read.
	ErrInputClosed = errors.New("input closed")
	// ErrAborted is returned when the user presses Ctrl+C at a prompt.
	ErrAborted = errors.New("prompt aborted")
)

// Prompter asks questions and prints messages.
type Prompter interface {
	// Ask prints question and returns the trimmed answer line.
	Ask(ctx context.Context, question string) (string, error)
	// Say prints a message on its own line.
	Say(message string)
	// Interactive reports whether a human is watching the console.
	Interactive() bool
	// Close releases the console.
	Close() error
}

// New returns a terminal prompter when both files are terminals and a stream prompter otherwise.
//
//nolint:ireturn // Callers only need the Prompter behaviour.
func New(in, out *os.File) Prompter {
	if term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())) {
		return NewTerminal(out)
	}

	return NewStream(in, out)
}

// Stream is a Prompter over arbitrary reader and writer.
type Stream struct {
	// scanner splits the input into lines.
	scanner *bufio.Scanner
	// out receives questions and messages.
	out io.Writer
	// lines carries scanned lines from the reader goroutine.
	lines chan scanResult
	// done is closed by Close to release the reader goroutine.
	done chan struct{}
	// start launches the reader goroutine on the first question.
	start sync.Once
	// stop closes done once.
	stop sync.Once
	// mu serializes prompts.
	mu sync.Mutex
}

// scanResult is a single line or the error that ended the input.
type scanResult struct {
	line string
	err  error
}

// NewStream creates a Prompter reading lines from in and writing to out.
func NewStream(in io.Reader, out io.Writer) *Stream {
	return &Stream{
		scanner: bufio.NewScanner(in),
		out:     out,
		lines:   make(chan scanResult),
		done:    make(chan struct{}),
	}
}

// Ask implements Prompter.
// A line that arrives after ctx is done is kept for the next question.
func (s *Stream) Ask(ctx context.Context, question string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	_, _ = fmt.Fprint(s.out, question)

	s.start.Do(func() {
		go s.readLines()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result, ok := <-s.lines:
		if !ok {
			return "", ErrInputClosed
		}

		if result.err != nil {
			return "", result.err
		}

		return strings.TrimSpace(result.line), nil
	}
}

// readLines feeds lines to Ask until the input ends.
func (s *Stream) readLines() {
	defer close(s.lines)

	for s.scanner.Scan() {
		if !s.send(scanResult{line: s.scanner.Text()}) {
			return
		}
	}

	if err := s.scanner.Err(); err != nil {
		s.send(scanResult{err: fmt.Errorf("read answer: %w", err)})
	}
}

// send hands a result to Ask and reports false once the stream is closed.
func (s *Stream) send(result scanResult) bool {
	select {
	case s.lines <- result:
		return true
	case <-s.done:
		return false
	}
}

// Say implements Prompter.
func (s *Stream) Say(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintln(s.out, message)
}

// Interactive implements Prompter.
func (s *Stream) Interactive() bool {
	return false
}

// Close implements Prompter.
// A reader blocked inside the underlying input stays blocked until that input ends.
func (s *Stream) Close() error {
	s.stop.Do(func() {
		close(s.done)
	})

	return nil
}

// Terminal is a Prompter with line editing on a real terminal.
type Terminal struct {
	// line is the liner state owning the terminal mode.
	line *liner.State
	// out receives messages.
	out io.Writer
}

// NewTerminal switches the terminal into liner mode.
func NewTerminal(out io.Writer) *Terminal {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return &Terminal{
		line: line,
		out:  out,
	}
}

// Ask implements Prompter.
func (t *Terminal) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	answer, err := t.line.Prompt(question)
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", ErrAborted
	case errors.Is(err, io.EOF):
		return "", ErrInputClosed
	case err != nil:
		return "", fmt.Errorf("read answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer != "" {
		t.line.AppendHistory(answer)
	}

	return answer, nil
}

// Say implements Prompter.
func (t *Terminal) Say(message string) {
	_, _ = fmt.Fprintln(t.out, message)
}

// Interactive implements Prompter.
func (t *Terminal) Interactive() bool {
	return true
}

// Close restores the terminal mode.
func (t *Terminal) Close() error {
	return t.line.Close()
}
