// Package replio reads lines of input for simcc's interactive REPL mode
// (spec.md §6's --repl). Split out from the driver the way a line reader
// would be in any CLI in this family, so the REPL's prompt/history/editing
// behavior is not tangled into main's flag handling.
package replio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectReader reads lines from any io.Reader, with no escape-sequence
// handling or history. Suitable for piping a script of REPL lines in over
// stdin.
type DirectReader struct {
	r *bufio.Reader
}

// InteractiveReader reads lines from stdin through readline, giving the
// operator history and line editing. Intended for a real TTY session.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewDirectReader wraps r in a buffered line reader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader starts a readline session with the given prompt. The
// returned reader must have Close called on it when done.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline session: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// Close releases the buffered reader; present for interface symmetry with
// InteractiveReader.
func (r *DirectReader) Close() error { return nil }

// Close tears down the underlying readline session.
func (r *InteractiveReader) Close() error { return r.rl.Close() }

// ReadLine reads the next non-blank, trimmed line. It returns io.EOF once
// the underlying stream is exhausted.
func (r *DirectReader) ReadLine() (string, error) {
	for {
		line, err := r.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		if err == io.EOF {
			return "", io.EOF
		}
	}
}

// ReadLine reads the next non-blank, trimmed line from the readline session.
func (r *InteractiveReader) ReadLine() (string, error) {
	for {
		line, err := r.rl.Readline()
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}

// SetPrompt updates the interactive prompt text.
func (r *InteractiveReader) SetPrompt(p string) {
	r.rl.SetPrompt(p)
}
