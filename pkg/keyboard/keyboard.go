// Package keyboard reads commands from the user, supporting backslash
// continuation lines and a persistent input history.
package keyboard

import (
	"context"
	"errors"
	"strings"

	"github.com/jaspreet-dot-casa/dockershit/pkg/command"
)

// ErrInterrupt is returned when the user asks to leave the session.
var ErrInterrupt = errors.New("interrupted")

const (
	// Prompt is shown for the first line of a command.
	Prompt = "# "
	// ContinuationPrompt is shown after a line ending in a backslash.
	ContinuationPrompt = "... "

	continuationIndent = "    "
)

// LineReader reads a single line of input after showing prompt. ReadLine
// returns ctx's error once ctx is cancelled, even while waiting for input.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// Keyboard assembles commands from a LineReader.
type Keyboard struct {
	reader  LineReader
	history *History
}

// New creates a Keyboard. history may be nil.
func New(reader LineReader, history *History) *Keyboard {
	return &Keyboard{
		reader:  reader,
		history: history,
	}
}

// Input reads the next command. Continuation lines are joined with newlines
// and indented by four spaces. A command typed with leading whitespace keeps
// a single leading space so that it stays hidden. Blank input re-prompts.
func (k *Keyboard) Input(ctx context.Context) (string, error) {
	for {
		cmd, err := k.read(ctx)
		if err != nil {
			return "", err
		}
		if cmd != "" {
			return cmd, nil
		}
	}
}

func (k *Keyboard) read(ctx context.Context) (string, error) {
	var lines []string
	hidden := false

	for {
		prompt := Prompt
		if len(lines) > 0 {
			prompt = ContinuationPrompt
		}

		raw, err := k.reader.ReadLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if k.history != nil && strings.TrimSpace(raw) != "" {
			k.history.Add(raw)
		}

		line := strings.TrimRight(raw, " \t\r")
		if len(lines) == 0 {
			if isExit(line) {
				return "", ErrInterrupt
			}
			hidden = command.IsHidden(line)
		}

		continued := strings.HasSuffix(line, "\\")
		if continued {
			line = strings.TrimRight(strings.TrimSuffix(line, "\\"), " \t")
		}
		lines = append(lines, line)

		if !continued {
			break
		}
	}

	processed := make([]string, 0, len(lines))
	processed = append(processed, strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		processed = append(processed, continuationIndent+strings.TrimSpace(line))
	}

	full := strings.TrimSpace(strings.Join(processed, "\n"))
	if full == "" {
		return "", nil
	}
	if hidden {
		full = " " + full
	}

	return full, nil
}

// Close persists the history.
func (k *Keyboard) Close() error {
	if k.history == nil {
		return nil
	}
	return k.history.Save()
}

func isExit(line string) bool {
	switch strings.TrimSpace(line) {
	case "exit", "quit":
		return true
	}
	return false
}
