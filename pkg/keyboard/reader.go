package keyboard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// ScannerReader reads lines from a non-interactive stream such as a pipe.
// Lines are scanned on a separate goroutine so that a read can be abandoned
// when its context is cancelled.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer

	once  sync.Once
	lines chan scanResult
}

type scanResult struct {
	line string
	err  error
}

// NewScannerReader creates a reader over in. Prompts are written to out when
// it is non-nil.
func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (r *ScannerReader) start() {
	r.lines = make(chan scanResult)
	go func() {
		defer close(r.lines)
		for r.scanner.Scan() {
			r.lines <- scanResult{line: r.scanner.Text()}
		}
		if err := r.scanner.Err(); err != nil {
			r.lines <- scanResult{err: fmt.Errorf("failed to read input: %w", err)}
		}
	}()
}

// ReadLine returns the next line, io.EOF at the end of input, or ctx's error
// when ctx is cancelled first.
func (r *ScannerReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.once.Do(r.start)

	if r.out != nil {
		fmt.Fprint(r.out, prompt)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		if r.out != nil {
			fmt.Fprintln(r.out, res.line)
		}
		return res.line, nil
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewReader picks the interactive prompt when both in and out are terminals
// and falls back to plain line scanning otherwise.
func NewReader(in, out *os.File, history *History) LineReader {
	if IsTerminal(in) && IsTerminal(out) {
		return NewPromptReader(in, out, history)
	}
	return NewScannerReader(in, nil)
}
