package docker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// Command describes a process to execute. Nil writers are captured into the
// Result instead.
type Command struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result is the outcome of an executed command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Executor runs external commands, allowing docker to be faked in tests.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (Result, error)
}

// RealExecutor runs commands with os/exec.
type RealExecutor struct{}

// Execute runs the command. A non-zero exit status is reported through
// Result.ExitCode, not as an error; errors mean the command could not run.
func (e *RealExecutor) Execute(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	}
	cmd.Stderr = &stderr
	if c.Stderr != nil {
		cmd.Stderr = c.Stderr
	}

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.ExitCode = -1
			return result, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}
