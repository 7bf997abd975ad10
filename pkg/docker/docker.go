// Package docker drives the docker CLI for a dockershit session: every typed
// command runs in a fresh container of the current image and, when it succeeds,
// becomes a RUN layer of the Dockerfile.
package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jaspreet-dot-casa/dockershit/pkg/command"
	"github.com/jaspreet-dot-casa/dockershit/pkg/dockerfile"
)

// DefaultBinary is the docker CLI executable name.
const DefaultBinary = "docker"

// cleanupTimeout bounds the forced removal of an interrupted container.
const cleanupTimeout = 10 * time.Second

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// ProgressFunc wraps a long-running step, e.g. to show a spinner.
type ProgressFunc func(title string, fn func() error) error

// Options configures a Docker session.
type Options struct {
	Debug           bool   // stream build output instead of capturing it
	ContextDir      string // build context, defaults to "."
	KeepEmptyLayers bool   // record RUN commands that leave the filesystem unchanged
	Binary          string
	Executor        Executor
	Stdout          io.Writer
	Stderr          io.Writer
	Logger          *slog.Logger
	Progress        ProgressFunc
}

// Docker builds and runs the image described by a Dockerfile.
type Docker struct {
	dockerfile *dockerfile.Dockerfile
	shell      string
	tag        string

	debug           bool
	contextDir      string
	keepEmptyLayers bool
	binary          string
	executor        Executor
	stdout          io.Writer
	stderr          io.Writer
	logger          *slog.Logger
	progress        ProgressFunc
}

// New creates a Docker session for df.
func New(df *dockerfile.Dockerfile, shell, tag string, opts Options) *Docker {
	d := &Docker{
		dockerfile:      df,
		shell:           shell,
		tag:             tag,
		debug:           opts.Debug,
		contextDir:      opts.ContextDir,
		keepEmptyLayers: opts.KeepEmptyLayers,
		binary:          opts.Binary,
		executor:        opts.Executor,
		stdout:          opts.Stdout,
		stderr:          opts.Stderr,
		logger:          opts.Logger,
		progress:        opts.Progress,
	}

	if d.contextDir == "" {
		d.contextDir = "."
	}
	if d.binary == "" {
		d.binary = DefaultBinary
	}
	if d.executor == nil {
		d.executor = &RealExecutor{}
	}
	if d.stdout == nil {
		d.stdout = os.Stdout
	}
	if d.stderr == nil {
		d.stderr = os.Stderr
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Build rebuilds the image. When the build fails the last instruction is
// removed from the Dockerfile and false is returned; an error means docker
// itself could not be run.
func (d *Docker) Build(ctx context.Context) (bool, error) {
	cmd := Command{
		Name: d.binary,
		Args: []string{"build", "-t", d.tag, "-f", d.dockerfile.Path(), d.contextDir},
	}
	if d.debug {
		cmd.Stdout = d.stdout
		cmd.Stderr = d.stderr
	}

	var result Result
	run := func() error {
		var err error
		result, err = d.executor.Execute(ctx, cmd)
		return err
	}

	var err error
	if d.progress != nil && !d.debug {
		err = d.progress(fmt.Sprintf("Building %s", d.tag), run)
	} else {
		err = run()
	}
	if err != nil {
		return false, fmt.Errorf("docker build failed to run: %w", err)
	}

	if result.ExitCode != 0 {
		if !d.debug {
			fmt.Fprint(d.stderr, result.Stderr)
		}
		d.logger.Debug("build failed, dropping last instruction",
			"tag", d.tag, "exit_code", result.ExitCode)
		if err := d.dockerfile.RemoveLastCommand(); err != nil {
			return false, err
		}
		return false, nil
	}

	d.logger.Debug("build succeeded", "tag", d.tag)
	return true, nil
}

// Run executes cmd with the session shell in a throw-away container and
// returns its exit code. Output goes straight to the terminal.
func (d *Docker) Run(ctx context.Context, cmd string) (int, error) {
	name := d.containerName()
	args := []string{
		"run",
		"--rm",
		"--name", name,
		"-w", d.dockerfile.Workdir(),
		d.tag,
		d.shell,
		"-c",
		cmd,
	}

	d.logger.Debug("running command", "container", name, "workdir", d.dockerfile.Workdir(), "cmd", cmd)

	result, err := d.executor.Execute(ctx, Command{
		Name:   d.binary,
		Args:   args,
		Stdout: d.stdout,
		Stderr: d.stderr,
	})
	if err != nil {
		if ctx.Err() != nil {
			d.removeContainer(name)
		}
		return -1, fmt.Errorf("docker run failed to run: %w", err)
	}

	return result.ExitCode, nil
}

// removeContainer force-removes a container left behind by an interrupted run.
func (d *Docker) removeContainer(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	result, err := d.executor.Execute(ctx, Command{
		Name: d.binary,
		Args: []string{"rm", "-f", name},
	})
	if err != nil || result.ExitCode != 0 {
		d.logger.Warn("failed to remove interrupted container", "container", name, "error", err)
	}
}

// containerName derives a unique container name from the tag.
func (d *Docker) containerName() string {
	base := strings.Trim(invalidNameChars.ReplaceAllString(d.tag, "-"), "-.")
	if base == "" {
		base = "dockershit"
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

// IsTopLayerEmpty reports whether the newest layer of the image adds no bytes.
func (d *Docker) IsTopLayerEmpty(ctx context.Context) (bool, error) {
	result, err := d.executor.Execute(ctx, Command{
		Name: d.binary,
		Args: []string{"history", "--format", "{{.Size}}", "--human=false", d.tag},
	})
	if err != nil {
		return false, fmt.Errorf("docker history failed to run: %w", err)
	}
	if result.ExitCode != 0 {
		return false, fmt.Errorf("docker history failed: %s", strings.TrimSpace(result.Stderr))
	}

	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return line == "0" || line == "0B", nil
	}

	return false, nil
}

// Input handles one line typed at the prompt.
func (d *Docker) Input(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	hidden := command.IsHidden(line)
	cmd := strings.TrimLeft(line, " \t")
	flat := command.Flatten(cmd)

	if command.IsComment(cmd) {
		if hidden {
			return nil
		}
		return d.dockerfile.Append(cmd)
	}

	if command.IsDockerfile(cmd) {
		return d.instruction(ctx, cmd, flat, hidden)
	}

	if dir, ok := command.CdTarget(flat); ok {
		if hidden {
			d.dockerfile.SetWorkdir(dir)
			return nil
		}
		return d.dockerfile.Cd(dir)
	}

	return d.shellCommand(ctx, cmd, flat, hidden)
}

// instruction records a Dockerfile instruction and rebuilds.
func (d *Docker) instruction(ctx context.Context, cmd, flat string, hidden bool) error {
	if !hidden {
		if err := d.dockerfile.Append(withContinuations(cmd)); err != nil {
			return err
		}

		if command.Instruction(flat) == "WORKDIR" {
			dir := strings.TrimSpace(strings.TrimPrefix(flat, "WORKDIR"))
			if dir != "" {
				d.dockerfile.SetWorkdir(dir)
			}
			return nil
		}

		_, err := d.buildRecorded(ctx)
		return err
	}

	_, err := d.Build(ctx)
	return err
}

// shellCommand runs a command and records it as a RUN layer on success.
func (d *Docker) shellCommand(ctx context.Context, cmd, flat string, hidden bool) error {
	code, err := d.Run(ctx, flat)
	if err != nil {
		return err
	}

	if hidden {
		return nil
	}

	if code != 0 {
		d.logger.Debug("command failed", "cmd", flat, "exit_code", code)
		return d.dockerfile.Append("# (error) RUN " + withContinuations(cmd))
	}

	if err := d.dockerfile.Append(""); err != nil {
		return err
	}
	if err := d.dockerfile.Append("RUN " + withContinuations(cmd)); err != nil {
		return err
	}

	built, err := d.buildRecorded(ctx)
	if err != nil || !built || d.keepEmptyLayers {
		return err
	}

	empty, err := d.IsTopLayerEmpty(ctx)
	if err != nil {
		d.logger.Warn("could not inspect image layers", "error", err)
		return nil
	}
	if !empty {
		return nil
	}

	d.logger.Debug("command left no changes, not recording it", "cmd", flat)
	if err := d.dockerfile.RemoveLastCommand(); err != nil {
		return err
	}
	_, err = d.Build(ctx)
	return err
}

// buildRecorded rebuilds after a line was appended. When the build is
// interrupted the line is taken out again, since it was never built.
func (d *Docker) buildRecorded(ctx context.Context) (bool, error) {
	built, err := d.Build(ctx)
	if err != nil && ctx.Err() != nil {
		d.logger.Debug("build interrupted, dropping last instruction", "tag", d.tag)
		if rmErr := d.dockerfile.RemoveLastCommand(); rmErr != nil {
			return false, errors.Join(err, rmErr)
		}
	}
	return built, err
}

// withContinuations restores the backslashes of a multi-line command so it
// stays a single Dockerfile instruction.
func withContinuations(cmd string) string {
	lines := strings.Split(cmd, "\n")
	for i := 0; i < len(lines)-1; i++ {
		if !strings.HasSuffix(strings.TrimRight(lines[i], " \t"), "\\") {
			lines[i] = strings.TrimRight(lines[i], " \t") + " \\"
		}
	}
	return strings.Join(lines, "\n")
}

// IsMultiCommand reports whether cmd combines several shell commands.
func IsMultiCommand(cmd string) bool {
	return command.IsMultiCommand(cmd)
}
