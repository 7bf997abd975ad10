// Package dockerfile maintains the Dockerfile recorded by a dockershit session.
//
// The file is kept as a list of logical lines: physical lines joined by a
// trailing backslash form one logical line and keep their embedded newlines,
// so that the file round-trips unchanged apart from the edits made through
// this package.
package dockerfile

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/jaspreet-dot-casa/dockershit/pkg/command"
)

// DefaultImage is used when neither the caller nor the file names a base image.
const DefaultImage = "alpine:latest"

// DefaultWorkdir is the working directory before any WORKDIR instruction.
const DefaultWorkdir = "/"

// Dockerfile is an in-memory view of a Dockerfile that is written back to disk
// on every change.
type Dockerfile struct {
	path    string
	lines   []string
	image   string
	workdir string
	existed bool
}

// New loads the Dockerfile at path, creating it when missing. When image is
// non-empty it replaces the base image of an existing file.
func New(filePath, image string) (*Dockerfile, error) {
	d := &Dockerfile{
		path:    filePath,
		workdir: DefaultWorkdir,
	}

	if err := d.load(); err != nil {
		return nil, err
	}

	switch {
	case !d.existed || d.image == "":
		if image == "" {
			image = DefaultImage
		}
		if err := d.SetImage(image); err != nil {
			return nil, err
		}
	case image != "":
		if err := d.SetImage(image); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// load reads the file if it exists and derives image and workdir from it.
func (d *Dockerfile) load() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", d.path, err)
	}

	d.existed = true
	d.lines = parseLines(string(data))
	d.image = ""

	for _, line := range d.lines {
		keyword, arg := splitInstruction(line)
		if strings.EqualFold(keyword, "FROM") && arg != "" && d.image == "" {
			d.image = strings.Fields(arg)[0]
		}
	}
	d.workdir = d.scanWorkdir()

	return nil
}

// parseLines splits file content into logical lines.
func parseLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}

	var lines []string
	var current string
	continued := false

	for _, raw := range strings.Split(content, "\n") {
		if continued {
			current += "\n" + raw
		} else {
			current = raw
		}

		continued = strings.HasSuffix(strings.TrimRight(raw, " \t"), "\\")
		if !continued {
			lines = append(lines, current)
		}
	}

	// file ended mid-continuation
	if continued {
		lines = append(lines, current)
	}

	return lines
}

// splitInstruction returns the instruction keyword and its flattened argument.
func splitInstruction(line string) (keyword, arg string) {
	flat := command.Flatten(line)
	idx := strings.IndexAny(flat, " \t")
	if idx < 0 {
		return flat, ""
	}
	return flat[:idx], strings.TrimSpace(flat[idx+1:])
}

// scanWorkdir replays WORKDIR instructions to find the effective directory.
func (d *Dockerfile) scanWorkdir() string {
	workdir := DefaultWorkdir
	for _, line := range d.lines {
		keyword, arg := splitInstruction(line)
		if strings.EqualFold(keyword, "WORKDIR") && arg != "" {
			workdir = resolve(workdir, arg)
		}
	}
	return workdir
}

// resolve joins dir onto base using container (POSIX) path rules.
func resolve(base, dir string) string {
	if path.IsAbs(dir) {
		return path.Clean(dir)
	}
	return path.Join(base, dir)
}

// Path returns the file path.
func (d *Dockerfile) Path() string {
	return d.path
}

// Lines returns a copy of the logical lines.
func (d *Dockerfile) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Image returns the base image.
func (d *Dockerfile) Image() string {
	return d.image
}

// Workdir returns the current working directory inside the container.
func (d *Dockerfile) Workdir() string {
	return d.workdir
}

// Existed reports whether the file was present when it was loaded.
func (d *Dockerfile) Existed() bool {
	return d.existed
}

// SetImage points the first FROM instruction at image, inserting one if needed.
func (d *Dockerfile) SetImage(image string) error {
	d.image = image
	from := "FROM " + image

	replaced := false
	for i, line := range d.lines {
		keyword, _ := splitInstruction(line)
		if strings.EqualFold(keyword, "FROM") {
			d.lines[i] = from
			replaced = true
			break
		}
	}
	if !replaced {
		d.lines = append([]string{from}, d.lines...)
	}

	return d.Write()
}

// Cd changes directory and records it as a WORKDIR instruction.
func (d *Dockerfile) Cd(dir string) error {
	d.SetWorkdir(dir)
	return d.Append("WORKDIR " + d.workdir)
}

// SetWorkdir changes directory without touching the file.
func (d *Dockerfile) SetWorkdir(dir string) {
	d.workdir = resolve(d.workdir, dir)
}

// Append adds a line and writes the file.
func (d *Dockerfile) Append(line string) error {
	d.lines = append(d.lines, line)
	return d.Write()
}

// RemoveLastCommand drops the last meaningful instruction together with any
// comments or blank lines after it. The FROM line is kept.
func (d *Dockerfile) RemoveLastCommand() error {
	for len(d.lines) > 0 && !command.Matters(d.lines[len(d.lines)-1]) {
		d.lines = d.lines[:len(d.lines)-1]
	}

	if n := len(d.lines); n > 0 {
		keyword, _ := splitInstruction(d.lines[n-1])
		if !strings.EqualFold(keyword, "FROM") {
			d.lines = d.lines[:n-1]
		}
	}

	for len(d.lines) > 0 && strings.TrimSpace(d.lines[len(d.lines)-1]) == "" {
		d.lines = d.lines[:len(d.lines)-1]
	}

	d.workdir = d.scanWorkdir()
	return d.Write()
}

// Write saves the file atomically.
func (d *Dockerfile) Write() error {
	_, statErr := os.Stat(d.path)
	if err := atomic.WriteFile(d.path, strings.NewReader(d.String())); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}

	// atomic creates new files with 0600
	if os.IsNotExist(statErr) {
		if err := os.Chmod(d.path, 0644); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", d.path, err)
		}
	}

	return nil
}

// String renders the file content.
func (d *Dockerfile) String() string {
	return strings.Join(d.lines, "\n") + "\n"
}
