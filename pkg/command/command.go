// Package command classifies lines typed into the dockershit prompt.
package command

import (
	"regexp"
	"strings"
)

// Instructions are the Dockerfile instructions accepted verbatim from the prompt.
// RUN lines are produced from shell commands and FROM is owned by package dockerfile.
var Instructions = []string{
	"ADD",
	"COPY",
	"ENV",
	"EXPOSE",
	"LABEL",
	"USER",
	"VOLUME",
	"WORKDIR",
	"CMD",
	"ENTRYPOINT",
}

// shellOperators are tokens that turn a line into a compound shell command.
var shellOperators = []string{"&&", "||", ";", "|", ">", "<"}

var continuationRegex = regexp.MustCompile(`[ \t]*\\?\r?\n[ \t]*`)

// IsHidden reports whether the line starts with whitespace. Hidden lines are
// executed but never recorded in the Dockerfile.
func IsHidden(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// Flatten joins backslash continuations into a single line.
func Flatten(line string) string {
	return strings.TrimSpace(continuationRegex.ReplaceAllString(line, " "))
}

// IsDockerfile reports whether the line starts with one of Instructions.
// Case sensitive, so the shell's "env" stays a shell command.
func IsDockerfile(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	for _, instr := range Instructions {
		if fields[0] == instr {
			return true
		}
	}
	return false
}

// Instruction returns the leading instruction keyword of the line, or "".
func Instruction(line string) string {
	if !IsDockerfile(line) {
		return ""
	}
	return strings.Fields(line)[0]
}

// Matters reports whether the line is neither blank nor a comment.
func Matters(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && !strings.HasPrefix(trimmed, "#")
}

// IsComment reports whether the line is a comment.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// IsMultiCommand reports whether cmd contains shell operators.
func IsMultiCommand(cmd string) bool {
	for _, op := range shellOperators {
		if strings.Contains(cmd, op) {
			return true
		}
	}
	return false
}

// CdTarget returns the directory of a simple "cd DIR" command. ok is false for
// anything else, including cd combined with other shell operators.
func CdTarget(cmd string) (dir string, ok bool) {
	cmd = strings.TrimSpace(cmd)
	if !strings.HasPrefix(cmd, "cd ") || IsMultiCommand(cmd) {
		return "", false
	}
	dir = strings.TrimSpace(cmd[len("cd "):])
	if dir == "" {
		return "", false
	}
	return dir, true
}
