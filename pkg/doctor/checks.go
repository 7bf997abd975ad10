package doctor

import (
	"bytes"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

// CommandExecutor is an interface for executing commands, allowing for testing.
type CommandExecutor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) (string, error)
	CombinedOutput(name string, args ...string) ([]byte, error)
}

// RealExecutor is the default command executor that uses the real system.
type RealExecutor struct{}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *RealExecutor) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if stderr.Len() > 0 {
			return stderr.String(), err
		}
		return stdout.String(), err
	}
	// some tools print their version to stderr
	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}
	return output, nil
}

// CombinedOutput runs a command and returns combined stdout and stderr.
func (e *RealExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

var defaultVersionRegex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)

// extractVersion extracts a version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		regex = defaultVersionRegex
	}
	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckDocker checks that the docker CLI is installed.
func CheckDocker(exec CommandExecutor) Check {
	check := Check{
		ID:         IDDocker,
		Name:       "Docker CLI",
		FixCommand: GetFixCommand(IDDocker, runtime.GOOS),
	}

	path, err := exec.LookPath("docker")
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, err := exec.Run(path, "--version")
	if err != nil {
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	if version := extractVersion(output, regexp.MustCompile(`Docker version (\d+\.\d+\.\d+)`)); version != "" {
		check.Message = version
	}

	return check
}

// CheckDaemon checks that the docker daemon answers.
func CheckDaemon(exec CommandExecutor) Check {
	check := Check{
		ID:         IDDaemon,
		Name:       "Docker daemon",
		FixCommand: GetFixCommand(IDDaemon, runtime.GOOS),
	}

	path, err := exec.LookPath("docker")
	if err != nil {
		check.Status = StatusMissing
		check.Message = "docker CLI not installed"
		return check
	}

	output, err := exec.Run(path, "info", "--format", "{{.ServerVersion}}")
	output = strings.TrimSpace(output)
	if err != nil {
		check.Status = StatusError
		check.Message = "not reachable"
		if strings.Contains(output, "permission denied") {
			check.Status = StatusWarning
			check.Message = "permission denied (is your user in the docker group?)"
		}
		return check
	}

	check.Status = StatusOK
	check.Message = "running"
	if version := extractVersion(output, nil); version != "" {
		check.Message = "running " + version
	}

	return check
}

// CheckBuildx checks for the BuildKit plugin. The legacy builder still works
// without it, so a missing plugin is only a warning.
func CheckBuildx(exec CommandExecutor) Check {
	check := Check{
		ID:         IDBuildx,
		Name:       "Docker buildx",
		FixCommand: GetFixCommand(IDBuildx, runtime.GOOS),
	}

	path, err := exec.LookPath("docker")
	if err != nil {
		check.Status = StatusMissing
		check.Message = "docker CLI not installed"
		return check
	}

	output, err := exec.Run(path, "buildx", "version")
	if err != nil {
		check.Status = StatusWarning
		check.Message = "not available, using legacy builder"
		return check
	}

	check.Status = StatusOK
	check.Message = "installed"
	if version := extractVersion(output, nil); version != "" {
		check.Message = version
	}

	return check
}
