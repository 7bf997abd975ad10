package doctor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockExecutor is a mock command executor for testing.
type MockExecutor struct {
	LookPathFunc       func(file string) (string, error)
	RunFunc            func(name string, args ...string) (string, error)
	CombinedOutputFunc func(name string, args ...string) ([]byte, error)
}

func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

func (m *MockExecutor) Run(name string, args ...string) (string, error) {
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	return "1.0.0", nil
}

func (m *MockExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	if m.CombinedOutputFunc != nil {
		return m.CombinedOutputFunc(name, args...)
	}
	return nil, nil
}

func notFound(string) (string, error) {
	return "", errors.New("not found")
}

// dockerRunner answers docker subcommands with canned output.
func dockerRunner(info string, infoErr error, buildxErr error) func(string, ...string) (string, error) {
	return func(name string, args ...string) (string, error) {
		switch args[0] {
		case "--version":
			return "Docker version 27.3.1, build ce12230", nil
		case "info":
			return info, infoErr
		case "buildx":
			return "github.com/docker/buildx v0.17.1 257815a", buildxErr
		}
		return "", errors.New("unexpected command")
	}
}

func TestCheckDocker_Installed(t *testing.T) {
	exec := &MockExecutor{RunFunc: dockerRunner("", nil, nil)}

	check := CheckDocker(exec)

	assert.Equal(t, IDDocker, check.ID)
	assert.Equal(t, "Docker CLI", check.Name)
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "27.3.1", check.Message)
}

func TestCheckDocker_NotInstalled(t *testing.T) {
	check := CheckDocker(&MockExecutor{LookPathFunc: notFound})

	assert.Equal(t, StatusMissing, check.Status)
	assert.Equal(t, "not installed", check.Message)
}

func TestCheckDocker_VersionUnknown(t *testing.T) {
	exec := &MockExecutor{RunFunc: func(string, ...string) (string, error) {
		return "", errors.New("exit status 1")
	}}

	check := CheckDocker(exec)

	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "installed (version unknown)", check.Message)
}

func TestCheckDaemon(t *testing.T) {
	tests := []struct {
		name    string
		exec    *MockExecutor
		status  CheckStatus
		message string
	}{
		{
			name:    "running",
			exec:    &MockExecutor{RunFunc: dockerRunner("27.3.1\n", nil, nil)},
			status:  StatusOK,
			message: "running 27.3.1",
		},
		{
			name:    "not reachable",
			exec:    &MockExecutor{RunFunc: dockerRunner("Cannot connect to the Docker daemon", errors.New("exit status 1"), nil)},
			status:  StatusError,
			message: "not reachable",
		},
		{
			name:    "permission denied",
			exec:    &MockExecutor{RunFunc: dockerRunner("permission denied while trying to connect", errors.New("exit status 1"), nil)},
			status:  StatusWarning,
			message: "permission denied (is your user in the docker group?)",
		},
		{
			name:    "no cli",
			exec:    &MockExecutor{LookPathFunc: notFound},
			status:  StatusMissing,
			message: "docker CLI not installed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckDaemon(tt.exec)

			assert.Equal(t, IDDaemon, check.ID)
			assert.Equal(t, tt.status, check.Status)
			assert.Equal(t, tt.message, check.Message)
		})
	}
}

func TestCheckBuildx(t *testing.T) {
	check := CheckBuildx(&MockExecutor{RunFunc: dockerRunner("", nil, nil)})
	assert.Equal(t, StatusOK, check.Status)
	assert.Equal(t, "0.17.1", check.Message)

	check = CheckBuildx(&MockExecutor{RunFunc: dockerRunner("", nil, errors.New("unknown command"))})
	assert.Equal(t, StatusWarning, check.Status)
}

func TestChecker_CheckAll(t *testing.T) {
	checker := NewCheckerWithExecutor(&MockExecutor{RunFunc: dockerRunner("27.3.1", nil, nil)})

	checks := checker.CheckAll()

	require.Len(t, checks, len(CheckIDs))
	for i, id := range CheckIDs {
		assert.Equal(t, id, checks[i].ID)
		assert.Equal(t, StatusOK, checks[i].Status)
	}
	assert.False(t, HasIssues(checks))
}

func TestChecker_UnknownCheck(t *testing.T) {
	checker := NewCheckerWithExecutor(&MockExecutor{})

	check := checker.runCheck("nope")

	assert.Equal(t, StatusError, check.Status)
	assert.Equal(t, "unknown check", check.Message)
}

func TestGetSummary(t *testing.T) {
	checks := []Check{
		{Status: StatusOK},
		{Status: StatusMissing},
		{Status: StatusWarning},
		{Status: StatusError},
		{Status: StatusOK},
	}

	summary := GetSummary(checks)

	assert.Equal(t, Summary{Total: 5, OK: 2, Missing: 1, Warnings: 1, Errors: 1}, summary)
	assert.True(t, HasIssues(checks))
	assert.False(t, HasIssues([]Check{{Status: StatusOK}, {Status: StatusWarning}}))
}

func TestCheck_Blocking(t *testing.T) {
	assert.False(t, Check{Status: StatusOK}.Blocking())
	assert.False(t, Check{Status: StatusWarning}.Blocking())
	assert.True(t, Check{Status: StatusMissing}.Blocking())
	assert.True(t, Check{Status: StatusError}.Blocking())
}

func TestCheckStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "warning", StatusWarning.String())
	assert.Equal(t, "unknown", CheckStatus(99).String())
}

func TestRender(t *testing.T) {
	checks := []Check{
		{ID: IDDocker, Name: "Docker CLI", Status: StatusOK, Message: "27.3.1"},
		{
			ID:      IDDaemon,
			Name:    "Docker daemon",
			Status:  StatusError,
			Message: "not reachable",
			FixCommand: &FixCommand{
				Description: "Start the docker service",
				Command:     "sudo systemctl start docker",
			},
		},
	}

	var buf bytes.Buffer
	Render(&buf, checks)
	out := buf.String()

	assert.Contains(t, out, "Docker CLI")
	assert.Contains(t, out, "27.3.1")
	assert.Contains(t, out, "sudo systemctl start docker")
	assert.Contains(t, out, "1/2 checks passed")
	assert.Equal(t, 1, strings.Count(out, "sudo systemctl"))
}
