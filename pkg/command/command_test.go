package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatters(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"RUN echo hello", true},
		{"  ", false},
		{"# comment", false},
		{"", false},
		{" RUN echo hello", true},
		{"\t\tADD file.txt /app", true},
		{"   # comment", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Matters(tt.line), "line %q", tt.line)
	}
}

func TestIsDockerfile(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"ADD file /app", true},
		{"COPY . /app", true},
		{"ENV VAR=value", true},
		{"RUN echo hello", false},
		{"from ubuntu:20.04", false},
		{"echo hello", false},
		{"  COPY . /app", true},
		{"\tENV VAR=value", true},
		{"", false},
		{"env", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDockerfile(tt.line), "line %q", tt.line)
	}
}

func TestInstruction(t *testing.T) {
	assert.Equal(t, "WORKDIR", Instruction("WORKDIR /app"))
	assert.Equal(t, "", Instruction("echo WORKDIR"))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden(" apt-get update"))
	assert.True(t, IsHidden("\tls"))
	assert.False(t, IsHidden("apt-get update"))
	assert.False(t, IsHidden(""))
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"single line", "WORKDIR /app", "WORKDIR /app"},
		{"continuation", "WORKDIR \\\n    /app", "WORKDIR /app"},
		{"keyboard style", "apt-get update &&\n    apt-get install -y", "apt-get update && apt-get install -y"},
		{"surrounding space", "  ls  ", "ls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(tt.line))
		})
	}
}

func TestIsMultiCommand(t *testing.T) {
	assert.True(t, IsMultiCommand("cd /usr/src && ls"))
	assert.True(t, IsMultiCommand("cd /tmp; ls"))
	assert.True(t, IsMultiCommand("cat a | grep b"))
	assert.True(t, IsMultiCommand("echo hi > file"))
	assert.False(t, IsMultiCommand("cd /usr/src"))
}

func TestCdTarget(t *testing.T) {
	dir, ok := CdTarget("cd /usr/src/app")
	assert.True(t, ok)
	assert.Equal(t, "/usr/src/app", dir)

	dir, ok = CdTarget("cd  src ")
	assert.True(t, ok)
	assert.Equal(t, "src", dir)

	_, ok = CdTarget("cd /usr/src && ls")
	assert.False(t, ok)

	_, ok = CdTarget("cdrom")
	assert.False(t, ok)

	_, ok = CdTarget("cd ")
	assert.False(t, ok)
}
