package keyboard

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays a fixed sequence of lines and records the prompts.
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) ReadLine(_ context.Context, prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestInput(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
		err   error
	}{
		{name: "plain command", lines: []string{"RUN apt-get update"}, want: "RUN apt-get update"},
		{name: "trailing whitespace", lines: []string{"WORKDIR /app  "}, want: "WORKDIR /app"},
		{name: "hidden command keeps one space", lines: []string{"   ls -la  "}, want: " ls -la"},
		{name: "exit", lines: []string{"exit"}, err: ErrInterrupt},
		{name: "quit", lines: []string{"quit"}, err: ErrInterrupt},
		{name: "empty inputs re-prompt", lines: []string{"", "  ", "ENV VAR=value"}, want: "ENV VAR=value"},
		{name: "end of input", lines: nil, err: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := New(&scriptedReader{lines: tt.lines}, nil)

			got, err := kb.Input(context.Background())

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInput_Multiline(t *testing.T) {
	reader := &scriptedReader{lines: []string{
		"apt-get update && \\",
		"apt-get install -y \\",
		"python3 curl git",
	}}
	kb := New(reader, nil)

	got, err := kb.Input(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{Prompt, ContinuationPrompt, ContinuationPrompt}, reader.prompts)
	assert.Equal(t, "apt-get update &&\n    apt-get install -y\n    python3 curl git", got)
}

func TestInput_ExitOnlyOnFirstLine(t *testing.T) {
	kb := New(&scriptedReader{lines: []string{"echo \\", "exit"}}, nil)

	got, err := kb.Input(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "echo\n    exit", got)
}

func TestInput_RecordsHistory(t *testing.T) {
	history, err := LoadHistory(filepath.Join(t.TempDir(), "Dockerfile.history"), 0)
	require.NoError(t, err)

	kb := New(&scriptedReader{lines: []string{"", "ls \\", "-la", "ls \\"}}, history)
	_, err = kb.Input(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ls \\", "-la"}, history.Entries())
}

func TestClose_SavesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dockerfile.history")
	history, err := LoadHistory(path, 0)
	require.NoError(t, err)

	kb := New(&scriptedReader{lines: []string{"apk add curl"}}, history)
	_, err = kb.Input(context.Background())
	require.NoError(t, err)
	require.NoError(t, kb.Close())

	reloaded, err := LoadHistory(path, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"apk add curl"}, reloaded.Entries())
}

func TestClose_NoHistory(t *testing.T) {
	kb := New(&scriptedReader{}, nil)
	assert.NoError(t, kb.Close())
}
