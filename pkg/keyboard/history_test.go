package keyboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHistory_MissingFile(t *testing.T) {
	h, err := LoadHistory(filepath.Join(t.TempDir(), "nonexistent.history"), 0)

	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
}

func TestLoadHistory_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	require.NoError(t, os.WriteFile(path, []byte("history line 1\n\nhistory line 2\n"), 0600))

	h, err := LoadHistory(path, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"history line 1", "history line 2"}, h.Entries())
	assert.Equal(t, path, h.Path())
}

func TestLoadHistory_TrimsToLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\nd\n"), 0600))

	h, err := LoadHistory(path, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, h.Entries())
}

func TestLoadHistory_ReadError(t *testing.T) {
	_, err := LoadHistory(t.TempDir(), 0)
	assert.Error(t, err)
}

func TestHistory_Add(t *testing.T) {
	h, err := LoadHistory(filepath.Join(t.TempDir(), "h"), 3)
	require.NoError(t, err)

	h.Add("ls")
	h.Add("ls")
	h.Add("pwd")
	h.Add("ls")
	h.Add("whoami")

	assert.Equal(t, []string{"pwd", "ls", "whoami"}, h.Entries())
}

func TestHistory_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dockerfile.history")
	h, err := LoadHistory(path, 0)
	require.NoError(t, err)

	h.Add("apt-get update")
	h.Add(" echo hidden")
	require.NoError(t, h.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "apt-get update\n echo hidden\n", string(data))
}

func TestHistory_SaveWithoutPath(t *testing.T) {
	h := &History{limit: DefaultHistorySize}
	h.Add("ls")
	assert.NoError(t, h.Save())
}
