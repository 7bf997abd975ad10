package ui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerModel_Done(t *testing.T) {
	m := newSpinnerModel("Building", func() error { return nil })
	assert.Contains(t, m.View(), "Building")

	next, cmd := m.Update(doneMsg{err: errors.New("boom")})
	sm, ok := next.(spinnerModel)
	require.True(t, ok)

	assert.True(t, sm.done)
	assert.EqualError(t, sm.err, "boom")
	assert.Empty(t, sm.View())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSpinnerModel_IgnoresOtherMessages(t *testing.T) {
	m := newSpinnerModel("Building", func() error { return nil })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, next.(spinnerModel).done)
	assert.Nil(t, cmd)
}

func TestRunWithSpinner(t *testing.T) {
	var out bytes.Buffer
	calls := 0

	err := RunWithSpinner(&out, "Building test", func() error {
		calls++
		return errors.New("build failed")
	})

	assert.EqualError(t, err, "build failed")
	assert.Equal(t, 1, calls)
}

func TestRunWithSpinner_Success(t *testing.T) {
	var out bytes.Buffer

	err := RunWithSpinner(&out, "Building test", func() error { return nil })

	assert.NoError(t, err)
}
