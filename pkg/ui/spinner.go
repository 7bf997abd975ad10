package ui

import (
	"io"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// doneMsg carries the result of the wrapped work.
type doneMsg struct {
	err error
}

// spinnerModel shows a spinner until the wrapped work finishes.
type spinnerModel struct {
	spinner spinner.Model
	title   string
	work    func() error
	err     error
	done    bool
}

func newSpinnerModel(title string, work func() error) spinnerModel {
	return spinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(SpinnerStyle),
		),
		title: title,
		work:  work,
	}
}

// Init implements tea.Model.
func (m spinnerModel) Init() tea.Cmd {
	work := m.work
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return doneMsg{err: work()}
		},
	)
}

// Update implements tea.Model.
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model. The line is cleared once the work is done.
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + DimStyle.Render(m.title)
}

// RunWithSpinner runs fn while rendering a spinner with title to out and
// returns fn's error. Keyboard input is left alone so that Ctrl-C still
// reaches the process as a signal.
func RunWithSpinner(out io.Writer, title string, fn func() error) error {
	var started atomic.Bool
	work := func() error {
		started.Store(true)
		return fn()
	}

	p := tea.NewProgram(
		newSpinnerModel(title, work),
		tea.WithInput(nil),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)

	final, err := p.Run()
	if err != nil {
		if !started.Load() {
			return fn()
		}
		return err
	}

	if m, ok := final.(spinnerModel); ok {
		return m.err
	}
	return nil
}
