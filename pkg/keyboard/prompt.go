package keyboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaspreet-dot-casa/dockershit/pkg/ui"
)

// promptKeyMap defines the keys handled by the prompt itself.
type promptKeyMap struct {
	Submit    key.Binding
	Interrupt key.Binding
	EOF       key.Binding
	Prev      key.Binding
	Next      key.Binding
}

func defaultPromptKeyMap() promptKeyMap {
	return promptKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		EOF: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "quit on empty line"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next"),
		),
	}
}

// promptModel is a single-line bubbletea prompt with history navigation.
type promptModel struct {
	input   textinput.Model
	keys    promptKeyMap
	history []string
	index   int    // position in history; len(history) means the draft
	draft   string // text typed before browsing history

	value       string
	done        bool
	interrupted bool
	eof         bool
}

func newPromptModel(prompt string, history []string) promptModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.PromptStyle = ui.PromptStyle
	ti.Focus()

	return promptModel{
		input:   ti,
		keys:    defaultPromptKeyMap(),
		history: history,
		index:   len(history),
	}
}

// Init implements tea.Model.
func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Interrupt):
			m.interrupted = true
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.EOF) && m.input.Value() == "":
			m.eof = true
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Prev):
			m.historyPrev()
			return m, nil

		case key.Matches(msg, m.keys.Next):
			m.historyNext()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *promptModel) historyPrev() {
	if m.index == 0 {
		return
	}
	if m.index == len(m.history) {
		m.draft = m.input.Value()
	}
	m.index--
	m.input.SetValue(m.history[m.index])
	m.input.CursorEnd()
}

func (m *promptModel) historyNext() {
	if m.index >= len(m.history) {
		return
	}
	m.index++
	if m.index == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[m.index])
	}
	m.input.CursorEnd()
}

// View implements tea.Model. Once finished, the plain line stays in the
// terminal scrollback.
func (m promptModel) View() string {
	if m.done {
		line := ui.PromptStyle.Render(m.input.Prompt) + m.input.Value()
		if m.interrupted {
			line += ui.DimStyle.Render("^C")
		}
		return line + "\n"
	}
	return m.input.View()
}

// PromptReader reads lines with an interactive bubbletea prompt.
type PromptReader struct {
	in      io.Reader
	out     io.Writer
	history *History
}

// NewPromptReader creates a prompt reading from in and rendering to out.
// history may be nil.
func NewPromptReader(in io.Reader, out io.Writer, history *History) *PromptReader {
	return &PromptReader{
		in:      in,
		out:     out,
		history: history,
	}
}

// ReadLine shows prompt and returns the submitted line. Ctrl-C yields
// ErrInterrupt and Ctrl-D on an empty line yields io.EOF. Cancelling ctx
// tears the prompt down and returns ctx's error.
func (r *PromptReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	var entries []string
	if r.history != nil {
		entries = r.history.Entries()
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithoutSignalHandler()}
	if r.in != nil {
		opts = append(opts, tea.WithInput(r.in))
	}
	if r.out != nil {
		opts = append(opts, tea.WithOutput(r.out))
	}

	final, err := tea.NewProgram(newPromptModel(prompt, entries), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return "", context.Canceled
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok {
		return "", fmt.Errorf("prompt failed: unexpected model %T", final)
	}

	switch {
	case m.interrupted:
		return "", ErrInterrupt
	case m.eof:
		return "", io.EOF
	}
	return m.value, nil
}
