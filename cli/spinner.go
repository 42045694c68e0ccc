package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/seedee/tui/theme"
	"github.com/mattn/go-isatty"
)

// RunWithSpinner runs fn while a spinner titled title animates on stderr.
// When stderr is not a terminal fn runs without any decoration.
func RunWithSpinner(ctx context.Context, title string, fn func(context.Context) error) error {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return fn(ctx)
	}
	return runWithSpinner(ctx, os.Stderr, title, fn)
}

func runWithSpinner(ctx context.Context, out io.Writer, title string, fn func(context.Context) error) error {
	p := tea.NewProgram(newSpinnerModel(title),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		// A spinner that fails to render must not fail the work.
		_, _ = p.Run()
	}()

	err := fn(ctx)
	p.Send(spinnerDoneMsg{err: err})

	select {
	case <-finished:
	case <-time.After(time.Second):
		p.Kill()
	}
	return err
}

type spinnerDoneMsg struct {
	err error
}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
	err     error
}

func newSpinnerModel(title string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.DefaultTheme().Colors.Violet)
	return &spinnerModel{spinner: s, title: title}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	t := theme.DefaultTheme()
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("%s %s\n", t.Error.Render(theme.IconError), m.title)
		}
		return fmt.Sprintf("%s %s\n", t.Success.Render(theme.IconSuccess), m.title)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.title)
}
