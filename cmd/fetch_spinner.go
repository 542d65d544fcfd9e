package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fetchDoneMsg struct {
	err error
}

type fetchSpinnerModel struct {
	spinner spinner.Model
	label   string
	fetch   tea.Cmd
	err     error
	done    bool
}

func newFetchSpinnerModel(label string, fetch tea.Cmd) fetchSpinnerModel {
	return fetchSpinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("135"))),
		),
		label: label,
		fetch: fetch,
	}
}

func (m fetchSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m fetchSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case fetchDoneMsg:
		m.done, m.err = true, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m fetchSpinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label
}

// runFetchSpinner shows a spinner on output while fetch runs.
func runFetchSpinner(ctx context.Context, output io.Writer, label string, fetch func(context.Context) error) error {
	p := tea.NewProgram(
		newFetchSpinnerModel(label, func() tea.Msg {
			return fetchDoneMsg{err: fetch(ctx)}
		}),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	result, ok := final.(fetchSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", final)
	}
	return result.err
}
