package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// promptModel runs one Prompt until enter accepts a valid value.
type promptModel struct {
	prompt    Prompt
	validate  Validator
	answer    interface{}
	done      bool
	cancelled bool
}

func (m *promptModel) Init() tea.Cmd {
	return nil
}

func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			value := m.prompt.Value()
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.setError(err.Error())
					return m, nil
				}
			}
			m.answer = value
			m.done = true
			return m, tea.Quit
		}
	}

	updated, cmd := m.prompt.Update(msg)
	m.prompt = updated
	return m, cmd
}

func (m *promptModel) setError(err string) {
	if p, ok := m.prompt.(interface{ SetError(string) }); ok {
		p.SetError(err)
	}
}

func (m *promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.prompt.Render())
	b.WriteString("\n")
	b.WriteString(helpStyle.Italic(true).Render("Enter to confirm, Esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// AskOne runs prompt as a bubbletea program reading keys from in and drawing
// to out. It returns ErrCancelled when the user aborts.
func AskOne(ctx context.Context, prompt Prompt, in io.Reader, out io.Writer, validators ...Validator) (interface{}, error) {
	model := &promptModel{prompt: prompt}
	if len(validators) > 0 {
		model.validate = ComposeValidators(validators...)
	}

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return nil, ErrCancelled
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to run prompt: %w", err)
	}

	result, ok := final.(*promptModel)
	if !ok || !result.done {
		return nil, ErrCancelled
	}
	return result.answer, nil
}
