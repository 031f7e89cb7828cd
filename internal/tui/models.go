// Package tui provides the interactive prompts used by the wizard. A terminal
// gets bubbletea prompts; any other reader gets plain line prompts.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user aborts a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("prompt cancelled")

// Prompt is a single question rendered inside a bubbletea program.
type Prompt interface {
	Render() string
	Update(msg tea.Msg) (Prompt, tea.Cmd)
	Value() interface{}
	Message() string
}

// Validator checks a prompt value before it is accepted.
type Validator func(interface{}) error

var (
	focusedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	unselectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ComposeValidators runs validators in order and stops at the first error.
func ComposeValidators(validators ...Validator) Validator {
	return func(val interface{}) error {
		for _, validator := range validators {
			if err := validator(val); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required rejects blank strings.
func Required(val interface{}) error {
	if v, ok := val.(string); ok && strings.TrimSpace(v) == "" {
		return fmt.Errorf("this field is required")
	}
	return nil
}
