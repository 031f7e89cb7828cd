package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Input is a single-line text prompt.
type Input struct {
	message      string
	defaultValue string
	textInput    textinput.Model
	error        string
}

var _ Prompt = &Input{}

func NewInput(message, defaultValue string) *Input {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = "> "

	return &Input{message: message, defaultValue: defaultValue, textInput: ti}
}

// NewSecret is an Input that masks what is typed.
func NewSecret(message string) *Input {
	in := NewInput(message, "")
	in.textInput.EchoMode = textinput.EchoPassword
	in.textInput.EchoCharacter = '•'
	return in
}

func (i *Input) Message() string     { return i.message }
func (i *Input) SetError(err string) { i.error = err }

// Value returns the trimmed text, or the default when nothing was typed.
func (i *Input) Value() interface{} {
	value := strings.TrimSpace(i.textInput.Value())
	if value == "" {
		return i.defaultValue
	}
	return value
}

func (i *Input) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

func (i *Input) Render() string {
	var b strings.Builder
	b.WriteString(focusedStyle.Render(i.message))
	if i.defaultValue != "" {
		b.WriteString(helpStyle.Render(fmt.Sprintf(" (%s)", i.defaultValue)))
	}
	b.WriteString("\n")
	b.WriteString(i.textInput.View())
	if i.error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + i.error))
	}
	return b.String()
}
