package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Confirm is a yes/no prompt. y and n jump straight to an answer.
type Confirm struct {
	sel          *Select
	defaultValue bool
}

var _ Prompt = &Confirm{}

func NewConfirm(message string, defaultValue bool) *Confirm {
	selected := 1
	if defaultValue {
		selected = 0
	}
	sel := NewSelect(message, []Option{{Key: "y", Label: "Yes"}, {Key: "n", Label: "No"}}, selected)
	return &Confirm{sel: sel, defaultValue: defaultValue}
}

func (c *Confirm) Message() string     { return c.sel.Message() }
func (c *Confirm) SetError(err string) { c.sel.SetError(err) }

func (c *Confirm) Value() interface{} {
	idx, ok := c.sel.Value().(int)
	if !ok {
		return c.defaultValue
	}
	return idx == 0
}

func (c *Confirm) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	_, cmd := c.sel.Update(msg)
	return c, cmd
}

func (c *Confirm) Render() string {
	hint := "y/N"
	if c.defaultValue {
		hint = "Y/n"
	}
	out := c.sel.Render()
	first, rest, _ := strings.Cut(out, "\n")
	return first + helpStyle.Render(" ("+hint+")") + "\n" + rest
}
