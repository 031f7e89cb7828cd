package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Option is one choice of a Select. Key is an optional single-letter
// shortcut that moves the cursor to the option.
type Option struct {
	Key   string
	Label string
}

type selectItem struct {
	option Option
}

func (i selectItem) FilterValue() string { return i.option.Label }
func (i selectItem) Title() string       { return i.option.Label }
func (i selectItem) Description() string { return "" }

type selectDelegate struct{}

func (d selectDelegate) Height() int                             { return 1 }
func (d selectDelegate) Spacing() int                            { return 0 }
func (d selectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d selectDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(selectItem)
	if !ok {
		return
	}
	if index == m.Index() {
		fmt.Fprint(w, selectedStyle.Render("> "+i.option.Label))
		return
	}
	fmt.Fprint(w, unselectedStyle.Render("  "+i.option.Label))
}

// Select picks one option from a list. Its Value is the selected index.
type Select struct {
	message string
	options []Option
	list    list.Model
	error   string
}

var _ Prompt = &Select{}

func NewSelect(message string, options []Option, defaultIndex int) *Select {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = selectItem{option: o}
	}

	l := list.New(items, selectDelegate{}, 60, len(options)+2)
	// Filtering first: only the SetShow calls recompute the page size.
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	if defaultIndex >= 0 && defaultIndex < len(options) {
		l.Select(defaultIndex)
	}

	return &Select{message: message, options: options, list: l}
}

func (s *Select) Message() string     { return s.message }
func (s *Select) SetError(err string) { s.error = err }
func (s *Select) Value() interface{}  { return s.list.Index() }

func (s *Select) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyRunes {
		pressed := strings.ToLower(msg.String())
		for i, o := range s.options {
			if o.Key != "" && strings.ToLower(o.Key) == pressed {
				s.list.Select(i)
				return s, nil
			}
		}
		// Letters would otherwise reach the list key map, where q quits.
		return s, nil
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *Select) Render() string {
	var b strings.Builder
	b.WriteString(focusedStyle.Render(s.message))
	b.WriteString("\n")
	b.WriteString(s.list.View())
	if s.error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + s.error))
	}
	return b.String()
}
