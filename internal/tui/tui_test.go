package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *promptModel, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func TestInput_TypedValueAccepted(t *testing.T) {
	m := &promptModel{prompt: NewInput("Doc URL", "https://default")}

	press(m, runes("https://api.example.com"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.done)
	assert.Equal(t, "https://api.example.com", m.answer)
}

func TestInput_BlankUsesDefault(t *testing.T) {
	m := &promptModel{prompt: NewInput("Doc URL", "https://default")}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "https://default", m.answer)
}

func TestInput_RequiredKeepsPromptOpen(t *testing.T) {
	in := NewInput("Doc URL", "")
	m := &promptModel{prompt: in, validate: ComposeValidators(Required)}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.done)
	assert.Contains(t, in.Render(), "this field is required")

	press(m, runes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.done)
	assert.Equal(t, "x", m.answer)
}

func TestSecret_MasksTypedText(t *testing.T) {
	in := NewSecret("API key")
	m := &promptModel{prompt: in}

	press(m, runes("sk-secret"))

	assert.NotContains(t, in.Render(), "sk-secret")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "sk-secret", m.answer)
}

func TestSelect_ArrowAndShortcut(t *testing.T) {
	sel := NewSelect("Next", []Option{{Key: "c", Label: "[c]ontinue"}, {Key: "b", Label: "[b]ack"}, {Key: "q", Label: "[q]uit"}}, 0)
	m := &promptModel{prompt: sel}

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, sel.Value())

	press(m, runes("q"))
	assert.False(t, m.done)
	assert.Equal(t, 2, sel.Value())

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.done)
	assert.Equal(t, 2, m.answer)
}

func TestConfirm_DefaultAndShortcut(t *testing.T) {
	c := NewConfirm("Deploy now?", true)
	assert.Equal(t, true, c.Value())
	assert.Contains(t, c.Render(), "Y/n")

	m := &promptModel{prompt: c}
	press(m, runes("n"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, false, m.answer)
}

func TestPromptModel_EscCancels(t *testing.T) {
	m := &promptModel{prompt: NewInput("Doc URL", "")}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, m.cancelled)
	assert.False(t, m.done)
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestAskOne_RunsProgramFromReader(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var in, out bytes.Buffer
	in.WriteString("hello\r")

	answer, err := AskOne(ctx, NewInput("Name", ""), &in, &out)

	require.NoError(t, err)
	assert.Equal(t, "hello", answer)
	assert.NotZero(t, out.Len())
}

func TestLinePrompter_InputDefaultAndEOF(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("\nvalue\n"), &out)
	ctx := context.Background()

	got, err := p.Input(ctx, "Output directory", "integration")
	require.NoError(t, err)
	assert.Equal(t, "integration", got)
	assert.Contains(t, out.String(), "Output directory [integration]: ")

	got, err = p.Input(ctx, "Output directory", "integration")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	_, err = p.Input(ctx, "Output directory", "integration")
	assert.ErrorIs(t, err, io.EOF)
}

func TestLinePrompter_SelectRepromptsOutOfRange(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("9\nx\n2\n"), &out)

	idx, err := p.Select(context.Background(), "Environment", []string{"Production", "Staging"}, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	text := out.String()
	assert.Contains(t, text, "Environment:\n  1) Production\n  2) Staging\n")
	assert.Contains(t, text, "Choice [1]")
	assert.Equal(t, 2, strings.Count(text, "Enter a number between 1 and 2"))
}

func TestLinePrompter_MenuAndConfirm(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("B\n\nyes\n"), &out)
	ctx := context.Background()
	options := []Option{{Key: "r", Label: "[r]un tests"}, {Key: "b", Label: "[b]ack"}}

	action, err := p.Menu(ctx, "Next", options, "r")
	require.NoError(t, err)
	assert.Equal(t, "b", action)
	assert.Contains(t, out.String(), "[r]un tests, [b]ack [r]: ")

	ok, err := p.Confirm(ctx, "Webhook support?", false)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Confirm(ctx, "Webhook support?", false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewPrompter_NonTerminalUsesLines(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), io.Discard)

	_, ok := p.(*LinePrompter)
	assert.True(t, ok)
}
