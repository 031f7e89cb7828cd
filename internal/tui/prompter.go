package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Prompter asks the questions of an interactive session.
type Prompter interface {
	// Input returns the answer, or def when the answer is blank.
	Input(ctx context.Context, message, def string) (string, error)
	// Secret reads a credential without echoing it where possible.
	Secret(ctx context.Context, message string) (string, error)
	// Select returns the zero-based index of the chosen option.
	Select(ctx context.Context, message string, options []string, def int) (int, error)
	// Menu returns the lower-cased Key of the chosen action.
	Menu(ctx context.Context, message string, options []Option, def string) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
}

// NewPrompter returns bubbletea prompts when in is a terminal and line
// prompts otherwise.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewTerminalPrompter(f, out)
	}
	return NewLinePrompter(in, out)
}

// TerminalPrompter draws each question as a bubbletea program.
type TerminalPrompter struct {
	in  io.Reader
	out io.Writer
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out}
}

func (p *TerminalPrompter) ask(ctx context.Context, prompt Prompt, validators ...Validator) (interface{}, error) {
	return AskOne(ctx, prompt, p.in, p.out, validators...)
}

func (p *TerminalPrompter) echo(message, answer string) {
	fmt.Fprintf(p.out, "%s %s\n", answerColor.Sprint(message+":"), answer)
}

func (p *TerminalPrompter) Input(ctx context.Context, message, def string) (string, error) {
	v, err := p.ask(ctx, NewInput(message, def))
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	p.echo(message, s)
	return s, nil
}

func (p *TerminalPrompter) Secret(ctx context.Context, message string) (string, error) {
	v, err := p.ask(ctx, NewSecret(message))
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	if s == "" {
		p.echo(message, "(none)")
	} else {
		p.echo(message, "********")
	}
	return s, nil
}

func (p *TerminalPrompter) Select(ctx context.Context, message string, options []string, def int) (int, error) {
	opts := make([]Option, len(options))
	for i, o := range options {
		opts[i] = Option{Label: o}
	}
	v, err := p.ask(ctx, NewSelect(message, opts, def))
	if err != nil {
		return 0, err
	}
	idx, _ := v.(int)
	p.echo(message, options[idx])
	return idx, nil
}

func (p *TerminalPrompter) Menu(ctx context.Context, message string, options []Option, def string) (string, error) {
	selected := 0
	for i, o := range options {
		if strings.EqualFold(o.Key, def) {
			selected = i
		}
	}
	v, err := p.ask(ctx, NewSelect(message, options, selected))
	if err != nil {
		return "", err
	}
	idx, _ := v.(int)
	return strings.ToLower(options[idx].Key), nil
}

func (p *TerminalPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	v, err := p.ask(ctx, NewConfirm(message, def))
	if err != nil {
		return false, err
	}
	yes, _ := v.(bool)
	if yes {
		p.echo(message, "yes")
	} else {
		p.echo(message, "no")
	}
	return yes, nil
}

var (
	answerColor  = color.New(color.FgMagenta)
	defaultColor = color.New(color.Faint)
	retryColor   = color.New(color.FgYellow)
)

// LinePrompter reads one answer per line. It serves pipes, files and tests.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Input returns io.EOF once the input is exhausted.
func (p *LinePrompter) Input(_ context.Context, message, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s %s: ", message, defaultColor.Sprintf("[%s]", def))
	} else {
		fmt.Fprintf(p.out, "%s: ", message)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (p *LinePrompter) Secret(ctx context.Context, message string) (string, error) {
	return p.Input(ctx, message, "")
}

func (p *LinePrompter) Select(ctx context.Context, message string, options []string, def int) (int, error) {
	fmt.Fprintf(p.out, "%s:\n", message)
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
	}
	for {
		raw, err := p.Input(ctx, "Choice", strconv.Itoa(def+1))
		if err != nil {
			return 0, err
		}
		i, err := strconv.Atoi(raw)
		if err == nil && i >= 1 && i <= len(options) {
			return i - 1, nil
		}
		retryColor.Fprintf(p.out, "Enter a number between 1 and %d\n", len(options))
	}
}

// Menu prints the option labels on one line; message is only shown by the
// terminal prompter. Unknown answers are returned as typed.
func (p *LinePrompter) Menu(ctx context.Context, _ string, options []Option, def string) (string, error) {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	raw, err := p.Input(ctx, strings.Join(labels, ", "), def)
	if err != nil {
		return "", err
	}
	return strings.ToLower(raw), nil
}

func (p *LinePrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	raw, err := p.Input(ctx, message+" (y/n)", d)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(raw) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
