package terminal

import (
	"context"
	"errors"
	"os"

	"github.com/m4xw311/gpterm/agent"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

const defaultWidth = 80

// Terminal handles the terminal/CLI interaction mode for the agent
type Terminal struct {
	agent *agent.Agent
	in    *os.File
	out   *os.File
	line  *liner.State
}

// New creates a new Terminal instance bound to stdin and stdout.
func New(a *agent.Agent) *Terminal {
	return &Terminal{
		agent: a,
		in:    os.Stdin,
		out:   os.Stdout,
	}
}

// Run starts the interactive terminal session. Line editing is only enabled
// when stdin is a terminal; piped input is read line by line.
func (t *Terminal) Run(ctx context.Context) error {
	t.agent.Output = t.out
	t.agent.Width = t.Width
	if term.IsTerminal(int(t.in.Fd())) {
		t.line = liner.NewLiner()
		t.line.SetCtrlCAborts(true)
		defer t.line.Close()
		t.agent.Input = t
	} else {
		t.agent.Input = agent.NewLinePrompter(t.in, t.out)
	}
	return t.agent.Run(ctx)
}

// Prompt reads one edited line. Ctrl-C discards the line being typed and
// returns agent.ErrInterrupted.
func (t *Terminal) Prompt(prompt string) (string, error) {
	input, err := t.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", agent.ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	if input != "" {
		t.line.AppendHistory(input)
	}
	return input, nil
}

// Width returns the current width of the output terminal, or 80 when it
// cannot be determined.
func (t *Terminal) Width() int {
	w, _, err := term.GetSize(int(t.out.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
