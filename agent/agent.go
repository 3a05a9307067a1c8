package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m4xw311/gpterm/command"
	"github.com/m4xw311/gpterm/config"
	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/format"
	"github.com/m4xw311/gpterm/llm"
	"github.com/m4xw311/gpterm/transcript"
	"github.com/sirupsen/logrus"
)

// CommandTrigger starts every slash-command.
const CommandTrigger = "/"

const defaultWidth = 80

// ErrQuit is returned by the exit commands to end Run.
var ErrQuit = errors.New("quit requested")

// ErrInterrupted is returned by a Prompter when the user aborts the line
// being typed, for example with Ctrl-C.
var ErrInterrupted = errors.New("input interrupted")

const thinking = "Thinking..."

type State int

const (
	AwaitingInput State = iota
	AwaitingCompletion
)

func (s State) String() string {
	if s == AwaitingCompletion {
		return "awaiting-completion"
	}
	return "awaiting-input"
}

// Prompter reads one line of input after showing prompt. It returns io.EOF
// when no more input is available.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

type Agent struct {
	Config     *config.Config
	Transcript *transcript.Transcript
	Store      *transcript.Store
	LLMClient  llm.LLMClient
	Formatter  *format.Formatter
	Commands   *command.Dispatcher
	Logger     *logrus.Logger

	Input  Prompter
	Output io.Writer
	// Width reports the terminal width used for wrapping replies.
	Width func() int
	Now   func() time.Time

	state State
}

// New builds an agent with a fresh transcript and every built-in command
// registered. Input defaults to stdin and output to stdout.
func New(cfg *config.Config, store *transcript.Store, client llm.LLMClient, logger *logrus.Logger) (*Agent, error) {
	formatter, err := format.New(cfg.Colors.Assistant, cfg.Colors.User)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid color configuration")
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	a := &Agent{
		Config:     cfg,
		Transcript: transcript.New(SystemPrompt),
		Store:      store,
		LLMClient:  client,
		Formatter:  formatter,
		Logger:     logger,
		Output:     os.Stdout,
		Width:      func() int { return defaultWidth },
		Now:        time.Now,
	}
	a.Input = NewLinePrompter(os.Stdin, a)
	a.Commands = command.NewDispatcher(a)
	if err := a.registerCommands(); err != nil {
		return nil, err
	}
	a.Transcript.Reset()
	return a, nil
}

// Write sends p to the agent's current output, so helpers such as the
// command dispatcher follow Output when it is replaced.
func (a *Agent) Write(p []byte) (int, error) {
	return a.Output.Write(p)
}

// State reports whether the agent is waiting for the user or the provider.
func (a *Agent) State() State { return a.state }

// Run reads and handles lines until an exit command or the end of input.
func (a *Agent) Run(ctx context.Context) error {
	for {
		line, err := a.Input.Prompt("You: ")
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.Output)
				return nil
			}
			return errors.Wrapf(err, "failed to read input")
		}

		if err := a.HandleLine(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			a.failure("Error: %v", err)
		}
	}
}

// HandleLine interprets one line of user input: a slash-command when it
// starts with the trigger and has something after it, a chat turn otherwise.
// Blank lines are ignored. A chat turn keeps the line exactly as typed.
func (a *Agent) HandleLine(ctx context.Context, line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, CommandTrigger) && len(trimmed) > len(CommandTrigger) {
		a.Logger.WithField("command", trimmed).Debug("dispatching command")
		return a.Commands.Dispatch(ctx, trimmed[len(CommandTrigger):])
	}
	return a.ProcessUserInput(ctx, line)
}

// ProcessUserInput appends a user turn, asks the provider for a reply and
// prints it. A failed completion is reported but keeps the user turn.
func (a *Agent) ProcessUserInput(ctx context.Context, userInput string) error {
	a.Transcript.Append(userInput, transcript.RoleUser)
	a.exchange(ctx)
	return nil
}

// exchange requests a completion for the current transcript and prints the
// reply or the failure. "Thinking..." is shown while the request is
// outstanding and erased before anything else is printed.
func (a *Agent) exchange(ctx context.Context) {
	color.New(color.Faint).Fprint(a.Output, thinking)
	reply, err := a.complete(ctx)
	fmt.Fprint(a.Output, "\r"+strings.Repeat(" ", len(thinking))+"\r")
	if err != nil {
		a.reportCompletionError(err)
		return
	}
	fmt.Fprintln(a.Output, a.Formatter.Format(*reply, false, a.Width()))
}

func (a *Agent) complete(ctx context.Context) (*transcript.Turn, error) {
	a.state = AwaitingCompletion
	defer func() { a.state = AwaitingInput }()

	turns := a.Transcript.All()
	start := a.Now()
	reply, err := a.LLMClient.Chat(ctx, turns)
	log := a.Logger.WithFields(logrus.Fields{
		"provider": a.Config.LLMClient,
		"model":    a.Config.Model,
		"turns":    len(turns),
		"elapsed":  a.Now().Sub(start).String(),
	})
	if err != nil {
		log.WithError(err).Warn("completion failed")
		return nil, err
	}
	log.Debug("completion finished")

	if reply.Role == "" {
		reply.Role = transcript.RoleAssistant
	}
	a.Transcript.Append(reply.Content, reply.Role)
	return reply, nil
}

func (a *Agent) reportCompletionError(err error) {
	var ce *errors.CompletionError
	if !errors.As(err, &ce) {
		a.failure("Error: %v", err)
		return
	}
	if ce.Kind == errors.CompletionRateLimited {
		a.failure("Rate limit reached: %s", ce.Description())
		return
	}
	a.failure("Error: %s", ce.Description())
}

// Ask answers a single question outside the interactive loop. It uses its
// own transcript seeded with the brief plain-text system prompt.
func (a *Agent) Ask(ctx context.Context, question string) error {
	a.Transcript = transcript.New(AskSystemPrompt)
	a.Transcript.Reset()
	a.Transcript.Append(question, transcript.RoleUser)

	reply, err := a.complete(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Output, a.Formatter.Format(*reply, false, a.Width()))
	return nil
}

func (a *Agent) notice(format string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(a.Output, format+"\n", args...)
}

func (a *Agent) failure(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(a.Output, format+"\n", args...)
}
