package agent

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m4xw311/gpterm/command"
	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/transcript"
	"github.com/sirupsen/logrus"
)

const cancelInput = CommandTrigger + "cancel"

func (a *Agent) registerCommands() error {
	commands := []struct {
		keywords    []string
		handler     command.Handler
		description string
		maxArgs     int
		usage       string
	}{
		{[]string{"exit", "e"}, a.cmdExit, "Exit immediately", 0, ""},
		{[]string{"bye", "goodbye"}, a.cmdGoodbye, "Say goodbye to the assistant and exit", 0, ""},
		{[]string{"help", "h"}, a.cmdHelp, "Show this help", 0, ""},
		{[]string{"save", "s"}, a.cmdSave, "Save the conversation", 1, "/save [filename]"},
		{[]string{"load", "l"}, a.cmdLoad, "Load a saved conversation", 2, "/load [filename] [-y]"},
		{[]string{"hist", "list", "ls"}, a.cmdHistory, "Show the conversation history", 1, "/hist [-a] (-a includes system messages)"},
		{[]string{"back", "b"}, a.cmdBack, "Undo the last exchanges", 1, "/back [count]"},
		{[]string{"retry", "r"}, a.cmdRetry, "Ask again for the last reply", 0, ""},
		{[]string{"reset"}, a.cmdReset, "Start a new conversation", 0, ""},
	}
	for _, c := range commands {
		if err := a.Commands.Register(c.keywords, c.handler, c.description, c.maxArgs, c.usage); err != nil {
			return errors.Wrapf(err, "failed to register /%s", c.keywords[0])
		}
	}
	return nil
}

func (a *Agent) cmdExit(ctx context.Context, args command.Args) error {
	return ErrQuit
}

func (a *Agent) cmdGoodbye(ctx context.Context, args command.Args) error {
	a.reset(true)
	if err := a.ProcessUserInput(ctx, ClosingMessage); err != nil {
		return err
	}
	return ErrQuit
}

func (a *Agent) cmdHelp(ctx context.Context, args command.Args) error {
	fmt.Fprintln(a.Output, "Available commands:")
	a.Commands.DescribeAll()
	return nil
}

func (a *Agent) reset(silent bool) {
	a.Transcript.Reset()
	if !silent {
		a.notice("Conversation reset")
	}
}

func (a *Agent) cmdReset(ctx context.Context, args command.Args) error {
	a.reset(false)
	return nil
}

func (a *Agent) cmdSave(ctx context.Context, args command.Args) error {
	name, ok, err := a.askName(args.At(0), "Enter a name for the conversation (blank for a default name, /cancel to abort): ", true)
	if err != nil || !ok {
		if !ok && err == nil {
			a.notice("Save cancelled")
		}
		return err
	}

	path, err := a.Store.Path(name)
	if err != nil {
		return err
	}
	if err := a.Transcript.Export(path); err != nil {
		a.Logger.WithError(err).WithField("path", path).Warn("save failed")
		switch {
		case errors.Is(err, errors.ErrPermissionDenied):
			a.failure("Permission denied: could not save to %s", path)
		default:
			a.failure("Failed to save conversation: %v", err)
		}
		return nil
	}
	a.Logger.WithField("path", path).Info("conversation saved")
	a.notice("Conversation saved to %s", path)
	return nil
}

func (a *Agent) cmdLoad(ctx context.Context, args command.Args) error {
	var name string
	for _, arg := range args {
		if arg != "-y" {
			name = arg
			break
		}
	}

	if !args.Has("-y") {
		ok, err := a.confirm("Loading will clear the current conversation. Continue? (y/n): ")
		if err != nil || !ok {
			if err == nil {
				a.notice("Load cancelled")
			}
			return err
		}
	}

	if name == "" {
		names, err := a.Store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			a.notice("No saved conversations found in %s", a.Store.Dir())
			return nil
		}
		fmt.Fprintln(a.Output, "Saved conversations:")
		for _, n := range names {
			fmt.Fprintf(a.Output, "  %s\n", n)
		}
	}

	name, ok, err := a.askName(name, "Enter the conversation to load (/cancel to abort): ", false)
	if err != nil || !ok {
		if !ok && err == nil {
			a.notice("Load cancelled")
		}
		return err
	}

	path, err := a.Store.Path(name)
	if err != nil {
		return err
	}
	if err := a.Transcript.Import(path); err != nil {
		a.Logger.WithError(err).WithField("path", path).Warn("load failed")
		switch {
		case errors.Is(err, errors.ErrNotFound):
			a.failure("File not found: %s", path)
		case errors.Is(err, errors.ErrInvalidFile):
			a.failure("Not a valid conversation file: %s", path)
		default:
			a.failure("Failed to load conversation: %v", err)
		}
		return nil
	}
	a.Logger.WithFields(logrus.Fields{"path": path, "turns": a.Transcript.Len()}).Info("conversation loaded")
	a.notice("Conversation loaded from %s", path)
	return nil
}

// askName returns a valid conversation name, prompting until one is given.
// ok is false when the user cancels, interrupts the prompt or input runs
// out. With allowDefault an empty answer picks a timestamped name.
func (a *Agent) askName(name, prompt string, allowDefault bool) (string, bool, error) {
	for {
		if name != "" {
			err := transcript.ValidateName(name)
			if err == nil {
				return name, true, nil
			}
			a.failure("Invalid file name %q: names may not contain < > : \" / \\ | ? * or be empty", name)
		}

		answer, err := a.Input.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
				return "", false, nil
			}
			return "", false, err
		}
		answer = strings.TrimSpace(answer)
		switch {
		case answer == cancelInput:
			return "", false, nil
		case answer == "" && allowDefault:
			return transcript.DefaultName(a.Now()), true, nil
		}
		name = answer
		if name == "" {
			a.failure("Please enter a name")
		}
	}
}

// confirm asks a yes/no question until it gets an answer.
func (a *Agent) confirm(prompt string) (bool, error) {
	for {
		answer, err := a.Input.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
				return false, nil
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (a *Agent) cmdHistory(ctx context.Context, args command.Args) error {
	turns, err := a.Transcript.History(args.Has("-a"))
	if errors.Is(err, errors.ErrEmptyHistory) {
		a.notice("No conversation history.")
		return nil
	}
	if err != nil {
		return err
	}
	width := a.Width()
	for _, turn := range turns {
		fmt.Fprintln(a.Output, a.Formatter.Format(turn, true, width))
	}
	return nil
}

func (a *Agent) cmdBack(ctx context.Context, args command.Args) error {
	n, err := strconv.Atoi(args.At(0))
	if err != nil || n < 1 {
		n = 1
	}
	_, err = a.Transcript.Undo(n)
	if errors.Is(err, errors.ErrReachedBeginning) {
		a.notice("Reached the beginning of the conversation")
		return nil
	}
	if err != nil {
		return err
	}
	a.notice("Went back %d exchange(s)", n)
	return nil
}

func (a *Agent) cmdRetry(ctx context.Context, args command.Args) error {
	turns := a.Transcript.All()
	i := len(turns) - 1
	if i >= 0 && turns[i].Role == transcript.RoleAssistant {
		i--
	}
	if i < 0 || turns[i].Role != transcript.RoleUser {
		a.notice("Nothing to retry")
		return nil
	}
	a.Transcript.DropLast(transcript.RoleAssistant)
	a.exchange(ctx)
	return nil
}
