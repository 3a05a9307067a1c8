// Package command implements the slash-command registry used by the
// interactive session.
//
// Commands are registered once at startup with one or more keywords, a
// handler and the maximum number of arguments the handler accepts. Lookup is
// an exact, case-sensitive keyword match in registration order, so when two
// commands share a keyword the first one registered wins.
//
// Dispatch splits an input line on whitespace. Arguments beyond a command's
// MaxArgs are dropped silently, and every handler receives the same Args type
// regardless of arity; missing positions read as the empty string.
package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/m4xw311/gpterm/errors"
)

// Args holds the positional arguments passed to a handler.
type Args []string

// At returns the i-th argument, or "" when it was not given.
func (a Args) At(i int) string {
	if i < 0 || i >= len(a) {
		return ""
	}
	return a[i]
}

// Has reports whether any argument equals s.
func (a Args) Has(s string) bool {
	for _, arg := range a {
		if arg == s {
			return true
		}
	}
	return false
}

type Handler func(ctx context.Context, args Args) error

type Command struct {
	Keywords    []string
	Handler     Handler
	Description string
	MaxArgs     int
	Usage       string
}

// Name returns the primary keyword.
func (c *Command) Name() string { return c.Keywords[0] }

type Dispatcher struct {
	commands []*Command
	out      io.Writer
}

func NewDispatcher(out io.Writer) *Dispatcher {
	return &Dispatcher{out: out}
}

// Register appends a command to the registry.
func (d *Dispatcher) Register(keywords []string, handler Handler, description string, maxArgs int, usage string) error {
	if len(keywords) == 0 {
		return errors.New("command needs at least one keyword")
	}
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			return errors.New("command keywords must be non-empty")
		}
	}
	if handler == nil {
		return errors.New("command %q has no handler", keywords[0])
	}
	if maxArgs < 0 {
		maxArgs = 0
	}
	d.commands = append(d.commands, &Command{
		Keywords:    append([]string(nil), keywords...),
		Handler:     handler,
		Description: description,
		MaxArgs:     maxArgs,
		Usage:       usage,
	})
	return nil
}

// Resolve returns the first registered command answering to name.
func (d *Dispatcher) Resolve(name string) (*Command, bool) {
	for _, c := range d.commands {
		for _, k := range c.Keywords {
			if k == name {
				return c, true
			}
		}
	}
	return nil, false
}

// Commands returns the registered commands in registration order.
func (d *Dispatcher) Commands() []*Command {
	return append([]*Command(nil), d.commands...)
}

// Dispatch runs the command named by the first word of line. Unknown commands
// are reported on the dispatcher's output and are not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := d.Resolve(fields[0])
	if !ok {
		fmt.Fprintf(d.out, "Unrecognized command: %s\n", fields[0])
		return nil
	}

	args := Args(fields[1:])
	if len(args) > cmd.MaxArgs {
		args = args[:cmd.MaxArgs]
	}
	if len(args) == 0 {
		args = nil
	}
	return cmd.Handler(ctx, args)
}

// DescribeAll prints every command with its aliases, description and usage.
func (d *Dispatcher) DescribeAll() {
	for _, c := range d.commands {
		name := c.Name()
		if len(c.Keywords) > 1 {
			name += " (" + strings.Join(c.Keywords[1:], ", ") + ")"
		}
		fmt.Fprintf(d.out, "  %-24s %s\n", name, c.Description)
		if c.Usage != "" {
			fmt.Fprintf(d.out, "  %-24s usage: %s\n", "", c.Usage)
		}
	}
}
