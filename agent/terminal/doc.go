// Package terminal connects an agent.Agent to the user's terminal.
//
// When stdin is a terminal, input goes through a line editor with history;
// Ctrl-C drops the current line (or cancels a save or load prompt) and
// Ctrl-D ends the session. Piped input is read line by line instead, which
// makes it possible to script a session:
//
//	printf 'hello\n/save greeting\n/exit\n' | gpterm
//
// Replies are wrapped to the width of stdout, falling back to 80 columns when
// stdout is not a terminal.
package terminal
