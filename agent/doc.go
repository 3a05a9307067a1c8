// Package agent provides the conversation controller for gpterm.
//
// An Agent owns the transcript of the current session and moves between two
// states: AwaitingInput, while it waits for the next line from its Prompter,
// and AwaitingCompletion, while the configured llm.LLMClient produces a
// reply. Completion calls block; no input is read while one is outstanding.
//
// # Input handling
//
// HandleLine decides what a line of input means:
//
//   - A line starting with "/" and followed by anything else is a
//     slash-command and goes to the command dispatcher.
//   - Any other non-blank line becomes a user turn. The whole transcript is
//     sent to the provider, and the reply is appended and printed.
//
// A failed completion is printed and the loop goes on. The unanswered user
// turn stays in the transcript, so /retry can ask again.
//
// # Commands
//
//	/exit, /e                 exit immediately
//	/bye, /goodbye            send a closing message, print the reply and exit
//	/help, /h                 list commands
//	/save, /s [name]          write the transcript to <conversations_dir>/<name>.json
//	/load, /l [name] [-y]     replace the transcript with a saved one
//	/hist, /list, /ls [-a]    print the history, -a includes system turns
//	/back, /b [count]         drop the last count exchanges
//	/retry, /r                request a new reply to the last user turn
//	/reset                    start over with just the system turn
//
// # One-shot mode
//
// Ask bypasses the loop: it sends a single question with a system prompt
// asking for short plain-text answers and prints the reply.
//
// # Subpackages
//
// agent/terminal wires an Agent to a real terminal, with line editing and
// width detection.
package agent
