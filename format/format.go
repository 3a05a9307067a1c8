package format

import (
	"strings"
	"unicode/utf8"

	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/transcript"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

const labelWidth = 5

var labels = map[transcript.Role]string{
	transcript.RoleAssistant: "GPT: ",
	transcript.RoleUser:      "You: ",
	transcript.RoleSystem:    "Sys: ",
}

// Formatter renders turns as colored, wrapped terminal text.
type Formatter struct {
	assistant string
	user      string

	// NoColor drops directives and role colors entirely, for output that is
	// not a terminal.
	NoColor bool
}

// New returns a Formatter using the given directive names as the assistant
// and user accent colors.
func New(assistantColor, userColor string) (*Formatter, error) {
	assistant, ok := Code(assistantColor)
	if !ok {
		return nil, errors.New("unknown assistant color %q", assistantColor)
	}
	user, ok := Code(userColor)
	if !ok {
		return nil, errors.New("unknown user color %q", userColor)
	}
	return &Formatter{assistant: assistant, user: user}, nil
}

func (f *Formatter) accent(role transcript.Role) string {
	if f.NoColor {
		return ""
	}
	switch role {
	case transcript.RoleAssistant:
		return f.assistant
	case transcript.RoleUser:
		return f.user
	}
	return ""
}

func (f *Formatter) reset() string {
	if f.NoColor {
		return ""
	}
	return Reset
}

// Format renders one turn for printing. With history set, the first line is
// prefixed with a role label and continuation lines are indented to match.
// A width of zero or less disables wrapping.
func (f *Formatter) Format(turn transcript.Turn, history bool, width int) string {
	base := f.accent(turn.Role)
	reset := f.reset()

	content := turn.Content
	if turn.Role != transcript.RoleSystem {
		if f.NoColor {
			content = Strip(content)
		} else {
			content = Substitute(content, base)
		}
	}

	if history && width > 0 {
		width -= labelWidth
		if width < 1 {
			width = 1
		}
	}

	lines := Wrap(content, width)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if history {
			if i == 0 {
				b.WriteString(base + labels[turn.Role] + reset)
			} else {
				b.WriteString(strings.Repeat(" ", labelWidth))
			}
		}
		b.WriteString(base)
		b.WriteString(line)
		b.WriteString(reset)
	}
	return b.String()
}

// Wrap splits text into lines no wider than width visible cells. Existing
// newlines always break, and each line is wrapped on its own. Whitespace runs
// inside a line are kept, leading indentation stays on the first segment, and
// words longer than width are broken. Tabs count as one cell.
func Wrap(text string, width int) []string {
	hard := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if width <= 0 {
		return hard
	}
	var out []string
	for _, line := range hard {
		out = append(out, strings.Split(wrapLine(line, width), "\n")...)
	}
	return out
}

func wrapLine(line string, width int) string {
	body := strings.TrimLeft(line, " \t")
	if body == "" {
		return hardWrap(line, width)
	}
	// The indentation is glued to the first word as placeholder cells, so
	// word wrapping cannot move it onto a line of its own.
	indent := line[:len(line)-len(body)]
	wrapped := hardWrap(wordwrap.String(strings.Repeat("x", len(indent))+body, width), width)

	b := []byte(wrapped)
	for i, j := 0, 0; i < len(b) && j < len(indent); i++ {
		if b[i] == '\n' {
			continue
		}
		b[i] = indent[j]
		j++
	}
	return string(b)
}

// hardWrap breaks s at width cells regardless of word boundaries. The
// wrapper expands tabs once it has to break a line, so the original
// characters are copied back around the newlines it inserted.
func hardWrap(s string, width int) string {
	w := wrap.NewWriter(width)
	w.PreserveSpace = true
	w.TabWidth = 1
	_, _ = w.Write([]byte(s))

	var b strings.Builder
	b.Grow(len(s) + len(s)/width)
	i := 0
	for _, c := range w.String() {
		if i >= len(s) {
			break
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if c == '\n' && r != '\n' {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}
