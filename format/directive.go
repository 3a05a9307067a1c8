package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

func sgr(a color.Attribute) string {
	return fmt.Sprintf("\x1b[%dm", a)
}

// Reset is the code that clears every style attribute.
var Reset = sgr(color.Reset)

var directives = map[string]string{
	"RED":     sgr(color.FgRed),
	"GREEN":   sgr(color.FgGreen),
	"YELLOW":  sgr(color.FgYellow),
	"BLUE":    sgr(color.FgBlue),
	"MAGENTA": sgr(color.FgMagenta),
	"CYAN":    sgr(color.FgCyan),
	"WHITE":   sgr(color.FgWhite),
	"RESET":   Reset,
	"BRIGHT":  sgr(color.Bold),
}

// Code returns the terminal code for a directive name such as "RED".
func Code(name string) (string, bool) {
	code, ok := directives[name]
	return code, ok
}

// Substitute replaces every recognized {NAME} directive in s with its
// terminal code. {RESET} clears the styles and then reapplies base, so text
// after it keeps the turn's accent color. Unknown brace tokens are copied
// through untouched. The scan is a single pass, so substituted codes are
// never examined again.
func Substitute(s, base string) string {
	return replaceDirectives(s, func(code string) string {
		if code == Reset {
			return Reset + base
		}
		return code
	})
}

// Strip removes recognized directives without emitting any codes.
func Strip(s string) string {
	return replaceDirectives(s, func(string) string { return "" })
}

func replaceDirectives(s string, emit func(code string) string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '{' {
			if end := strings.IndexByte(s[i+1:], '}'); end >= 0 {
				if code, ok := directives[s[i+1:i+1+end]]; ok {
					b.WriteString(emit(code))
					i += end + 2
					continue
				}
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
