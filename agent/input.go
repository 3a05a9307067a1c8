package agent

import (
	"bufio"
	"fmt"
	"io"
)

const maxLineSize = 1 << 20

// LinePrompter reads newline-terminated input from a plain reader. It is used
// when stdin is not a terminal.
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &LinePrompter{scanner: scanner, out: out}
}

func (p *LinePrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}
