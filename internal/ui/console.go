// Package ui handles terminal input and output: the line-oriented console,
// the startup banner, and Markdown rendering for replies.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// IO abstracts console interaction so commands can be driven by a mock in
// tests. Console implements it over real streams, Mock over canned inputs.
type IO interface {
	Print(a ...any)
	Println(a ...any)
	Printf(format string, a ...any)
	Scan() bool
	Text() string
	Confirm(prompt string) (bool, error)
	Stream(content string)
}

var (
	_ IO = (*Console)(nil)
	_ IO = (*Mock)(nil)
)

// maxInputBytes caps a single input line. Pasted prompts can be large; the
// cap matches what the stream decoder accepts on the way back.
const maxInputBytes = 1 << 20

// Console reads line-oriented input and writes program output.
//
// Output passes through unmodified, including escape sequences a reply might
// carry. Input sanitization is the caller's job (see internal/security);
// Text returns the raw line.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewConsole creates a console over the given reader and writer.
// Nil arguments fall back to stdin and stdout.
func NewConsole(in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64<<10), maxInputBytes)

	return &Console{scanner: scanner, out: out}
}

// Print writes values in their default format.
func (c *Console) Print(a ...any) {
	fmt.Fprint(c.out, a...)
}

// Println writes values followed by a newline.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes a formatted string.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Scan advances to the next input line. It returns false at end of input.
func (c *Console) Scan() bool {
	return c.scanner.Scan()
}

// Text returns the current input line without the trailing newline.
func (c *Console) Text() string {
	return c.scanner.Text()
}

// Confirm asks a yes/no question and re-prompts until the answer is
// recognizable. It returns io.EOF when input ends before an answer arrives.
func (c *Console) Confirm(prompt string) (bool, error) {
	for {
		c.Printf("%s [y/n]: ", prompt)

		if !c.Scan() {
			if err := c.scanner.Err(); err != nil {
				return false, err
			}
			return false, io.EOF
		}

		switch strings.ToLower(strings.TrimSpace(c.Text())) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		c.Println("Please answer y or n.")
	}
}

// Stream writes content without a trailing newline, for incremental reply
// text arriving fragment by fragment.
func (c *Console) Stream(content string) {
	fmt.Fprint(c.out, content)
}
