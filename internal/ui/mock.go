package ui

import (
	"fmt"
	"strings"
)

// Mock implements IO with scripted inputs and captured output, so command
// flows can be tested without a terminal.
type Mock struct {
	inputs  []string
	next    int
	confirm map[string]bool

	// Output collects everything printed or streamed.
	Output strings.Builder
}

// NewMock creates a mock whose Scan/Text calls replay the given lines.
func NewMock(inputs ...string) *Mock {
	return &Mock{
		inputs:  inputs,
		confirm: make(map[string]bool),
	}
}

// SetConfirmResponse fixes the answer for any Confirm prompt containing the
// given substring. Prompts with no configured answer default to yes.
func (m *Mock) SetConfirmResponse(promptSubstring string, response bool) {
	m.confirm[promptSubstring] = response
}

// Print writes values to the captured output.
func (m *Mock) Print(a ...any) {
	fmt.Fprint(&m.Output, a...)
}

// Println writes values and a newline to the captured output.
func (m *Mock) Println(a ...any) {
	fmt.Fprintln(&m.Output, a...)
}

// Printf writes a formatted string to the captured output.
func (m *Mock) Printf(format string, a ...any) {
	fmt.Fprintf(&m.Output, format, a...)
}

// Scan advances to the next scripted input line.
func (m *Mock) Scan() bool {
	if m.next >= len(m.inputs) {
		return false
	}
	m.next++
	return true
}

// Text returns the current scripted input line.
func (m *Mock) Text() string {
	if m.next == 0 || m.next > len(m.inputs) {
		return ""
	}
	return m.inputs[m.next-1]
}

// Confirm echoes the prompt and answers from the configured responses.
func (m *Mock) Confirm(prompt string) (bool, error) {
	m.Printf("%s [y/n]: ", prompt)

	for substring, response := range m.confirm {
		if strings.Contains(prompt, substring) {
			if response {
				m.Println("y")
				return true, nil
			}
			m.Println("n")
			return false, nil
		}
	}

	m.Println("y")
	return true, nil
}

// Stream writes content to the captured output without a newline.
func (m *Mock) Stream(content string) {
	m.Print(content)
}
