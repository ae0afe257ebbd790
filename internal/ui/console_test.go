package ui

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestConsole_Print(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(nil, &out)

	console.Print("You", ":", " ")

	if got := out.String(); got != "You: " {
		t.Errorf("Print() = %q, want %q", got, "You: ")
	}
}

func TestConsole_Println(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(nil, &out)

	console.Println("Switched to", "claude-3-haiku")

	want := "Switched to claude-3-haiku\n"
	if got := out.String(); got != want {
		t.Errorf("Println() = %q, want %q", got, want)
	}
}

func TestConsole_Printf(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(nil, &out)

	console.Printf("Model: %s (%d available)", "gpt-4o-mini", 4)

	want := "Model: gpt-4o-mini (4 available)"
	if got := out.String(); got != want {
		t.Errorf("Printf() = %q, want %q", got, want)
	}
}

func TestConsole_Scan(t *testing.T) {
	in := strings.NewReader("first question\nsecond question")
	console := NewConsole(in, nil)

	if !console.Scan() {
		t.Fatal("Scan() returned false, want true")
	}
	if got := console.Text(); got != "first question" {
		t.Errorf("Text() = %q, want %q", got, "first question")
	}

	if !console.Scan() {
		t.Fatal("Scan() returned false, want true")
	}
	if got := console.Text(); got != "second question" {
		t.Errorf("Text() = %q, want %q", got, "second question")
	}

	if console.Scan() {
		t.Error("Scan() returned true at EOF, want false")
	}
}

// A pasted prompt far beyond bufio's default token size must still arrive in
// one piece.
func TestConsole_ScanLongLine(t *testing.T) {
	line := strings.Repeat("q", 1_000_000)
	console := NewConsole(strings.NewReader(line+"\n"), nil)

	if !console.Scan() {
		t.Fatal("Scan() returned false for a 1MB line, want true")
	}
	if got := console.Text(); got != line {
		t.Errorf("Text() returned %d bytes, want %d", len(got), len(line))
	}
}

func TestConsole_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr bool
	}{
		{"y", "y\n", true, false},
		{"yes", "yes\n", true, false},
		{"uppercase yes", "YES\n", true, false},
		{"n", "n\n", false, false},
		{"uppercase no", "NO\n", false, false},
		{"surrounding whitespace", "  y  \n", true, false},
		{"invalid then yes", "maybe\ny\n", true, false},
		{"empty input", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			console := NewConsole(strings.NewReader(tt.input), &out)

			got, err := console.Confirm("Accept the terms of service?")

			if (err != nil) != tt.wantErr {
				t.Fatalf("Confirm() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Accept the terms of service? [y/n]: ") {
				t.Error("Confirm() did not print the prompt")
			}
		})
	}
}

// Input that ends while Confirm is still re-prompting must surface as a bare
// io.EOF so callers can distinguish "no answer" from "answered no".
func TestConsole_ConfirmEOFAfterInvalidAnswer(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(strings.NewReader("whatever\n"), &out)

	_, err := console.Confirm("Continue?")
	if err != io.EOF {
		t.Errorf("Confirm() error = %v, want %v", err, io.EOF)
	}

	// The retry hint and a second prompt must have been printed.
	if got := strings.Count(out.String(), "[y/n]: "); got != 2 {
		t.Errorf("expected 2 prompts before EOF, got %d", got)
	}
}

func TestConsole_Stream(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(nil, &out)

	console.Stream("Hi")
	console.Stream(" there")
	console.Stream("!")

	if got := out.String(); got != "Hi there!" {
		t.Errorf("Stream() output = %q, want %q", got, "Hi there!")
	}
}
