package ui

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// Replies are untrusted content and may carry terminal escape sequences (the
// CLI cousin of XSS: fake prompts via title changes, cursor games, screen
// clears). The console's contract is byte-for-byte passthrough: it never
// interprets or rewrites output, so what reaches the terminal is exactly what
// the model sent, and the tests below pin that down. Input flowing the other
// way is stripped by internal/security before it enters a request.
func TestConsole_OutputPassthrough(t *testing.T) {
	payloads := []struct {
		name    string
		content string
	}{
		{"clear screen", "\x1b[2J\x1b[H"},
		{"clear line", "\x1b[2K"},
		{"hide cursor", "\x1b[?25l"},
		{"set title", "\x1b]0;Enter Password:\x07"},
		{"osc hyperlink", "\x1b]8;;http://example.test\x1b\\click\x1b]8;;\x1b\\"},
		{"bracketed paste", "\x1b[200~pasted\x1b[201~"},
		{"backspace overwrite", "fine\x08\x08\x08\x08oops"},
		{"carriage return overwrite", "masked: ******\rvisible"},
		{"null byte", "left\x00right"},
		{"bell flood", strings.Repeat("\x07", 100)},
	}

	for _, tc := range payloads {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			console := NewConsole(strings.NewReader(""), &out)

			console.Println(tc.content)

			if got, want := out.String(), tc.content+"\n"; got != want {
				t.Errorf("Println() rewrote output:\ngot  %q\nwant %q", got, want)
			}
		})
	}
}

// Scan must deliver hostile input verbatim without crashing; deciding what to
// strip is the security package's job, not the console's.
func TestConsole_ScanHostileInput(t *testing.T) {
	inputs := []struct {
		name string
		line string
	}{
		{"escape sequence", "\x1b[2J"},
		{"embedded null", "ask\x00me"},
		{"unicode bom", "\uFEFFquestion"},
		{"rtl override", "‮evil‬"},
		{"zero width space", "what​is"},
		{"invalid utf8", "\xff\xfe"},
	}

	for _, tc := range inputs {
		t.Run(tc.name, func(t *testing.T) {
			console := NewConsole(strings.NewReader(tc.line+"\n"), nil)

			if !console.Scan() {
				t.Fatal("Scan() returned false, want true")
			}
			if got := console.Text(); got != tc.line {
				t.Errorf("Text() = %q, want raw %q", got, tc.line)
			}
		})
	}
}

// Answers decorated with escape sequences or control bytes never match y/n,
// so Confirm re-prompts and, once input runs out, reports EOF instead of
// guessing.
func TestConsole_ConfirmDecoratedAnswers(t *testing.T) {
	answers := []struct {
		name  string
		input string
	}{
		{"escape after answer", "y\x1b[2Jmore"},
		{"bracketed paste", "\x1b[200~y\x1b[201~"},
		{"null between answers", "y\x00n"},
		{"carriage return between answers", "y\rn"},
	}

	for _, tc := range answers {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			console := NewConsole(strings.NewReader(tc.input+"\n"), &out)

			ok, err := console.Confirm("Proceed?")
			if err != io.EOF {
				t.Errorf("Confirm() error = %v, want %v", err, io.EOF)
			}
			if ok {
				t.Error("Confirm() = true for a decorated answer, want false")
			}
		})
	}
}

// Stream writes arbitrary fragment content untouched, whatever bytes the
// decoder hands over.
func TestConsole_StreamArbitraryBytes(t *testing.T) {
	fragments := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"plain", "a perfectly normal reply"},
		{"large", strings.Repeat("x", 100_000)},
		{"control chars", "\x00\x01\x02\x03"},
		{"emoji", "\U0001f986 says hi"},
		{"invalid utf8", "\xff\xfe"},
	}

	for _, tc := range fragments {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			console := NewConsole(strings.NewReader(""), &out)

			console.Stream(tc.content)

			if got := out.String(); got != tc.content {
				t.Errorf("Stream() wrote %d bytes, want %d unmodified", len(got), len(tc.content))
			}
		})
	}
}
