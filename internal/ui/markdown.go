package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 80

// Renderer converts Markdown to styled terminal output. Uses glamour with
// automatic light/dark detection. A nil Renderer is valid and renders
// nothing, so callers can degrade to plain text without branching.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewRenderer creates a renderer that word-wraps at the given width.
// A width of zero or less uses the current terminal width.
// Returns nil if initialization fails; Render then passes text through.
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = TerminalWidth()
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}

	return &Renderer{renderer: r, width: width}
}

// Render converts Markdown to styled terminal output.
// Returns the input unchanged when rendering fails.
func (r *Renderer) Render(markdown string) string {
	if r == nil || r.renderer == nil {
		return markdown
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	// Trim trailing newlines added by glamour
	return strings.TrimSuffix(rendered, "\n")
}

// Width reports the wrap width the renderer was built with.
func (r *Renderer) Width() int {
	if r == nil {
		return 0
	}
	return r.width
}

// TerminalWidth returns the width of the attached terminal, or defaultWidth
// when stdout is not a terminal (pipes, CI, tests).
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
