package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var colors = []string{
	"#DE5833", //  Orange
	"#FFCC33", //  Yellow
	"#4CBA3C", //  Green
	"#4495D4", //  Blue
}

// DUCK ASCII art (filled block style)
var duckArt = []string{
	"    ██████╗ ██╗   ██╗ ██████╗██╗  ██╗",
	"    ██╔══██╗██║   ██║██╔════╝██║ ██╔╝",
	"    ██║  ██║██║   ██║██║     █████╔╝ ",
	"    ██║  ██║██║   ██║██║     ██╔═██╗ ",
	"    ██████╔╝╚██████╔╝╚██████╗██║  ██╗",
	"    ╚═════╝  ╚═════╝  ╚═════╝╚═╝  ╚═╝",
}

// Mascot (classic terminal duck)
var mascotArt = []string{
	"          ",
	"   __     ",
	" <(o )___ ",
	"  ( ._> / ",
	"   `---'  ",
	"          ",
}

// Banner displays the DUCK banner with unified color
func Banner() {
	BannerTo(os.Stdout)
}

// BannerTo displays the DUCK banner to a custom writer
func BannerTo(w io.Writer) {
	_, _ = fmt.Fprintln(w)

	// Unified style with DuckDuckGo Orange
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors[0])). // Orange
		Bold(true)

	// Render mascot and text side by side
	for i := range len(duckArt) {
		mascot := style.Render(mascotArt[i])
		text := style.Render(duckArt[i])
		_, _ = fmt.Fprintln(w, mascot+text)
	}

	_, _ = fmt.Fprintln(w)
}

// BannerWithInfo displays the banner with version and model info
func BannerWithInfo(w io.Writer, version, model string) {
	BannerTo(w)

	// Info style (subtle gray)
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#808080")).
		Italic(true)

	info := fmt.Sprintf("Version: %s | Model: %s | Type /help for commands", version, model)
	_, _ = fmt.Fprintln(w, infoStyle.Render(info))
	_, _ = fmt.Fprintln(w)
}

// BannerString returns the banner as a string (for testing)
func BannerString() string {
	var sb strings.Builder
	for i, line := range duckArt {
		sb.WriteString(mascotArt[i])
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
