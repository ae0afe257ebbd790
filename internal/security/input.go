// Package security normalizes user-supplied prompt text before it is sent
// to the remote endpoint.
package security

import (
	"strings"
	"unicode"
)

// Sanitize prepares a prompt for transmission.
//   - Strips double quotes and equals signs, which the chat endpoint rejects.
//   - Removes control characters (except tab) and Unicode format runes
//     (zero-width characters, BOM, bidi overrides) that could hide content
//     from the person typing it.
//   - Trims surrounding whitespace.
//
// The result may be empty; callers decide whether an empty prompt is sent.
func Sanitize(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	for _, r := range input {
		switch {
		case r == '"' || r == '=':
			continue
		case r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
			continue
		case unicode.Is(unicode.Cf, r):
			continue
		default:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}
