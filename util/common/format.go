package common

import (
	"html"
	"strings"
)

// SanitizeInput neutralizes user-supplied text for storage and redisplay:
// whitespace is trimmed, backslash escape artifacts are removed, then HTML
// special characters are entity-escaped, in that order. It never rejects
// input, only defuses markup.
func SanitizeInput(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, `\`, "")
	return html.EscapeString(cleaned)
}
