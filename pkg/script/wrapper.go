package script

import "strings"

// Script snippet delimiters used inside definition-file string values.
const (
	OpenDelimiter  = "<%"
	CloseDelimiter = "%>"
)

// HasWrapper reports whether text contains the snippet delimiter pair.
func HasWrapper(text string) bool {
	return strings.Contains(text, OpenDelimiter) && strings.Contains(text, CloseDelimiter)
}

// StripWrapper removes a single leading/trailing delimiter pair along with
// surrounding whitespace. It returns the inner script text and true when a
// wrapper was present. Blank content (wrapped or not) yields "" and the
// wrapper flag; callers treat empty results as nothing-to-parse, never as
// an error.
func StripWrapper(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, OpenDelimiter) || !strings.HasSuffix(trimmed, CloseDelimiter) {
		return trimmed, false
	}
	inner := trimmed[len(OpenDelimiter) : len(trimmed)-len(CloseDelimiter)]
	return strings.TrimSpace(inner), true
}
