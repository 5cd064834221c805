package symbol

import (
	"regexp"
	"strings"
)

var htmlEntityRE = regexp.MustCompile(`&[A-Z]+;`)

// Clean prepares raw input for parsing: removes all whitespace, uppercases,
// strips markup entities, and trims stray leading/trailing punctuation.
func Clean(raw string) string {
	s := strings.Join(strings.Fields(raw), "")
	s = strings.ToUpper(s)
	s = htmlEntityRE.ReplaceAllString(s, "")
	return strings.Trim(s, "-.:;,")
}
