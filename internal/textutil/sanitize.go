package textutil

import (
	"strings"
	"unicode"
)

// FilenameToken reduces a title to a token safe to use as a file name base.
// Letters, digits, spaces and dashes are kept, every other rune becomes a
// space, and runs of whitespace collapse to one space. An empty result is "0".
func FilenameToken(title string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return ' '
	}, title)
	token := strings.Join(strings.Fields(mapped), " ")
	if token == "" {
		return "0"
	}
	return token
}
