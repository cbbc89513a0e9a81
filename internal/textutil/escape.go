package textutil

import (
	"strconv"
	"strings"
)

var namedEntities = map[string]string{
	"quot": "\"",
	"apos": "'",
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"nbsp": " ",
}

// AddEscapes replaces every rune other than ASCII letters, digits and spaces
// with a numeric HTML entity.
func AddEscapes(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == ' ' || isASCIIAlnum(r) {
			b.WriteRune(r)
			continue
		}
		writeEntity(&b, r)
	}
	return b.String()
}

// AddEscapesToHTML escapes non-ASCII runes that appear outside of markup tags,
// leaving the tags themselves untouched.
func AddEscapesToHTML(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case r > 127 && !inTag:
			writeEntity(&b, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ReplaceEscapes converts HTML entities back into text. Unknown entities are
// dropped; an ampersand that does not start an entity is kept as-is.
func ReplaceEscapes(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '&' {
			if end := entityEnd(text[i:]); end > 0 {
				b.WriteString(EscapeToChar(text[i : i+end+1]))
				i += end + 1
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// EscapeToChar returns the text for a single entity such as "&amp;" or
// "&#60;". Anything unrecognised yields "".
func EscapeToChar(entity string) string {
	if len(entity) < 3 || entity[0] != '&' || entity[len(entity)-1] != ';' {
		return ""
	}
	name := entity[1 : len(entity)-1]
	if value, ok := namedEntities[name]; ok {
		return value
	}
	if name[0] != '#' {
		return ""
	}
	digits, base := name[1:], 10
	if strings.HasPrefix(digits, "x") || strings.HasPrefix(digits, "X") {
		digits, base = digits[1:], 16
	}
	code, err := strconv.ParseInt(digits, base, 32)
	if err != nil || code < 0 {
		return ""
	}
	return string(rune(code))
}

// entityEnd returns the offset of the ';' closing the entity at the start of
// s, or -1 when s does not start an entity.
func entityEnd(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case ';':
			return i
		case '&', ' ', '\t', '\r', '\n':
			return -1
		}
	}
	return -1
}

func writeEntity(b *strings.Builder, r rune) {
	b.WriteString("&#")
	b.WriteString(strconv.Itoa(int(r)))
	b.WriteByte(';')
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
