package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// CompareStrings orders two strings ignoring case. It returns -1, 0 or 1.
func CompareStrings(a, b string) int {
	return strings.Compare(Fold(a), Fold(b))
}

// Fold returns the case-folded form of s used for case-insensitive matching.
func Fold(s string) string {
	if s == "" {
		return s
	}
	return cases.Fold().String(s)
}

// CompareAlphanum orders two strings section by section. Runs of digits,
// optionally led by a single '.' or ',' decimal marker, compare by numeric
// value; everything else compares case-insensitively. It returns -1, 0 or 1.
func CompareAlphanum(a, b string) int {
	for {
		left, leftRest := nextSection(a)
		right, rightRest := nextSection(b)
		if left.text == "" && right.text == "" {
			return 0
		}
		if c := compareSections(left, right); c != 0 {
			return c
		}
		a, b = leftRest, rightRest
	}
}

type section struct {
	text    string
	numeric bool
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// numericAt reports whether a numeric section begins at s[i].
func numericAt(s string, i int) bool {
	if isDigit(s[i]) {
		return true
	}
	return (s[i] == '.' || s[i] == ',') && i+1 < len(s) && isDigit(s[i+1])
}

// nextSection splits the leading section off s.
func nextSection(s string) (section, string) {
	if s == "" {
		return section{}, ""
	}
	i := 1
	if numericAt(s, 0) {
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		return section{text: s[:i], numeric: true}, s[i:]
	}
	for i < len(s) && !numericAt(s, i) {
		i++
	}
	return section{text: s[:i]}, s[i:]
}

func compareSections(a, b section) int {
	switch {
	case a.text == "" && b.text == "":
		return 0
	case a.text == "":
		return -1
	case b.text == "":
		return 1
	case a.numeric && b.numeric:
		return compareNumeric(a.text, b.text)
	case a.numeric:
		return -1
	case b.numeric:
		return 1
	default:
		return CompareStrings(a.text, b.text)
	}
}

// compareNumeric compares two numeric sections without converting them to
// machine numbers, so digit strings of any length order correctly.
func compareNumeric(a, b string) int {
	aInt, aFrac := splitNumber(a)
	bInt, bFrac := splitNumber(b)
	if c := compareIntegers(aInt, bInt); c != 0 {
		return c
	}
	// Fraction digits without trailing zeros order lexically.
	return strings.Compare(strings.TrimRight(aFrac, "0"), strings.TrimRight(bFrac, "0"))
}

func splitNumber(s string) (integer, fraction string) {
	if s[0] == '.' || s[0] == ',' {
		return "", s[1:]
	}
	return s, ""
}

func compareIntegers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return strings.Compare(a, b)
	}
}
