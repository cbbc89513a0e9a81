package query

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Evaluate reports whether subject satisfies the tree. Text operands match
// as substrings, or must equal subject when exact is set. A nil tree matches
// nothing.
func Evaluate(n *Node, subject string, exact bool) bool {
	return EvaluateFunc(n, func(text string) bool {
		if exact {
			return text == subject
		}
		return strings.Contains(subject, text)
	})
}

// EvaluateFunc reports whether the tree holds when each text operand is
// decided by match. Operators and inversions apply to the operand results,
// so one operand may be satisfied by a different value than another.
func EvaluateFunc(n *Node, match func(text string) bool) bool {
	if n == nil {
		return false
	}
	left := n.Left.matches(match) != n.InvertLeft
	switch n.Op {
	case OpAnd:
		return left && n.right(match)
	case OpOr:
		return left || n.right(match)
	default:
		return left
	}
}

// MatchValues evaluates the tree against a set of field values. Substring
// queries see the values joined by newlines. Exact operands hold when some
// single value equals them.
func MatchValues(n *Node, values []string, exact bool) bool {
	if !exact {
		return Evaluate(n, strings.Join(values, "\n"), false)
	}
	return EvaluateFunc(n, func(text string) bool {
		return slices.Contains(values, text)
	})
}

func (n *Node) right(match func(string) bool) bool {
	if n.Right == nil {
		return false
	}
	return n.Right.matches(match) != n.InvertRight
}

func (t Term) matches(match func(string) bool) bool {
	if t.Sub != nil {
		return EvaluateFunc(t.Sub, match)
	}
	return match(t.Text)
}

// Lower returns a copy of the tree with every text operand lower-cased.
func Lower(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Left = lowerTerm(n.Left)
	if n.Right != nil {
		right := lowerTerm(*n.Right)
		out.Right = &right
	}
	return &out
}

func lowerTerm(t Term) Term {
	if t.Sub != nil {
		return Term{Sub: Lower(t.Sub)}
	}
	return Term{Text: lower(t.Text)}
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
