package entry

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	elementCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	elementToken    = parsly.NewToken(elementCode, "Element", newElementMatcher())
)

func newElementMatcher() parsly.Matcher {
	return &elementMatcher{}
}

// elementMatcher matches one list element: everything up to the next
// whitespace at nesting depth 0. Parenthesis depth must never drop below zero
// and must be balanced at the end of the element.
type elementMatcher struct{}

func (m *elementMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	depth := 0
	matched := 0
	for i := pos; i < size; i++ {
		c := input[i]
		if depth == 0 && isWhitespace(c) {
			break
		}
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return 0
			}
		}
		matched++
	}
	if depth != 0 {
		return 0
	}
	return matched
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
