package memory

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes, starting at 1 to stay clear of parsly.EOF
const (
	whitespaceCode = iota + 1
	commentCode
	openBlockCode
	closeBlockCode
	terminatorCode
	wordCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	commentToken    = parsly.NewToken(commentCode, "Comment", &commentMatcher{})
	openBlockToken  = parsly.NewToken(openBlockCode, "{", matcher.NewByte('{'))
	closeBlockToken = parsly.NewToken(closeBlockCode, "}", matcher.NewByte('}'))
	terminatorToken = parsly.NewToken(terminatorCode, ";", matcher.NewByte(';'))
	wordToken       = parsly.NewToken(wordCode, "Word", &wordMatcher{})
)

// commentMatcher matches // line comments and /* block */ comments
type commentMatcher struct{}

func (m *commentMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos+1 >= size || input[pos] != '/' {
		return 0
	}
	switch input[pos+1] {
	case '/':
		i := pos + 2
		for i < size && input[i] != '\n' {
			i++
		}
		return i - pos
	case '*':
		for i := pos + 2; i+1 < size; i++ {
			if input[i] == '*' && input[i+1] == '/' {
				return i + 2 - pos
			}
		}
		return size - pos
	}
	return 0
}

// wordMatcher matches a keyword or a value token. Parenthesised groups and
// double quoted strings are kept whole.
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	depth := 0
	quoted := false
	i := pos
	for ; i < size; i++ {
		c := input[i]
		if quoted {
			if c == '"' {
				quoted = false
			}
			continue
		}
		switch c {
		case '"':
			quoted = true
			continue
		case '(':
			depth++
			continue
		case ')':
			if depth == 0 {
				return 0
			}
			depth--
			continue
		}
		if depth > 0 {
			continue
		}
		if isDelimiter(c) {
			break
		}
	}
	if depth != 0 || quoted {
		return 0
	}
	return i - pos
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '{', '}', ';':
		return true
	}
	return false
}
