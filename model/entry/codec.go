package entry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

const (
	yes = "yes"
	no  = "no"
)

// Parse decodes text returned by the dictionary tool.
//
// "yes"/"no" become Bool; otherwise integer then floating-point parsing is
// attempted; text starting with "(" is parsed as a List when its parentheses
// enclose the whole text. Anything else is returned as String.
func Parse(text string) Entry {
	text = strings.TrimSpace(text)
	switch text {
	case yes:
		return Bool(true)
	case no:
		return Bool(false)
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i)
	}
	if f, ok := parseFloat(text); ok {
		return Float(f)
	}
	if strings.HasPrefix(text, "(") {
		if list, err := ParseList(text); err == nil {
			return list
		}
	}
	return String(text)
}

// ParseList decodes a parenthesised list; nested lists are decoded
// recursively and elements are split on whitespace at depth 0.
func ParseList(text string) (List, error) {
	text = strings.TrimSpace(text)
	if !isEnclosed(text) {
		return nil, fmt.Errorf("%w: not a list: %q", errInvalidList, text)
	}
	cursor := parsly.NewCursor("", []byte(text[1:len(text)-1]), 0)
	list := List{}
	for {
		cursor.MatchOne(whitespaceToken)
		if !cursor.HasMore() {
			return list, nil
		}
		matched := cursor.MatchOne(elementToken)
		if matched.Code != elementToken.Code {
			return nil, cursor.NewError(elementToken)
		}
		list = append(list, Parse(matched.Text(cursor)))
	}
}

var errInvalidList = errors.New("invalid list")

// isEnclosed reports whether the opening parenthesis at text[0] is closed by
// the last character.
func isEnclosed(text string) bool {
	if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(text)-1
			}
			if depth < 0 {
				return false
			}
		}
	}
	return false
}

// parseFloat accepts finite values only so that words such as "inf" or "nan"
// stay strings.
func parseFloat(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Serialize encodes value in the form accepted by the dictionary tool.
//
// A Reference is written as its identity; callers that need the referenced
// content must replace it with Verbatim text first.
func Serialize(value Entry) string {
	builder := &strings.Builder{}
	write(builder, value)
	return builder.String()
}

func write(builder *strings.Builder, value Entry) {
	switch actual := value.(type) {
	case nil:
	case Bool:
		if actual {
			builder.WriteString(yes)
		} else {
			builder.WriteString(no)
		}
	case Map:
		builder.WriteString("{ ")
		for _, pair := range actual {
			builder.WriteString(pair.Key)
			builder.WriteByte(' ')
			write(builder, pair.Value)
			switch pair.Value.(type) {
			case Map:
			case Verbatim:
				if isBlock(pair.Value) {
					builder.WriteByte(' ')
				} else {
					builder.WriteString("; ")
				}
			default:
				builder.WriteString("; ")
			}
		}
		builder.WriteString("} ")
	case List:
		builder.WriteString("( ")
		for i, item := range actual {
			if i > 0 {
				builder.WriteByte(' ')
			}
			write(builder, item)
		}
		builder.WriteString(") ")
	case Int:
		builder.WriteString(strconv.FormatInt(int64(actual), 10))
	case Float:
		builder.WriteString(formatFloat(float64(actual)))
	case String:
		builder.WriteString(string(actual))
	case Verbatim:
		builder.WriteString(string(actual))
	case Reference:
		builder.WriteString(actual.String())
	default:
		builder.WriteString(fmt.Sprint(actual))
	}
}

// isBlock reports whether verbatim text is a braced dictionary, which takes
// no trailing semicolon.
func isBlock(value Entry) bool {
	actual, ok := value.(Verbatim)
	return ok && strings.HasPrefix(strings.TrimSpace(string(actual)), "{")
}

// formatFloat keeps a decimal point or exponent so the text parses back as
// Float rather than Int.
func formatFloat(f float64) string {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(text, ".eEnN") {
		text += ".0"
	}
	return text
}
