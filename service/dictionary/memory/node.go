package memory

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
)

// node is either a leaf holding value text or a dictionary holding ordered
// children.
type node struct {
	value    string
	keys     []string
	children map[string]*node
}

func newDictionary() *node {
	return &node{children: map[string]*node{}}
}

func (n *node) isDictionary() bool {
	return n.children != nil
}

func (n *node) put(key string, child *node) {
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

func (n *node) remove(key string) bool {
	if _, ok := n.children[key]; !ok {
		return false
	}
	delete(n.children, key)
	for i, candidate := range n.keys {
		if candidate == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// render prints a dictionary node as a braced block.
func (n *node) render(builder *strings.Builder, indent string) {
	builder.WriteString("{\n")
	inner := indent + "    "
	for _, key := range n.keys {
		child := n.children[key]
		builder.WriteString(inner)
		builder.WriteString(key)
		if child.isDictionary() {
			builder.WriteString("\n" + inner)
			child.render(builder, inner)
			builder.WriteString("\n")
			continue
		}
		if child.value != "" {
			builder.WriteString(" ")
			builder.WriteString(child.value)
		}
		builder.WriteString(";\n")
	}
	builder.WriteString(indent + "}")
}

func (n *node) text() string {
	if !n.isDictionary() {
		return n.value
	}
	builder := &strings.Builder{}
	n.render(builder, "")
	return builder.String()
}

// parseText decodes dictionary body text, or a braced block when the text
// starts with an opening brace.
func parseText(text string) (*node, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)
	skip(cursor)
	nested := cursor.MatchOne(openBlockToken).Code == openBlockCode
	ret, err := parseBody(cursor, nested)
	if err != nil {
		return nil, err
	}
	if skip(cursor); cursor.HasMore() {
		return nil, fmt.Errorf("unexpected content after dictionary at %d", cursor.Pos)
	}
	return ret, nil
}

func parseBody(cursor *parsly.Cursor, nested bool) (*node, error) {
	ret := newDictionary()
	for {
		skip(cursor)
		if !cursor.HasMore() {
			if nested {
				return nil, cursor.NewError(closeBlockToken)
			}
			return ret, nil
		}
		matched := cursor.MatchAny(closeBlockToken, wordToken)
		switch matched.Code {
		case closeBlockCode:
			if !nested {
				return nil, fmt.Errorf("unexpected } at %d", cursor.Pos)
			}
			return ret, nil
		case wordCode:
		default:
			return nil, cursor.NewError(wordToken)
		}
		key := matched.Text(cursor)

		skip(cursor)
		matched = cursor.MatchAny(openBlockToken, terminatorToken, wordToken)
		switch matched.Code {
		case openBlockCode:
			child, err := parseBody(cursor, true)
			if err != nil {
				return nil, err
			}
			ret.put(key, child)
			skip(cursor)
			cursor.MatchOne(terminatorToken)
		case terminatorCode:
			ret.put(key, &node{})
		case wordCode:
			values := []string{matched.Text(cursor)}
			for done := false; !done; {
				skip(cursor)
				matched = cursor.MatchAny(terminatorToken, wordToken)
				switch matched.Code {
				case terminatorCode:
					done = true
				case wordCode:
					values = append(values, matched.Text(cursor))
				default:
					return nil, cursor.NewError(terminatorToken)
				}
			}
			ret.put(key, &node{value: strings.Join(values, " ")})
		default:
			return nil, cursor.NewError(terminatorToken)
		}
	}
}

func skip(cursor *parsly.Cursor) {
	for cursor.HasMore() {
		pos := cursor.Pos
		cursor.MatchAny(whitespaceToken, commentToken)
		if cursor.Pos == pos {
			return
		}
	}
}
