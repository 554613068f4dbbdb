package entry

import (
	"path"
	"strings"
)

// Entry is a value stored under a dictionary keyword.
//
// Values read back from a dictionary are one of String, Int, Float, Bool,
// List or Reference. Map and Verbatim are write-only: the backing tool
// reports a written map as a sub-dictionary, and verbatim text as whatever it
// parses to.
type Entry interface{ entryMarker() }

// String is an unquoted word or any text that does not parse as another kind.
type String string

// Int is an integer value.
type Int int64

// Float is a floating-point value.
type Float float64

// Bool is a yes/no switch.
type Bool bool

// List is a parenthesised, space-separated sequence of entries.
type List []Entry

// Pair is a single keyword/value of a Map.
type Pair struct {
	Key   string
	Value Entry
}

// Map is an ordered set of keyword/value pairs written as a sub-dictionary.
type Map []Pair

// Verbatim is already serialized dictionary text.
type Verbatim string

// Reference identifies a live sub-dictionary by its file and keyword path.
// Two references are the same dictionary when both fields match.
type Reference struct {
	File     string
	Keywords []string
}

func (String) entryMarker()    {}
func (Int) entryMarker()       {}
func (Float) entryMarker()     {}
func (Bool) entryMarker()      {}
func (List) entryMarker()      {}
func (Map) entryMarker()       {}
func (Verbatim) entryMarker()  {}
func (Reference) entryMarker() {}

// Path returns the "/"-joined keyword path.
func (r Reference) Path() string {
	return strings.Join(r.Keywords, "/")
}

// String returns file:keyword/path.
func (r Reference) String() string {
	return r.File + ":" + r.Path()
}

// Name returns the last keyword, or the file base name for a file root.
func (r Reference) Name() string {
	if len(r.Keywords) == 0 {
		return path.Base(r.File)
	}
	return r.Keywords[len(r.Keywords)-1]
}

// Child returns a reference extended by key.
func (r Reference) Child(key string) Reference {
	keywords := make([]string, 0, len(r.Keywords)+1)
	keywords = append(keywords, r.Keywords...)
	return Reference{File: r.File, Keywords: append(keywords, key)}
}

// Equal reports whether both references point at the same dictionary.
func (r Reference) Equal(other Reference) bool {
	if r.File != other.File || len(r.Keywords) != len(other.Keywords) {
		return false
	}
	for i := range r.Keywords {
		if r.Keywords[i] != other.Keywords[i] {
			return false
		}
	}
	return true
}

// HasReference reports whether value contains a Reference at any depth.
func HasReference(value Entry) bool {
	switch actual := value.(type) {
	case Reference:
		return true
	case List:
		for _, item := range actual {
			if HasReference(item) {
				return true
			}
		}
	case Map:
		for _, pair := range actual {
			if HasReference(pair.Value) {
				return true
			}
		}
	}
	return false
}
