package dictionary

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/viant/foamcase/model/entry"
	"github.com/viant/foamcase/model/types"
)

// Dictionary is a live view of one dictionary inside a file. The zero
// keyword path addresses the file root.
type Dictionary struct {
	tool Tool
	ref  entry.Reference
}

// Reference returns the address of this dictionary.
func (d *Dictionary) Reference() entry.Reference {
	return d.ref
}

// Name returns the last keyword, or the file name at the root.
func (d *Dictionary) Name() string {
	return d.ref.Name()
}

// Get reads key. A sub-dictionary is returned as an entry.Reference; every
// other value is decoded with entry.Parse.
func (d *Dictionary) Get(ctx context.Context, key string) (entry.Entry, error) {
	child := d.ref.Child(key)
	text, err := d.tool.Value(ctx, child.File, child.Keywords)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(text, "{") {
		return child, nil
	}
	return entry.Parse(text), nil
}

// Set writes value under key, replacing any existing entry. References are
// expanded to the referenced dictionary's current content first.
func (d *Dictionary) Set(ctx context.Context, key string, value entry.Entry) error {
	resolved, err := d.resolve(ctx, value)
	if err != nil {
		return err
	}
	child := d.ref.Child(key)
	return d.tool.Set(ctx, child.File, child.Keywords, entry.Serialize(resolved))
}

// Delete removes key; an absent key yields types.ErrMissingEntry.
func (d *Dictionary) Delete(ctx context.Context, key string) error {
	child := d.ref.Child(key)
	return d.tool.Remove(ctx, child.File, child.Keywords)
}

// Keywords lists direct child keywords in file order. Quoted keywords such as
// regular expression patterns are omitted.
func (d *Dictionary) Keywords(ctx context.Context) ([]string, error) {
	keywords, err := d.tool.Keywords(ctx, d.ref.File, d.ref.Keywords)
	if err != nil {
		return nil, err
	}
	ret := keywords[:0]
	for _, keyword := range keywords {
		if strings.HasPrefix(keyword, `"`) {
			continue
		}
		ret = append(ret, keyword)
	}
	return ret, nil
}

// All lazily yields child keywords. The tool is queried when iteration
// starts and again on every new iteration.
func (d *Dictionary) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		keywords, err := d.Keywords(ctx)
		if err != nil {
			yield("", err)
			return
		}
		for _, keyword := range keywords {
			if !yield(keyword, nil) {
				return
			}
		}
	}
}

// Len returns the number of child keywords.
func (d *Dictionary) Len(ctx context.Context) (int, error) {
	keywords, err := d.Keywords(ctx)
	return len(keywords), err
}

// Has reports whether key exists.
func (d *Dictionary) Has(ctx context.Context, key string) (bool, error) {
	_, err := d.Get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case types.IsMissingEntry(err):
		return false, nil
	default:
		return false, err
	}
}

// Text returns the raw text of the whole dictionary as printed by the tool.
func (d *Dictionary) Text(ctx context.Context) (string, error) {
	return d.tool.Value(ctx, d.ref.File, d.ref.Keywords)
}

// Sub returns the sub-dictionary under key.
func (d *Dictionary) Sub(ctx context.Context, key string) (*Dictionary, error) {
	value, err := d.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	ref, ok := value.(entry.Reference)
	if !ok {
		return nil, fmt.Errorf("%v: %w", d.ref.Child(key), types.ErrNotDictionary)
	}
	return d.View(ref), nil
}

// View returns a dictionary for ref sharing this dictionary's tool.
func (d *Dictionary) View(ref entry.Reference) *Dictionary {
	return New(d.tool, ref)
}

// Word returns key as text; scalar values are formatted the way they are stored.
func (d *Dictionary) Word(ctx context.Context, key string) (string, error) {
	value, err := d.Get(ctx, key)
	if err != nil {
		return "", err
	}
	switch actual := value.(type) {
	case entry.String:
		return string(actual), nil
	case entry.Int, entry.Float, entry.Bool:
		return entry.Serialize(actual), nil
	}
	return "", d.invalid(key, "word", value)
}

// Int returns key as an integer.
func (d *Dictionary) Int(ctx context.Context, key string) (int, error) {
	value, err := d.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if actual, ok := value.(entry.Int); ok {
		return int(actual), nil
	}
	return 0, d.invalid(key, "integer", value)
}

// Float returns key as a float; integer values are widened.
func (d *Dictionary) Float(ctx context.Context, key string) (float64, error) {
	value, err := d.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	switch actual := value.(type) {
	case entry.Float:
		return float64(actual), nil
	case entry.Int:
		return float64(actual), nil
	}
	return 0, d.invalid(key, "float", value)
}

// Bool returns key as a switch value.
func (d *Dictionary) Bool(ctx context.Context, key string) (bool, error) {
	value, err := d.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if actual, ok := value.(entry.Bool); ok {
		return bool(actual), nil
	}
	return false, d.invalid(key, "switch", value)
}

func (d *Dictionary) invalid(key, expected string, value entry.Entry) error {
	return fmt.Errorf("%v: expected %s, got %T: %w", d.ref.Child(key), expected, value, types.ErrInvalidEntry)
}

func (d *Dictionary) resolve(ctx context.Context, value entry.Entry) (entry.Entry, error) {
	if !entry.HasReference(value) {
		return value, nil
	}
	switch actual := value.(type) {
	case entry.Reference:
		text, err := d.tool.Value(ctx, actual.File, actual.Keywords)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %v: %w", actual, err)
		}
		return entry.Verbatim(text), nil
	case entry.List:
		ret := make(entry.List, len(actual))
		for i, item := range actual {
			resolved, err := d.resolve(ctx, item)
			if err != nil {
				return nil, err
			}
			ret[i] = resolved
		}
		return ret, nil
	case entry.Map:
		ret := make(entry.Map, len(actual))
		for i, pair := range actual {
			resolved, err := d.resolve(ctx, pair.Value)
			if err != nil {
				return nil, err
			}
			ret[i] = entry.Pair{Key: pair.Key, Value: resolved}
		}
		return ret, nil
	}
	return value, nil
}

// New creates a dictionary view over ref
func New(tool Tool, ref entry.Reference) *Dictionary {
	return &Dictionary{tool: tool, ref: ref}
}
