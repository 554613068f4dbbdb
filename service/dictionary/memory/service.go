// Package memory provides an in-memory dictionary.Tool for tests and dry
// runs. It understands the subset of dictionary syntax written by
// entry.Serialize and found in typical case files.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/foamcase/model/types"
	"github.com/viant/foamcase/service/dictionary"
)

// Tool keeps one parsed tree per file path.
type Tool struct {
	mu    sync.RWMutex
	files map[string]*node
}

// Ensure Tool implements dictionary.Tool
var _ dictionary.Tool = (*Tool)(nil)

// Load replaces the content of file with the parsed dictionary text.
func (t *Tool) Load(file string, text string) error {
	root, err := parseText(text)
	if err != nil {
		return fmt.Errorf("failed to parse %v: %w", file, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[file] = root
	return nil
}

// Value returns the value text, or a braced block for a sub-dictionary.
func (t *Tool) Value(ctx context.Context, file string, keywords []string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	target, err := t.lookup(file, keywords)
	if err != nil {
		return "", err
	}
	return target.text(), nil
}

// Set stores text under keywords, creating intermediate dictionaries.
func (t *Tool) Set(ctx context.Context, file string, keywords []string, text string) error {
	if len(keywords) == 0 {
		return fmt.Errorf("set requires an entry: %w", types.ErrInvalidEntry)
	}
	value := &node{value: strings.TrimSpace(text)}
	if strings.HasPrefix(value.value, "{") {
		parsed, err := parseText(value.value)
		if err != nil {
			return types.NewCommandFailedError([]string{"set", file, strings.Join(keywords, "/")}, 1, err.Error())
		}
		value = parsed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	parent := t.root(file)
	for _, keyword := range keywords[:len(keywords)-1] {
		child, ok := parent.children[keyword]
		if !ok || !child.isDictionary() {
			child = newDictionary()
			parent.put(keyword, child)
		}
		parent = child
	}
	parent.put(keywords[len(keywords)-1], value)
	return nil
}

// Remove deletes the entry addressed by keywords.
func (t *Tool) Remove(ctx context.Context, file string, keywords []string) error {
	if len(keywords) == 0 {
		return fmt.Errorf("remove requires an entry: %w", types.ErrInvalidEntry)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	parent, err := t.lookup(file, keywords[:len(keywords)-1])
	if err != nil {
		return err
	}
	if !parent.isDictionary() || !parent.remove(keywords[len(keywords)-1]) {
		return types.NewMissingEntryError(file, keywords)
	}
	return nil
}

// Keywords lists direct children of the addressed dictionary.
func (t *Tool) Keywords(ctx context.Context, file string, keywords []string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	target, err := t.lookup(file, keywords)
	if err != nil {
		return nil, err
	}
	if !target.isDictionary() {
		return nil, fmt.Errorf("%v in %v: %w", strings.Join(keywords, "/"), file, types.ErrNotDictionary)
	}
	return append([]string(nil), target.keys...), nil
}

func (t *Tool) root(file string) *node {
	ret, ok := t.files[file]
	if !ok {
		ret = newDictionary()
		t.files[file] = ret
	}
	return ret
}

func (t *Tool) lookup(file string, keywords []string) (*node, error) {
	current, ok := t.files[file]
	if !ok {
		current = newDictionary()
	}
	for _, keyword := range keywords {
		if !current.isDictionary() {
			return nil, types.NewMissingEntryError(file, keywords)
		}
		child, ok := current.children[keyword]
		if !ok {
			return nil, types.NewMissingEntryError(file, keywords)
		}
		current = child
	}
	return current, nil
}

// New creates an empty in-memory tool
func New() *Tool {
	return &Tool{files: map[string]*node{}}
}
