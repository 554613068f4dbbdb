package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/viant/foamcase/model/types"
	"github.com/viant/foamcase/service/executor"
)

// Tool queries and mutates dictionary files. Keywords address an entry from
// the file root; an empty slice addresses the root itself.
//
// Implementations report absent keywords with an error matching
// types.ErrMissingEntry and other tool failures with types.ErrCommandFailed.
type Tool interface {
	Value(ctx context.Context, file string, keywords []string) (string, error)
	Set(ctx context.Context, file string, keywords []string, text string) error
	Remove(ctx context.Context, file string, keywords []string) error
	Keywords(ctx context.Context, file string, keywords []string) ([]string, error)
}

const (
	// DefaultToolName is the OpenFOAM dictionary query/mutation utility.
	DefaultToolName = "foamDictionary"
	// DefaultPrecision is the number of significant digits written for floats.
	DefaultPrecision = 15

	missingEntrySignature = "cannot find entry"
)

// FoamDictionary is the Tool backed by the foamDictionary executable.
type FoamDictionary struct {
	executor  executor.Service
	name      string
	precision int
	logger    *slog.Logger
}

// Ensure FoamDictionary implements Tool
var _ Tool = (*FoamDictionary)(nil)

// ToolOption customises FoamDictionary.
type ToolOption func(f *FoamDictionary)

// WithToolName overrides the executable name or path.
func WithToolName(name string) ToolOption {
	return func(f *FoamDictionary) {
		if name != "" {
			f.name = name
		}
	}
}

// WithPrecision sets the -precision flag; zero omits it.
func WithPrecision(precision int) ToolOption {
	return func(f *FoamDictionary) {
		f.precision = precision
	}
}

// WithToolLogger sets the logger.
func WithToolLogger(logger *slog.Logger) ToolOption {
	return func(f *FoamDictionary) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Value returns the trimmed value text of the addressed entry.
func (f *FoamDictionary) Value(ctx context.Context, file string, keywords []string) (string, error) {
	return f.run(ctx, file, keywords, f.withPrecision("-value")...)
}

// Set writes serialized text to the addressed entry.
func (f *FoamDictionary) Set(ctx context.Context, file string, keywords []string, text string) error {
	_, err := f.run(ctx, file, keywords, f.withPrecision("-set", text)...)
	return err
}

// Remove deletes the addressed entry.
func (f *FoamDictionary) Remove(ctx context.Context, file string, keywords []string) error {
	_, err := f.run(ctx, file, keywords, "-remove")
	return err
}

// Keywords lists the keywords directly under the addressed entry.
func (f *FoamDictionary) Keywords(ctx context.Context, file string, keywords []string) ([]string, error) {
	output, err := f.run(ctx, file, keywords, "-keywords")
	if err != nil {
		return nil, err
	}
	var ret []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ret = append(ret, line)
		}
	}
	return ret, nil
}

func (f *FoamDictionary) withPrecision(args ...string) []string {
	if f.precision > 0 {
		args = append(args, "-precision", strconv.Itoa(f.precision))
	}
	return args
}

func (f *FoamDictionary) run(ctx context.Context, file string, keywords []string, args ...string) (string, error) {
	argv := []string{f.name}
	if len(keywords) > 0 {
		argv = append(argv, "-entry", strings.Join(keywords, "/"))
	}
	argv = append(argv, args...)
	argv = append(argv, file)

	result, err := f.executor.Execute(ctx, &executor.Command{Args: argv})
	if err != nil {
		return "", fmt.Errorf("failed to run %s: %w", f.name, err)
	}
	if result.Status != 0 {
		err = classifyFailure(file, keywords, argv, result)
		f.logger.Debug("dictionary query failed", "file", file, "entry", strings.Join(keywords, "/"), "error", err)
		return "", err
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}

// classifyFailure maps a failed tool invocation onto the error taxonomy. The
// stderr signature match is the only place that depends on the tool's
// diagnostic wording.
func classifyFailure(file string, keywords []string, argv []string, result *executor.Result) error {
	stderr := string(result.Stderr)
	if strings.Contains(strings.ToLower(stderr), missingEntrySignature) {
		return types.NewMissingEntryError(file, keywords)
	}
	return types.NewCommandFailedError(argv, result.Status, stderr)
}

// NewFoamDictionary creates a foamDictionary backed tool
func NewFoamDictionary(exec executor.Service, options ...ToolOption) *FoamDictionary {
	ret := &FoamDictionary{
		executor:  exec,
		name:      DefaultToolName,
		precision: DefaultPrecision,
		logger:    slog.Default(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
