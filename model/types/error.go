package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by every foamcase package. Callers detect conditions
// with errors.Is instead of comparing messages.
var (
	// ErrConfigurationNotFound is returned when a case directory or a
	// dictionary file is missing at construction time.
	ErrConfigurationNotFound = errors.New("configuration not found")

	// ErrMissingEntry is returned when a dictionary keyword does not exist.
	ErrMissingEntry = errors.New("missing entry")

	// ErrAmbiguousRunMode is returned when both serial and parallel run
	// scripts exist and the caller did not choose one.
	ErrAmbiguousRunMode = errors.New("ambiguous run mode")

	// ErrCommandFailed is matched by every *CommandFailedError.
	ErrCommandFailed = errors.New("command failed")

	// ErrNeverSatisfiable is returned for CPU requests above pool capacity.
	ErrNeverSatisfiable = errors.New("cpu request can never be satisfied")

	// ErrNotDictionary is returned when a sub-dictionary was expected but the
	// entry holds a plain value.
	ErrNotDictionary = errors.New("entry is not a dictionary")

	// ErrInvalidEntry is returned when an entry has an unexpected kind.
	ErrInvalidEntry = errors.New("invalid entry")
)

// CommandFailedError describes an external process that exited with a
// nonzero status under strict checking.
type CommandFailedError struct {
	Command string
	Status  int
	Stderr  string
}

func (e *CommandFailedError) Error() string {
	msg := fmt.Sprintf("%s failed with return code %d", e.Command, e.Status)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

// Is reports ErrCommandFailed equivalence.
func (e *CommandFailedError) Is(target error) bool {
	return target == ErrCommandFailed
}

// NewCommandFailedError builds a CommandFailedError for the supplied arguments.
func NewCommandFailedError(args []string, status int, stderr string) *CommandFailedError {
	return &CommandFailedError{Command: strings.Join(args, " "), Status: status, Stderr: stderr}
}

// NewConfigurationNotFoundError wraps ErrConfigurationNotFound with location details.
func NewConfigurationNotFoundError(path string, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: %s", ErrConfigurationNotFound, path)
	}
	return fmt.Errorf("%w: %s: %s", ErrConfigurationNotFound, path, reason)
}

// NewMissingEntryError wraps ErrMissingEntry with the keyword path.
func NewMissingEntryError(file string, keywords []string) error {
	return fmt.Errorf("%w: %s in %s", ErrMissingEntry, strings.Join(keywords, "/"), file)
}

// IsMissingEntry reports whether err denotes an absent dictionary keyword.
func IsMissingEntry(err error) bool {
	return errors.Is(err, ErrMissingEntry)
}
