package idgen

import "github.com/google/uuid"

// NewFunc generates a new identifier.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// Short returns the first eight characters of a new identifier, enough to
// correlate log lines of a single run.
func Short() string {
	id := New()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
