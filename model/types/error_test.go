package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandFailedError(t *testing.T) {
	err := NewCommandFailedError([]string{"simpleFoam", "-parallel"}, 2, "  boom\n")
	wrapped := fmt.Errorf("run: %w", err)

	assert.True(t, errors.Is(wrapped, ErrCommandFailed))
	assert.False(t, errors.Is(wrapped, ErrMissingEntry))
	assert.Equal(t, "simpleFoam -parallel failed with return code 2\nboom", err.Error())

	var failed *CommandFailedError
	assert.True(t, errors.As(wrapped, &failed))
	assert.Equal(t, 2, failed.Status)
}

func TestWrappedSentinels(t *testing.T) {
	testCases := []struct {
		description string
		err         error
		expected    error
	}{
		{description: "configuration", err: NewConfigurationNotFoundError("/tmp/x", "not a directory"), expected: ErrConfigurationNotFound},
		{description: "configuration without reason", err: NewConfigurationNotFoundError("/tmp/x", ""), expected: ErrConfigurationNotFound},
		{description: "missing entry", err: NewMissingEntryError("/tmp/controlDict", []string{"a", "b"}), expected: ErrMissingEntry},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, tc.expected)
		})
	}
	assert.Contains(t, NewMissingEntryError("/tmp/controlDict", []string{"a", "b"}).Error(), "a/b")
}

func TestIsMissingEntry(t *testing.T) {
	assert.True(t, IsMissingEntry(NewMissingEntryError("/tmp/controlDict", []string{"a"})))
	assert.True(t, IsMissingEntry(fmt.Errorf("lookup: %w", NewMissingEntryError("/tmp/controlDict", nil))))
	assert.False(t, IsMissingEntry(NewConfigurationNotFoundError("/tmp/x", "")))
	assert.False(t, IsMissingEntry(nil))
}
