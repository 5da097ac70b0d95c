package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	err := NewExitError(ExitFailure, "2 of 4 groups failed")
	assert.Equal(t, "2 of 4 groups failed", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestExitError_WrapsUnderlyingError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open journal", cause)

	assert.Equal(t, "failed to open journal: disk full", err.Error())
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"exit failure", NewExitError(ExitFailure, "groups failed"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"plain error", errors.New("something"), ExitFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetExitCode(tc.err))
		})
	}
}

func TestGetExitCode_UnwrapsNestedErrors(t *testing.T) {
	inner := NewExitError(ExitCommandError, "bad config")
	wrapped := fmt.Errorf("while starting: %w", inner)

	require.Equal(t, ExitCommandError, GetExitCode(wrapped))
}
