package textcall

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTurnError(t *testing.T) {
	tests := []struct {
		subtype  string
		sentinel error
	}{
		{"error_max_turns", ErrMaxTurns},
		{"error_during_execution", ErrExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.subtype, func(t *testing.T) {
			err := NewTurnError(tt.subtype)
			require.NotNil(t, err)
			assert.Equal(t, tt.subtype, err.Subtype)
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestNewTurnError_NonFatalSubtypes(t *testing.T) {
	for _, subtype := range []string{"success", "", "something_else"} {
		assert.Nil(t, NewTurnError(subtype), "subtype %q should not be fatal", subtype)
	}
}

func TestIsFatalTurn(t *testing.T) {
	assert.False(t, IsFatalTurn(nil))
	assert.False(t, IsFatalTurn(errors.New("plain")))
	assert.True(t, IsFatalTurn(NewTurnError("error_max_turns")))

	wrapped := fmt.Errorf("stream aborted: %w", NewTurnError("error_during_execution"))
	assert.True(t, IsFatalTurn(wrapped))
	assert.True(t, errors.Is(wrapped, ErrExecutionFailed))
}

func TestModelError_Unwrap(t *testing.T) {
	err := &ModelError{
		Model:    "gpt-4",
		Provider: "anthropic",
		Reason:   "unsupported",
		Err:      ErrInvalidModel,
	}
	assert.True(t, errors.Is(err, ErrInvalidModel))
	assert.Contains(t, err.Error(), "gpt-4")
	assert.Contains(t, err.Error(), "anthropic")
}

func TestProviderError_Unwrap(t *testing.T) {
	err := &ProviderError{
		Provider:   "anthropic",
		StatusCode: 503,
		Message:    "overloaded",
		Err:        ErrProviderUnavailable,
	}
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.Contains(t, err.Error(), "503")
}
