package textcall

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrInvalidModel indicates the requested model is not supported by the provider.
	ErrInvalidModel = errors.New("textcall: invalid or unsupported model")

	// ErrInvalidAPIKey indicates the API key is missing, malformed, or unauthorized.
	ErrInvalidAPIKey = errors.New("textcall: invalid API key")

	// ErrInvalidRequest indicates the request parameters are invalid.
	ErrInvalidRequest = errors.New("textcall: invalid request")

	// ErrProviderUnavailable indicates the provider service is down or unreachable.
	ErrProviderUnavailable = errors.New("textcall: provider unavailable")

	// ErrMaxTurns indicates the backend aborted the turn because its turn
	// limit was reached (terminal result subtype "error_max_turns").
	ErrMaxTurns = errors.New("textcall: backend turn limit reached")

	// ErrExecutionFailed indicates the backend reported a failure while
	// executing the turn (terminal result subtype "error_during_execution").
	ErrExecutionFailed = errors.New("textcall: backend execution error")
)

// ModelError represents an error related to model validation or availability.
type ModelError struct {
	Model    string // The model that was requested
	Provider string // The provider name
	Reason   string // Human-readable explanation
	Err      error  // Wrapped error (usually ErrInvalidModel)
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model '%s' for provider '%s': %s (%v)", e.Model, e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("model '%s' for provider '%s': %s", e.Model, e.Provider, e.Reason)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ProviderError represents an error from the underlying provider API.
type ProviderError struct {
	Provider   string // The provider name
	StatusCode int    // HTTP status code (if applicable)
	Message    string // Error message from provider
	Err        error  // Wrapped sentinel error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider '%s' error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider '%s' error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// TurnError represents a fatal error reported by the backend's terminal result
// event. It aborts the stream; retry policy belongs to the caller.
type TurnError struct {
	Subtype string // Backend result subtype ("error_max_turns", "error_during_execution")
	Err     error  // Wrapped sentinel (ErrMaxTurns or ErrExecutionFailed)
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn aborted by backend (%s): %v", e.Subtype, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// NewTurnError maps a backend result subtype to a TurnError, or nil when the
// subtype does not signal a failure.
func NewTurnError(subtype string) *TurnError {
	switch subtype {
	case "error_max_turns":
		return &TurnError{Subtype: subtype, Err: ErrMaxTurns}
	case "error_during_execution":
		return &TurnError{Subtype: subtype, Err: ErrExecutionFailed}
	default:
		return nil
	}
}

// IsFatalTurn checks whether an error is a backend-reported turn failure.
func IsFatalTurn(err error) bool {
	if err == nil {
		return false
	}
	var turnErr *TurnError
	return errors.As(err, &turnErr)
}
