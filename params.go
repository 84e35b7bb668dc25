package textcall

import "fmt"

// RequestParams represents the request parameters shared across providers.
// Optional fields are pointers to distinguish "not set" from "set to zero".
type RequestParams struct {
	// MaxTokens sets the maximum number of tokens to generate
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0-1.0)
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP (nucleus sampling) - cumulative probability cutoff (0.0-1.0)
	TopP *float64 `json:"top_p,omitempty"`

	// Stop sequences - generation stops if any of these are generated
	Stop []string `json:"stop,omitempty"`

	// System prompt. When the request carries tools and the model speaks the
	// text protocol, the adapter appends the ToolPrompt fragment to this.
	System *string `json:"system,omitempty"`

	// ThinkingEnabled enables extended thinking mode (if the model supports it)
	ThinkingEnabled *bool `json:"thinking_enabled,omitempty"`

	// ThinkingBudgetTokens caps the thinking budget when thinking is enabled
	ThinkingBudgetTokens *int `json:"thinking_budget_tokens,omitempty"`

	// Tools available for the model to use this turn
	Tools *ToolSet `json:"-"`
}

// ValidateRequestParams validates request parameters.
func ValidateRequestParams(params *RequestParams) error {
	if params == nil {
		return nil // nil params is valid
	}

	if params.Temperature != nil {
		if *params.Temperature < 0.0 || *params.Temperature > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", *params.Temperature)
		}
	}

	if params.TopP != nil {
		if *params.TopP < 0.0 || *params.TopP > 1.0 {
			return fmt.Errorf("top_p must be between 0.0 and 1.0, got %f", *params.TopP)
		}
	}

	if params.MaxTokens != nil {
		if *params.MaxTokens < 1 {
			return fmt.Errorf("max_tokens must be positive, got %d", *params.MaxTokens)
		}
	}

	if params.ThinkingBudgetTokens != nil {
		if *params.ThinkingBudgetTokens < 1 {
			return fmt.Errorf("thinking_budget_tokens must be positive, got %d", *params.ThinkingBudgetTokens)
		}
	}

	return nil
}

// GetMaxTokens returns max_tokens with default fallback.
func (rp *RequestParams) GetMaxTokens(defaultValue int) int {
	if rp != nil && rp.MaxTokens != nil {
		return *rp.MaxTokens
	}
	return defaultValue
}

// GetTemperature returns temperature with default fallback.
func (rp *RequestParams) GetTemperature(defaultValue float64) float64 {
	if rp != nil && rp.Temperature != nil {
		return *rp.Temperature
	}
	return defaultValue
}

// GetSystem returns the system prompt, or empty string if not set.
func (rp *RequestParams) GetSystem() string {
	if rp != nil && rp.System != nil {
		return *rp.System
	}
	return ""
}
