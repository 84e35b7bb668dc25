package textcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func stringPtr(s string) *string  { return &s }

func TestValidateRequestParams(t *testing.T) {
	tests := []struct {
		name    string
		params  *RequestParams
		wantErr bool
	}{
		{name: "nil params", params: nil},
		{name: "empty params", params: &RequestParams{}},
		{
			name:   "all valid",
			params: &RequestParams{MaxTokens: intPtr(1024), Temperature: floatPtr(0.7), TopP: floatPtr(0.9)},
		},
		{name: "temperature at bounds", params: &RequestParams{Temperature: floatPtr(0.0)}},
		{name: "temperature too high", params: &RequestParams{Temperature: floatPtr(1.5)}, wantErr: true},
		{name: "temperature negative", params: &RequestParams{Temperature: floatPtr(-0.1)}, wantErr: true},
		{name: "top_p too high", params: &RequestParams{TopP: floatPtr(1.01)}, wantErr: true},
		{name: "max_tokens zero", params: &RequestParams{MaxTokens: intPtr(0)}, wantErr: true},
		{name: "thinking budget zero", params: &RequestParams{ThinkingBudgetTokens: intPtr(0)}, wantErr: true},
		{name: "thinking budget valid", params: &RequestParams{ThinkingBudgetTokens: intPtr(2048)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequestParams(tt.params)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestParams_Getters(t *testing.T) {
	var nilParams *RequestParams
	assert.Equal(t, 4096, nilParams.GetMaxTokens(4096))
	assert.Equal(t, 1.0, nilParams.GetTemperature(1.0))
	assert.Equal(t, "", nilParams.GetSystem())

	params := &RequestParams{
		MaxTokens:   intPtr(256),
		Temperature: floatPtr(0.2),
		System:      stringPtr("be brief"),
	}
	assert.Equal(t, 256, params.GetMaxTokens(4096))
	assert.Equal(t, 0.2, params.GetTemperature(1.0))
	assert.Equal(t, "be brief", params.GetSystem())
}

func TestGenerateRequest_HasTools(t *testing.T) {
	req := &GenerateRequest{Model: "claude-test"}
	assert.False(t, req.HasTools())
	assert.Nil(t, req.Tools())

	req.Params = &RequestParams{}
	assert.False(t, req.HasTools())

	set := NewToolSet()
	assert.NoError(t, set.Add(ToolDefinition{Name: "t", Parameters: objectSchema()}))
	req.Params.Tools = set
	assert.True(t, req.HasTools())
}

func TestFinishReason_Upgrade(t *testing.T) {
	tests := []struct {
		name    string
		current FinishReason
		next    FinishReason
		want    FinishReason
	}{
		{"stop to tool-calls", FinishReasonStop, FinishReasonToolCalls, FinishReasonToolCalls},
		{"tool-calls not downgraded by stop", FinishReasonToolCalls, FinishReasonStop, FinishReasonToolCalls},
		{"tool-calls upgraded to length", FinishReasonToolCalls, FinishReasonLength, FinishReasonLength},
		{"stop to length", FinishReasonStop, FinishReasonLength, FinishReasonLength},
		{"stop stays stop", FinishReasonStop, FinishReasonStop, FinishReasonStop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.current.Upgrade(tt.next))
		})
	}
}
