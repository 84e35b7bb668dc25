package sim

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	textcall "github.com/veskin/textcall-llm-go"
)

func simToolSet(t *testing.T) *textcall.ToolSet {
	t.Helper()
	set := textcall.NewToolSet()
	require.NoError(t, set.Add(textcall.ToolDefinition{
		Name:        "read_file",
		Description: "Read a file",
		Parameters: textcall.ParameterSchema{
			Type: "object",
			Properties: map[string]any{
				"path":  map[string]any{"type": "string"},
				"limit": map[string]any{"type": "integer"},
			},
			Required: []string{"path", "limit"},
		},
	}))
	require.NoError(t, set.Add(textcall.ToolDefinition{
		Name: "list_dir",
		Parameters: textcall.ParameterSchema{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{"type": "string"},
			},
			Required: []string{"path"},
		},
	}))
	return set
}

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "sim", NewProvider().Name())
}

func TestProvider_SupportsModel(t *testing.T) {
	provider := NewProvider()

	tests := []struct {
		model    string
		expected bool
	}{
		{"sim-fast", true},
		{"sim-slow", true},
		{"sim-anything", true},
		{"claude-3", false},
		{"lorem-fast", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, provider.SupportsModel(tt.model))
		})
	}
}

func TestProvider_GenerateResponse(t *testing.T) {
	provider := NewProvider()

	req := &textcall.GenerateRequest{
		Model:    "sim-fast",
		Messages: []textcall.Message{textcall.UserText("Hello")},
	}

	resp, err := provider.GenerateResponse(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Blocks)

	assert.Equal(t, "sim-fast", resp.Model)
	assert.Equal(t, textcall.FinishReasonStop, resp.FinishReason)
	assert.NotEmpty(t, resp.Text())
	assert.Empty(t, resp.ToolCalls())
	assert.Greater(t, resp.Usage.OutputTokens, 0)
}

func TestProvider_GenerateResponse_WithTools(t *testing.T) {
	provider := NewProvider()
	tools := simToolSet(t)

	req := &textcall.GenerateRequest{
		Model:    "sim-fast",
		Messages: []textcall.Message{textcall.UserText("Use your tools")},
		Params:   &textcall.RequestParams{Tools: tools},
	}

	resp, err := provider.GenerateResponse(context.Background(), req)
	require.NoError(t, err)

	calls := resp.ToolCalls()
	require.Len(t, calls, tools.Len(), "one invocation per requested tool")
	assert.Equal(t, textcall.FinishReasonToolCalls, resp.FinishReason)

	seen := map[string]bool{}
	for _, call := range calls {
		assert.True(t, strings.HasPrefix(call.ToolCallID, "call_"))
		assert.False(t, seen[call.ToolCallID], "tool_call_id reused")
		seen[call.ToolCallID] = true

		def, ok := tools.Get(call.ToolName)
		require.True(t, ok, "unknown tool %q invoked", call.ToolName)
		assert.NoError(t, tools.ValidateArguments(def.Name, call.Arguments),
			"scripted arguments must satisfy the tool schema")
	}
}

func TestProvider_StreamResponse(t *testing.T) {
	provider := NewProvider()
	tools := simToolSet(t)

	req := &textcall.GenerateRequest{
		Model:    "sim-fast",
		Messages: []textcall.Message{textcall.UserText("Stream it")},
		Params:   &textcall.RequestParams{Tools: tools},
	}

	parts, err := provider.StreamResponse(context.Background(), req)
	require.NoError(t, err)

	var collected []textcall.StreamPart
	for part := range parts {
		collected = append(collected, part)
	}
	require.NotEmpty(t, collected)

	var textDeltas, toolCalls, finishes int
	argText := map[string]*strings.Builder{}
	for _, part := range collected {
		switch part.Type {
		case textcall.PartTextDelta:
			textDeltas++
		case textcall.PartToolInputDelta:
			if argText[part.ID] == nil {
				argText[part.ID] = &strings.Builder{}
			}
			argText[part.ID].WriteString(part.Delta)
		case textcall.PartToolCall:
			toolCalls++
		case textcall.PartFinish:
			finishes++
		case textcall.PartError:
			t.Fatalf("unexpected error part: %v", part.Err)
		}
	}

	assert.Greater(t, textDeltas, 0)
	assert.Equal(t, tools.Len(), toolCalls)
	require.Equal(t, 1, finishes, "exactly one finish part")

	last := collected[len(collected)-1]
	assert.Equal(t, textcall.PartFinish, last.Type, "finish must be the final part")
	assert.Equal(t, textcall.FinishReasonToolCalls, last.FinishReason)
	require.NotNil(t, last.Usage)
	assert.Greater(t, last.Usage.OutputTokens, 0)

	for id, sb := range argText {
		args, err := textcall.DecodeToolArguments(sb.String())
		require.NoError(t, err, "argument deltas for %s must concatenate to valid JSON", id)
		assert.NotNil(t, args)
	}
}

func TestProvider_StreamResponse_NoTools(t *testing.T) {
	provider := NewProvider()

	req := &textcall.GenerateRequest{
		Model:    "sim-fast",
		Messages: []textcall.Message{textcall.UserText("Just talk")},
	}

	parts, err := provider.StreamResponse(context.Background(), req)
	require.NoError(t, err)

	var last textcall.StreamPart
	for part := range parts {
		assert.NotEqual(t, textcall.PartToolCall, part.Type)
		last = part
	}
	assert.Equal(t, textcall.PartFinish, last.Type)
	assert.Equal(t, textcall.FinishReasonStop, last.FinishReason)
}

func TestProvider_InvalidModel(t *testing.T) {
	provider := NewProvider()
	req := &textcall.GenerateRequest{
		Model:    "claude-3",
		Messages: []textcall.Message{textcall.UserText("Test")},
	}

	_, err := provider.GenerateResponse(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, textcall.ErrInvalidModel)

	var modelErr *textcall.ModelError
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, "claude-3", modelErr.Model)
	assert.Equal(t, "sim", modelErr.Provider)

	_, err = provider.StreamResponse(context.Background(), req)
	assert.ErrorIs(t, err, textcall.ErrInvalidModel)
}
