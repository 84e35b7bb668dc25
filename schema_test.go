package textcall

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleToolSet(t *testing.T) *ToolSet {
	t.Helper()
	set := NewToolSet()
	require.NoError(t, set.Add(ToolDefinition{
		Name:        "read_file",
		Description: "Read a file from disk",
		Parameters: ParameterSchema{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{"type": "string"},
			},
			Required: []string{"path"},
		},
	}))
	require.NoError(t, set.Add(ToolDefinition{
		Name:        "run_query",
		Description: "Run a SQL query",
		Parameters: ParameterSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{"type": "string"},
				"limit": map[string]any{"type": "integer"},
			},
			Required: []string{"query"},
		},
	}))
	return set
}

func TestToolPrompt_ContainsGrammarTemplate(t *testing.T) {
	out := ToolPrompt(sampleToolSet(t))

	assert.Contains(t, out, "<text>...</text>")
	assert.Contains(t, out, "<tool_use>")
	assert.Contains(t, out, "<tool_name>{tool name}</tool_name>")
	assert.Contains(t, out, "<tool_call_id>{unique call id}</tool_call_id>")
	assert.Contains(t, out, "<arguments>{arguments as a single JSON object}</arguments>")
	assert.Contains(t, out, "</tool_use>")
	assert.Contains(t, out, "<tool_result>")
}

func TestToolPrompt_ListsToolsInInsertionOrder(t *testing.T) {
	out := ToolPrompt(sampleToolSet(t))

	first := strings.Index(out, "read_file")
	second := strings.Index(out, "run_query")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "tools must appear in insertion order")

	assert.Contains(t, out, "Read a file from disk")
	assert.Contains(t, out, "\"required\"")
}

func TestToolPrompt_Deterministic(t *testing.T) {
	set := sampleToolSet(t)
	assert.Equal(t, ToolPrompt(set), ToolPrompt(set))
}

func TestToolPrompt_EmptySet(t *testing.T) {
	for _, set := range []*ToolSet{nil, NewToolSet()} {
		out := ToolPrompt(set)
		assert.Contains(t, out, "Available tools:\n\n[]")
		assert.Contains(t, out, "<tool_use>")
	}
}
