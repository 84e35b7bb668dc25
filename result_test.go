package textcall

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatToolResult_StringContent(t *testing.T) {
	out := FormatToolResult("call_1", "file contents here", false)

	assert.True(t, strings.HasPrefix(out, "<tool_result>"))
	assert.True(t, strings.HasSuffix(out, "</tool_result>"))
	assert.Contains(t, out, "<tool_call_id>call_1</tool_call_id>")
	assert.Contains(t, out, "<content>file contents here</content>")
	assert.NotContains(t, out, "<error>")
}

func TestFormatToolResult_ErrorContent(t *testing.T) {
	out := FormatToolResult("call_2", "file not found", true)

	assert.Contains(t, out, "<tool_call_id>call_2</tool_call_id>")
	assert.Contains(t, out, "<error>file not found</error>")
	assert.NotContains(t, out, "<content>")
}

func TestFormatToolResult_StructuredContent(t *testing.T) {
	out := FormatToolResult("call_3", map[string]any{"count": 2}, false)

	assert.Contains(t, out, "\"count\": 2")
	assert.Contains(t, out, "<content>")
}

func TestFormatToolResult_NilResult(t *testing.T) {
	out := FormatToolResult("call_4", nil, false)
	assert.Contains(t, out, "<content></content>")
}

func TestFormatToolResult_Deterministic(t *testing.T) {
	a := FormatToolResult("c", "same", false)
	b := FormatToolResult("c", "same", false)
	assert.Equal(t, a, b)
}

func TestFormatToolUse_RoundTripsThroughParser(t *testing.T) {
	args := map[string]any{"path": "a.go", "limit": float64(10)}
	out := FormatToolUse("call_5", "Read", args)

	blocks := ParseContentBlocks(out)
	require.Len(t, blocks, 1)
	require.True(t, blocks[0].IsToolUse())
	assert.Equal(t, "call_5", blocks[0].ToolCallID)
	assert.Equal(t, "Read", blocks[0].ToolName)
	assert.Equal(t, args, blocks[0].Arguments)
}

func TestFormatToolUse_NilArguments(t *testing.T) {
	out := FormatToolUse("call_6", "Ping", nil)
	assert.Contains(t, out, "<arguments>{}</arguments>")
}

func TestFormatToolResult_NotMistakenForContentBlock(t *testing.T) {
	// A result fragment contains no <text> or <tool_use> opening, so feeding
	// it alone to the parser exercises only the plain-text fallback.
	out := FormatToolResult("call_7", "ok", false)
	blocks := ParseContentBlocks(out)
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].IsText())
	assert.Equal(t, strings.TrimSpace(out), blocks[0].Text)
}
