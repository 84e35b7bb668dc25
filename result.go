package textcall

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatToolResult renders a tool's result (or error) as the <tool_result>
// fragment injected back into the conversation for the next turn.
//
// Pure, total function: string results are embedded as-is; any other value is
// JSON-stringified with indentation so it round-trips cleanly into the next
// prompt. When isError is true the payload is wrapped in <error> instead of
// <content>.
func FormatToolResult(toolCallID string, result any, isError bool) string {
	payload := renderResultPayload(result)

	openTag, closeTag := tagContentOpen, tagContentClose
	if isError {
		openTag, closeTag = tagErrorOpen, tagErrorClose
	}

	var sb strings.Builder
	sb.WriteString(tagToolResultOpen)
	sb.WriteString("\n")
	sb.WriteString(tagToolCallIDOpen)
	sb.WriteString(toolCallID)
	sb.WriteString(tagToolCallIDClose)
	sb.WriteString("\n")
	sb.WriteString(openTag)
	sb.WriteString(payload)
	sb.WriteString(closeTag)
	sb.WriteString("\n")
	sb.WriteString(tagToolResultClose)
	return sb.String()
}

// FormatToolUse renders a tool invocation in the embedded grammar. Used when
// replaying an assistant's prior tool calls to a text-protocol model, so the
// conversation the model sees matches the convention it was taught.
func FormatToolUse(toolCallID, toolName string, args map[string]any) string {
	var sb strings.Builder
	sb.WriteString(tagToolUseOpen)
	sb.WriteString("\n")
	sb.WriteString(tagToolNameOpen)
	sb.WriteString(toolName)
	sb.WriteString(tagToolNameClose)
	sb.WriteString("\n")
	sb.WriteString(tagToolCallIDOpen)
	sb.WriteString(toolCallID)
	sb.WriteString(tagToolCallIDClose)
	sb.WriteString("\n")
	sb.WriteString(tagArgumentsOpen)
	sb.WriteString(renderArguments(args))
	sb.WriteString(tagArgumentsClose)
	sb.WriteString("\n")
	sb.WriteString(tagToolUseClose)
	return sb.String()
}

// renderArguments encodes an argument object as inline JSON.
func renderArguments(args map[string]any) string {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// renderResultPayload converts a result value to its embedded text form.
func renderResultPayload(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			// Fall back to Go formatting rather than failing; the formatter
			// has no error channel and the model only needs readable text.
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}
