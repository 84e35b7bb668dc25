package textcall

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ToolPrompt renders the system-prompt fragment that teaches a text-only model
// the embedded calling convention for the given tool set.
//
// The fragment instructs the model to wrap all narrative output in
// <text>...</text>, to emit tool invocations as the fixed five-field
// <tool_use> block, to generate a unique id per invocation, and to always
// supply the required parameters. Pure and deterministic for a given set:
// tools are listed in insertion order and the schema encoding is stable.
// An empty (or nil) set yields the fragment with an empty tool list.
func ToolPrompt(tools *ToolSet) string {
	var sb strings.Builder

	sb.WriteString("In this environment you have access to a set of tools. ")
	sb.WriteString("You do not have native tool calling; instead you invoke tools by embedding ")
	sb.WriteString("structured blocks directly in your reply.\n\n")

	sb.WriteString("Formatting rules:\n\n")
	sb.WriteString("1. Wrap ALL narrative prose for the user in " + tagTextOpen + "..." + tagTextClose + " tags. ")
	sb.WriteString("Never emit prose outside these tags.\n")
	sb.WriteString("2. To invoke a tool, emit exactly this block:\n\n")
	sb.WriteString(tagToolUseOpen + "\n")
	sb.WriteString(tagToolNameOpen + "{tool name}" + tagToolNameClose + "\n")
	sb.WriteString(tagToolCallIDOpen + "{unique call id}" + tagToolCallIDClose + "\n")
	sb.WriteString(tagArgumentsOpen + "{arguments as a single JSON object}" + tagArgumentsClose + "\n")
	sb.WriteString(tagToolUseClose + "\n\n")
	sb.WriteString("3. Generate a new unique tool_call_id for every invocation; never reuse an id.\n")
	sb.WriteString("4. Always provide every required parameter, inferring values from context. ")
	sb.WriteString("Never emit an empty arguments object for a tool that has required parameters.\n")
	sb.WriteString("5. After a tool runs, its result is returned to you inside a ")
	sb.WriteString(tagToolResultOpen + " block carrying the matching tool_call_id.\n\n")

	sb.WriteString("Available tools:\n\n")
	sb.WriteString(serializeToolList(tools))

	return sb.String()
}

// serializeToolList renders the tool definitions as an indented JSON array in
// insertion order.
func serializeToolList(tools *ToolSet) string {
	defs := []ToolDefinition{}
	if tools != nil {
		defs = tools.All()
	}

	raw, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		// ToolDefinition holds only JSON-encodable fields; this path would
		// mean a caller put a non-encodable value into a property schema.
		return fmt.Sprintf("[] /* tool list unavailable: %v */", err)
	}
	return string(raw)
}
