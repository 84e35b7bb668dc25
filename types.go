package textcall

// Block type constants
const (
	BlockTypeText       = "text"
	BlockTypeThinking   = "thinking"    // Extended thinking / reasoning content
	BlockTypeToolUse    = "tool_use"    // Tool invocation embedded by the model
	BlockTypeToolResult = "tool_result" // Result sent back for a prior tool invocation
)

// ContentBlock represents one typed span of model output.
//
// The non-streaming parser produces only text and tool_use blocks, in document
// order. Conversation replay additionally uses thinking and tool_result blocks.
//
// Fields by block type:
//   - text, thinking: Text
//   - tool_use: ToolName, ToolCallID, Arguments
//   - tool_result: ToolCallID, Text (rendered result), IsError
type ContentBlock struct {
	// BlockType is one of the BlockType* constants
	BlockType string `json:"block_type"`

	// Text contains the content for text/thinking/tool_result blocks
	Text string `json:"text,omitempty"`

	// ToolName is the invoked tool's name (tool_use only)
	ToolName string `json:"tool_name,omitempty"`

	// ToolCallID is the model-generated invocation id (tool_use, tool_result)
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Arguments is the decoded argument object (tool_use only)
	Arguments map[string]any `json:"arguments,omitempty"`

	// IsError marks a failed tool execution (tool_result only)
	IsError bool `json:"is_error,omitempty"`
}

// IsText returns true for a narrative text block.
func (b *ContentBlock) IsText() bool {
	return b.BlockType == BlockTypeText
}

// IsToolUse returns true for a tool invocation block.
func (b *ContentBlock) IsToolUse() bool {
	return b.BlockType == BlockTypeToolUse
}

// IsToolResult returns true for a tool result block.
func (b *ContentBlock) IsToolResult() bool {
	return b.BlockType == BlockTypeToolResult
}

// TextBlock builds a text content block.
func TextBlock(text string) *ContentBlock {
	return &ContentBlock{BlockType: BlockTypeText, Text: text}
}

// ToolUseBlock builds a tool_use content block.
func ToolUseBlock(id, name string, args map[string]any) *ContentBlock {
	return &ContentBlock{
		BlockType:  BlockTypeToolUse,
		ToolCallID: id,
		ToolName:   name,
		Arguments:  args,
	}
}

// ToolResultBlock builds a tool_result content block. Text is the result's
// text form; replay to a text-protocol model wraps it in the <tool_result>
// fragment via FormatToolResult.
func ToolResultBlock(id, text string, isError bool) *ContentBlock {
	return &ContentBlock{
		BlockType:  BlockTypeToolResult,
		ToolCallID: id,
		Text:       text,
		IsError:    isError,
	}
}
