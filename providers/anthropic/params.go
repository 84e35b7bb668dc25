package anthropic

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	textcall "github.com/veskin/textcall-llm-go"
)

// buildMessageParams constructs Anthropic API parameters from a
// GenerateRequest. Shared between GenerateResponse and StreamResponse.
//
// In text-protocol mode the tool definitions are serialized into the system
// prompt and prior tool traffic is replayed in the embedded grammar; in
// native mode tools go on the request and tool traffic uses SDK blocks.
func buildMessageParams(req *textcall.GenerateRequest, textProtocol bool) (anthropic.MessageNewParams, error) {
	messages, err := convertMessages(req.Messages, textProtocol)
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("convert messages: %w", err)
	}

	params := req.Params
	if params == nil {
		params = &textcall.RequestParams{}
	}

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: int64(params.GetMaxTokens(4096)),
	}

	if params.Temperature != nil {
		apiParams.Temperature = anthropic.Float(*params.Temperature)
	}
	if params.TopP != nil {
		apiParams.TopP = anthropic.Float(*params.TopP)
	}
	if len(params.Stop) > 0 {
		apiParams.StopSequences = params.Stop
	}

	system := params.GetSystem()
	if textProtocol {
		// The calling convention rides in the system prompt; this fragment
		// and the parsers must agree on the wire format.
		fragment := textcall.ToolPrompt(req.Tools())
		if system != "" {
			system += "\n\n"
		}
		system += fragment
	}
	if system != "" {
		apiParams.System = []anthropic.TextBlockParam{
			{Type: "text", Text: system},
		}
	}

	if req.HasTools() && !textProtocol {
		apiParams.Tools = convertNativeTools(req.Tools())
	}

	if params.ThinkingEnabled != nil && *params.ThinkingEnabled {
		budget := 4096
		if params.ThinkingBudgetTokens != nil {
			budget = *params.ThinkingBudgetTokens
		}
		apiParams.Thinking = anthropic.ThinkingConfigParamOfEnabled(int64(budget))
	}

	return apiParams, nil
}

// convertMessages converts library messages to Anthropic SDK format.
func convertMessages(messages []textcall.Message, textProtocol bool) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for i, msg := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Blocks))

		for j, block := range msg.Blocks {
			switch block.BlockType {
			case textcall.BlockTypeText:
				blocks = append(blocks, anthropic.NewTextBlock(block.Text))

			case textcall.BlockTypeThinking:
				// Thinking is never replayed: the API rejects unsigned
				// thinking blocks and the text protocol has no tag for them.

			case textcall.BlockTypeToolUse:
				if block.ToolCallID == "" || block.ToolName == "" {
					return nil, fmt.Errorf("message %d, block %d: tool_use block missing id or name", i, j)
				}
				if textProtocol {
					blocks = append(blocks, anthropic.NewTextBlock(
						textcall.FormatToolUse(block.ToolCallID, block.ToolName, block.Arguments)))
				} else {
					blocks = append(blocks, anthropic.NewToolUseBlock(block.ToolCallID, block.Arguments, block.ToolName))
				}

			case textcall.BlockTypeToolResult:
				if block.ToolCallID == "" {
					return nil, fmt.Errorf("message %d, block %d: tool_result block missing tool_call_id", i, j)
				}
				if textProtocol {
					blocks = append(blocks, anthropic.NewTextBlock(
						textcall.FormatToolResult(block.ToolCallID, block.Text, block.IsError)))
				} else {
					blocks = append(blocks, anthropic.NewToolResultBlock(block.ToolCallID, block.Text, block.IsError))
				}

			default:
				return nil, fmt.Errorf("message %d, block %d: unsupported block type '%s'", i, j, block.BlockType)
			}
		}

		switch msg.Role {
		case "user":
			result = append(result, anthropic.NewUserMessage(blocks...))
		case "assistant":
			result = append(result, anthropic.NewAssistantMessage(blocks...))
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return result, nil
}
