package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"

	textcall "github.com/veskin/textcall-llm-go"
)

// convertNativeTools converts tool definitions to the SDK's structured tool
// format, for models that accept native function calling. Text-protocol
// models never see these; their tools ride in the system prompt instead.
func convertNativeTools(tools *textcall.ToolSet) []anthropic.ToolUnionParam {
	if tools.Len() == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, 0, tools.Len())
	for _, def := range tools.All() {
		schema := anthropic.ToolInputSchemaParam{
			Properties: def.Parameters.Properties,
		}
		if len(def.Parameters.Required) > 0 {
			schema.Required = def.Parameters.Required
		}

		toolParam := anthropic.ToolUnionParamOfTool(schema, def.Name)
		if def.Description != "" {
			if toolParam.OfTool == nil {
				toolParam.OfTool = &anthropic.ToolParam{}
			}
			toolParam.OfTool.Description = anthropic.String(def.Description)
		}
		result = append(result, toolParam)
	}
	return result
}
