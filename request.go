package textcall

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// Messages contains the conversation history.
	// Each message has a Role (user/assistant) and content blocks.
	Messages []Message

	// Model is the model identifier (e.g., "claude-haiku-4-5-20251001")
	Model string

	// Params contains request parameters (max tokens, temperature, thinking
	// settings, tools). Provider adapters extract what they support.
	Params *RequestParams
}

// Message represents a single message in the conversation.
type Message struct {
	// Role is either "user" or "assistant"
	Role string

	// Blocks is the list of content blocks for this message
	Blocks []*ContentBlock
}

// UserText is a convenience constructor for a plain user message.
func UserText(text string) Message {
	return Message{Role: "user", Blocks: []*ContentBlock{TextBlock(text)}}
}

// Tools returns the request's tool set, which may be nil or empty.
func (r *GenerateRequest) Tools() *ToolSet {
	if r.Params == nil {
		return nil
	}
	return r.Params.Tools
}

// HasTools reports whether the request declares any tools. This is what
// decides whether a provider adapter routes narrative text through the
// streaming protocol parser.
func (r *GenerateRequest) HasTools() bool {
	return r.Tools().Len() > 0
}
