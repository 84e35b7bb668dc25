package textcall

// GenerateResponse contains a provider's complete (non-streaming) response.
type GenerateResponse struct {
	// Blocks is the ordered list of content blocks, as recovered by the
	// content block parser for text-protocol backends.
	Blocks []*ContentBlock

	// Model is the model that was used (may differ from request if aliased)
	Model string

	// FinishReason classifies why the turn ended
	FinishReason FinishReason

	// Usage carries the turn's token accounting
	Usage Usage
}

// ToolCalls returns the tool invocations in document order.
func (r *GenerateResponse) ToolCalls() []*ContentBlock {
	var calls []*ContentBlock
	for _, b := range r.Blocks {
		if b.IsToolUse() {
			calls = append(calls, b)
		}
	}
	return calls
}

// Text concatenates the narrative text blocks.
func (r *GenerateResponse) Text() string {
	var out string
	for _, b := range r.Blocks {
		if b.IsText() {
			out += b.Text
		}
	}
	return out
}
