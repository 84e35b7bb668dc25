package textcall

// PartType identifies one kind of uniform stream part. This is the single
// output vocabulary every provider adapter normalizes to, regardless of
// whether the backend speaks native tool calling or the embedded text
// protocol.
type PartType string

const (
	PartTextStart PartType = "text-start"
	PartTextDelta PartType = "text-delta"
	PartTextEnd   PartType = "text-end"

	PartReasoningStart PartType = "reasoning-start"
	PartReasoningDelta PartType = "reasoning-delta"
	PartReasoningEnd   PartType = "reasoning-end"

	PartToolInputStart PartType = "tool-input-start"
	PartToolInputDelta PartType = "tool-input-delta"
	PartToolInputEnd   PartType = "tool-input-end"

	// PartToolCall carries a complete tool invocation with decoded arguments.
	PartToolCall PartType = "tool-call"

	// PartFinish is emitted exactly once per turn, after all content parts and
	// after the streaming parser has been flushed.
	PartFinish PartType = "finish"

	// PartError terminates the stream on a fatal provider-reported error.
	PartError PartType = "error"
)

// FinishReason classifies why a model turn ended.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonLength    FinishReason = "length"
	FinishReasonToolCalls FinishReason = "tool-calls"
)

// Upgrade applies a provider stop signal to an existing finish reason.
// tool-calls is a one-way upgrade: once any tool call completes during a turn,
// a later end_turn mapping must not downgrade the reason back to stop.
func (r FinishReason) Upgrade(next FinishReason) FinishReason {
	if r == FinishReasonToolCalls && next == FinishReasonStop {
		return r
	}
	return next
}

// Usage carries the turn's token accounting as reported by the backend's
// terminal result event.
type Usage struct {
	// InputTokens is the total billed input: base input plus cache creation
	// plus cache read tokens.
	InputTokens int `json:"input_tokens"`

	// OutputTokens as reported by the backend
	OutputTokens int `json:"output_tokens"`

	// CacheCreationInputTokens is the cache-write component of InputTokens
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`

	// CacheReadInputTokens is the cache-read component of InputTokens
	CacheReadInputTokens int `json:"cache_read_input_tokens,omitempty"`
}

// StreamPart is a single event in the uniform output protocol.
//
// Field usage by part type:
//   - text-start/end, reasoning-start/end: ID
//   - text-delta, reasoning-delta: ID, Delta
//   - tool-input-start: ID, ToolName
//   - tool-input-delta: ID, Delta (a slice of the argument JSON)
//   - tool-input-end: ID
//   - tool-call: ID, ToolName, Arguments
//   - finish: FinishReason, Usage
//   - error: Err
type StreamPart struct {
	Type PartType `json:"type"`

	// ID identifies the block (text/reasoning, keyed by provider block index)
	// or the tool call this part belongs to.
	ID string `json:"id,omitempty"`

	// Delta is incremental text or argument-JSON content
	Delta string `json:"delta,omitempty"`

	// ToolName names the invoked tool (tool-input-start, tool-call)
	ToolName string `json:"tool_name,omitempty"`

	// Arguments is the decoded argument object (tool-call)
	Arguments map[string]any `json:"arguments,omitempty"`

	// FinishReason is set on finish parts
	FinishReason FinishReason `json:"finish_reason,omitempty"`

	// Usage is set on finish parts
	Usage *Usage `json:"usage,omitempty"`

	// Err is set on error parts and terminates the stream
	Err error `json:"-"`
}
