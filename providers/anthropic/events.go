package anthropic

// BackendEvent is the closed set of backend stream events the adapter
// consumes. The SDK's loosely-shaped event union is converted into these
// variants at the boundary (fromSDKEvent) so the adapter can switch
// exhaustively; an event kind missing a case is a compile-visible gap rather
// than a silently dropped message.
type BackendEvent interface {
	backendEvent()
}

// Result subtypes reported by the terminal result event.
const (
	ResultSuccess         = "success"
	ResultMaxTurns        = "error_max_turns"
	ResultExecutionFailed = "error_during_execution"
)

// BlockStartEvent opens a content block at the given index.
// BlockType is "text", "thinking", or "tool_use"; the tool fields are set
// only for native tool_use blocks.
type BlockStartEvent struct {
	Index      int
	BlockType  string
	ToolCallID string
	ToolName   string
}

// TextDeltaEvent carries incremental narrative text for a text block.
type TextDeltaEvent struct {
	Index int
	Text  string
}

// ThinkingDeltaEvent carries incremental reasoning text for a thinking block.
type ThinkingDeltaEvent struct {
	Index int
	Text  string
}

// InputJSONDeltaEvent carries an incremental slice of a native tool_use
// block's argument JSON.
type InputJSONDeltaEvent struct {
	Index       int
	PartialJSON string
}

// BlockStopEvent closes the content block at the given index.
type BlockStopEvent struct {
	Index int
}

// StopReasonEvent carries the backend's stop reason for the turn
// ("end_turn", "max_tokens", "tool_use").
type StopReasonEvent struct {
	StopReason string
}

// ResultEvent is the terminal event of a turn. It carries the authoritative
// usage accounting and a subtype; the error subtypes abort the stream.
type ResultEvent struct {
	Subtype string

	InputTokens              int
	CacheCreationInputTokens int
	CacheReadInputTokens     int
	OutputTokens             int
}

func (BlockStartEvent) backendEvent()     {}
func (TextDeltaEvent) backendEvent()      {}
func (ThinkingDeltaEvent) backendEvent()  {}
func (InputJSONDeltaEvent) backendEvent() {}
func (BlockStopEvent) backendEvent()      {}
func (StopReasonEvent) backendEvent()     {}
func (ResultEvent) backendEvent()         {}
