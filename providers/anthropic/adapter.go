package anthropic

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	textcall "github.com/veskin/textcall-llm-go"
)

var adapterLog = logrus.WithFields(logrus.Fields{
	"component": "stream-adapter",
	"provider":  "anthropic",
})

// nativeCall accumulates one native tool_use block while its argument JSON
// streams in.
type nativeCall struct {
	id   string
	name string
	args strings.Builder
}

// streamAdapter normalizes backend events into the uniform StreamPart
// protocol for one request/response cycle.
//
// When the request declared tools and the model speaks the text protocol, the
// adapter owns a StreamParser for the cycle and routes narrative text through
// it; thinking content and native tool_use blocks never touch the parser.
// One instance serves exactly one turn, single-threaded, push-driven.
type streamAdapter struct {
	emit func(textcall.StreamPart)

	parser      *textcall.StreamParser // nil unless the text protocol is active
	parserSpent bool                   // parser flushed; a new text block needs a fresh one
	textRuns    int                    // counter for parser-produced text run ids

	finish textcall.FinishReason
	usage  textcall.Usage

	blockTypes  map[int]string // open provider blocks by index
	nativeCalls map[int]*nativeCall
}

// newStreamAdapter creates an adapter for one turn. textProtocol selects
// whether narrative text is parsed for embedded tool calls.
func newStreamAdapter(textProtocol bool, emit func(textcall.StreamPart)) *streamAdapter {
	a := &streamAdapter{
		emit:        emit,
		finish:      textcall.FinishReasonStop,
		blockTypes:  make(map[int]string),
		nativeCalls: make(map[int]*nativeCall),
	}
	if textProtocol {
		a.parser = textcall.NewStreamParser()
	}
	return a
}

// HandleEvent processes one backend event. A non-nil return is fatal and
// aborts the stream (no finish part follows).
func (a *streamAdapter) HandleEvent(ev BackendEvent) error {
	switch e := ev.(type) {
	case BlockStartEvent:
		a.handleBlockStart(e)

	case TextDeltaEvent:
		if a.parser != nil {
			a.forwardParserEvents(a.parser.ProcessChunk(e.Text))
		} else {
			a.emit(textcall.StreamPart{
				Type:  textcall.PartTextDelta,
				ID:    blockID(e.Index),
				Delta: e.Text,
			})
		}

	case ThinkingDeltaEvent:
		// Reasoning content cannot itself contain tool calls; it bypasses the
		// parser unconditionally.
		a.emit(textcall.StreamPart{
			Type:  textcall.PartReasoningDelta,
			ID:    blockID(e.Index),
			Delta: e.Text,
		})

	case InputJSONDeltaEvent:
		if nc, ok := a.nativeCalls[e.Index]; ok {
			nc.args.WriteString(e.PartialJSON)
			a.emit(textcall.StreamPart{
				Type:  textcall.PartToolInputDelta,
				ID:    nc.id,
				Delta: e.PartialJSON,
			})
		}

	case BlockStopEvent:
		a.handleBlockStop(e)

	case StopReasonEvent:
		a.finish = a.finish.Upgrade(mapStopReason(e.StopReason))

	case ResultEvent:
		if turnErr := textcall.NewTurnError(e.Subtype); turnErr != nil {
			return turnErr
		}
		a.usage = textcall.Usage{
			InputTokens:              e.InputTokens + e.CacheCreationInputTokens + e.CacheReadInputTokens,
			OutputTokens:             e.OutputTokens,
			CacheCreationInputTokens: e.CacheCreationInputTokens,
			CacheReadInputTokens:     e.CacheReadInputTokens,
		}
	}
	return nil
}

// Finish flushes any residual parser state and emits the single finish part.
// Call exactly once, after the last backend event of a successful turn.
func (a *streamAdapter) Finish() {
	if a.parser != nil && !a.parserSpent {
		a.forwardParserEvents(a.parser.Flush())
		a.parserSpent = true
	}

	usage := a.usage
	a.emit(textcall.StreamPart{
		Type:         textcall.PartFinish,
		FinishReason: a.finish,
		Usage:        &usage,
	})
}

func (a *streamAdapter) handleBlockStart(e BlockStartEvent) {
	a.blockTypes[e.Index] = e.BlockType

	switch e.BlockType {
	case "thinking":
		a.emit(textcall.StreamPart{Type: textcall.PartReasoningStart, ID: blockID(e.Index)})

	case "text":
		if a.parser == nil {
			a.emit(textcall.StreamPart{Type: textcall.PartTextStart, ID: blockID(e.Index)})
		} else if a.parserSpent {
			// A parser is per text run; a flushed one must not be reused.
			a.parser = textcall.NewStreamParser()
			a.parserSpent = false
		}

	case "tool_use":
		a.nativeCalls[e.Index] = &nativeCall{id: e.ToolCallID, name: e.ToolName}
		a.emit(textcall.StreamPart{
			Type:     textcall.PartToolInputStart,
			ID:       e.ToolCallID,
			ToolName: e.ToolName,
		})

	default:
		// Unrecognized block kinds pass through silently (forward compatible).
		adapterLog.WithField("block_type", e.BlockType).Debug("ignoring unknown block type")
	}
}

func (a *streamAdapter) handleBlockStop(e BlockStopEvent) {
	blockType := a.blockTypes[e.Index]
	delete(a.blockTypes, e.Index)

	switch blockType {
	case "thinking":
		a.emit(textcall.StreamPart{Type: textcall.PartReasoningEnd, ID: blockID(e.Index)})

	case "text":
		if a.parser != nil {
			// Residual buffered text must not be lost when the block closes.
			a.forwardParserEvents(a.parser.Flush())
			a.parserSpent = true
		} else {
			a.emit(textcall.StreamPart{Type: textcall.PartTextEnd, ID: blockID(e.Index)})
		}

	case "tool_use":
		nc := a.nativeCalls[e.Index]
		delete(a.nativeCalls, e.Index)
		if nc == nil {
			return
		}
		a.emit(textcall.StreamPart{Type: textcall.PartToolInputEnd, ID: nc.id})

		args, err := textcall.DecodeToolArguments(nc.args.String())
		if err != nil {
			adapterLog.WithFields(logrus.Fields{
				"tool":         nc.name,
				"tool_call_id": nc.id,
			}).WithError(err).Warn("native tool arguments failed to parse, substituting empty object")
			args = map[string]any{}
		}
		a.emit(textcall.StreamPart{
			Type:      textcall.PartToolCall,
			ID:        nc.id,
			ToolName:  nc.name,
			Arguments: args,
		})
		a.finish = textcall.FinishReasonToolCalls
	}
}

// forwardParserEvents translates streaming parser events into uniform parts.
func (a *streamAdapter) forwardParserEvents(events []textcall.Event) {
	for _, ev := range events {
		switch ev.Type {
		case textcall.EventTextStart:
			a.textRuns++
			a.emit(textcall.StreamPart{Type: textcall.PartTextStart, ID: a.textRunID()})
		case textcall.EventTextDelta:
			a.emit(textcall.StreamPart{Type: textcall.PartTextDelta, ID: a.textRunID(), Delta: ev.Delta})
		case textcall.EventTextEnd:
			a.emit(textcall.StreamPart{Type: textcall.PartTextEnd, ID: a.textRunID()})
		case textcall.EventToolInputStart:
			a.emit(textcall.StreamPart{
				Type:     textcall.PartToolInputStart,
				ID:       ev.ToolCallID,
				ToolName: ev.ToolName,
			})
		case textcall.EventToolInputDelta:
			a.emit(textcall.StreamPart{Type: textcall.PartToolInputDelta, ID: ev.ToolCallID, Delta: ev.Delta})
		case textcall.EventToolInputEnd:
			a.emit(textcall.StreamPart{Type: textcall.PartToolInputEnd, ID: ev.ToolCallID})
		case textcall.EventToolCallComplete:
			a.emit(textcall.StreamPart{
				Type:      textcall.PartToolCall,
				ID:        ev.ToolCallID,
				ToolName:  ev.ToolName,
				Arguments: ev.Arguments,
			})
			a.finish = textcall.FinishReasonToolCalls
		}
	}
}

func (a *streamAdapter) textRunID() string {
	return "text-" + strconv.Itoa(a.textRuns-1)
}

func blockID(index int) string {
	return strconv.Itoa(index)
}

// mapStopReason maps backend stop reasons onto finish reasons.
func mapStopReason(reason string) textcall.FinishReason {
	switch reason {
	case "max_tokens":
		return textcall.FinishReasonLength
	case "tool_use":
		return textcall.FinishReasonToolCalls
	default:
		// end_turn, stop_sequence, and anything unrecognized
		return textcall.FinishReasonStop
	}
}
