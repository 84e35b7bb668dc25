package textcall

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Streaming parser events. This is the sole output vocabulary of StreamParser;
// the provider adapter translates these into uniform StreamParts.
type EventType string

const (
	EventTextStart EventType = "text_start"
	EventTextDelta EventType = "text_delta"
	EventTextEnd   EventType = "text_end"

	EventToolInputStart   EventType = "tool_input_start"
	EventToolInputDelta   EventType = "tool_input_delta"
	EventToolInputEnd     EventType = "tool_input_end"
	EventToolCallComplete EventType = "tool_call_complete"
)

// Event is one structured event recovered from the embedded grammar.
//
// For any tool call id, events occur strictly in the order
// start -> deltas -> end -> complete, and tool calls never interleave: the
// grammar allows only one open tool block at a time. Text events bracket each
// contiguous <text> run the same way, except that Flush may close a run
// without a terminating tag.
type Event struct {
	Type EventType

	// Delta carries incremental content (text_delta, tool_input_delta)
	Delta string

	// ToolCallID identifies the invocation (tool_input_*, tool_call_complete)
	ToolCallID string

	// ToolName names the tool (tool_input_start, tool_call_complete)
	ToolName string

	// Arguments is the decoded argument object (tool_call_complete)
	Arguments map[string]any
}

// Parser phases. phaseToolName through phaseToolClose are the sub-grammar of
// one <tool_use> block, consumed strictly in order.
type parserPhase int

const (
	phaseIdle parserPhase = iota
	phaseText
	phaseToolName
	phaseToolCallID
	phaseArgsOpen
	phaseArgsBody
	phaseToolClose
)

func (p parserPhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseText:
		return "text"
	case phaseToolName:
		return "tool_name"
	case phaseToolCallID:
		return "tool_call_id"
	case phaseArgsOpen:
		return "arguments_open"
	case phaseArgsBody:
		return "arguments_body"
	case phaseToolClose:
		return "tool_use_close"
	}
	return "unknown"
}

// Holdback windows. A closing tag may arrive split across chunks, so content
// within the window at the end of the buffer is never emitted until the next
// chunk proves it is not part of a closing tag. Each window exceeds the length
// of the closing tag it guards (</text> is 7 bytes, </arguments> is 12).
const (
	textHoldback = 10
	argsHoldback = 15
)

var streamLog = logrus.WithField("component", "stream-parser")

// StreamParser incrementally recovers structured events from model output
// that embeds tool calls in the text-call grammar.
//
// One instance serves exactly one model turn: feed chunks as they arrive with
// ProcessChunk, call Flush once at end of stream, then discard the instance.
// The parser exclusively owns its buffer and state; it is not safe for
// concurrent use and never needs to be, since chunks arrive sequentially from
// one stream.
type StreamParser struct {
	phase parserPhase
	buf   string

	// Current tool block, valid from phaseToolName through phaseToolClose
	toolName   string
	toolCallID string
	args       strings.Builder
}

// NewStreamParser creates a parser in the idle state.
func NewStreamParser() *StreamParser {
	return &StreamParser{}
}

// ProcessChunk consumes one chunk of model output and returns the events the
// added input resolved, in grammar order. Chunks may split tags, JSON, or
// UTF-8 sequences at any byte; an empty return just means more input is
// needed. The call never blocks and always terminates: every internal pass
// either consumes buffered input or stops.
func (p *StreamParser) ProcessChunk(chunk string) []Event {
	p.buf += chunk

	var events []Event
	for {
		var progressed bool
		switch p.phase {
		case phaseIdle:
			progressed = p.scanIdle(&events)
		case phaseText:
			progressed = p.scanText(&events)
		case phaseToolName:
			progressed = p.scanToolName()
		case phaseToolCallID:
			progressed = p.scanToolCallID(&events)
		case phaseArgsOpen:
			progressed = p.scanArgsOpen()
		case phaseArgsBody:
			progressed = p.scanArgsBody(&events)
		case phaseToolClose:
			progressed = p.scanToolClose(&events)
		}
		if !progressed {
			return events
		}
	}
}

// Flush drains trailing state at end of stream. An open text run is closed
// with a final delta (if any content is buffered) and a text_end. A tool
// block cut off mid-stream is dropped without a tool_call_complete; the loss
// is logged, not surfaced. After Flush the parser is idle with an empty
// buffer; flushing an idle parser emits nothing, but a flushed instance must
// not be reused for a new turn.
func (p *StreamParser) Flush() []Event {
	var events []Event

	switch p.phase {
	case phaseIdle:
		// Nothing buffered that the grammar recognizes.
	case phaseText:
		if p.buf != "" {
			events = append(events, Event{Type: EventTextDelta, Delta: p.buf})
		}
		events = append(events, Event{Type: EventTextEnd})
	default:
		streamLog.WithFields(logrus.Fields{
			"phase":        p.phase.String(),
			"tool":         p.toolName,
			"tool_call_id": p.toolCallID,
		}).Warn("discarding tool call truncated at end of stream")
	}

	p.phase = phaseIdle
	p.buf = ""
	p.toolName = ""
	p.toolCallID = ""
	p.args.Reset()
	return events
}

// scanIdle looks for the next block opening. Non-tag noise before a
// recognized opening is discarded.
func (p *StreamParser) scanIdle(events *[]Event) bool {
	textIdx := strings.Index(p.buf, tagTextOpen)
	toolIdx := strings.Index(p.buf, tagToolUseOpen)

	if textIdx >= 0 && (toolIdx < 0 || textIdx < toolIdx) {
		p.buf = p.buf[textIdx+len(tagTextOpen):]
		p.phase = phaseText
		*events = append(*events, Event{Type: EventTextStart})
		return true
	}
	if toolIdx >= 0 {
		p.buf = p.buf[toolIdx+len(tagToolUseOpen):]
		p.phase = phaseToolName
		return true
	}

	// No opening yet. Drop everything except a trailing fragment that could
	// still become one of the opening tags.
	p.buf = p.buf[possibleTagStart(p.buf, tagTextOpen, tagToolUseOpen):]
	return false
}

// scanText emits narrative content up to the closing tag, withholding the
// trailing window so a split </text> is never emitted as content.
func (p *StreamParser) scanText(events *[]Event) bool {
	if closeIdx := strings.Index(p.buf, tagTextClose); closeIdx >= 0 {
		if closeIdx > 0 {
			*events = append(*events, Event{Type: EventTextDelta, Delta: p.buf[:closeIdx]})
		}
		*events = append(*events, Event{Type: EventTextEnd})
		p.buf = p.buf[closeIdx+len(tagTextClose):]
		p.phase = phaseIdle
		return true
	}

	if len(p.buf) > textHoldback {
		safe := len(p.buf) - textHoldback
		*events = append(*events, Event{Type: EventTextDelta, Delta: p.buf[:safe]})
		p.buf = p.buf[safe:]
	}
	return false
}

// scanToolName consumes <tool_name>...</tool_name>.
func (p *StreamParser) scanToolName() bool {
	name, rest, ok := takeTagged(p.buf, tagToolNameOpen, tagToolNameClose)
	if !ok {
		return false
	}
	p.toolName = strings.TrimSpace(name)
	p.buf = rest
	p.phase = phaseToolCallID
	return true
}

// scanToolCallID consumes <tool_call_id>...</tool_call_id>. The tool_input
// run starts the instant both name and id are known.
func (p *StreamParser) scanToolCallID(events *[]Event) bool {
	id, rest, ok := takeTagged(p.buf, tagToolCallIDOpen, tagToolCallIDClose)
	if !ok {
		return false
	}
	p.toolCallID = strings.TrimSpace(id)
	p.buf = rest
	p.phase = phaseArgsOpen
	*events = append(*events, Event{
		Type:       EventToolInputStart,
		ToolCallID: p.toolCallID,
		ToolName:   p.toolName,
	})
	return true
}

// scanArgsOpen consumes the <arguments> opening tag.
func (p *StreamParser) scanArgsOpen() bool {
	openIdx := strings.Index(p.buf, tagArgumentsOpen)
	if openIdx < 0 {
		return false
	}
	p.buf = p.buf[openIdx+len(tagArgumentsOpen):]
	p.phase = phaseArgsBody
	return true
}

// scanArgsBody streams the argument JSON, withholding the trailing window so
// a split </arguments> is never emitted as argument content.
func (p *StreamParser) scanArgsBody(events *[]Event) bool {
	if closeIdx := strings.Index(p.buf, tagArgumentsClose); closeIdx >= 0 {
		if closeIdx > 0 {
			p.emitArgsDelta(events, p.buf[:closeIdx])
		}
		*events = append(*events, Event{Type: EventToolInputEnd, ToolCallID: p.toolCallID})
		p.buf = p.buf[closeIdx+len(tagArgumentsClose):]
		p.phase = phaseToolClose
		return true
	}

	if len(p.buf) > argsHoldback {
		safe := len(p.buf) - argsHoldback
		p.emitArgsDelta(events, p.buf[:safe])
		p.buf = p.buf[safe:]
	}
	return false
}

// scanToolClose consumes </tool_use>, decodes the accumulated argument text,
// and completes the call.
func (p *StreamParser) scanToolClose(events *[]Event) bool {
	closeIdx := strings.Index(p.buf, tagToolUseClose)
	if closeIdx < 0 {
		return false
	}
	p.buf = p.buf[closeIdx+len(tagToolUseClose):]

	args, err := DecodeToolArguments(p.args.String())
	if err != nil {
		// Lenient by design: a malformed argument body completes the call
		// with an empty object so the stream keeps flowing.
		streamLog.WithFields(logrus.Fields{
			"tool":         p.toolName,
			"tool_call_id": p.toolCallID,
		}).WithError(err).Warn("tool call arguments failed to parse, substituting empty object")
		args = map[string]any{}
	}

	*events = append(*events, Event{
		Type:       EventToolCallComplete,
		ToolCallID: p.toolCallID,
		ToolName:   p.toolName,
		Arguments:  args,
	})

	p.toolName = ""
	p.toolCallID = ""
	p.args.Reset()
	p.phase = phaseIdle
	return true
}

func (p *StreamParser) emitArgsDelta(events *[]Event, delta string) {
	p.args.WriteString(delta)
	*events = append(*events, Event{
		Type:       EventToolInputDelta,
		ToolCallID: p.toolCallID,
		Delta:      delta,
	})
}

// takeTagged extracts the content of the first open...close pair and returns
// the remainder after the closing tag. Content before the opening tag (the
// grammar's inter-field whitespace) is skipped.
func takeTagged(s, open, close string) (content, rest string, ok bool) {
	openIdx := strings.Index(s, open)
	if openIdx < 0 {
		return "", "", false
	}
	after := s[openIdx+len(open):]
	closeIdx := strings.Index(after, close)
	if closeIdx < 0 {
		return "", "", false
	}
	return after[:closeIdx], after[closeIdx+len(close):], true
}

// possibleTagStart returns the index of the earliest trailing position from
// which the buffer could still grow into one of the given tags. Everything
// before it is noise and safe to discard.
func possibleTagStart(s string, tags ...string) int {
	longest := 0
	for _, tag := range tags {
		if len(tag) > longest {
			longest = len(tag)
		}
	}
	start := len(s) - longest + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(s); i++ {
		if s[i] != '<' {
			continue
		}
		for _, tag := range tags {
			if strings.HasPrefix(tag, s[i:]) {
				return i
			}
		}
	}
	return len(s)
}
