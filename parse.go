package textcall

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var parseLog = logrus.WithField("component", "content-parser")

// ParseContentBlocks parses a complete response string into an ordered list of
// typed blocks. Used when the full response is available at once; the
// streaming path is StreamParser.
//
// The input is scanned left to right for <text>...</text> spans and complete
// <tool_use> blocks; unmatched regions between recognized blocks are
// discarded, matching the grammar's whitespace-between-blocks convention.
//
// Fallbacks:
//   - If the whole input contains no recognized block but is non-empty, the
//     trimmed input is returned as a single text block. Some models
//     occasionally omit the wrapping tags.
//   - A tool block whose argument JSON does not parse is skipped (logged, not
//     fatal); the surrounding blocks are unaffected.
func ParseContentBlocks(input string) []*ContentBlock {
	var blocks []*ContentBlock
	rest := input

	for {
		textIdx := strings.Index(rest, tagTextOpen)
		toolIdx := strings.Index(rest, tagToolUseOpen)
		if textIdx < 0 && toolIdx < 0 {
			break
		}

		if textIdx >= 0 && (toolIdx < 0 || textIdx < toolIdx) {
			after := rest[textIdx+len(tagTextOpen):]
			closeIdx := strings.Index(after, tagTextClose)
			if closeIdx < 0 {
				// Unterminated text span; nothing recognizable remains.
				break
			}
			blocks = append(blocks, TextBlock(after[:closeIdx]))
			rest = after[closeIdx+len(tagTextClose):]
			continue
		}

		after := rest[toolIdx+len(tagToolUseOpen):]
		closeIdx := strings.Index(after, tagToolUseClose)
		if closeIdx < 0 {
			break
		}
		if block := parseToolUseBody(after[:closeIdx]); block != nil {
			blocks = append(blocks, block)
		}
		rest = after[closeIdx+len(tagToolUseClose):]
	}

	if len(blocks) == 0 {
		if trimmed := strings.TrimSpace(input); trimmed != "" {
			return []*ContentBlock{TextBlock(trimmed)}
		}
	}
	return blocks
}

// parseToolUseBody extracts the sub-fields of one <tool_use> body. Returns nil
// when any of the four sub-fields is missing or the argument JSON is invalid.
func parseToolUseBody(body string) *ContentBlock {
	name, ok := innerText(body, tagToolNameOpen, tagToolNameClose)
	if !ok {
		parseLog.Warn("tool_use block missing tool_name, skipping")
		return nil
	}
	id, ok := innerText(body, tagToolCallIDOpen, tagToolCallIDClose)
	if !ok {
		parseLog.WithField("tool", name).Warn("tool_use block missing tool_call_id, skipping")
		return nil
	}
	rawArgs, ok := innerText(body, tagArgumentsOpen, tagArgumentsClose)
	if !ok {
		parseLog.WithField("tool", name).Warn("tool_use block missing arguments, skipping")
		return nil
	}

	args, err := DecodeToolArguments(rawArgs)
	if err != nil {
		// Deliberate leniency: a malformed invocation is dropped rather than
		// failing the whole response.
		parseLog.WithFields(logrus.Fields{
			"tool":         name,
			"tool_call_id": id,
		}).WithError(err).Warn("skipping tool_use block with malformed arguments")
		return nil
	}

	return ToolUseBlock(strings.TrimSpace(id), strings.TrimSpace(name), args)
}

// innerText returns the content between the first occurrence of open and the
// next occurrence of close after it.
func innerText(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// DecodeToolArguments decodes a tool's argument text into a JSON object. An
// empty body decodes to an empty object. Both parsers and the provider
// adapters share this so the leniency policy stays in one place.
func DecodeToolArguments(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return map[string]any{}, nil
	}
	if !gjson.Valid(trimmed) {
		return nil, fmt.Errorf("arguments are not valid JSON")
	}
	if !gjson.Parse(trimmed).IsObject() {
		return nil, fmt.Errorf("arguments must be a JSON object")
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return args, nil
}
