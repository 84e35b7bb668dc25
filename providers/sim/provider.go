// Package sim is a mock provider that speaks the embedded text-call protocol.
// It generates lorem ipsum narrative wrapped in <text> tags and scripted
// <tool_use> invocations for the requested tools, then streams the document
// in arbitrary chunk sizes through the real streaming parser.
//
// Used for development and testing without API keys; because chunk boundaries
// are randomized, it also doubles as a continuous exercise of the parser's
// split-tag safety margins.
package sim

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"
	"github.com/google/uuid"

	textcall "github.com/veskin/textcall-llm-go"
)

// ProviderName is the registry key for this provider.
const ProviderName = "sim"

// Provider is a mock text-protocol backend.
type Provider struct {
	generator *loremgen.Lorem
	rng       *rand.Rand
}

// NewProvider creates a new sim provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// SupportsModel returns true if the model name starts with "sim-".
// Example models: "sim-fast", "sim-slow", "sim-test"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "sim-")
}

// streamDelay returns the delay between chunks based on the model name.
func streamDelay(model string) time.Duration {
	switch {
	case strings.Contains(model, "slow"):
		return 50 * time.Millisecond
	case strings.Contains(model, "fast"):
		return 0
	default:
		return 5 * time.Millisecond
	}
}

// GenerateResponse returns a complete scripted response.
func (p *Provider) GenerateResponse(ctx context.Context, req *textcall.GenerateRequest) (*textcall.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &textcall.ModelError{
			Model:    req.Model,
			Provider: ProviderName,
			Reason:   "model not supported by sim provider (must start with 'sim-')",
			Err:      textcall.ErrInvalidModel,
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	document := p.composeDocument(req)
	blocks := textcall.ParseContentBlocks(document)

	resp := &textcall.GenerateResponse{
		Blocks:       blocks,
		Model:        req.Model,
		FinishReason: textcall.FinishReasonStop,
		Usage: textcall.Usage{
			InputTokens:  estimateTokens(req.Messages),
			OutputTokens: len(document) / 4,
		},
	}
	if len(resp.ToolCalls()) > 0 {
		resp.FinishReason = textcall.FinishReasonToolCalls
	}
	return resp, nil
}

// StreamResponse streams the scripted document through the real streaming
// parser in randomly sized chunks.
func (p *Provider) StreamResponse(ctx context.Context, req *textcall.GenerateRequest) (<-chan textcall.StreamPart, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &textcall.ModelError{
			Model:    req.Model,
			Provider: ProviderName,
			Reason:   "model not supported by sim provider (must start with 'sim-')",
			Err:      textcall.ErrInvalidModel,
		}
	}

	document := p.composeDocument(req)
	chunks := p.chunkDocument(document)
	delay := streamDelay(req.Model)

	parts := make(chan textcall.StreamPart, 10)

	go func() {
		defer close(parts)

		send := func(part textcall.StreamPart) {
			select {
			case <-ctx.Done():
			case parts <- part:
			}
		}

		finish := textcall.FinishReasonStop
		parser := textcall.NewStreamParser()
		textRuns := 0
		runID := func() string { return "text-" + strconv.Itoa(textRuns-1) }

		forward := func(events []textcall.Event) {
			for _, ev := range events {
				switch ev.Type {
				case textcall.EventTextStart:
					textRuns++
					send(textcall.StreamPart{Type: textcall.PartTextStart, ID: runID()})
				case textcall.EventTextDelta:
					send(textcall.StreamPart{Type: textcall.PartTextDelta, ID: runID(), Delta: ev.Delta})
				case textcall.EventTextEnd:
					send(textcall.StreamPart{Type: textcall.PartTextEnd, ID: runID()})
				case textcall.EventToolInputStart:
					send(textcall.StreamPart{Type: textcall.PartToolInputStart, ID: ev.ToolCallID, ToolName: ev.ToolName})
				case textcall.EventToolInputDelta:
					send(textcall.StreamPart{Type: textcall.PartToolInputDelta, ID: ev.ToolCallID, Delta: ev.Delta})
				case textcall.EventToolInputEnd:
					send(textcall.StreamPart{Type: textcall.PartToolInputEnd, ID: ev.ToolCallID})
				case textcall.EventToolCallComplete:
					finish = textcall.FinishReasonToolCalls
					send(textcall.StreamPart{
						Type:      textcall.PartToolCall,
						ID:        ev.ToolCallID,
						ToolName:  ev.ToolName,
						Arguments: ev.Arguments,
					})
				}
			}
		}

		for _, chunk := range chunks {
			if ctx.Err() != nil {
				send(textcall.StreamPart{Type: textcall.PartError, Err: ctx.Err()})
				return
			}
			forward(parser.ProcessChunk(chunk))
			if delay > 0 {
				time.Sleep(delay)
			}
		}
		forward(parser.Flush())

		usage := textcall.Usage{
			InputTokens:  estimateTokens(req.Messages),
			OutputTokens: len(document) / 4,
		}
		send(textcall.StreamPart{
			Type:         textcall.PartFinish,
			FinishReason: finish,
			Usage:        &usage,
		})
	}()

	return parts, nil
}

// composeDocument builds the scripted model output: a narrative paragraph,
// one tool invocation per requested tool, and a closing paragraph.
func (p *Provider) composeDocument(req *textcall.GenerateRequest) string {
	var sb strings.Builder

	sb.WriteString("<text>")
	sb.WriteString(p.generator.Paragraph(2, 4))
	sb.WriteString("</text>\n")

	if tools := req.Tools(); tools != nil {
		for _, def := range tools.All() {
			sb.WriteString(textcall.FormatToolUse(
				"call_"+uuid.NewString(),
				def.Name,
				p.mockArguments(&def),
			))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("<text>")
	sb.WriteString(p.generator.Sentence(5, 12))
	sb.WriteString("</text>")
	return sb.String()
}

// mockArguments fabricates a plausible argument object covering the tool's
// required parameters.
func (p *Provider) mockArguments(def *textcall.ToolDefinition) map[string]any {
	args := make(map[string]any)
	for _, name := range def.Parameters.Required {
		args[name] = p.mockValue(def.Parameters.Properties[name])
	}
	return args
}

func (p *Provider) mockValue(propSchema any) any {
	schema, _ := propSchema.(map[string]any)
	switch schema["type"] {
	case "integer", "number":
		return 3
	case "boolean":
		return true
	case "array":
		return []any{p.generator.Word(2, 8)}
	default:
		return p.generator.Sentence(2, 5)
	}
}

// chunkDocument splits the document into randomly sized chunks (1-24 bytes)
// so tags and JSON routinely split across chunk boundaries.
func (p *Provider) chunkDocument(document string) []string {
	var chunks []string
	for len(document) > 0 {
		n := 1 + p.rng.Intn(24)
		if n > len(document) {
			n = len(document)
		}
		chunks = append(chunks, document[:n])
		document = document[n:]
	}
	return chunks
}

// estimateTokens estimates the token count for a list of messages.
// Uses word count as a rough approximation.
func estimateTokens(messages []textcall.Message) int {
	total := 0
	for _, msg := range messages {
		for _, block := range msg.Blocks {
			total += len(strings.Fields(block.Text))
		}
	}
	return total
}
