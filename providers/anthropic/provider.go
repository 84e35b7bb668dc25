package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	textcall "github.com/veskin/textcall-llm-go"
)

// ProviderName is the registry key for this provider.
const ProviderName = "anthropic"

// Provider implements textcall.Provider over the Anthropic API.
//
// Tool-calling protocol is chosen per model from the capability registry:
// models with native tool support get structured tools on the request; all
// others get the ToolPrompt fragment appended to the system prompt and their
// output parsed for embedded tool calls.
type Provider struct {
	client *anthropic.Client
	caps   *textcall.CapabilityRegistry
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, textcall.ErrInvalidAPIKey
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Provider{
		client: &client,
		caps:   textcall.GetCapabilityRegistry(),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-".
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// usesTextProtocol reports whether this request's tools must go through the
// embedded text protocol instead of native function calling.
func (p *Provider) usesTextProtocol(req *textcall.GenerateRequest) bool {
	return req.HasTools() && !p.caps.SupportsNativeTools(ProviderName, req.Model)
}

// GenerateResponse generates a complete response (blocking).
func (p *Provider) GenerateResponse(ctx context.Context, req *textcall.GenerateRequest) (*textcall.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &textcall.ModelError{
			Model:    req.Model,
			Provider: ProviderName,
			Reason:   "model not supported by Anthropic (must start with 'claude-')",
			Err:      textcall.ErrInvalidModel,
		}
	}
	if err := textcall.ValidateRequestParams(req.Params); err != nil {
		return nil, err
	}

	textProtocol := p.usesTextProtocol(req)
	apiParams, err := buildMessageParams(req, textProtocol)
	if err != nil {
		return nil, err
	}

	message, err := p.client.Messages.New(ctx, apiParams)
	if err != nil {
		return nil, &textcall.ProviderError{
			Provider: ProviderName,
			Message:  err.Error(),
			Err:      textcall.ErrProviderUnavailable,
		}
	}

	return convertMessage(message, textProtocol), nil
}

// StreamResponse generates a streaming response. Backend events are
// normalized through the stream adapter into uniform StreamParts.
func (p *Provider) StreamResponse(ctx context.Context, req *textcall.GenerateRequest) (<-chan textcall.StreamPart, error) {
	if !p.SupportsModel(req.Model) {
		return nil, &textcall.ModelError{
			Model:    req.Model,
			Provider: ProviderName,
			Reason:   "model not supported by Anthropic (must start with 'claude-')",
			Err:      textcall.ErrInvalidModel,
		}
	}
	if err := textcall.ValidateRequestParams(req.Params); err != nil {
		return nil, err
	}

	textProtocol := p.usesTextProtocol(req)
	apiParams, err := buildMessageParams(req, textProtocol)
	if err != nil {
		return nil, err
	}

	parts := make(chan textcall.StreamPart, 10) // Buffered to prevent blocking

	go func() {
		defer close(parts)

		send := func(part textcall.StreamPart) {
			select {
			case <-ctx.Done():
			case parts <- part:
			}
		}
		adapter := newStreamAdapter(textProtocol, send)

		stream := p.client.Messages.NewStreaming(ctx, apiParams)

		// Accumulator for the terminal usage accounting
		message := anthropic.Message{}

		for stream.Next() {
			event := stream.Current()
			if err := message.Accumulate(event); err != nil {
				send(textcall.StreamPart{
					Type: textcall.PartError,
					Err:  fmt.Errorf("accumulate message: %w", err),
				})
				return
			}

			for _, backendEvent := range fromSDKEvent(event) {
				if err := adapter.HandleEvent(backendEvent); err != nil {
					send(textcall.StreamPart{Type: textcall.PartError, Err: err})
					return
				}
			}

			if ctx.Err() != nil {
				send(textcall.StreamPart{Type: textcall.PartError, Err: ctx.Err()})
				return
			}
		}

		if err := stream.Err(); err != nil {
			send(textcall.StreamPart{
				Type: textcall.PartError,
				Err: &textcall.ProviderError{
					Provider: ProviderName,
					Message:  err.Error(),
					Err:      textcall.ErrProviderUnavailable,
				},
			})
			return
		}

		// The SDK has no discrete result event; synthesize it from the
		// accumulated message so the adapter sees the same terminal shape a
		// result-reporting backend would send.
		if err := adapter.HandleEvent(ResultEvent{
			Subtype:                  ResultSuccess,
			InputTokens:              int(message.Usage.InputTokens),
			CacheCreationInputTokens: int(message.Usage.CacheCreationInputTokens),
			CacheReadInputTokens:     int(message.Usage.CacheReadInputTokens),
			OutputTokens:             int(message.Usage.OutputTokens),
		}); err != nil {
			send(textcall.StreamPart{Type: textcall.PartError, Err: err})
			return
		}

		adapter.Finish()
	}()

	return parts, nil
}

// fromSDKEvent converts one SDK stream event into backend events. Unknown
// event kinds yield nothing (forward-compatible pass-through).
func fromSDKEvent(event anthropic.MessageStreamEventUnion) []BackendEvent {
	switch e := event.AsAny().(type) {
	case anthropic.MessageStartEvent:
		return nil // Usage comes from the accumulated message at the end

	case anthropic.ContentBlockStartEvent:
		start := BlockStartEvent{
			Index:     int(e.Index),
			BlockType: string(e.ContentBlock.Type),
		}
		if start.BlockType == "tool_use" {
			start.ToolCallID = e.ContentBlock.ID
			start.ToolName = e.ContentBlock.Name
		}
		return []BackendEvent{start}

	case anthropic.ContentBlockDeltaEvent:
		switch e.Delta.Type {
		case "text_delta":
			return []BackendEvent{TextDeltaEvent{Index: int(e.Index), Text: e.Delta.Text}}
		case "thinking_delta":
			return []BackendEvent{ThinkingDeltaEvent{Index: int(e.Index), Text: e.Delta.Thinking}}
		case "input_json_delta":
			return []BackendEvent{InputJSONDeltaEvent{Index: int(e.Index), PartialJSON: e.Delta.PartialJSON}}
		default:
			// signature_delta and future delta kinds carry nothing downstream
			return nil
		}

	case anthropic.ContentBlockStopEvent:
		return []BackendEvent{BlockStopEvent{Index: int(e.Index)}}

	case anthropic.MessageDeltaEvent:
		if e.Delta.StopReason != "" {
			return []BackendEvent{StopReasonEvent{StopReason: string(e.Delta.StopReason)}}
		}
		return nil

	case anthropic.MessageStopEvent:
		return nil

	default:
		return nil
	}
}

// convertMessage converts a complete API response into library form. For the
// text protocol, narrative output is re-parsed for embedded tool calls.
func convertMessage(msg *anthropic.Message, textProtocol bool) *textcall.GenerateResponse {
	resp := &textcall.GenerateResponse{
		Model: string(msg.Model),
		Usage: textcall.Usage{
			InputTokens: int(msg.Usage.InputTokens) +
				int(msg.Usage.CacheCreationInputTokens) +
				int(msg.Usage.CacheReadInputTokens),
			OutputTokens:             int(msg.Usage.OutputTokens),
			CacheCreationInputTokens: int(msg.Usage.CacheCreationInputTokens),
			CacheReadInputTokens:     int(msg.Usage.CacheReadInputTokens),
		},
		FinishReason: mapStopReason(string(msg.StopReason)),
	}

	for _, content := range msg.Content {
		switch content.Type {
		case "text":
			if textProtocol {
				resp.Blocks = append(resp.Blocks, textcall.ParseContentBlocks(content.Text)...)
			} else {
				resp.Blocks = append(resp.Blocks, textcall.TextBlock(content.Text))
			}

		case "thinking":
			resp.Blocks = append(resp.Blocks, &textcall.ContentBlock{
				BlockType: textcall.BlockTypeThinking,
				Text:      content.Thinking,
			})

		case "tool_use":
			args, err := textcall.DecodeToolArguments(string(content.Input))
			if err != nil {
				adapterLog.WithField("tool", content.Name).WithError(err).
					Warn("native tool arguments failed to parse, substituting empty object")
				args = map[string]any{}
			}
			resp.Blocks = append(resp.Blocks, textcall.ToolUseBlock(content.ID, content.Name, args))
		}
	}

	// A parsed-out embedded tool call upgrades the finish reason the same way
	// a native tool_use stop reason would.
	for _, b := range resp.Blocks {
		if b.IsToolUse() {
			resp.FinishReason = textcall.FinishReasonToolCalls
			break
		}
	}
	return resp
}
