package textcall

import (
	"context"
)

// Provider defines the interface that all LLM providers must implement.
// Every provider normalizes its backend's stream into the uniform StreamPart
// protocol, whether the backend speaks native tool calling or the embedded
// text protocol.
type Provider interface {
	// GenerateResponse generates a complete response (blocking).
	// Used for non-streaming scenarios or as fallback.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// StreamResponse generates a streaming response (non-blocking).
	// Returns a channel emitting StreamParts as they arrive; the channel is
	// closed after the finish part, or after an error part on fatal errors.
	//
	// Usage:
	//   parts, err := provider.StreamResponse(ctx, req)
	//   if err != nil { return err }
	//   for part := range parts {
	//     switch part.Type { ... }
	//   }
	StreamResponse(ctx context.Context, req *GenerateRequest) (<-chan StreamPart, error)

	// Name returns the provider name (e.g., "anthropic", "sim")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}
