package textcall

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var capLog = logrus.WithField("component", "capabilities")

//go:embed config/capabilities/anthropic.yaml
var anthropicCapabilitiesYAML []byte

// Capabilities describe MODEL METADATA used to pick the tool-calling protocol
// for a request. They are informational, not enforced: provider APIs stay the
// source of truth, and an unknown model simply falls back to the embedded text
// protocol (the backend this library is built around).
//
// Library users can override the embedded table by calling
// LoadCapabilitiesFromFile with custom YAML or RegisterProviderCapabilities
// programmatically.

// ProviderCapabilities represents the capability configuration for a provider.
type ProviderCapabilities struct {
	Version     string                     `yaml:"version"`      // Semantic version (e.g., "1.0.0")
	LastUpdated string                     `yaml:"last_updated"` // ISO 8601 date
	Provider    string                     `yaml:"provider"`
	Models      map[string]ModelCapability `yaml:"models"`
}

// ModelCapability represents the capabilities of a specific model.
type ModelCapability struct {
	ContextWindow   int  `yaml:"context_window"`
	MaxOutputTokens int  `yaml:"max_output_tokens"`
	NativeTools     bool `yaml:"native_tools"` // Structured function calling available
	Thinking        bool `yaml:"thinking"`     // Extended thinking available
	Streaming       bool `yaml:"streaming"`
}

// CapabilityRegistry manages provider capabilities.
type CapabilityRegistry struct {
	capabilities map[string]*ProviderCapabilities
	mu           sync.RWMutex
}

var (
	globalCapRegistry     *CapabilityRegistry
	globalCapRegistryOnce sync.Once
)

// GetCapabilityRegistry returns the global capability registry (singleton).
func GetCapabilityRegistry() *CapabilityRegistry {
	globalCapRegistryOnce.Do(func() {
		globalCapRegistry = &CapabilityRegistry{
			capabilities: make(map[string]*ProviderCapabilities),
		}
		if err := globalCapRegistry.loadEmbedded("anthropic", anthropicCapabilitiesYAML); err != nil {
			// Missing capabilities only disable the native-tools fast path.
			capLog.WithError(err).Warn("failed to load embedded anthropic capabilities")
		}
	})
	return globalCapRegistry
}

func (r *CapabilityRegistry) loadEmbedded(provider string, raw []byte) error {
	var caps ProviderCapabilities
	if err := yaml.Unmarshal(raw, &caps); err != nil {
		return fmt.Errorf("unmarshal %s capabilities: %w", provider, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[provider] = &caps
	return nil
}

// GetProviderCapabilities returns capabilities for a provider.
func (r *CapabilityRegistry) GetProviderCapabilities(provider string) (*ProviderCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.capabilities[provider]
	if !ok {
		return nil, fmt.Errorf("no capabilities found for provider: %s", provider)
	}
	return caps, nil
}

// GetModelCapability returns capabilities for a specific model.
func (r *CapabilityRegistry) GetModelCapability(provider, model string) (*ModelCapability, error) {
	providerCaps, err := r.GetProviderCapabilities(provider)
	if err != nil {
		return nil, err
	}

	modelCap, ok := providerCaps.Models[model]
	if !ok {
		return nil, fmt.Errorf("model %s not found for provider %s", model, provider)
	}
	return &modelCap, nil
}

// SupportsNativeTools reports whether a model accepts the structured
// function-calling protocol. Unknown models report false, which routes their
// tools through the embedded text protocol.
func (r *CapabilityRegistry) SupportsNativeTools(provider, model string) bool {
	modelCap, err := r.GetModelCapability(provider, model)
	if err != nil {
		return false
	}
	return modelCap.NativeTools
}

// SupportsThinking reports whether a model supports extended thinking.
func (r *CapabilityRegistry) SupportsThinking(provider, model string) bool {
	modelCap, err := r.GetModelCapability(provider, model)
	if err != nil {
		return false
	}
	return modelCap.Thinking
}

// LoadCapabilitiesFromFile loads provider capabilities from a YAML file,
// replacing any table registered for the same provider.
func (r *CapabilityRegistry) LoadCapabilitiesFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read capabilities file: %w", err)
	}

	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("unmarshal capabilities: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[caps.Provider] = &caps
	return nil
}

// RegisterProviderCapabilities programmatically registers provider capabilities.
func (r *CapabilityRegistry) RegisterProviderCapabilities(provider string, caps *ProviderCapabilities) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[provider] = caps
}

// LoadCapabilitiesFromFile is a convenience wrapper over the global registry.
func LoadCapabilitiesFromFile(path string) error {
	return GetCapabilityRegistry().LoadCapabilitiesFromFile(path)
}
