package textcall

import (
	"fmt"
	"sync"
)

// ProviderRegistry tracks registered providers by name.
type ProviderRegistry struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

var (
	globalProviderRegistry     *ProviderRegistry
	globalProviderRegistryOnce sync.Once
)

// GetProviderRegistry returns the global provider registry (singleton).
func GetProviderRegistry() *ProviderRegistry {
	globalProviderRegistryOnce.Do(func() {
		globalProviderRegistry = &ProviderRegistry{
			providers: make(map[string]Provider),
		}
	})
	return globalProviderRegistry
}

// Register adds a provider under its Name().
func (r *ProviderRegistry) Register(p Provider) error {
	if p == nil || p.Name() == "" {
		return fmt.Errorf("provider with a non-empty name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[p.Name()]; exists {
		return fmt.Errorf("provider %s is already registered", p.Name())
	}
	r.providers[p.Name()] = p
	return nil
}

// Get retrieves a provider by name.
func (r *ProviderRegistry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return p, nil
}

// ForModel returns the first registered provider that supports the model.
func (r *ProviderRegistry) ForModel(model string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.SupportsModel(model) {
			return p, nil
		}
	}
	return nil, &ModelError{Model: model, Reason: "no registered provider supports this model", Err: ErrInvalidModel}
}
