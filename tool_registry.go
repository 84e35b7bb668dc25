package textcall

import (
	"fmt"
	"sync"
)

// ToolRegistry manages runtime registration of reusable tool definitions.
// Applications register their tools once and build per-request ToolSets from
// the registry.
type ToolRegistry struct {
	tools map[string]ToolDefinition
	mu    sync.RWMutex
}

var (
	globalToolRegistry     *ToolRegistry
	globalToolRegistryOnce sync.Once
)

// GetToolRegistry returns the global tool registry (singleton).
func GetToolRegistry() *ToolRegistry {
	globalToolRegistryOnce.Do(func() {
		globalToolRegistry = &ToolRegistry{
			tools: make(map[string]ToolDefinition),
		}
	})
	return globalToolRegistry
}

// Register adds a tool definition to the registry.
func (r *ToolRegistry) Register(def ToolDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool %s is already registered", def.Name)
	}

	r.tools[def.Name] = def
	return nil
}

// Unregister removes a tool definition from the registry.
// This is useful for testing or replacing tool implementations.
func (r *ToolRegistry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return fmt.Errorf("tool %s is not registered", name)
	}

	delete(r.tools, name)
	return nil
}

// Get retrieves a tool definition by name.
func (r *ToolRegistry) Get(name string) (ToolDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.tools[name]
	if !exists {
		return ToolDefinition{}, fmt.Errorf("unknown tool: %s", name)
	}
	return def, nil
}

// IsRegistered checks if a tool is registered.
func (r *ToolRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.tools[name]
	return exists
}

// List returns all registered tool names.
func (r *ToolRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// BuildToolSet assembles a request ToolSet from registered tool names, in the
// order given.
func (r *ToolRegistry) BuildToolSet(names ...string) (*ToolSet, error) {
	set := NewToolSet()
	for _, name := range names {
		def, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		if err := set.Add(def); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// RegisterTool is a convenience function that registers a tool with the global registry.
func RegisterTool(def ToolDefinition) error {
	return GetToolRegistry().Register(def)
}
