package textcall

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ParameterSchema is the JSON-Schema-like description of a tool's arguments.
// Only object schemas are supported; nested property schemas are kept as raw
// maps so callers can use the full JSON Schema vocabulary inside them.
type ParameterSchema struct {
	Type       string         `json:"type"` // always "object"
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// ToolDefinition describes one callable tool. Immutable once added to a
// ToolSet; constructed per request from the caller's tool registry.
type ToolDefinition struct {
	Name        string          `json:"name"` // Unique key within a ToolSet
	Description string          `json:"description,omitempty"`
	Parameters  ParameterSchema `json:"parameters"`
}

// Validate checks that the definition is well formed.
func (d *ToolDefinition) Validate() error {
	if d.Name == "" {
		return errors.New("tool name is required")
	}
	if d.Parameters.Type != "object" {
		return fmt.Errorf("tool %s: parameters must be a JSON schema with type 'object'", d.Name)
	}
	return nil
}

// ToolSet is an insertion-ordered collection of tool definitions. Iteration
// order is the order tools were added, which keeps the serialized prompt
// fragment deterministic for a given set.
type ToolSet struct {
	names []string
	defs  map[string]ToolDefinition
}

// NewToolSet creates an empty tool set.
func NewToolSet() *ToolSet {
	return &ToolSet{defs: make(map[string]ToolDefinition)}
}

// Add registers a tool definition. Adding a duplicate name is an error; keys
// are immutable for the lifetime of the request that uses this set.
func (s *ToolSet) Add(def ToolDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, exists := s.defs[def.Name]; exists {
		return fmt.Errorf("tool %s is already in the set", def.Name)
	}
	s.names = append(s.names, def.Name)
	s.defs[def.Name] = def
	return nil
}

// Get retrieves a definition by name.
func (s *ToolSet) Get(name string) (ToolDefinition, bool) {
	def, ok := s.defs[name]
	return def, ok
}

// Len returns the number of tools in the set.
func (s *ToolSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the tool names in insertion order.
func (s *ToolSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// All returns the definitions in insertion order.
func (s *ToolSet) All() []ToolDefinition {
	out := make([]ToolDefinition, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.defs[name])
	}
	return out
}

// ValidateArguments checks a decoded argument object against the declaring
// tool's parameter schema. This is advisory: adapters never reject a completed
// tool call themselves, they leave enforcement to the tool executor.
func (s *ToolSet) ValidateArguments(name string, args map[string]any) error {
	def, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}

	schema, err := compileParameterSchema(&def)
	if err != nil {
		return err
	}

	// Round-trip through JSON so numbers carry the decoding the validator
	// expects regardless of how the caller built the map.
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("tool %s: marshal arguments: %w", name, err)
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("tool %s: decode arguments: %w", name, err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("tool %s: invalid arguments: %w", name, err)
	}
	return nil
}

// compileParameterSchema compiles a tool's parameter schema for validation.
func compileParameterSchema(def *ToolDefinition) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(def.Parameters)
	if err != nil {
		return nil, fmt.Errorf("tool %s: marshal schema: %w", def.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("tool %s: decode schema: %w", def.Name, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("tool.json", doc); err != nil {
		return nil, fmt.Errorf("tool %s: add schema resource: %w", def.Name, err)
	}
	schema, err := compiler.Compile("tool.json")
	if err != nil {
		return nil, fmt.Errorf("tool %s: compile schema: %w", def.Name, err)
	}
	return schema, nil
}
