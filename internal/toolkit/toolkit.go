// Package toolkit provides the registry of named toolkits: statically
// declared sets of callable operations the agent loop can expose to the
// model. Tool arguments are validated against a declared parameter schema
// before invocation.
package toolkit

import (
	"context"
	"fmt"

	"github.com/seosiju/sheetgpt/internal/llm"
)

// Handler executes one tool invocation with already-validated arguments and
// returns a textual result.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Tool is one callable operation: a name, a JSON-schema-style parameter
// declaration, and the handler.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     Handler
}

// Toolkit is a named, fixed set of tools.
type Toolkit struct {
	Name  string
	tools map[string]Tool
	order []string
}

// NewToolkit creates a toolkit from its tool list.
func NewToolkit(name string, tools ...Tool) *Toolkit {
	tk := &Toolkit{
		Name:  name,
		tools: make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		tk.tools[t.Name] = t
		tk.order = append(tk.order, t.Name)
	}
	return tk
}

// Lookup returns the named tool.
func (tk *Toolkit) Lookup(name string) (Tool, bool) {
	t, ok := tk.tools[name]
	return t, ok
}

// Len reports the number of tools.
func (tk *Toolkit) Len() int {
	return len(tk.tools)
}

// Definitions renders the toolkit as wire-format tool descriptors, in
// declaration order so requests are deterministic.
func (tk *Toolkit) Definitions() []llm.Tool {
	defs := make([]llm.Tool, 0, len(tk.order))
	for _, name := range tk.order {
		t := tk.tools[name]
		defs = append(defs, llm.Tool{
			Type: "function",
			Function: llm.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return defs
}

// Invoke validates args against the tool's parameter schema and runs it.
func (t Tool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	if err := validateArgs(t.Parameters, args); err != nil {
		return "", fmt.Errorf("tool %s: %w", t.Name, err)
	}
	return t.Handler(ctx, args)
}

// validateArgs checks required properties for presence and primitive type
// per the declared schema. It is deliberately shallow: tools declare flat
// object parameters.
func validateArgs(schema, args map[string]any) error {
	if schema == nil {
		return nil
	}

	props, _ := schema["properties"].(map[string]any)
	required, _ := schema["required"].([]string)
	if required == nil {
		// Schemas built from decoded JSON carry []any instead.
		if raw, ok := schema["required"].([]any); ok {
			for _, r := range raw {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
		}
	}

	for _, name := range required {
		v, present := args[name]
		if !present {
			return fmt.Errorf("missing required argument %q", name)
		}
		prop, _ := props[name].(map[string]any)
		wantType, _ := prop["type"].(string)
		if wantType != "" && !matchesType(v, wantType) {
			return fmt.Errorf("argument %q is not a %s", name, wantType)
		}
	}
	return nil
}

func matchesType(v any, wantType string) bool {
	switch wantType {
	case "string":
		_, ok := v.(string)
		return ok
	case "number", "integer":
		switch v.(type) {
		case float64, int:
			return true
		}
		return false
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	default:
		return true
	}
}

// ── Registry ────────────────────────────────────────────────

// Registry maps toolkit names to toolkits.
type Registry struct {
	toolkits map[string]*Toolkit
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{toolkits: make(map[string]*Toolkit)}
}

// Register adds a toolkit, replacing any previous one of the same name.
func (r *Registry) Register(tk *Toolkit) {
	r.toolkits[tk.Name] = tk
}

// Resolve returns the named toolkit. An unknown name resolves to an empty
// toolkit rather than an error; the agent loop treats empty as invalid.
func (r *Registry) Resolve(name string) *Toolkit {
	if tk, ok := r.toolkits[name]; ok {
		return tk
	}
	return NewToolkit(name)
}
