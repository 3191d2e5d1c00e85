package tools

import (
	"context"
	"fmt"
)

// Result is the outcome of a tool handler. Both success and failure carry
// human-readable text only: the sole consumer is the reasoning step, which
// understands nothing else. Failed is metadata for logging and metrics.
type Result struct {
	Text   string
	Failed bool
}

// Success returns a successful tool result with the given text.
func Success(text string) Result {
	return Result{Text: text}
}

// Successf returns a successful tool result with formatted text.
func Successf(format string, args ...any) Result {
	return Result{Text: fmt.Sprintf(format, args...)}
}

// Failure returns a failed tool result. The text is still surfaced to the
// reasoning step as the tool's output, never raised as a Go error.
func Failure(text string) Result {
	return Result{Text: text, Failed: true}
}

// Failuref returns a failed tool result with formatted text.
func Failuref(format string, args ...any) Result {
	return Result{Text: fmt.Sprintf(format, args...), Failed: true}
}

// Handler executes one tool invocation against the given arguments.
type Handler func(ctx context.Context, args map[string]any) Result

// Definition describes one operation of the tool catalog: its name, the
// contract text shown to the reasoning step, the JSON schema of its
// parameters, and the handler that executes it.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     Handler
}

// Registry is the static tool catalog, constructed once at startup and
// passed by reference into the dispatcher. Lookup is by operation name;
// iteration preserves registration order.
type Registry struct {
	order []string
	defs  map[string]Definition
}

// NewRegistry builds a registry from the given definitions.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("tool definition without a name")
		}
		if def.Handler == nil {
			return nil, fmt.Errorf("tool %s has no handler", def.Name)
		}
		if _, exists := r.defs[def.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %s", def.Name)
		}
		r.defs[def.Name] = def
		r.order = append(r.order, def.Name)
	}
	return r, nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// All returns the definitions in registration order.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
