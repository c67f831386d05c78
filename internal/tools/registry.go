package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Registry holds the executable tools for the manual tool-call loop.
// The model only receives tool schemas via Genkit; actual execution goes
// through Execute so tool failures can be fed back to the model as data
// instead of aborting the turn.
//
// Registry is populated once during Register and read-only afterwards,
// so it is safe for concurrent use.
type Registry struct {
	g     *genkit.Genkit
	tools map[string]*ExecutableTool
	order []string
}

func newRegistry(g *genkit.Genkit) *Registry {
	return &Registry{g: g, tools: make(map[string]*ExecutableTool)}
}

func (r *Registry) add(t *ExecutableTool) {
	if _, exists := r.tools[t.Name()]; exists {
		panic(fmt.Sprintf("BUG: duplicate tool registration: %s", t.Name()))
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
}

// Lookup returns the executable tool by name, or nil if unknown.
func (r *Registry) Lookup(name string) *ExecutableTool {
	return r.tools[name]
}

// Execute runs the named tool. Unknown tool names return a ToolError so the
// model gets a correctable signal rather than a hard failure.
func (r *Registry) Execute(ctx *ai.ToolContext, name string, input any) (any, error) {
	tool := r.tools[name]
	if tool == nil {
		return nil, &ToolError{ErrorType: "UnknownTool", Message: fmt.Sprintf("no tool named %q", name)}
	}
	return tool.Execute(ctx, input)
}

// Refs returns Genkit tool references for all registered tools, in
// registration order. These are passed to generate calls so the model
// sees the tool schemas.
func (r *Registry) Refs() []ai.ToolRef {
	refs := make([]ai.ToolRef, 0, len(r.order))
	for _, name := range r.order {
		if tool := genkit.LookupTool(r.g, name); tool != nil {
			refs = append(refs, tool)
		}
	}
	return refs
}

// RefsFor returns Genkit tool references for the named tools only, in the
// given order. Agents use this to expose a fixed subset of the tool set.
// Unknown or unregistered names are skipped.
func (r *Registry) RefsFor(names ...string) []ai.ToolRef {
	refs := make([]ai.ToolRef, 0, len(names))
	for _, name := range names {
		if _, ok := r.tools[name]; !ok {
			continue
		}
		if tool := genkit.LookupTool(r.g, name); tool != nil {
			refs = append(refs, tool)
		}
	}
	return refs
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return len(r.tools)
}
