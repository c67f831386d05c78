package tools

import (
	"encoding/json"
	"fmt"

	"github.com/firebase/genkit/go/ai"
)

// ExecutableTool pairs tool metadata with a type-erased execution function.
// Type erasure allows heterogeneous tool storage in the Registry while
// NewTool keeps the handler itself compile-time type safe.
type ExecutableTool struct {
	name        string
	description string

	// handler accepts *ai.ToolContext and any input, with JSON conversion
	// for the map[string]any inputs the model produces.
	handler func(*ai.ToolContext, any) (any, error)
}

// Name returns the tool's unique identifier.
func (t *ExecutableTool) Name() string {
	return t.name
}

// Description returns the tool's functionality description.
// The model uses this to decide when to call the tool.
func (t *ExecutableTool) Description() string {
	return t.description
}

// Execute runs the tool with the given context and input.
func (t *ExecutableTool) Execute(ctx *ai.ToolContext, input any) (any, error) {
	return t.handler(ctx, input)
}

// NewTool creates a tool with type-safe input and output handling.
//
// Type safety is guaranteed at compile time via generics [In, Out]; type
// erasure is performed internally to allow heterogeneous tool storage.
// Inputs arrive either as the typed struct or as map[string]any from the
// model, so the adapter falls back to JSON conversion.
func NewTool[In, Out any](
	name string,
	description string,
	handler func(*ai.ToolContext, In) (Out, error),
) *ExecutableTool {
	var zeroIn In

	erasedHandler := func(ctx *ai.ToolContext, input any) (any, error) {
		if typedInput, ok := input.(In); ok {
			return handler(ctx, typedInput)
		}

		jsonBytes, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input: %w", err)
		}

		var typedInput In
		if err := json.Unmarshal(jsonBytes, &typedInput); err != nil {
			return nil, fmt.Errorf("invalid input type: expected %T, got %T (unmarshal error: %w)", zeroIn, input, err)
		}
		return handler(ctx, typedInput)
	}

	return &ExecutableTool{
		name:        name,
		description: description,
		handler:     erasedHandler,
	}
}
