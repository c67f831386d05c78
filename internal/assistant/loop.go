package assistant

import (
	"context"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/mmogomedia/kaya/internal/tools"
)

// ToolResult records one executed tool call. Err is set instead of Output
// when the tool failed; the failure is also fed back to the model as data
// so it can retry with different arguments or answer in text.
type ToolResult struct {
	Name   string `json:"name"`
	Args   any    `json:"args,omitempty"`
	Output any    `json:"output,omitempty"`
	Err    string `json:"error,omitempty"`
}

// loopResult is the outcome of one tool-call loop run.
type loopResult struct {
	finalText  string
	results    []ToolResult
	iterations int
	truncated  bool
}

// engine drives the tool-call loop shared by all agents: ask the model,
// execute the tools it requests, feed the results back, repeat until the
// model answers in text or the round cap is hit.
type engine struct {
	g         *genkit.Genkit
	registry  *tools.Registry
	modelName string
	config    *ai.GenerationCommonConfig
	maxRounds int
	limiter   *rate.Limiter
	retry     RetryConfig
	logger    *slog.Logger
}

// run executes the loop for one query. The message sequence is local to
// this call: history is deep-copied and the caller's context is never
// mutated.
//
// The round cap is the single backpressure mechanism here. A confused model
// could otherwise request the same or contradictory tool calls forever, so
// once the cap is exceeded the loop exits with whatever text the model last
// produced and marks the result truncated.
func (e *engine) run(ctx context.Context, system string, toolRefs []ai.ToolRef, uc *AgentContext, query string) (*loopResult, error) {
	messages := deepCopyMessages(uc.history())
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(query)))

	res := &loopResult{}

	for round := 1; ; round++ {
		res.iterations = round

		opts := []ai.GenerateOption{
			ai.WithModelName(e.modelName),
			ai.WithSystem(system),
			ai.WithMessages(messages...),
			ai.WithTools(toolRefs...),
			ai.WithReturnToolRequests(true),
		}
		if e.config != nil {
			opts = append(opts, ai.WithConfig(e.config))
		}

		resp, err := e.generateWithRetry(ctx, opts)
		if err != nil {
			return nil, err
		}

		requests := resp.ToolRequests()
		if len(requests) == 0 {
			res.finalText = resp.Text()
			return res, nil
		}

		messages = append(messages, resp.Message)
		messages = append(messages, e.executeRequests(ctx, requests, res))

		if round >= e.maxRounds {
			res.finalText = resp.Text()
			res.truncated = true
			e.logger.Warn("tool-call loop truncated",
				"rounds", round,
				"tool_calls", len(res.results),
			)
			return res, nil
		}
	}
}

// executeRequests runs the model's tool requests in order and builds the
// tool-result message fed back to it. Tool errors do not abort the loop:
// each failure becomes both a ToolResult entry and an error payload in the
// tool response, correlated to its request by Ref.
func (e *engine) executeRequests(ctx context.Context, requests []*ai.ToolRequest, res *loopResult) *ai.Message {
	parts := make([]*ai.Part, 0, len(requests))

	for _, req := range requests {
		result := ToolResult{Name: req.Name, Args: req.Input}

		output, err := e.registry.Execute(&ai.ToolContext{Context: ctx}, req.Name, req.Input)
		if err != nil {
			result.Err = err.Error()
			output = map[string]any{"error": err.Error()}
			e.logger.Debug("tool execution failed",
				"tool", req.Name,
				"error", err,
			)
		} else {
			result.Output = output
		}
		res.results = append(res.results, result)

		parts = append(parts, ai.NewToolResponsePart(&ai.ToolResponse{
			Name:   req.Name,
			Ref:    req.Ref,
			Output: output,
		}))
	}

	return ai.NewMessage(ai.RoleTool, nil, parts...)
}
